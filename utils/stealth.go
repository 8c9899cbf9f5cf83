package utils

import (
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

// RandomDelay pauses execution for a random time between min and max (milliseconds)
func RandomDelay(min, max int) {
	if min >= max {
		time.Sleep(time.Duration(min) * time.Millisecond)
		return
	}
	duration := time.Duration(rand.Intn(max-min)+min) * time.Millisecond
	time.Sleep(duration)
}

// HumanPause blocks for minWait plus a random 0.5-2.0s, emulating a person
// reading the page after navigation.
func HumanPause(minWait time.Duration) {
	extra := time.Duration(500+rand.Intn(1500)) * time.Millisecond
	time.Sleep(minWait + extra)
}

// MouseJiggle simulates random mouse movements
func MouseJiggle(page playwright.Page) {
	x := float64(rand.Intn(800) + 100) //100-900
	y := float64(rand.Intn(600) + 100) //100-700

	page.Mouse().Move(x, y)
	RandomDelay(100, 300)
}

// SmoothScroll simulates human scrolling behavior
func SmoothScroll(page playwright.Page) {
	page.Mouse().Wheel(0, 500)
	RandomDelay(500, 1000)

	//scroll up a tiny bit (human-like correction)
	page.Mouse().Wheel(0, -200)
	RandomDelay(300, 800)
}
