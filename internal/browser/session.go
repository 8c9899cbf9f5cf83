// Own exactly one Chromium process
// Navigation failures are logged and reported as "no data", never fatal

package browser

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-jobsearch-assistant/internal/config"
	"go-jobsearch-assistant/utils"
)

const navigationTimeoutMs = 30000

// Session wraps a single automated browser: one Playwright runtime, one
// Chromium instance, one page. It is not safe for concurrent use; the scrape
// pipeline serializes access (see scraper.Pipeline).
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	ctx     playwright.BrowserContext
	page    playwright.Page

	mu     sync.Mutex
	closed bool
}

// NewSession launches Chromium with a randomized user agent and a fixed
// desktop viewport. Headless mode comes from configuration.
func NewSession(cfg *config.Config) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not launch playwright: %w", err)
	}

	browserProc, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.HeadlessBrowser),
		Args: []string{
			"--disable-gpu",
			"--no-sandbox",
			"--disable-dev-shm-usage",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	ua := cfg.UserAgents[rand.Intn(len(cfg.UserAgents))]
	browserCtx, err := browserProc.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(ua),
		Viewport:  &playwright.Size{Width: 1920, Height: 1080},
	})
	if err != nil {
		browserProc.Close()
		pw.Stop()
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		browserCtx.Close()
		browserProc.Close()
		pw.Stop()
		return nil, fmt.Errorf("could not create page: %w", err)
	}

	log.Println("✅ Browser initialized")
	return &Session{
		pw:      pw,
		browser: browserProc,
		ctx:     browserCtx,
		page:    page,
	}, nil
}

// Navigate loads url and then pauses minWait plus a random 0.5-2.0s to look
// human. Returns false on failure; callers treat that as "no data available".
func (s *Session) Navigate(url string, minWait time.Duration) bool {
	if _, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(navigationTimeoutMs),
	}); err != nil {
		log.Printf("⚠️ Error navigating to %s: %v", url, err)
		return false
	}
	utils.HumanPause(minWait)
	return true
}

// Content returns the fully rendered markup of the current page.
func (s *Session) Content() (string, error) {
	return s.page.Content()
}

// WaitFor blocks until at least one element matching selector is attached,
// or the timeout elapses.
func (s *Session) WaitFor(selector string, timeout time.Duration) error {
	return s.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

// HighlightNth applies an inline style mutation to the i-th element matching
// selector. Purely cosmetic: failures are ignored.
func (s *Session) HighlightNth(selector string, i int, style string) {
	s.page.Locator(selector).Nth(i).Evaluate("(el, style) => { el.style.cssText += style }", style)
}

// HighlightFirst applies an inline style mutation to the first match.
func (s *Session) HighlightFirst(selector string, style string) {
	s.page.Locator(selector).First().Evaluate("(el, style) => { el.style.cssText += style }", style)
}

// Jiggle runs the human-behavior helpers against the current page.
func (s *Session) Jiggle() {
	utils.MouseJiggle(s.page)
	utils.SmoothScroll(s.page)
}

// Page exposes the underlying page for debug tooling (screenshots).
func (s *Session) Page() playwright.Page {
	return s.page
}

// Close releases the browser process. Safe to call multiple times.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true

	if err := s.page.Close(); err != nil {
		log.Printf("⚠️ Error closing page: %v", err)
	}
	if err := s.ctx.Close(); err != nil {
		log.Printf("⚠️ Error closing browser context: %v", err)
	}
	if err := s.browser.Close(); err != nil {
		log.Printf("⚠️ Error closing browser: %v", err)
	}
	if err := s.pw.Stop(); err != nil {
		log.Printf("⚠️ Error stopping playwright: %v", err)
	}
	log.Println("🔒 Browser closed")
}
