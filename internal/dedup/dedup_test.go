package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRememberAndSeen(t *testing.T) {
	dir := t.TempDir()
	c := NewNotifiedCache(dir)

	assert.False(t, c.Seen("https://indeed.com/jobs/1"))

	c.Remember([]string{"https://indeed.com/jobs/1", "", "https://indeed.com/jobs/2"})

	assert.True(t, c.Seen("https://indeed.com/jobs/1"))
	assert.True(t, c.Seen("https://indeed.com/jobs/2"))
	assert.False(t, c.Seen(""))
}

func TestCacheSurvivesReload(t *testing.T) {
	dir := t.TempDir()

	c := NewNotifiedCache(dir)
	c.Remember([]string{"https://indeed.com/jobs/1"})

	reloaded := NewNotifiedCache(dir)
	assert.True(t, reloaded.Seen("https://indeed.com/jobs/1"))
	assert.False(t, reloaded.Seen("https://indeed.com/jobs/9"))
}
