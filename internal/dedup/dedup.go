// File-backed cache of job URLs the assistant already notified about,
// so repeated runs stay quiet about known listings.

package dedup

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const retention = 30 * 24 * time.Hour

type cacheEntry struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

type NotifiedCache struct {
	mu   sync.Mutex
	path string
	seen map[string]int64
}

// NewNotifiedCache loads the cache file from cacheDir, dropping entries older
// than the retention window.
func NewNotifiedCache(cacheDir string) *NotifiedCache {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create cache directory: %v", err)
	}
	c := &NotifiedCache{
		path: filepath.Join(cacheDir, "notified_jobs.json"),
		seen: make(map[string]int64),
	}
	c.load()
	return c
}

// Seen reports whether a URL was already notified about.
func (c *NotifiedCache) Seen(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.seen[url]
	return ok
}

// Remember records the URLs and persists the cache when anything changed.
func (c *NotifiedCache) Remember(urls []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixMilli()
	changed := false
	for _, url := range urls {
		if url == "" {
			continue
		}
		if _, ok := c.seen[url]; !ok {
			c.seen[url] = now
			changed = true
		}
	}
	if changed {
		c.save()
	}
}

func (c *NotifiedCache) load() {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read notified-jobs cache: %v", err)
		}
		return
	}

	var entries []cacheEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Failed to parse notified-jobs cache: %v", err)
		return
	}

	cutoff := time.Now().Add(-retention).UnixMilli()
	for _, e := range entries {
		if e.Timestamp > cutoff {
			c.seen[e.URL] = e.Timestamp
		}
	}
}

// save runs with c.mu held.
func (c *NotifiedCache) save() {
	entries := make([]cacheEntry, 0, len(c.seen))
	for url, ts := range c.seen {
		entries = append(entries, cacheEntry{URL: url, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal notified-jobs cache: %v", err)
		return
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write notified-jobs cache: %v", err)
	}
}
