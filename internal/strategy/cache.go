package strategy

import "sync"

// Cache stores generated recommendations keyed by record fingerprint, so
// re-uploads of the same spreadsheet within a process lifetime skip the API.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewCache creates an empty recommendation cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]string)}
}

// Get returns the cached recommendation for a fingerprint, if present.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Set stores a recommendation under a fingerprint.
func (c *Cache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
