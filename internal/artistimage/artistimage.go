// Package artistimage resolves artist names to portrait URLs. Three
// sources are supported plus a policy that tries them in quality
// order. Each adapter keeps a process-lifetime cache of results,
// including misses, since artists repeat heavily across queries.
package artistimage

import "sync"

// resultCache remembers image lookups for the life of the process. A
// stored empty string is a remembered miss and stops the adapter from
// retrying an artist that has no image.
type resultCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

func newResultCache() *resultCache {
	return &resultCache{entries: make(map[string]string)}
}

func (c *resultCache) get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	url, ok := c.entries[key]
	return url, ok
}

func (c *resultCache) set(key, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = url
}
