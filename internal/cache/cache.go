// Package cache is an in-memory key-value store with per-entry TTL.
// Entries expire lazily on access and proactively via a background
// sweep, so keys that are never re-queried still get reclaimed. There
// is no LRU and no size bound: the key space is one entry per distinct
// (artist, country) pair actually queried, so TTL expiry is enough.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultTTL is applied when Set is called with a non-positive TTL.
const DefaultTTL = time.Hour

// DefaultSweepInterval is how often the background sweep runs.
const DefaultSweepInterval = 5 * time.Minute

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Cache is safe for concurrent use by multiple in-flight aggregations.
type Cache[T any] struct {
	mu         sync.RWMutex
	entries    map[string]entry[T]
	defaultTTL time.Duration
}

// New creates a cache with the given default TTL (DefaultTTL if
// non-positive).
func New[T any](defaultTTL time.Duration) *Cache[T] {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Cache[T]{
		entries:    make(map[string]entry[T]),
		defaultTTL: defaultTTL,
	}
}

// Set stores value under key with an absolute expiry of now+ttl,
// falling back to the default TTL when ttl is non-positive.
func (c *Cache[T]) Set(key string, value T, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[T]{value: value, expiresAt: time.Now().Add(ttl)}
}

// Get returns the stored value and true, or the zero value and false
// on miss or expiry. Expired entries are deleted on access.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero T
	if !ok {
		return zero, false
	}
	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have
		// refreshed the entry.
		if cur, ok := c.entries[key]; ok && time.Now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Has reports whether key exists and has not expired.
func (c *Cache[T]) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Delete removes key. Reports whether an entry was present.
func (c *Cache[T]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	return ok
}

// Clear removes every entry.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[T])
}

// Stats reports the live entry count and keys, sweeping expired
// entries first.
func (c *Cache[T]) Stats() (size int, keys []string) {
	c.sweep()
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys = make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return len(c.entries), keys
}

func (c *Cache[T]) sweep() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// StartSweeper runs the expiry sweep every interval
// (DefaultSweepInterval if non-positive) until ctx is cancelled.
func (c *Cache[T]) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// Key builds the normalized cache key for a performance search:
// lowercased, trimmed artist and country joined by a colon, with
// "worldwide" standing in when no country was requested.
func Key(artist, country string) string {
	a := strings.ToLower(strings.TrimSpace(artist))
	co := strings.ToLower(strings.TrimSpace(country))
	if co == "" {
		co = "worldwide"
	}
	return a + ":" + co
}
