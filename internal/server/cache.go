package server

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ResultCache is a concurrent-safe LRU cache for encoded coverage results
// with TTL expiration. The engine is deterministic, so the TTL exists only
// to pick up boundary-data reloads, not because entries go stale on their
// own.
type ResultCache struct {
	mu         sync.Mutex
	entries    map[string]*cacheEntry
	order      []string // LRU order: front=oldest, back=newest
	maxEntries int
	ttl        time.Duration
	hits       atomic.Int64
	misses     atomic.Int64
}

type cacheEntry struct {
	data      []byte
	createdAt time.Time
}

// CacheStats contains cache performance statistics.
type CacheStats struct {
	Entries    int     `json:"entries"`
	MaxEntries int     `json:"max_entries"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRate    float64 `json:"hit_rate"`
}

// NewResultCache creates a ResultCache with the given capacity and TTL.
func NewResultCache(maxEntries int, ttl time.Duration) *ResultCache {
	return &ResultCache{
		entries:    make(map[string]*cacheEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

// resultKey builds the cache key for a country at a depth limit.
func resultKey(countryCode string, maxDepth int) string {
	return fmt.Sprintf("%s/%d", countryCode, maxDepth)
}

// Get retrieves a cached result. Returns nil on miss or expiration.
func (c *ResultCache) Get(countryCode string, maxDepth int) []byte {
	key := resultKey(countryCode, maxDepth)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		return nil
	}
	if c.ttl > 0 && time.Since(entry.createdAt) > c.ttl {
		delete(c.entries, key)
		c.removeFromOrder(key)
		c.misses.Add(1)
		return nil
	}

	c.touch(key)
	c.hits.Add(1)
	return entry.data
}

// Put stores an encoded result, evicting the least recently used entry when
// the cache is full.
func (c *ResultCache) Put(countryCode string, maxDepth int, data []byte) {
	key := resultKey(countryCode, maxDepth)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = &cacheEntry{data: data, createdAt: time.Now()}
		c.touch(key)
		return
	}

	for len(c.entries) >= c.maxEntries && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = &cacheEntry{data: data, createdAt: time.Now()}
	c.order = append(c.order, key)
}

// Stats returns a snapshot of cache statistics.
func (c *ResultCache) Stats() CacheStats {
	c.mu.Lock()
	entries := len(c.entries)
	c.mu.Unlock()

	hits := c.hits.Load()
	misses := c.misses.Load()
	var rate float64
	if hits+misses > 0 {
		rate = float64(hits) / float64(hits+misses)
	}
	return CacheStats{
		Entries:    entries,
		MaxEntries: c.maxEntries,
		Hits:       hits,
		Misses:     misses,
		HitRate:    rate,
	}
}

// touch moves key to the back of the LRU order. Caller holds the lock.
func (c *ResultCache) touch(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

// removeFromOrder removes key from the LRU order. Caller holds the lock.
func (c *ResultCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
