// internal/service/discovery/cache.go

package discovery

import (
	"fmt"
	"sync"
	"time"

	"geofeed/internal/domain/content"
)

// DefaultCacheTTL is how long a computed result stays fresh
const DefaultCacheTTL = 5 * time.Minute

// cacheEntry is one memoized result
type cacheEntry struct {
	items      []content.Item
	computedAt time.Time
}

// Cache memoizes discovery results by key. Entries expire purely by age;
// writes never evict other keys.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	clock   content.Clock
}

// NewCache creates a cache. A non-positive ttl uses DefaultCacheTTL; a nil
// clock uses the system clock.
func NewCache(ttl time.Duration, clock content.Clock) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if clock == nil {
		clock = content.SystemClock{}
	}

	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

// Get returns the items stored under key if they are younger than the ttl
func (c *Cache) Get(key string) ([]content.Item, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if c.clock.Now().Sub(e.computedAt) >= c.ttl {
		c.mu.Lock()
		if e2, ok2 := c.entries[key]; ok2 && c.clock.Now().Sub(e2.computedAt) >= c.ttl {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return cloneItems(e.items), true
}

// Set stores items under key, replacing any previous entry
func (c *Cache) Set(key string, items []content.Item) {
	e := cacheEntry{
		items:      cloneItems(items),
		computedAt: c.clock.Now(),
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
}

// Clear removes every entry
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Len returns the number of stored entries, fresh or stale
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CacheKey builds "{mode}_{timeframe}_{bucket}_{limit}"
func CacheKey(mode, timeframe, bucket string, limit int) string {
	return fmt.Sprintf("%s_%s_%s_%d", mode, timeframe, bucket, limit)
}

// cloneItems deep-copies items, including the Trending and Location
// pointees, so callers cannot reach into cached state
func cloneItems(items []content.Item) []content.Item {
	out := make([]content.Item, len(items))
	for i, item := range items {
		if item.Trending != nil {
			score := *item.Trending
			item.Trending = &score
		}
		if item.Location != nil {
			loc := *item.Location
			item.Location = &loc
		}
		out[i] = item
	}
	return out
}
