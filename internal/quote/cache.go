package quote

import (
	"sync"
	"time"

	"BistRadar/internal/model"
)

// Cache memoizes quotes per symbol and logical purpose for a bounded
// time. The same symbol may be cached under different TTLs for
// different consumers, hence the purpose component of the key.
// Unbounded in count, bounded in staleness: the only eviction is TTL
// expiry on read.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*model.Quote
	source  Fetcher
	now     func() time.Time
}

// NewCache wraps source with TTL memoization.
func NewCache(source Fetcher) *Cache {
	return &Cache{
		entries: make(map[string]*model.Quote),
		source:  source,
		now:     time.Now,
	}
}

// GetOrFetch returns the cached quote for symbol if its age is below
// ttl, otherwise fetches a fresh one and stores it. Staleness is
// wall-clock delta from the stored fetch timestamp, not the
// provider-reported market time. The read-check-write sequence is
// atomic per cache.
func (c *Cache) GetOrFetch(symbol, purpose string, ttl time.Duration) *model.Quote {
	key := symbol + "|" + purpose

	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.entries[key]; ok && c.now().Sub(cached.FetchedAt) < ttl {
		q := *cached
		q.FromCache = true
		return &q
	}

	q := c.source.Fetch(symbol)
	c.entries[key] = q
	return q
}
