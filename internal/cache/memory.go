package cache

import (
	"context"
	"sync"
	"time"

	"github.com/BrainTwoPoint0/nexus-sub002/internal/domain/model"
	"github.com/BrainTwoPoint0/nexus-sub002/pkg/metrics"
)

// MemoryOption applies a configuration option to the MemoryCache.
type MemoryOption func(*MemoryCache)

// WithMaxEntries bounds the cache size. Oldest entries are evicted first.
func WithMaxEntries(n int) MemoryOption {
	return func(c *MemoryCache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithTTL sets how long entries stay valid.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(c *MemoryCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithMemoryClock overrides the time source, mainly for tests.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) {
		if now != nil {
			c.now = now
		}
	}
}

type memoryEntry struct {
	score     model.MatchScore
	expiresAt time.Time
}

// MemoryCache is a bounded in-memory cache with TTL expiry and FIFO
// eviction. Thread-safe via mutex.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[model.PairKey]memoryEntry
	order      []model.PairKey // insertion order, oldest first
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

// NewMemoryCache creates a new in-memory score cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{
		maxEntries: defaultMaxEntries,
		ttl:        defaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = make(map[model.PairKey]memoryEntry, c.maxEntries)
	return c
}

// Get returns the cached score for a pair and whether it was present.
func (c *MemoryCache) Get(_ context.Context, key model.PairKey) (model.MatchScore, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		metrics.RecordCacheMiss()
		return model.MatchScore{}, false
	}
	if c.now().After(entry.expiresAt) {
		c.remove(key)
		metrics.RecordCacheMiss()
		return model.MatchScore{}, false
	}

	metrics.RecordCacheHit()
	return entry.score, true
}

// Set stores a score, replacing any previous entry for its pair.
func (c *MemoryCache) Set(_ context.Context, score model.MatchScore) {
	key := score.Key()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		if len(c.entries) >= c.maxEntries {
			c.evictOldest()
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = memoryEntry{
		score:     score,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Invalidate drops the entry for a pair, if any.
func (c *MemoryCache) Invalidate(_ context.Context, key model.PairKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(key)
}

// Len returns the current number of live entries.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictOldest drops the oldest entry. Must be called with c.mu held.
func (c *MemoryCache) evictOldest() {
	for len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		if _, ok := c.entries[oldest]; ok {
			delete(c.entries, oldest)
			metrics.RecordCacheEviction()
			return
		}
		// Stale order entry left behind by Invalidate; skip it.
	}
}

// remove drops a key from both the map and the order slice.
// Must be called with c.mu held.
func (c *MemoryCache) remove(key model.PairKey) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
