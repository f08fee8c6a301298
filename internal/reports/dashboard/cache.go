package dashboard

import (
	"context"
	"sync"
	"time"
)

// summaryKey is the cache key of the portfolio summary
const summaryKey = "dashboard:summary"

// Cache stores the computed summary between scenario changes
type Cache interface {
	GetSummary(ctx context.Context) (*Summary, bool, error)
	SetSummary(ctx context.Context, summary *Summary) error
	Invalidate(ctx context.Context) error
}

// AggregateCache provides in-memory caching for aggregates
type AggregateCache struct {
	data    map[string]*cacheEntry
	ttl     time.Duration
	mu      sync.RWMutex
	cleanup *time.Ticker
	done    chan struct{}
	stop    sync.Once
}

// cacheEntry represents a cache entry with expiration
type cacheEntry struct {
	value      interface{}
	expiration time.Time
}

// NewAggregateCache creates a new aggregate cache. Stop must be called to
// release its cleanup goroutine.
func NewAggregateCache(ttl time.Duration) *AggregateCache {
	cache := &AggregateCache{
		data:    make(map[string]*cacheEntry),
		ttl:     ttl,
		cleanup: time.NewTicker(time.Minute),
		done:    make(chan struct{}),
	}

	go cache.cleanupLoop()

	return cache
}

// Get retrieves a value from the cache
func (c *AggregateCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[key]
	if !ok || time.Now().After(entry.expiration) {
		return nil, false
	}
	return entry.value, true
}

// Set stores a value in the cache
func (c *AggregateCache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = &cacheEntry{
		value:      value,
		expiration: time.Now().Add(c.ttl),
	}
}

// Delete removes a value from the cache
func (c *AggregateCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, key)
}

// Size returns the number of entries in the cache
func (c *AggregateCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.data)
}

// GetSummary implements Cache
func (c *AggregateCache) GetSummary(_ context.Context) (*Summary, bool, error) {
	v, ok := c.Get(summaryKey)
	if !ok {
		return nil, false, nil
	}
	summary, ok := v.(*Summary)
	return summary, ok, nil
}

// SetSummary implements Cache
func (c *AggregateCache) SetSummary(_ context.Context, summary *Summary) error {
	c.Set(summaryKey, summary)
	return nil
}

// Invalidate implements Cache
func (c *AggregateCache) Invalidate(_ context.Context) error {
	c.Delete(summaryKey)
	return nil
}

// Stop stops the cleanup goroutine
func (c *AggregateCache) Stop() {
	c.stop.Do(func() {
		c.cleanup.Stop()
		close(c.done)
	})
}

// cleanupLoop periodically removes expired entries
func (c *AggregateCache) cleanupLoop() {
	for {
		select {
		case <-c.cleanup.C:
			c.removeExpired()
		case <-c.done:
			return
		}
	}
}

// removeExpired removes expired entries
func (c *AggregateCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.data {
		if now.After(entry.expiration) {
			delete(c.data, key)
		}
	}
}
