// Package query provides cached, de-duplicated data fetching for the shell.
//
// A Cache holds keyed fetch results with a freshness window. Concurrent
// fetches for the same key collapse into one in-flight request; expired
// entries are served stale while a refresh runs. Resource and Use bind a
// keyed fetch to a widget state's lifetime.
package query

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Fetcher loads the value for a key from the backing service.
type Fetcher func(ctx context.Context) (any, error)

type entry struct {
	value     any
	fetchedAt time.Time
}

// Cache stores fetch results keyed by request identity.
type Cache struct {
	ttl   time.Duration
	clock func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock replaces the cache's time source. Used by tests.
func WithClock(clock func() time.Time) CacheOption {
	return func(c *Cache) { c.clock = clock }
}

// NewCache creates a cache whose entries stay fresh for ttl.
// A zero ttl means entries are always stale and every Get refetches
// (still de-duplicating concurrent calls).
func NewCache(ttl time.Duration, opts ...CacheOption) *Cache {
	c := &Cache{
		ttl:     ttl,
		clock:   time.Now,
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key, fetching it if absent or stale.
// Concurrent Gets for the same key share a single fetch. A failed fetch
// leaves any previous entry in place.
func (c *Cache) Get(ctx context.Context, key string, fetch Fetcher) (any, error) {
	if value, ok, stale := c.Peek(key); ok && !stale {
		return value, nil
	}

	value, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check freshness: another caller may have refreshed the entry
		// between our Peek and the flight starting.
		if value, ok, stale := c.Peek(key); ok && !stale {
			return value, nil
		}
		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = &entry{value: value, fetchedAt: c.clock()}
		c.mu.Unlock()
		return value, nil
	})
	return value, err
}

// Peek returns the cached value for key without fetching.
// stale reports whether the entry has outlived the freshness window.
func (c *Cache) Peek(key string) (value any, ok bool, stale bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false, false
	}
	return e.value, true, c.clock().Sub(e.fetchedAt) >= c.ttl
}

// Invalidate drops the entry for key. The next Get refetches.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidateAll drops every entry.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]*entry)
	c.mu.Unlock()
}
