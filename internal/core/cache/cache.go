// Package cache provides the time-boxed in-memory resource cache that each
// accessor owns. One instance serves one resource kind; instances are never
// shared between accessors.
package cache

import (
	"sync"
	"time"

	"github.com/carepoint/portal-client/internal/metrics"
)

// DefaultTTL is the staleness window observed for reference data such as
// the qualification list.
const DefaultTTL = 5 * time.Minute

// Entry is a cached value with its fetch time. Entries are replaced
// wholesale and never handed out by reference.
type Entry[V any] struct {
	Value     V
	FetchedAt time.Time
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Cache maps resource identities to values for a fixed TTL. A zero TTL
// disables caching: Put is a no-op and Get always misses.
//
// Two Puts for the same key simply overwrite each other. Invalidation bumps
// a generation counter so that a fill whose fetch started before the
// invalidation can be dropped with PutIfCurrent.
type Cache[K comparable, V any] struct {
	name string
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries map[K]Entry[V]
	gen     uint64
}

// New returns an empty cache. name labels its metrics.
func New[K comparable, V any](name string, ttl time.Duration, opts ...Option) *Cache[K, V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache[K, V]{
		name:    name,
		ttl:     ttl,
		now:     o.now,
		entries: make(map[K]Entry[V]),
	}
}

func (c *Cache[K, V]) Name() string       { return c.name }
func (c *Cache[K, V]) TTL() time.Duration { return c.ttl }

// Get returns the value for key unless it is absent or older than the TTL.
// Expired entries are dropped.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	var zero V
	if c.ttl == 0 {
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		metrics.CacheLookupsTotal.WithLabelValues(c.name, "miss").Inc()
		return zero, false
	}
	if c.now().Sub(e.FetchedAt) > c.ttl {
		delete(c.entries, key)
		metrics.CacheLookupsTotal.WithLabelValues(c.name, "expired").Inc()
		return zero, false
	}
	metrics.CacheLookupsTotal.WithLabelValues(c.name, "hit").Inc()
	return e.Value, true
}

// Put stores value under key, replacing any previous entry.
func (c *Cache[K, V]) Put(key K, value V) {
	if c.ttl == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry[V]{Value: value, FetchedAt: c.now()}
}

// Generation returns the invalidation counter. Read it before starting a
// fetch and pass it to PutIfCurrent when the fetch completes.
func (c *Cache[K, V]) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// PutIfCurrent stores value only if no invalidation happened since gen was
// read. It reports whether the value was stored.
func (c *Cache[K, V]) PutIfCurrent(key K, value V, gen uint64) bool {
	if c.ttl == 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.entries[key] = Entry[V]{Value: value, FetchedAt: c.now()}
	return true
}

// Invalidate drops key.
func (c *Cache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.gen++
	metrics.CacheInvalidationsTotal.WithLabelValues(c.name, "key").Inc()
}

// InvalidateAll drops every entry.
func (c *Cache[K, V]) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.gen++
	metrics.CacheInvalidationsTotal.WithLabelValues(c.name, "all").Inc()
}

// InvalidateFunc drops every key for which match returns true.
func (c *Cache[K, V]) InvalidateFunc(match func(K) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if match(k) {
			delete(c.entries, k)
		}
	}
	c.gen++
	metrics.CacheInvalidationsTotal.WithLabelValues(c.name, "key").Inc()
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
