package cache

import (
	"context"
	"time"

	"github.com/acorn-hc/acorn-sports/internal/metrics"
)

// Store holds values with a per-entry TTL
type Store[V any] interface {
	// Get returns the value for key if present and not expired
	Get(ctx context.Context, key string) (V, bool)
	// Set stores value for ttl
	Set(ctx context.Context, key string, value V, ttl time.Duration)
}

// Cache adds get-or-compute semantics on top of a Store
type Cache[V any] struct {
	name    string
	store   Store[V]
	metrics *metrics.Metrics
}

// New creates a named cache. name labels the hit/miss metrics.
func New[V any](name string, store Store[V], m *metrics.Metrics) *Cache[V] {
	return &Cache[V]{name: name, store: store, metrics: m}
}

// Name returns the cache name
func (c *Cache[V]) Name() string {
	return c.name
}

// Get returns a fresh cached value
func (c *Cache[V]) Get(ctx context.Context, key string) (V, bool) {
	return c.store.Get(ctx, key)
}

// Set overwrites the cached value for key
func (c *Cache[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.store.Set(ctx, key, value, ttl)
}

// GetOrCompute returns the cached value for key, or runs compute and caches its
// result for ttl. Errors from compute are returned and nothing is stored.
// A ttl of zero or less disables caching for the call.
func (c *Cache[V]) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute func(context.Context) (V, error)) (V, error) {
	if ttl > 0 {
		if v, ok := c.store.Get(ctx, key); ok {
			c.metrics.RecordCache(c.name, true)
			return v, nil
		}
	}
	c.metrics.RecordCache(c.name, false)

	v, err := compute(ctx)
	if err != nil {
		return v, err
	}
	c.Set(ctx, key, v, ttl)
	return v, nil
}
