package cache

import (
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// MemoryStore keeps entries in process memory
type MemoryStore[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	now     func() time.Time
}

// NewMemoryStore creates an empty in-process store
func NewMemoryStore[V any]() *MemoryStore[V] {
	return &MemoryStore[V]{
		entries: make(map[string]entry[V]),
		now:     time.Now,
	}
}

// WithClock replaces the store's time source
func (s *MemoryStore[V]) WithClock(now func() time.Time) *MemoryStore[V] {
	s.now = now
	return s
}

// Get retrieves a value if not expired. Expired entries are dropped.
func (s *MemoryStore[V]) Get(_ context.Context, key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores a value for ttl
func (s *MemoryStore[V]) Set(_ context.Context, key string, value V, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry[V]{value: value, expiresAt: s.now().Add(ttl)}
}

// Size returns the number of stored entries, including ones not yet evicted
func (s *MemoryStore[V]) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
