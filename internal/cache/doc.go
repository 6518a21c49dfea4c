// Package cache provides the time-bounded caches that keep the athletics site out of
// the request path.
//
// A Cache wraps a Store (in-process memory or Redis) with read-if-fresh,
// else-recompute-and-overwrite semantics. Concurrent misses for the same key may each
// run compute; callers must only cache idempotent, side-effect-free computations.
// Failed computations are never stored.
package cache
