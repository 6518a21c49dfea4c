package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/acorn-hc/acorn-sports/internal/logger"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every key written to Redis
const KeyPrefix = "acorn:sports:"

// RedisClient is the subset of the go-redis client the store uses
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore shares cached values between processes as JSON.
// Redis failures are logged and treated as misses.
type RedisStore[V any] struct {
	client RedisClient
}

// NewRedisStore creates a store backed by client
func NewRedisStore[V any](client RedisClient) *RedisStore[V] {
	return &RedisStore[V]{client: client}
}

// Get reads and decodes key
func (s *RedisStore[V]) Get(ctx context.Context, key string) (V, bool) {
	var v V
	data, err := s.client.Get(ctx, KeyPrefix+key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("redis cache read failed", logger.Fields{"key": key, "error": err.Error()})
		}
		return v, false
	}
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		logger.Warn("redis cache entry undecodable", logger.Fields{"key": key, "error": err.Error()})
		var zero V
		return zero, false
	}
	return v, true
}

// Set encodes value and writes it with ttl
func (s *RedisStore[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn("redis cache entry unencodable", logger.Fields{"key": key, "error": err.Error()})
		return
	}
	if err := s.client.Set(ctx, KeyPrefix+key, data, ttl).Err(); err != nil {
		logger.Warn("redis cache write failed", logger.Fields{"key": key, "error": err.Error()})
	}
}
