package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	data    map[string]string
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	setKeys []string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	f.setKeys = append(f.setKeys, key)
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	client := newFakeRedis()
	s := NewRedisStore[map[string]int](client)
	ctx := context.Background()

	if _, ok := s.Get(ctx, "schedule-ids"); ok {
		t.Fatal("Get() on empty redis should miss")
	}

	s.Set(ctx, "schedule-ids", map[string]int{"msoc": 401, "wsoc": 402}, 24*time.Hour)

	if client.ttls[KeyPrefix+"schedule-ids"] != 24*time.Hour {
		t.Errorf("ttl = %v, want 24h", client.ttls[KeyPrefix+"schedule-ids"])
	}

	got, ok := s.Get(ctx, "schedule-ids")
	if !ok {
		t.Fatal("Get() after Set() should hit")
	}
	if got["msoc"] != 401 || got["wsoc"] != 402 {
		t.Errorf("Get() = %v", got)
	}
}

func TestRedisStore_ErrorsAreMisses(t *testing.T) {
	client := newFakeRedis()
	client.getErr = errors.New("connection refused")
	s := NewRedisStore[string](client)

	if _, ok := s.Get(context.Background(), "k"); ok {
		t.Error("Get() with redis error should miss")
	}
}

func TestRedisStore_UndecodableIsMiss(t *testing.T) {
	client := newFakeRedis()
	client.data[KeyPrefix+"k"] = "{not json"
	s := NewRedisStore[[]int](client)

	if _, ok := s.Get(context.Background(), "k"); ok {
		t.Error("Get() with corrupt payload should miss")
	}
}

func TestRedisStore_WithCache(t *testing.T) {
	client := newFakeRedis()
	c := New[string]("pages", NewRedisStore[string](client), nil)
	ctx := context.Background()

	calls := 0
	compute := func(context.Context) (string, error) {
		calls++
		return "<html></html>", nil
	}

	c.GetOrCompute(ctx, "page", time.Hour, compute)
	c.GetOrCompute(ctx, "page", time.Hour, compute)

	if calls != 1 {
		t.Errorf("compute calls = %d, want 1", calls)
	}
}
