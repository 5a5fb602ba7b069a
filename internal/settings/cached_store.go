package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedStore decorates a Store with a redis read-through cache.
// Writes go through to the inner store first, then refresh the cache.
type CachedStore struct {
	inner Store
	redis *redis.Client
	ttl   time.Duration
}

// NewCachedStore wraps inner with a redis cache. A zero ttl caches forever.
func NewCachedStore(inner Store, redisClient *redis.Client, ttl time.Duration) *CachedStore {
	if inner == nil {
		panic("settings: inner store required")
	}
	if redisClient == nil {
		panic("settings: redis client required")
	}
	return &CachedStore{inner: inner, redis: redisClient, ttl: ttl}
}

func (s *CachedStore) key(key string) string {
	return fmt.Sprintf("settings:%s", key)
}

// Get serves from cache when possible, falling back to the inner store.
func (s *CachedStore) Get(ctx context.Context, key string) (string, error) {
	cached, err := s.redis.Get(ctx, s.key(key)).Result()
	if err == nil {
		return cached, nil
	}
	if err != redis.Nil {
		return "", fmt.Errorf("settings: cache get %q: %w", key, err)
	}

	value, err := s.inner.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if err := s.redis.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("settings: cache fill %q: %w", key, err)
	}
	return value, nil
}

// Set writes through to the inner store, then refreshes the cache.
func (s *CachedStore) Set(ctx context.Context, key, value string) error {
	if err := s.inner.Set(ctx, key, value); err != nil {
		return err
	}
	if err := s.redis.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("settings: cache refresh %q: %w", key, err)
	}
	return nil
}

// SeedDefaults seeds the inner store and drops any stale cached keys.
func (s *CachedStore) SeedDefaults(ctx context.Context) error {
	if err := s.inner.SeedDefaults(ctx); err != nil {
		return err
	}
	for key := range Defaults {
		if err := s.redis.Del(ctx, s.key(key)).Err(); err != nil {
			return fmt.Errorf("settings: cache invalidate %q: %w", key, err)
		}
	}
	return nil
}

// Ensure interface compliance
var _ Store = (*CachedStore)(nil)
