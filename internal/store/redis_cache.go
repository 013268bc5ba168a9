package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortcode/internal/hotcache"
	"github.com/serroba/shortcode/internal/ratelimit"
)

// RedisCache is the Redis-backed fast-path store shared by every instance.
// It serves both the hot-key promoter and the rate limiter.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis-backed cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", hotcache.ErrMiss
	}

	return value, err
}

func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, key).Result()
}

func (r *RedisCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, err
	}

	return redisTTL(ttl), nil
}

func (r *RedisCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return r.client.Expire(ctx, key, ttl).Err()
}

// Record implements a fixed window: the first request starts the window and
// a counter found without expiry is given one.
func (r *RedisCache) Record(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}

	if count == 1 {
		if err := r.client.PExpire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}

		return count, window, nil
	}

	ttl, err := r.client.PTTL(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}

	if redisTTL(ttl) < 0 {
		if err := r.client.PExpire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}

		ttl = window
	}

	return count, ttl, nil
}

// Ping reports whether Redis is reachable.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// redisTTL maps the raw -1/-2 replies go-redis passes through onto hotcache sentinels.
func redisTTL(ttl time.Duration) time.Duration {
	switch ttl {
	case -1:
		return hotcache.NoExpiry
	case -2:
		return hotcache.Missing
	default:
		return ttl
	}
}

// Compile-time checks.
var (
	_ hotcache.Store  = (*RedisCache)(nil)
	_ ratelimit.Store = (*RedisCache)(nil)
)
