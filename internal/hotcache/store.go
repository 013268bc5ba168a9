package hotcache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Store.Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// TTL sentinels reported by Store.TTL, matching Redis semantics.
const (
	// NoExpiry is reported for a key that exists without an expiry.
	NoExpiry time.Duration = -1
	// Missing is reported for a key that does not exist.
	Missing time.Duration = -2
)

// Store is the shared fast-path key/value and counter store.
// Implementations must make each individual call atomic; the promoter adds no locking of its own.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// Incr increments the counter at key, creating it at 1 without expiry if absent.
	Incr(ctx context.Context, key string) (int64, error)
	// TTL returns the remaining lifetime of key, or NoExpiry / Missing.
	TTL(ctx context.Context, key string) (time.Duration, error)
	// Expire sets the lifetime of an existing key.
	Expire(ctx context.Context, key string, ttl time.Duration) error
}
