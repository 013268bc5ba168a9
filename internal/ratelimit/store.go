package ratelimit

import (
	"context"
	"time"
)

// Store defines the interface for rate limit counters.
type Store interface {
	// Record counts a request against key in a fixed window starting at the first request.
	// It returns the count so far and the time left until the window resets.
	Record(ctx context.Context, key string, window time.Duration) (count int64, resetIn time.Duration, err error)
}
