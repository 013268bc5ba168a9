// Package ratelimit implements fixed-window request limits shared across instances.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Limit allows Max requests per Window.
type Limit struct {
	Max    int64
	Window time.Duration
}

// Policy holds the default limits applied by HTTP method class.
type Policy struct {
	Read  []Limit
	Write []Limit
}

// DefaultPolicy returns the production defaults.
func DefaultPolicy() Policy {
	return Policy{
		Read: []Limit{
			{Max: 100, Window: time.Minute},
		},
		Write: []Limit{
			{Max: 10, Window: time.Minute},
			{Max: 200, Window: time.Hour},
		},
	}
}

// ForMethod returns the read limits for safe methods and the write limits otherwise.
func (p Policy) ForMethod(method string) []Limit {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return p.Read
	default:
		return p.Write
	}
}

// Decision is the outcome of a rate limit check.
type Decision struct {
	Allowed bool
	// Limit and Count describe the first exceeded limit; zero when allowed.
	Limit      Limit
	Count      int64
	RetryAfter time.Duration
}

// Limiter checks requests against a set of limits.
type Limiter struct {
	store Store
}

// NewLimiter creates a new limiter.
func NewLimiter(store Store) *Limiter {
	return &Limiter{store: store}
}

// Allow records one request for key against every limit and reports the first one exceeded.
// Limits after the first exceeded one are not recorded.
func (l *Limiter) Allow(ctx context.Context, key string, limits []Limit) (Decision, error) {
	for _, limit := range limits {
		count, resetIn, err := l.store.Record(ctx, counterKey(key, limit), limit.Window)
		if err != nil {
			return Decision{}, fmt.Errorf("recording request: %w", err)
		}

		if count > limit.Max {
			return Decision{
				Limit:      limit,
				Count:      count,
				RetryAfter: resetIn,
			}, nil
		}
	}

	return Decision{Allowed: true}, nil
}

func counterKey(key string, limit Limit) string {
	return fmt.Sprintf("ratelimit:%s:%d", key, limit.Window.Milliseconds())
}
