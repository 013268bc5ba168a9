// Package hotcache promotes frequently resolved short codes into a fast-path cache.
//
// Every resolution that misses the fast path and reaches durable storage bumps a
// per-code hit counter living for CounterWindow. Once a counter reaches Threshold
// the resolved URL is written to the fast path for EntryTTL and the counter is dropped.
// Counting is approximate: an evicted counter only delays promotion.
package hotcache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Config tunes promotion.
type Config struct {
	Threshold     int64
	CounterWindow time.Duration
	EntryTTL      time.Duration
	EntryPrefix   string
	CounterPrefix string
}

// DefaultConfig returns the production promotion settings.
func DefaultConfig() Config {
	return Config{
		Threshold:     20,
		CounterWindow: 10 * time.Minute,
		EntryTTL:      2 * time.Hour,
		EntryPrefix:   "url:cache:",
		CounterPrefix: "url:hits:",
	}
}

// Promoter tracks hits per code and promotes hot codes into the fast path.
type Promoter struct {
	store Store
	cfg   Config
}

// NewPromoter creates a promoter. Zero-valued fields in cfg fall back to DefaultConfig.
func NewPromoter(store Store, cfg Config) *Promoter {
	def := DefaultConfig()

	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}

	if cfg.CounterWindow <= 0 {
		cfg.CounterWindow = def.CounterWindow
	}

	if cfg.EntryTTL <= 0 {
		cfg.EntryTTL = def.EntryTTL
	}

	if cfg.EntryPrefix == "" {
		cfg.EntryPrefix = def.EntryPrefix
	}

	if cfg.CounterPrefix == "" {
		cfg.CounterPrefix = def.CounterPrefix
	}

	return &Promoter{store: store, cfg: cfg}
}

// Config returns the effective configuration.
func (p *Promoter) Config() Config {
	return p.cfg
}

// Lookup returns the promoted URL for code, if any.
// A present entry is authoritative because URL records are immutable.
func (p *Promoter) Lookup(ctx context.Context, code string) (string, bool, error) {
	url, err := p.store.Get(ctx, p.entryKey(code))
	if err != nil {
		if errors.Is(err, ErrMiss) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("reading promoted entry: %w", err)
	}

	return url, true, nil
}

// RecordAccess registers a resolution of code that fell through to durable storage.
// It reports whether this call promoted code. Concurrent promotions of the same code are harmless.
func (p *Promoter) RecordAccess(ctx context.Context, code, resolvedURL string) (bool, error) {
	counterKey := p.counterKey(code)

	hits, err := p.store.Incr(ctx, counterKey)
	if err != nil {
		return false, fmt.Errorf("incrementing hit counter: %w", err)
	}

	if hits <= 0 {
		return false, nil
	}

	if err := p.ensureWindow(ctx, counterKey, hits); err != nil {
		return false, err
	}

	if hits < p.cfg.Threshold {
		return false, nil
	}

	if err := p.store.Set(ctx, p.entryKey(code), resolvedURL, p.cfg.EntryTTL); err != nil {
		return false, fmt.Errorf("writing promoted entry: %w", err)
	}

	if err := p.store.Delete(ctx, counterKey); err != nil {
		return true, fmt.Errorf("deleting hit counter: %w", err)
	}

	return true, nil
}

// ensureWindow gives a fresh counter its expiry and repairs one that lost it,
// so a counter can never become permanent.
func (p *Promoter) ensureWindow(ctx context.Context, counterKey string, hits int64) error {
	if hits == 1 {
		if err := p.store.Expire(ctx, counterKey, p.cfg.CounterWindow); err != nil {
			return fmt.Errorf("setting hit counter window: %w", err)
		}

		return nil
	}

	ttl, err := p.store.TTL(ctx, counterKey)
	if err != nil {
		return fmt.Errorf("reading hit counter window: %w", err)
	}

	if ttl < 0 {
		if err := p.store.Expire(ctx, counterKey, p.cfg.CounterWindow); err != nil {
			return fmt.Errorf("repairing hit counter window: %w", err)
		}
	}

	return nil
}

func (p *Promoter) entryKey(code string) string {
	return p.cfg.EntryPrefix + code
}

func (p *Promoter) counterKey(code string) string {
	return p.cfg.CounterPrefix + code
}
