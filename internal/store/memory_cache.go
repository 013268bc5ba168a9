package store

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/serroba/shortcode/internal/hotcache"
	"github.com/serroba/shortcode/internal/idgen"
	"github.com/serroba/shortcode/internal/ratelimit"
)

type cacheItem struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// MemoryCache is a single-process stand-in for RedisCache.
type MemoryCache struct {
	mu    sync.Mutex
	clock idgen.Clock
	items map[string]cacheItem
}

// NewMemoryCache creates a new in-memory cache. A nil clock falls back to idgen.SystemClock.
func NewMemoryCache(clock idgen.Clock) *MemoryCache {
	if clock == nil {
		clock = idgen.SystemClock{}
	}

	return &MemoryCache{
		clock: clock,
		items: make(map[string]cacheItem),
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.live(key)
	if !ok {
		return "", hotcache.ErrMiss
	}

	return item.value, nil
}

func (m *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := cacheItem{value: value}
	if ttl > 0 {
		item.expiresAt = m.clock.Now().Add(ttl)
	}

	m.items[key] = item

	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)

	return nil
}

func (m *MemoryCache) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.incr(key)
}

func (m *MemoryCache) TTL(_ context.Context, key string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.live(key)
	if !ok {
		return hotcache.Missing, nil
	}

	if item.expiresAt.IsZero() {
		return hotcache.NoExpiry, nil
	}

	return item.expiresAt.Sub(m.clock.Now()), nil
}

// Expire is a no-op for a missing key, like Redis.
func (m *MemoryCache) Expire(_ context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.live(key)
	if !ok {
		return nil
	}

	item.expiresAt = m.clock.Now().Add(ttl)
	m.items[key] = item

	return nil
}

func (m *MemoryCache) Record(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count, err := m.incr(key)
	if err != nil {
		return 0, 0, err
	}

	now := m.clock.Now()
	item := m.items[key]

	if item.expiresAt.IsZero() {
		item.expiresAt = now.Add(window)
		m.items[key] = item
	}

	return count, item.expiresAt.Sub(now), nil
}

// live returns the item at key, evicting it if expired. Callers hold mu.
func (m *MemoryCache) live(key string) (cacheItem, bool) {
	item, ok := m.items[key]
	if !ok {
		return cacheItem{}, false
	}

	if !item.expiresAt.IsZero() && !m.clock.Now().Before(item.expiresAt) {
		delete(m.items, key)

		return cacheItem{}, false
	}

	return item, true
}

func (m *MemoryCache) incr(key string) (int64, error) {
	item, ok := m.live(key)

	var count int64

	if ok {
		n, err := strconv.ParseInt(item.value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("value at %q is not an integer", key)
		}

		count = n
	}

	count++
	item.value = strconv.FormatInt(count, 10)
	m.items[key] = item

	return count, nil
}

// Compile-time checks.
var (
	_ hotcache.Store  = (*MemoryCache)(nil)
	_ ratelimit.Store = (*MemoryCache)(nil)
)
