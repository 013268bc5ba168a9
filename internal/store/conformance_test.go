package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/shortcode/internal/hotcache"
	"github.com/serroba/shortcode/internal/ratelimit"
	"github.com/serroba/shortcode/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var createdAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// testRepository runs the shortener.Repository contract against repo.
// Codes are prefixed so runs against shared databases do not collide.
func testRepository(t *testing.T, repo shortener.Repository, prefix string) {
	t.Helper()

	ctx := context.Background()
	code := func(s string) shortener.Code { return shortener.Code(prefix + s) }

	t.Run("insert and get by code", func(t *testing.T) {
		shortURL := &shortener.ShortURL{
			Code:        code("abc"),
			OriginalURL: "https://example.com",
			CreatedAt:   createdAt,
		}

		require.NoError(t, repo.Insert(ctx, shortURL))

		got, err := repo.GetByCode(ctx, shortURL.Code)
		require.NoError(t, err)
		assert.Equal(t, shortURL.Code, got.Code)
		assert.Equal(t, shortURL.OriginalURL, got.OriginalURL)
		assert.Empty(t, got.URLHash)
		assert.True(t, createdAt.Equal(got.CreatedAt))
	})

	t.Run("duplicate code is a conflict and keeps the original", func(t *testing.T) {
		first := &shortener.ShortURL{Code: code("dup"), OriginalURL: "https://first.com", CreatedAt: createdAt}
		second := &shortener.ShortURL{Code: code("dup"), OriginalURL: "https://second.com", CreatedAt: createdAt}

		require.NoError(t, repo.Insert(ctx, first))

		err := repo.Insert(ctx, second)
		require.ErrorIs(t, err, shortener.ErrCodeConflict)

		got, err := repo.GetByCode(ctx, code("dup"))
		require.NoError(t, err)
		assert.Equal(t, "https://first.com", got.OriginalURL)
	})

	t.Run("unknown code is not found", func(t *testing.T) {
		_, err := repo.GetByCode(ctx, code("missing"))

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("insert and get by hash", func(t *testing.T) {
		hash := shortener.URLHash(prefix + "hash1")
		shortURL := &shortener.ShortURL{
			Code:        code("hashed"),
			OriginalURL: "https://example.com/hashed",
			URLHash:     hash,
			CreatedAt:   createdAt,
		}

		require.NoError(t, repo.Insert(ctx, shortURL))

		got, err := repo.GetByHash(ctx, hash)
		require.NoError(t, err)
		assert.Equal(t, shortURL.Code, got.Code)
		assert.Equal(t, hash, got.URLHash)
	})

	t.Run("hash lookup returns the oldest record", func(t *testing.T) {
		hash := shortener.URLHash(prefix + "hash2")

		require.NoError(t, repo.Insert(ctx, &shortener.ShortURL{
			Code: code("old"), OriginalURL: "https://example.com", URLHash: hash, CreatedAt: createdAt,
		}))
		require.NoError(t, repo.Insert(ctx, &shortener.ShortURL{
			Code: code("new"), OriginalURL: "https://example.com", URLHash: hash, CreatedAt: createdAt.Add(time.Second),
		}))

		got, err := repo.GetByHash(ctx, hash)
		require.NoError(t, err)
		assert.Equal(t, code("old"), got.Code)
	})

	t.Run("unknown hash is not found", func(t *testing.T) {
		_, err := repo.GetByHash(ctx, shortener.URLHash(prefix+"missing"))

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

// cacheStore is what both fast-path implementations provide.
type cacheStore interface {
	hotcache.Store
	ratelimit.Store
}

// testCache runs the hotcache.Store and ratelimit.Store contracts against cache.
// advance moves the cache's notion of time forward.
func testCache(t *testing.T, cache cacheStore, advance func(time.Duration)) {
	t.Helper()

	ctx := context.Background()

	t.Run("get missing key is a miss", func(t *testing.T) {
		_, err := cache.Get(ctx, "missing")

		assert.ErrorIs(t, err, hotcache.ErrMiss)
	})

	t.Run("set with ttl expires", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "entry", "https://example.com", time.Hour))

		got, err := cache.Get(ctx, "entry")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", got)

		ttl, err := cache.TTL(ctx, "entry")
		require.NoError(t, err)
		assert.Equal(t, time.Hour, ttl)

		advance(time.Hour)

		_, err = cache.Get(ctx, "entry")
		assert.ErrorIs(t, err, hotcache.ErrMiss)
	})

	t.Run("delete removes the key", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "gone", "v", 0))
		require.NoError(t, cache.Delete(ctx, "gone"))

		_, err := cache.Get(ctx, "gone")
		assert.ErrorIs(t, err, hotcache.ErrMiss)
	})

	t.Run("incr creates counters without expiry", func(t *testing.T) {
		n, err := cache.Incr(ctx, "hits")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = cache.Incr(ctx, "hits")
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		ttl, err := cache.TTL(ctx, "hits")
		require.NoError(t, err)
		assert.Equal(t, hotcache.NoExpiry, ttl)
	})

	t.Run("ttl of missing key", func(t *testing.T) {
		ttl, err := cache.TTL(ctx, "nothing")

		require.NoError(t, err)
		assert.Equal(t, hotcache.Missing, ttl)
	})

	t.Run("expire gives a counter a lifetime", func(t *testing.T) {
		_, err := cache.Incr(ctx, "windowed")
		require.NoError(t, err)

		require.NoError(t, cache.Expire(ctx, "windowed", 10*time.Minute))

		ttl, err := cache.TTL(ctx, "windowed")
		require.NoError(t, err)
		assert.Equal(t, 10*time.Minute, ttl)

		advance(10 * time.Minute)

		ttl, err = cache.TTL(ctx, "windowed")
		require.NoError(t, err)
		assert.Equal(t, hotcache.Missing, ttl)
	})

	t.Run("record counts within a fixed window", func(t *testing.T) {
		for i := int64(1); i <= 3; i++ {
			count, resetIn, err := cache.Record(ctx, "client", time.Minute)

			require.NoError(t, err)
			assert.Equal(t, i, count)
			assert.Equal(t, time.Minute, resetIn)
		}

		advance(20 * time.Second)

		count, resetIn, err := cache.Record(ctx, "client", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
		assert.Equal(t, 40*time.Second, resetIn)

		advance(40 * time.Second)

		count, _, err = cache.Record(ctx, "client", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("record repairs a counter without expiry", func(t *testing.T) {
		_, err := cache.Incr(ctx, "stuck")
		require.NoError(t, err)

		count, resetIn, err := cache.Record(ctx, "stuck", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
		assert.Equal(t, time.Minute, resetIn)
	})

	t.Run("promoter end to end", func(t *testing.T) {
		promoter := hotcache.NewPromoter(cache, hotcache.DefaultConfig())

		for i := 1; i < 20; i++ {
			promoted, err := promoter.RecordAccess(ctx, "hot", "https://hot.example.com")
			require.NoError(t, err)
			assert.False(t, promoted)
		}

		promoted, err := promoter.RecordAccess(ctx, "hot", "https://hot.example.com")
		require.NoError(t, err)
		assert.True(t, promoted)

		url, ok, err := promoter.Lookup(ctx, "hot")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "https://hot.example.com", url)

		ttl, err := cache.TTL(ctx, "url:hits:hot")
		require.NoError(t, err)
		assert.Equal(t, hotcache.Missing, ttl)

		advance(2 * time.Hour)

		_, ok, err = promoter.Lookup(ctx, "hot")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
