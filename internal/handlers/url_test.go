package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortcode/internal/analytics"
	"github.com/serroba/shortcode/internal/handlers"
	"github.com/serroba/shortcode/internal/hotcache"
	"github.com/serroba/shortcode/internal/idgen"
	"github.com/serroba/shortcode/internal/messaging"
	"github.com/serroba/shortcode/internal/shortener"
	"github.com/serroba/shortcode/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testBaseURL = "http://localhost:8888"
	testURL     = "https://example.com/very/long/path"
)

var errMock = errors.New("mock error")

// recorder captures published events.
type recorder[T any] struct {
	events []*T
	err    error
}

func (r *recorder[T]) publish(_ context.Context, event *T) error {
	r.events = append(r.events, event)

	return r.err
}

type testEnv struct {
	handler  *handlers.URLHandler
	repo     *store.MemoryStore
	clock    *idgen.FixedClock
	created  *recorder[analytics.URLCreatedEvent]
	accessed *recorder[analytics.URLAccessedEvent]
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := idgen.NewFixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	gen, err := idgen.NewGenerator(1, clock)
	require.NoError(t, err)

	repo := store.NewMemoryStore()
	creator := shortener.NewCreator(gen, repo, clock)
	promoter := hotcache.NewPromoter(store.NewMemoryCache(clock), hotcache.Config{Threshold: 2})

	env := &testEnv{
		repo:     repo,
		clock:    clock,
		created:  &recorder[analytics.URLCreatedEvent]{},
		accessed: &recorder[analytics.URLAccessedEvent]{},
	}

	env.handler = handlers.NewURLHandler(
		shortener.NewResolver(repo, promoter, zap.NewNop()),
		testBaseURL+"/",
		map[handlers.Strategy]shortener.Strategy{
			handlers.StrategySequence: shortener.NewSequenceStrategy(creator),
			handlers.StrategyHash:     shortener.NewHashStrategy(repo, creator),
		},
		messaging.Publish[analytics.URLCreatedEvent](env.created.publish),
		messaging.Publish[analytics.URLAccessedEvent](env.accessed.publish),
		zap.NewNop(),
	)

	return env
}

func (e *testEnv) create(t *testing.T, url string, strategy handlers.Strategy) *handlers.CreateShortURLResponse {
	t.Helper()

	req := &handlers.CreateShortURLRequest{}
	req.Body.URL = url
	req.Body.Strategy = strategy

	resp, err := e.handler.CreateShortURL(context.Background(), req)
	require.NoError(t, err)

	return resp
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()

	var statusErr huma.StatusError

	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, status, statusErr.GetStatus())
}

func TestCreateShortURL(t *testing.T) {
	t.Run("creates short url successfully", func(t *testing.T) {
		env := newTestEnv(t)

		resp := env.create(t, testURL, "")

		assert.NotEmpty(t, resp.Body.ShortCode)
		assert.Equal(t, testURL, resp.Body.OriginalURL)
		assert.Equal(t, testBaseURL+"/api/shortener/"+resp.Body.ShortCode, resp.Body.ShortURL)
		assert.Equal(t, resp.Body.ShortURL, resp.Location)

		id, err := idgen.Parse(resp.Body.ShortCode)
		require.NoError(t, err)
		assert.Equal(t, 1, id.Node())
	})

	t.Run("publishes a created event with request metadata", func(t *testing.T) {
		env := newTestEnv(t)

		ctx := handlers.ContextWithRequestMeta(context.Background(), handlers.RequestMeta{
			RequestID: "req-1",
			ClientIP:  "10.0.0.1",
			UserAgent: "TestAgent/1.0",
		})

		req := &handlers.CreateShortURLRequest{}
		req.Body.URL = testURL

		resp, err := env.handler.CreateShortURL(ctx, req)
		require.NoError(t, err)

		require.Len(t, env.created.events, 1)

		event := env.created.events[0]
		assert.Equal(t, resp.Body.ShortCode, event.Code)
		assert.Equal(t, string(handlers.StrategySequence), event.Strategy)
		assert.Equal(t, "10.0.0.1", event.ClientIP)
		assert.Equal(t, "req-1", event.RequestID)
	})

	t.Run("hash strategy deduplicates", func(t *testing.T) {
		env := newTestEnv(t)

		first := env.create(t, "https://example.com/path", handlers.StrategyHash)
		second := env.create(t, "HTTPS://EXAMPLE.COM:443/path/", handlers.StrategyHash)

		assert.Equal(t, first.Body.ShortCode, second.Body.ShortCode)
	})

	t.Run("sequence strategy issues new codes", func(t *testing.T) {
		env := newTestEnv(t)

		first := env.create(t, testURL, handlers.StrategySequence)
		second := env.create(t, testURL, handlers.StrategySequence)

		assert.NotEqual(t, first.Body.ShortCode, second.Body.ShortCode)
	})

	t.Run("rejects unknown strategy", func(t *testing.T) {
		env := newTestEnv(t)

		req := &handlers.CreateShortURLRequest{}
		req.Body.URL = testURL
		req.Body.Strategy = "token"

		_, err := env.handler.CreateShortURL(context.Background(), req)

		requireStatus(t, err, http.StatusBadRequest)
	})

	t.Run("rejects invalid url", func(t *testing.T) {
		env := newTestEnv(t)

		req := &handlers.CreateShortURLRequest{}
		req.Body.URL = "ftp://example.com"

		_, err := env.handler.CreateShortURL(context.Background(), req)

		requireStatus(t, err, http.StatusBadRequest)
		assert.Empty(t, env.created.events)
	})

	t.Run("generator saturation is 429", func(t *testing.T) {
		env := newTestEnv(t)

		for range idgen.MaxSequence + 1 {
			env.create(t, testURL, "")
		}

		req := &handlers.CreateShortURLRequest{}
		req.Body.URL = testURL

		_, err := env.handler.CreateShortURL(context.Background(), req)

		requireStatus(t, err, http.StatusTooManyRequests)

		env.clock.Advance(time.Second)
		env.create(t, testURL, "")
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		env := newTestEnv(t)
		env.created.err = errMock

		resp := env.create(t, testURL, "")

		assert.NotEmpty(t, resp.Body.ShortCode)
	})
}

func TestRedirectToURL(t *testing.T) {
	t.Run("redirects with 302", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.create(t, testURL, "")

		resp, err := env.handler.RedirectToURL(context.Background(), &handlers.RedirectRequest{Code: created.Body.ShortCode})

		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.Status)
		assert.Equal(t, testURL, resp.Location)
	})

	t.Run("publishes accessed events with source and promotion", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.create(t, testURL, "")
		req := &handlers.RedirectRequest{Code: created.Body.ShortCode}

		for range 3 {
			_, err := env.handler.RedirectToURL(context.Background(), req)
			require.NoError(t, err)
		}

		require.Len(t, env.accessed.events, 3)
		assert.Equal(t, string(shortener.SourceStore), env.accessed.events[0].Source)
		assert.False(t, env.accessed.events[0].Promoted)
		assert.Equal(t, string(shortener.SourceStore), env.accessed.events[1].Source)
		assert.True(t, env.accessed.events[1].Promoted)
		assert.Equal(t, string(shortener.SourceCache), env.accessed.events[2].Source)
	})

	t.Run("returns 404 for unknown code", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.handler.RedirectToURL(context.Background(), &handlers.RedirectRequest{Code: "nope"})

		requireStatus(t, err, http.StatusNotFound)
		assert.Empty(t, env.accessed.events)
	})

	t.Run("returns 400 for blank code", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.handler.RedirectToURL(context.Background(), &handlers.RedirectRequest{Code: " "})

		requireStatus(t, err, http.StatusBadRequest)
	})

	t.Run("publish failure does not fail the redirect", func(t *testing.T) {
		env := newTestEnv(t)
		env.accessed.err = errMock
		created := env.create(t, testURL, "")

		resp, err := env.handler.RedirectToURL(context.Background(), &handlers.RedirectRequest{Code: created.Body.ShortCode})

		require.NoError(t, err)
		assert.Equal(t, testURL, resp.Location)
	})
}
