package container

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/shortcode/internal/analytics"
	"github.com/serroba/shortcode/internal/handlers"
	"github.com/serroba/shortcode/internal/health"
	"github.com/serroba/shortcode/internal/messaging"
	"github.com/serroba/shortcode/internal/middleware"
	"github.com/serroba/shortcode/internal/ratelimit"
	"github.com/serroba/shortcode/internal/shortener"
	"go.uber.org/zap"
)

// RateLimitPackage provides the *ratelimit.Limiter and the default ratelimit.Policy.
func RateLimitPackage(injector *do.Injector) {
	do.ProvideValue(injector, ratelimit.DefaultPolicy())

	do.Provide(injector, func(i *do.Injector) (*ratelimit.Limiter, error) {
		return ratelimit.NewLimiter(do.MustInvoke[FastPath](i)), nil
	})
}

// HTTPPackage provides the *chi.Mux and the huma.API with every route registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)
		opts := do.MustInvoke[*Options](i)

		api := humachi.New(router, huma.DefaultConfig("Short Code Service", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(api))
		api.UseMiddleware(middleware.RateLimiter(
			api,
			do.MustInvoke[*ratelimit.Limiter](i),
			do.MustInvoke[ratelimit.Policy](i),
			logger,
		))

		urlHandler := handlers.NewURLHandler(
			do.MustInvoke[*shortener.Resolver](i),
			opts.PublicBaseURL(),
			do.MustInvoke[map[handlers.Strategy]shortener.Strategy](i),
			do.MustInvoke[messaging.Publish[analytics.URLCreatedEvent]](i),
			do.MustInvoke[messaging.Publish[analytics.URLAccessedEvent]](i),
			logger,
		)

		handlers.RegisterRoutes(api, urlHandler)
		health.RegisterRoutes(api, health.NewHandler(map[string]health.Checker{
			"cache":    do.MustInvoke[FastPath](i),
			"database": do.MustInvoke[Repository](i),
		}, logger))

		return api, nil
	})
}
