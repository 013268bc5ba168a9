package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/shortcode/internal/container"
	"github.com/serroba/shortcode/internal/messaging"
	"go.uber.org/zap"
)

func registerPackages(injector *do.Injector, options *container.Options) {
	do.ProvideValue(injector, options)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.PostgresPackage(injector)
	container.RepositoryPackage(injector)
	container.FastPathPackage(injector)
	container.ShortenerPackage(injector)
	container.RateLimitPackage(injector)
	container.MessagingPackage(injector)
	container.PublisherGroupPackage(injector)
	container.AnalyticsStorePackage(injector)
	container.ConsumerGroupPackage(injector)
	container.HTTPPackage(injector)
}

func main() {
	var options *container.Options

	cli := humacli.New(func(hooks humacli.Hooks, opts *container.Options) {
		options = opts

		injector := do.New()
		registerPackages(injector, opts)

		var server *http.Server

		hooks.OnStart(func() {
			if err := opts.Validate(); err != nil {
				panic(err)
			}

			logger := do.MustInvoke[*zap.Logger](injector)
			router := do.MustInvoke[*chi.Mux](injector)

			// Invoke API to trigger route registration
			_ = do.MustInvoke[huma.API](injector)

			// With the in-memory transport nothing outside this process can consume events.
			if opts.Messaging == container.BackendMemory {
				group := do.MustInvoke[*messaging.ConsumerGroup](injector)
				if err := group.Start(context.Background()); err != nil {
					logger.Fatal("failed to start in-process consumers", zap.Error(err))
				}
			}

			server = &http.Server{
				Addr:              fmt.Sprintf(":%d", opts.Port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			logger.Info("server starting",
				zap.Int("port", opts.Port),
				zap.Int("node_id", opts.NodeID),
				zap.String("storage", opts.Storage),
				zap.String("cache", opts.Cache),
			)

			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("server failed", zap.Error(err))
			}
		})

		hooks.OnStop(func() {
			logger := do.MustInvoke[*zap.Logger](injector)
			logger.Info("shutting down")

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if server != nil {
				if err := server.Shutdown(ctx); err != nil {
					logger.Error("server shutdown error", zap.Error(err))
				}
			}

			if err := injector.Shutdown(); err != nil {
				logger.Error("service shutdown error", zap.Error(err))
			}

			logger.Info("shutdown complete")
		})
	})

	cli.Root().AddCommand(migrateCommand(func() *container.Options { return options }, registerPackages))
	cli.Root().AddCommand(inspectCommand())

	cli.Run()
}
