package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do"
	analyticsstore "github.com/serroba/shortcode/internal/analytics/store"
	"github.com/serroba/shortcode/internal/container"
	"github.com/serroba/shortcode/internal/messaging"
	"go.uber.org/zap"
)

func main() {
	opts := &container.Options{
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		LogFormat:   getEnv("LOG_FORMAT", "console"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Messaging:   container.BackendRedis,
		Analytics:   "noop",
	}

	if opts.DatabaseURL != "" {
		opts.Analytics = container.StoragePostgres
	}

	injector := do.New()
	do.ProvideValue(injector, opts)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.PostgresPackage(injector)
	container.MessagingPackage(injector)
	container.AnalyticsStorePackage(injector)
	container.ConsumerGroupPackage(injector)

	logger := do.MustInvoke[*zap.Logger](injector)

	ctx, cancel := context.WithCancel(context.Background())

	if opts.Analytics == container.StoragePostgres {
		schemaCtx, schemaCancel := context.WithTimeout(ctx, 30*time.Second)
		err := analyticsstore.NewPostgres(do.MustInvoke[*container.PostgresPool](injector).Pool).EnsureSchema(schemaCtx)

		schemaCancel()

		if err != nil {
			logger.Fatal("failed to prepare analytics schema", zap.Error(err))
		}
	}

	group := do.MustInvoke[*messaging.ConsumerGroup](injector)

	if err := group.Start(ctx); err != nil {
		logger.Fatal("failed to start consumer group", zap.Error(err))
	}

	logger.Info("consumers running",
		zap.Int("consumers", group.Len()),
		zap.String("analytics", opts.Analytics),
	)

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	cancel()

	if err := injector.Shutdown(); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	logger.Info("shutdown complete")
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return defaultValue
}
