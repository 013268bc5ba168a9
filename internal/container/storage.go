package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortcode/internal/health"
	"github.com/serroba/shortcode/internal/hotcache"
	"github.com/serroba/shortcode/internal/idgen"
	"github.com/serroba/shortcode/internal/ratelimit"
	"github.com/serroba/shortcode/internal/shortener"
	"github.com/serroba/shortcode/internal/store"
	"go.uber.org/zap"
)

const connectTimeout = 5 * time.Second

// RedisClient closes the shared client on injector shutdown.
type RedisClient struct {
	*redis.Client
}

func (c *RedisClient) Shutdown() error {
	return c.Close()
}

// PostgresPool closes the shared pool on injector shutdown.
type PostgresPool struct {
	*pgxpool.Pool
}

func (p *PostgresPool) Shutdown() error {
	p.Close()

	return nil
}

// FastPath is the shared cache behind both hot-key promotion and rate limiting.
type FastPath interface {
	hotcache.Store
	ratelimit.Store
	health.Checker
}

// Repository is the durable store, pingable for health checks and able to create its schema.
type Repository interface {
	shortener.Repository
	health.Checker
	EnsureSchema(ctx context.Context) error
}

// RedisPackage provides *RedisClient.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*RedisClient, error) {
		opts := do.MustInvoke[*Options](i)

		return &RedisClient{redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}

// PostgresPackage provides *PostgresPool.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*PostgresPool, error) {
		opts := do.MustInvoke[*Options](i)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}

		return &PostgresPool{pool}, nil
	})
}

// RepositoryPackage provides the durable Repository selected by Options.Storage.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (Repository, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.Storage {
		case StoragePostgres:
			pool := do.MustInvoke[*PostgresPool](i)

			return store.NewPostgresStore(pool.Pool), nil
		case StorageSQLite:
			db, err := store.OpenSQLite(opts.SQLitePath)
			if err != nil {
				return nil, err
			}

			return store.NewGormStore(db), nil
		default:
			return memoryRepository{store.NewMemoryStore()}, nil
		}
	})
}

// FastPathPackage provides the FastPath selected by Options.Cache.
func FastPathPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (FastPath, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.Cache == BackendMemory {
			do.MustInvoke[*zap.Logger](i).Warn("using in-memory fast path; promotion and rate limits are per instance")

			return memoryFastPath{store.NewMemoryCache(idgen.SystemClock{})}, nil
		}

		client := do.MustInvoke[*RedisClient](i)

		return store.NewRedisCache(client.Client), nil
	})
}

// memoryRepository adds the Repository extras a MemoryStore has no use for.
type memoryRepository struct {
	*store.MemoryStore
}

func (memoryRepository) Ping(context.Context) error         { return nil }
func (memoryRepository) EnsureSchema(context.Context) error { return nil }

type memoryFastPath struct {
	*store.MemoryCache
}

func (memoryFastPath) Ping(context.Context) error { return nil }
