package shortener

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Cache is the fast-path tier consulted before durable storage.
// *hotcache.Promoter satisfies it.
type Cache interface {
	Lookup(ctx context.Context, code string) (url string, ok bool, err error)
	RecordAccess(ctx context.Context, code, resolvedURL string) (promoted bool, err error)
}

// Source tells where a resolution was answered from.
type Source string

const (
	SourceCache Source = "cache"
	SourceStore Source = "store"
)

// Resolution is the outcome of resolving a code.
type Resolution struct {
	URL      string
	Source   Source
	Promoted bool // true when this resolution promoted the code into the fast path
}

// Resolver resolves codes through the fast path, falling back to durable storage.
// Fast-path failures only cost latency: they are logged and never returned.
type Resolver struct {
	store  Repository
	cache  Cache
	logger *zap.Logger
}

// NewResolver creates a Resolver.
func NewResolver(store Repository, cache Cache, logger *zap.Logger) *Resolver {
	return &Resolver{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// Resolve returns the URL stored for code, or ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, code Code) (*Resolution, error) {
	if strings.TrimSpace(string(code)) == "" {
		return nil, fmt.Errorf("%w: code must not be blank", ErrInvalidArgument)
	}

	url, ok, err := r.cache.Lookup(ctx, string(code))
	if err != nil {
		r.logger.Warn("fast path lookup failed",
			zap.String("code", string(code)),
			zap.Error(err),
		)
	}

	if ok {
		return &Resolution{URL: url, Source: SourceCache}, nil
	}

	shortURL, err := r.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	promoted, err := r.cache.RecordAccess(ctx, string(code), shortURL.OriginalURL)
	if err != nil {
		r.logger.Warn("recording access failed",
			zap.String("code", string(code)),
			zap.Error(err),
		)
	}

	if promoted {
		r.logger.Debug("promoted hot code", zap.String("code", string(code)))
	}

	return &Resolution{
		URL:      shortURL.OriginalURL,
		Source:   SourceStore,
		Promoted: promoted,
	}, nil
}
