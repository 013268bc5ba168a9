// Package store holds analytics.Store implementations.
package store

import (
	"context"

	"github.com/serroba/shortcode/internal/analytics"
	"go.uber.org/zap"
)

// Noop logs events instead of persisting them.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveURLCreated(_ context.Context, event *analytics.URLCreatedEvent) error {
	n.logger.Info("url created",
		zap.String("code", event.Code),
		zap.String("originalUrl", event.OriginalURL),
		zap.String("strategy", event.Strategy),
		zap.Time("createdAt", event.CreatedAt),
		zap.String("requestId", event.RequestID),
	)

	return nil
}

func (n *Noop) SaveURLAccessed(_ context.Context, event *analytics.URLAccessedEvent) error {
	n.logger.Info("url accessed",
		zap.String("code", event.Code),
		zap.String("source", event.Source),
		zap.Bool("promoted", event.Promoted),
		zap.Time("accessedAt", event.AccessedAt),
		zap.String("referrer", event.Referrer),
	)

	return nil
}

// Compile-time check.
var _ analytics.Store = (*Noop)(nil)
