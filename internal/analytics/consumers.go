package analytics

import (
	"context"

	"github.com/serroba/shortcode/internal/messaging"
	"go.uber.org/zap"
)

// Store persists analytics events. Delivery is at least once, so saves may repeat for one event.
type Store interface {
	SaveURLCreated(ctx context.Context, event *URLCreatedEvent) error
	SaveURLAccessed(ctx context.Context, event *URLAccessedEvent) error
}

// RegisterConsumers adds a consumer per analytics topic to group, each persisting into store.
func RegisterConsumers(group *messaging.ConsumerGroup, store Store, logger *zap.Logger) {
	group.Add(messaging.NewConsumer(
		group.Subscriber(),
		TopicURLCreated,
		messaging.Handler[URLCreatedEvent](store.SaveURLCreated),
		logger,
	))

	group.Add(messaging.NewConsumer(
		group.Subscriber(),
		TopicURLAccessed,
		messaging.Handler[URLAccessedEvent](store.SaveURLAccessed),
		logger,
	))
}
