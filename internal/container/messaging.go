package container

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/samber/do"
	"github.com/serroba/shortcode/internal/analytics"
	analyticsstore "github.com/serroba/shortcode/internal/analytics/store"
	"github.com/serroba/shortcode/internal/messaging"
	"go.uber.org/zap"
)

// AnalyticsConsumerGroup names the Redis stream consumer group of analytics consumers.
const AnalyticsConsumerGroup = "analytics"

// MessagingPackage provides the watermill logger and, for the memory backend, the shared in-process pub/sub.
func MessagingPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (watermill.LoggerAdapter, error) {
		return messaging.NewZapLogger(do.MustInvoke[*zap.Logger](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*gochannel.GoChannel, error) {
		return gochannel.NewGoChannel(gochannel.Config{}, do.MustInvoke[watermill.LoggerAdapter](i)), nil
	})
}

// PublisherGroupPackage provides *messaging.PublisherGroup over the configured transport.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.Messaging == BackendMemory {
			return messaging.NewPublisherGroup(do.MustInvoke[*gochannel.GoChannel](i)), nil
		}

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: do.MustInvoke[*RedisClient](i).Client,
		}, do.MustInvoke[watermill.LoggerAdapter](i))
		if err != nil {
			return nil, fmt.Errorf("creating redis stream publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.URLCreatedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.URLCreatedEvent](group.Publisher(), analytics.TopicURLCreated), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.URLAccessedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.URLAccessedEvent](group.Publisher(), analytics.TopicURLAccessed), nil
	})
}

// AnalyticsStorePackage provides the analytics.Store selected by Options.Analytics.
func AnalyticsStorePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (analytics.Store, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if opts.Analytics != StoragePostgres {
			return analyticsstore.NewNoop(logger), nil
		}

		return analyticsstore.NewPostgres(do.MustInvoke[*PostgresPool](i).Pool), nil
	})
}

// ConsumerGroupPackage provides *messaging.ConsumerGroup with the analytics consumers registered.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		var subscriber message.Subscriber

		if opts.Messaging == BackendMemory {
			subscriber = do.MustInvoke[*gochannel.GoChannel](i)
		} else {
			sub, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        do.MustInvoke[*RedisClient](i).Client,
				ConsumerGroup: AnalyticsConsumerGroup,
			}, do.MustInvoke[watermill.LoggerAdapter](i))
			if err != nil {
				return nil, fmt.Errorf("creating redis stream subscriber: %w", err)
			}

			subscriber = sub
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		analytics.RegisterConsumers(group, do.MustInvoke[analytics.Store](i), logger)

		return group, nil
	})
}
