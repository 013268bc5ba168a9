package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Handler processes a single decoded event.
// Returning an error nacks the message so the transport redelivers it.
type Handler[T any] func(ctx context.Context, event *T) error

// Consumer subscribes to a topic and dispatches decoded messages to a typed handler.
type Consumer[T any] struct {
	subscriber message.Subscriber
	topic      string
	handler    Handler[T]
	logger     *zap.Logger
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewConsumer creates a new generic consumer for a specific event type.
func NewConsumer[T any](
	subscriber message.Subscriber,
	topic string,
	handler Handler[T],
	logger *zap.Logger,
) *Consumer[T] {
	return &Consumer[T]{
		subscriber: subscriber,
		topic:      topic,
		handler:    handler,
		logger:     logger.With(zap.String("topic", topic)),
		done:       make(chan struct{}),
	}
}

// Topic returns the topic this consumer subscribes to.
func (c *Consumer[T]) Topic() string {
	return c.topic
}

// Start subscribes and processes messages in the background until Shutdown or ctx is done.
func (c *Consumer[T]) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	msgs, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		c.cancel()
		close(c.done)

		return fmt.Errorf("subscribing to %s: %w", c.topic, err)
	}

	go c.run(ctx, msgs)

	return nil
}

func (c *Consumer[T]) run(ctx context.Context, msgs <-chan *message.Message) {
	defer close(c.done)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			fields := []zap.Field{
				zap.String("message_id", msg.UUID),
				zap.String("request_id", msg.Metadata.Get(MetadataRequestID)),
			}

			if err := c.process(ctx, msg); err != nil {
				c.logger.Error("failed to process event", append(fields, zap.Error(err))...)
				msg.Nack()

				continue
			}

			msg.Ack()
			c.logger.Debug("processed event", fields...)
		}
	}
}

func (c *Consumer[T]) process(ctx context.Context, msg *message.Message) error {
	var event T
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return fmt.Errorf("decoding payload: %w", err)
	}

	return c.handler(ctx, &event)
}

// Shutdown stops the consumer and waits for the in-flight message to complete.
func (c *Consumer[T]) Shutdown() error {
	if c.cancel != nil {
		c.cancel()
	}

	<-c.done

	return nil
}
