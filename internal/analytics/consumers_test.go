package analytics_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/serroba/shortcode/internal/analytics"
	"github.com/serroba/shortcode/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingStore struct {
	mu       sync.Mutex
	created  []*analytics.URLCreatedEvent
	accessed []*analytics.URLAccessedEvent
	failOnce bool
}

func (s *recordingStore) SaveURLCreated(_ context.Context, event *analytics.URLCreatedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.created = append(s.created, event)

	return nil
}

func (s *recordingStore) SaveURLAccessed(_ context.Context, event *analytics.URLAccessedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failOnce {
		s.failOnce = false

		return errors.New("transient failure")
	}

	s.accessed = append(s.accessed, event)

	return nil
}

func (s *recordingStore) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.created), len(s.accessed)
}

func startAnalytics(t *testing.T, store analytics.Store) *gochannel.GoChannel {
	t.Helper()

	logger := zap.NewNop()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, messaging.NewZapLogger(logger))

	group := messaging.NewConsumerGroup(pubSub, logger)
	analytics.RegisterConsumers(group, store, logger)
	require.Equal(t, 2, group.Len())
	require.NoError(t, group.Start(context.Background()))

	t.Cleanup(func() { _ = group.Shutdown() })

	return pubSub
}

func TestRegisterConsumers(t *testing.T) {
	ctx := context.Background()

	t.Run("persists both event types", func(t *testing.T) {
		store := &recordingStore{}
		pubSub := startAnalytics(t, store)

		publishCreated := messaging.NewPublishFunc[analytics.URLCreatedEvent](pubSub, analytics.TopicURLCreated)
		publishAccessed := messaging.NewPublishFunc[analytics.URLAccessedEvent](pubSub, analytics.TopicURLAccessed)

		require.NoError(t, publishCreated(ctx, &analytics.URLCreatedEvent{Code: "abc", Strategy: "sequence"}))
		require.NoError(t, publishAccessed(ctx, &analytics.URLAccessedEvent{Code: "abc", Source: "store"}))

		assert.Eventually(t, func() bool {
			created, accessed := store.counts()

			return created == 1 && accessed == 1
		}, time.Second, 10*time.Millisecond)

		assert.Equal(t, "sequence", store.created[0].Strategy)
		assert.Equal(t, "store", store.accessed[0].Source)
	})

	t.Run("redelivers after a failed save", func(t *testing.T) {
		store := &recordingStore{failOnce: true}
		pubSub := startAnalytics(t, store)

		publishAccessed := messaging.NewPublishFunc[analytics.URLAccessedEvent](pubSub, analytics.TopicURLAccessed)
		require.NoError(t, publishAccessed(ctx, &analytics.URLAccessedEvent{Code: "abc", Promoted: true}))

		assert.Eventually(t, func() bool {
			_, accessed := store.counts()

			return accessed == 1
		}, time.Second, 10*time.Millisecond)

		assert.True(t, store.accessed[0].Promoted)
	})
}
