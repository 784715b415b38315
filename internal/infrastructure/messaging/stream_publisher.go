package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/levelup-hub/learning-hub/internal/domain/shared"
	cache "github.com/levelup-hub/learning-hub/internal/infrastructure/persistence/redis"
	"github.com/levelup-hub/learning-hub/pkg/logger"
	"github.com/levelup-hub/learning-hub/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// REDIS STREAM PUBLISHER
// ══════════════════════════════════════════════════════════════════════════════

// ErrStreamUnavailable is returned when publishing fails after all retries.
var ErrStreamUnavailable = errors.New("event stream unavailable")

// StreamPublisher delivers integration events to Redis Streams so that
// other services can consume them. Entries carry the event envelope as
// stream fields plus the full payload serialized as JSON.
type StreamPublisher struct {
	cache   *cache.Cache
	retrier *retry.Retrier
	logger  *logger.Logger
}

// NewStreamPublisher creates a publisher backed by the given Redis cache client.
func NewStreamPublisher(c *cache.Cache, log *logger.Logger) *StreamPublisher {
	if log == nil {
		log = logger.Default()
	}
	return &StreamPublisher{
		cache:   c,
		retrier: retry.StreamRetrier(),
		logger:  log,
	}
}

// Publish appends the event to the stream named after the topic.
// Delivery is retried with backoff; exhausting the retries returns
// ErrStreamUnavailable wrapped around the last transport error.
func (p *StreamPublisher) Publish(ctx context.Context, topic string, key string, event shared.Event) error {
	if topic == "" {
		return errors.New("stream topic cannot be empty")
	}
	if event == nil {
		return ErrNilEvent
	}

	payload, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	values := map[string]interface{}{
		"event_type":   string(event.EventType()),
		"aggregate_id": event.AggregateID(),
		"occurred_at":  event.OccurredAt().Format(time.RFC3339Nano),
		"key":          key,
		"payload":      string(payload),
	}

	stream := cache.StreamKey(topic)

	err = p.retrier.Do(ctx, func(ctx context.Context) error {
		if _, xerr := p.cache.XAdd(ctx, stream, values); xerr != nil {
			return retry.Retryable(xerr)
		}
		return nil
	})
	if err != nil {
		p.logger.Error("stream publish failed",
			logger.String("topic", topic),
			logger.String("event_type", string(event.EventType())),
			logger.Err(err),
		)
		return fmt.Errorf("%w: %v", ErrStreamUnavailable, err)
	}

	p.logger.Debug("event published to stream",
		logger.String("topic", topic),
		logger.String("event_type", string(event.EventType())),
		logger.String("aggregate_id", event.AggregateID()),
	)

	return nil
}
