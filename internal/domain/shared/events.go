package shared

import (
	"context"
	"time"
)

// EventType identifies the kind of domain event.
type EventType string

const (
	// Catalog change events, consumed by cache invalidation handlers.
	EventGuideChanged  EventType = "guide.changed"
	EventCourseChanged EventType = "course.changed"

	// Integration events published to the external stream.
	EventGuideChallengeAdded EventType = "guide.challenge_added"
)

// Event is the interface all domain events implement.
type Event interface {
	EventType() EventType
	OccurredAt() time.Time
	AggregateID() string
	Payload() map[string]interface{}
}

// BaseEvent provides common event fields.
type BaseEvent struct {
	Type        EventType
	Timestamp   time.Time
	AggregateId string
	Data        map[string]interface{}
}

func (e BaseEvent) EventType() EventType {
	return e.Type
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

// NewEvent creates a new base event with the current UTC timestamp.
func NewEvent(eventType EventType, aggregateID string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
		Data:        data,
	}
}

// NewGuideChangedEvent signals that a guide was created, updated, or deleted.
func NewGuideChangedEvent(guideID string) BaseEvent {
	return NewEvent(EventGuideChanged, guideID, map[string]interface{}{
		"guide_id": guideID,
	})
}

// NewCourseChangedEvent signals that a course was created, updated, or deleted.
func NewCourseChangedEvent(courseID string) BaseEvent {
	return NewEvent(EventCourseChanged, courseID, map[string]interface{}{
		"course_id": courseID,
	})
}

// NewGuideChallengeAddedEvent signals that a coding challenge was linked to a guide.
// This event crosses the service boundary: downstream consumers react to it.
func NewGuideChallengeAddedEvent(guideID, challengeID string) BaseEvent {
	return NewEvent(EventGuideChallengeAdded, guideID, map[string]interface{}{
		"guide_id":     guideID,
		"challenge_id": challengeID,
	})
}

// EventHandler processes a domain event.
type EventHandler func(event Event) error

// EventPublisher publishes domain events.
type EventPublisher interface {
	Publish(event Event) error
}

// EventSubscriber subscribes handlers to event types.
type EventSubscriber interface {
	Subscribe(eventType EventType, handler EventHandler)
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}

// IntegrationPublisher delivers events to an external stream for other services.
type IntegrationPublisher interface {
	Publish(ctx context.Context, topic string, key string, event Event) error
}

// NoopPublisher discards all events. Useful in tests and tools.
type NoopPublisher struct{}

func (NoopPublisher) Publish(event Event) error { return nil }
