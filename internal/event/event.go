package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/keypress/internal/event/topic"
)

// Event is a typed event carried by the bus. Events are values and are not
// modified after creation.
type Event[T any] struct {
	// Type is the event topic.
	Type topic.Topic

	// Payload contains the event-specific data.
	Payload T

	// Metadata contains standard event information.
	Metadata Metadata
}

// Metadata contains standard information attached to every event.
type Metadata struct {
	// ID uniquely identifies this event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source names the component that published the event.
	Source string
}

// NewEvent creates an event with a fresh ID and the current time.
func NewEvent[T any](eventType topic.Topic, payload T, source string) Event[T] {
	return Event[T]{
		Type:    eventType,
		Payload: payload,
		Metadata: Metadata{
			ID:        generateID(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// EventTopic returns the event's topic for type-erased handling.
func (e Event[T]) EventTopic() topic.Topic {
	return e.Type
}

// EventMetadata returns the event's metadata for type-erased handling.
func (e Event[T]) EventMetadata() Metadata {
	return e.Metadata
}

// TopicProvider is implemented by anything the bus can route.
type TopicProvider interface {
	EventTopic() topic.Topic
}

// MetadataProvider is implemented by types that carry Metadata.
type MetadataProvider interface {
	EventMetadata() Metadata
}

// PayloadOf extracts a typed payload from a type-erased event.
// ok is false when evt is not an Event[T].
func PayloadOf[T any](evt any) (payload T, ok bool) {
	e, ok := evt.(Event[T])
	if !ok {
		return payload, false
	}
	return e.Payload, true
}

func generateID() string {
	return uuid.NewString()
}
