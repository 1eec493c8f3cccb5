package event

import "context"

// Priority determines handler execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityCritical runs before everything else.
	PriorityCritical Priority = 0

	// PriorityHigh is for translators that feed other handlers.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 200

	// PriorityLow is for logging and echo sinks.
	PriorityLow Priority = 300
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p <= PriorityCritical:
		return "critical"
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}

// Handler processes events delivered by the bus.
type Handler interface {
	// Handle processes an event. The event is type-erased; use PayloadOf
	// or a type assertion to recover it.
	Handle(ctx context.Context, event any) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, event any) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// TypedHandlerFunc handles a single payload type.
type TypedHandlerFunc[T any] func(ctx context.Context, event Event[T]) error

// AsHandler adapts a TypedHandlerFunc to a Handler. Events of other payload
// types are skipped silently.
func AsHandler[T any](fn TypedHandlerFunc[T]) Handler {
	return HandlerFunc(func(ctx context.Context, event any) error {
		if e, ok := event.(Event[T]); ok {
			return fn(ctx, e)
		}
		return nil
	})
}

// FilterFunc is a predicate for filtering events.
// Return true to allow the event.
type FilterFunc func(event any) bool

// ErrorHandler receives handler errors and recovered panics.
type ErrorHandler func(event any, err error)

// Stats contains event bus statistics.
type Stats struct {
	// EventsPublished counts Publish calls that matched at least one subscription.
	EventsPublished uint64

	// EventsUnrouted counts Publish calls that matched nothing.
	EventsUnrouted uint64

	// HandlersExecuted counts handler invocations.
	HandlersExecuted uint64

	// HandlerErrors counts handlers that returned an error.
	HandlerErrors uint64

	// HandlerPanics counts handlers that panicked.
	HandlerPanics uint64

	// ActiveSubscribers is the current number of active subscriptions.
	ActiveSubscribers int
}
