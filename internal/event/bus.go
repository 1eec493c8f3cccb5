package event

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/dshills/keypress/internal/event/dispatch"
	"github.com/dshills/keypress/internal/event/topic"
)

// Bus is the in-process publish/subscribe interface.
type Bus interface {
	// Publish delivers event to every matching subscription before returning.
	Publish(ctx context.Context, event any) error

	// Subscribe registers handler for a topic pattern.
	Subscribe(topicPattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error)
	SubscribeFunc(topicPattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error)
	Unsubscribe(sub Subscription) error

	// Lifecycle
	Start() error
	Stop(ctx context.Context) error
	IsRunning() bool

	Stats() Stats
}

type bus struct {
	registry *Registry
	config   busConfig

	running atomic.Bool

	eventsPublished  atomic.Uint64
	eventsUnrouted   atomic.Uint64
	handlersExecuted atomic.Uint64
	handlerErrors    atomic.Uint64
	handlerPanics    atomic.Uint64
}

// NewBus creates a stopped event bus.
func NewBus(opts ...BusOption) Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return &bus{
		registry: NewRegistry(),
		config:   config,
	}
}

// Start starts the event bus.
func (b *bus) Start() error {
	if !b.running.CompareAndSwap(false, true) {
		return ErrBusAlreadyRunning
	}
	return nil
}

// Stop stops the bus. Subscriptions are kept so the bus can be restarted.
func (b *bus) Stop(ctx context.Context) error {
	if !b.running.CompareAndSwap(true, false) {
		return ErrBusNotRunning
	}
	return ctx.Err()
}

// IsRunning returns true if the bus is running.
func (b *bus) IsRunning() bool {
	return b.running.Load()
}

// Publish delivers event synchronously to every matching active subscription.
// Handler failures are recorded and reported to the error handler but are
// not returned.
func (b *bus) Publish(ctx context.Context, event any) error {
	if !b.running.Load() {
		return ErrBusNotRunning
	}

	tp, ok := event.(TopicProvider)
	if !ok || !tp.EventTopic().IsValid() {
		return ErrInvalidEvent
	}
	eventTopic := tp.EventTopic()

	subs := b.registry.MatchActive(eventTopic)
	if len(subs) == 0 {
		b.eventsUnrouted.Add(1)
		return nil
	}
	b.eventsPublished.Add(1)

	for _, sub := range subs {
		if !sub.accepts(event) {
			continue
		}

		result := dispatch.Run(ctx, event, sub.handler)
		if result.Skipped {
			return result.Error
		}
		b.handlersExecuted.Add(1)

		switch {
		case result.Panicked:
			b.handlerPanics.Add(1)
			b.reportError(event, &PanicError{
				SubscriptionID: sub.id,
				Topic:          eventTopic.String(),
				Value:          result.PanicValue,
				Stack:          string(result.PanicStack),
			})
		case result.Error != nil:
			b.handlerErrors.Add(1)
			b.reportError(event, &HandlerError{
				SubscriptionID: sub.id,
				Topic:          eventTopic.String(),
				Err:            result.Error,
			})
		}
	}

	return nil
}

func (b *bus) reportError(event any, err error) {
	if b.config.errorHandler != nil {
		b.config.errorHandler(event, err)
	}
}

// Subscribe creates a subscription for topicPattern.
func (b *bus) Subscribe(topicPattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !topicPattern.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTopic, topicPattern)
	}

	sub := newSubscription(generateID(), topicPattern, handler, opts...)
	b.registry.Add(sub)
	return sub, nil
}

// SubscribeFunc subscribes a function handler.
func (b *bus) SubscribeFunc(topicPattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(topicPattern, fn, opts...)
}

// Unsubscribe cancels and removes a subscription.
func (b *bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}

	sub.Cancel()
	if !b.registry.Remove(sub.ID()) {
		return ErrSubscriptionNotFound
	}
	return nil
}

// Stats returns current bus statistics.
func (b *bus) Stats() Stats {
	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		EventsUnrouted:    b.eventsUnrouted.Load(),
		HandlersExecuted:  b.handlersExecuted.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: b.registry.CountActive(),
	}
}
