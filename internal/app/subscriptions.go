package app

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dshills/keypress/internal/event"
	"github.com/dshills/keypress/internal/event/events"
	"github.com/dshills/keypress/internal/event/topic"
)

// subscriptionManager manages event bus subscriptions for the application.
type subscriptionManager struct {
	mu            sync.Mutex
	bus           event.Bus
	subscriptions []event.Subscription
}

// newSubscriptionManager creates a new subscription manager.
func newSubscriptionManager(bus event.Bus) *subscriptionManager {
	return &subscriptionManager{bus: bus}
}

// setupSubscriptions registers the consumers of composed names.
func (sm *subscriptionManager) setupSubscriptions(app *Application) error {
	// Composed names -> Lua reactions
	hasReaction := func(ev any) bool {
		p, ok := event.PayloadOf[events.KeyPressed](ev)
		return ok && app.reactor.Has(p.Name)
	}
	if err := sm.subscribe(events.TopicAllPressed, app.reactor.Handler(),
		event.WithPriority(event.PriorityNormal), event.WithFilter(hasReaction)); err != nil {
		sm.unsubscribeAll()
		return err
	}

	// Composed names -> echo
	if app.opts.Echo {
		if err := sm.subscribe(events.TopicAllPressed, echoHandler(app.echoWriter()),
			event.WithPriority(event.PriorityLow)); err != nil {
			sm.unsubscribeAll()
			return err
		}
	}
	return nil
}

func (sm *subscriptionManager) subscribe(t topic.Topic, h event.Handler, opts ...event.SubscriptionOption) error {
	sub, err := sm.bus.Subscribe(t, h, opts...)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", t, err)
	}

	sm.mu.Lock()
	sm.subscriptions = append(sm.subscriptions, sub)
	sm.mu.Unlock()
	return nil
}

// unsubscribeAll removes every subscription the manager created.
func (sm *subscriptionManager) unsubscribeAll() {
	sm.mu.Lock()
	subs := sm.subscriptions
	sm.subscriptions = nil
	sm.mu.Unlock()

	for _, sub := range subs {
		_ = sm.bus.Unsubscribe(sub)
	}
}

// count returns the number of live subscriptions.
func (sm *subscriptionManager) count() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.subscriptions)
}

// echoWriter returns the feed itself when it can display text (the
// terminal's status line), otherwise Stdout.
func (app *Application) echoWriter() io.Writer {
	if w, ok := app.source.(io.Writer); ok {
		return w
	}
	return app.opts.Stdout
}

// echoHandler writes each composed name on its own line.
func echoHandler(w io.Writer) event.Handler {
	var mu sync.Mutex
	return event.AsHandler(func(_ context.Context, e event.Event[events.KeyPressed]) error {
		mu.Lock()
		defer mu.Unlock()
		_, err := fmt.Fprintln(w, e.Payload.Name)
		return err
	})
}
