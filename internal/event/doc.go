// Package event provides the in-process publish/subscribe bus that connects
// raw keyboard feeds, the key translator, and whatever reacts to the
// translated names.
//
// # Topics
//
// Raw feeds publish on "keyboard.keydown". The translator publishes each
// composed name ("a-key-pressed", "ctrl-shift-up-pressed", ...) as its own
// single-segment topic. Subscriptions accept wildcard patterns:
//
//	keyboard.*   - every raw keyboard event
//	*            - every composed name
//	**           - everything
//
// # Delivery
//
// Delivery is synchronous and in priority order: Publish returns after every
// matching handler has run in the publisher's goroutine. Handler errors and
// panics are recovered, counted in Stats, and passed to the handler set with
// WithErrorHandler; they never reach the publisher.
//
// # Basic Usage
//
//	bus := event.NewBus()
//	if err := bus.Start(); err != nil {
//	    return err
//	}
//	defer bus.Stop(context.Background())
//
//	sub, err := bus.SubscribeFunc("a-key-pressed", func(ctx context.Context, evt any) error {
//	    fmt.Println("A!")
//	    return nil
//	})
//
//	bus.Publish(ctx, event.NewEvent(topic.Topic("a-key-pressed"), payload, "keyboard"))
//
// # Thread Safety
//
// The Bus is safe for concurrent use. Subscriptions may be added or removed
// while events are being published.
package event
