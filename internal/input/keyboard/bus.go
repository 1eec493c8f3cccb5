package keyboard

import (
	"context"

	"github.com/dshills/keypress/internal/event"
	"github.com/dshills/keypress/internal/event/events"
)

// BusSource reads raw key-down events from an event bus.
type BusSource struct {
	bus event.Bus
}

// NewBusSource returns a Source that subscribes to events.TopicKeyDown.
func NewBusSource(bus event.Bus) *BusSource {
	return &BusSource{bus: bus}
}

// Subscribe implements Source. The handler runs at high priority so
// translations are published before lower-priority listeners on the same
// raw event see it.
func (s *BusSource) Subscribe(h KeyDownHandler) (Unsubscribe, error) {
	sub, err := s.bus.Subscribe(
		events.TopicKeyDown,
		event.AsHandler(func(ctx context.Context, e event.Event[events.KeyDown]) error {
			h(ctx, e.Payload.Event)
			return nil
		}),
		event.WithPriority(event.PriorityHigh),
	)
	if err != nil {
		return nil, err
	}
	return func() error {
		return s.bus.Unsubscribe(sub)
	}, nil
}

// BusPublisher publishes composed names on an event bus. Each name is its
// own topic, so subscribers select names by subscribing to them.
type BusPublisher struct {
	bus event.Bus
}

// NewBusPublisher returns a Publisher backed by bus.
func NewBusPublisher(bus event.Bus) *BusPublisher {
	return &BusPublisher{bus: bus}
}

// Publish implements Publisher.
func (p *BusPublisher) Publish(ctx context.Context, pressed events.KeyPressed) error {
	return p.bus.Publish(ctx, event.NewEvent(events.PressedTopic(pressed.Name), pressed, events.SourceKeyboard))
}
