package keyboard

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/dshills/keypress/internal/event/events"
	"github.com/dshills/keypress/internal/input/key"
	"github.com/dshills/keypress/internal/logging"
)

// KeyDownHandler receives raw key-down events from a Source.
type KeyDownHandler func(ctx context.Context, ev key.Event)

// Unsubscribe detaches a handler from its Source.
type Unsubscribe func() error

// Source delivers raw key-down events.
type Source interface {
	Subscribe(h KeyDownHandler) (Unsubscribe, error)
}

// Publisher announces composed names to the rest of the application.
type Publisher interface {
	Publish(ctx context.Context, pressed events.KeyPressed) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, pressed events.KeyPressed) error

// Publish implements Publisher.
func (f PublisherFunc) Publish(ctx context.Context, pressed events.KeyPressed) error {
	return f(ctx, pressed)
}

// State is the observable state of an Input.
type State int

const (
	// StateOff means power is off; every event is ignored.
	StateOff State = iota
	// StateIdle means power is on and the throttle window is closed.
	StateIdle
	// StateThrottled means power is on and a throttle window is open.
	StateThrottled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateOff:
		return "off"
	case StateIdle:
		return "idle"
	case StateThrottled:
		return "throttled"
	default:
		return "unknown"
	}
}

// Stats counts what happened to received events.
type Stats struct {
	// Received is every event the source delivered.
	Received uint64
	// Admitted passed the gate.
	Admitted uint64
	// Rejected failed the gate.
	Rejected uint64
	// Dispatched were published.
	Dispatched uint64
	// Filtered were admitted but their name was not enabled.
	Filtered uint64
	// PublishErrors were enabled but the publisher failed.
	PublishErrors uint64
}

// Input is the key translator. It is safe for concurrent use; events are
// processed one at a time.
type Input struct {
	source    Source
	publisher Publisher
	clock     Clock
	logger    *slog.Logger

	// lifeMu guards unsubscribe.
	lifeMu      sync.Mutex
	unsubscribe Unsubscribe

	// mu guards power, throttled and enabled, and serializes HandleKeyDown.
	mu        sync.Mutex
	on        bool
	throttled bool
	enabled   map[string]struct{}

	received      atomic.Uint64
	admitted      atomic.Uint64
	rejected      atomic.Uint64
	dispatched    atomic.Uint64
	filtered      atomic.Uint64
	publishErrors atomic.Uint64
}

// Option configures an Input.
type Option func(*Input)

// WithClock replaces the clock used for throttle timers.
func WithClock(c Clock) Option {
	return func(in *Input) {
		if c != nil {
			in.clock = c
		}
	}
}

// WithLogger sets the logger. Records are written at debug level except
// publisher failures, which are warnings.
func WithLogger(l *slog.Logger) Option {
	return func(in *Input) {
		if l != nil {
			in.logger = l
		}
	}
}

// New creates a powered-off Input with an empty enabled set.
func New(source Source, publisher Publisher, opts ...Option) (*Input, error) {
	if source == nil {
		return nil, ErrNilSource
	}
	if publisher == nil {
		return nil, ErrNilPublisher
	}

	in := &Input{
		source:    source,
		publisher: publisher,
		clock:     SystemClock(),
		logger:    logging.Discard(),
		enabled:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in, nil
}

// Start subscribes to the source.
func (in *Input) Start() error {
	in.lifeMu.Lock()
	defer in.lifeMu.Unlock()

	if in.unsubscribe != nil {
		return ErrAlreadyStarted
	}
	unsub, err := in.source.Subscribe(in.HandleKeyDown)
	if err != nil {
		return err
	}
	in.unsubscribe = unsub
	return nil
}

// Stop unsubscribes from the source. A pending throttle timer still fires.
func (in *Input) Stop() error {
	in.lifeMu.Lock()
	defer in.lifeMu.Unlock()

	if in.unsubscribe == nil {
		return ErrNotStarted
	}
	err := in.unsubscribe()
	in.unsubscribe = nil
	return err
}

// TurnOn powers the translator on.
func (in *Input) TurnOn() {
	in.mu.Lock()
	in.on = true
	in.mu.Unlock()
}

// TurnOff powers the translator off. An open throttle window is left to
// close on its own timer.
func (in *Input) TurnOff() {
	in.mu.Lock()
	in.on = false
	in.mu.Unlock()
}

// IsOn reports the power state.
func (in *Input) IsOn() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.on
}

// Enable replaces the set of names that may be published. Names are not
// validated.
func (in *Input) Enable(names ...string) {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}

	in.mu.Lock()
	in.enabled = set
	in.mu.Unlock()
}

// Enabled returns the enabled names, sorted.
func (in *Input) Enabled() []string {
	in.mu.Lock()
	names := make([]string, 0, len(in.enabled))
	for n := range in.enabled {
		names = append(names, n)
	}
	in.mu.Unlock()

	sort.Strings(names)
	return names
}

// State returns the observable state. Power off takes precedence over an
// open throttle window.
func (in *Input) State() State {
	in.mu.Lock()
	defer in.mu.Unlock()

	switch {
	case !in.on:
		return StateOff
	case in.throttled:
		return StateThrottled
	default:
		return StateIdle
	}
}

// Stats returns a snapshot of the event counters.
func (in *Input) Stats() Stats {
	return Stats{
		Received:      in.received.Load(),
		Admitted:      in.admitted.Load(),
		Rejected:      in.rejected.Load(),
		Dispatched:    in.dispatched.Load(),
		Filtered:      in.filtered.Load(),
		PublishErrors: in.publishErrors.Load(),
	}
}

// HandleKeyDown runs one raw event through the pipeline. It is the handler
// Start registers with the source and may also be called directly.
func (in *Input) HandleKeyDown(ctx context.Context, ev key.Event) {
	in.received.Add(1)

	in.mu.Lock()
	if !gate(in.on, in.throttled, ev.Code) {
		in.mu.Unlock()
		in.rejected.Add(1)
		return
	}
	// The window is marked open before publishing so nothing else enters
	// the pipeline while this event is in flight.
	in.throttled = true
	tr := Translate(ev)
	_, allowed := in.enabled[tr.Name]
	in.mu.Unlock()

	in.admitted.Add(1)
	defer in.clock.AfterFunc(ThrottleDuration(), in.closeWindow)

	if ev.PreventDefault != nil {
		ev.PreventDefault()
	}

	if !allowed {
		in.filtered.Add(1)
		in.logger.Debug("name not enabled", "code", ev.Code.String(), "name", tr.Name)
		return
	}

	err := in.publisher.Publish(ctx, events.KeyPressed{
		Name:      tr.Name,
		Code:      tr.Code,
		Token:     tr.Token,
		Modifiers: tr.Modifiers,
	})
	if err != nil {
		in.publishErrors.Add(1)
		in.logger.Warn("publish failed", "name", tr.Name, "error", err)
		return
	}
	in.dispatched.Add(1)
	in.logger.Debug("dispatched", "code", ev.Code.String(), "name", tr.Name)
}

func (in *Input) closeWindow() {
	in.mu.Lock()
	in.throttled = false
	in.mu.Unlock()
}
