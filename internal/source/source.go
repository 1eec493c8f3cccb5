package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dshills/keypress/internal/event"
	"github.com/dshills/keypress/internal/event/events"
	"github.com/dshills/keypress/internal/input/key"
	"github.com/dshills/keypress/internal/logging"
)

// Feed kinds accepted by New.
const (
	KindTerminal = "terminal"
	KindEvdev    = "evdev"
	KindJSONL    = "jsonl"
)

// Kinds lists every feed kind.
func Kinds() []string {
	return []string{KindTerminal, KindEvdev, KindJSONL}
}

// Sink receives raw key-down events.
type Sink interface {
	KeyDown(ctx context.Context, ev key.Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, ev key.Event) error

// KeyDown implements Sink.
func (f SinkFunc) KeyDown(ctx context.Context, ev key.Event) error {
	return f(ctx, ev)
}

// Source is a raw keyboard feed.
type Source interface {
	// Name identifies the feed in logs and event payloads.
	Name() string

	// Run delivers events to sink until ctx is cancelled, the feed ends, or
	// the sink fails. A cancelled context is not an error.
	Run(ctx context.Context, sink Sink) error
}

// Options selects and configures a feed.
type Options struct {
	// Kind is one of KindTerminal, KindEvdev or KindJSONL.
	Kind string

	// Device is the evdev device path, e.g. /dev/input/event3.
	Device string

	// Input is the JSON-lines file; "" or "-" reads Stdin.
	Input string

	// Stdin replaces os.Stdin for the JSON-lines feed.
	Stdin io.Reader

	// Logger receives feed diagnostics.
	Logger *slog.Logger
}

// New builds the feed named by opts.Kind. Files and devices are opened when
// the feed runs.
func New(opts Options) (Source, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	switch opts.Kind {
	case KindTerminal:
		return NewTerminal(nil, logging.Component(logger, "terminal")), nil
	case KindEvdev:
		if opts.Device == "" {
			return nil, ErrNoDevice
		}
		return NewEvdev(opts.Device, logging.Component(logger, "evdev")), nil
	case KindJSONL:
		return newJSONLFromPath(opts.Input, opts.Stdin, logging.Component(logger, "jsonl")), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, opts.Kind)
	}
}

func newJSONLFromPath(path string, stdin io.Reader, logger *slog.Logger) *JSONLines {
	if path == "" || path == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		return NewJSONLines(stdin, logger)
	}
	return newJSONLines(path, func() (io.ReadCloser, error) {
		return os.Open(path)
	}, logger)
}

// BusSink publishes raw events on the event bus.
type BusSink struct {
	bus  event.Bus
	feed string
}

// NewBusSink returns a Sink that publishes on events.TopicKeyDown, tagging
// each payload with feed.
func NewBusSink(bus event.Bus, feed string) *BusSink {
	return &BusSink{bus: bus, feed: feed}
}

// KeyDown implements Sink.
func (s *BusSink) KeyDown(ctx context.Context, ev key.Event) error {
	payload := events.KeyDown{Event: ev, Feed: s.feed}
	return s.bus.Publish(ctx, event.NewEvent(events.TopicKeyDown, payload, events.SourceFeed))
}
