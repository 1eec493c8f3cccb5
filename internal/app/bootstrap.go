package app

import (
	"context"
	"fmt"
	"time"

	"github.com/dshills/keypress/internal/config"
	"github.com/dshills/keypress/internal/event"
	"github.com/dshills/keypress/internal/input/keyboard"
	"github.com/dshills/keypress/internal/logging"
	"github.com/dshills/keypress/internal/script"
	"github.com/dshills/keypress/internal/source"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{
		app:       app,
		initOrder: make([]string, 0, 6),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,    // 1. Configuration (file, environment, flags)
		b.initLogger,    // 2. Logger
		b.initEventBus,  // 3. Event bus
		b.initInput,     // 4. Keyboard translator
		b.initReactions, // 5. Lua reactions
		b.initSource,    // 6. Raw feed
		b.initWatcher,   // 7. Config watcher
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

func (b *bootstrapper) initConfig() error {
	cfg, err := b.app.loadConfig(b.app.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	b.app.config = cfg
	return nil
}

func (b *bootstrapper) initLogger() error {
	if b.app.opts.Logger != nil {
		b.app.logger = b.app.opts.Logger
		return nil
	}

	out := logging.NewHeldWriter(b.app.opts.Stderr, heldLogLimit)
	logger, err := newLogger(b.app.config.Logging, out)
	if err != nil {
		return &InitError{Component: "logger", Err: err}
	}
	b.app.logger = logger
	b.app.logOut = out
	return nil
}

func (b *bootstrapper) initEventBus() error {
	logger := logging.Component(b.app.logger, "bus")
	b.app.eventBus = event.NewBus(event.WithErrorHandler(func(ev any, err error) {
		logger.Warn("handler failed", append(eventAttrs(ev), "error", err)...)
	}))
	if err := b.app.eventBus.Start(); err != nil {
		return &InitError{Component: "event bus", Err: err}
	}
	b.app.subscriptions = newSubscriptionManager(b.app.eventBus)
	b.initOrder = append(b.initOrder, "eventBus")
	return nil
}

func (b *bootstrapper) initInput() error {
	in, err := keyboard.New(
		keyboard.NewBusSource(b.app.eventBus),
		keyboard.NewBusPublisher(b.app.eventBus),
		keyboard.WithClock(b.app.opts.Clock),
		keyboard.WithLogger(logging.Component(b.app.logger, "keyboard")),
	)
	if err != nil {
		return &InitError{Component: "keyboard", Err: err}
	}
	b.app.input = in
	b.initOrder = append(b.initOrder, "input")
	return nil
}

func (b *bootstrapper) initReactions() error {
	b.app.reactor = script.New(script.WithLogger(logging.Component(b.app.logger, "script")))
	b.initOrder = append(b.initOrder, "reactions")

	if err := b.app.reactor.Load(b.app.config.Reactions); err != nil {
		return &InitError{Component: "reactions", Err: err}
	}
	return nil
}

func (b *bootstrapper) initSource() error {
	if b.app.opts.Source != nil {
		b.app.source = b.app.opts.Source
		return nil
	}

	src, err := source.New(source.Options{
		Kind:   b.app.config.Source.Kind,
		Device: b.app.config.Source.Device,
		Input:  b.app.config.Source.Input,
		Stdin:  b.app.opts.Stdin,
		Logger: b.app.logger,
	})
	if err != nil {
		return &InitError{Component: "source", Err: err}
	}
	b.app.source = src
	return nil
}

func (b *bootstrapper) initWatcher() error {
	if !b.app.opts.Watch || b.app.opts.ConfigPath == "" {
		return nil
	}

	logger := logging.Component(b.app.logger, "config")
	b.app.watcher = config.NewWatcher(b.app.opts.ConfigPath, b.app.reload,
		config.WithLoader(b.app.loadConfig),
		config.WithWatcherLogger(logger),
	)
	b.initOrder = append(b.initOrder, "watcher")
	return nil
}

// cleanup performs cleanup in reverse initialization order.
// Called when bootstrap fails partway through.
func (b *bootstrapper) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(ctx, b.initOrder[i])
	}
}

// cleanupComponent cleans up a single component.
func (b *bootstrapper) cleanupComponent(ctx context.Context, component string) {
	switch component {
	case "eventBus":
		if b.app.eventBus != nil {
			_ = b.app.eventBus.Stop(ctx)
			b.app.eventBus = nil
		}
	case "input":
		b.app.input = nil
	case "reactions":
		if b.app.reactor != nil {
			b.app.reactor.Close()
			b.app.reactor = nil
		}
	case "watcher":
		if b.app.watcher != nil {
			_ = b.app.watcher.Close()
			b.app.watcher = nil
		}
	}
}

// eventAttrs describes a type-erased event for logging.
func eventAttrs(ev any) []any {
	attrs := make([]any, 0, 6)
	if tp, ok := ev.(event.TopicProvider); ok {
		attrs = append(attrs, "topic", tp.EventTopic().String())
	} else {
		attrs = append(attrs, "type", fmt.Sprintf("%T", ev))
	}
	if mp, ok := ev.(event.MetadataProvider); ok {
		md := mp.EventMetadata()
		attrs = append(attrs, "event_id", md.ID, "publisher", md.Source)
	}
	return attrs
}
