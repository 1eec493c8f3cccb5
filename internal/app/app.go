// Package app wires the keyboard translator to a raw feed, the event bus,
// Lua reactions and the configuration file, and manages their lifecycle.
package app

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dshills/keypress/internal/config"
	"github.com/dshills/keypress/internal/event"
	"github.com/dshills/keypress/internal/input/keyboard"
	"github.com/dshills/keypress/internal/logging"
	"github.com/dshills/keypress/internal/script"
	"github.com/dshills/keypress/internal/source"
)

// Application is the central coordinator for all keypress components.
type Application struct {
	mu     sync.RWMutex
	config *config.Config

	opts   Options
	logger *slog.Logger
	logOut *logging.HeldWriter

	// Core infrastructure
	eventBus event.Bus
	input    *keyboard.Input
	reactor  *script.Reactor
	source   source.Source
	watcher  *config.Watcher

	subscriptions *subscriptionManager

	// State
	running  atomic.Bool
	shutdown atomic.Bool
	cancel   context.CancelFunc
	runDone  chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a new Application with the given options. Nothing reads the
// feed until Run is called.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts: opts.withDefaults(),
		done: make(chan struct{}),
	}

	if err := newBootstrapper(app).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Config returns a copy of the configuration in effect.
func (app *Application) Config() *config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.config.Clone()
}

// EventBus returns the application's event bus.
func (app *Application) EventBus() event.Bus {
	return app.eventBus
}

// Input returns the keyboard translator.
func (app *Application) Input() *keyboard.Input {
	return app.input
}

// Reactor returns the Lua reaction runner.
func (app *Application) Reactor() *script.Reactor {
	return app.reactor
}

// Source returns the raw keyboard feed.
func (app *Application) Source() source.Source {
	return app.source
}

// Logger returns the application logger.
func (app *Application) Logger() *slog.Logger {
	return app.logger
}

// IsRunning returns true while Run is executing.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Done returns a channel that's closed when the application shuts down.
func (app *Application) Done() <-chan struct{} {
	return app.done
}

// loadConfig reads path with the application's environment and
// command-line overrides applied.
func (app *Application) loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadWithEnv(path, app.opts.LookupEnv)
	if err != nil {
		return nil, err
	}
	if app.opts.Overrides.IsZero() {
		return cfg, nil
	}
	app.opts.Overrides.Apply(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyConfig pushes the live settings of cfg into the translator and the
// reactor. The feed and logger are fixed at startup.
func (app *Application) applyConfig(cfg *config.Config) error {
	if err := app.reactor.Load(cfg.Reactions); err != nil {
		return NewComponentError("reactions", "load", err)
	}

	keyboard.SetThrottleDuration(cfg.Throttle.Std())
	app.input.Enable(cfg.Enabled...)
	if cfg.Power {
		app.input.TurnOn()
	} else {
		app.input.TurnOff()
	}

	app.mu.Lock()
	app.config = cfg
	app.mu.Unlock()
	return nil
}

// reload is the watcher callback.
func (app *Application) reload(cfg *config.Config) {
	old := app.Config()
	if err := app.applyConfig(cfg); err != nil {
		app.logger.Warn("config reload rejected", "error", err)
		return
	}
	if old.Source != cfg.Source || old.Logging != cfg.Logging {
		app.logger.Warn("source and logging changes take effect on restart")
	}
	app.logger.Info("config applied",
		"throttle", cfg.Throttle.String(),
		"power", cfg.Power,
		"enabled", len(cfg.Enabled),
		"reactions", len(cfg.Reactions),
	)
}
