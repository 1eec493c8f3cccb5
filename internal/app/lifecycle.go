package app

import (
	"context"
	"errors"
	"time"

	"github.com/dshills/keypress/internal/source"
)

// ShutdownTimeout bounds how long Shutdown waits for Run to return.
const ShutdownTimeout = 5 * time.Second

// Run starts the translator, applies the configuration and reads the feed
// until ctx is cancelled, the feed ends, or Shutdown is called. Ctrl+C on
// the terminal feed is a normal exit.
func (app *Application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runDone := make(chan struct{})
	defer close(runDone)

	app.mu.Lock()
	if app.shutdown.Load() {
		app.mu.Unlock()
		return ErrShutDown
	}
	if !app.running.CompareAndSwap(false, true) {
		app.mu.Unlock()
		return ErrAlreadyRunning
	}
	app.cancel = cancel
	app.runDone = runDone
	app.mu.Unlock()

	defer func() {
		app.mu.Lock()
		app.cancel = nil
		app.runDone = nil
		app.mu.Unlock()
		app.running.Store(false)
	}()

	if err := app.subscriptions.setupSubscriptions(app); err != nil {
		return NewComponentError("subscriptions", "setup", err)
	}
	defer app.subscriptions.unsubscribeAll()

	if err := app.input.Start(); err != nil {
		return NewComponentError("keyboard", "start", err)
	}
	defer func() { _ = app.input.Stop() }()

	if err := app.applyConfig(app.Config()); err != nil {
		return err
	}

	if app.watcher != nil {
		if err := app.watcher.Start(); err != nil {
			app.logger.Warn("config reload disabled", "error", err)
		} else {
			defer func() { _ = app.watcher.Close() }()
		}
	}

	app.logger.Info("keypress started",
		"source", app.source.Name(),
		"power", app.input.IsOn(),
		"throttle", app.Config().Throttle.String(),
	)

	release := app.holdLogs()
	err := app.source.Run(ctx, source.NewBusSink(app.eventBus, app.source.Name()))
	release()

	m := app.Metrics()
	app.logger.Info("keypress stopped",
		"received", m.Keyboard.Received,
		"admitted", m.Keyboard.Admitted,
		"dispatched", m.Keyboard.Dispatched,
		"reactions", m.Reactions.Runs,
	)

	switch {
	case err == nil, errors.Is(err, source.ErrInterrupted):
		return nil
	case ctx.Err() != nil && app.shutdown.Load():
		// The bus may have been stopped under the feed.
		return nil
	default:
		return NewComponentError("source", app.source.Name(), err)
	}
}

// Shutdown stops a running Run and releases every component. It is safe to
// call more than once; later calls return nil.
func (app *Application) Shutdown() error {
	var err error
	app.stopOnce.Do(func() {
		err = app.shutdownComponents()
	})
	return err
}

func (app *Application) shutdownComponents() error {
	var errs ErrorList

	app.mu.Lock()
	app.shutdown.Store(true)
	cancel, runDone := app.cancel, app.runDone
	app.mu.Unlock()

	if cancel != nil {
		cancel()
		select {
		case <-runDone:
		case <-time.After(ShutdownTimeout):
			errs.Add(ErrShutdownTimeout)
		}
	}

	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			errs.Add(NewComponentError("watcher", "close", err))
		}
	}
	app.reactor.Close()

	ctx, stop := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer stop()
	if err := app.eventBus.Stop(ctx); err != nil {
		errs.Add(NewComponentError("bus", "stop", err))
	}

	close(app.done)
	return errs.AsError()
}
