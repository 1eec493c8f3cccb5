package app

import (
	"github.com/dshills/keypress/internal/event"
	"github.com/dshills/keypress/internal/input/keyboard"
	"github.com/dshills/keypress/internal/script"
)

// Metrics is a point-in-time snapshot of the components' counters.
type Metrics struct {
	Keyboard  keyboard.Stats
	Bus       event.Stats
	Reactions script.Stats

	// Reloads counts configuration reloads applied since startup.
	Reloads int

	// Subscriptions is the number of consumers the app registered on
	// composed names.
	Subscriptions int
}

// Metrics returns the current counters.
func (app *Application) Metrics() Metrics {
	m := Metrics{
		Keyboard:  app.input.Stats(),
		Bus:       app.eventBus.Stats(),
		Reactions: app.reactor.Stats(),
	}
	if app.watcher != nil {
		m.Reloads = app.watcher.Reloads()
	}
	if app.subscriptions != nil {
		m.Subscriptions = app.subscriptions.count()
	}
	return m
}
