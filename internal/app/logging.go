package app

import (
	"io"
	"log/slog"

	"github.com/dshills/keypress/internal/config"
	"github.com/dshills/keypress/internal/logging"
)

// heldLogLimit bounds the log output buffered while the terminal feed owns
// the screen.
const heldLogLimit = 256 << 10

// newLogger builds the process logger from the logging section.
func newLogger(cfg config.LoggingConfig, out io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Config{
		Level:  level,
		Format: format,
		Output: out,
	}), nil
}

// holdLogs buffers log output while a feed that draws on the terminal runs,
// so records do not land on top of the screen. The returned func flushes
// them. A logger passed in through Options is never held.
func (app *Application) holdLogs() (release func()) {
	if _, draws := app.source.(io.Writer); !draws || app.logOut == nil {
		return func() {}
	}
	app.logOut.Hold()
	return func() { _ = app.logOut.Release() }
}
