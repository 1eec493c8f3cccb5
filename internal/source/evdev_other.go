//go:build !linux

package source

import (
	"context"
	"log/slog"
)

// Evdev is only available on Linux.
type Evdev struct {
	path string
}

// NewEvdev returns a feed that always fails with ErrUnsupported.
func NewEvdev(path string, _ *slog.Logger) *Evdev {
	return &Evdev{path: path}
}

// Name implements Source.
func (d *Evdev) Name() string {
	return "evdev"
}

// Run implements Source.
func (d *Evdev) Run(context.Context, Sink) error {
	return ErrUnsupported
}
