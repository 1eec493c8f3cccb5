package source

import "errors"

var (
	// ErrUnknownKind is returned by New for an unrecognized feed kind.
	ErrUnknownKind = errors.New("source: unknown kind")

	// ErrInterrupted ends a terminal feed when the user presses Ctrl+C.
	ErrInterrupted = errors.New("source: interrupted")

	// ErrNoDevice is returned when the evdev feed is selected without a
	// device path.
	ErrNoDevice = errors.New("source: no input device")

	// ErrUnsupported is returned when a feed is not available on this
	// platform.
	ErrUnsupported = errors.New("source: not supported on this platform")
)
