package keyboard

import "errors"

var (
	// ErrNilSource is returned by New when no source is given.
	ErrNilSource = errors.New("keyboard: nil source")

	// ErrNilPublisher is returned by New when no publisher is given.
	ErrNilPublisher = errors.New("keyboard: nil publisher")

	// ErrAlreadyStarted is returned by Start on a started Input.
	ErrAlreadyStarted = errors.New("keyboard: already started")

	// ErrNotStarted is returned by Stop on an Input that is not started.
	ErrNotStarted = errors.New("keyboard: not started")
)
