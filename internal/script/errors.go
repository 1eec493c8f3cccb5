package script

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned when using a closed Reactor.
	ErrClosed = errors.New("script: reactor is closed")

	// ErrTimeout is returned when a reaction runs longer than its limit.
	ErrTimeout = errors.New("script: reaction timed out")
)

// CompileError reports a reaction chunk that does not parse.
type CompileError struct {
	// Name is the composed name the chunk is bound to.
	Name string
	// Err is the Lua compiler's error.
	Err error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile reaction %q: %v", e.Name, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// RuntimeError reports a reaction that raised a Lua error.
type RuntimeError struct {
	Name string
	Err  error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("run reaction %q: %v", e.Name, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}
