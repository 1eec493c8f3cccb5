// Package dispatch runs one event handler with panic recovery.
//
// Delivery is synchronous: the handler runs in the publisher's goroutine
// and Run returns once it completes.
package dispatch

import (
	"context"
	"runtime/debug"
)

// Handler mirrors event.Handler to avoid an import cycle.
type Handler interface {
	Handle(ctx context.Context, event any) error
}

// Result is the outcome of one handler execution.
type Result struct {
	// Error is the error returned by the handler, or the context error
	// when the handler was skipped.
	Error error

	// Skipped is true if the context was already done.
	Skipped bool

	// Panicked is true if the handler panicked. PanicValue and PanicStack
	// describe the panic.
	Panicked   bool
	PanicValue any
	PanicStack []byte
}

// OK reports whether the handler ran and returned nil.
func (r Result) OK() bool {
	return !r.Skipped && !r.Panicked && r.Error == nil
}

// Run calls handler with event unless ctx is already done. A panic in the
// handler is recovered and reported in the result.
func Run(ctx context.Context, event any, handler Handler) (result Result) {
	if err := ctx.Err(); err != nil {
		return Result{Error: err, Skipped: true}
	}

	defer func() {
		if r := recover(); r != nil {
			result = Result{
				Panicked:   true,
				PanicValue: r,
				PanicStack: debug.Stack(),
			}
		}
	}()

	return Result{Error: handler.Handle(ctx, event)}
}
