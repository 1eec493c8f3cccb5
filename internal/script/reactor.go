// Package script runs Lua reactions to composed key names.
//
// A reaction is a Lua chunk bound to one composed name. When that name is
// published, the chunk runs with a global "event" table:
//
//	event.name   "ctrl-up-pressed"
//	event.code   "Numpad8"
//	event.token  "up"
//	event.ctrl   true
//	event.shift  false
//	event.alt    false
//
// and a global log(msg) that writes to the process logger. print is
// redirected to log. All reactions share one sandboxed Lua state, so
// globals set by one run are visible to later runs.
package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"github.com/dshills/keypress/internal/event"
	"github.com/dshills/keypress/internal/event/events"
	"github.com/dshills/keypress/internal/logging"
)

// DefaultTimeout bounds a single reaction run.
const DefaultTimeout = time.Second

// Stats counts reaction runs.
type Stats struct {
	Runs     uint64
	Failures uint64
}

// Reactor holds compiled reactions and the Lua state they run in.
// gopher-lua states are single-threaded; runs are serialized.
type Reactor struct {
	logger  *slog.Logger
	timeout time.Duration

	mu      sync.Mutex
	L       *lua.LState
	protos  map[string]*lua.FunctionProto
	current string
	closed  bool

	runs     atomic.Uint64
	failures atomic.Uint64
}

// Option configures a Reactor.
type Option func(*Reactor)

// WithLogger sets the logger that log() and print() write to.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reactor) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTimeout bounds each run. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Reactor) {
		if d >= 0 {
			r.timeout = d
		}
	}
}

// New creates a Reactor with no reactions.
func New(opts ...Option) *Reactor {
	r := &Reactor{
		logger:  logging.Discard(),
		timeout: DefaultTimeout,
		protos:  make(map[string]*lua.FunctionProto),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.L = newSandbox()
	logFn := r.L.NewFunction(r.luaLog)
	r.L.SetGlobal("log", logFn)
	r.L.SetGlobal("print", logFn)
	return r
}

// Load compiles reactions and replaces the current set. If any chunk fails
// to compile the current set is kept and every compile error is returned.
func (r *Reactor) Load(reactions map[string]string) error {
	protos := make(map[string]*lua.FunctionProto, len(reactions))
	var errs []error
	for name, src := range reactions {
		proto, err := compile(name, src)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		protos[name] = proto
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.protos = protos
	return nil
}

func compile(name, src string) (*lua.FunctionProto, error) {
	chunk, err := parse.Parse(strings.NewReader(src), name)
	if err != nil {
		return nil, &CompileError{Name: name, Err: err}
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, &CompileError{Name: name, Err: err}
	}
	return proto, nil
}

// Names returns the names that have a reaction, sorted.
func (r *Reactor) Names() []string {
	r.mu.Lock()
	names := make([]string, 0, len(r.protos))
	for n := range r.protos {
		names = append(names, n)
	}
	r.mu.Unlock()

	sort.Strings(names)
	return names
}

// Has reports whether name has a reaction.
func (r *Reactor) Has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.protos[name]
	return ok
}

// Stats returns run counters.
func (r *Reactor) Stats() Stats {
	return Stats{
		Runs:     r.runs.Load(),
		Failures: r.failures.Load(),
	}
}

// React runs the reaction bound to p.Name, if any.
func (r *Reactor) React(ctx context.Context, p events.KeyPressed) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	proto, ok := r.protos[p.Name]
	if !ok {
		return nil
	}

	r.runs.Add(1)
	if err := r.run(ctx, p, proto); err != nil {
		r.failures.Add(1)
		return err
	}
	return nil
}

// run executes proto with r.mu held.
func (r *Reactor) run(ctx context.Context, p events.KeyPressed, proto *lua.FunctionProto) error {
	L := r.L

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	L.SetContext(ctx)
	defer L.RemoveContext()

	ev := L.NewTable()
	ev.RawSetString("name", lua.LString(p.Name))
	ev.RawSetString("code", lua.LString(p.Code))
	ev.RawSetString("token", lua.LString(p.Token))
	ev.RawSetString("ctrl", lua.LBool(p.Modifiers.HasCtrl()))
	ev.RawSetString("shift", lua.LBool(p.Modifiers.HasShift()))
	ev.RawSetString("alt", lua.LBool(p.Modifiers.HasAlt()))
	L.SetGlobal("event", ev)

	r.current = p.Name
	defer func() { r.current = "" }()

	top := L.GetTop()
	L.Push(L.NewFunctionFromProto(proto))
	err := L.PCall(0, lua.MultRet, nil)
	L.SetTop(top)
	if err == nil {
		return nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &RuntimeError{Name: p.Name, Err: fmt.Errorf("%w after %s", ErrTimeout, r.timeout)}
	}
	return &RuntimeError{Name: p.Name, Err: err}
}

// luaLog implements log(...) and print(...).
func (r *Reactor) luaLog(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	r.logger.Info(strings.Join(parts, " "), "reaction", r.current)
	return 0
}

// Handler returns a bus handler that runs reactions for every KeyPressed
// event it receives.
func (r *Reactor) Handler() event.Handler {
	return event.AsHandler(func(ctx context.Context, e event.Event[events.KeyPressed]) error {
		return r.React(ctx, e.Payload)
	})
}

// Close releases the Lua state. Further calls return ErrClosed.
func (r *Reactor) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.L.Close()
}
