package keyboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keypress/internal/event/events"
	"github.com/dshills/keypress/internal/input/key"
)

// manualClock fires callbacks only when advanced.
type manualClock struct {
	mu      sync.Mutex
	now     time.Duration
	pending []timer
}

type timer struct {
	at time.Duration
	f  func()
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, timer{at: c.now + d, f: f})
}

// Advance moves time forward by d and runs every callback that has come due.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []func()
	kept := c.pending[:0]
	for _, t := range c.pending {
		if t.at <= c.now {
			due = append(due, t.f)
		} else {
			kept = append(kept, t)
		}
	}
	c.pending = kept
	c.mu.Unlock()

	for _, f := range due {
		f()
	}
}

func (c *manualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// fakeSource hands events straight to the subscribed handler.
type fakeSource struct {
	handler      KeyDownHandler
	subscribeErr error
	unsubscribed int
}

func (s *fakeSource) Subscribe(h KeyDownHandler) (Unsubscribe, error) {
	if s.subscribeErr != nil {
		return nil, s.subscribeErr
	}
	s.handler = h
	return func() error {
		s.handler = nil
		s.unsubscribed++
		return nil
	}, nil
}

func (s *fakeSource) press(code key.Code, mods key.Modifier) {
	if s.handler != nil {
		s.handler(context.Background(), key.NewEvent(code, mods))
	}
}

// recorder collects published names.
type recorder struct {
	mu    sync.Mutex
	names []string
	err   error
}

func (r *recorder) Publish(_ context.Context, p events.KeyPressed) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.names = append(r.names, p.Name)
	return nil
}

func (r *recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}

type fixture struct {
	in    *Input
	src   *fakeSource
	pub   *recorder
	clock *manualClock
}

func newFixture(t *testing.T, enabled ...string) *fixture {
	t.Helper()
	f := &fixture{
		src:   &fakeSource{},
		pub:   &recorder{},
		clock: &manualClock{},
	}
	in, err := New(f.src, f.pub, WithClock(f.clock))
	require.NoError(t, err)
	require.NoError(t, in.Start())
	in.Enable(enabled...)
	in.TurnOn()
	f.in = in
	return f
}

func TestNew_NilCollaborators(t *testing.T) {
	_, err := New(nil, &recorder{})
	assert.ErrorIs(t, err, ErrNilSource)

	_, err = New(&fakeSource{}, nil)
	assert.ErrorIs(t, err, ErrNilPublisher)
}

func TestInput_InitialState(t *testing.T) {
	in, err := New(&fakeSource{}, &recorder{})
	require.NoError(t, err)

	assert.Equal(t, StateOff, in.State())
	assert.False(t, in.IsOn())
	assert.Empty(t, in.Enabled())
}

func TestInput_StartStop(t *testing.T) {
	src := &fakeSource{}
	in, err := New(src, &recorder{})
	require.NoError(t, err)

	assert.ErrorIs(t, in.Stop(), ErrNotStarted)
	require.NoError(t, in.Start())
	assert.ErrorIs(t, in.Start(), ErrAlreadyStarted)
	require.NoError(t, in.Stop())
	assert.Equal(t, 1, src.unsubscribed)
	assert.ErrorIs(t, in.Stop(), ErrNotStarted)

	// Restart after stop.
	require.NoError(t, in.Start())
}

func TestInput_StartSubscribeError(t *testing.T) {
	boom := errors.New("boom")
	in, err := New(&fakeSource{subscribeErr: boom}, &recorder{})
	require.NoError(t, err)

	assert.ErrorIs(t, in.Start(), boom)
	assert.ErrorIs(t, in.Stop(), ErrNotStarted)
}

func TestInput_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		code key.Code
		mods key.Modifier
		want string
	}{
		{"letter", key.CodeKeyA, key.ModNone, "a-key-pressed"},
		{"digit", key.CodeDigit5, key.ModNone, "number-5-pressed"},
		{"escape", key.CodeEscape, key.ModNone, "escape-pressed"},
		{"ctrl numpad", key.CodeNumpad8, key.ModCtrl, "ctrl-up-pressed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.want)
			f.src.press(tt.code, tt.mods)
			assert.Equal(t, []string{tt.want}, f.pub.Names())
		})
	}
}

func TestInput_ThrottleWindow(t *testing.T) {
	f := newFixture(t, "a-key-pressed", "b-key-pressed")

	f.src.press(key.CodeKeyA, key.ModNone)
	assert.Equal(t, StateThrottled, f.in.State())

	f.clock.Advance(50 * time.Millisecond)
	f.src.press(key.CodeKeyB, key.ModNone)
	assert.Equal(t, []string{"a-key-pressed"}, f.pub.Names())

	f.clock.Advance(200 * time.Millisecond)
	assert.Equal(t, StateIdle, f.in.State())
	f.src.press(key.CodeKeyB, key.ModNone)
	assert.Equal(t, []string{"a-key-pressed", "b-key-pressed"}, f.pub.Names())

	stats := f.in.Stats()
	assert.Equal(t, uint64(3), stats.Received)
	assert.Equal(t, uint64(2), stats.Admitted)
	assert.Equal(t, uint64(1), stats.Rejected)
	assert.Equal(t, uint64(2), stats.Dispatched)
}

func TestInput_ThrottleBoundary(t *testing.T) {
	f := newFixture(t, "a-key-pressed")

	f.src.press(key.CodeKeyA, key.ModNone)
	f.clock.Advance(DefaultThrottleDuration - time.Millisecond)
	f.src.press(key.CodeKeyA, key.ModNone)
	assert.Len(t, f.pub.Names(), 1)

	f.clock.Advance(time.Millisecond)
	f.src.press(key.CodeKeyA, key.ModNone)
	assert.Len(t, f.pub.Names(), 2)
}

func TestInput_PowerOff(t *testing.T) {
	f := newFixture(t, "a-key-pressed")
	f.in.TurnOff()
	assert.Equal(t, StateOff, f.in.State())

	for _, code := range key.TargetCodes() {
		f.src.press(code, key.ModCtrl)
	}
	assert.Empty(t, f.pub.Names())
	assert.Zero(t, f.clock.Pending())
}

func TestInput_NonTargetCodes(t *testing.T) {
	f := newFixture(t, "f1-key-pressed", "tab-key-pressed", "unidentified-key-pressed")

	for _, code := range []key.Code{"F1", "Tab", "ShiftLeft", "NumpadEnter", key.CodeUnidentified, ""} {
		f.src.press(code, key.ModNone)
	}
	assert.Empty(t, f.pub.Names())
	assert.Equal(t, StateIdle, f.in.State())
	assert.Equal(t, uint64(6), f.in.Stats().Rejected)
}

func TestInput_FilteredNameStillOpensWindow(t *testing.T) {
	f := newFixture(t, "b-key-pressed")

	f.src.press(key.CodeKeyA, key.ModNone)
	assert.Empty(t, f.pub.Names())
	assert.Equal(t, StateThrottled, f.in.State())
	assert.Equal(t, uint64(1), f.in.Stats().Filtered)

	f.src.press(key.CodeKeyB, key.ModNone)
	assert.Empty(t, f.pub.Names())

	f.clock.Advance(DefaultThrottleDuration)
	f.src.press(key.CodeKeyB, key.ModNone)
	assert.Equal(t, []string{"b-key-pressed"}, f.pub.Names())
}

func TestInput_PowerCycleInsideWindowKeepsWindow(t *testing.T) {
	f := newFixture(t, "a-key-pressed")

	f.src.press(key.CodeKeyA, key.ModNone)
	f.in.TurnOff()
	assert.Equal(t, StateOff, f.in.State())
	f.in.TurnOn()
	assert.Equal(t, StateThrottled, f.in.State())

	f.src.press(key.CodeKeyA, key.ModNone)
	assert.Len(t, f.pub.Names(), 1)

	f.clock.Advance(DefaultThrottleDuration)
	assert.Equal(t, StateIdle, f.in.State())
}

func TestInput_TimerFiresWhileOff(t *testing.T) {
	f := newFixture(t, "a-key-pressed")

	f.src.press(key.CodeKeyA, key.ModNone)
	f.in.TurnOff()
	f.clock.Advance(DefaultThrottleDuration)
	assert.Equal(t, StateOff, f.in.State())

	f.in.TurnOn()
	assert.Equal(t, StateIdle, f.in.State())
}

func TestInput_EnableReplacesSet(t *testing.T) {
	f := newFixture(t, "a-key-pressed")

	f.in.Enable("b-key-pressed", "escape-pressed")
	assert.Equal(t, []string{"b-key-pressed", "escape-pressed"}, f.in.Enabled())

	f.src.press(key.CodeKeyA, key.ModNone)
	assert.Empty(t, f.pub.Names())

	f.in.Enable()
	assert.Empty(t, f.in.Enabled())
}

func TestInput_EnableDuringWindowDoesNotCloseIt(t *testing.T) {
	f := newFixture(t, "a-key-pressed")

	f.src.press(key.CodeKeyA, key.ModNone)
	f.in.Enable("b-key-pressed")
	assert.Equal(t, StateThrottled, f.in.State())
}

func TestInput_StopLeavesTimerRunning(t *testing.T) {
	f := newFixture(t, "a-key-pressed")

	f.src.press(key.CodeKeyA, key.ModNone)
	require.NoError(t, f.in.Stop())
	assert.Equal(t, 1, f.clock.Pending())

	f.clock.Advance(DefaultThrottleDuration)
	assert.Equal(t, StateIdle, f.in.State())
}

func TestInput_PublishError(t *testing.T) {
	f := newFixture(t, "a-key-pressed")
	f.pub.err = errors.New("sink closed")

	f.src.press(key.CodeKeyA, key.ModNone)
	assert.Equal(t, uint64(1), f.in.Stats().PublishErrors)
	assert.Equal(t, uint64(0), f.in.Stats().Dispatched)
	assert.Equal(t, StateThrottled, f.in.State())
}

func TestInput_PreventDefault(t *testing.T) {
	f := newFixture(t)

	calls := 0
	ev := key.NewEvent(key.CodeKeyA, key.ModNone)
	ev.PreventDefault = func() { calls++ }
	f.in.HandleKeyDown(context.Background(), ev)
	assert.Equal(t, 1, calls, "admitted events suppress the default action")

	f.in.HandleKeyDown(context.Background(), ev)
	assert.Equal(t, 1, calls, "rejected events are left alone")
}

func TestInput_HandlerMayTurnOff(t *testing.T) {
	var in *Input
	pub := PublisherFunc(func(context.Context, events.KeyPressed) error {
		in.TurnOff()
		return nil
	})
	clock := &manualClock{}
	in, err := New(&fakeSource{}, pub, WithClock(clock))
	require.NoError(t, err)
	in.Enable("a-key-pressed")
	in.TurnOn()

	in.HandleKeyDown(context.Background(), key.NewEvent(key.CodeKeyA, key.ModNone))
	assert.False(t, in.IsOn())
}

func TestSetThrottleDuration(t *testing.T) {
	t.Cleanup(func() { SetThrottleDuration(DefaultThrottleDuration) })

	f := newFixture(t, "a-key-pressed")
	SetThrottleDuration(50 * time.Millisecond)
	assert.Equal(t, 50*time.Millisecond, ThrottleDuration())

	f.src.press(key.CodeKeyA, key.ModNone)
	f.clock.Advance(50 * time.Millisecond)
	f.src.press(key.CodeKeyA, key.ModNone)
	assert.Len(t, f.pub.Names(), 2)

	SetThrottleDuration(-time.Second)
	assert.Equal(t, time.Duration(0), ThrottleDuration())
}

func TestInput_ConcurrentPresses(t *testing.T) {
	clock := &manualClock{}
	pub := &recorder{}
	in, err := New(&fakeSource{}, pub, WithClock(clock))
	require.NoError(t, err)
	in.Enable("a-key-pressed")
	in.TurnOn()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			in.HandleKeyDown(context.Background(), key.NewEvent(key.CodeKeyA, key.ModNone))
		}()
	}
	wg.Wait()

	assert.Len(t, pub.Names(), 1)
	assert.Equal(t, uint64(49), in.Stats().Rejected)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "off", StateOff.String())
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "throttled", StateThrottled.String())
	assert.Equal(t, "unknown", State(42).String())
}
