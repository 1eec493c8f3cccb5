package source

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keypress/internal/input/key"
	"github.com/dshills/keypress/internal/logging"
)

const terminalBanner = "keypress: listening for keys, Ctrl+C to quit"

// Terminal reads keys from the controlling terminal through tcell.
//
// Terminals report characters rather than key positions, so codes are
// inferred assuming a US layout: "A" is KeyA with shift, "!" is Digit1 with
// shift. Ctrl+C ends the feed with ErrInterrupted.
//
// Terminal is also an io.Writer; each write replaces the status line drawn
// under the banner.
type Terminal struct {
	screen tcell.Screen
	owned  bool
	logger *slog.Logger

	mu     sync.Mutex
	active tcell.Screen
	status string
}

// NewTerminal returns a terminal feed. When screen is nil a screen is
// created and initialized by Run; otherwise screen must already be
// initialized and is left open.
func NewTerminal(screen tcell.Screen, logger *slog.Logger) *Terminal {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Terminal{
		screen: screen,
		owned:  screen == nil,
		logger: logger,
	}
}

// Name implements Source.
func (t *Terminal) Name() string {
	return "terminal"
}

// Run implements Source.
func (t *Terminal) Run(ctx context.Context, sink Sink) error {
	screen := t.screen
	if t.owned {
		var err error
		screen, err = tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("create screen: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("init screen: %w", err)
		}
		defer screen.Fini()
	}

	t.mu.Lock()
	t.active = screen
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		t.active = nil
		t.mu.Unlock()
	}()
	t.draw()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	for {
		ev := screen.PollEvent()
		if ev == nil {
			return nil
		}

		switch e := ev.(type) {
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return nil
			}
		case *tcell.EventResize:
			screen.Sync()
			t.draw()
		case *tcell.EventKey:
			if isInterrupt(e) {
				return ErrInterrupted
			}
			kev, ok := terminalEvent(e)
			if !ok {
				t.logger.Debug("unmapped key", "key", e.Name())
				continue
			}
			if err := sink.KeyDown(ctx, kev); err != nil {
				return err
			}
		}
	}
}

// Write sets the status line to the last non-empty line of p.
func (t *Terminal) Write(p []byte) (int, error) {
	lines := bytes.Split(bytes.TrimRight(p, "\n"), []byte("\n"))
	t.mu.Lock()
	t.status = string(lines[len(lines)-1])
	t.mu.Unlock()
	t.draw()
	return len(p), nil
}

func (t *Terminal) draw() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active == nil {
		return
	}
	t.active.Clear()
	drawText(t.active, 0, terminalBanner)
	drawText(t.active, 2, t.status)
	t.active.Show()
}

func drawText(s tcell.Screen, row int, text string) {
	width, _ := s.Size()
	col := 0
	for _, r := range text {
		if col >= width {
			return
		}
		s.SetContent(col, row, r, nil, tcell.StyleDefault)
		col++
	}
}

var terminalKeys = map[tcell.Key]key.Code{
	tcell.KeyEnter:      key.CodeEnter,
	tcell.KeyEscape:     key.CodeEscape,
	tcell.KeyBackspace:  key.CodeBackspace,
	tcell.KeyBackspace2: key.CodeBackspace,
	tcell.KeyTab:        "Tab",
	tcell.KeyInsert:     key.CodeInsert,
	tcell.KeyDelete:     key.CodeDelete,
	tcell.KeyHome:       key.CodeHome,
	tcell.KeyEnd:        key.CodeEnd,
	tcell.KeyPgUp:       key.CodePageUp,
	tcell.KeyPgDn:       key.CodePageDown,
	tcell.KeyUp:         key.CodeArrowUp,
	tcell.KeyDown:       key.CodeArrowDown,
	tcell.KeyLeft:       key.CodeArrowLeft,
	tcell.KeyRight:      key.CodeArrowRight,
	tcell.KeyF1:         "F1",
	tcell.KeyF2:         "F2",
	tcell.KeyF3:         "F3",
	tcell.KeyF4:         "F4",
	tcell.KeyF5:         "F5",
	tcell.KeyF6:         "F6",
	tcell.KeyF7:         "F7",
	tcell.KeyF8:         "F8",
	tcell.KeyF9:         "F9",
	tcell.KeyF10:        "F10",
	tcell.KeyF11:        "F11",
	tcell.KeyF12:        "F12",
}

// shiftedDigits holds the US-layout characters on Digit0..Digit9.
const shiftedDigits = ")!@#$%^&*("

// terminalEvent infers the physical key behind a tcell key event.
func terminalEvent(e *tcell.EventKey) (key.Event, bool) {
	mods := terminalModifiers(e.Modifiers())

	if code, ok := terminalKeys[e.Key()]; ok {
		return key.NewEvent(code, mods), true
	}

	switch k := e.Key(); {
	case k == tcell.KeyRune:
		code, shift, ok := runeCode(e.Rune())
		if !ok {
			return key.Event{}, false
		}
		if shift {
			mods = mods.With(key.ModShift)
		}
		return key.NewEvent(code, mods), true
	case k == tcell.KeyCtrlSpace:
		return key.NewEvent(key.CodeSpace, mods.With(key.ModCtrl)), true
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		code := key.Code("Key" + string(rune('A'+int(k-tcell.KeyCtrlA))))
		return key.NewEvent(code, mods.With(key.ModCtrl)), true
	}
	return key.Event{}, false
}

// runeCode maps a printed character to its key. shift reports whether the
// character needs Shift on a US layout.
func runeCode(r rune) (code key.Code, shift bool, ok bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return key.Code("Key" + string(r-'a'+'A')), false, true
	case r >= 'A' && r <= 'Z':
		return key.Code("Key" + string(r)), true, true
	case r >= '0' && r <= '9':
		return key.Code("Digit" + string(r)), false, true
	}

	switch r {
	case ' ':
		return key.CodeSpace, false, true
	case ',':
		return key.CodeComma, false, true
	case '<':
		return key.CodeComma, true, true
	case '.':
		return key.CodePeriod, false, true
	case '>':
		return key.CodePeriod, true, true
	}

	for i, c := range shiftedDigits {
		if c == r {
			return key.Code("Digit" + string(rune('0'+i))), true, true
		}
	}
	return "", false, false
}

func isInterrupt(e *tcell.EventKey) bool {
	if e.Key() == tcell.KeyCtrlC {
		return true
	}
	return e.Key() == tcell.KeyRune && e.Modifiers()&tcell.ModCtrl != 0 && (e.Rune() == 'c' || e.Rune() == 'C')
}

func terminalModifiers(m tcell.ModMask) key.Modifier {
	return key.Modifiers(m&tcell.ModCtrl != 0, m&tcell.ModShift != 0, m&tcell.ModAlt != 0)
}
