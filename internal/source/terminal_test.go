package source

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keypress/internal/input/key"
)

func simulationScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 5)
	t.Cleanup(screen.Fini)
	return screen
}

func TestTerminal_RunUntilInterrupt(t *testing.T) {
	screen := simulationScreen(t)
	term := NewTerminal(screen, nil)

	screen.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	screen.InjectKey(tcell.KeyUp, 0, tcell.ModCtrl)
	screen.InjectKey(tcell.KeyRune, '€', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, '!', tcell.ModNone)
	screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	screen.InjectKey(tcell.KeyRune, 'z', tcell.ModNone)

	sink := &collector{}
	err := term.Run(context.Background(), sink)
	assert.ErrorIs(t, err, ErrInterrupted)

	assert.Equal(t, []key.Code{key.CodeKeyA, key.CodeArrowUp, key.CodeDigit1}, sink.Codes())
	evs := sink.Events()
	assert.True(t, evs[1].Ctrl())
	assert.True(t, evs[2].Shift())
}

func TestTerminal_RunStopsOnCancel(t *testing.T) {
	screen := simulationScreen(t)
	term := NewTerminal(screen, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- term.Run(ctx, &collector{}) }()

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestTerminal_WriteSetsStatus(t *testing.T) {
	term := NewTerminal(nil, nil)

	n, err := term.Write([]byte("a-key-pressed\nb-key-pressed\n"))
	require.NoError(t, err)
	assert.Equal(t, 28, n)
	assert.Equal(t, "b-key-pressed", term.status)
}

func TestTerminalEvent(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		mod  tcell.ModMask
		code key.Code
		mods key.Modifier
		ok   bool
	}{
		{"lower letter", tcell.KeyRune, 'q', tcell.ModNone, key.CodeKeyQ, key.ModNone, true},
		{"upper letter", tcell.KeyRune, 'Q', tcell.ModNone, key.CodeKeyQ, key.ModShift, true},
		{"alt letter", tcell.KeyRune, 'x', tcell.ModAlt, key.CodeKeyX, key.ModAlt, true},
		{"digit", tcell.KeyRune, '7', tcell.ModNone, key.CodeDigit7, key.ModNone, true},
		{"shifted digit", tcell.KeyRune, '(', tcell.ModNone, key.CodeDigit9, key.ModShift, true},
		{"space", tcell.KeyRune, ' ', tcell.ModNone, key.CodeSpace, key.ModNone, true},
		{"comma", tcell.KeyRune, ',', tcell.ModNone, key.CodeComma, key.ModNone, true},
		{"less than", tcell.KeyRune, '<', tcell.ModNone, key.CodeComma, key.ModShift, true},
		{"period", tcell.KeyRune, '.', tcell.ModNone, key.CodePeriod, key.ModNone, true},
		{"greater than", tcell.KeyRune, '>', tcell.ModNone, key.CodePeriod, key.ModShift, true},
		{"enter", tcell.KeyEnter, 0, tcell.ModNone, key.CodeEnter, key.ModNone, true},
		{"escape", tcell.KeyEscape, 0, tcell.ModNone, key.CodeEscape, key.ModNone, true},
		{"backspace", tcell.KeyBackspace2, 0, tcell.ModNone, key.CodeBackspace, key.ModNone, true},
		{"page down", tcell.KeyPgDn, 0, tcell.ModShift, key.CodePageDown, key.ModShift, true},
		{"ctrl letter", tcell.KeyCtrlB, 0, tcell.ModCtrl, key.CodeKeyB, key.ModCtrl, true},
		{"ctrl space", tcell.KeyCtrlSpace, 0, tcell.ModCtrl, key.CodeSpace, key.ModCtrl, true},
		{"function key", tcell.KeyF5, 0, tcell.ModNone, "F5", key.ModNone, true},
		{"unmapped rune", tcell.KeyRune, 'é', tcell.ModNone, "", key.ModNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := terminalEvent(tcell.NewEventKey(tt.key, tt.r, tt.mod))
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.code, ev.Code)
				assert.Equal(t, tt.mods, ev.Modifiers)
			}
		})
	}
}

func TestIsInterrupt(t *testing.T) {
	assert.True(t, isInterrupt(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)))
	assert.True(t, isInterrupt(tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModCtrl)))
	assert.False(t, isInterrupt(tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone)))
}
