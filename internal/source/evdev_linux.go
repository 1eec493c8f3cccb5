//go:build linux

package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	evdev "github.com/holoplot/go-evdev"

	"github.com/dshills/keypress/internal/input/key"
	"github.com/dshills/keypress/internal/logging"
)

// Key event values reported by the kernel.
const (
	evdevRelease = 0
	evdevPress   = 1
	evdevRepeat  = 2
)

// eventReader is the part of *evdev.InputDevice the feed uses.
type eventReader interface {
	ReadOne() (*evdev.InputEvent, error)
	Close() error
}

// Evdev reads a Linux input device. Presses and auto-repeats are delivered
// as key-downs; modifier keys update the held-modifier state and are not
// delivered themselves.
type Evdev struct {
	path   string
	open   func(path string) (eventReader, error)
	logger *slog.Logger
}

// NewEvdev returns a feed for the device at path.
func NewEvdev(path string, logger *slog.Logger) *Evdev {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Evdev{
		path: path,
		open: func(path string) (eventReader, error) {
			return evdev.Open(path)
		},
		logger: logger,
	}
}

// Name implements Source.
func (d *Evdev) Name() string {
	return "evdev"
}

// Run implements Source.
func (d *Evdev) Run(ctx context.Context, sink Sink) error {
	dev, err := d.open(d.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", d.path, err)
	}

	// Closing the device is the only way to unblock ReadOne.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		_ = dev.Close()
	}()

	d.logger.Info("reading device", "path", d.path)

	var held modifierState
	for {
		ev, err := dev.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read %s: %w", d.path, err)
		}
		if ev.Type != evdev.EV_KEY {
			continue
		}

		if held.update(ev.Code, ev.Value) {
			continue
		}
		if ev.Value != evdevPress && ev.Value != evdevRepeat {
			continue
		}

		kev := key.Event{
			Code:      evdevCode(ev.Code),
			Modifiers: held.modifiers(),
			Timestamp: time.Unix(ev.Time.Unix()),
		}
		if err := sink.KeyDown(ctx, kev); err != nil {
			return err
		}
	}
}

// modifierState tracks left and right modifier keys separately.
type modifierState struct {
	leftCtrl, rightCtrl   bool
	leftShift, rightShift bool
	leftAlt, rightAlt     bool
}

// update records a modifier transition and reports whether code was a
// modifier key.
func (m *modifierState) update(code evdev.EvCode, value int32) bool {
	down := value != evdevRelease
	switch code {
	case evdev.KEY_LEFTCTRL:
		m.leftCtrl = down
	case evdev.KEY_RIGHTCTRL:
		m.rightCtrl = down
	case evdev.KEY_LEFTSHIFT:
		m.leftShift = down
	case evdev.KEY_RIGHTSHIFT:
		m.rightShift = down
	case evdev.KEY_LEFTALT:
		m.leftAlt = down
	case evdev.KEY_RIGHTALT:
		m.rightAlt = down
	default:
		return false
	}
	return true
}

func (m *modifierState) modifiers() key.Modifier {
	return key.Modifiers(m.leftCtrl || m.rightCtrl, m.leftShift || m.rightShift, m.leftAlt || m.rightAlt)
}

var evdevCodes = map[evdev.EvCode]key.Code{
	evdev.KEY_KP2: key.CodeNumpad2,
	evdev.KEY_KP4: key.CodeNumpad4,
	evdev.KEY_KP6: key.CodeNumpad6,
	evdev.KEY_KP8: key.CodeNumpad8,

	evdev.KEY_PAGEUP:   key.CodePageUp,
	evdev.KEY_PAGEDOWN: key.CodePageDown,
	evdev.KEY_HOME:     key.CodeHome,
	evdev.KEY_END:      key.CodeEnd,
	evdev.KEY_INSERT:   key.CodeInsert,
	evdev.KEY_DELETE:   key.CodeDelete,

	evdev.KEY_UP:    key.CodeArrowUp,
	evdev.KEY_DOWN:  key.CodeArrowDown,
	evdev.KEY_LEFT:  key.CodeArrowLeft,
	evdev.KEY_RIGHT: key.CodeArrowRight,

	evdev.KEY_ENTER:     key.CodeEnter,
	evdev.KEY_SPACE:     key.CodeSpace,
	evdev.KEY_ESC:       key.CodeEscape,
	evdev.KEY_BACKSPACE: key.CodeBackspace,

	evdev.KEY_0: key.CodeDigit0,
	evdev.KEY_1: key.CodeDigit1,
	evdev.KEY_2: key.CodeDigit2,
	evdev.KEY_3: key.CodeDigit3,
	evdev.KEY_4: key.CodeDigit4,
	evdev.KEY_5: key.CodeDigit5,
	evdev.KEY_6: key.CodeDigit6,
	evdev.KEY_7: key.CodeDigit7,
	evdev.KEY_8: key.CodeDigit8,
	evdev.KEY_9: key.CodeDigit9,

	evdev.KEY_A: key.CodeKeyA,
	evdev.KEY_B: key.CodeKeyB,
	evdev.KEY_C: key.CodeKeyC,
	evdev.KEY_D: key.CodeKeyD,
	evdev.KEY_E: key.CodeKeyE,
	evdev.KEY_F: key.CodeKeyF,
	evdev.KEY_G: key.CodeKeyG,
	evdev.KEY_H: key.CodeKeyH,
	evdev.KEY_I: key.CodeKeyI,
	evdev.KEY_J: key.CodeKeyJ,
	evdev.KEY_K: key.CodeKeyK,
	evdev.KEY_L: key.CodeKeyL,
	evdev.KEY_M: key.CodeKeyM,
	evdev.KEY_N: key.CodeKeyN,
	evdev.KEY_O: key.CodeKeyO,
	evdev.KEY_P: key.CodeKeyP,
	evdev.KEY_Q: key.CodeKeyQ,
	evdev.KEY_R: key.CodeKeyR,
	evdev.KEY_S: key.CodeKeyS,
	evdev.KEY_T: key.CodeKeyT,
	evdev.KEY_U: key.CodeKeyU,
	evdev.KEY_V: key.CodeKeyV,
	evdev.KEY_W: key.CodeKeyW,
	evdev.KEY_X: key.CodeKeyX,
	evdev.KEY_Y: key.CodeKeyY,
	evdev.KEY_Z: key.CodeKeyZ,

	evdev.KEY_COMMA: key.CodeComma,
	evdev.KEY_DOT:   key.CodePeriod,

	evdev.KEY_TAB:     "Tab",
	evdev.KEY_KP5:     "Numpad5",
	evdev.KEY_KPENTER: "NumpadEnter",
	evdev.KEY_F1:      "F1",
	evdev.KEY_F2:      "F2",
	evdev.KEY_F3:      "F3",
	evdev.KEY_F4:      "F4",
	evdev.KEY_F5:      "F5",
	evdev.KEY_F6:      "F6",
	evdev.KEY_F7:      "F7",
	evdev.KEY_F8:      "F8",
	evdev.KEY_F9:      "F9",
	evdev.KEY_F10:     "F10",
	evdev.KEY_F11:     "F11",
	evdev.KEY_F12:     "F12",
}

// evdevCode maps a kernel key code to a physical key code. Unknown keys map
// to key.CodeUnidentified.
func evdevCode(c evdev.EvCode) key.Code {
	if code, ok := evdevCodes[c]; ok {
		return code
	}
	return key.CodeUnidentified
}
