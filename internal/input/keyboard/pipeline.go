package keyboard

import "github.com/dshills/keypress/internal/input/key"

// Translation is the per-event record threaded through the pipeline.
// Each stage returns a new value; nothing is shared between events.
type Translation struct {
	// Code is the raw physical code.
	Code key.Code

	// Modifiers are the flags captured at admission.
	Modifiers key.Modifier

	// Token is the normalized code.
	Token string

	// Name is the composed event name.
	Name string
}

// capture starts a record from a raw event.
func capture(ev key.Event) Translation {
	return Translation{
		Code:      ev.Code,
		Modifiers: ev.Modifiers,
	}
}

func (t Translation) normalize() Translation {
	t.Token = normalizeTarget(t.Code)
	return t
}

func (t Translation) compose() Translation {
	t.Name = Compose(t.Modifiers, t.Token)
	return t
}

// Translate runs capture, normalize and compose over ev without any gating.
func Translate(ev key.Event) Translation {
	return capture(ev).normalize().compose()
}

// gate reports whether an event with code may enter the pipeline.
func gate(on, throttled bool, code key.Code) bool {
	return on && !throttled && key.IsTarget(code)
}
