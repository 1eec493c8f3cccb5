package key

import "time"

// Event is a single raw key-down as delivered by a keyboard feed.
type Event struct {
	// Code identifies the physical key.
	Code Code

	// Modifiers holds ctrl/shift/alt as they were at the moment of the press.
	Modifiers Modifier

	// Timestamp is when the feed observed the press.
	Timestamp time.Time

	// PreventDefault, when set by the feed, suppresses whatever the feed
	// would otherwise do with the key. The translator calls it for every
	// event it admits.
	PreventDefault func()
}

// NewEvent creates an event stamped with the current time.
func NewEvent(code Code, mods Modifier) Event {
	return Event{
		Code:      code,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// Ctrl reports whether Control was held.
func (e Event) Ctrl() bool { return e.Modifiers.HasCtrl() }

// Shift reports whether Shift was held.
func (e Event) Shift() bool { return e.Modifiers.HasShift() }

// Alt reports whether Alt was held.
func (e Event) Alt() bool { return e.Modifiers.HasAlt() }

// String returns "Ctrl+Shift+KeyA" style text.
func (e Event) String() string {
	if e.Modifiers.IsEmpty() {
		return e.Code.String()
	}
	return e.Modifiers.String() + "+" + e.Code.String()
}
