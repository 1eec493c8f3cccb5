// Package events defines the payloads and topics carried by the bus.
package events

import (
	"github.com/dshills/keypress/internal/event/topic"
	"github.com/dshills/keypress/internal/input/key"
)

// Keyboard event topics.
const (
	// TopicKeyDown carries raw key-down events from keyboard feeds.
	TopicKeyDown topic.Topic = "keyboard.keydown"

	// TopicAllKeyboard matches every raw keyboard topic.
	TopicAllKeyboard topic.Topic = "keyboard.**"

	// TopicAllPressed matches every composed name. Composed names never
	// contain a separator, so a single-segment wildcard selects exactly them.
	TopicAllPressed topic.Topic = "*"
)

// Source names used in event metadata.
const (
	SourceKeyboard = "keyboard"
	SourceFeed     = "feed"
)

// KeyDown is the payload of TopicKeyDown.
type KeyDown struct {
	// Event is the raw press.
	Event key.Event

	// Feed names the feed that observed the press ("terminal", "evdev", ...).
	Feed string
}

// KeyPressed is the payload published under a composed name.
type KeyPressed struct {
	// Name is the composed name, identical to the event topic.
	Name string

	// Code is the physical code that produced the name.
	Code key.Code

	// Token is the normalized key token the name was composed from.
	Token string

	// Modifiers are the flags captured at admission.
	Modifiers key.Modifier
}

// PressedTopic returns the topic a composed name is published under.
func PressedTopic(name string) topic.Topic {
	return topic.Topic(name)
}
