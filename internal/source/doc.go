// Package source provides raw keyboard feeds.
//
// A Source reads key-down events from somewhere outside the process (a
// terminal, a Linux input device, a stream of recorded browser events) and
// hands each one to a Sink. BusSink forwards them onto the event bus under
// events.TopicKeyDown, where the translator picks them up.
//
// Feeds only report key-down. Releases are used internally to track
// modifier state and are never forwarded.
package source
