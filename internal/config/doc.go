// Package config loads keypress settings.
//
// Settings come from, in increasing precedence: built-in defaults, a TOML,
// YAML or JSON file (chosen by extension), and KEYPRESS_* environment
// variables. Command-line flags are applied on top by the caller.
//
// Every document is checked against an embedded JSON schema before it is
// decoded, and the merged result is checked again, so unknown keys and
// out-of-range values are reported with their location.
//
// A Watcher reloads the file when it changes on disk. Only power, throttle,
// enabled names and reactions take effect on reload; the feed and logger
// are fixed at startup.
//
// Example file:
//
//	throttle = "200ms"
//	power = true
//	enabled = ["a-key-pressed", "ctrl-up-pressed"]
//
//	[source]
//	kind = "terminal"
//
//	[logging]
//	level = "info"
//
//	[reactions]
//	"a-key-pressed" = 'log("A at " .. event.code)'
package config
