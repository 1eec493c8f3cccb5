package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config is the complete keypress configuration.
type Config struct {
	// Throttle is the cooldown after an admitted key.
	Throttle Duration `json:"throttle"`

	// Power starts the translator switched on.
	Power bool `json:"power"`

	// Enabled lists the composed names that are published.
	Enabled []string `json:"enabled,omitempty"`

	// Source selects the raw keyboard feed.
	Source SourceConfig `json:"source"`

	// Logging configures the process logger.
	Logging LoggingConfig `json:"logging"`

	// Reactions maps composed names to Lua chunks run on dispatch.
	Reactions map[string]string `json:"reactions,omitempty"`
}

// SourceConfig selects the raw keyboard feed.
type SourceConfig struct {
	// Kind is "terminal", "evdev" or "jsonl".
	Kind string `json:"kind"`

	// Device is the evdev device path.
	Device string `json:"device,omitempty"`

	// Input is the JSON-lines file; empty or "-" means stdin.
	Input string `json:"input,omitempty"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level"`

	// Format is text or json.
	Format string `json:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Throttle: Duration(200 * time.Millisecond),
		Source: SourceConfig{
			Kind: "terminal",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	if c.Enabled != nil {
		out.Enabled = append([]string(nil), c.Enabled...)
	}
	if c.Reactions != nil {
		out.Reactions = make(map[string]string, len(c.Reactions))
		for k, v := range c.Reactions {
			out.Reactions[k] = v
		}
	}
	return &out
}

// Duration is a time.Duration that reads either a Go duration string
// ("250ms", "1.5s") or a bare number of milliseconds.
type Duration time.Duration

// ParseDuration parses a duration string or a millisecond count.
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("%w: negative duration %q", ErrInvalidValue, s)
		}
		return Duration(time.Duration(ms) * time.Millisecond), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: negative duration %q", ErrInvalidValue, s)
	}
	return Duration(d), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String returns the Go duration text.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalJSON writes d as a duration string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a duration string or a number of milliseconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := ParseDuration(s)
		if err != nil {
			return err
		}
		*d = v
		return nil
	}

	var ms int64
	if err := json.Unmarshal(b, &ms); err != nil {
		return fmt.Errorf("%w: duration must be a string or integer milliseconds", ErrInvalidValue)
	}
	v, err := ParseDuration(strconv.FormatInt(ms, 10))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
