package app

import (
	"io"
	"log/slog"
	"os"

	"github.com/dshills/keypress/internal/config"
	"github.com/dshills/keypress/internal/input/keyboard"
	"github.com/dshills/keypress/internal/source"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. Empty means
	// defaults plus environment.
	ConfigPath string

	// Overrides are applied over the file and environment, and again on
	// every reload.
	Overrides Overrides

	// Echo writes each dispatched name to Stdout, or to the status line
	// when the feed is the terminal.
	Echo bool

	// Watch reloads ConfigPath when it changes.
	Watch bool

	// Stdin feeds the JSON-lines source when it reads standard input.
	Stdin io.Reader

	// Stdout receives echoed names.
	Stdout io.Writer

	// Stderr receives log output.
	Stderr io.Writer

	// LookupEnv replaces os.LookupEnv.
	LookupEnv config.LookupFunc

	// Source replaces the feed named by the configuration.
	Source source.Source

	// Logger replaces the logger built from the configuration.
	Logger *slog.Logger

	// Clock schedules the translator's throttle timer.
	Clock keyboard.Clock
}

func (o Options) withDefaults() Options {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.LookupEnv == nil {
		o.LookupEnv = os.LookupEnv
	}
	if o.Clock == nil {
		o.Clock = keyboard.SystemClock()
	}
	return o
}

// Overrides holds values set on the command line. Zero fields are unset.
type Overrides struct {
	Throttle  *config.Duration
	Power     *bool
	Enabled   []string
	Source    string
	Device    string
	Input     string
	LogLevel  string
	LogFormat string
}

// IsZero reports whether no override is set.
func (o Overrides) IsZero() bool {
	return o.Throttle == nil && o.Power == nil && o.Enabled == nil &&
		o.Source == "" && o.Device == "" && o.Input == "" &&
		o.LogLevel == "" && o.LogFormat == ""
}

// Apply writes the set fields into cfg.
func (o Overrides) Apply(cfg *config.Config) {
	if o.Throttle != nil {
		cfg.Throttle = *o.Throttle
	}
	if o.Power != nil {
		cfg.Power = *o.Power
	}
	if o.Enabled != nil {
		cfg.Enabled = append([]string(nil), o.Enabled...)
	}
	if o.Source != "" {
		cfg.Source.Kind = o.Source
	}
	if o.Device != "" {
		cfg.Source.Device = o.Device
	}
	if o.Input != "" {
		cfg.Source.Input = o.Input
	}
	if o.LogLevel != "" {
		cfg.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		cfg.Logging.Format = o.LogFormat
	}
}
