// Package main is the entry point for keypress.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/dshills/keypress/internal/app"
	"github.com/dshills/keypress/internal/config"
	"github.com/dshills/keypress/internal/source"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// configEnv names the environment variable holding the default config path.
const configEnv = config.EnvPrefix + "CONFIG"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, act, err := parseFlags(args, os.LookupEnv, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if act == actionVersion {
		fmt.Fprintf(stdout, "keypress %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	opts.Stdout = stdout
	opts.Stderr = stderr

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer func() {
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(stderr, "Error: shutdown: %v\n", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type action int

const (
	actionRun action = iota
	actionVersion
)

func parseFlags(args []string, lookup config.LookupFunc, stderr io.Writer) (app.Options, action, error) {
	var opts app.Options

	defaultConfig, _ := lookup(configEnv)

	F := flag.NewFlagSet("keypress", flag.ContinueOnError)
	F.SetOutput(stderr)
	F.SortFlags = false

	configPath := F.StringP("config", "c", defaultConfig, "Configuration file (.toml, .yaml, .json); $"+configEnv+" sets the default")
	sourceKind := F.String("source", "", "Keyboard feed: "+strings.Join(source.Kinds(), ", "))
	device := F.String("device", "", "evdev device path, e.g. /dev/input/event3")
	input := F.String("input", "", "JSON-lines file for the jsonl feed; - reads stdin")
	throttle := F.String("throttle", "", "Cooldown after each admitted key, e.g. 200ms or 200")
	enable := F.StringSlice("enable", nil, "Composed name to publish; repeat or separate with commas")
	on := F.Bool("on", false, "Start with the translator switched on")
	echo := F.Bool("echo", false, "Print each published name")
	watch := F.Bool("watch", true, "Reload the configuration file when it changes")
	logLevel := F.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := F.String("log-format", "", "Log format (text, json)")
	showVersion := F.BoolP("version", "v", false, "Show version information")

	F.Usage = func() {
		fmt.Fprintf(stderr, "keypress - turns raw key-downs into named key-pressed events\n\n")
		fmt.Fprintf(stderr, "Usage: keypress [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		F.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  keypress --on --echo --enable a-key-pressed,escape-pressed\n")
		fmt.Fprintf(stderr, "  keypress --source evdev --device /dev/input/event3 -c keypress.toml\n")
		fmt.Fprintf(stderr, "  keypress --source jsonl --on --echo --enable up-key-pressed < keys.jsonl\n")
	}

	if err := F.Parse(args); err != nil {
		return opts, actionRun, err
	}
	if F.NArg() > 0 {
		return opts, actionRun, fmt.Errorf("unexpected arguments: %s", strings.Join(F.Args(), " "))
	}
	if *showVersion {
		return opts, actionVersion, nil
	}

	opts.ConfigPath = *configPath
	opts.Echo = *echo
	opts.Watch = *watch

	o := &opts.Overrides
	if F.Changed("throttle") {
		d, err := config.ParseDuration(*throttle)
		if err != nil {
			return opts, actionRun, fmt.Errorf("--throttle: %w", err)
		}
		o.Throttle = &d
	}
	if F.Changed("on") {
		o.Power = on
	}
	if F.Changed("enable") {
		o.Enabled = trimAll(*enable)
	}
	o.Source = strings.ToLower(*sourceKind)
	o.Device = *device
	o.Input = *input
	o.LogLevel = strings.ToLower(*logLevel)
	o.LogFormat = strings.ToLower(*logFormat)

	return opts, actionRun, nil
}

func trimAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
