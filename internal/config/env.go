package config

import (
	"fmt"
	"strconv"
	"strings"
)

// EnvPrefix starts every environment variable the loader reads.
const EnvPrefix = "KEYPRESS_"

// LookupFunc reports the value of an environment variable.
type LookupFunc func(name string) (string, bool)

// envSetters maps each variable (without prefix) to the field it sets.
var envSetters = map[string]func(*Config, string) error{
	"THROTTLE": func(c *Config, v string) error {
		d, err := ParseDuration(v)
		if err != nil {
			return err
		}
		c.Throttle = d
		return nil
	},
	"POWER": func(c *Config, v string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, v)
		}
		c.Power = b
		return nil
	},
	"ENABLED": func(c *Config, v string) error {
		c.Enabled = SplitList(v)
		return nil
	},
	"SOURCE": func(c *Config, v string) error {
		c.Source.Kind = strings.ToLower(strings.TrimSpace(v))
		return nil
	},
	"DEVICE": func(c *Config, v string) error {
		c.Source.Device = v
		return nil
	},
	"INPUT": func(c *Config, v string) error {
		c.Source.Input = v
		return nil
	},
	"LOG_LEVEL": func(c *Config, v string) error {
		c.Logging.Level = strings.ToLower(strings.TrimSpace(v))
		return nil
	},
	"LOG_FORMAT": func(c *Config, v string) error {
		c.Logging.Format = strings.ToLower(strings.TrimSpace(v))
		return nil
	},
}

// EnvVars lists the environment variables ApplyEnv reads.
func EnvVars() []string {
	names := make([]string, 0, len(envSetters))
	for name := range envSetters {
		names = append(names, EnvPrefix+name)
	}
	return names
}

// ApplyEnv overlays KEYPRESS_* variables on cfg. Set-but-empty variables
// are applied, so KEYPRESS_ENABLED= clears the enabled list.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	if lookup == nil {
		return nil
	}
	for name, set := range envSetters {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		if err := set(cfg, v); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
	}
	return nil
}

// SplitList splits a comma-separated list, trimming blanks and dropping
// empty items.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
