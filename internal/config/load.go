package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a configuration file syntax.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path or a missing file yields the defaults plus environment.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with a custom environment lookup.
func LoadWithEnv(path string, lookup LookupFunc) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			format, err := FormatOf(path)
			if err != nil {
				return nil, err
			}
			if err := Decode(cfg, path, format, data); err != nil {
				return nil, err
			}
		}
	}

	if err := ApplyEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := validate("environment", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses data in the given format, validates it, and overlays it on
// cfg. Keys absent from data keep their current values. path is used in
// error messages only.
func Decode(cfg *Config, path string, format Format, data []byte) error {
	doc, err := parse(path, format, data)
	if err != nil {
		return err
	}
	if doc == nil {
		return nil
	}
	if err := validate(path, doc); err != nil {
		return err
	}

	// The schema has already accepted the document, so this only fails on
	// values the schema cannot express, such as an unparsable duration.
	raw, err := json.Marshal(doc)
	if err != nil {
		return &ParseError{Path: path, Err: err}
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return &ValidationError{Path: path, Err: err}
	}
	return nil
}

func parse(path string, format Format, data []byte) (map[string]any, error) {
	var doc map[string]any

	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			perr := &ParseError{Path: path, Err: err}
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				perr.Line, perr.Column = derr.Position()
			}
			return nil, perr
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
	case FormatJSON:
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, nil
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			perr := &ParseError{Path: path, Err: err}
			var serr *json.SyntaxError
			if errors.As(err, &serr) {
				perr.Line, perr.Column = lineCol(data, serr.Offset)
			}
			return nil, perr
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return doc, nil
}

// lineCol converts the offset reported by encoding/json, which counts the
// offending byte, to a 1-based line and column.
func lineCol(data []byte, offset int64) (line, col int) {
	if offset > 0 {
		offset--
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := data[:offset]
	line = bytes.Count(before, []byte("\n")) + 1
	col = int(offset) - bytes.LastIndexByte(before, '\n')
	return line, col
}
