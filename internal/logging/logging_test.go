package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"info", LevelInfo, false},
		{"", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestNew_TextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Format: FormatText, Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown", "name", "a-key-pressed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "name=a-key-pressed")
}

func TestNew_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(New(Config{Level: LevelDebug, Format: FormatJSON, Output: &buf}), "keyboard")

	logger.Debug("dispatched", "name", "escape-pressed")

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &rec))
	assert.Equal(t, "keyboard", rec["component"])
	assert.Equal(t, "escape-pressed", rec["name"])
	assert.Equal(t, "dispatched", rec["msg"])
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.False(t, logger.Enabled(context.Background(), LevelError))
	assert.NotNil(t, Component(nil, "x"))
}

func TestHeldWriter(t *testing.T) {
	var out bytes.Buffer
	w := NewHeldWriter(&out, 16)
	logger := New(Config{Level: LevelInfo, Output: w})

	_, err := w.Write([]byte("before\n"))
	require.NoError(t, err)
	assert.Equal(t, "before\n", out.String())

	w.Hold()
	_, _ = w.Write([]byte("held one\n"))
	logger.Info("this record is longer than the limit")
	_, _ = w.Write([]byte("held 2\n"))
	assert.Equal(t, "before\n", out.String())

	require.NoError(t, w.Release())
	assert.Equal(t, "before\nheld one\nheld 2\n1 log records dropped while output was held\n", out.String())

	out.Reset()
	_, _ = w.Write([]byte("after\n"))
	assert.Equal(t, "after\n", out.String())
}
