package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLoggerLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Format: "json", Output: &buf}).With(String("block", "b0"))

	l.Debug("hidden")
	l.Info("deployed", Int("cells", 64), Err(errors.New("boom")))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "deployed", rec["msg"])
	assert.Equal(t, "b0", rec["block"])
	assert.Equal(t, float64(64), rec["cells"])
	assert.Equal(t, "boom", rec["error"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "json")
	cfg := ConfigFromEnv()
	assert.Equal(t, Config{Level: "warn", Format: "json"}, cfg)

	var buf bytes.Buffer
	cfg.Output = &buf
	l := New(cfg)
	l.Info("hidden")
	l.Warn("shown")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "shown", rec["msg"])
}

func TestNoop(t *testing.T) {
	l := Noop().With(String("k", "v"))
	l.Error("dropped")
	assert.NotNil(t, l)
}
