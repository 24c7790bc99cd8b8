package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/dispatch-lab/pkg/logging"
)

func TestLevel_ToSlogLevel(t *testing.T) {
	tests := []struct {
		level    logging.Level
		expected slog.Level
	}{
		{logging.LevelDebug, slog.LevelDebug},
		{logging.LevelInfo, slog.LevelInfo},
		{logging.LevelWarn, slog.LevelWarn},
		{logging.LevelError, slog.LevelError},
		{logging.Level("unknown"), slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.level.ToSlogLevel())
		})
	}
}

func TestLevel_Validate(t *testing.T) {
	for _, level := range []logging.Level{logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError} {
		assert.NoError(t, level.Validate(), level)
	}
	assert.Error(t, logging.Level("verbose").Validate())
}

func TestFormat_Validate(t *testing.T) {
	assert.NoError(t, logging.FormatText.Validate())
	assert.NoError(t, logging.FormatJSON.Validate())
	assert.Error(t, logging.Format("xml").Validate())
}

func TestNewWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWriter(&buf, &logging.Config{Level: logging.LevelInfo, Format: logging.FormatJSON})

	logger.Debug("hidden")
	logger.Info("dispatched", "path", "/about")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "dispatched", entry["msg"])
	assert.Equal(t, "/about", entry["path"])
}

func TestNewWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWriter(&buf, &logging.Config{Level: logging.LevelDebug, Format: logging.FormatText})

	logger.Debug("visible", "status", 404)

	assert.Contains(t, buf.String(), "msg=visible")
	assert.Contains(t, buf.String(), "status=404")
}

func TestConfig_Finalize_Defaults(t *testing.T) {
	cfg := &logging.Config{}
	require.NoError(t, cfg.Finalize(nil))

	assert.Equal(t, logging.LevelInfo, cfg.Level)
	assert.Equal(t, logging.FormatText, cfg.Format)
}

func TestConfig_Finalize_EnvOverrides(t *testing.T) {
	t.Setenv("TEST_LOGGING_LEVEL", "debug")
	t.Setenv("TEST_LOGGING_FORMAT", "json")

	cfg := &logging.Config{Level: logging.LevelError}
	err := cfg.Finalize(&logging.Env{Level: "TEST_LOGGING_LEVEL", Format: "TEST_LOGGING_FORMAT"})
	require.NoError(t, err)

	assert.Equal(t, logging.LevelDebug, cfg.Level)
	assert.Equal(t, logging.FormatJSON, cfg.Format)
}

func TestConfig_Finalize_Invalid(t *testing.T) {
	cfg := &logging.Config{Level: "invalid"}
	assert.Error(t, cfg.Finalize(nil))

	cfg = &logging.Config{Format: "invalid"}
	assert.Error(t, cfg.Finalize(nil))
}

func TestConfig_Merge(t *testing.T) {
	base := &logging.Config{Level: logging.LevelInfo, Format: logging.FormatJSON}
	base.Merge(&logging.Config{Level: logging.LevelDebug})

	assert.Equal(t, logging.LevelDebug, base.Level)
	assert.Equal(t, logging.FormatJSON, base.Format)
}

func TestFor_TagsSystem(t *testing.T) {
	var buf bytes.Buffer
	base := logging.NewWriter(&buf, &logging.Config{Level: logging.LevelInfo, Format: logging.FormatText})

	logging.For(base, "static").Info("ready")

	assert.Contains(t, buf.String(), "system=static")
	assert.Contains(t, buf.String(), "msg=ready")
}

func TestFor_NilLogger(t *testing.T) {
	logger := logging.For(nil, "routes")

	require.NotNil(t, logger)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}
