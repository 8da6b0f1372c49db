package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogPath(t *testing.T) {
	path := DefaultLogPath()

	assert.Equal(t, "digestcrack.log", filepath.Base(path))
	assert.Equal(t, DefaultLogDir(), filepath.Dir(path))
	assert.Contains(t, path, ".digestcrack")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, DefaultLogPath(), cfg.FilePath)
	assert.Equal(t, 10, cfg.MaxSizeMB)
	assert.Equal(t, 5, cfg.MaxFiles)
	assert.False(t, cfg.WriteToStderr)
}

func TestSetup_WritesJSONToFile(t *testing.T) {
	// Given: a logger writing to a temp file
	path := filepath.Join(t.TempDir(), "logs", "test.log")
	logger, cleanup, err := Setup(Config{Level: "debug", FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	require.NoError(t, err)

	// When: logging with a run id
	runLogger, runID := WithRunID(logger)
	runLogger.Debug("crack_started", slog.Int("workers", 2))
	cleanup()

	// Then: one JSON line carrying the attributes
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &record))
	assert.Equal(t, "crack_started", record["msg"])
	assert.Equal(t, runID, record["run_id"])
	assert.EqualValues(t, 2, record["workers"])
	assert.Len(t, runID, 36)
}

func TestSetup_LevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	logger, cleanup, err := Setup(Config{Level: "warn", FilePath: path})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestSetup_WithoutFileDiscards(t *testing.T) {
	logger, cleanup, err := Setup(Config{Level: "info"})
	require.NoError(t, err)
	defer cleanup()

	logger.Info("nowhere")
}

func TestWithRunID_IsUniquePerRun(t *testing.T) {
	_, a := WithRunID(slog.Default())
	_, b := WithRunID(slog.Default())

	assert.NotEqual(t, a, b)
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFromString(tt.in), tt.in)
	}
}

func TestFindLogFile(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "a.log")
	require.NoError(t, os.WriteFile(existing, []byte("{}\n"), 0o644))

	path, err := FindLogFile(existing, "")
	require.NoError(t, err)
	assert.Equal(t, existing, path)

	path, err = FindLogFile("", existing)
	require.NoError(t, err)
	assert.Equal(t, existing, path)

	_, err = FindLogFile(filepath.Join(dir, "missing.log"), existing)
	assert.Error(t, err)

	_, err = FindLogFile("", filepath.Join(dir, "missing.log"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "missing.log"))
}
