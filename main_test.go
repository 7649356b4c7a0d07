package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/aouyang1/vitrine/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogHandlerTimeFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newLogHandler(&config.Config{LogLevel: slog.LevelInfo}, &buf))
	logger.Info("exported archive", "slides", 4)

	assert.Regexp(t, regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`), buf.String())
	assert.Contains(t, buf.String(), "exported archive")
}

func TestLogHandlerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newLogHandler(&config.Config{LogLevel: slog.LevelWarn, LogJSON: true}, &buf))
	logger.Info("dropped")
	logger.Warn("kept", "error", "storage down")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	_, err := time.Parse(time.RFC3339Nano, entry["time"].(string))
	assert.NoError(t, err)
}
