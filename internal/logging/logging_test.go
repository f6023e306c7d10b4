package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
}

func TestNew_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(buf, "info", "json")
	logger.Info("entry saved", "count", 3)
	logger.Debug("hidden")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "entry saved", line["msg"])
	assert.Equal(t, float64(3), line["count"])
}

func TestNew_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	New(buf, "debug", "text").Debug("records loaded", "count", 0)
	assert.Contains(t, buf.String(), "msg=\"records loaded\"")
	assert.Contains(t, buf.String(), "count=0")
}
