package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo, FormatJSON)

	logger.Debug("hidden")
	logger.Info("recalculated", "participants", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "recalculated", entry["msg"])
	assert.Equal(t, float64(3), entry["participants"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn, FormatText)

	logger.Info("hidden")
	logger.Warn("rate limited", "ip", "10.0.0.1")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "rate limited")
	assert.Contains(t, out, "ip=10.0.0.1")
	assert.NotContains(t, out, "\x1b[", "non-terminal writers get no color codes")
}
