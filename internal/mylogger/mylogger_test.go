package mylogger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestUnit_LoggerKeys(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(LevelInfo, &buf)

	log.Action("compose").Info("deep link built", "vehicle", "Taxi")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	entry := lines[0]

	assert.Equal(t, "deep link built", entry["message"])
	assert.Equal(t, "compose", entry["action"])
	assert.Equal(t, "Taxi", entry["vehicle"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Contains(t, entry, "timestamp")
	assert.Contains(t, entry, "hostname")
	assert.NotEmpty(t, entry["instance_id"])
	assert.NotContains(t, entry, "msg")
}

func TestUnit_LoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(LevelWarn, &buf)

	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["message"])
}

func TestUnit_LoggerErrorGroup(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(LevelDebug, &buf)

	log.Error("upstream failed", errors.New("boom"), "field", "start")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)

	group, ok := lines[0]["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "boom", group["msg"])
	stack, ok := group["stack"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, stack)
	assert.Equal(t, "start", lines[0]["field"])
}
