package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitInvalidLevel(t *testing.T) {
	err := Init("loud", "json", "stderr")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestInitWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	require.NoError(t, Init("info", "json", path))
	t.Cleanup(func() { Log = zap.NewNop() })

	Debug("hidden")
	Info("vocabulary built", zap.Int("size", 42))
	Named("retry").Warn("retrying")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "vocabulary built", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.EqualValues(t, 42, entry["size"])
	assert.Contains(t, entry["caller"], "logger_test.go")

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Equal(t, "retry", entry["logger"])
	assert.Contains(t, entry["caller"], "logger_test.go")
}

func TestInitBadPath(t *testing.T) {
	err := Init("info", "console", filepath.Join(t.TempDir(), "missing", "run.log"))
	assert.ErrorContains(t, err, "failed to open log file")
}
