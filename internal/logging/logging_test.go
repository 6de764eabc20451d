package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestFileWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smallsh.log")
	logger, err := New(File(path), Debug())
	require.NoError(t, err)

	logger.With("component", "jobs").Debug("reaped background job", "pid", 42)
	require.NoError(t, logger.Close())

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(readLog(t, path)), &record))
	assert.Equal(t, "reaped background job", record["msg"])
	assert.Equal(t, "jobs", record["component"])
	assert.EqualValues(t, 42, record["pid"])
}

func TestLevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smallsh.log")
	logger := Must(File(path))
	defer logger.Close()

	logger.Debug("hidden")
	assert.Empty(t, readLog(t, path))

	logger.Info("shown")
	assert.Contains(t, readLog(t, path), "shown")
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error("nowhere")
	assert.NoError(t, logger.Close())
}

func TestFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "smallsh.log")
	logger, err := New(File(path))
	require.NoError(t, err)

	logger.Warn("registry full", "capacity", 1)
	require.NoError(t, logger.Close())

	assert.Contains(t, readLog(t, path), `"msg":"registry full"`)
}

func TestFileRequiresPath(t *testing.T) {
	_, err := New(File(""))
	assert.Error(t, err)
}
