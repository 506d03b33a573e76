package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetDebugLogger(t *testing.T) func() {
	t.Helper()

	globalDebugLogger.mu.Lock()
	prevFile := globalDebugLogger.file
	prevBuffer := append([]byte(nil), globalDebugLogger.buffer...)
	prevDiscard := globalDebugLogger.discard
	globalDebugLogger.file = nil
	globalDebugLogger.buffer = nil
	globalDebugLogger.discard = false
	globalDebugLogger.mu.Unlock()

	return func() {
		globalDebugLogger.mu.Lock()
		if globalDebugLogger.file != nil {
			_ = globalDebugLogger.file.Close()
		}
		globalDebugLogger.file = prevFile
		globalDebugLogger.buffer = prevBuffer
		globalDebugLogger.discard = prevDiscard
		globalDebugLogger.mu.Unlock()
	}
}

func TestBufferedLogsFlushToFile(t *testing.T) {
	t.Cleanup(resetDebugLogger(t))

	Printf("before file %d", 1)
	Warnf("unable to resolve remote branch: %s", "feature/x")

	logPath := filepath.Join(t.TempDir(), "debug.log")
	require.NoError(t, SetFile(logPath))
	Printf("after file")
	require.NoError(t, Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "DEBUG before file 1")
	assert.Contains(t, content, "WARN unable to resolve remote branch: feature/x")
	assert.Contains(t, content, "after file")
}

func TestSetFileEmptyDiscards(t *testing.T) {
	t.Cleanup(resetDebugLogger(t))

	Printf("buffered")
	require.NoError(t, SetFile(""))
	Printf("dropped")

	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()
	assert.Empty(t, globalDebugLogger.buffer)
	assert.True(t, globalDebugLogger.discard)
}

func TestSetFileFailureDiscardsLogs(t *testing.T) {
	t.Cleanup(resetDebugLogger(t))

	Printf("buffered")
	missing := filepath.Join(t.TempDir(), "missing", "debug.log")
	require.Error(t, SetFile(missing))

	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()
	assert.Nil(t, globalDebugLogger.buffer)
	assert.True(t, globalDebugLogger.discard)
}

func TestCloseWithoutFile(t *testing.T) {
	t.Cleanup(resetDebugLogger(t))
	assert.NoError(t, Close())
}

func TestDefaultLoggerWritesToDebugLog(t *testing.T) {
	t.Cleanup(resetDebugLogger(t))

	Default().Warnf("branch %s", "feature/x")
	Nop().Warnf("never %s", "seen")

	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()
	assert.Contains(t, string(globalDebugLogger.buffer), "WARN branch feature/x")
	assert.NotContains(t, string(globalDebugLogger.buffer), "never seen")
}

func TestTaggedDefaultLoggerLevels(t *testing.T) {
	t.Cleanup(resetDebugLogger(t))

	Tagged(Default(), "delete-branch", "feature/x").Warnf("unable to resolve remote branch %s", "origin/feature/x")

	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()
	assert.Contains(t, string(globalDebugLogger.buffer), "WARN [delete-branch feature/x] unable to resolve remote branch origin/feature/x")
}
