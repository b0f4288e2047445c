package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sgchris/gresources/internal/config"
)

func TestWriteOutcome(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(core)

	l.WriteOutcome("POST", "/a/b", false)
	l.WriteOutcome("POST", "/a/b", true)

	entries := logs.FilterMessage("write_operation").All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "POST", first["operation"])
	assert.Equal(t, "/a/b", first["path"])
	assert.Equal(t, StatusFailed, first["status"])
	assert.Equal(t, StatusSuccess, entries[1].ContextMap()["status"])
}

func TestLeveledCalls(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(core).Named("store").With(zap.String("component", "test"))

	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	require.Equal(t, 4, logs.Len())
	levels := []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, e := range logs.All() {
		assert.Equal(t, levels[i], e.Level)
		assert.Equal(t, "store", e.LoggerName)
		assert.Equal(t, "test", e.ContextMap()["component"])
	}
}

func TestNew_WritesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "gresources.log")

	l, err := New(config.LogConfig{Level: "debug", Format: "json", File: file, MaxSizeMB: 1})
	require.NoError(t, err)

	l.WriteOutcome("DELETE", "/x", true)
	_ = l.Sync()

	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
	assert.Equal(t, "write_operation", entry["msg"])
	assert.Equal(t, "DELETE", entry["operation"])
	assert.Equal(t, StatusSuccess, entry["status"])
	assert.NotEmpty(t, entry["ts"])
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	l, err := New(config.LogConfig{Level: "loud", Format: "console"})
	require.NoError(t, err)
	assert.False(t, l.Zap().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Zap().Core().Enabled(zapcore.InfoLevel))
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Info("discarded")
	l.WriteOutcome("PATCH", "/x", true)
}
