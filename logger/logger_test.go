package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitLoggerWritesFile(t *testing.T) {
	ResetLogger()
	t.Cleanup(func() {
		SetLogPath("")
		ResetLogger()
	})

	logPath := filepath.Join(t.TempDir(), "partskeeper.log")
	SetLogPath(logPath)

	InitLogger()
	require.NotNil(t, log)

	GetLogger().Info("Writing to log file", zap.String("component", "test"))
	Sync()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Writing to log file")
	assert.Contains(t, string(data), `"component":"test"`)
}

func TestGetLoggerWithoutFile(t *testing.T) {
	ResetLogger()
	t.Cleanup(ResetLogger)
	SetLogPath("")

	l := GetLogger()
	require.NotNil(t, l)
	assert.Same(t, l, GetLogger())
}

func TestSetLogger(t *testing.T) {
	ResetLogger()
	t.Cleanup(ResetLogger)

	nop := zap.NewNop()
	SetLogger(nop)
	assert.Same(t, nop, GetLogger())
}

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel(zapcore.InfoLevel) })

	lvl, err := ParseLevel("debug")
	require.NoError(t, err)
	SetLevel(lvl)
	assert.True(t, level.Enabled(zapcore.DebugLevel))

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
