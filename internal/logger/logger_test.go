package logger

import (
	"testing"

	"github.com/servexhq/servex/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func newAt(t *testing.T, level string) *Logger {
	t.Helper()
	l, err := NewLogger(&config.Configuration{
		Logging: config.LoggingConfig{Level: level},
	})
	require.NoError(t, err)
	return l
}

func TestNewLoggerAppliesConfiguredLevel(t *testing.T) {
	l := newAt(t, "debug")
	assert.True(t, l.Desugar().Core().Enabled(zapcore.DebugLevel))

	l = newAt(t, "error")
	assert.False(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Desugar().Core().Enabled(zapcore.ErrorLevel))
}

func TestNewLoggerUnknownLevelFallsBackToInfo(t *testing.T) {
	l := newAt(t, "verbose")
	assert.True(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Desugar().Core().Enabled(zapcore.DebugLevel))
}
