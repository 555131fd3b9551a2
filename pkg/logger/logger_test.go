package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewHonorsLevel(t *testing.T) {
	l := New("debug", "json")
	require.NotNil(t, l)

	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNewDefaultsOnBadLevel(t *testing.T) {
	l := New("shouty", "json")
	require.NotNil(t, l)

	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestNewConsoleEncoding(t *testing.T) {
	l := New("info", "console")
	require.NotNil(t, l)

	child := l.With()
	assert.NotNil(t, child)
}

func TestNewLoggerDefault(t *testing.T) {
	l := NewLogger()
	require.NotNil(t, l)

	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}
