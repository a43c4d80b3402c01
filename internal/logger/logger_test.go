package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"info", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		l, err := New(tt.in, "json")
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(tt.want), tt.in)
		if tt.want > zapcore.DebugLevel {
			assert.False(t, l.Core().Enabled(tt.want-1), tt.in)
		}
	}
}

func TestWrapper_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &zapWrapper{l: zap.New(core)}

	l.With(map[string]interface{}{"route": "/api/ai"}).
		WithError(errors.New("boom")).
		Warn("request failed", map[string]interface{}{"status": 500})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "request failed", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "/api/ai", ctx["route"])
	assert.Equal(t, "boom", ctx["error"])
	assert.EqualValues(t, 500, ctx["status"])
}
