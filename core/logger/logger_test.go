package logger_test

import (
	"testing"

	"collection-pricer/core/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		cfg   logger.Config
		level zapcore.Level
	}{
		{"Debug console", logger.Config{Level: "debug", Format: "console"}, zapcore.DebugLevel},
		{"Info json", logger.Config{Level: "info", Format: "json"}, zapcore.InfoLevel},
		{"Warn json", logger.Config{Level: "warn", Format: "json"}, zapcore.WarnLevel},
		{"Garbage level falls back to info", logger.Config{Level: "loud"}, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := logger.New(&tt.cfg)
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.level))
			if tt.level > zapcore.DebugLevel {
				assert.False(t, l.Core().Enabled(tt.level-1))
			}
		})
	}
}

func TestWithRun(t *testing.T) {
	base := zap.NewNop()
	assert.Same(t, base, logger.WithRun(base, ""))
	assert.NotSame(t, base, logger.WithRun(base, "run-1"))
}
