package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	cases := []struct {
		level string
		want  zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"loud", zapcore.InfoLevel},
	}
	for _, tc := range cases {
		logger, err := New(Config{Level: tc.level, Encoding: "console"})
		require.NoError(t, err)
		require.True(t, logger.Core().Enabled(tc.want), "level %q", tc.level)
		if tc.want > zapcore.DebugLevel {
			require.False(t, logger.Core().Enabled(tc.want-1), "level %q", tc.level)
		}
	}
}
