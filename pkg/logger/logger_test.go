package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *LoggerConfig
		wantDebug bool
	}{
		{name: "nil config", cfg: nil, wantDebug: false},
		{name: "info", cfg: &LoggerConfig{Debug: false}, wantDebug: false},
		{name: "debug", cfg: &LoggerConfig{Debug: true}, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, l)

			assert.Equal(t, tt.wantDebug, l.Core().Enabled(zapcore.DebugLevel))
			assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		})
	}
}
