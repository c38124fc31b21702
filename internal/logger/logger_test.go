package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("production level", func(t *testing.T) {
		log, err := New("warn", "prod")

		require.NoError(t, err)
		require.False(t, log.Core().Enabled(zapcore.InfoLevel))
		require.True(t, log.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("development default level", func(t *testing.T) {
		log, err := New("", "local")

		require.NoError(t, err)
		require.True(t, log.Core().Enabled(zapcore.InfoLevel))
		require.False(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("invalid level", func(t *testing.T) {
		log, err := New("loud", "local")

		require.Error(t, err)
		require.Nil(t, log)
	})
}
