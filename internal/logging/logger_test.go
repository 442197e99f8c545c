package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	require.Error(t, err)
}

func TestNewHonoursLevel(t *testing.T) {
	logger, err := New(Config{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, "info", DefaultConfig().Level)
	assert.True(t, DevelopmentConfig().Development)
	assert.NotNil(t, NewDefault())
	assert.NotNil(t, NewDevelopment())
	assert.False(t, NewNop().Core().Enabled(zapcore.ErrorLevel))
}
