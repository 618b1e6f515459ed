package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/Zuo-Peng/chat-analytics/internal/config"
)

func TestEngineLogger(t *testing.T) {
	verbose, err := newLogger(true)
	require.NoError(t, err)
	a := &app{verbose: true, logger: verbose}

	assert.False(t, engineLogger(a, true).Core().Enabled(zap.ErrorLevel))
	assert.Same(t, verbose, engineLogger(a, false))
	assert.True(t, engineLogger(a, false).Core().Enabled(zap.DebugLevel))
}

func TestNewEngine(t *testing.T) {
	engine, err := newEngine(zaptest.NewLogger(t), &config.Config{}, false)
	require.NoError(t, err)
	require.NotNil(t, engine)

	_, err = newEngine(zap.NewNop(), &config.Config{Dictionary: "/nonexistent/words.txt"}, false)
	assert.ErrorContains(t, err, "load dictionary")
}
