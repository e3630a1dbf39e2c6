package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"DEBUG":    zapcore.DebugLevel,
		"info":     zapcore.InfoLevel,
		"WARNING":  zapcore.WarnLevel,
		"warn":     zapcore.WarnLevel,
		"Error":    zapcore.ErrorLevel,
		"CRITICAL": zapcore.FatalLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNew_UnknownLevelFallsBackToWarn(t *testing.T) {
	log := New("nonsense")
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
}

func TestContextLogger_AddsRunAndUser(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cl := NewContextLogger(zap.New(core).Sugar())

	ctx := WithUsername(WithRunID(context.Background(), "run-1"), "alice")
	cl.LogInfo(ctx, "updated permissions", "added", 2)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "run-1", fields["run_id"])
	assert.Equal(t, "alice", fields["username"])
	assert.Equal(t, int64(2), fields["added"])
	assert.Equal(t, "run-1", RunID(ctx))
}

func TestContextLogger_NoContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cl := NewContextLogger(zap.New(core).Sugar())

	cl.LogWarn(context.Background(), "plain")

	require.Equal(t, 1, logs.Len())
	assert.Empty(t, logs.All()[0].ContextMap())
}

func TestContextLogger_LogError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cl := NewContextLogger(zap.New(core).Sugar())

	cl.LogError(WithRunID(context.Background(), "run-2"), assert.AnError, "update failed", "username", "bob")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, "run-2", fields["run_id"])
	assert.Equal(t, "bob", fields["username"])
	assert.Equal(t, assert.AnError.Error(), fields["error"])
}
