package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

const (
	runIDKey    contextKey = "run_id"
	usernameKey contextKey = "username"
)

// WithRunID stores the reconciliation run id in ctx.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// WithUsername stores the platform username currently being reconciled.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// RunID returns the run id stored in ctx, if any.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// ContextLogger provides context-aware logging
type ContextLogger struct {
	logger *zap.SugaredLogger
}

// NewContextLogger creates a new context logger
func NewContextLogger(logger *zap.SugaredLogger) *ContextLogger {
	return &ContextLogger{
		logger: logger,
	}
}

// WithContext adds context fields to logger
func (cl *ContextLogger) WithContext(ctx context.Context) *zap.SugaredLogger {
	fields := []zapcore.Field{}

	if id, ok := ctx.Value(runIDKey).(string); ok && id != "" {
		fields = append(fields, zap.String("run_id", id))
	}
	if name, ok := ctx.Value(usernameKey).(string); ok && name != "" {
		fields = append(fields, zap.String("username", name))
	}

	if len(fields) == 0 {
		return cl.logger
	}

	return cl.logger.Desugar().With(fields...).Sugar()
}

// LogError logs an error with context
func (cl *ContextLogger) LogError(ctx context.Context, err error, message string, keysAndValues ...interface{}) {
	cl.WithContext(ctx).With("error", err).Errorw(message, keysAndValues...)
}

// LogInfo logs info message with context
func (cl *ContextLogger) LogInfo(ctx context.Context, message string, keysAndValues ...interface{}) {
	cl.WithContext(ctx).Infow(message, keysAndValues...)
}

// LogDebug logs debug message with context
func (cl *ContextLogger) LogDebug(ctx context.Context, message string, keysAndValues ...interface{}) {
	cl.WithContext(ctx).Debugw(message, keysAndValues...)
}

// LogWarn logs warning message with context
func (cl *ContextLogger) LogWarn(ctx context.Context, message string, keysAndValues ...interface{}) {
	cl.WithContext(ctx).Warnw(message, keysAndValues...)
}
