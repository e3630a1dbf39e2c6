package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel matches the CLI default of WARNING.
const DefaultLevel = "WARNING"

// ParseLevel accepts the level names used on the command line
// (DEBUG, INFO, WARNING, ERROR, CRITICAL) as well as zap's own names.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "warning":
		return zapcore.WarnLevel, nil
	case "critical", "fatal":
		return zapcore.FatalLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return zapcore.WarnLevel, fmt.Errorf("unknown log level %q", level)
	}
	return l, nil
}

// New builds a console logger on stderr. An unknown level falls back to
// warn so a typo on the command line never silences errors.
func New(level string) *zap.Logger {
	lvl, err := ParseLevel(level)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		zap.NewAtomicLevelAt(lvl),
	)
	log := zap.New(core).Named("graylogsync")
	if err != nil {
		log.Warn("falling back to default log level", zap.Error(err))
	}
	return log
}
