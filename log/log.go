// Package log is the internal diagnostic logger. It is separate from the hook-based loggers in
// package loggers, which record conversation events; this one reports what the library itself
// had to recover from (counterpart fallbacks, cleanup failures, tool filtering).
package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log level constants.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Logger is the logging surface used across duet. *zap.SugaredLogger satisfies it.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

var zapLevel = zap.NewAtomicLevelAt(zapcore.WarnLevel)

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "level",
	NameKey:        "logger",
	CallerKey:      "caller",
	MessageKey:     "msg",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalLevelEncoder,
	EncodeTime:     zapcore.ISO8601TimeEncoder,
	EncodeDuration: zapcore.StringDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

// Default writes to stderr at warn level. Replace it to route diagnostics elsewhere.
var Default Logger = New(zapcore.AddSync(os.Stderr))

// New builds a console logger writing to w, sharing the package level set by SetLevel.
func New(w zapcore.WriteSyncer) *zap.SugaredLogger {
	return zap.New(
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), w, zapLevel),
		zap.AddCaller(),
		zap.AddCallerSkip(1),
	).Sugar()
}

// SetLevel sets the level of every logger built by New. Unknown levels fall back to warn.
func SetLevel(level string) {
	switch level {
	case LevelDebug:
		zapLevel.SetLevel(zapcore.DebugLevel)
	case LevelInfo:
		zapLevel.SetLevel(zapcore.InfoLevel)
	case LevelWarn:
		zapLevel.SetLevel(zapcore.WarnLevel)
	case LevelError:
		zapLevel.SetLevel(zapcore.ErrorLevel)
	default:
		zapLevel.SetLevel(zapcore.WarnLevel)
	}
}

// Debugf logs at debug level through Default.
func Debugf(format string, args ...any) { Default.Debugf(format, args...) }

// Infof logs at info level through Default.
func Infof(format string, args ...any) { Default.Infof(format, args...) }

// Warnf logs at warn level through Default.
func Warnf(format string, args ...any) { Default.Warnf(format, args...) }

// Errorf logs at error level through Default.
func Errorf(format string, args ...any) { Default.Errorf(format, args...) }
