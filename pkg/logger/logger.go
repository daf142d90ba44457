package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls how log lines are encoded
type Options struct {
	Level  string // debug, info, warn, error
	Format string // "json" or "console"
}

// Logger is a printf-style wrapper around a zap sugared logger
type Logger struct {
	sugar *zap.SugaredLogger
	scope string
}

var base = mustBuild(Options{Level: "info", Format: "console"})

// Configure rebuilds the process-wide zap core. Loggers created afterwards
// (including Global) use the new settings.
func Configure(opts Options) error {
	z, err := build(opts)
	if err != nil {
		return err
	}
	base = z
	Global = New("")
	return nil
}

// New creates a new logger tagged with the given scope (an owner ID,
// a component name, or empty)
func New(scope string) *Logger {
	sugar := base.Sugar()
	if scope != "" {
		sugar = sugar.With("scope", scope)
	}
	return &Logger{sugar: sugar, scope: scope}
}

// With returns a child logger carrying extra structured fields
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...), scope: l.scope}
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.sugar.Errorf(format, v...)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.sugar.Debugf(format, v...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) {
	l.sugar.Warnf(format, v...)
}

// Sync flushes buffered entries
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

// Global logger instance for application-wide logging
var Global = New("")

func build(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level '%s': %w", opts.Level, err)
		}
		level = parsed
	}

	var encoder zapcore.Encoder
	if opts.Format == "json" {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "timestamp"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		encoder = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
		encoder = zapcore.NewConsoleEncoder(cfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)), nil
}

func mustBuild(opts Options) *zap.Logger {
	z, err := build(opts)
	if err != nil {
		panic(err)
	}
	return z
}
