// Package logger provides structured logging with context support.
//
// Code that has a *Logger at hand logs through it; code deep in the domain
// uses the package functions, which pick up the process logger installed
// with SetDefault and decorate it with the request's trace and user.
package logger

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	appctx "airsolutions/internal/core/context"
)

// Logger wraps zap.SugaredLogger with context-aware logging.
type Logger struct {
	*zap.SugaredLogger
}

// Config holds logger configuration.
type Config struct {
	Level       string // debug, info, warn, error
	Development bool   // console encoder with colors
	OutputPaths []string
}

// New creates a Logger from configuration. An unknown level falls back to info.
func New(cfg Config) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	if len(cfg.OutputPaths) > 0 {
		zc.OutputPaths = cfg.OutputPaths
	}

	z, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return FromZap(z), nil
}

// FromZap wraps an existing zap logger.
func FromZap(z *zap.Logger) *Logger {
	return &Logger{z.Sugar()}
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() *Logger {
	return FromZap(zap.NewNop())
}

var process atomic.Pointer[Logger]

func init() {
	process.Store(Nop())
}

// SetDefault installs l as the logger behind the package-level functions.
func SetDefault(l *Logger) {
	if l != nil {
		process.Store(l)
	}
}

// Default returns the logger installed with SetDefault, or a no-op logger.
func Default() *Logger {
	return process.Load()
}

// WithContext adds trace and user info from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	var kv []any
	if trace := appctx.GetTrace(ctx); trace != nil {
		kv = append(kv, "trace_id", trace.TraceID, "request_id", trace.RequestID)
	}
	if user := appctx.GetUser(ctx); user != nil {
		kv = append(kv, "user", user.Username, "role", user.Role)
	}
	if len(kv) == 0 {
		return l
	}
	return &Logger{l.SugaredLogger.With(kv...)}
}

// With adds key-value pairs to logger.
func (l *Logger) With(keysAndValues ...any) *Logger {
	return &Logger{l.SugaredLogger.With(keysAndValues...)}
}

// WithComponent adds component name to logger.
func (l *Logger) WithComponent(name string) *Logger {
	return l.With("component", name)
}

func fromContext(ctx context.Context) *zap.SugaredLogger {
	// one extra frame for the package-level wrapper
	return Default().WithContext(ctx).SugaredLogger.WithOptions(zap.AddCallerSkip(1))
}

// Debug logs at debug level with the request's trace and user.
func Debug(ctx context.Context, msg string, keysAndValues ...any) {
	fromContext(ctx).Debugw(msg, keysAndValues...)
}

// Info logs at info level with the request's trace and user.
func Info(ctx context.Context, msg string, keysAndValues ...any) {
	fromContext(ctx).Infow(msg, keysAndValues...)
}

// Warn logs at warn level with the request's trace and user.
func Warn(ctx context.Context, msg string, keysAndValues ...any) {
	fromContext(ctx).Warnw(msg, keysAndValues...)
}

// Error logs at error level with the request's trace and user.
func Error(ctx context.Context, msg string, keysAndValues ...any) {
	fromContext(ctx).Errorw(msg, keysAndValues...)
}
