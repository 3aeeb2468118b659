// Package logger provides a structured, levelled logger built on log/slog.
//
// The handler is chosen from APP_ENV: JSON in production for log
// aggregators, human-readable text everywhere else. LOG_LEVEL overrides the
// environment default.
//
// WithCtx lets long-lived listeners log with whatever correlation fields the
// emitting host attached:
//
//	log := logger.WithCtx(ctx)
//	log.Info("cache invalidated", "event", "user.updated")
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/dhwani/config"
)

var L *slog.Logger

func init() {
	opts := &slog.HandlerOptions{Level: level()}

	var handler slog.Handler
	switch config.AppEnv() {
	case "production", "prod":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// level resolves LOG_LEVEL, falling back to info in production and debug
// everywhere else.
func level() slog.Level {
	switch config.LogLevel() {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	switch config.AppEnv() {
	case "production", "prod":
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// ─────────────────────────────────────────────
// Context-aware logger
// ─────────────────────────────────────────────

// ctxKey is the unexported key used to store a per-flow *slog.Logger.
type ctxKey struct{}

// WithCtx returns the *slog.Logger stored in ctx by InjectLogger, or the
// base logger when none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with correlation fields)
// into ctx, to be retrieved by WithCtx downstream.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// ─────────────────────────────────────────────
// Short-hand helpers (use base logger)
// ─────────────────────────────────────────────

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
