package hexvec

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with hexvec-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithVector adds a vector field to the logger.
func (l *Logger) WithVector(name any) *Logger {
	return &Logger{
		Logger: l.Logger.With("vector", name),
	}
}

// WithSession adds a session field to the logger.
func (l *Logger) WithSession(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("session", name),
	}
}

// LogInsertGroup logs a group insert.
func (l *Logger) LogInsertGroup(ctx context.Context, size int, err error) {
	if err != nil {
		l.WarnContext(ctx, "insert group rejected",
			"size", size,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "insert group completed",
			"size", size,
		)
	}
}

// LogRemoveGroup logs a group removal.
func (l *Logger) LogRemoveGroup(ctx context.Context, point uint64, removed int, err error) {
	if err != nil {
		l.WarnContext(ctx, "remove group failed",
			"point", point,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "remove group completed",
			"point", point,
			"removed", removed,
		)
	}
}

// LogUnlink logs an unlink operation.
func (l *Logger) LogUnlink(ctx context.Context, point uint64, err error) {
	if err != nil {
		l.WarnContext(ctx, "unlink failed",
			"point", point,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "unlink completed",
			"point", point,
		)
	}
}

// LogVector logs a vector lifecycle operation (create, destroy, force_destroy).
func (l *Logger) LogVector(ctx context.Context, op string, capacity uint64, err error) {
	if err != nil {
		l.WarnContext(ctx, "vector "+op+" failed",
			"capacity", capacity,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "vector "+op+" completed",
			"capacity", capacity,
		)
	}
}

// LogSave logs a session save.
func (l *Logger) LogSave(ctx context.Context, vectors int, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "session save failed",
			"vectors", vectors,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "session saved",
			"vectors", vectors,
			"bytes", bytes,
		)
	}
}

// LogLoad logs a session load.
func (l *Logger) LogLoad(ctx context.Context, vectors int, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "session load failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "session loaded",
			"vectors", vectors,
			"bytes", bytes,
		)
	}
}
