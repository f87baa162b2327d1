package nindex

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
)

// Logger wraps slog.Logger with nindex-specific context.
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
	return NewLogger(slog.DiscardHandler)
}

// WithIndex adds the index name to every record.
func (l *Logger) WithIndex(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("index", name),
	}
}

// LogOpen logs attaching to a buffer. capacity is the number of blocks.
func (l *Logger) LogOpen(ctx context.Context, backend string, keys, capacity int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open failed",
			"backend", backend,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "index opened",
			"backend", backend,
			"keys", humanize.Comma(int64(keys)),
			"capacity", humanize.Comma(int64(capacity)),
		)
	}
}

// LogSnapshot logs a published snapshot.
func (l *Logger) LogSnapshot(ctx context.Context, version uint64, bytes int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"bytes", bytes,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot published",
			"version", version,
			"bytes", bytes,
			"size", humanize.IBytes(uint64(max(bytes, 0))),
			"duration", duration,
		)
	}
}

// LogRestore logs restoring a snapshot.
func (l *Logger) LogRestore(ctx context.Context, version uint64, keys int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "restore failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot restored",
			"version", version,
			"keys", keys,
		)
	}
}

// LogClose logs releasing the backing storage.
func (l *Logger) LogClose(ctx context.Context, err error) {
	if err != nil {
		l.ErrorContext(ctx, "close failed", "error", err)
	} else {
		l.DebugContext(ctx, "index closed")
	}
}
