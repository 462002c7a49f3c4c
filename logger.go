package faqrag

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with faqrag-specific context.
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
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// WithBuildID adds a build_id field to the logger.
func (l *Logger) WithBuildID(id string) *Logger {
	return &Logger{Logger: l.Logger.With("build_id", id)}
}

// WithK adds a k (neighbor count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{Logger: l.Logger.With("k", k)}
}

// LogRetrieve logs a retrieval.
func (l *Logger) LogRetrieve(ctx context.Context, k, results int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "retrieve failed",
			"k", k,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "retrieve completed",
		"k", k,
		"results", results,
		"duration", d,
	)
}

// LogBuild logs a knowledge base build.
func (l *Logger) LogBuild(ctx context.Context, buildID string, count int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed",
			"records", count,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "build committed",
		"build_id", buildID,
		"records", count,
		"duration", d,
	)
}

// LogLoad logs loading or reloading the committed build.
func (l *Logger) LogLoad(ctx context.Context, buildID string, count int, changed bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"error", err,
		)
		return
	}
	if !changed {
		l.DebugContext(ctx, "load skipped, build unchanged",
			"build_id", buildID,
		)
		return
	}
	l.InfoContext(ctx, "knowledge base ready",
		"build_id", buildID,
		"records", count,
	)
}

// LogPrune logs removal of superseded builds.
func (l *Logger) LogPrune(ctx context.Context, deleted []string, err error) {
	if err != nil {
		l.WarnContext(ctx, "prune incomplete",
			"deleted", len(deleted),
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "pruned old builds",
		"deleted", len(deleted),
	)
}
