package fieldacc

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with fieldacc-specific context.
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
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithRank adds the pipeline rank and worker count to the logger.
func (l *Logger) WithRank(rank, count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("rank", rank, "count", count),
	}
}

// WithReplicas adds the array geometry to the logger.
func (l *Logger) WithReplicas(n, nArray int) *Logger {
	return &Logger{
		Logger: l.Logger.With("records", n, "replicas", nArray),
	}
}

// LogReduce logs a completed or failed reduction.
func (l *Logger) LogReduce(ctx context.Context, n, nArray, workers int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "reduce failed",
			"records", n,
			"replicas", nArray,
			"workers", workers,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "reduce completed",
			"records", n,
			"replicas", nArray,
			"workers", workers,
		)
	}
}

// LogPipeline logs the outcome of one pipeline.
func (l *Logger) LogPipeline(ctx context.Context, rank, blocks, records int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "pipeline failed",
			"rank", rank,
			"blocks", blocks,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "pipeline completed",
			"rank", rank,
			"blocks", blocks,
			"records", records,
		)
	}
}
