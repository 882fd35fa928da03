package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey int

const loggerKey contextKey = 0

// Operation names tag the steps of a reconciliation run.
const (
	OperationGroup   = "group"
	OperationAnalyze = "analyze"
	OperationMerge   = "merge"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithRunID tags the context logger with a pipeline run ID.
func WithRunID(ctx context.Context, runID string) context.Context {
	return withStr(ctx, "run_id", runID)
}

// WithBaseID tags the context logger with a duplicate group's base id.
func WithBaseID(ctx context.Context, baseID string) context.Context {
	return withStr(ctx, "base_id", baseID)
}

// WithOperation tags the context logger with a pipeline step.
func WithOperation(ctx context.Context, operation string) context.Context {
	return withStr(ctx, "operation", operation)
}

func withStr(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, &logger)
}
