package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for reconciler run identifiers.
	FieldRunID = "run_id"
	// FieldEntry is the standardized structured logging key for the source entry path.
	FieldEntry = "entry"
)

type contextKey string

const (
	runIDKey contextKey = "run_id"
	entryKey contextKey = "entry"
)

// ContextWithRunID stores the run correlation ID on the context.
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext returns the run correlation ID, if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(runIDKey).(string)
	return value, ok && value != ""
}

// ContextWithEntry stores the source entry path currently being processed.
func ContextWithEntry(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, entryKey, path)
}

// EntryFromContext returns the source entry path, if present.
func EntryFromContext(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(entryKey).(string)
	return value, ok && value != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if entry, ok := EntryFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldEntry, entry))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		args = append(args, f)
	}
	return logger.With(args...)
}
