package shared

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is the type of context keys owned by this package.
type ContextKey string

// TraceIDKey is the key for the trace ID in the request context.
const TraceIDKey ContextKey = "traceID"

// SetTraceID adds a fresh trace ID to the context, or reuses the given one
// when it is non-empty (e.g. forwarded from an upstream proxy).
func SetTraceID(ctx context.Context, existing string) context.Context {
	traceID := existing
	if traceID == "" {
		traceID = uuid.NewString()
	}
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}
