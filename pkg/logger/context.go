package logger

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// CorrelationIDHeader carries the request correlation ID over HTTP.
const CorrelationIDHeader = "X-Correlation-ID"

type contextKey string

const correlationIDContextKey contextKey = "correlation_id"

// WithCorrelationIDContext adds correlation ID to context
func WithCorrelationIDContext(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDContextKey, correlationID)
}

// GetCorrelationIDFromContext retrieves correlation ID from context
func GetCorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDContextKey).(string); ok {
		return id
	}
	return ""
}

// EnsureCorrelationID returns a context that carries a correlation ID,
// generating one when the context has none.
func EnsureCorrelationID(ctx context.Context) (context.Context, string) {
	if id := GetCorrelationIDFromContext(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return WithCorrelationIDContext(ctx, id), id
}

// EnsureHTTPCorrelationID makes sure the request has a valid UUID correlation
// ID in both its header and its context. Malformed inbound IDs are replaced.
func EnsureHTTPCorrelationID(r *http.Request) (*http.Request, string) {
	id := r.Header.Get(CorrelationIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
		r.Header.Set(CorrelationIDHeader, id)
	}
	return r.WithContext(WithCorrelationIDContext(r.Context(), id)), id
}

// GetLoggerFromContext returns base enriched with the context's correlation ID.
func GetLoggerFromContext(ctx context.Context, base Logger) Logger {
	if id := GetCorrelationIDFromContext(ctx); id != "" {
		return base.WithCorrelationID(id)
	}
	return base
}
