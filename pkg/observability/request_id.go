package observability

import (
	"context"

	"go.uber.org/zap"
)

// RequestIDField is the log key of the correlation id
const RequestIDField = "request_id"

type requestIDKey struct{}

// WithRequestID stores the correlation id in ctx
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id stored by WithRequestID, or "" when absent
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// LoggerFromContext tags logger with the request id carried by ctx
func LoggerFromContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	if id := RequestIDFromContext(ctx); id != "" {
		return logger.With(zap.String(RequestIDField, id))
	}
	return logger
}
