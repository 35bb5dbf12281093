package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/pagopa/pay-portal-service/pkg/observability"
	"go.uber.org/zap"
)

// RequestIDHeader carries the correlation id in both directions
const RequestIDHeader = "X-Request-Id"

// RequestID reuses the caller's X-Request-Id when it is a valid UUID and
// generates a fresh one otherwise. The id is echoed on the response and
// stored in the request context for observability.LoggerFromContext.
func RequestID(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				if id != "" {
					logger.Debug("Replacing malformed request id", zap.String("received", id))
				}
				id = uuid.NewString()
			}

			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(observability.WithRequestID(r.Context(), id)))
		})
	}
}
