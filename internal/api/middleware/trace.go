package middleware

import (
	"log/slog"
	"net/http"

	"github.com/skuehn/lernbox/internal/api/shared"
)

// TraceMiddleware stamps every request context with a fresh trace ID.
// Apply it early in the chain so all downstream handlers and error
// responses can correlate on it.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		slog.Debug("request started",
			slog.String("trace_id", traceID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
