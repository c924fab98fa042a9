package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"
)

// ErrorRecorder is the append-only error sink. Implementations must swallow
// their own failures; an unloggable panic still gets a 500, never a crash.
type ErrorRecorder interface {
	RecordError(ctx context.Context, level, message, route, method, stack string)
}

// Recoverer converts panics into 500 responses and records them to the error
// sink. The process stays up; only startup failures are fatal.
func Recoverer(logger *zap.Logger, errors ErrorRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					stack := string(debug.Stack())
					logger.Error("panic recovered",
						zap.Any("panic", rec),
						zap.String("route", r.URL.Path),
						zap.String("method", r.Method),
						zap.String("stack", stack))
					errors.RecordError(r.Context(), "error", fmt.Sprint(rec), r.URL.Path, r.Method, stack)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"error":"INTERNAL_ERROR","message":"an unexpected error occurred"}`))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
