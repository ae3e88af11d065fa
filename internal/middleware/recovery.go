package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"

	"github.com/rs/zerolog"

	"naitive/hub/internal/log"
)

// Recoverer keeps a panicking handler from taking the process down. It logs
// the panic with the request ID and answers 500 JSON.
func Recoverer(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				buf := make([]byte, 8192)
				n := runtime.Stack(buf, false)
				reqID := log.RequestIDFromContext(r.Context())

				l := log.WithContext(r.Context(), logger)
				l.Error().
					Str(log.FieldEvent, "panic.recovered").
					Str("method", r.Method).
					Str(log.FieldPath, r.URL.Path).
					Interface("panic_value", rec).
					Str("stack_trace", string(buf[:n])).
					Msg("panic recovered in HTTP handler")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":     "Internal server error",
					"requestId": reqID,
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
