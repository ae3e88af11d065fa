package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"
)

const rateLimitBody = `{"error":"rate_limit_exceeded","detail":"Too many requests. Please try again later."}`

// RateLimit limits each client IP to requestsPerMinute using httprate's
// sliding window counter.
func RateLimit(requestsPerMinute int) func(http.Handler) http.Handler {
	window := time.Minute
	return httprate.Limit(
		requestsPerMinute,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(rateLimitBody))
		}),
	)
}
