package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS returns an rs/cors handler restricted to allowedOrigins. Preflight
// requests are answered here and never reach the router.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", HeaderRequestID},
		ExposedHeaders: []string{HeaderRequestID, "Retry-After"},
		MaxAge:         600,
	})
	return c.Handler
}
