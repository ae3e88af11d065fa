// Package middleware provides the ingress middleware stack of the gateway.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"naitive/hub/internal/log"
)

// StackConfig configures the canonical ingress middleware stack.
type StackConfig struct {
	Logger zerolog.Logger

	// Gate rejects requests for hosts that are not allowed. Required.
	Gate func(http.Handler) http.Handler

	// AllowedOrigins enables CORS when non-empty.
	AllowedOrigins []string

	// RequestsPerMinute enables per-IP rate limiting when > 0.
	RequestsPerMinute int

	EnableMetrics  bool
	TracingService string // empty disables tracing
	EnableLogging  bool
}

// ApplyStack installs the middleware on r in a fixed order. Security headers
// sit outside the gate so that 403 responses carry them too.
func ApplyStack(r chi.Router, cfg StackConfig) {
	if cfg.Gate == nil {
		panic("middleware: StackConfig.Gate is required")
	}
	r.Use(Recoverer(cfg.Logger))
	r.Use(RequestID)
	r.Use(SecurityHeaders)
	if cfg.EnableMetrics {
		r.Use(Metrics)
	}
	if cfg.TracingService != "" {
		r.Use(Tracing(cfg.TracingService))
	}
	if cfg.EnableLogging {
		r.Use(log.Middleware(cfg.Logger))
	}
	r.Use(cfg.Gate)
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(CORS(cfg.AllowedOrigins))
	}
	if cfg.RequestsPerMinute > 0 {
		r.Use(RateLimit(cfg.RequestsPerMinute))
	}
}
