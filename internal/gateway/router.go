// Package gateway is the edge request router: the hostname gate, the
// dashboard page and the mock JSON API.
package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"naitive/hub/internal/access"
	"naitive/hub/internal/config"
	"naitive/hub/internal/middleware"
	"naitive/hub/internal/mock"
)

// Deps are the collaborators of the router. Generator and Sleeper are
// injectable so tests can run deterministically and without delay.
type Deps struct {
	Config    *config.Config
	Gate      *access.Gate
	Generator *mock.Generator
	Sleeper   mock.Sleeper
	Logger    zerolog.Logger

	// TracingService names the tracer; empty disables per-request spans.
	TracingService string
}

type server struct {
	cfg     *config.Config
	gen     *mock.Generator
	sleeper mock.Sleeper
	logger  zerolog.Logger
}

// NewRouter builds the public handler. Paths match exactly and answer any
// method, except /api/chat which is POST only. A nil Gate denies every host.
// Config is required.
func NewRouter(deps Deps) http.Handler {
	if deps.Config == nil {
		panic("gateway: NewRouter requires a Config")
	}
	s := &server{
		cfg:     deps.Config,
		gen:     deps.Generator,
		sleeper: deps.Sleeper,
		logger:  deps.Logger,
	}
	if s.gen == nil {
		s.gen = mock.NewGenerator(nil, nil)
	}
	if s.sleeper == nil {
		s.sleeper = mock.TimerSleeper{}
	}

	gate := deps.Gate
	if gate == nil {
		gate = access.New(nil, "", true, deps.Logger)
	}

	r := chi.NewRouter()
	middleware.ApplyStack(r, middleware.StackConfig{
		Logger:            deps.Logger,
		Gate:              gate.Middleware,
		AllowedOrigins:    s.cfg.CORS.AllowedOrigins,
		RequestsPerMinute: s.cfg.RateLimit.RequestsPerMinute,
		EnableMetrics:     true,
		TracingService:    deps.TracingService,
		EnableLogging:     true,
	})

	r.NotFound(s.handleNotFound)
	// chi sends methods outside its standard set here before any route
	// lookup, so dispatch them by path like every other method.
	r.MethodNotAllowed(s.dispatchByPath)

	r.HandleFunc("/", s.handleDashboard)
	r.HandleFunc("/api/chat", s.handleChat)
	r.HandleFunc("/api/analytics", s.handleAnalytics)
	r.HandleFunc("/api/health", s.handleHealth)

	return r
}

func (s *server) dispatchByPath(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/":
		s.handleDashboard(w, r)
	case "/api/chat":
		s.handleChat(w, r)
	case "/api/analytics":
		s.handleAnalytics(w, r)
	case "/api/health":
		s.handleHealth(w, r)
	default:
		s.handleNotFound(w, r)
	}
}
