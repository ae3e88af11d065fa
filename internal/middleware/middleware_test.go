package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"naitive/hub/internal/log"
	"naitive/hub/internal/metrics"
)

// okHandler returns a 200 OK with a fixed body for middleware testing.
func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func assertSecurityHeaders(t *testing.T, h http.Header) {
	t.Helper()
	for key, want := range SecurityHeaderSet() {
		assert.Equal(t, want, h.Get(key), key)
	}
}

func TestSecurityHeaders_SetOnEveryStatus(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError} {
		handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, status, rec.Code)
		assertSecurityHeaders(t, rec.Header())
	}
}

func TestSecurityHeaderSet_IsCopy(t *testing.T) {
	set := SecurityHeaderSet()
	require.Len(t, set, 4)
	set["X-Frame-Options"] = "SAMEORIGIN"
	assert.Equal(t, "DENY", SecurityHeaderSet()["X-Frame-Options"])
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = log.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "client-supplied")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "client-supplied", seen)
	assert.Equal(t, "client-supplied", rec.Header().Get(HeaderRequestID))
}

func TestRecoverer(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := RequestID(Recoverer(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body["error"])
	assert.Equal(t, rec.Header().Get(HeaderRequestID), body["requestId"])
	assert.Contains(t, buf.String(), "panic.recovered")
}

func TestCORS_Preflight(t *testing.T) {
	handler := CORS([]string{"https://app.naitive.io"})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "https://app.naitive.io")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.naitive.io", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	handler := RateLimit(2)(okHandler())

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/analytics", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send().Code)
	assert.Equal(t, http.StatusOK, send().Code)
	rec := send()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, rateLimitBody, rec.Body.String())
}

func TestMetrics_RouteLabels(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {})

	for _, path := range []string{"/api/health", "/does-not-exist"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Positive(t, testutil.CollectAndCount(metrics.HTTPRequestDuration))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.HTTPRequestsInFlight))
}

func TestTracing_RecordsRouteSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})

	r := chi.NewRouter()
	r.Use(Tracing("hub-test"))
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://test.naitive.io/api/health", nil))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/health", spans[0].Name)
}

func TestApplyStack_HeadersOnGateDenial(t *testing.T) {
	deny := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})
	}

	r := chi.NewRouter()
	ApplyStack(r, StackConfig{Logger: zerolog.Nop(), Gate: deny, EnableMetrics: true, EnableLogging: true})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assertSecurityHeaders(t, rec.Header())
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

func TestApplyStack_RequiresGate(t *testing.T) {
	assert.Panics(t, func() {
		ApplyStack(chi.NewRouter(), StackConfig{Logger: zerolog.Nop()})
	})
}
