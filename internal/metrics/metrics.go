// Package metrics defines the Prometheus collectors exported by the gateway.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "naitive_hub"

var (
	// HTTPRequestDuration observes request latency by method, route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latencies in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// HTTPRequestsInFlight is the number of requests currently being served.
	HTTPRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "Current number of HTTP requests being served",
	})

	// GateDenied counts requests rejected by the hostname gate.
	GateDenied = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_denied_total",
		Help:      "Requests rejected because the hostname is not allowed",
	})

	// ChatMessages counts chat requests by outcome (ok, bad_request, abandoned).
	ChatMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_messages_total",
		Help:      "Mock chat requests by outcome",
	}, []string{"outcome"})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
