// Package access implements the hostname allow-list gate in front of the router.
package access

import (
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"naitive/hub/internal/log"
	"naitive/hub/internal/metrics"
)

// DeniedBody is the fixed plaintext body returned for a denied hostname.
const DeniedBody = "Access Denied: This application is only accessible through authorized domains."

// Gate permits requests whose hostname is allow-listed, or, outside
// production, ends with the development suffix.
type Gate struct {
	allowed    map[string]struct{}
	devSuffix  string
	production bool
	logger     zerolog.Logger
}

// New builds a Gate. The allow-list is copied; it must not change afterwards.
func New(allowedHosts []string, devSuffix string, production bool, logger zerolog.Logger) *Gate {
	allowed := make(map[string]struct{}, len(allowedHosts))
	for _, h := range allowedHosts {
		allowed[normalize(h)] = struct{}{}
	}
	return &Gate{
		allowed:    allowed,
		devSuffix:  strings.ToLower(devSuffix),
		production: production,
		logger:     logger,
	}
}

// Allow reports whether host may receive a non-error response.
func (g *Gate) Allow(host string) bool {
	host = normalize(host)
	if _, ok := g.allowed[host]; ok {
		return true
	}
	return !g.production && g.devSuffix != "" && strings.HasSuffix(host, g.devSuffix)
}

// Middleware rejects requests for hosts the gate does not allow with 403.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := Hostname(r)
		if !g.Allow(host) {
			metrics.GateDenied.Inc()
			l := log.WithContext(r.Context(), g.logger)
			l.Warn().
				Str(log.FieldEvent, "access.denied").
				Str(log.FieldHost, host).
				Str(log.FieldPath, r.URL.Path).
				Msg("hostname not allowed")

			w.Header().Set("Content-Type", "text/plain")
			w.Header().Set("X-Robots-Tag", "noindex, nofollow")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(DeniedBody))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Hostname returns the normalized target hostname of r: the Host header
// without port or IPv6 brackets, lower-cased.
func Hostname(r *http.Request) string {
	host := r.Host
	if host == "" {
		host = r.URL.Host
	}
	return normalize(host)
}

func normalize(host string) string {
	host = strings.TrimSpace(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	return strings.ToLower(host)
}
