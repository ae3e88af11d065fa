package middleware

import "net/http"

// securityHeaders is attached to every response, error responses included.
var securityHeaders = map[string]string{
	"X-Frame-Options":        "DENY",
	"X-Content-Type-Options": "nosniff",
	"Referrer-Policy":        "strict-origin-when-cross-origin",
	"X-Robots-Tag":           "noindex, nofollow",
}

// SecurityHeaderSet returns a copy of the fixed header set.
func SecurityHeaderSet() map[string]string {
	out := make(map[string]string, len(securityHeaders))
	for k, v := range securityHeaders {
		out[k] = v
	}
	return out
}

// SecurityHeaders sets the fixed security headers before calling next, so
// they survive whatever status the downstream handler writes.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for key, value := range securityHeaders {
			h.Set(key, value)
		}
		next.ServeHTTP(w, r)
	})
}
