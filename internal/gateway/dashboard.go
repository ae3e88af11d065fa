package gateway

import (
	_ "embed"
	"net/http"
)

//go:embed assets/index.html
var dashboardHTML []byte

func (s *server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(dashboardHTML)
}
