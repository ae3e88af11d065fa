// temp-mocks/autorag/autorag.go
package main

import (
	"net/http"
	"os"
	"time"

	"naitive/hub/internal/log"
	"naitive/hub/internal/rag/ragtest"
)

func main() {
	logger := log.WithComponent("mock-autorag")

	token := os.Getenv("CLOUDFLARE_API_TOKEN")
	if token == "" {
		token = "mock-token"
	}

	fake := ragtest.NewFake(token)
	fake.AddInstance("naitive-test-rag", "autorag-test-bucket")

	srv := &http.Server{
		Addr:              ":8787",
		Handler:           fake.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info().Str("addr", srv.Addr).Msg("Mock AutoRAG service listening; point HUB_RAG_API_BASE_URL at http://localhost:8787")
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("mock AutoRAG stopped")
	}
}
