package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"naitive/hub/internal/access"
	"naitive/hub/internal/log"
	"naitive/hub/internal/metrics"
	"naitive/hub/internal/mock"
)

const (
	healthMessage      = "NAItive AI Workspace Hub - Powered by Cloudflare Workers"
	chatFailureMessage = "Failed to process message"
)

var healthFeatures = []string{"AI Chat", "Analytics", "Google Workspace Integration", "Real-time Dashboard"}

var errNullBody = errors.New("request body is null")

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status      string   `json:"status"`
	Timestamp   string   `json:"timestamp"`
	Message     string   `json:"message"`
	Hostname    string   `json:"hostname"`
	Environment string   `json:"environment"`
	Features    []string `json:"features"`
}

func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.handleMethodNotAllowed(w, r)
		return
	}
	message, err := decodeChat(w, r, s.cfg.Chat.MaxBodyBytes)
	if err != nil {
		metrics.ChatMessages.WithLabelValues("bad_request").Inc()
		l := log.WithContext(r.Context(), s.logger)
		l.Debug().Err(err).Str(log.FieldEvent, "chat.decode_failed").Msg("rejecting chat request")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: chatFailureMessage})
		return
	}

	delay := s.gen.ChatDelay(s.cfg.Chat.MinDelay, s.cfg.Chat.MaxDelay)
	if err := s.sleeper.Sleep(r.Context(), delay); err != nil {
		// Client went away; nobody is left to read a reply.
		metrics.ChatMessages.WithLabelValues("abandoned").Inc()
		return
	}

	metrics.ChatMessages.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, s.gen.Chat(message))
}

// decodeChat accepts any single JSON value except null. The message is taken
// from an object's "message" string and is empty otherwise. Bodies over limit
// fail like any other malformed input.
func decodeChat(w http.ResponseWriter, r *http.Request, limit int64) (string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return "", err
	}
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", err
	}
	if payload == nil {
		return "", errNullBody
	}
	if obj, ok := payload.(map[string]any); ok {
		if msg, ok := obj["message"].(string); ok {
			return msg, nil
		}
	}
	return "", nil
}

func (s *server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gen.Analytics())
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      "healthy",
		Timestamp:   mock.FormatTimestamp(s.gen.Now()),
		Message:     healthMessage,
		Hostname:    access.Hostname(r),
		Environment: s.cfg.EnvironmentName(),
		Features:    append([]string(nil), healthFeatures...),
	})
}

func (s *server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusNotFound, "Not Found")
}

func (s *server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodPost)
	writeText(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
