// Package ragtest provides an in-memory fake of the AutoRAG and R2 REST
// endpoints spoken by package rag.
package ragtest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"naitive/hub/internal/rag"
)

// Fake serves the account-scoped v4 paths for any account ID. Search scores
// each paragraph of the objects in the instance's bucket by the share of
// query words it contains.
type Fake struct {
	token string

	mu        sync.Mutex
	objects   map[string]map[string]object // bucket -> key -> object
	instances map[string]string            // name -> bucket
	requests  []Request
}

// Request records what a client sent.
type Request struct {
	Method string
	Path   string
	Body   []byte
}

type object struct {
	contentType string
	body        []byte
	modified    time.Time
}

// NewFake returns a fake accepting only token as a bearer credential.
func NewFake(token string) *Fake {
	return &Fake{
		token:     token,
		objects:   make(map[string]map[string]object),
		instances: make(map[string]string),
	}
}

// AddInstance registers an AutoRAG instance indexing bucket.
func (f *Fake) AddInstance(name, bucket string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.instances[name] = bucket
}

// Object returns a stored object.
func (f *Fake) Object(bucket, key string) (body []byte, contentType string, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[bucket][key]
	return obj.body, obj.contentType, ok
}

// Requests returns the requests received so far.
func (f *Fake) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.requests)
}

// Handler returns the HTTP surface of the fake.
func (f *Fake) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(f.authenticate)
	r.Route("/accounts/{account}", func(r chi.Router) {
		r.Put("/r2/buckets/{bucket}/objects/*", f.putObject)
		r.Get("/autorag/rags", f.listInstances)
		r.Post("/autorag/rags/{name}/search", f.search(false))
		r.Post("/autorag/rags/{name}/ai-search", f.search(true))
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, 7003, "No route for the URI")
	})
	return r
}

// Server is a Fake behind an httptest.Server.
type Server struct {
	*Fake
	*httptest.Server
}

// NewServer starts a fake with one instance named instance over bucket.
// Callers must Close it.
func NewServer(token, instance, bucket string) *Server {
	f := NewFake(token)
	f.AddInstance(instance, bucket)
	return &Server{Fake: f, Server: httptest.NewServer(f.Handler())}
}

func (f *Fake) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, 10001, "unreadable body")
			return
		}
		f.mu.Lock()
		f.requests = append(f.requests, Request{Method: r.Method, Path: r.URL.Path, Body: body})
		f.mu.Unlock()

		if r.Header.Get("Authorization") != "Bearer "+f.token {
			writeError(w, http.StatusUnauthorized, 10000, "Authentication error")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func (f *Fake) putObject(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	key := chi.URLParam(r, "*")
	if key == "" {
		writeError(w, http.StatusBadRequest, 10002, "object key required")
		return
	}
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	if f.objects[bucket] == nil {
		f.objects[bucket] = make(map[string]object)
	}
	f.objects[bucket][key] = object{contentType: r.Header.Get("Content-Type"), body: body, modified: time.Now()}
	f.mu.Unlock()

	writeResult(w, map[string]any{"key": key, "size": len(body)})
}

func (f *Fake) listInstances(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	instances := make([]rag.Instance, 0, len(f.instances))
	for name, bucket := range f.instances {
		instances = append(instances, rag.Instance{ID: name, Source: bucket, Type: "r2", Status: "active"})
	}
	f.mu.Unlock()

	slices.SortFunc(instances, func(a, b rag.Instance) int { return strings.Compare(a.ID, b.ID) })
	writeResult(w, instances)
}

func (f *Fake) search(generate bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		var req rag.AISearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Query) == "" {
			writeError(w, http.StatusBadRequest, 7001, "query is required")
			return
		}

		f.mu.Lock()
		bucket, ok := f.instances[name]
		var hits []rag.SearchHit
		if ok {
			hits = f.rank(bucket, req)
		}
		f.mu.Unlock()
		if !ok {
			writeError(w, http.StatusNotFound, 7002, "AutoRAG instance not found")
			return
		}

		result := rag.SearchResult{
			Object:      "vector_store.search_results.page",
			SearchQuery: req.Query,
			Data:        hits,
		}
		if generate {
			result.Response = answer(hits)
		}
		writeResult(w, result)
	}
}

// rank must be called with f.mu held.
func (f *Fake) rank(bucket string, req rag.AISearchRequest) []rag.SearchHit {
	words := strings.Fields(strings.ToLower(req.Query))
	threshold := 0.0
	if req.RankingOptions != nil {
		threshold = req.RankingOptions.ScoreThreshold
	}

	hits := []rag.SearchHit{}
	for key, obj := range f.objects[bucket] {
		for _, para := range strings.Split(string(obj.body), "\n\n") {
			para = strings.TrimSpace(para)
			if para == "" {
				continue
			}
			score := overlap(words, strings.ToLower(para))
			if score < threshold || score == 0 {
				continue
			}
			hits = append(hits, rag.SearchHit{
				FileID:     key,
				Filename:   key,
				Score:      score,
				Attributes: map[string]any{"modified_date": obj.modified.Unix()},
				Content:    []rag.ContentPart{{Type: "text", Text: para}},
			})
		}
	}

	slices.SortStableFunc(hits, func(a, b rag.SearchHit) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return strings.Compare(a.Content[0].Text, b.Content[0].Text)
	})
	if req.MaxNumResults > 0 && len(hits) > req.MaxNumResults {
		hits = hits[:req.MaxNumResults]
	}
	return hits
}

func overlap(words []string, text string) float64 {
	if len(words) == 0 {
		return 0
	}
	n := 0
	for _, w := range words {
		if strings.Contains(text, strings.Trim(w, "?.,!")) {
			n++
		}
	}
	return float64(n) / float64(len(words))
}

func answer(hits []rag.SearchHit) string {
	if len(hits) == 0 {
		return "I could not find anything relevant in the indexed documents."
	}
	return hits[0].Content[0].Text
}

func writeResult(w http.ResponseWriter, result any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(rag.Envelope[any]{
		Success:  true,
		Errors:   []rag.ResponseInfo{},
		Messages: []rag.ResponseInfo{},
		Result:   result,
	})
}

func writeError(w http.ResponseWriter, status, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(rag.Envelope[any]{
		Success:  false,
		Errors:   []rag.ResponseInfo{{Code: code, Message: msg}},
		Messages: []rag.ResponseInfo{},
	})
}
