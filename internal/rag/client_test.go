package rag_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"naitive/hub/internal/rag"
	"naitive/hub/internal/rag/ragtest"
)

const (
	testToken   = "test-token"
	testAccount = "acct123"
	testBucket  = "autorag-test-bucket"
	testRAG     = "naitive-test-rag"
)

const testDocument = `# NAItive Platform

NAItive offers workflow automation services and AI assistants for teams.

To authenticate with the NAItive API, send a bearer token in the Authorization header.`

func newFake(t *testing.T) (*ragtest.Server, *rag.Client) {
	t.Helper()
	srv := ragtest.NewServer(testToken, testRAG, testBucket)
	t.Cleanup(srv.Close)
	return srv, rag.NewClient(srv.URL, testAccount, testToken, rag.WithHTTPClient(srv.Client()))
}

func TestUploadObject(t *testing.T) {
	srv, c := newFake(t)

	err := c.UploadObject(context.Background(), testBucket, "documents/test_document.md", "text/markdown", []byte(testDocument))
	require.NoError(t, err)

	body, contentType, ok := srv.Object(testBucket, "documents/test_document.md")
	require.True(t, ok)
	assert.Equal(t, testDocument, string(body))
	assert.Equal(t, "text/markdown", contentType)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPut, reqs[0].Method)
	assert.Equal(t, "/accounts/acct123/r2/buckets/autorag-test-bucket/objects/documents/test_document.md", reqs[0].Path)
}

func TestListInstances(t *testing.T) {
	srv, c := newFake(t)
	srv.AddInstance("another-rag", "other-bucket")

	instances, err := c.ListInstances(context.Background())
	require.NoError(t, err)
	require.Len(t, instances, 2)
	assert.Equal(t, "another-rag", instances[0].ID)
	assert.Equal(t, testRAG, instances[1].ID)
	assert.Equal(t, testBucket, instances[1].Source)
}

func TestSearch_RequestBody(t *testing.T) {
	srv, c := newFake(t)
	require.NoError(t, c.UploadObject(context.Background(), testBucket, "doc.md", "text/markdown", []byte(testDocument)))

	res, err := c.Search(context.Background(), testRAG, rag.SearchRequest{
		Query:          "How do I authenticate with the NAItive API?",
		MaxNumResults:  5,
		RankingOptions: &rag.RankingOptions{ScoreThreshold: 0.3},
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Data)
	assert.Contains(t, res.Data[0].Content[0].Text, "bearer token")
	assert.Empty(t, res.Response)

	reqs := srv.Requests()
	last := reqs[len(reqs)-1]
	assert.Equal(t, "/accounts/acct123/autorag/rags/naitive-test-rag/search", last.Path)
	assert.JSONEq(t, `{
		"query": "How do I authenticate with the NAItive API?",
		"max_num_results": 5,
		"ranking_options": {"score_threshold": 0.3}
	}`, string(last.Body))
}

func TestAISearch_RequestBody(t *testing.T) {
	srv, c := newFake(t)
	require.NoError(t, c.UploadObject(context.Background(), testBucket, "doc.md", "text/markdown", []byte(testDocument)))

	res, err := c.AISearch(context.Background(), testRAG, rag.AISearchRequest{
		Query:          "What services does NAItive offer?",
		Model:          "@cf/meta/llama-3.3-70b-instruct-sd",
		MaxNumResults:  10,
		RankingOptions: &rag.RankingOptions{ScoreThreshold: 0.3},
		Stream:         true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Response)
	assert.Equal(t, "What services does NAItive offer?", res.SearchQuery)

	reqs := srv.Requests()
	last := reqs[len(reqs)-1]
	assert.Equal(t, "/accounts/acct123/autorag/rags/naitive-test-rag/ai-search", last.Path)
	assert.JSONEq(t, `{
		"query": "What services does NAItive offer?",
		"model": "@cf/meta/llama-3.3-70b-instruct-sd",
		"rewrite_query": false,
		"max_num_results": 10,
		"ranking_options": {"score_threshold": 0.3},
		"stream": false
	}`, string(last.Body))
}

func TestSearch_ThresholdAndLimit(t *testing.T) {
	_, c := newFake(t)
	require.NoError(t, c.UploadObject(context.Background(), testBucket, "doc.md", "text/markdown", []byte(testDocument)))

	res, err := c.Search(context.Background(), testRAG, rag.SearchRequest{
		Query:          "NAItive",
		MaxNumResults:  1,
		RankingOptions: &rag.RankingOptions{ScoreThreshold: 0.5},
	})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.GreaterOrEqual(t, res.Data[0].Score, 0.5)
}

func TestErrors(t *testing.T) {
	srv, _ := newFake(t)

	t.Run("bad token", func(t *testing.T) {
		c := rag.NewClient(srv.URL, testAccount, "wrong", rag.WithHTTPClient(srv.Client()))
		_, err := c.ListInstances(context.Background())

		var apiErr *rag.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		require.Len(t, apiErr.Errors, 1)
		assert.Equal(t, "Authentication error", apiErr.Errors[0].Message)
		assert.Equal(t, "rag api error 401: Authentication error", err.Error())
		assert.True(t, rag.IsAPIError(err, http.StatusUnauthorized))
	})

	t.Run("unknown instance", func(t *testing.T) {
		c := rag.NewClient(srv.URL, testAccount, testToken, rag.WithHTTPClient(srv.Client()))
		_, err := c.Search(context.Background(), "missing", rag.SearchRequest{Query: "x"})
		assert.True(t, rag.IsAPIError(err, http.StatusNotFound))
	})

	t.Run("empty query", func(t *testing.T) {
		c := rag.NewClient(srv.URL, testAccount, testToken, rag.WithHTTPClient(srv.Client()))
		_, err := c.AISearch(context.Background(), testRAG, rag.AISearchRequest{})
		assert.True(t, rag.IsAPIError(err, http.StatusBadRequest))
	})
}

func TestUnsuccessfulEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"errors":  []map[string]any{{"code": 1000, "message": "quota exceeded"}},
		})
	}))
	t.Cleanup(srv.Close)

	c := rag.NewClient(srv.URL, testAccount, testToken)
	_, err := c.ListInstances(context.Background())
	var apiErr *rag.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "quota exceeded", apiErr.Errors[0].Message)

	err = c.UploadObject(context.Background(), testBucket, "k", "text/plain", []byte("x"))
	assert.ErrorAs(t, err, &apiErr)
}

func TestNoRetryOnServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	c := rag.NewClient(srv.URL, testAccount, testToken, rag.WithTimeout(time.Second))
	_, err := c.ListInstances(context.Background())

	assert.True(t, rag.IsAPIError(err, http.StatusBadGateway))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "rag api error 502: Bad Gateway", err.Error())
}

func TestEmptyUploadResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := rag.NewClient(srv.URL, testAccount, testToken)
	assert.NoError(t, c.UploadObject(context.Background(), testBucket, "k", "text/plain", []byte("x")))
}

