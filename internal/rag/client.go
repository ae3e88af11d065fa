package rag

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public Cloudflare v4 API root.
const DefaultBaseURL = "https://api.cloudflare.com/client/v4"

// Client provides access to the AutoRAG and R2 REST API of one account.
type Client struct {
	baseURL    string
	accountID  string
	apiToken   string
	httpClient *http.Client
	logger     zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a client for accountID. An empty baseURL selects
// DefaultBaseURL.
func NewClient(baseURL, accountID, apiToken string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		accountID: accountID,
		apiToken:  apiToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// UploadObject stores body under key in bucket.
func (c *Client) UploadObject(ctx context.Context, bucket, key, contentType string, body []byte) error {
	path := c.accountPath("r2", "buckets", url.PathEscape(bucket), "objects") + "/" + escapeKey(key)

	respBody, err := c.doRequest(ctx, http.MethodPut, path, contentType, body)
	if err != nil {
		return err
	}
	// R2 may answer with an empty body; only a JSON envelope can veto success.
	if len(respBody) > 0 {
		var env Envelope[json.RawMessage]
		if decodeErr := json.Unmarshal(respBody, &env); decodeErr == nil && !env.Success {
			return &APIError{StatusCode: http.StatusOK, Errors: env.Errors, Body: respBody}
		}
	}

	c.logger.Debug().Str("bucket", bucket).Str("key", key).Int("bytes", len(body)).Msg("object uploaded")
	return nil
}

// ListInstances returns the AutoRAG instances of the account.
func (c *Client) ListInstances(ctx context.Context) ([]Instance, error) {
	var instances []Instance
	if err := c.doJSON(ctx, http.MethodGet, c.accountPath("autorag", "rags"), nil, &instances); err != nil {
		return nil, err
	}
	return instances, nil
}

// Search runs a retrieval-only query against instance name.
func (c *Client) Search(ctx context.Context, name string, req SearchRequest) (*SearchResult, error) {
	var result SearchResult
	if err := c.doJSON(ctx, http.MethodPost, c.accountPath("autorag", "rags", url.PathEscape(name), "search"), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AISearch runs a retrieval query and asks the instance's model to answer it.
// Streaming is always disabled.
func (c *Client) AISearch(ctx context.Context, name string, req AISearchRequest) (*SearchResult, error) {
	req.Stream = false
	var result SearchResult
	if err := c.doJSON(ctx, http.MethodPost, c.accountPath("autorag", "rags", url.PathEscape(name), "ai-search"), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) accountPath(segments ...string) string {
	return "/accounts/" + url.PathEscape(c.accountID) + "/" + strings.Join(segments, "/")
}

// escapeKey escapes each segment of an object key, keeping the separators.
func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
