package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIError represents a failed call to the REST API.
type APIError struct {
	StatusCode int
	Errors     []ResponseInfo
	Body       []byte
}

func (e *APIError) Error() string {
	msg := http.StatusText(e.StatusCode)
	if len(e.Errors) > 0 {
		msg = e.Errors[0].Message
	}
	return fmt.Sprintf("rag api error %d: %s", e.StatusCode, msg)
}

// IsAPIError reports whether err is an *APIError with the given status.
func IsAPIError(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// doRequest performs one HTTP request. Non-2xx responses become *APIError,
// carrying the envelope errors when the body has them.
func (c *Client) doRequest(ctx context.Context, method, path, contentType string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("rag api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: respBody}
		var env Envelope[json.RawMessage]
		if json.Unmarshal(respBody, &env) == nil {
			apiErr.Errors = env.Errors
		}
		return nil, apiErr
	}

	return respBody, nil
}

// doJSON sends in as a JSON body (nil for none) and unwraps the envelope
// result into out.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	contentType := ""
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		contentType = "application/json"
	}

	respBody, err := c.doRequest(ctx, method, path, contentType, body)
	if err != nil {
		return err
	}

	var env Envelope[json.RawMessage]
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	if !env.Success {
		return &APIError{StatusCode: http.StatusOK, Errors: env.Errors, Body: respBody}
	}
	if out == nil || len(env.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}
	return nil
}
