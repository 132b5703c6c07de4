// Package richresults calls the external rich-results testing endpoint
// used by the admin schema validator.
package richresults

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrUnavailable is the single user-facing failure for any transport,
// timeout or non-2xx outcome. The call is never retried.
var ErrUnavailable = errors.New("rich results service unavailable")

// Client performs one-shot test requests against the configured endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// New creates a client with a bounded per-request timeout.
func New(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Test submits pageURL to the testing endpoint and returns the decoded
// response body. All failures map to ErrUnavailable.
func (c *Client) Test(ctx context.Context, pageURL string) (map[string]any, error) {
	if pageURL == "" {
		return nil, errors.New("url is required")
	}

	testURL := c.endpoint + "?url=" + url.QueryEscape(pageURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, testURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		// The endpoint may answer with HTML; surface the raw text so the
		// admin UI can still show something.
		return map[string]any{"raw": string(body)}, nil
	}
	return decoded, nil
}
