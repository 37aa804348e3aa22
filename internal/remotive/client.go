package remotive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Static errors for Remotive client operations.
var (
	// ErrServerError is returned when the server returns a 5xx status code.
	ErrServerError = errors.New("remotive: server error")
	// ErrRateLimited is returned when the server returns a 429 status code.
	ErrRateLimited = errors.New("remotive: rate limited")
	// ErrRequestFailed is returned when the request fails with a non-2xx status code.
	ErrRequestFailed = errors.New("remotive: request failed")
)

const defaultBaseURL = "https://remotive.com"

// Client defines the interface for querying Remotive.
type Client interface {
	Search(ctx context.Context, params SearchParams) ([]Posting, error)
}

// HTTPClient is the HTTP implementation of the Remotive Client interface.
// Remotive is unauthenticated.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption is a function that configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) ClientOption {
	return func(c *HTTPClient) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// NewClient creates a new Remotive client.
func NewClient(opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// Search lists remote jobs matching the search term.
func (c *HTTPClient) Search(ctx context.Context, params SearchParams) ([]Posting, error) {
	values := url.Values{}
	if s := strings.TrimSpace(params.Search); s != "" {
		values.Set("search", s)
	}
	if params.Category != "" {
		values.Set("category", params.Category)
	}
	if params.Limit > 0 {
		values.Set("limit", strconv.Itoa(params.Limit))
	}

	endpoint := c.baseURL + "/api/remote-jobs"
	if encoded := values.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("remotive: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remotive: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("remotive: read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, strings.TrimSpace(string(body)))
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w %d: %s", ErrServerError, resp.StatusCode, strings.TrimSpace(string(body)))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w with status %d: %s", ErrRequestFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("remotive: unmarshal response: %w", err)
	}

	// The API ignores limit on some categories.
	jobs := payload.Jobs
	if params.Limit > 0 && len(jobs) > params.Limit {
		jobs = jobs[:params.Limit]
	}
	return jobs, nil
}
