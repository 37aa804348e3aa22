package adzuna

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

// Static errors for Adzuna client operations.
var (
	// ErrCredentialsRequired is returned when app ID or app key is missing.
	ErrCredentialsRequired = errors.New("adzuna: app_id and app_key are required")
	// ErrQueryRequired is returned when no search keywords are given.
	ErrQueryRequired = errors.New("adzuna: query is required")
	// ErrServerError is returned when the server returns a 5xx status code.
	ErrServerError = errors.New("adzuna: server error")
	// ErrRateLimited is returned when the server returns a 429 status code.
	ErrRateLimited = errors.New("adzuna: rate limited")
	// ErrRequestFailed is returned when the request fails with a non-2xx status code.
	ErrRequestFailed = errors.New("adzuna: request failed")
)

const (
	defaultBaseURL  = "https://api.adzuna.com/v1/api/jobs"
	defaultCountry  = "us"
	defaultPageSize = 50
)

// Client defines the interface for searching Adzuna.
type Client interface {
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
}

// HTTPClient is the HTTP implementation of the Adzuna Client interface.
type HTTPClient struct {
	appID       string
	appKey      string
	country     string
	baseURL     string
	httpClient  *http.Client
	maxRetries  int
	baseBackoff time.Duration
}

// ClientOption is a function that configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithCountry sets the country path segment ("us", "gb", "fr", ...).
func WithCountry(country string) ClientOption {
	return func(c *HTTPClient) {
		if country != "" {
			c.country = country
		}
	}
}

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

// WithMaxRetries sets the maximum number of retries for transient failures.
func WithMaxRetries(n int) ClientOption {
	return func(c *HTTPClient) {
		c.maxRetries = n
	}
}

// WithBaseBackoff sets the initial backoff duration for retries.
func WithBaseBackoff(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.baseBackoff = d
	}
}

// NewClient creates a new Adzuna HTTP client.
func NewClient(appID, appKey string, opts ...ClientOption) (*HTTPClient, error) {
	if appID == "" || appKey == "" {
		return nil, ErrCredentialsRequired
	}

	c := &HTTPClient{
		appID:       appID,
		appKey:      appKey,
		country:     defaultCountry,
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		maxRetries:  2,
		baseBackoff: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// Search fetches one page of results for the given keywords and location.
func (c *HTTPClient) Search(ctx context.Context, params SearchParams) (SearchResult, error) {
	if strings.TrimSpace(params.What) == "" {
		return SearchResult{}, ErrQueryRequired
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.ResultsPerPage <= 0 {
		params.ResultsPerPage = defaultPageSize
	}

	var resp searchResponse
	if err := c.doRequestWithRetry(ctx, c.searchURL(params), &resp); err != nil {
		return SearchResult{}, err
	}

	out := SearchResult{Count: resp.Count, Results: make([]Posting, 0, len(resp.Results))}
	for _, r := range resp.Results {
		out.Results = append(out.Results, Posting{
			ID:           r.ID,
			Title:        r.Title,
			Description:  r.Description,
			Company:      r.Company.DisplayName,
			Location:     r.Location.DisplayName,
			Area:         r.Location.Area,
			SalaryMin:    r.SalaryMin,
			SalaryMax:    r.SalaryMax,
			ContractTime: r.ContractTime,
			ContractType: r.ContractType,
			Category:     r.Category.Label,
			Created:      r.Created,
			RedirectURL:  r.RedirectURL,
		})
	}
	return out, nil
}

func (c *HTTPClient) searchURL(params SearchParams) string {
	values := url.Values{}
	values.Set("app_id", c.appID)
	values.Set("app_key", c.appKey)
	values.Set("results_per_page", strconv.Itoa(params.ResultsPerPage))
	values.Set("what", params.What)
	if params.Where != "" && !strings.EqualFold(params.Where, "remote") {
		values.Set("where", params.Where)
	}
	if strings.EqualFold(params.Where, "remote") {
		values.Set("what_or", "remote")
	}
	values.Set("content-type", "application/json")
	values.Set("sort_by", "date")

	return fmt.Sprintf("%s/%s/search/%d?%s", c.baseURL, c.country, params.Page, values.Encode())
}

// doRequestWithRetry performs a GET with exponential backoff on transient failures.
// Rate limiting is never retried; the caller decides how to back off.
func (c *HTTPClient) doRequestWithRetry(ctx context.Context, u string, result any) error {
	var lastErr error
	backoff := c.baseBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("adzuna: context cancelled: %w", ctx.Err())
			case <-time.After(backoff):
				backoff *= 2
			}
		}

		err := c.doRequest(ctx, u, result)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("adzuna: max retries exceeded: %w", lastErr)
}

func (c *HTTPClient) doRequest(ctx context.Context, u string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("adzuna: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &retryableError{err: fmt.Errorf("adzuna: request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return &retryableError{err: fmt.Errorf("adzuna: read response: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, strings.TrimSpace(string(body)))
	case resp.StatusCode >= 500:
		return &retryableError{err: fmt.Errorf("%w %d: %s", ErrServerError, resp.StatusCode, strings.TrimSpace(string(body)))}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w with status %d: %s", ErrRequestFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("adzuna: unmarshal response: %w", err)
	}
	return nil
}

// retryableError wraps errors that should be retried.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return e.err.Error()
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// isRetryable returns true if the error should be retried.
func isRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}
