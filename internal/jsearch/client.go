package jsearch

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

// Static errors for JSearch client operations.
var (
	// ErrAPIKeyRequired is returned when no RapidAPI key is configured.
	ErrAPIKeyRequired = errors.New("jsearch: RapidAPI key is required")
	// ErrQueryRequired is returned when the search query is empty.
	ErrQueryRequired = errors.New("jsearch: query is required")
	// ErrServerError is returned when the server returns a 5xx status code.
	ErrServerError = errors.New("jsearch: server error")
	// ErrRateLimited is returned when the server returns a 429 status code.
	ErrRateLimited = errors.New("jsearch: rate limited")
	// ErrRequestFailed is returned when the request fails with a non-2xx status code.
	ErrRequestFailed = errors.New("jsearch: request failed")
)

const (
	defaultBaseURL = "https://jsearch.p.rapidapi.com"
	defaultHost    = "jsearch.p.rapidapi.com"
)

// Client defines the interface for searching JSearch.
type Client interface {
	Search(ctx context.Context, params SearchParams) ([]Posting, error)
}

// HTTPClient is the HTTP implementation of the JSearch Client interface.
type HTTPClient struct {
	apiKey     string
	host       string
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

// WithHost overrides the X-RapidAPI-Host header value.
func WithHost(host string) ClientOption {
	return func(c *HTTPClient) {
		c.host = host
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// NewClient creates a new JSearch client authenticated with a RapidAPI key.
func NewClient(apiKey string, opts ...ClientOption) (*HTTPClient, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}
	c := &HTTPClient{
		apiKey:     apiKey,
		host:       defaultHost,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// Search runs a JSearch query and returns the postings of the requested pages.
func (c *HTTPClient) Search(ctx context.Context, params SearchParams) ([]Posting, error) {
	if strings.TrimSpace(params.Query) == "" {
		return nil, ErrQueryRequired
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.NumPages < 1 {
		params.NumPages = 1
	}

	values := url.Values{}
	values.Set("query", params.Query)
	values.Set("page", strconv.Itoa(params.Page))
	values.Set("num_pages", strconv.Itoa(params.NumPages))
	if params.RemoteOnly {
		values.Set("remote_jobs_only", "true")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+values.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("jsearch: create request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jsearch: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("jsearch: read response: %w", err)
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
		return nil, fmt.Errorf("jsearch: unmarshal response: %w", err)
	}

	out := make([]Posting, 0, len(payload.Data))
	for _, item := range payload.Data {
		out = append(out, mapItem(item))
	}
	return out, nil
}

func mapItem(item searchItem) Posting {
	p := Posting{
		ID:              item.JobID,
		Title:           item.JobTitle,
		EmployerName:    item.EmployerName,
		EmployerWebsite: item.EmployerWebsite,
		City:            item.JobCity,
		State:           item.JobState,
		Country:         item.JobCountry,
		IsRemote:        item.JobIsRemote,
		EmploymentType:  item.JobEmploymentType,
		Description:     item.JobDescription,
		SalaryPeriod:    item.JobSalaryPeriod,
		ApplyLink:       item.JobApplyLink,
		RequiredSkills:  item.JobRequiredSkills,
		Qualifications:  item.JobHighlights.Qualifications,
	}
	if item.JobMinSalary != nil {
		p.MinSalary = *item.JobMinSalary
	}
	if item.JobMaxSalary != nil {
		p.MaxSalary = *item.JobMaxSalary
	}
	if item.JobPostedAtTimestamp > 0 {
		p.PostedAt = time.Unix(item.JobPostedAtTimestamp, 0).UTC()
	}
	return p
}
