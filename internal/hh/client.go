// Package hh provides an HTTP client for the hh.ru vacancy search API.
package hh

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/maauso/vacancy-assistant/internal/vacancy"
)

// DefaultBaseURL is the hh.ru vacancy search endpoint.
const DefaultBaseURL = "https://api.hh.ru/vacancies"

// DefaultUserAgent is sent when no user agent is configured; hh.ru rejects
// requests without one.
const DefaultUserAgent = "vacancy-assistant/1.0"

// maxErrorBody caps how much of an error response is kept in RemoteAPIError.
const maxErrorBody = 512

// Static errors for hh client operations.
var (
	// ErrAPIKeyRequired is returned when no API key is configured.
	ErrAPIKeyRequired = errors.New("hh: API key is required")
	// ErrEmptyQuery is returned when the search text is blank.
	ErrEmptyQuery = errors.New("hh: search query is required")
	// ErrNegativePage is returned for a page index below zero.
	ErrNegativePage = errors.New("hh: page must not be negative")
	// ErrMissingItems is returned when a success response has no items field.
	ErrMissingItems = errors.New("hh: response has no items field")
)

// Compile-time check that HTTPClient implements vacancy.Source.
var _ vacancy.Source = (*HTTPClient)(nil)

// HTTPClient fetches vacancies from hh.ru. Each call issues exactly one
// request; there is no retry or backoff.
type HTTPClient struct {
	apiKey     string
	baseURL    string
	userAgent  string
	perPage    int
	httpClient *http.Client
}

// ClientOption is a function that configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(hc *HTTPClient) {
		hc.httpClient = c
	}
}

// WithBaseURL sets a custom search endpoint.
func WithBaseURL(u string) ClientOption {
	return func(hc *HTTPClient) {
		hc.baseURL = u
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(hc *HTTPClient) {
		hc.userAgent = ua
	}
}

// WithPerPage sets the per_page parameter. Zero leaves the API default.
func WithPerPage(n int) ClientOption {
	return func(hc *HTTPClient) {
		hc.perPage = n
	}
}

// NewClient creates a new hh.ru client presenting apiKey as a bearer token.
func NewClient(apiKey string, opts ...ClientOption) (*HTTPClient, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	c := &HTTPClient{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// searchResponse is the subset of the hh.ru search response we consume.
type searchResponse struct {
	Items *[]vacancy.Record `json:"items"`
	Found int               `json:"found"`
	Pages int               `json:"pages"`
}

// GetVacancies fetches one page of vacancies matching query.
// A non-2xx response returns *vacancy.RemoteAPIError.
func (c *HTTPClient) GetVacancies(ctx context.Context, query string, page int) ([]vacancy.Record, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if page < 0 {
		return nil, ErrNegativePage
	}

	reqURL, err := c.buildURL(query, page)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("hh: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hh: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("hh: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &vacancy.RemoteAPIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var sr searchResponse
	if err := dec.Decode(&sr); err != nil {
		return nil, fmt.Errorf("hh: unmarshal response: %w", err)
	}
	if sr.Items == nil {
		return nil, ErrMissingItems
	}
	return *sr.Items, nil
}

// buildURL appends the search parameters to the configured endpoint.
func (c *HTTPClient) buildURL(query string, page int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("hh: parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("text", query)
	q.Set("page", strconv.Itoa(page))
	if c.perPage > 0 {
		q.Set("per_page", strconv.Itoa(c.perPage))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
