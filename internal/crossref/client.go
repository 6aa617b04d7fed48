// Package crossref resolves publications through the CrossRef Works
// API. Reference and citation edges are not served by CrossRef itself
// (Cited-by requires membership); the adapter delegates them to the
// OpenCitations index.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/rbalebako/lit-review-search/internal/pub"
)

const (
	// BaseURL is the CrossRef REST API base URL.
	BaseURL = "https://api.crossref.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is a conservative 1 request per second. The polite
	// pool allows more, but the pipeline is sequential anyway.
	RateLimit = 1.0

	// DefaultSearchRows is the default result count for title search.
	DefaultSearchRows = 10

	userAgent = "lit-review-search/1.0"
)

// Client is a rate-limited HTTP client for the CrossRef Works API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string // polite-pool email, optional
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMailto sets the polite-pool contact email.
func WithMailto(email string) ClientOption {
	return func(c *Client) { c.mailto = email }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// NewClient creates a new CrossRef client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// work is the subset of a CrossRef work record the pipeline uses.
type work struct {
	DOI       string    `json:"DOI"`
	Title     []string  `json:"title"`
	Abstract  string    `json:"abstract"`
	URL       string    `json:"URL"`
	Published dateParts `json:"published"`
	Created   dateParts `json:"created"`
}

type dateParts struct {
	DateParts [][]int `json:"date-parts"`
}

func (d dateParts) year() int {
	if len(d.DateParts) > 0 && len(d.DateParts[0]) > 0 {
		return d.DateParts[0][0]
	}
	return 0
}

// GetWork fetches the work record for a DOI.
func (c *Client) GetWork(ctx context.Context, doi string) (*pub.Publication, error) {
	u := fmt.Sprintf("%s/works/%s", c.baseURL, url.PathEscape(doi))

	var envelope struct {
		Message work `json:"message"`
	}
	if err := c.getJSON(ctx, u, &envelope); err != nil {
		return nil, err
	}

	p := c.toPublication(envelope.Message)
	if p.DOI == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, doi)
	}
	return p, nil
}

// SearchByTitle queries works by title relevance. Results are in
// CrossRef's relevance order; no determinism is guaranteed.
func (c *Client) SearchByTitle(ctx context.Context, title string, rows int) ([]*pub.Publication, error) {
	if rows <= 0 {
		rows = DefaultSearchRows
	}
	u := fmt.Sprintf("%s/works?query.title=%s&rows=%d", c.baseURL, url.QueryEscape(title), rows)

	var envelope struct {
		Message struct {
			Items []work `json:"items"`
		} `json:"message"`
	}
	if err := c.getJSON(ctx, u, &envelope); err != nil {
		return nil, err
	}

	pubs := make([]*pub.Publication, 0, len(envelope.Message.Items))
	for _, item := range envelope.Message.Items {
		if item.DOI == "" {
			continue
		}
		pubs = append(pubs, c.toPublication(item))
	}
	return pubs, nil
}

func (c *Client) toPublication(w work) *pub.Publication {
	title := ""
	if len(w.Title) > 0 {
		title = w.Title[0]
	}
	year := w.Published.year()
	if year == 0 {
		year = w.Created.year()
	}
	return &pub.Publication{
		DOI:      w.DOI,
		Title:    title,
		Year:     year,
		Abstract: w.Abstract,
		URL:      w.URL,
	}
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	ua := userAgent
	if c.mailto != "" {
		ua = fmt.Sprintf("%s (mailto:%s)", userAgent, c.mailto)
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: HTTP %d", ErrAPIError, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
