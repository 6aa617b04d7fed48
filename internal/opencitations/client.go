// Package opencitations fetches citation edges from the OpenCitations
// Index API. The index is keyed by DOI and serves both directions:
// outgoing references and incoming citations.
package opencitations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/rbalebako/lit-review-search/internal/pub"
)

const (
	// BaseURL is the OpenCitations Index v2 API base URL.
	BaseURL = "https://api.opencitations.net/index/v2"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is a conservative 1 request per second.
	RateLimit = 1.0
)

// Entries in the index identify works by a multi-identifier string like
// "omid:br/0612345 doi:10.1108/jd-12-2013-0166 pmid:123"; the DOI is
// extracted by pattern.
var doiPattern = regexp.MustCompile(`(?i)doi:10\.\d{4,9}/[-._;()/:a-z0-9]+`)

// Client is a rate-limited HTTP client for the OpenCitations Index API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the access token sent in the authorization header.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// NewClient creates a new OpenCitations Index client.
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

// entry is one citation link in an index response.
type entry struct {
	Citing   string `json:"citing"`
	Cited    string `json:"cited"`
	Creation string `json:"creation"` // publication date of the citing work, YYYY[-MM[-DD]]
}

// References returns the outgoing edges of the work identified by doi:
// the works appearing in its reference list.
func (c *Client) References(ctx context.Context, doi string) ([]pub.Edge, error) {
	entries, err := c.get(ctx, "references", doi)
	if err != nil {
		return nil, err
	}

	edges := make([]pub.Edge, 0, len(entries))
	for _, e := range entries {
		if id := extractDOI(e.Cited); id != "" {
			edges = append(edges, pub.Edge{ID: id})
		}
	}
	return edges, nil
}

// Citations returns the incoming edges of the work identified by doi:
// the works citing it. The edge year comes from the citing work's
// creation date when the index exposes it.
func (c *Client) Citations(ctx context.Context, doi string) ([]pub.Edge, error) {
	entries, err := c.get(ctx, "citations", doi)
	if err != nil {
		return nil, err
	}

	edges := make([]pub.Edge, 0, len(entries))
	for _, e := range entries {
		if id := extractDOI(e.Citing); id != "" {
			edges = append(edges, pub.Edge{ID: id, Year: creationYear(e.Creation)})
		}
	}
	return edges, nil
}

func (c *Client) get(ctx context.Context, endpoint, doi string) ([]entry, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	u := fmt.Sprintf("%s/%s/doi:%s?format=json", c.baseURL, endpoint, url.PathEscape(doi))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, doi)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: HTTP %d", ErrAPIError, resp.StatusCode)
	}

	var entries []entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return entries, nil
}

// extractDOI pulls the DOI out of a multi-identifier string, without
// the "doi:" prefix. Empty when the string carries no DOI.
func extractDOI(ids string) string {
	match := doiPattern.FindString(ids)
	if match == "" {
		return ""
	}
	return strings.TrimPrefix(strings.TrimPrefix(match, "doi:"), "DOI:")
}

// creationYear parses the year from a creation date like "2021-03-15",
// "2021-03", or "2021". Zero when absent or malformed.
func creationYear(creation string) int {
	if len(creation) < 4 {
		return 0
	}
	year, err := strconv.Atoi(creation[:4])
	if err != nil {
		return 0
	}
	return year
}
