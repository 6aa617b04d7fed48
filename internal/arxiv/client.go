// Package arxiv fetches abstracts from the arXiv Atom query API. DBLP
// records carry no abstracts, so the pipeline falls back to arXiv by
// title for preprint-backed computer-science papers.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the arXiv query API base URL.
	BaseURL = "http://export.arxiv.org/api"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is 1 request per second; arXiv asks for no more than
	// one request every three seconds for bulk use, but single lookups
	// at 1/s stay well inside its tolerance.
	RateLimit = 1.0
)

// Client is a rate-limited HTTP client for the arXiv query API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// NewClient creates a new arXiv client. No credentials are required.
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

type feed struct {
	XMLName xml.Name `xml:"feed"`
	Entries []struct {
		Title   string `xml:"title"`
		Summary string `xml:"summary"`
	} `xml:"entry"`
}

// AbstractByTitle searches arXiv for an exact title match and returns
// the first entry's summary. Empty without error when nothing matches;
// the abstract is best-effort metadata.
func (c *Client) AbstractByTitle(ctx context.Context, title string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	query := fmt.Sprintf(`ti:%q`, strings.ReplaceAll(title, `"`, ``))
	u := fmt.Sprintf("%s/query?search_query=%s&max_results=1", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: HTTP %d", ErrAPIError, resp.StatusCode)
	}

	var f feed
	if err := xml.NewDecoder(resp.Body).Decode(&f); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if len(f.Entries) == 0 {
		return "", nil
	}
	return strings.TrimSpace(f.Entries[0].Summary), nil
}
