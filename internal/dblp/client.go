// Package dblp resolves computer-science publications through the DBLP
// record and search APIs. DBLP indexes no citation data of its own;
// edges come from the OpenCitations index once a DOI is known.
package dblp

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/rbalebako/lit-review-search/internal/pub"
)

const (
	// BaseURL is the DBLP site root; records live at /rec/<key>.xml
	// and search at /search/publ/api.
	BaseURL = "https://dblp.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is a conservative 1 request per second; DBLP has no
	// published budget but throttles aggressive clients.
	RateLimit = 1.0

	// DefaultSearchHits is the default result count for title search.
	DefaultSearchHits = 10
)

// The ee field carries an electronic-edition URL like
// "https://doi.org/10.1145/3576915.3623157"; the DOI is the path.
var eeDOIPattern = regexp.MustCompile(`doi\.org/(10\..+)$`)

// Client is a rate-limited HTTP client for the DBLP APIs.
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

// NewClient creates a new DBLP client. DBLP requires no credentials.
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

// record is one publication element inside a dblp record document.
// The element name varies (article, inproceedings, ...), so the
// document is parsed with a catch-all.
type record struct {
	Key   string   `xml:"key,attr"`
	Title string   `xml:"title"`
	Year  string   `xml:"year"`
	EE    []string `xml:"ee"`
	URL   string   `xml:"url"`
}

type recordDoc struct {
	XMLName xml.Name `xml:"dblp"`
	Records []record `xml:",any"`
}

// GetRecord fetches the publication record for a DBLP key such as
// "conf/icse/Smith20".
func (c *Client) GetRecord(ctx context.Context, key string) (*pub.Publication, error) {
	u := fmt.Sprintf("%s/rec/%s.xml", c.baseURL, key)

	var doc recordDoc
	if err := c.getXML(ctx, u, &doc); err != nil {
		return nil, err
	}
	if len(doc.Records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	return recordToPublication(doc.Records[0]), nil
}

// search API document shape.
type searchDoc struct {
	XMLName xml.Name `xml:"result"`
	Hits    struct {
		Hit []struct {
			Info struct {
				Key   string `xml:"key"`
				Title string `xml:"title"`
				Year  string `xml:"year"`
				EE    string `xml:"ee"`
				DOI   string `xml:"doi"`
			} `xml:"info"`
		} `xml:"hit"`
	} `xml:"hits"`
}

// SearchByTitle queries the publication search API. Results come back
// in DBLP's relevance order.
func (c *Client) SearchByTitle(ctx context.Context, title string, max int) ([]*pub.Publication, error) {
	if max <= 0 {
		max = DefaultSearchHits
	}
	u := fmt.Sprintf("%s/search/publ/api?q=%s&format=xml&h=%d", c.baseURL, url.QueryEscape(title), max)

	var doc searchDoc
	if err := c.getXML(ctx, u, &doc); err != nil {
		return nil, err
	}

	pubs := make([]*pub.Publication, 0, len(doc.Hits.Hit))
	for _, hit := range doc.Hits.Hit {
		info := hit.Info
		if info.Key == "" {
			continue
		}
		p := &pub.Publication{
			DBLPKey: info.Key,
			Title:   info.Title,
			Year:    parseYear(info.Year),
			DOI:     info.DOI,
		}
		if p.DOI == "" {
			p.DOI = extractDOI(info.EE)
		}
		pubs = append(pubs, p)
	}
	return pubs, nil
}

func (c *Client) getXML(ctx context.Context, u string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

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

	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

func recordToPublication(r record) *pub.Publication {
	p := &pub.Publication{
		DBLPKey: r.Key,
		Title:   r.Title,
		Year:    parseYear(r.Year),
	}
	for _, ee := range r.EE {
		if doi := extractDOI(ee); doi != "" {
			p.DOI = doi
			break
		}
	}
	return p
}

// extractDOI pulls a DOI out of an electronic-edition URL. Empty when
// the URL is not a doi.org link.
func extractDOI(ee string) string {
	match := eeDOIPattern.FindStringSubmatch(ee)
	if match == nil {
		return ""
	}
	return match[1]
}

func parseYear(s string) int {
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return year
}
