// Package scopus resolves publications through the Elsevier Scopus
// Abstract Retrieval and Search APIs. Unlike the other sources, Scopus
// serves both directions natively: references come from the abstract
// retrieval bibliography and citations from a search over refeid().
package scopus

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/rbalebako/lit-review-search/internal/pub"
)

const (
	// BaseURL is the Elsevier content API base URL.
	BaseURL = "https://api.elsevier.com"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is a conservative 1 request per second; Scopus bans
	// clients that burst past their quota.
	RateLimit = 1.0

	// SearchPageSize is the page size for citation search requests.
	SearchPageSize = 200

	// DefaultSearchHits is the default result count for title search.
	DefaultSearchHits = 10
)

// Client is a rate-limited HTTP client for the Scopus APIs.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the Elsevier API key.
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

// NewClient creates a new Scopus client. The API key is checked at
// first use, not here, so tests can construct clients without one.
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

// abstractResponse mirrors the parts of the abstract retrieval XML the
// pipeline uses. Go's XML decoder matches local names regardless of
// namespace, which keeps the Elsevier namespace soup out of the structs.
type abstractResponse struct {
	XMLName  xml.Name `xml:"abstracts-retrieval-response"`
	Coredata struct {
		Title       string `xml:"title"`
		CoverDate   string `xml:"coverDate"` // YYYY-MM-DD
		DOI         string `xml:"doi"`
		EID         string `xml:"eid"`
		Description struct {
			Abstract struct {
				Paras []string `xml:"para"`
			} `xml:"abstract"`
		} `xml:"description"`
	} `xml:"coredata"`
	Item struct {
		Bibrecord struct {
			Tail struct {
				Bibliography struct {
					References []reference `xml:"reference"`
				} `xml:"bibliography"`
			} `xml:"tail"`
		} `xml:"bibrecord"`
	} `xml:"item"`
}

type reference struct {
	RefInfo struct {
		Title struct {
			Text string `xml:"ref-titletext"`
		} `xml:"ref-title"`
		ItemIDList struct {
			ItemIDs []struct {
				IDType string `xml:"idtype,attr"`
				Value  string `xml:",chardata"`
			} `xml:"itemid"`
		} `xml:"refd-itemidlist"`
	} `xml:"ref-info"`
}

// sgrID returns the reference's SGR item identifier, the EID-compatible
// key used for reference edges. Empty when absent.
func (r reference) sgrID() string {
	for _, id := range r.RefInfo.ItemIDList.ItemIDs {
		if id.IDType == "SGR" {
			return strings.TrimSpace(id.Value)
		}
	}
	return ""
}

// GetAbstract fetches the abstract retrieval record for an EID,
// including metadata and the reference list.
func (c *Client) GetAbstract(ctx context.Context, eid string) (*pub.Publication, []pub.Edge, error) {
	eid = pub.NormalizeEID(eid)
	u := fmt.Sprintf("%s/content/abstract/scopus_id/%s", c.baseURL, url.PathEscape(eid))

	body, err := c.get(ctx, u, "application/xml")
	if err != nil {
		return nil, nil, err
	}

	var doc abstractResponse
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	p := &pub.Publication{
		EID:      eid,
		DOI:      doc.Coredata.DOI,
		Title:    doc.Coredata.Title,
		Year:     coverDateYear(doc.Coredata.CoverDate),
		Abstract: strings.TrimSpace(strings.Join(doc.Coredata.Description.Abstract.Paras, " ")),
	}

	var refs []pub.Edge
	seen := make(map[string]struct{})
	for _, ref := range doc.Item.Bibrecord.Tail.Bibliography.References {
		id := ref.sgrID()
		if id == "" {
			continue
		}
		id = pub.NormalizeEID(id)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		refs = append(refs, pub.Edge{ID: id})
	}

	if p.Title == "" && len(refs) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, eid)
	}
	return p, refs, nil
}

// searchResults mirrors the Scopus Search API JSON envelope.
type searchResults struct {
	Results struct {
		TotalResults string        `json:"opensearch:totalResults"`
		Entries      []searchEntry `json:"entry"`
	} `json:"search-results"`
}

type searchEntry struct {
	EID       string `json:"eid"`
	Title     string `json:"dc:title"`
	CoverDate string `json:"prism:coverDate"`
	DOI       string `json:"prism:doi"`
}

// GetCitations pages through the search API for every work whose
// reference list contains the given EID.
func (c *Client) GetCitations(ctx context.Context, eid string) ([]pub.Edge, error) {
	eid = pub.NormalizeEID(eid)
	query := fmt.Sprintf("refeid(2-s2.0-%s)", eid)

	var edges []pub.Edge
	for start := 0; ; start += SearchPageSize {
		page, total, err := c.searchPage(ctx, query, start, SearchPageSize)
		if err != nil {
			return nil, err
		}
		for _, entry := range page {
			id := pub.NormalizeEID(entry.EID)
			if id == "" {
				continue
			}
			edges = append(edges, pub.Edge{ID: id, Year: coverDateYear(entry.CoverDate)})
		}
		if len(page) == 0 || start+SearchPageSize >= total {
			break
		}
	}
	return edges, nil
}

// SearchByTitle queries the search API for works matching a title.
func (c *Client) SearchByTitle(ctx context.Context, title string, max int) ([]*pub.Publication, error) {
	if max <= 0 {
		max = DefaultSearchHits
	}
	// TITLE() narrows matching to the document title field.
	escaped := strings.ReplaceAll(title, `"`, ``)
	page, _, err := c.searchPage(ctx, fmt.Sprintf("TITLE(%q)", escaped), 0, max)
	if err != nil {
		return nil, err
	}

	pubs := make([]*pub.Publication, 0, len(page))
	for _, entry := range page {
		eid := pub.NormalizeEID(entry.EID)
		if eid == "" {
			continue
		}
		pubs = append(pubs, &pub.Publication{
			EID:   eid,
			DOI:   entry.DOI,
			Title: entry.Title,
			Year:  coverDateYear(entry.CoverDate),
		})
	}
	return pubs, nil
}

func (c *Client) searchPage(ctx context.Context, query string, start, count int) ([]searchEntry, int, error) {
	u := fmt.Sprintf("%s/content/search/scopus?query=%s&count=%d&start=%d",
		c.baseURL, url.QueryEscape(query), count, start)

	body, err := c.get(ctx, u, "application/json")
	if err != nil {
		return nil, 0, err
	}

	var doc searchResults
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	total, _ := strconv.Atoi(doc.Results.TotalResults)
	return doc.Results.Entries, total, nil
}

func (c *Client) get(ctx context.Context, u, accept string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("X-ELS-APIKey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: HTTP %d", ErrAPIError, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	return body, nil
}

// coverDateYear parses the year from a coverDate like "2018-06-01".
// Zero when absent or malformed.
func coverDateYear(coverDate string) int {
	if len(coverDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(coverDate[:4])
	if err != nil {
		return 0
	}
	return year
}
