package scopus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

const abstractBody = `<?xml version="1.0"?>
<abstracts-retrieval-response xmlns="http://www.elsevier.com/xml/svapi/abstract/dtd"
    xmlns:dc="http://purl.org/dc/elements/1.1/"
    xmlns:prism="http://prismstandard.org/namespaces/basic/2.0/">
  <coredata>
    <dc:title>Privacy Decision Making</dc:title>
    <prism:coverDate>2018-06-01</prism:coverDate>
    <prism:doi>10.1000/priv.2018</prism:doi>
    <dc:description>
      <abstract xml:lang="eng">
        <para>First paragraph.</para>
        <para>Second paragraph.</para>
      </abstract>
    </dc:description>
  </coredata>
  <item>
    <bibrecord>
      <tail>
        <bibliography refcount="3">
          <reference>
            <ref-info>
              <ref-title><ref-titletext>Ref One</ref-titletext></ref-title>
              <refd-itemidlist><itemid idtype="SGR">84900000001</itemid></refd-itemidlist>
            </ref-info>
          </reference>
          <reference>
            <ref-info>
              <refd-itemidlist><itemid idtype="SGR">84900000002</itemid></refd-itemidlist>
            </ref-info>
          </reference>
          <reference>
            <ref-info>
              <refd-itemidlist><itemid idtype="SGR">84900000001</itemid></refd-itemidlist>
            </ref-info>
          </reference>
        </bibliography>
      </tail>
    </bibrecord>
  </item>
</abstracts-retrieval-response>`

func citationsPage(entries []string, total int) string {
	var sb strings.Builder
	sb.WriteString(`{"search-results":{"opensearch:totalResults":"`)
	sb.WriteString(strconv.Itoa(total))
	sb.WriteString(`","entry":[`)
	for i, e := range entries {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(e)
	}
	sb.WriteString(`]}}`)
	return sb.String()
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL), WithAPIKey("test-key"))
}

func TestGetAbstract(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-ELS-APIKey"); got != "test-key" {
			t.Errorf("X-ELS-APIKey = %q", got)
		}
		w.Write([]byte(abstractBody))
	})

	p, refs, err := c.GetAbstract(context.Background(), "85012345678")
	if err != nil {
		t.Fatalf("GetAbstract() error = %v", err)
	}
	if p.Title != "Privacy Decision Making" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Year != 2018 {
		t.Errorf("Year = %d, want 2018", p.Year)
	}
	if p.DOI != "10.1000/priv.2018" {
		t.Errorf("DOI = %q", p.DOI)
	}
	if p.Abstract != "First paragraph. Second paragraph." {
		t.Errorf("Abstract = %q", p.Abstract)
	}
	// Duplicate SGR ids collapse to one edge.
	if len(refs) != 2 {
		t.Fatalf("references = %d, want 2", len(refs))
	}
	if refs[0].ID != "84900000001" || refs[1].ID != "84900000002" {
		t.Errorf("reference edges = %v", refs)
	}
}

func TestGetAbstractMissingKey(t *testing.T) {
	c := NewClient(WithBaseURL("http://unused.invalid"))
	_, _, err := c.GetAbstract(context.Background(), "85012345678")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("GetAbstract() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestGetCitationsPaging(t *testing.T) {
	// 3 citing works over two pages of size 200: the test server keys
	// pages off the start parameter.
	pageEntries := func(n, offset int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf(`{"eid":"2-s2.0-8500000%04d","dc:title":"Citer","prism:coverDate":"2021-03-01"}`, offset+i)
		}
		return out
	}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "refeid(2-s2.0-85012345678)" {
			t.Errorf("query = %q", got)
		}
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		switch start {
		case 0:
			w.Write([]byte(citationsPage(pageEntries(200, 0), 203)))
		case 200:
			w.Write([]byte(citationsPage(pageEntries(3, 200), 203)))
		default:
			t.Errorf("unexpected start = %d", start)
			w.Write([]byte(citationsPage(nil, 203)))
		}
	})

	edges, err := c.GetCitations(context.Background(), "85012345678")
	if err != nil {
		t.Fatalf("GetCitations() error = %v", err)
	}
	if len(edges) != 203 {
		t.Fatalf("GetCitations() returned %d edges, want 203", len(edges))
	}
	if edges[0].Year != 2021 {
		t.Errorf("edges[0].Year = %d, want 2021", edges[0].Year)
	}
}

func TestSearchByTitle(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		entry := `{"eid":"2-s2.0-85099999999","dc:title":"Found Paper","prism:coverDate":"2019-01-01","prism:doi":"10.1/found"}`
		w.Write([]byte(citationsPage([]string{entry}, 1)))
	})

	pubs, err := c.SearchByTitle(context.Background(), "found paper", 10)
	if err != nil {
		t.Fatalf("SearchByTitle() error = %v", err)
	}
	if len(pubs) != 1 {
		t.Fatalf("SearchByTitle() returned %d results, want 1", len(pubs))
	}
	if pubs[0].EID != "85099999999" || pubs[0].DOI != "10.1/found" || pubs[0].Year != 2019 {
		t.Errorf("pubs[0] = %+v", pubs[0])
	}
}

func TestAuthError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, _, err := c.GetAbstract(context.Background(), "85012345678")
	if !errors.Is(err, ErrAuthError) {
		t.Errorf("GetAbstract() error = %v, want ErrAuthError", err)
	}
}
