package dblp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const recordBody = `<?xml version="1.0"?>
<dblp>
  <inproceedings key="conf/ccs/DoeS23" mdate="2024-01-01">
    <author>Jane Doe</author>
    <author>Sam Smith</author>
    <title>Measuring Things at Scale</title>
    <year>2023</year>
    <booktitle>CCS</booktitle>
    <ee>https://doi.org/10.1145/3576915.3623157</ee>
    <url>db/conf/ccs/ccs2023.html</url>
  </inproceedings>
</dblp>`

const searchBodyXML = `<?xml version="1.0"?>
<result>
  <hits total="2">
    <hit>
      <info>
        <key>conf/ccs/DoeS23</key>
        <title>Measuring Things at Scale</title>
        <year>2023</year>
        <ee>https://doi.org/10.1145/3576915.3623157</ee>
      </info>
    </hit>
    <hit>
      <info>
        <key>journals/tse/Roe21</key>
        <title>Another Result</title>
        <year>2021</year>
        <doi>10.1109/TSE.2021.1234</doi>
      </info>
    </hit>
  </hits>
</result>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL))
}

func TestGetRecord(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rec/conf/ccs/DoeS23.xml" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(recordBody))
	})

	p, err := c.GetRecord(context.Background(), "conf/ccs/DoeS23")
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if p.DBLPKey != "conf/ccs/DoeS23" {
		t.Errorf("DBLPKey = %q", p.DBLPKey)
	}
	if p.Title != "Measuring Things at Scale" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Year != 2023 {
		t.Errorf("Year = %d, want 2023", p.Year)
	}
	if p.DOI != "10.1145/3576915.3623157" {
		t.Errorf("DOI = %q, want DOI extracted from ee", p.DOI)
	}
}

func TestGetRecordNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetRecord(context.Background(), "conf/none/X")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRecord() error = %v, want ErrNotFound", err)
	}
}

func TestSearchByTitle(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/search/publ/api") {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("format"); got != "xml" {
			t.Errorf("format = %q, want xml", got)
		}
		w.Write([]byte(searchBodyXML))
	})

	pubs, err := c.SearchByTitle(context.Background(), "measuring things", 10)
	if err != nil {
		t.Fatalf("SearchByTitle() error = %v", err)
	}
	if len(pubs) != 2 {
		t.Fatalf("SearchByTitle() returned %d results, want 2", len(pubs))
	}
	if pubs[0].DBLPKey != "conf/ccs/DoeS23" || pubs[0].DOI != "10.1145/3576915.3623157" {
		t.Errorf("pubs[0] = %+v, ee DOI not extracted", pubs[0])
	}
	if pubs[1].DOI != "10.1109/TSE.2021.1234" {
		t.Errorf("pubs[1].DOI = %q, explicit doi element ignored", pubs[1].DOI)
	}
}

func TestExtractDOI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://doi.org/10.1145/3576915.3623157", "10.1145/3576915.3623157"},
		{"http://dx.doi.org/10.1000/x", "10.1000/x"},
		{"https://arxiv.org/abs/2106.15928", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := extractDOI(tt.in); got != tt.want {
			t.Errorf("extractDOI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
