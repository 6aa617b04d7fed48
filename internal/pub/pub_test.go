package pub

import (
	"errors"
	"testing"
)

func TestNewRequiresIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		doi     string
		eid     string
		dblpKey string
		title   string
		wantErr bool
	}{
		{name: "doi only", doi: "10.1234/x"},
		{name: "eid only", eid: "85012345678"},
		{name: "dblp key only", dblpKey: "conf/icse/Smith20"},
		{name: "title only", title: "Some Paper"},
		{name: "all empty", wantErr: true},
		{name: "whitespace only", doi: "  ", title: " ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.doi, tt.eid, tt.dblpKey, tt.title)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrNoIdentifier) {
				t.Errorf("New() error = %v, want ErrNoIdentifier", err)
			}
		})
	}
}

func TestNormalizeEID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"85012345678", "85012345678"}, // already wide enough
		{"1234", "0000001234"},
		{"2-s2.0-1234", "0000001234"},
		{"", ""},
		{"  1234  ", "0000001234"},
	}

	for _, tt := range tests {
		if got := NormalizeEID(tt.in); got != tt.want {
			t.Errorf("NormalizeEID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIdentifierShapes(t *testing.T) {
	tests := []struct {
		id      string
		wantDOI bool
		wantEID bool
	}{
		{"10.1145/3292500", true, false},
		{"10.1/x", true, false},
		{"0000123456", false, true},
		{"85012345678", false, true},
		{"conf/kdd/Smith19", false, false},
		{"10.nope", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		if got := IsDOI(tt.id); got != tt.wantDOI {
			t.Errorf("IsDOI(%q) = %v, want %v", tt.id, got, tt.wantDOI)
		}
		if got := IsEID(tt.id); got != tt.wantEID {
			t.Errorf("IsEID(%q) = %v, want %v", tt.id, got, tt.wantEID)
		}
	}
}

func TestID(t *testing.T) {
	tests := []struct {
		name string
		p    Publication
		want string
	}{
		{"doi wins", Publication{DOI: "10.1/x", EID: "0000000001", DBLPKey: "k"}, "10.1/x"},
		{"eid over dblp", Publication{EID: "0000000001", DBLPKey: "k"}, "0000000001"},
		{"dblp last", Publication{DBLPKey: "k"}, "k"},
		{"title only", Publication{Title: "t"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.ID(); got != tt.want {
				t.Errorf("ID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilterCitations(t *testing.T) {
	mk := func() *Publication {
		return &Publication{
			DOI: "10.1/x",
			Citations: []Edge{
				{ID: "a", Year: 2009},
				{ID: "b", Year: 2012},
				{ID: "c", Year: 2015},
				{ID: "d"}, // unknown year
				{ID: "e", Year: 2021},
			},
		}
	}

	tests := []struct {
		name     string
		minYear  int
		maxYear  int
		want     []string
	}{
		{"both bounds", 2010, 2020, []string{"b", "c"}},
		{"min only", 2012, 0, []string{"b", "c", "e"}},
		{"max only", 0, 2012, []string{"a", "b"}},
		{"unbounded drops unknown years", 0, 0, []string{"a", "b", "c", "e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mk()
			p.FilterCitations(tt.minYear, tt.maxYear)
			if p.CitationCount() != len(tt.want) {
				t.Fatalf("CitationCount() = %d, want %d", p.CitationCount(), len(tt.want))
			}
			for i, id := range tt.want {
				if p.Citations[i].ID != id {
					t.Errorf("Citations[%d].ID = %q, want %q", i, p.Citations[i].ID, id)
				}
			}
		})
	}
}

func TestCoCountsAbsentMeansZero(t *testing.T) {
	p := &Publication{DOI: "10.1/x"}

	if got := p.CoCitingCount("unknown"); got != 0 {
		t.Errorf("CoCitingCount on empty map = %d, want 0", got)
	}
	if p.CoCiting != nil {
		t.Error("CoCitingCount must not allocate the map")
	}

	p.AddCoCiting("q")
	p.AddCoCiting("q")
	p.AddCoCited("r")

	if got := p.CoCitingCount("q"); got != 2 {
		t.Errorf("CoCitingCount(q) = %d, want 2", got)
	}
	if got := p.CoCitedCount("r"); got != 1 {
		t.Errorf("CoCitedCount(r) = %d, want 1", got)
	}
	if got := p.CoCitedCount("q"); got != 0 {
		t.Errorf("CoCitedCount(q) = %d, want 0", got)
	}
	if _, ok := p.CoCited["q"]; ok {
		t.Error("reading a tally must not insert the key")
	}
}

func TestResetTallies(t *testing.T) {
	p := Publication{DOI: "10.1/x"}
	p.AddCoCiting("10.1/a")
	p.AddCoCited("10.1/b")

	p.ResetTallies()
	if p.CoCitingCount("10.1/a") != 0 || p.CoCitedCount("10.1/b") != 0 {
		t.Error("tallies survived ResetTallies")
	}
}

func TestMergeIdentifiers(t *testing.T) {
	p := &Publication{Title: "Seed Title"}
	p.MergeIdentifiers(&Publication{DOI: "10.1/x", Title: "Other Title", EID: "0000000007"})

	if p.DOI != "10.1/x" {
		t.Errorf("DOI = %q, want harvested 10.1/x", p.DOI)
	}
	if p.EID != "0000000007" {
		t.Errorf("EID = %q, want harvested 0000000007", p.EID)
	}
	if p.Title != "Seed Title" {
		t.Errorf("Title = %q, existing value must win", p.Title)
	}
}
