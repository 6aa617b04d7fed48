package cache

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rbalebako/lit-review-search/internal/pub"
)

func TestSafeID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.1037/0003-066X.59.1.29", "10.1037_0003-066X.59.1.29"},
		{"85012345678", "85012345678"},
		{"conf/icse/Smith20", "conf_icse_Smith20"},
		{"a:b*c?d", "a_b_c_d"},
	}

	for _, tt := range tests {
		got := SafeID(tt.in)
		if got != tt.want {
			t.Errorf("SafeID(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if strings.ContainsAny(got, `/\:<>"|?*`) {
			t.Errorf("SafeID(%q) = %q still contains unsafe characters", tt.in, got)
		}
	}
}

func TestDirIsSingleSegment(t *testing.T) {
	c := New(t.TempDir())
	dir := c.Dir("10.1037/0003-066X.59.1.29")
	rel, err := filepath.Rel(c.Root(), dir)
	if err != nil {
		t.Fatalf("Rel() error = %v", err)
	}
	if strings.Contains(rel, string(filepath.Separator)) {
		t.Errorf("Dir() = %q, DOI slash leaked into a nested path", rel)
	}
}

func TestRoundTrip(t *testing.T) {
	c := New(t.TempDir())
	p := &pub.Publication{
		DOI:   "10.1234/x",
		EID:   "0000000042",
		Title: "A Paper",
		Year:  2019,
		References: []pub.Edge{
			{ID: "10.1/r1", Year: 2010},
			{ID: "10.1/r2"},
		},
		Citations: []pub.Edge{{ID: "10.1/c1", Year: 2021}},
		CoCiting:  map[string]int{"q": 2},
	}

	if err := c.Store(p.ID(), p); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if !c.Has(p.ID()) {
		t.Fatal("Has() = false after Store()")
	}

	got, err := c.Load(p.ID())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got.DOI != p.DOI || got.EID != p.EID || got.Title != p.Title || got.Year != p.Year {
		t.Errorf("Load() = %+v, identity/metadata mismatch", got)
	}
	if got.ReferenceCount() != p.ReferenceCount() {
		t.Errorf("ReferenceCount() = %d, want %d", got.ReferenceCount(), p.ReferenceCount())
	}
	if got.CitationCount() != p.CitationCount() {
		t.Errorf("CitationCount() = %d, want %d", got.CitationCount(), p.CitationCount())
	}
	if got.CoCitingCount("q") != 2 {
		t.Errorf("CoCitingCount(q) = %d, want 2", got.CoCitingCount("q"))
	}
}

func TestLoadMiss(t *testing.T) {
	c := New(t.TempDir())
	_, err := c.Load("10.1/never-stored")
	if !errors.Is(err, ErrMiss) {
		t.Errorf("Load() error = %v, want ErrMiss", err)
	}
}

func TestLockSerializesPerIdentifier(t *testing.T) {
	c := New(t.TempDir())

	unlock := c.Lock("10.1/x")
	acquired := make(chan struct{})
	go func() {
		u := c.Lock("10.1/x")
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second Lock() acquired while first still held")
	default:
	}

	// A different identifier must not block.
	u2 := c.Lock("10.1/y")
	u2()

	unlock()
	<-acquired
}
