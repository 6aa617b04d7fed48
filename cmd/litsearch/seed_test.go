package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rbalebako/lit-review-search/internal/resolve"
	"github.com/rbalebako/lit-review-search/internal/seeds"
)

func TestAppendSeedsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.csv")

	if err := appendSeeds(path, []resolve.Seed{
		{DOI: "10.1/x", Title: "First"},
	}); err != nil {
		t.Fatalf("appendSeeds: %v", err)
	}
	// Second append must not repeat the header.
	if err := appendSeeds(path, []resolve.Seed{
		{Title: "Second, with comma"},
	}); err != nil {
		t.Fatalf("second appendSeeds: %v", err)
	}

	got, err := seeds.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("seeds = %d (%+v), want 2", len(got), got)
	}
	if got[0].DOI != "10.1/x" || got[0].Title != "First" {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Title != "Second, with comma" {
		t.Errorf("second = %+v", got[1])
	}
}

func TestCollectPDFs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "b.PDF", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := collectPDFs([]string{dir})
	if err != nil {
		t.Fatalf("collectPDFs: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("paths = %v, want the two PDFs", got)
	}

	direct, err := collectPDFs([]string{filepath.Join(dir, "notes.txt")})
	if err != nil {
		t.Fatal(err)
	}
	if len(direct) != 1 {
		t.Errorf("explicit file args should pass through, got %v", direct)
	}
}

func TestDescribeSeed(t *testing.T) {
	tests := []struct {
		seed resolve.Seed
		want string
	}{
		{resolve.Seed{Title: "Short Title", DOI: "10.1/x"}, `"Short Title"`},
		{resolve.Seed{DOI: "10.1/x", EID: "12"}, "10.1/x"},
		{resolve.Seed{DBLPKey: "conf/x/Y20"}, "conf/x/Y20"},
		{resolve.Seed{EID: "12"}, "12"},
	}
	for _, tt := range tests {
		if got := describeSeed(tt.seed); got != tt.want {
			t.Errorf("describeSeed(%+v) = %q, want %q", tt.seed, got, tt.want)
		}
	}
}
