package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rbalebako/lit-review-search/internal/pub"
)

func TestAppendCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publications.csv")

	first := []*pub.Publication{
		{
			DOI:        "10.1/x",
			Title:      "A Survey, with a Comma",
			Year:       2019,
			URL:        "https://doi.org/10.1/x",
			Abstract:   "Overview text.",
			References: []pub.Edge{{ID: "10.1/a"}, {ID: "10.1/b"}},
			Citations:  []pub.Edge{{ID: "10.1/c"}},
		},
	}
	if err := AppendCSV(path, first); err != nil {
		t.Fatalf("AppendCSV: %v", err)
	}

	// Second run appends without repeating the header.
	second := []*pub.Publication{{EID: "0000001234", Title: "Padded"}}
	if err := AppendCSV(path, second); err != nil {
		t.Fatalf("second AppendCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading back CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header plus 2", len(rows))
	}
	if rows[0][0] != "title" || rows[0][4] != "year" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "A Survey, with a Comma" {
		t.Errorf("title cell = %q, comma not preserved", rows[1][0])
	}
	if rows[1][5] != "1" || rows[1][6] != "2" {
		t.Errorf("counts = %q/%q, want 1/2", rows[1][5], rows[1][6])
	}
	if rows[2][4] != "" {
		t.Errorf("unknown year = %q, want empty cell", rows[2][4])
	}
}

func TestWriteRelatedIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "related.txt")

	ids := map[string]struct{}{
		"10.1/b":         {},
		"10.1/a":         {},
		"conf/x/Smith19": {},
	}
	if err := WriteRelatedIDs(path, ids); err != nil {
		t.Fatalf("WriteRelatedIDs: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "10.1/a\n10.1/b\nconf/x/Smith19\n"
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}

	// A rerun overwrites rather than appends.
	if err := WriteRelatedIDs(path, map[string]struct{}{"10.1/z": {}}); err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "10.1/z\n" {
		t.Errorf("file after rerun = %q", data)
	}
}

func TestToBibTeX(t *testing.T) {
	p := &pub.Publication{
		DOI:   "10.1/x_y",
		Title: "Costs & Benefits",
		Year:  2020,
		URL:   "https://doi.org/10.1/x_y",
	}
	got := ToBibTeX(p)

	for _, want := range []string{
		"@misc{10.1_x_y,",
		`title = {Costs \& Benefits}`,
		"year = {2020}",
		"doi = {10.1/x_y}",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("entry missing %q:\n%s", want, got)
		}
	}
}
