// Package seeds reads the starting publications of a network run from
// a CSV file. The file is header-driven: doi, eid, dblp, and title
// columns are recognized case-insensitively, in any order, and any of
// them may be absent.
package seeds

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rbalebako/lit-review-search/internal/resolve"
)

// ErrNoColumns is returned when the header names none of the
// recognized identifier columns.
var ErrNoColumns = errors.New("seed CSV has no recognized columns")

// columns maps a recognized header name to the seed field it fills.
var columns = map[string]func(*resolve.Seed, string){
	"doi":   func(s *resolve.Seed, v string) { s.DOI = v },
	"eid":   func(s *resolve.Seed, v string) { s.EID = v },
	"dblp":  func(s *resolve.Seed, v string) { s.DBLPKey = v },
	"title": func(s *resolve.Seed, v string) { s.Title = v },
}

// ReadFile reads seeds from the CSV at path.
func ReadFile(path string) ([]resolve.Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening seed file: %w", err)
	}
	defer f.Close()

	out, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return out, nil
}

// Read parses seed rows from r. Rows that carry no identifier at all
// are skipped rather than treated as errors; exported sheets often
// have trailing blank lines.
func Read(r io.Reader) ([]resolve.Seed, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	// Hand-edited sheets come with ragged rows; take what is there
	// instead of erroring on the first short or long one.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	setters := make(map[int]func(*resolve.Seed, string))
	for i, name := range header {
		if set, ok := columns[strings.ToLower(strings.TrimSpace(name))]; ok {
			setters[i] = set
		}
	}
	if len(setters) == 0 {
		return nil, ErrNoColumns
	}

	var out []resolve.Seed
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		var s resolve.Seed
		for i, set := range setters {
			if i < len(record) {
				set(&s, strings.TrimSpace(record[i]))
			}
		}
		if s.Empty() {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}
