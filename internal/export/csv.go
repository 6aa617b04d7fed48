// Package export writes network results to the files a literature
// review consumes: a cumulative CSV of resolved publications, plain
// identifier lists for the related sets, and BibTeX entries.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rbalebako/lit-review-search/internal/pub"
)

// csvHeader is the column order of the publications CSV.
var csvHeader = []string{
	"title", "doi", "eid", "dblp", "year",
	"citation_count", "reference_count", "url", "abstract",
}

// AppendCSV appends publication rows to the CSV at path, writing the
// header only when the file does not exist yet. Appending lets
// successive runs accumulate one review-wide sheet.
func AppendCSV(path string, pubs []*pub.Publication) error {
	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for _, p := range pubs {
		row := []string{
			p.Title, p.DOI, p.EID, p.DBLPKey, yearField(p.Year),
			strconv.Itoa(p.CitationCount()), strconv.Itoa(p.ReferenceCount()),
			p.URL, p.Abstract,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing row for %s: %w", p.ID(), err)
		}
	}
	w.Flush()
	return w.Error()
}

func yearField(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}

// WriteRelatedIDs writes a related-identifier set to path, sorted, one
// identifier per line. The file is overwritten: the set is recomputed
// from the tallies on every run.
func WriteRelatedIDs(path string, ids map[string]struct{}) error {
	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	var b strings.Builder
	for _, id := range sorted {
		b.WriteString(id)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
