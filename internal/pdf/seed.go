// Package pdf extracts seed identifiers from paper PDFs, so a
// directory of downloaded papers can feed the network without hand
// typing DOIs.
package pdf

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/rbalebako/lit-review-search/internal/resolve"
)

// DOI pattern: 10.XXXX/... where XXXX is 4+ digits
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// frontMatterPages is how many leading pages are scanned. DOIs sit on
// the first page or in a footer shortly after.
const frontMatterPages = 3

// ExtractSeed reads the front matter of the PDF at path and returns a
// seed with whatever it found: a DOI, a title guess, or both. A PDF
// with neither yields an empty seed, not an error.
func ExtractSeed(path string) (resolve.Seed, error) {
	text, err := frontMatter(path)
	if err != nil {
		return resolve.Seed{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return resolve.Seed{
		DOI:   FindDOI(text),
		Title: guessTitle(text),
	}, nil
}

// frontMatter returns the plain text of the leading pages.
func frontMatter(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	pages := frontMatterPages
	if r.NumPage() < pages {
		pages = r.NumPage()
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Malformed pages are common; keep whatever extracted.
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// FindDOI returns the first plausible DOI in text, empty if none.
func FindDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if plausibleDOI(match) {
			return match
		}
	}
	return ""
}

func plausibleDOI(doi string) bool {
	if len(doi) < 10 {
		return false
	}
	slash := strings.Index(doi, "/")
	return slash > 0 && slash < len(doi)-1
}

// guessTitle picks the first substantial line of the front matter that
// does not look like a running header. Best effort only; the title
// resolution strategies tolerate a bad guess.
func guessTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 20 && !headerLine(line) {
			return line
		}
	}
	return ""
}

func headerLine(line string) bool {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "journal"):
		return true
	case strings.Contains(lower, "volume") && strings.Contains(lower, "issue"):
		return true
	case strings.Contains(lower, "copyright"):
		return true
	case strings.Contains(lower, "article") && strings.Contains(lower, "published"):
		return true
	}
	return false
}
