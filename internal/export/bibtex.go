package export

import (
	"fmt"
	"strings"

	"github.com/rbalebako/lit-review-search/internal/pub"
)

// ToBibTeX renders a publication as a BibTeX entry keyed by its
// canonical identifier. Records carry title, year, and identifiers but
// no author list, so entries use the misc type.
func ToBibTeX(p *pub.Publication) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@misc{%s,\n", bibKey(p)))
	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(p.Title)))
	if p.Year > 0 {
		b.WriteString(fmt.Sprintf("  year = {%d},\n", p.Year))
	}
	if p.DOI != "" {
		b.WriteString(fmt.Sprintf("  doi = {%s},\n", p.DOI))
	}
	if p.URL != "" {
		b.WriteString(fmt.Sprintf("  url = {%s},\n", p.URL))
	}
	if p.Abstract != "" {
		b.WriteString(fmt.Sprintf("  abstract = {%s},\n", escapeLatex(p.Abstract)))
	}
	b.WriteString("}\n")

	return b.String()
}

// ToBibTeXList renders multiple publications separated by blank lines.
func ToBibTeXList(pubs []*pub.Publication) string {
	var entries []string
	for _, p := range pubs {
		entries = append(entries, ToBibTeX(p))
	}
	return strings.Join(entries, "\n")
}

// bibKey makes the canonical identifier safe as a BibTeX citation key.
func bibKey(p *pub.Publication) string {
	key := p.ID()
	replacer := strings.NewReplacer("/", "_", ",", "_", "{", "_", "}", "_", " ", "_")
	return replacer.Replace(key)
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	// Order matters: & must be first (before other escapes that might produce &)
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
