package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rbalebako/lit-review-search/internal/pub"
)

// Title truncation length for list output.
const ListTitleMaxLen = 60

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PublicationResult is the JSON shape of a resolved publication.
type PublicationResult struct {
	ID             string `json:"id"`
	DOI            string `json:"doi,omitempty"`
	EID            string `json:"eid,omitempty"`
	DBLPKey        string `json:"dblpKey,omitempty"`
	Title          string `json:"title"`
	Year           int    `json:"year,omitempty"`
	ReferenceCount int    `json:"referenceCount"`
	CitationCount  int    `json:"citationCount"`
	URL            string `json:"url,omitempty"`
	Abstract       string `json:"abstract,omitempty"`
}

func publicationResult(p *pub.Publication) PublicationResult {
	return PublicationResult{
		ID:             p.ID(),
		DOI:            p.DOI,
		EID:            p.EID,
		DBLPKey:        p.DBLPKey,
		Title:          p.Title,
		Year:           p.Year,
		ReferenceCount: p.ReferenceCount(),
		CitationCount:  p.CitationCount(),
		URL:            p.URL,
		Abstract:       p.Abstract,
	}
}

func printPublicationHuman(r PublicationResult) {
	fmt.Printf("%s\n", r.Title)
	fmt.Printf("  ID: %s\n", r.ID)
	if r.DOI != "" {
		fmt.Printf("  DOI: %s\n", r.DOI)
	}
	if r.EID != "" {
		fmt.Printf("  EID: %s\n", r.EID)
	}
	if r.DBLPKey != "" {
		fmt.Printf("  DBLP: %s\n", r.DBLPKey)
	}
	if r.Year > 0 {
		fmt.Printf("  Year: %d\n", r.Year)
	}
	fmt.Printf("  References: %d\n", r.ReferenceCount)
	fmt.Printf("  Citations: %d\n", r.CitationCount)
	if r.URL != "" {
		fmt.Printf("  URL: %s\n", r.URL)
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
