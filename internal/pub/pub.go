// Package pub defines the core domain types for publications and their
// citation edges.
package pub

import (
	"errors"
	"strings"
)

// ErrNoIdentifier indicates a publication carries no usable identifier.
var ErrNoIdentifier = errors.New("publication has no identifier")

// EIDWidth is the canonical width of a Scopus EID. Shorter EIDs are
// left-padded with zeros.
const EIDWidth = 10

// Edge is one citation edge: the identifier of the publication on the
// other end (DOI or EID) plus the year when the source exposes it.
// Two edges are equal when their IDs are equal.
type Edge struct {
	ID   string `json:"id"`
	Year int    `json:"year,omitempty"` // 0 = unknown
}

// Publication is the canonical in-memory record for one publication:
// identity, metadata, and citation edges.
//
// Metadata fields are always present and value-checked, never
// existence-checked: an unknown title is "", an unknown year is 0.
type Publication struct {
	// Identity. At least one of DOI/EID/DBLPKey must be non-empty, or
	// Title when the record is only known by free-text search.
	DOI     string `json:"doi,omitempty"`
	EID     string `json:"eid,omitempty"`
	DBLPKey string `json:"dblp_key,omitempty"`

	// Metadata.
	Title    string `json:"title"`
	Year     int    `json:"year,omitempty"`
	Abstract string `json:"abstract,omitempty"`
	URL      string `json:"url,omitempty"`

	// Edges. References point outward (works this publication cites);
	// Citations point inward (works citing this publication).
	References []Edge `json:"references,omitempty"`
	Citations  []Edge `json:"citations,omitempty"`

	// Co-relationship tallies keyed by the related publication's
	// identifier. An absent key means zero; read through the accessor
	// methods, which never insert keys.
	CoCiting map[string]int `json:"co_citing,omitempty"`
	CoCited  map[string]int `json:"co_cited,omitempty"`
}

// IsDOI reports whether id looks like a DOI (directory indicator 10
// followed by a registrant/suffix pair).
func IsDOI(id string) bool {
	return strings.HasPrefix(id, "10.") && strings.Contains(id, "/")
}

// IsEID reports whether id looks like a Scopus EID: digits only.
func IsEID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NormalizeEID left-pads an EID with zeros to the canonical width and
// strips the Scopus "2-s2.0-" prefix if present.
func NormalizeEID(eid string) string {
	eid = strings.TrimPrefix(strings.TrimSpace(eid), "2-s2.0-")
	if eid == "" {
		return ""
	}
	for len(eid) < EIDWidth {
		eid = "0" + eid
	}
	return eid
}

// New creates a publication from whichever identifiers are known.
// Returns ErrNoIdentifier when every identifying field is empty.
func New(doi, eid, dblpKey, title string) (*Publication, error) {
	p := &Publication{
		DOI:     strings.TrimSpace(doi),
		EID:     NormalizeEID(eid),
		DBLPKey: strings.TrimSpace(dblpKey),
		Title:   strings.TrimSpace(title),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the identity invariant: at least one identifying field
// (DOI, EID, DBLP key, or title) must be non-empty.
func (p *Publication) Validate() error {
	if p.DOI == "" && p.EID == "" && p.DBLPKey == "" && p.Title == "" {
		return ErrNoIdentifier
	}
	return nil
}

// ID returns the canonical identifier: DOI when known, then EID, then
// DBLP key. Empty when the record is only known by title.
func (p *Publication) ID() string {
	switch {
	case p.DOI != "":
		return p.DOI
	case p.EID != "":
		return p.EID
	default:
		return p.DBLPKey
	}
}

// ReferenceCount is the number of outgoing edges.
func (p *Publication) ReferenceCount() int { return len(p.References) }

// CitationCount is the number of incoming edges.
func (p *Publication) CitationCount() int { return len(p.Citations) }

// CoCitingCount returns the co-citing tally for id, zero when absent.
// Never inserts a key.
func (p *Publication) CoCitingCount(id string) int { return p.CoCiting[id] }

// CoCitedCount returns the co-cited tally for id, zero when absent.
// Never inserts a key.
func (p *Publication) CoCitedCount(id string) int { return p.CoCited[id] }

// AddCoCiting increments the co-citing tally for id.
func (p *Publication) AddCoCiting(id string) {
	if p.CoCiting == nil {
		p.CoCiting = make(map[string]int)
	}
	p.CoCiting[id]++
}

// AddCoCited increments the co-cited tally for id.
func (p *Publication) AddCoCited(id string) {
	if p.CoCited == nil {
		p.CoCited = make(map[string]int)
	}
	p.CoCited[id]++
}

// ResetTallies clears both co-citation tally maps. Accumulation over a
// record loaded from a previous run must start from zero or every
// shared edge would count twice.
func (p *Publication) ResetTallies() {
	p.CoCiting = nil
	p.CoCited = nil
}

// FilterCitations destructively replaces the citation edge set with the
// edges whose year falls inside [minYear, maxYear]. A bound of 0 means
// unbounded on that side. Edges with an unknown year are dropped.
// The filter is not reversible; reload from cache to recover the full set.
func (p *Publication) FilterCitations(minYear, maxYear int) {
	filtered := make([]Edge, 0, len(p.Citations))
	for _, c := range p.Citations {
		if c.Year == 0 {
			continue
		}
		if minYear != 0 && c.Year < minYear {
			continue
		}
		if maxYear != 0 && c.Year > maxYear {
			continue
		}
		filtered = append(filtered, c)
	}
	p.Citations = filtered
}

// MergeIdentifiers copies identifiers from other into p where p is
// missing them. Used by the resolution engine to harvest identifiers
// from records that fail validation.
func (p *Publication) MergeIdentifiers(other *Publication) {
	if other == nil {
		return
	}
	if p.DOI == "" {
		p.DOI = other.DOI
	}
	if p.EID == "" {
		p.EID = other.EID
	}
	if p.DBLPKey == "" {
		p.DBLPKey = other.DBLPKey
	}
	if p.Title == "" {
		p.Title = other.Title
	}
}
