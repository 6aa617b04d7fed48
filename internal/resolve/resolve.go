// Package resolve turns loose publication identifiers into cached,
// fully populated publication records by trying a fixed sequence of
// bibliographic sources.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/rbalebako/lit-review-search/internal/cache"
	"github.com/rbalebako/lit-review-search/internal/pub"
)

// ErrUnresolved is returned when every applicable strategy has been
// tried and none produced a usable record.
var ErrUnresolved = errors.New("publication unresolved")

// DefaultSearchLimit bounds how many title-search candidates a
// strategy inspects before giving up on that source.
const DefaultSearchLimit = 5

// Source is a bibliographic database the engine can query. Resolve
// takes the source's native identifier (DOI for CrossRef, EID for
// Scopus, record key for DBLP).
type Source interface {
	Name() string
	Resolve(ctx context.Context, id string) (*pub.Publication, error)
	References(ctx context.Context, p *pub.Publication) ([]pub.Edge, error)
	Citations(ctx context.Context, p *pub.Publication) ([]pub.Edge, error)
	SearchByTitle(ctx context.Context, title string, max int) ([]*pub.Publication, error)
}

// AbstractSource supplies abstract text by title lookup. Used as a
// best-effort fallback when the resolving source returned none.
type AbstractSource interface {
	AbstractByTitle(ctx context.Context, title string) (string, error)
}

// Seed is the set of identifiers a caller starts from, typically one
// row of a seed CSV. Any subset may be present.
type Seed struct {
	DOI     string
	EID     string
	DBLPKey string
	Title   string
}

// Empty reports whether the seed carries nothing to resolve with.
func (s Seed) Empty() bool {
	return s.DOI == "" && s.EID == "" && s.DBLPKey == "" && s.Title == ""
}

// Attempt records one strategy that ran without yielding a usable
// record, for inclusion in UnresolvedError.
type Attempt struct {
	Source string
	Kind   string
	Value  string
	Reason string
}

// UnresolvedError reports which strategies were tried for a seed.
type UnresolvedError struct {
	Seed     Seed
	Attempts []Attempt
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("publication unresolved after %d attempts", len(e.Attempts))
}

func (e *UnresolvedError) Unwrap() error { return ErrUnresolved }

// Engine resolves seeds against DBLP, Scopus, and CrossRef in a fixed
// priority order, caching every usable record it produces. It also
// serves neighbor edge lookups for relationship tallies.
type Engine struct {
	DBLP     Source
	CrossRef Source
	Scopus   Source

	// Abstracts, when set, backfills missing abstract text after a
	// record resolves. Failures are logged and ignored.
	Abstracts AbstractSource

	Cache *cache.Cache

	// AllowZeroEdges accepts records with a title but no reference or
	// citation edges. Off by default: such records are usually the
	// wrong match, and they contribute nothing to the network.
	AllowZeroEdges bool

	// SearchLimit caps title-search candidates per source.
	// DefaultSearchLimit when zero.
	SearchLimit int

	// Logf receives progress and strategy-failure lines. log.Printf
	// when nil.
	Logf func(format string, args ...any)
}

// NewEngine creates an engine over the three sources and a cache.
func NewEngine(c *cache.Cache, dblp, crossref, scopus Source) *Engine {
	return &Engine{DBLP: dblp, CrossRef: crossref, Scopus: scopus, Cache: c}
}

func (e *Engine) logf(format string, args ...any) {
	if e.Logf != nil {
		e.Logf(format, args...)
		return
	}
	log.Printf(format, args...)
}

func (e *Engine) searchLimit() int {
	if e.SearchLimit > 0 {
		return e.SearchLimit
	}
	return DefaultSearchLimit
}

// usable is the acceptance predicate: a record must have a title, and
// unless AllowZeroEdges is set, at least one edge in either direction.
func (e *Engine) usable(p *pub.Publication) bool {
	if p == nil || p.Title == "" {
		return false
	}
	if e.AllowZeroEdges {
		return true
	}
	return p.ReferenceCount() > 0 || p.CitationCount() > 0
}

type strategy struct {
	kind   string // "title", "doi", "dblp", "eid"
	source Source
	// native extracts the identifier the source's Resolve understands
	// from a search candidate. Non-nil only for title-search strategies.
	native func(*pub.Publication) string
}

func (e *Engine) strategies() []strategy {
	return []strategy{
		{kind: "title", source: e.DBLP, native: func(p *pub.Publication) string { return p.DBLPKey }},
		{kind: "title", source: e.Scopus, native: func(p *pub.Publication) string { return pub.NormalizeEID(p.EID) }},
		{kind: "doi", source: e.CrossRef},
		{kind: "dblp", source: e.DBLP},
		{kind: "eid", source: e.Scopus},
	}
}

func seedValue(s Seed, kind string) string {
	switch kind {
	case "title":
		return s.Title
	case "doi":
		return s.DOI
	case "dblp":
		return s.DBLPKey
	case "eid":
		return s.EID
	}
	return ""
}

// ResolvePublication resolves a seed into a usable, cached record.
// Strategies run in priority order and the first usable record wins.
// A strategy that resolves a record without usable edges still donates
// that record's identifiers to the strategies after it. Exhaustion
// returns an *UnresolvedError wrapping ErrUnresolved.
func (e *Engine) ResolvePublication(ctx context.Context, seed Seed) (*pub.Publication, error) {
	if seed.Empty() {
		return nil, fmt.Errorf("resolve: %w", pub.ErrNoIdentifier)
	}
	seed.EID = pub.NormalizeEID(seed.EID)

	var attempts []Attempt
	for _, st := range e.strategies() {
		if st.source == nil {
			continue
		}
		value := seedValue(seed, st.kind)
		if value == "" {
			continue
		}

		rec, key, err := e.runStrategy(ctx, st, value)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.logf("resolve: %s lookup by %s %q failed: %v", st.source.Name(), st.kind, value, err)
			attempts = append(attempts, Attempt{Source: st.source.Name(), Kind: st.kind, Value: value, Reason: err.Error()})
			continue
		}
		if rec == nil {
			attempts = append(attempts, Attempt{Source: st.source.Name(), Kind: st.kind, Value: value, Reason: "no match"})
			continue
		}

		if e.usable(rec) {
			e.backfillAbstract(ctx, key, rec)
			return rec, nil
		}

		// The record matched but has no edges to contribute. Keep any
		// identifiers it knows so later strategies get more to work with.
		e.logf("resolve: %s match for %s %q has no edges, keeping identifiers", st.source.Name(), st.kind, value)
		seed = harvest(seed, rec)
		attempts = append(attempts, Attempt{Source: st.source.Name(), Kind: st.kind, Value: value, Reason: "no usable edges"})
	}

	return nil, &UnresolvedError{Seed: seed, Attempts: attempts}
}

// harvest copies identifiers the resolved record knows into the seed,
// never overwriting values the seed already had.
func harvest(s Seed, rec *pub.Publication) Seed {
	if s.DOI == "" {
		s.DOI = rec.DOI
	}
	if s.EID == "" {
		s.EID = pub.NormalizeEID(rec.EID)
	}
	if s.DBLPKey == "" {
		s.DBLPKey = rec.DBLPKey
	}
	if s.Title == "" {
		s.Title = rec.Title
	}
	return s
}

// runStrategy produces a fully populated record for one strategy plus
// the cache key it lives under, or a nil record when the source has no
// match for the value.
func (e *Engine) runStrategy(ctx context.Context, st strategy, value string) (*pub.Publication, string, error) {
	id := value
	if st.native != nil {
		cand, err := e.pickCandidate(ctx, st, value)
		if err != nil {
			return nil, "", err
		}
		if cand == "" {
			return nil, "", nil
		}
		id = cand
	}
	p, err := e.resolveID(ctx, st.source, id)
	return p, id, err
}

// pickCandidate searches a source by title and returns the first
// candidate's identifier in the source's own scheme. A candidate that
// only carries foreign identifiers (a DBLP hit exposing just a DOI from
// its ee field, say) cannot be fed back into the source's record API,
// so it is skipped.
func (e *Engine) pickCandidate(ctx context.Context, st strategy, title string) (string, error) {
	cands, err := st.source.SearchByTitle(ctx, title, e.searchLimit())
	if err != nil {
		return "", err
	}
	for _, c := range cands {
		if id := st.native(c); id != "" {
			return id, nil
		}
	}
	return "", nil
}

// resolveID returns the record for a source-native identifier,
// consulting the cache first and populating edges plus the cache on a
// network fetch. Per-identifier locking keeps concurrent callers from
// fetching the same record twice.
func (e *Engine) resolveID(ctx context.Context, src Source, id string) (*pub.Publication, error) {
	unlock := e.Cache.Lock(id)
	defer unlock()

	if p, err := e.Cache.Load(id); err == nil {
		return p, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		return nil, err
	}

	p, err := src.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	e.populateEdges(ctx, src, p)
	if err := e.Cache.Store(id, p); err != nil {
		return nil, fmt.Errorf("caching %s: %w", id, err)
	}
	return p, nil
}

// populateEdges fills in whichever edge directions the resolve step
// did not already attach. Edge fetch failures degrade the record
// rather than fail the resolution.
func (e *Engine) populateEdges(ctx context.Context, src Source, p *pub.Publication) {
	if len(p.References) == 0 {
		refs, err := src.References(ctx, p)
		if err != nil {
			e.logf("resolve: %s references for %s unavailable: %v", src.Name(), p.ID(), err)
		} else {
			p.References = refs
		}
	}
	if len(p.Citations) == 0 {
		cits, err := src.Citations(ctx, p)
		if err != nil {
			e.logf("resolve: %s citations for %s unavailable: %v", src.Name(), p.ID(), err)
		} else {
			p.Citations = cits
		}
	}
}

// backfillAbstract fills a missing abstract by title lookup and
// refreshes the cached record when it succeeds.
func (e *Engine) backfillAbstract(ctx context.Context, key string, p *pub.Publication) {
	if e.Abstracts == nil || p.Abstract != "" || p.Title == "" {
		return
	}
	text, err := e.Abstracts.AbstractByTitle(ctx, p.Title)
	if err != nil {
		e.logf("resolve: abstract lookup for %q failed: %v", p.Title, err)
		return
	}
	if text == "" {
		return
	}
	p.Abstract = text
	if err := e.Cache.Store(key, p); err != nil {
		e.logf("resolve: refreshing cached record %s: %v", key, err)
	}
}
