// Package citenet computes co-citation relationship metrics over a
// publication's reference and citation edges.
package citenet

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/rbalebako/lit-review-search/internal/pub"
)

// ErrSharedRange indicates a shared fraction outside (0, 1].
var ErrSharedRange = errors.New("shared fraction must be in (0, 1]")

// EdgeSource supplies the reference and citation lists of neighboring
// publications, typically backed by the resolution engine's cache.
type EdgeSource interface {
	ReferencesOf(ctx context.Context, id string) ([]pub.Edge, error)
	CitationsOf(ctx context.Context, id string) ([]pub.Edge, error)
}

func checkShared(shared float64) error {
	if shared <= 0 || shared > 1 {
		return fmt.Errorf("%w: %g", ErrSharedRange, shared)
	}
	return nil
}

// minCount is the tally threshold: ceil(count * shared).
// When count is zero the threshold degenerates to zero and every
// candidate qualifies; callers that want to avoid that should check the
// edge counts before thresholding.
func minCount(count int, shared float64) int {
	return int(math.Ceil(float64(count) * shared))
}

// StrongCoCiting returns the identifiers whose co-citing tally is at
// least ceil(ReferenceCount * shared): publications sharing at least
// that many of p's references.
func StrongCoCiting(p *pub.Publication, shared float64) ([]string, error) {
	if err := checkShared(shared); err != nil {
		return nil, err
	}
	return strongKeys(p.CoCiting, minCount(p.ReferenceCount(), shared)), nil
}

// StrongCoCited returns the identifiers whose co-cited tally is at
// least ceil(CitationCount * shared): publications sharing at least
// that many of p's citers.
func StrongCoCited(p *pub.Publication, shared float64) ([]string, error) {
	if err := checkShared(shared); err != nil {
		return nil, err
	}
	return strongKeys(p.CoCited, minCount(p.CitationCount(), shared)), nil
}

func strongKeys(tallies map[string]int, min int) []string {
	ids := make([]string, 0, len(tallies))
	for id, count := range tallies {
		if count >= min {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// StrongRelatedIDs returns the union of p's direct reference targets,
// direct citation sources, strong co-citing set, and strong co-cited
// set. The result is always a superset of the direct edge identifiers.
func StrongRelatedIDs(p *pub.Publication, shared float64) (map[string]struct{}, error) {
	if err := checkShared(shared); err != nil {
		return nil, err
	}

	related := make(map[string]struct{}, p.ReferenceCount()+p.CitationCount())
	for _, r := range p.References {
		related[r.ID] = struct{}{}
	}
	for _, c := range p.Citations {
		related[c.ID] = struct{}{}
	}

	coCiting, err := StrongCoCiting(p, shared)
	if err != nil {
		return nil, err
	}
	coCited, err := StrongCoCited(p, shared)
	if err != nil {
		return nil, err
	}
	for _, id := range coCiting {
		related[id] = struct{}{}
	}
	for _, id := range coCited {
		related[id] = struct{}{}
	}

	return related, nil
}

// AccumulateCoCiting populates p.CoCiting from the citation lists of
// p's references: every work citing one of p's references, other than p
// itself, has its tally incremented once per shared reference.
//
// This fans out one fetch per reference and is the most expensive
// operation in the pipeline; src must be cache-backed.
func AccumulateCoCiting(ctx context.Context, p *pub.Publication, src EdgeSource) error {
	self := p.ID()
	for _, ref := range p.References {
		citers, err := src.CitationsOf(ctx, ref.ID)
		if err != nil {
			return fmt.Errorf("citations of reference %s: %w", ref.ID, err)
		}
		for _, citer := range citers {
			if citer.ID == self {
				continue
			}
			p.AddCoCiting(citer.ID)
		}
	}
	return nil
}

// AccumulateCoCited populates p.CoCited from the reference lists of
// p's citers: every work cited by one of p's citers, other than p
// itself, has its tally incremented once per shared citer.
func AccumulateCoCited(ctx context.Context, p *pub.Publication, src EdgeSource) error {
	self := p.ID()
	for _, cit := range p.Citations {
		refs, err := src.ReferencesOf(ctx, cit.ID)
		if err != nil {
			return fmt.Errorf("references of citer %s: %w", cit.ID, err)
		}
		for _, ref := range refs {
			if ref.ID == self {
				continue
			}
			p.AddCoCited(ref.ID)
		}
	}
	return nil
}
