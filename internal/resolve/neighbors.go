package resolve

import (
	"context"
	"errors"

	"github.com/rbalebako/lit-review-search/internal/cache"
	"github.com/rbalebako/lit-review-search/internal/pub"
)

// sourceFor routes a bare identifier to the source that owns its
// namespace: DOIs to CrossRef, numeric EIDs to Scopus, everything
// else to DBLP record keys.
func (e *Engine) sourceFor(id string) Source {
	switch {
	case pub.IsDOI(id):
		return e.CrossRef
	case pub.IsEID(id):
		return e.Scopus
	default:
		return e.DBLP
	}
}

// ReferencesOf returns the outgoing edges of an arbitrary network
// neighbor, identified by DOI, EID, or DBLP key.
func (e *Engine) ReferencesOf(ctx context.Context, id string) ([]pub.Edge, error) {
	p, err := e.neighbor(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	return p.References, nil
}

// CitationsOf returns the incoming edges of an arbitrary network
// neighbor, identified by DOI, EID, or DBLP key.
func (e *Engine) CitationsOf(ctx context.Context, id string) ([]pub.Edge, error) {
	p, err := e.neighbor(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	return p.Citations, nil
}

// neighbor fetches the minimal record needed for edge tallies. Unlike
// seed resolution this is fan-out work over hundreds of identifiers,
// so a failed fetch is logged and skipped instead of aborting the
// whole tally; only context cancellation propagates. Failed fetches
// are not cached, so a later run retries them.
func (e *Engine) neighbor(ctx context.Context, id string) (*pub.Publication, error) {
	unlock := e.Cache.Lock(id)
	defer unlock()

	if p, err := e.Cache.Load(id); err == nil {
		return p, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		return nil, err
	}

	src := e.sourceFor(id)
	if src == nil {
		return nil, nil
	}
	p, err := src.Resolve(ctx, id)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logf("neighbor: %s lookup of %s failed: %v", src.Name(), id, err)
		return nil, nil
	}
	if p == nil {
		return nil, nil
	}
	e.populateEdges(ctx, src, p)
	if err := e.Cache.Store(id, p); err != nil {
		return nil, err
	}
	return p, nil
}
