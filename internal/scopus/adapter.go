package scopus

import (
	"context"

	"github.com/rbalebako/lit-review-search/internal/pub"
)

// Adapter exposes Scopus as a publication source. Both edge directions
// are native: references from the abstract retrieval bibliography,
// citations from the refeid() search.
type Adapter struct {
	client *Client
}

// NewAdapter creates a Scopus source adapter.
func NewAdapter(client *Client) *Adapter {
	return &Adapter{client: client}
}

// Name identifies the source in logs and error messages.
func (a *Adapter) Name() string { return "scopus" }

// Resolve fetches the abstract retrieval record for an EID. The
// reference edges arrive in the same response and are attached to the
// record so the engine does not fetch them twice.
func (a *Adapter) Resolve(ctx context.Context, eid string) (*pub.Publication, error) {
	p, refs, err := a.client.GetAbstract(ctx, eid)
	if err != nil {
		return nil, err
	}
	p.References = refs
	return p, nil
}

// References returns p's outgoing edges. The resolve step already
// attaches them; a missing set means a record resolved elsewhere, and
// those carry a DOI handled by the other sources.
func (a *Adapter) References(ctx context.Context, p *pub.Publication) ([]pub.Edge, error) {
	if p.References != nil {
		return p.References, nil
	}
	if p.EID == "" {
		return nil, nil
	}
	_, refs, err := a.client.GetAbstract(ctx, p.EID)
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// Citations returns the works citing p, paged through the search API.
func (a *Adapter) Citations(ctx context.Context, p *pub.Publication) ([]pub.Edge, error) {
	if p.EID == "" {
		return nil, nil
	}
	return a.client.GetCitations(ctx, p.EID)
}

// SearchByTitle queries the search API for works matching a title.
func (a *Adapter) SearchByTitle(ctx context.Context, title string, max int) ([]*pub.Publication, error) {
	return a.client.SearchByTitle(ctx, title, max)
}
