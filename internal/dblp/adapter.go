package dblp

import (
	"context"

	"github.com/rbalebako/lit-review-search/internal/opencitations"
	"github.com/rbalebako/lit-review-search/internal/pub"
)

// Adapter exposes DBLP as a publication source. DBLP carries no
// citation data, so edges come from the OpenCitations index when the
// record has a DOI and are empty otherwise.
type Adapter struct {
	client *Client
	index  *opencitations.Client
}

// NewAdapter creates a DBLP source adapter.
func NewAdapter(client *Client, index *opencitations.Client) *Adapter {
	return &Adapter{client: client, index: index}
}

// Name identifies the source in logs and error messages.
func (a *Adapter) Name() string { return "dblp" }

// Resolve fetches the record for a DBLP key.
func (a *Adapter) Resolve(ctx context.Context, key string) (*pub.Publication, error) {
	return a.client.GetRecord(ctx, key)
}

// References returns p's outgoing edges via OpenCitations, empty when
// p carries no DOI.
func (a *Adapter) References(ctx context.Context, p *pub.Publication) ([]pub.Edge, error) {
	if p.DOI == "" {
		return nil, nil
	}
	return a.index.References(ctx, p.DOI)
}

// Citations returns p's incoming edges via OpenCitations, empty when
// p carries no DOI.
func (a *Adapter) Citations(ctx context.Context, p *pub.Publication) ([]pub.Edge, error) {
	if p.DOI == "" {
		return nil, nil
	}
	return a.index.Citations(ctx, p.DOI)
}

// SearchByTitle queries the DBLP publication search API.
func (a *Adapter) SearchByTitle(ctx context.Context, title string, max int) ([]*pub.Publication, error) {
	return a.client.SearchByTitle(ctx, title, max)
}
