package crossref

import (
	"context"

	"github.com/rbalebako/lit-review-search/internal/opencitations"
	"github.com/rbalebako/lit-review-search/internal/pub"
)

// Adapter exposes CrossRef as a publication source. Metadata comes
// from the Works API; edges come from the OpenCitations index, which
// is keyed by DOI.
type Adapter struct {
	client *Client
	index  *opencitations.Client
}

// NewAdapter creates a CrossRef source adapter.
func NewAdapter(client *Client, index *opencitations.Client) *Adapter {
	return &Adapter{client: client, index: index}
}

// Name identifies the source in logs and error messages.
func (a *Adapter) Name() string { return "crossref" }

// Resolve fetches the work record for a DOI.
func (a *Adapter) Resolve(ctx context.Context, doi string) (*pub.Publication, error) {
	return a.client.GetWork(ctx, doi)
}

// References returns p's outgoing edges from the OpenCitations index.
// Empty without error when p carries no DOI.
func (a *Adapter) References(ctx context.Context, p *pub.Publication) ([]pub.Edge, error) {
	if p.DOI == "" {
		return nil, nil
	}
	return a.index.References(ctx, p.DOI)
}

// Citations returns p's incoming edges from the OpenCitations index.
// Empty without error when p carries no DOI.
func (a *Adapter) Citations(ctx context.Context, p *pub.Publication) ([]pub.Edge, error) {
	if p.DOI == "" {
		return nil, nil
	}
	return a.index.Citations(ctx, p.DOI)
}

// SearchByTitle queries works by title relevance.
func (a *Adapter) SearchByTitle(ctx context.Context, title string, max int) ([]*pub.Publication, error) {
	return a.client.SearchByTitle(ctx, title, max)
}
