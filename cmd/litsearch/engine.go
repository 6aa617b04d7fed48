package main

import (
	"github.com/rbalebako/lit-review-search/internal/arxiv"
	"github.com/rbalebako/lit-review-search/internal/cache"
	"github.com/rbalebako/lit-review-search/internal/config"
	"github.com/rbalebako/lit-review-search/internal/crossref"
	"github.com/rbalebako/lit-review-search/internal/dblp"
	"github.com/rbalebako/lit-review-search/internal/opencitations"
	"github.com/rbalebako/lit-review-search/internal/resolve"
	"github.com/rbalebako/lit-review-search/internal/scopus"
)

// dataDir is where cached records and the index live.
var dataDir string

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "data", "Directory for cached records and the index")
}

// buildEngine wires the source clients to a resolution engine using
// the loaded configuration. Missing credentials are not an error here;
// a source without its key fails at first use.
func buildEngine(allowZeroEdges bool) (*resolve.Engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	oc := opencitations.NewClient(opencitations.WithAPIKey(cfg.OpenCitationsAPIKey))
	engine := resolve.NewEngine(
		cache.New(dataDir),
		dblp.NewAdapter(dblp.NewClient(), oc),
		crossref.NewAdapter(crossref.NewClient(crossref.WithMailto(cfg.CrossRefMailto)), oc),
		scopus.NewAdapter(scopus.NewClient(scopus.WithAPIKey(cfg.ScopusAPIKey))),
	)
	engine.Abstracts = arxiv.NewClient()
	engine.AllowZeroEdges = allowZeroEdges
	return engine, nil
}
