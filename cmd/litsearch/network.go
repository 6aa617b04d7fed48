package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rbalebako/lit-review-search/internal/cache"
	"github.com/rbalebako/lit-review-search/internal/citenet"
	"github.com/rbalebako/lit-review-search/internal/export"
	"github.com/rbalebako/lit-review-search/internal/index"
	"github.com/rbalebako/lit-review-search/internal/pub"
	"github.com/rbalebako/lit-review-search/internal/resolve"
	"github.com/rbalebako/lit-review-search/internal/seeds"
)

var (
	networkSeedsPath string
	networkOutDir    string
	networkShared    float64
	networkMinYear   int
	networkMaxYear   int
	networkAllowZero bool
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Build the citation network for a seed list",
	Long: `Build the citation network for a CSV of seed publications.

Each seed is resolved, its reference and citation edges are fetched,
and the works that co-cite or are co-cited with it are tallied. Works
sharing at least the --shared fraction of a seed's edges end up in the
seed's related set. Results accumulate in the output directory:
publications.csv grows across runs, related-ID lists are rewritten.

Examples:
  litsearch network --seeds seeds.csv
  litsearch network --seeds seeds.csv --shared 0.25 --min-year 2015
  litsearch network --seeds seeds.csv --allow-zero-edges --human`,
	RunE: runNetwork,
}

func init() {
	rootCmd.AddCommand(networkCmd)
	networkCmd.Flags().StringVar(&networkSeedsPath, "seeds", "", "Seed CSV with doi, eid, dblp, and/or title columns")
	networkCmd.Flags().StringVar(&networkOutDir, "out", "output", "Output directory")
	networkCmd.Flags().Float64Var(&networkShared, "shared", 0.10, "Fraction of edges a related work must share (0,1]")
	networkCmd.Flags().IntVar(&networkMinYear, "min-year", 0, "Drop citation edges before this year (0 = unbounded)")
	networkCmd.Flags().IntVar(&networkMaxYear, "max-year", 0, "Drop citation edges after this year (0 = unbounded)")
	networkCmd.Flags().BoolVar(&networkAllowZero, "allow-zero-edges", false, "Accept resolved records without any edges")
	networkCmd.MarkFlagRequired("seeds")
}

// UnresolvedSeed reports a seed that no strategy could resolve.
type UnresolvedSeed struct {
	Title string `json:"title,omitempty"`
	DOI   string `json:"doi,omitempty"`
	EID   string `json:"eid,omitempty"`
	DBLP  string `json:"dblp,omitempty"`
}

// NetworkResult is the JSON summary of a network run.
type NetworkResult struct {
	Seeds           int              `json:"seeds"`
	Resolved        int              `json:"resolved"`
	Unresolved      []UnresolvedSeed `json:"unresolved,omitempty"`
	RelatedCount    int              `json:"relatedCount"`
	PublicationsCSV string           `json:"publicationsCsv"`
	RelatedFile     string           `json:"relatedFile"`
}

func runNetwork(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	seedList, err := seeds.ReadFile(networkSeedsPath)
	if err != nil {
		exitWithError(ExitDataError, "reading seeds: %v", err)
	}
	if len(seedList) == 0 {
		exitWithError(ExitDataError, "no seeds in %s", networkSeedsPath)
	}

	engine, err := buildEngine(networkAllowZero)
	if err != nil {
		exitWithError(ExitConfigError, "loading configuration: %v", err)
	}
	if err := os.MkdirAll(networkOutDir, 0755); err != nil {
		exitWithError(ExitError, "creating output directory: %v", err)
	}

	idx, err := index.Open(filepath.Join(dataDir, "index.db"))
	if err != nil {
		exitWithError(ExitError, "opening index: %v", err)
	}
	defer idx.Close()

	var resolved []*pub.Publication
	var unresolved []UnresolvedSeed
	union := make(map[string]struct{})

	for i, seed := range seedList {
		progressf("[%d/%d] resolving %s\n", i+1, len(seedList), describeSeed(seed))

		p, err := engine.ResolvePublication(ctx, seed)
		if err != nil {
			if errors.Is(err, resolve.ErrUnresolved) {
				progressf("[%d/%d] unresolved\n", i+1, len(seedList))
				unresolved = append(unresolved, UnresolvedSeed{
					Title: seed.Title, DOI: seed.DOI, EID: seed.EID, DBLP: seed.DBLPKey,
				})
				continue
			}
			exitWithError(ExitError, "resolving %s: %v", describeSeed(seed), err)
		}

		related, err := relatedForSeed(ctx, engine, p, networkShared, networkMinYear, networkMaxYear)
		if err != nil {
			exitWithError(ExitError, "computing related set for %s: %v", p.ID(), err)
		}
		for id := range related {
			union[id] = struct{}{}
		}

		relatedPath := filepath.Join(networkOutDir, "related_"+cache.SafeID(p.ID())+".txt")
		if err := export.WriteRelatedIDs(relatedPath, related); err != nil {
			exitWithError(ExitError, "writing related set: %v", err)
		}

		// Persist the tallies so the related command can reuse them. The
		// record goes back with its full citation set so the cache stays
		// the durable copy.
		if err := engine.Cache.Store(p.ID(), p); err != nil {
			exitWithError(ExitError, "caching %s: %v", p.ID(), err)
		}
		if err := idx.Upsert(p); err != nil {
			exitWithError(ExitError, "indexing %s: %v", p.ID(), err)
		}

		progressf("[%d/%d] %s: %d references, %d citations, %d related\n",
			i+1, len(seedList), p.ID(), p.ReferenceCount(), p.CitationCount(), len(related))
		resolved = append(resolved, p)
	}

	csvPath := filepath.Join(networkOutDir, "publications.csv")
	if err := export.AppendCSV(csvPath, resolved); err != nil {
		exitWithError(ExitError, "writing publications CSV: %v", err)
	}
	relatedPath := filepath.Join(networkOutDir, "related.txt")
	if err := export.WriteRelatedIDs(relatedPath, union); err != nil {
		exitWithError(ExitError, "writing combined related set: %v", err)
	}

	result := NetworkResult{
		Seeds:           len(seedList),
		Resolved:        len(resolved),
		Unresolved:      unresolved,
		RelatedCount:    len(union),
		PublicationsCSV: csvPath,
		RelatedFile:     relatedPath,
	}
	if humanOutput {
		outputHuman("Resolved %d of %d seeds; %d unique related works\n",
			result.Resolved, result.Seeds, result.RelatedCount)
		outputHuman("Publications: %s\nRelated IDs: %s\n", csvPath, relatedPath)
	} else {
		outputJSON(result)
	}
	return nil
}

// relatedForSeed tallies the co-citing and co-cited works for p and
// returns its strong related set. The year window applies to the
// tallies only: the full citation set is reattached afterwards so the
// record can be persisted without losing edges the window excluded.
func relatedForSeed(ctx context.Context, src citenet.EdgeSource, p *pub.Publication, shared float64, minYear, maxYear int) (map[string]struct{}, error) {
	full := p.Citations
	p.FilterCitations(minYear, maxYear)
	p.ResetTallies()

	if err := citenet.AccumulateCoCiting(ctx, p, src); err != nil {
		p.Citations = full
		return nil, err
	}
	if err := citenet.AccumulateCoCited(ctx, p, src); err != nil {
		p.Citations = full
		return nil, err
	}

	related, err := citenet.StrongRelatedIDs(p, shared)
	p.Citations = full
	return related, err
}

// progressf writes per-seed progress to stderr so stdout stays
// machine-readable.
func progressf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}

func describeSeed(s resolve.Seed) string {
	switch {
	case s.Title != "":
		return fmt.Sprintf("%q", truncateString(s.Title, ListTitleMaxLen))
	case s.DOI != "":
		return s.DOI
	case s.DBLPKey != "":
		return s.DBLPKey
	default:
		return s.EID
	}
}
