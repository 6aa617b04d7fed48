package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rbalebako/lit-review-search/internal/export"
	"github.com/rbalebako/lit-review-search/internal/resolve"
)

var (
	resolveDOI       string
	resolveEID       string
	resolveDBLP      string
	resolveTitle     string
	resolveAllowZero bool
	resolveBibTeX    bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a single publication without building a network",
	Long: `Resolve one publication from whatever identifiers you have.

Sources are tried in the same order the network command uses: title
against DBLP and Scopus, then DOI against CrossRef, then DBLP key,
then EID against Scopus. The resolved record lands in the cache.

Examples:
  litsearch resolve --doi 10.1145/3292500.3330701
  litsearch resolve --title "attention is all you need" --human
  litsearch resolve --eid 2-s2.0-85012345678 --bibtex`,
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVar(&resolveDOI, "doi", "", "DOI")
	resolveCmd.Flags().StringVar(&resolveEID, "eid", "", "Scopus EID, with or without the 2-s2.0- prefix")
	resolveCmd.Flags().StringVar(&resolveDBLP, "dblp", "", "DBLP record key")
	resolveCmd.Flags().StringVar(&resolveTitle, "title", "", "Title to search for")
	resolveCmd.Flags().BoolVar(&resolveAllowZero, "allow-zero-edges", false, "Accept resolved records without any edges")
	resolveCmd.Flags().BoolVar(&resolveBibTeX, "bibtex", false, "Output a BibTeX entry instead of JSON")
}

func runResolve(cmd *cobra.Command, args []string) error {
	seed := resolve.Seed{
		DOI:     resolveDOI,
		EID:     resolveEID,
		DBLPKey: resolveDBLP,
		Title:   resolveTitle,
	}
	if seed.Empty() {
		exitWithError(ExitError, "at least one of --doi, --eid, --dblp, --title is required")
	}

	engine, err := buildEngine(resolveAllowZero)
	if err != nil {
		exitWithError(ExitConfigError, "loading configuration: %v", err)
	}

	p, err := engine.ResolvePublication(context.Background(), seed)
	if err != nil {
		var ue *resolve.UnresolvedError
		if errors.As(err, &ue) {
			for _, a := range ue.Attempts {
				progressf("  %s %s=%q: %s\n", a.Source, a.Kind, a.Value, a.Reason)
			}
			exitWithError(ExitUnresolved, "no source produced a usable record for %s", describeSeed(seed))
		}
		exitWithError(ExitError, "resolving: %v", err)
	}

	switch {
	case resolveBibTeX:
		fmt.Print(export.ToBibTeX(p))
	case humanOutput:
		printPublicationHuman(publicationResult(p))
	default:
		outputJSON(publicationResult(p))
	}
	return nil
}
