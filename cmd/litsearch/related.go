package main

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/rbalebako/lit-review-search/internal/citenet"
)

var relatedShared float64

var relatedCmd = &cobra.Command{
	Use:   "related <identifier>",
	Short: "List the strongly related works of a cached publication",
	Long: `List the strongly related works of a publication from its cached
record: direct references, direct citations, and the works whose
co-citation tallies meet the --shared threshold.

The publication must have been through a network run already; this
command never touches the network.

Examples:
  litsearch related 10.1145/3292500.3330701
  litsearch related conf/kdd/Smith19 --shared 0.25 --human`,
	Args: cobra.ExactArgs(1),
	RunE: runRelated,
}

func init() {
	rootCmd.AddCommand(relatedCmd)
	relatedCmd.Flags().Float64Var(&relatedShared, "shared", 0.10, "Fraction of edges a related work must share (0,1]")
}

// RelatedResult is the JSON output of the related command.
type RelatedResult struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Shared   float64  `json:"shared"`
	CoCiting []string `json:"coCiting"`
	CoCited  []string `json:"coCited"`
	Related  []string `json:"related"`
}

func runRelated(cmd *cobra.Command, args []string) error {
	id := args[0]

	engine, err := buildEngine(false)
	if err != nil {
		exitWithError(ExitConfigError, "loading configuration: %v", err)
	}

	p, err := engine.Cache.Load(id)
	if err != nil {
		exitWithError(ExitDataError, "no cached record for %s; run the network command first", id)
	}

	coCiting, err := citenet.StrongCoCiting(p, relatedShared)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	coCited, err := citenet.StrongCoCited(p, relatedShared)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	related, err := citenet.StrongRelatedIDs(p, relatedShared)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	result := RelatedResult{
		ID:       p.ID(),
		Title:    p.Title,
		Shared:   relatedShared,
		CoCiting: coCiting,
		CoCited:  coCited,
		Related:  sortedIDs(related),
	}
	if humanOutput {
		outputHuman("%s\n", result.Title)
		outputHuman("  Strong co-citing: %d\n", len(result.CoCiting))
		outputHuman("  Strong co-cited: %d\n", len(result.CoCited))
		outputHuman("  Related works: %d\n", len(result.Related))
		for _, rid := range result.Related {
			outputHuman("    %s\n", rid)
		}
	} else {
		outputJSON(result)
	}
	return nil
}

func sortedIDs(ids map[string]struct{}) []string {
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
