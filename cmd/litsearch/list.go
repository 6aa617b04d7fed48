package main

import (
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rbalebako/lit-review-search/internal/index"
)

var (
	listMinYear int
	listMaxYear int
	listLimit   int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed publications",
	Long: `List the publications recorded in the run index, ordered by year.

Examples:
  litsearch list
  litsearch list --min-year 2018 --limit 20 --human`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVar(&listMinYear, "min-year", 0, "Only publications from this year on")
	listCmd.Flags().IntVar(&listMaxYear, "max-year", 0, "Only publications up to this year")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum rows (0 = all)")
}

// ListResult is the JSON output of the list command.
type ListResult struct {
	Count        int             `json:"count"`
	Publications []index.Summary `json:"publications"`
}

func runList(cmd *cobra.Command, args []string) error {
	idx, err := index.Open(filepath.Join(dataDir, "index.db"))
	if err != nil {
		exitWithError(ExitError, "opening index: %v", err)
	}
	defer idx.Close()

	rows, err := idx.List(listMinYear, listMaxYear, listLimit)
	if err != nil {
		exitWithError(ExitError, "listing publications: %v", err)
	}

	if humanOutput {
		for _, r := range rows {
			year := "????"
			if r.Year > 0 {
				year = strconv.Itoa(r.Year)
			}
			outputHuman("%s  %-14s %4d refs %4d cits  %s\n",
				year, truncateString(r.ID, 14), r.ReferenceCount, r.CitationCount,
				truncateString(r.Title, ListTitleMaxLen))
		}
		outputHuman("%d publications\n", len(rows))
	} else {
		outputJSON(ListResult{Count: len(rows), Publications: rows})
	}
	return nil
}
