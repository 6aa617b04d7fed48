package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rbalebako/lit-review-search/internal/pdf"
	"github.com/rbalebako/lit-review-search/internal/resolve"
)

var seedOut string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Manage the seed list",
}

var seedAddPDFCmd = &cobra.Command{
	Use:   "add-pdf <file-or-dir>...",
	Short: "Extract seeds from paper PDFs",
	Long: `Extract seed identifiers from paper PDFs and append them to a seed
CSV. Each PDF's front matter is scanned for a DOI and a title guess;
PDFs yielding neither are reported and skipped.

Examples:
  litsearch seed add-pdf paper.pdf
  litsearch seed add-pdf ~/papers/ --out seeds.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSeedAddPDF,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.AddCommand(seedAddPDFCmd)
	seedAddPDFCmd.Flags().StringVar(&seedOut, "out", "seeds.csv", "Seed CSV to append to")
}

// SeedAddResult is the JSON output of seed add-pdf.
type SeedAddResult struct {
	Added   []UnresolvedSeed `json:"added"`
	Skipped []string         `json:"skipped,omitempty"`
	Out     string           `json:"out"`
}

func runSeedAddPDF(cmd *cobra.Command, args []string) error {
	paths, err := collectPDFs(args)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if len(paths) == 0 {
		exitWithError(ExitDataError, "no PDF files under the given paths")
	}

	var added []resolve.Seed
	var skipped []string
	for _, path := range paths {
		seed, err := pdf.ExtractSeed(path)
		if err != nil {
			progressf("skipping %s: %v\n", path, err)
			skipped = append(skipped, path)
			continue
		}
		if seed.Empty() {
			progressf("skipping %s: no DOI or title found\n", path)
			skipped = append(skipped, path)
			continue
		}
		added = append(added, seed)
	}

	if len(added) > 0 {
		if err := appendSeeds(seedOut, added); err != nil {
			exitWithError(ExitError, "writing %s: %v", seedOut, err)
		}
	}

	result := SeedAddResult{Out: seedOut, Skipped: skipped}
	for _, s := range added {
		result.Added = append(result.Added, UnresolvedSeed{Title: s.Title, DOI: s.DOI})
	}
	if humanOutput {
		outputHuman("Added %d seeds to %s (%d skipped)\n", len(added), seedOut, len(skipped))
	} else {
		outputJSON(result)
	}
	return nil
}

// collectPDFs expands the arguments into PDF file paths, walking
// directories one level deep.
func collectPDFs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
				out = append(out, filepath.Join(arg, e.Name()))
			}
		}
	}
	return out, nil
}

// appendSeeds appends rows to the seed CSV, writing the header only
// when the file is new. The column set matches what the seeds reader
// recognizes.
func appendSeeds(path string, rows []resolve.Seed) error {
	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write([]string{"doi", "eid", "dblp", "title"}); err != nil {
			return err
		}
	}
	for _, s := range rows {
		if err := w.Write([]string{s.DOI, s.EID, s.DBLPKey, s.Title}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
