// Package main provides the litsearch CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "litsearch",
	Short: "Citation network builder for literature reviews",
	Long: `litsearch grows a citation network from seed publications.

Seeds are resolved against DBLP, Scopus, and CrossRef, their reference
and citation edges are fetched, and co-citation tallies identify the
strongly related work a review should not miss. Resolved records are
cached on disk so repeated runs skip the network. All commands output
JSON by default; pass --human for readable text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Credentials may live in a local .env during development.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
