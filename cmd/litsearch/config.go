package main

import (
	"github.com/spf13/cobra"

	"github.com/rbalebako/lit-review-search/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show where configuration is read from and which credentials are set.

Key values come from the environment first (SCOPUS_API_KEY,
OPENCITATIONS_API_KEY, CROSSREF_MAILTO), then from the YAML file.
Values are never printed; only whether they are present.`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// ConfigResult is the JSON output of the config command.
type ConfigResult struct {
	Path                string `json:"path"`
	ScopusKeySet        bool   `json:"scopusKeySet"`
	OpenCitationsKeySet bool   `json:"opencitationsKeySet"`
	CrossRefMailto      string `json:"crossrefMailto,omitempty"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading configuration: %v", err)
	}

	result := ConfigResult{
		Path:                config.Path(),
		ScopusKeySet:        cfg.ScopusAPIKey != "",
		OpenCitationsKeySet: cfg.OpenCitationsAPIKey != "",
		CrossRefMailto:      cfg.CrossRefMailto,
	}
	if humanOutput {
		outputHuman("Config file: %s\n", result.Path)
		outputHuman("  Scopus key: %s\n", setOrUnset(result.ScopusKeySet))
		outputHuman("  OpenCitations key: %s\n", setOrUnset(result.OpenCitationsKeySet))
		if result.CrossRefMailto != "" {
			outputHuman("  CrossRef mailto: %s\n", result.CrossRefMailto)
		} else {
			outputHuman("  CrossRef mailto: (unset)\n")
		}
	} else {
		outputJSON(result)
	}
	return nil
}

func setOrUnset(set bool) string {
	if set {
		return "set"
	}
	return "(unset)"
}
