// Package config loads API credentials and pipeline settings.
//
// Configuration is explicit: it is loaded once by the command layer and
// passed into client constructors. Clients validate credentials lazily
// at first use, so unit tests run without real keys.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config carries the credentials and settings for the external sources.
type Config struct {
	ScopusAPIKey        string `yaml:"scopus_api_key,omitempty"`
	OpenCitationsAPIKey string `yaml:"opencitations_api_key,omitempty"`
	CrossRefMailto      string `yaml:"crossref_mailto,omitempty"` // polite-pool email
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "litsearch"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"

	envScopusKey        = "SCOPUS_API_KEY"
	envOpenCitationsKey = "OPENCITATIONS_API_KEY"
	envCrossRefMailto   = "CROSSREF_MAILTO"
)

// Path returns the global config file path. Respects XDG_CONFIG_HOME,
// defaults to ~/.config/litsearch/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load reads configuration from the environment, falling back to the
// global YAML config file for unset values. A missing file is not an
// error; missing credentials surface later, when a source that needs
// them is first used.
func Load() (*Config, error) {
	cfg, err := loadFile(Path())
	if err != nil {
		return nil, err
	}

	if v := os.Getenv(envScopusKey); v != "" {
		cfg.ScopusAPIKey = v
	}
	if v := os.Getenv(envOpenCitationsKey); v != "" {
		cfg.OpenCitationsAPIKey = v
	}
	if v := os.Getenv(envCrossRefMailto); v != "" {
		cfg.CrossRefMailto = v
	}

	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}
