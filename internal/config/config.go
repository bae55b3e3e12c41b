// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/askly/internal/schemas"
	"github.com/jonathan/askly/internal/types"
)

// configSchema validates config files before they are unmarshalled, so typos
// in key names fail loudly instead of silently falling back to defaults.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "url":            {"type": "string"},
    "max_depth":      {"type": "integer", "minimum": 0, "maximum": 5},
    "include_images": {"type": "boolean"},
    "include_pdfs":   {"type": "boolean"},
    "include_text":   {"type": "boolean"},
    "api_key":        {"type": "string"},
    "database_url":   {"type": "string"},
    "use_browser":    {"type": "boolean"},
    "verbose":        {"type": "boolean"},
    "port":           {"type": "integer", "minimum": 1, "maximum": 65535}
  }
}`

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Crawl target
	URL      string `json:"url,omitempty"`       // Seed URL to crawl
	MaxDepth int    `json:"max_depth,omitempty"` // Maximum link depth from the seed

	// Resource inclusion. IncludeText is a pointer so an absent key keeps
	// the default of true.
	IncludeImages bool  `json:"include_images,omitempty"`
	IncludePdfs   bool  `json:"include_pdfs,omitempty"`
	IncludeText   *bool `json:"include_text,omitempty"`

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	UseBrowser  bool   `json:"use_browser,omitempty"`  // Use headless browser for SPA sites
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	Port        int    `json:"port,omitempty"`         // HTTP server port
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read, fails schema validation, or
// cannot be parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := schemas.ValidateJSONString(configSchema, string(data)); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// CrawlOptions converts the inclusion flags to crawl options. Text extraction
// defaults to on.
func (c *Config) CrawlOptions() types.CrawlOptions {
	includeText := true
	if c.IncludeText != nil {
		includeText = *c.IncludeText
	}
	return types.CrawlOptions{
		IncludeImages: c.IncludeImages,
		IncludePdfs:   c.IncludePdfs,
		IncludeText:   includeText,
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.URL == "" {
		result.URL = defaults.URL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.MaxDepth == 0 {
		result.MaxDepth = defaults.MaxDepth
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.IncludeText == nil {
		result.IncludeText = defaults.IncludeText
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
