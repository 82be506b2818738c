// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/jonathan/careerpilot/internal/skills"
)

// EnvPrefix prefixes every environment variable the config reads, e.g. CAREERPILOT_DATABASE_URL.
const EnvPrefix = "CAREERPILOT"

// keyDelimiter replaces viper's default "." so synonym keys like "react.js" stay flat.
const keyDelimiter = "::"

// Config represents the CLI configuration loaded from a JSON or YAML file and the environment.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Synonyms extend the built-in synonym table; an entry here wins over a built-in one.
	Synonyms map[string]string `mapstructure:"synonyms"`

	// Catalog sources. At most one may be set.
	DatabaseURL string `mapstructure:"database_url"` // PostgreSQL connection URL
	SQLitePath  string `mapstructure:"sqlite_path"`  // SQLite catalog snapshot
	CatalogDir  string `mapstructure:"catalog_dir"`  // Directory of JSON catalog files

	Concurrency int  `mapstructure:"concurrency"` // Batch scoring workers, 0 means GOMAXPROCS
	LogJSON     bool `mapstructure:"log_json"`    // JSON log encoding
	Verbose     bool `mapstructure:"verbose"`     // Print detailed debug information
}

var envKeys = []string{"database_url", "sqlite_path", "catalog_dir", "concurrency", "log_json", "verbose"}

// LoadConfig loads configuration from path, then applies CAREERPILOT_* environment overrides.
// An empty path reads the environment only.
func LoadConfig(path string) (*Config, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetEnvPrefix(EnvPrefix)
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	if path != "" {
		// Resolve path relative to current directory if not absolute
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}

		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var parseErr viper.ConfigParseError
			if errors.As(err, &parseErr) {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	sources := 0
	for _, s := range []string{c.DatabaseURL, c.SQLitePath, c.CatalogDir} {
		if strings.TrimSpace(s) != "" {
			sources++
		}
	}
	if sources > 1 {
		return fmt.Errorf("config error: 'database_url', 'sqlite_path' and 'catalog_dir' are mutually exclusive")
	}

	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}

	if c.CatalogDir != "" {
		info, err := os.Stat(c.CatalogDir)
		if os.IsNotExist(err) {
			return fmt.Errorf("config error: catalog directory not found: %s", c.CatalogDir)
		}
		if err == nil && !info.IsDir() {
			return fmt.Errorf("config error: catalog_dir is not a directory: %s", c.CatalogDir)
		}
	}

	if _, err := skills.NewNormalizer(c.SynonymTable()); err != nil {
		return fmt.Errorf("config error: invalid synonyms: %w", err)
	}

	return nil
}

// SynonymTable returns the built-in synonyms overlaid with the configured ones.
// Keys are compared in canonical form, so "JS" replaces the built-in "js".
// When configured keys collide, the last one in byte order wins.
func (c *Config) SynonymTable() map[string]string {
	table := make(map[string]string)
	for from, to := range skills.DefaultSynonyms() {
		table[string(skills.Canonical(from))] = to
	}
	for _, from := range slices.Sorted(maps.Keys(c.Synonyms)) {
		table[string(skills.Canonical(from))] = c.Synonyms[from]
	}
	return table
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.SQLitePath == "" {
		result.SQLitePath = defaults.SQLitePath
	}
	if result.CatalogDir == "" {
		result.CatalogDir = defaults.CatalogDir
	}

	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	if len(result.Synonyms) == 0 && len(defaults.Synonyms) > 0 {
		result.Synonyms = maps.Clone(defaults.Synonyms)
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
