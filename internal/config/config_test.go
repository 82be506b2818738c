package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/careerpilot/internal/skills"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, "careerpilot.json", `{
		"synonyms": {"react.js": "react", "PowerBI": "power bi"},
		"catalog_dir": "./catalog",
		"concurrency": 4,
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "./catalog", cfg.CatalogDir)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.True(t, cfg.Verbose)
	assert.False(t, cfg.LogJSON)
	assert.Equal(t, "react", cfg.Synonyms["react.js"], "dotted keys stay flat")
	assert.Equal(t, "power bi", cfg.Synonyms["powerbi"])
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	path := writeConfig(t, "careerpilot.yaml", `
sqlite_path: /var/lib/careerpilot/catalog.db
log_json: true
synonyms:
  k8s: kubernetes
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/careerpilot/catalog.db", cfg.SQLitePath)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, map[string]string{"k8s": "kubernetes"}, cfg.Synonyms)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "careerpilot.json", `{"concurrency": 2, "catalog_dir": "./catalog"}`)
	t.Setenv("CAREERPILOT_CONCURRENCY", "6")
	t.Setenv("CAREERPILOT_DATABASE_URL", "postgres://localhost/careerpilot")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Concurrency)
	assert.Equal(t, "postgres://localhost/careerpilot", cfg.DatabaseURL)
	assert.Equal(t, "./catalog", cfg.CatalogDir)
}

func TestLoadConfig_EnvironmentOnly(t *testing.T) {
	t.Setenv("CAREERPILOT_VERBOSE", "true")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
	assert.Empty(t, cfg.Synonyms)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{ invalid json }`)

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate_MutuallyExclusive(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://localhost/db", SQLitePath: "catalog.db"}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestValidate_NegativeConcurrency(t *testing.T) {
	cfg := &Config{Concurrency: -1}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "concurrency")
}

func TestValidate_CatalogDir(t *testing.T) {
	cfg := &Config{CatalogDir: "/nonexistent/catalog"}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "catalog directory not found")

	file := writeConfig(t, "not-a-dir", "")
	cfg = &Config{CatalogDir: file}
	err = cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")

	cfg = &Config{CatalogDir: t.TempDir()}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_Synonyms(t *testing.T) {
	cfg := &Config{Synonyms: map[string]string{"a": "b", "b": "a"}}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid synonyms")

	cfg = &Config{Synonyms: map[string]string{"powerbi": "power bi"}}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://localhost/db", Concurrency: 4}
	assert.NoError(t, cfg.Validate())
}

func TestSynonymTable_OverlaysDefaults(t *testing.T) {
	cfg := &Config{Synonyms: map[string]string{"js": "ecmascript", "powerbi": "power bi"}}

	table := cfg.SynonymTable()
	assert.Equal(t, "ecmascript", table["js"])
	assert.Equal(t, "power bi", table["powerbi"])
	assert.Equal(t, "kubernetes", table["k8s"])
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{CatalogDir: "./mine"}
	defaults := Config{
		CatalogDir:  "./default",
		SQLitePath:  "default.db",
		Concurrency: 8,
		Synonyms:    map[string]string{"k8s": "kubernetes"},
	}

	merged := cfg.MergeWithDefaults(defaults)
	assert.Equal(t, "./mine", merged.CatalogDir)
	assert.Equal(t, "default.db", merged.SQLitePath)
	assert.Equal(t, 8, merged.Concurrency)
	assert.Equal(t, map[string]string{"k8s": "kubernetes"}, merged.Synonyms)
	assert.Empty(t, cfg.SQLitePath, "receiver is not modified")
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := &Config{Concurrency: 3, Verbose: true}
	merged := cfg.MergeWithDefaults(Config{})
	assert.Equal(t, *cfg, merged)
}

func TestSynonymTable_CanonicalKeysOverrideDefaults(t *testing.T) {
	cfg := &Config{Synonyms: map[string]string{"JS": "ecmascript", "go  lang": "golang-toolchain"}}

	for range 20 {
		require.NoError(t, cfg.Validate())
	}

	table := cfg.SynonymTable()
	assert.Equal(t, "ecmascript", table["js"])
	assert.Equal(t, "golang-toolchain", table["go lang"])
	assert.NotContains(t, table, "JS")

	n, err := skills.NewNormalizer(table)
	require.NoError(t, err)
	token, err := n.Normalize(" Js ")
	require.NoError(t, err)
	assert.Equal(t, "ecmascript", string(token))
}
