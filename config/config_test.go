package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "gov", cfg.Paths.GovRoot)
	assert.Equal(t, "docs", cfg.Paths.DocsOutput)
	assert.Equal(t, StrategySequential, cfg.IDs.Strategy)
	assert.False(t, cfg.Scan.Enabled)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown id strategy", func(c *Config) { c.IDs.Strategy = "random" }},
		{"missing gov root", func(c *Config) { c.Paths.GovRoot = "" }},
		{"missing docs output", func(c *Config) { c.Paths.DocsOutput = "" }},
		{"invalid ref pattern", func(c *Config) { c.Refs.Pattern = `\[\[(` }},
		{"ref pattern without capture group", func(c *Config) { c.Refs.Pattern = `RFC-\d+` }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gov", "config.yaml")

	cfg := DefaultConfig()
	cfg.Project.Name = "example"
	cfg.IDs.Strategy = StrategyUUID
	cfg.Scan.Enabled = true
	cfg.Scan.Roots = []string{"src"}
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "example", loaded.Project.Name)
	assert.Equal(t, StrategyUUID, loaded.IDs.Strategy)
	assert.True(t, loaded.Scan.Enabled)
	assert.Equal(t, []string{"src"}, loaded.Scan.Roots)
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadMissingExplicitPathFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ids:\n  strategy: uuid\n"), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, StrategyUUID, cfg.IDs.Strategy)
	// Unset fields keep their defaults.
	assert.Equal(t, "gov", cfg.Paths.GovRoot)
	assert.Equal(t, DefaultRefPattern, cfg.Refs.Pattern)
}

func TestPathHelpers(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join("gov", "rfc"), cfg.RFCDir())
	assert.Equal(t, filepath.Join("gov", "releases.json"), cfg.ReleasesFile())
	assert.Equal(t, filepath.Join("docs", "work"), cfg.WorkOutput())
	assert.Equal(t, filepath.Join("docs", "CHANGELOG.md"), cfg.ChangelogFile())
}
