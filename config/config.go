// Package config provides configuration loading and management for govspec.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Default id-generation strategies.
const (
	StrategySequential = "sequential"
	StrategyUUID       = "uuid"
)

// DefaultRefPattern matches double-bracket inline mentions such as
// [[RFC-0001]] or [[RFC-0001:C-NAME]]. The first capture group is the
// referenced id.
const DefaultRefPattern = `\[\[([A-Za-z]+-[0-9A-Za-z._-]+(?::[0-9A-Za-z._-]+)?)\]\]`

// Config is the complete govspec configuration (gov/config.yaml).
type Config struct {
	Project ProjectConfig `yaml:"project"`
	Paths   PathsConfig   `yaml:"paths"`
	IDs     IDConfig      `yaml:"ids"`
	Refs    RefsConfig    `yaml:"refs"`
	Scan    ScanConfig    `yaml:"scan"`
}

// ProjectConfig names the governed project.
type ProjectConfig struct {
	Name string `yaml:"name"`
}

// PathsConfig locates the governance store and rendered output.
type PathsConfig struct {
	// GovRoot is the root directory of the structured records.
	GovRoot string `yaml:"gov_root"`
	// DocsOutput is the root directory for rendered projections.
	DocsOutput string `yaml:"docs_output"`
}

// IDConfig selects the id-generation strategy for new artifacts.
type IDConfig struct {
	// Strategy is "sequential" (RFC-0001, RFC-0002, ...) or "uuid".
	Strategy string `yaml:"strategy"`
}

// RefsConfig configures the inline reference syntax.
type RefsConfig struct {
	// Pattern is a regular expression whose first capture group is the
	// referenced artifact id.
	Pattern string `yaml:"pattern"`
}

// ScanConfig configures scanning of an external source tree for inline
// artifact mentions.
type ScanConfig struct {
	Enabled bool `yaml:"enabled"`
	// Roots are the directories to walk, relative to the working
	// directory.
	Roots []string `yaml:"roots"`
	// Include and Exclude are doublestar globs matched against paths
	// relative to each root.
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{Name: "govspec-project"},
		Paths: PathsConfig{
			GovRoot:    "gov",
			DocsOutput: "docs",
		},
		IDs:  IDConfig{Strategy: StrategySequential},
		Refs: RefsConfig{Pattern: DefaultRefPattern},
		Scan: ScanConfig{
			Enabled: false,
			Roots:   []string{"."},
			Include: []string{"**/*.go"},
			Exclude: []string{"**/vendor/**", "**/.git/**"},
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Paths.GovRoot == "" {
		return fmt.Errorf("paths.gov_root is required")
	}
	if c.Paths.DocsOutput == "" {
		return fmt.Errorf("paths.docs_output is required")
	}
	switch c.IDs.Strategy {
	case StrategySequential, StrategyUUID:
	default:
		return fmt.Errorf("ids.strategy must be %q or %q, got %q",
			StrategySequential, StrategyUUID, c.IDs.Strategy)
	}
	re, err := regexp.Compile(c.Refs.Pattern)
	if err != nil {
		return fmt.Errorf("refs.pattern is not a valid regexp: %w", err)
	}
	if re.NumSubexp() < 1 {
		return fmt.Errorf("refs.pattern must have a capture group for the id")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file, applied on top of the
// defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// Load resolves the config for the working directory: the file at path if
// given, otherwise <gov_root default>/config.yaml if present, otherwise
// defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = filepath.Join("gov", "config.yaml")
		if _, err := os.Stat(path); err != nil {
			return DefaultConfig(), nil
		}
	}
	return LoadFromFile(path)
}

// SaveToFile writes the configuration as YAML, creating parent directories.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Merge merges another config into this one; non-zero fields of other take
// precedence.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Project.Name != "" {
		c.Project.Name = other.Project.Name
	}
	if other.Paths.GovRoot != "" {
		c.Paths.GovRoot = other.Paths.GovRoot
	}
	if other.Paths.DocsOutput != "" {
		c.Paths.DocsOutput = other.Paths.DocsOutput
	}
	if other.IDs.Strategy != "" {
		c.IDs.Strategy = other.IDs.Strategy
	}
	if other.Refs.Pattern != "" {
		c.Refs.Pattern = other.Refs.Pattern
	}
	if other.Scan.Enabled {
		c.Scan = other.Scan
	}
}

// RFCDir is the RFC record directory (gov_root/rfc).
func (c *Config) RFCDir() string { return filepath.Join(c.Paths.GovRoot, "rfc") }

// ADRDir is the ADR record directory (gov_root/adr).
func (c *Config) ADRDir() string { return filepath.Join(c.Paths.GovRoot, "adr") }

// WorkDir is the work item record directory (gov_root/work).
func (c *Config) WorkDir() string { return filepath.Join(c.Paths.GovRoot, "work") }

// ReleasesFile is the release history record (gov_root/releases.json).
func (c *Config) ReleasesFile() string { return filepath.Join(c.Paths.GovRoot, "releases.json") }

// RFCOutput is the rendered RFC directory (docs_output/rfc).
func (c *Config) RFCOutput() string { return filepath.Join(c.Paths.DocsOutput, "rfc") }

// ADROutput is the rendered ADR directory (docs_output/adr).
func (c *Config) ADROutput() string { return filepath.Join(c.Paths.DocsOutput, "adr") }

// WorkOutput is the rendered work item directory (docs_output/work).
func (c *Config) WorkOutput() string { return filepath.Join(c.Paths.DocsOutput, "work") }

// ChangelogFile is the generated changelog path.
func (c *Config) ChangelogFile() string { return filepath.Join(c.Paths.DocsOutput, "CHANGELOG.md") }
