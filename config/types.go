// Package config provides tool configuration loading and hot reload.
package config

import (
	"fmt"
	"time"

	"github.com/workerforge/workerforge/manifest"
)

// Config is the complete workerforge tool configuration.
type Config struct {
	Tool     ToolConfig     `yaml:"tool" json:"tool"`
	Scaffold ScaffoldConfig `yaml:"scaffold" json:"scaffold"`
	Composer ComposerConfig `yaml:"composer" json:"composer"`
	Lint     LintConfig     `yaml:"lint" json:"lint"`
}

// ToolConfig holds general CLI behavior.
type ToolConfig struct {
	// Format is the default output format: json, pretty, or text.
	Format string `yaml:"format" json:"format"`

	// Overwrite allows --apply to replace existing files.
	Overwrite bool `yaml:"overwrite" json:"overwrite"`
}

// ScaffoldConfig holds scaffold generation defaults.
type ScaffoldConfig struct {
	// CompatibilityDate seeds new manifests. Empty means today.
	CompatibilityDate string `yaml:"compatibilityDate" json:"compatibilityDate"`

	// BranchPrefix prefixes generated patch branches.
	BranchPrefix string `yaml:"branchPrefix" json:"branchPrefix"`

	// Features are enabled for every scaffold in addition to CLI flags.
	Features []manifest.Feature `yaml:"features" json:"features"`
}

// ComposerConfig holds AI drafting settings. The API key is never read
// from file, only from the GEMINI_API_KEY environment variable.
type ComposerConfig struct {
	Model    string `yaml:"model" json:"model"`
	Endpoint string `yaml:"endpoint" json:"endpoint"`
}

// LintConfig holds response-linting settings.
type LintConfig struct {
	// RequiredFiles overrides the minimum file set. Empty keeps the default.
	RequiredFiles []string `yaml:"requiredFiles" json:"requiredFiles"`

	// SkipMinimumSet disables the minimum-file-set check entirely.
	SkipMinimumSet bool `yaml:"skipMinimumSet" json:"skipMinimumSet"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Tool: ToolConfig{
			Format: "text",
		},
		Scaffold: ScaffoldConfig{
			BranchPrefix: "scaffold/",
		},
		Composer: ComposerConfig{
			Model: "gemini-2.5-flash-lite",
		},
	}
}

// validFormats enumerates accepted output formats.
var validFormats = map[string]bool{"json": true, "pretty": true, "text": true}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if !validFormats[c.Tool.Format] {
		return fmt.Errorf("%w: %q (want json, pretty, or text)", ErrInvalidFormat, c.Tool.Format)
	}
	if c.Scaffold.CompatibilityDate != "" {
		if _, err := time.Parse("2006-01-02", c.Scaffold.CompatibilityDate); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidCompatDate, c.Scaffold.CompatibilityDate)
		}
	}
	for _, f := range c.Scaffold.Features {
		probe := manifest.Project{Name: "probe", Features: []manifest.Feature{f}}
		if err := probe.Validate(); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidFeature, f)
		}
	}
	return nil
}
