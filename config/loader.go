package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format represents the configuration file format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Loader handles configuration loading from files and environment.
type Loader struct {
	searchPaths   []string
	envPrefix     string
	defaultConfig *Config
}

// NewLoader creates a loader with the default search paths.
func NewLoader() *Loader {
	return &Loader{
		searchPaths: []string{
			".",
			"./.workerforge",
			os.Getenv("HOME") + "/.workerforge",
		},
		envPrefix:     "WORKERFORGE",
		defaultConfig: DefaultConfig(),
	}
}

// SetSearchPaths sets the configuration file search paths.
func (l *Loader) SetSearchPaths(paths []string) *Loader {
	l.searchPaths = paths
	return l
}

// SetEnvPrefix sets the environment variable prefix.
func (l *Loader) SetEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// SetDefaultConfig sets the base configuration.
func (l *Loader) SetDefaultConfig(cfg *Config) *Loader {
	l.defaultConfig = cfg
	return l
}

// Load loads configuration: defaults, then the named file (or the first
// "workerforge.yaml" found on the search paths when filename is empty),
// then environment overrides, then validation.
func (l *Loader) Load(filename string) (*Config, error) {
	cfg := DefaultConfig()
	if l.defaultConfig != nil {
		copied := *l.defaultConfig
		cfg = &copied
	}

	if filename == "" {
		filename = l.FindConfigFile()
	}
	if filename != "" {
		loaded, err := l.LoadFromFile(filename)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	l.loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific file, applying
// defaults for fields the file omits.
func (l *Loader) LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, filename)
		}
		return nil, fmt.Errorf("failed to read config %s: %w", filename, err)
	}

	cfg := DefaultConfig()
	if l.defaultConfig != nil {
		copied := *l.defaultConfig
		cfg = &copied
	}

	switch detectFormat(filename) {
	case FormatJSON:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrConfigParseError, filename, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrConfigParseError, filename, err)
		}
	}
	return cfg, nil
}

// FindConfigFile returns the first workerforge config on the search
// paths, or empty when none exists. Callers that need the resolved path
// (the CLI's watch mode does) use this before Load.
func (l *Loader) FindConfigFile() string {
	names := []string{"workerforge.yaml", "workerforge.yml", "workerforge.json"}
	for _, dir := range l.searchPaths {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
	}
	return ""
}

// loadFromEnv applies environment variable overrides.
func (l *Loader) loadFromEnv(cfg *Config) {
	if v := l.env("FORMAT"); v != "" {
		cfg.Tool.Format = v
	}
	if v := l.env("OVERWRITE"); v != "" {
		cfg.Tool.Overwrite = v == "1" || strings.EqualFold(v, "true")
	}
	if v := l.env("COMPAT_DATE"); v != "" {
		cfg.Scaffold.CompatibilityDate = v
	}
	if v := l.env("BRANCH_PREFIX"); v != "" {
		cfg.Scaffold.BranchPrefix = v
	}
	if v := l.env("MODEL"); v != "" {
		cfg.Composer.Model = v
	}
	if v := l.env("ENDPOINT"); v != "" {
		cfg.Composer.Endpoint = v
	}
}

func (l *Loader) env(key string) string {
	return os.Getenv(l.envPrefix + "_" + key)
}

// detectFormat infers the file format from the extension.
func detectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}
