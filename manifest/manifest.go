package manifest

import (
	"fmt"
	"regexp"
	"time"
)

// ============================================================================
// MANIFEST — Describes a worker project for the scaffolder + composer
// ============================================================================
// Built three ways: loaded from YAML (Tier 1), reconstructed from an
// existing project directory via DiscoverFromDir (Tier 2), or assembled
// programmatically by consumer apps (Tier 3).
// ============================================================================

// Feature names a platform capability the scaffold should target.
type Feature string

const (
	// FeatureDurableObject adds a uniquely addressed stateful object
	// class with persistent key-value storage.
	FeatureDurableObject Feature = "durable-object"

	// FeatureAlarm adds a scheduled-wake handler. Implies a durable object.
	FeatureAlarm Feature = "alarm"

	// FeatureWebSocket adds hibernation-aware WebSocket handlers.
	// Implies a durable object.
	FeatureWebSocket Feature = "websocket"

	// FeatureSQL switches object storage to the SQL interface.
	// Implies a durable object.
	FeatureSQL Feature = "sql"

	// FeatureRPC exposes object methods for method-call style invocation.
	// Implies a durable object.
	FeatureRPC Feature = "rpc"
)

// knownFeatures is the accepted feature vocabulary.
var knownFeatures = map[Feature]bool{
	FeatureDurableObject: true,
	FeatureAlarm:         true,
	FeatureWebSocket:     true,
	FeatureSQL:           true,
	FeatureRPC:           true,
}

// objectFeatures are the features that require a durable object class.
var objectFeatures = []Feature{FeatureAlarm, FeatureWebSocket, FeatureSQL, FeatureRPC}

// Project is the complete scaffold descriptor.
type Project struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// ObjectName is the durable object class name. Empty with no object
	// features means a plain stateless worker. Defaults to a name derived
	// from the project name when object features are requested.
	ObjectName string `yaml:"objectName,omitempty" json:"objectName,omitempty"`

	CompatibilityDate string    `yaml:"compatibilityDate,omitempty" json:"compatibilityDate,omitempty"`
	Features          []Feature `yaml:"features,omitempty" json:"features,omitempty"`

	// Patch holds the defaults for the trailing patch-configuration
	// block when the scaffold is emitted as a response document.
	Patch PatchDefaults `yaml:"patch,omitempty" json:"patch,omitempty"`

	// Discovery metadata, set by DiscoverFromDir.
	DiscoveredFrom string        `yaml:"-" json:"discoveredFrom,omitempty"`
	DiscoveredAt   string        `yaml:"-" json:"discoveredAt,omitempty"`
	SkippedFiles   []SkippedFile `yaml:"-" json:"skippedFiles,omitempty"`
}

// PatchDefaults seeds the patch-configuration block.
type PatchDefaults struct {
	Branch       string `yaml:"branch,omitempty" json:"branch,omitempty"`
	CreateBranch *bool  `yaml:"createBranch,omitempty" json:"createBranch,omitempty"`
	Title        string `yaml:"title,omitempty" json:"title,omitempty"`
	Description  string `yaml:"description,omitempty" json:"description,omitempty"`
}

// SkippedFile records why DiscoverFromDir ignored a file.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

var (
	projectNameRe = regexp.MustCompile(`^[a-z][a-z0-9-]{0,62}$`)
	objectNameRe  = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
)

// HasFeature reports whether a feature was requested, directly or by
// implication (any object feature implies FeatureDurableObject).
func (p *Project) HasFeature(f Feature) bool {
	for _, have := range p.Features {
		if have == f {
			return true
		}
	}
	if f == FeatureDurableObject {
		for _, obj := range objectFeatures {
			for _, have := range p.Features {
				if have == obj {
					return true
				}
			}
		}
	}
	return false
}

// Validate checks the manifest and fills derivable defaults in place.
func (p *Project) Validate() error {
	if !projectNameRe.MatchString(p.Name) {
		return fmt.Errorf("%w: %q (want lowercase letters, digits, hyphens)", ErrInvalidProjectName, p.Name)
	}
	for _, f := range p.Features {
		if !knownFeatures[f] {
			return fmt.Errorf("%w: %q", ErrUnknownFeature, f)
		}
	}

	if p.CompatibilityDate == "" {
		p.CompatibilityDate = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", p.CompatibilityDate); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidCompatDate, p.CompatibilityDate)
	}

	if p.HasFeature(FeatureDurableObject) && p.ObjectName == "" {
		p.ObjectName = DeriveObjectName(p.Name)
	}
	if p.ObjectName != "" && !objectNameRe.MatchString(p.ObjectName) {
		return fmt.Errorf("%w: %q (want PascalCase identifier)", ErrInvalidObjectName, p.ObjectName)
	}

	if p.Patch.Branch == "" {
		p.Patch.Branch = "scaffold/" + p.Name
	}
	if p.Patch.CreateBranch == nil {
		create := true
		p.Patch.CreateBranch = &create
	}
	if p.Patch.Title == "" {
		p.Patch.Title = "Scaffold " + p.Name
	}
	if p.Patch.Description == "" {
		p.Patch.Description = "Initial project scaffold for " + p.Name + "."
	}
	return nil
}

// DeriveObjectName converts a project name into a PascalCase class name:
// "word-counter" → "WordCounter".
func DeriveObjectName(name string) string {
	out := make([]byte, 0, len(name))
	upper := true
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '-' {
			upper = true
			continue
		}
		if upper && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper = false
		out = append(out, c)
	}
	return string(out)
}
