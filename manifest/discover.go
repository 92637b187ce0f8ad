package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// ============================================================================
// AUTO-DISCOVERY — Reconstructs a Project from an existing directory
// ============================================================================
// Inspects a worker project on disk and generates a manifest without any
// AI. Heuristic, not a parser for the platform's config dialect:
//
//   1. wrangler.jsonc → project name, compatibility date, object bindings
//   2. package.json   → name fallback
//   3. src/index.ts   → feature detection from handler signatures
//
// Files that exist but could not be read or decoded land in
// Project.SkippedFiles with the reason, never abort discovery.
// ============================================================================

// DiscoverFromDir builds a Project by inspecting a project directory.
func DiscoverFromDir(dir string) (*Project, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	p := &Project{
		DiscoveredFrom: dir,
		DiscoveredAt:   time.Now().Format(time.RFC3339),
	}

	skip := func(path, reason string) {
		p.SkippedFiles = append(p.SkippedFiles, SkippedFile{Path: path, Reason: reason})
	}

	// 1. Platform configuration file
	if data, err := os.ReadFile(filepath.Join(dir, "wrangler.jsonc")); err == nil {
		if err := discoverWranglerConfig(p, data); err != nil {
			skip("wrangler.jsonc", err.Error())
		}
	} else if !os.IsNotExist(err) {
		skip("wrangler.jsonc", err.Error())
	}

	// 2. Package manifest (name fallback only)
	if p.Name == "" {
		if data, err := os.ReadFile(filepath.Join(dir, "package.json")); err == nil {
			var pkg struct {
				Name string `json:"name"`
			}
			if err := json.Unmarshal(data, &pkg); err != nil {
				skip("package.json", "invalid JSON: "+err.Error())
			} else {
				p.Name = sanitizeFallbackName(pkg.Name)
			}
		}
	}
	if p.Name == "" {
		p.Name = sanitizeFallbackName(filepath.Base(dir))
	}

	// 3. Worker entry point → feature detection
	if data, err := os.ReadFile(filepath.Join(dir, "src", "index.ts")); err == nil {
		discoverEntryFeatures(p, string(data))
	} else if os.IsNotExist(err) {
		skip("src/index.ts", "entry point not found")
	} else {
		skip("src/index.ts", err.Error())
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("discovered manifest invalid: %w", err)
	}
	return p, nil
}

var lineCommentRe = regexp.MustCompile(`(?m)(^|[^:"])//[^\n]*`)

// discoverWranglerConfig extracts name, compatibility date, and object
// bindings from a wrangler.jsonc file. Comments are stripped first; the
// platform's config dialect is JSON with comments.
func discoverWranglerConfig(p *Project, data []byte) error {
	stripped := lineCommentRe.ReplaceAllString(string(data), "$1")

	var cfg struct {
		Name              string `json:"name"`
		CompatibilityDate string `json:"compatibility_date"`
		DurableObjects    struct {
			Bindings []struct {
				Name      string `json:"name"`
				ClassName string `json:"class_name"`
			} `json:"bindings"`
		} `json:"durable_objects"`
	}
	if err := json.Unmarshal([]byte(stripped), &cfg); err != nil {
		return fmt.Errorf("invalid JSONC: %w", err)
	}

	p.Name = cfg.Name
	p.CompatibilityDate = cfg.CompatibilityDate
	if len(cfg.DurableObjects.Bindings) > 0 {
		p.ObjectName = cfg.DurableObjects.Bindings[0].ClassName
		p.Features = appendFeature(p.Features, FeatureDurableObject)
	}
	return nil
}

// entrySignatures maps handler/API markers in the entry source to features.
var entrySignatures = []struct {
	marker  string
	feature Feature
}{
	{"extends DurableObject", FeatureDurableObject},
	{"alarm(", FeatureAlarm},
	{"setAlarm", FeatureAlarm},
	{"webSocketMessage", FeatureWebSocket},
	{"acceptWebSocket", FeatureWebSocket},
	{"ctx.storage.sql", FeatureSQL},
	{"sql.exec", FeatureSQL},
}

// discoverEntryFeatures scans entry-point source for feature markers.
func discoverEntryFeatures(p *Project, src string) {
	for _, sig := range entrySignatures {
		if strings.Contains(src, sig.marker) {
			p.Features = appendFeature(p.Features, sig.feature)
		}
	}
	// RPC: public async methods on the object class outside the standard
	// handler set.
	if p.HasFeature(FeatureDurableObject) {
		for _, m := range rpcMethodRe.FindAllStringSubmatch(src, -1) {
			name := m[1]
			if name != "fetch" && name != "alarm" && !strings.HasPrefix(name, "webSocket") {
				p.Features = appendFeature(p.Features, FeatureRPC)
				break
			}
		}
	}
}

var rpcMethodRe = regexp.MustCompile(`(?m)^\s+async\s+([a-z]\w*)\s*\(`)

// sanitizeFallbackName coerces a derived name (directory basename,
// package manifest name) into the accepted project-name form. Real
// directories carry uppercase, underscores, and scopes; discovery stays
// tolerant instead of failing validation on them.
func sanitizeFallbackName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}

	name := b.String()
	for name != "" && (name[0] < 'a' || name[0] > 'z') {
		name = name[1:]
	}
	name = strings.TrimRight(name, "-")
	if len(name) > 63 {
		name = strings.TrimRight(name[:63], "-")
	}
	if name == "" {
		return "worker-project"
	}
	return name
}

func appendFeature(features []Feature, f Feature) []Feature {
	for _, have := range features {
		if have == f {
			return features
		}
	}
	return append(features, f)
}
