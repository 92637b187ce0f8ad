package scaffold

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/workerforge/workerforge/manifest"
	"github.com/workerforge/workerforge/response"
)

// ============================================================================
// GENERATOR — Manifest → response document
// ============================================================================
// Entry point: Generate(project, opts...)
//
// Pipeline:
//   1. Merge option features into the manifest, validate
//   2. Assemble the worker entry point from feature fragments
//   3. Emit the minimum file set + extras as file blocks
//   4. Attach the patch-configuration block from manifest defaults
//
// The generator never calls any external service. Drafting patch
// metadata with a model is the composer package's job.
// ============================================================================

// Generate produces a complete scaffold response for a project.
func Generate(p manifest.Project, opts ...Option) (*response.Response, error) {
	cfg := applyOptions(opts)

	for _, f := range cfg.extraFeatures {
		p.Features = appendFeature(p.Features, f)
	}
	if cfg.objectName != "" {
		p.ObjectName = cfg.objectName
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project manifest: %w", err)
	}

	log.Printf("🔨 Workerforge: scaffolding %q, features=%v, object=%q",
		p.Name, p.Features, p.ObjectName)

	desc := p.Description
	if desc == "" {
		desc = "A serverless worker project."
	}

	files := []response.FileBlock{
		{Path: "README.md", Lang: "md", Content: expand(readmeTemplate, map[string]string{
			"name":         p.Name,
			"description":  desc,
			"featureNotes": featureNotes(&p),
		})},
		{Path: "src/index.ts", Lang: "ts", Content: buildEntry(&p)},
		{Path: "wrangler.jsonc", Lang: "jsonc", Content: buildWranglerConfig(&p)},
		{Path: "package.json", Lang: "jsonc", Content: expand(packageJSONTemplate, map[string]string{
			"name": p.Name,
		})},
		{Path: "tsconfig.json", Lang: "jsonc", Content: tsconfigTemplate},
	}

	extraPaths := make([]string, 0, len(cfg.extraFiles))
	for path := range cfg.extraFiles {
		extraPaths = append(extraPaths, path)
	}
	sort.Strings(extraPaths)
	for _, path := range extraPaths {
		files = append(files, response.FileBlock{Path: path, Content: cfg.extraFiles[path]})
	}

	resp := &response.Response{
		Files: files,
		Patch: &response.PatchConfig{
			Branch:       p.Patch.Branch,
			CreateBranch: *p.Patch.CreateBranch,
			Title:        p.Patch.Title,
			Description:  p.Patch.Description,
		},
	}

	log.Printf("✅ Workerforge: %d files, patch branch %q", len(resp.Files), resp.Patch.Branch)
	return resp, nil
}

// buildEntry assembles src/index.ts from feature fragments.
func buildEntry(p *manifest.Project) string {
	if !p.HasFeature(manifest.FeatureDurableObject) {
		return expand(statelessEntryTemplate, map[string]string{"name": p.Name})
	}

	vars := map[string]string{
		"object":  p.ObjectName,
		"binding": BindingName(p.ObjectName),
	}

	var b strings.Builder
	b.WriteString(expand(objectEntryHeaderTemplate, vars))

	if p.HasFeature(manifest.FeatureSQL) {
		b.WriteString(objectConstructorSQL)
	} else {
		b.WriteString(objectConstructorKV)
	}

	switch {
	case p.HasFeature(manifest.FeatureWebSocket):
		b.WriteString(objectWebSocketFetch)
	case p.HasFeature(manifest.FeatureSQL):
		b.WriteString(objectFetchSQL)
	default:
		b.WriteString(objectFetchKV)
	}

	if p.HasFeature(manifest.FeatureAlarm) {
		b.WriteString(objectAlarm)
	}
	if p.HasFeature(manifest.FeatureRPC) {
		b.WriteString(objectRPC)
	}

	b.WriteString(expand(objectEntryFooterTemplate, vars))
	return b.String()
}

// buildWranglerConfig emits the platform configuration file, with object
// bindings and a migrations stanza when an object class is present.
func buildWranglerConfig(p *manifest.Project) string {
	var b strings.Builder
	b.WriteString("// Generated by workerforge. See https://developers.cloudflare.com/workers/wrangler/configuration/\n")
	b.WriteString("{\n")
	fmt.Fprintf(&b, "  \"name\": %q,\n", p.Name)
	b.WriteString("  \"main\": \"src/index.ts\",\n")
	fmt.Fprintf(&b, "  \"compatibility_date\": %q", p.CompatibilityDate)

	if p.HasFeature(manifest.FeatureDurableObject) {
		binding := BindingName(p.ObjectName)
		b.WriteString(",\n  \"durable_objects\": {\n    \"bindings\": [\n")
		fmt.Fprintf(&b, "      { \"name\": %q, \"class_name\": %q }\n", binding, p.ObjectName)
		b.WriteString("    ]\n  },\n")

		migrationKey := "new_classes"
		if p.HasFeature(manifest.FeatureSQL) {
			migrationKey = "new_sqlite_classes"
		}
		b.WriteString("  \"migrations\": [\n")
		fmt.Fprintf(&b, "    { \"tag\": \"v1\", %q: [%q] }\n", migrationKey, p.ObjectName)
		b.WriteString("  ]")
	}

	b.WriteString("\n}")
	return b.String()
}

// featureNotes renders the README section describing enabled features.
func featureNotes(p *manifest.Project) string {
	if !p.HasFeature(manifest.FeatureDurableObject) {
		return ""
	}
	var notes []string
	notes = append(notes, fmt.Sprintf("- `%s` is a durable object: each name maps to exactly one instance with its own persistent storage.", p.ObjectName))
	if p.HasFeature(manifest.FeatureSQL) {
		notes = append(notes, "- Object state lives in the built-in SQL storage.")
	}
	if p.HasFeature(manifest.FeatureWebSocket) {
		notes = append(notes, "- WebSocket connections use the hibernation API, so idle objects are evicted from memory without dropping connections.")
	}
	if p.HasFeature(manifest.FeatureAlarm) {
		notes = append(notes, "- An alarm handler wakes the object on schedule.")
	}
	if p.HasFeature(manifest.FeatureRPC) {
		notes = append(notes, "- Object methods are callable directly from other workers (RPC).")
	}
	return "\n## Features\n\n" + strings.Join(notes, "\n") + "\n"
}

// BindingName converts an object class name into its environment binding:
// "WordCounter" → "WORD_COUNTER".
func BindingName(objectName string) string {
	var b strings.Builder
	for i := 0; i < len(objectName); i++ {
		c := objectName[i]
		if c >= 'A' && c <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteByte(c)
		} else if c >= 'a' && c <= 'z' {
			b.WriteByte(c - ('a' - 'A'))
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func appendFeature(features []manifest.Feature, f manifest.Feature) []manifest.Feature {
	for _, have := range features {
		if have == f {
			return features
		}
	}
	return append(features, f)
}

// expand substitutes {{key}} placeholders in a template.
func expand(tpl string, vars map[string]string) string {
	out := tpl
	for key, val := range vars {
		out = strings.ReplaceAll(out, "{{"+key+"}}", val)
	}
	return out
}
