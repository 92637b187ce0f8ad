package response

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ============================================================================
// RESPONSE RENDERER — Emits the canonical textual form of a Response
// ============================================================================
// The inverse of Parse. Every file becomes a fenced block carrying its
// path annotation, fences inside content are escaped, and the single
// patch-configuration block trails the document.
// ============================================================================

// Render emits the canonical response document for a Response.
// Parse(Render(r)) preserves paths, contents, and patch fields.
func Render(r *Response) (string, error) {
	if r == nil || len(r.Files) == 0 {
		return "", fmt.Errorf("response has no file blocks")
	}
	if r.Patch == nil {
		return "", fmt.Errorf("response has no patch configuration")
	}
	if err := validatePatch(r.Patch); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, f := range r.Files {
		if err := renderFile(&b, f); err != nil {
			return "", err
		}
		b.WriteString("\n")
	}

	patch, err := json.MarshalIndent(r.Patch, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal patch configuration: %w", err)
	}
	b.WriteString("```json " + PatchLabel + "\n")
	b.Write(patch)
	b.WriteString("\n```\n")

	return b.String(), nil
}

// validatePatch mirrors the field requirements Parse enforces, so a
// rendered document always parses back. CreateBranch is a plain bool
// and always serializes.
func validatePatch(p *PatchConfig) error {
	var missing []string
	if p.Branch == "" {
		missing = append(missing, "branch")
	}
	if p.Title == "" {
		missing = append(missing, "title")
	}
	if p.Description == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return fmt.Errorf("patch configuration missing fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

func renderFile(b *strings.Builder, f FileBlock) error {
	if f.Path == "" {
		return fmt.Errorf("file block has no path")
	}
	lang := f.Lang
	if lang == "" {
		lang = langForPath(f.Path)
	}

	b.WriteString("```" + lang + " " + f.Path + "\n")
	for _, line := range strings.Split(f.Content, "\n") {
		b.WriteString(escapeFence(line))
		b.WriteString("\n")
	}
	b.WriteString("```\n")
	return nil
}

// escapeFence protects content lines that would read as fence syntax.
// One backslash is added in front of the (possibly already escaped)
// backticks; Parse strips exactly one back off.
func escapeFence(line string) string {
	i := len(line) - len(strings.TrimLeft(line, " \t"))
	rest := line[i:]
	stripped := strings.TrimLeft(rest, "\\")
	if strings.HasPrefix(stripped, "```") {
		return line[:i] + "\\" + rest
	}
	return line
}

// langForPath picks a fence language tag from the file extension.
func langForPath(path string) string {
	switch {
	case strings.HasSuffix(path, ".ts"):
		return "ts"
	case strings.HasSuffix(path, ".js"), strings.HasSuffix(path, ".mjs"):
		return "js"
	case strings.HasSuffix(path, ".json"), strings.HasSuffix(path, ".jsonc"):
		return "jsonc"
	case strings.HasSuffix(path, ".md"):
		return "md"
	case strings.HasSuffix(path, ".toml"):
		return "toml"
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		return "yaml"
	default:
		return "txt"
	}
}
