package helpers

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ============================================================================
// PATH HELPERS — Annotation validation and traversal-safe joins
// ============================================================================
// Path annotations name files relative to the project root. They are
// consumer input (model output, user documents), so every consumer of an
// annotation goes through CleanAnnotation before touching the filesystem.
// ============================================================================

// CleanAnnotation validates and normalizes a path annotation.
// Annotations must be relative, slash-separated, and stay inside the
// project root. Returns the cleaned path or an error describing the
// violation.
func CleanAnnotation(annotation string) (string, error) {
	p := strings.TrimSpace(annotation)
	if p == "" {
		return "", fmt.Errorf("empty path annotation")
	}
	if strings.ContainsAny(p, " \t") {
		return "", fmt.Errorf("path annotation %q contains whitespace", annotation)
	}
	if strings.Contains(p, "\\") {
		return "", fmt.Errorf("path annotation %q must use forward slashes", annotation)
	}
	if path.IsAbs(p) {
		return "", fmt.Errorf("path annotation %q is absolute", annotation)
	}
	cleaned := path.Clean(p)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("path annotation %q escapes the project root", annotation)
	}
	return cleaned, nil
}

// SafeJoin joins a cleaned annotation onto a destination directory,
// refusing results that land outside dest.
func SafeJoin(dest, annotation string) (string, error) {
	cleaned, err := CleanAnnotation(annotation)
	if err != nil {
		return "", err
	}
	joined := filepath.Join(dest, filepath.FromSlash(cleaned))
	rel, err := filepath.Rel(dest, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q resolves outside destination %q", annotation, dest)
	}
	return joined, nil
}
