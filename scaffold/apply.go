package scaffold

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/workerforge/workerforge/helpers"
	"github.com/workerforge/workerforge/response"
)

// ============================================================================
// APPLY — Writes a parsed response document to a destination directory
// ============================================================================

// ApplyResult summarizes an Apply run.
type ApplyResult struct {
	Written []string              `json:"written"`
	Patch   *response.PatchConfig `json:"patch,omitempty"`
}

// Apply writes every file block under dest, creating directories as
// needed. Paths go through helpers.SafeJoin, so a malicious response
// cannot write outside dest. Existing files are only overwritten when
// overwrite is set.
func Apply(resp *response.Response, dest string, overwrite bool) (*ApplyResult, error) {
	if resp == nil || len(resp.Files) == 0 {
		return nil, fmt.Errorf("response has no file blocks to apply")
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create destination %s: %w", dest, err)
	}

	result := &ApplyResult{Patch: resp.Patch}
	for _, f := range resp.Files {
		target, err := helpers.SafeJoin(dest, f.Path)
		if err != nil {
			return nil, err
		}
		if !overwrite {
			if _, err := os.Stat(target); err == nil {
				return nil, fmt.Errorf("refusing to overwrite existing file %s", target)
			}
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", f.Path, err)
		}
		content := f.Content
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
		result.Written = append(result.Written, f.Path)
	}

	log.Printf("📦 Workerforge: wrote %d files under %s", len(result.Written), dest)
	return result, nil
}
