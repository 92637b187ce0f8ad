package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/workerforge/workerforge/manifest"
	"github.com/workerforge/workerforge/response"
)

// ============================================================================
// APPLY TESTS — Response → files on disk
// ============================================================================

func TestApplyWritesFiles(t *testing.T) {
	resp, err := Generate(manifest.Project{Name: "demo"}, WithDurableObject("Demo"))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	dest := t.TempDir()
	result, err := Apply(resp, dest, false)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if len(result.Written) != len(resp.Files) {
		t.Errorf("Written = %d, want %d", len(result.Written), len(resp.Files))
	}
	if result.Patch == nil || result.Patch.Branch != "scaffold/demo" {
		t.Errorf("patch not carried through: %+v", result.Patch)
	}

	data, err := os.ReadFile(filepath.Join(dest, "src", "index.ts"))
	if err != nil {
		t.Fatalf("entry point not written: %v", err)
	}
	if !strings.Contains(string(data), "export class Demo") {
		t.Errorf("entry content wrong:\n%s", data)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("written files should end with a newline")
	}
}

func TestApplyRefusesOverwrite(t *testing.T) {
	resp := &response.Response{
		Files: []response.FileBlock{{Path: "README.md", Content: "# new"}},
		Patch: &response.PatchConfig{Branch: "b", Title: "t", Description: "d"},
	}

	dest := t.TempDir()
	if err := os.WriteFile(filepath.Join(dest, "README.md"), []byte("# old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Apply(resp, dest, false); err == nil {
		t.Fatal("Apply should refuse to overwrite without the flag")
	}
	data, _ := os.ReadFile(filepath.Join(dest, "README.md"))
	if string(data) != "# old" {
		t.Errorf("existing file was modified: %q", data)
	}

	if _, err := Apply(resp, dest, true); err != nil {
		t.Fatalf("Apply with overwrite failed: %v", err)
	}
	data, _ = os.ReadFile(filepath.Join(dest, "README.md"))
	if string(data) != "# new\n" {
		t.Errorf("overwrite did not happen: %q", data)
	}
}

func TestApplyBlocksTraversal(t *testing.T) {
	resp := &response.Response{
		Files: []response.FileBlock{{Path: "../escape.txt", Content: "evil"}},
	}

	parent := t.TempDir()
	dest := filepath.Join(parent, "project")
	if _, err := Apply(resp, dest, false); err == nil {
		t.Fatal("Apply should reject traversal paths")
	}
	if _, err := os.Stat(filepath.Join(parent, "escape.txt")); !os.IsNotExist(err) {
		t.Error("traversal file was written")
	}
}

func TestApplyEmptyResponse(t *testing.T) {
	if _, err := Apply(&response.Response{}, t.TempDir(), false); err == nil {
		t.Error("Apply of empty response should fail")
	}
}
