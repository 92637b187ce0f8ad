package response

import (
	"strings"
	"testing"
)

// ============================================================================
// RENDERER TESTS — Response → document, round-trip with Parse
// ============================================================================

func testResponse() *Response {
	return &Response{
		Files: []FileBlock{
			{Path: "README.md", Lang: "md", Content: "# demo\n\nRun:\n\n```\nnpm run dev\n```"},
			{Path: "src/index.ts", Lang: "ts", Content: "export default {};"},
			{Path: "wrangler.jsonc", Content: "{ \"name\": \"demo\" }"},
			{Path: "package.json", Content: "{ \"name\": \"demo\" }"},
			{Path: "tsconfig.json", Content: "{}"},
		},
		Patch: &PatchConfig{
			Branch:       "scaffold/demo",
			CreateBranch: true,
			Title:        "Scaffold demo",
			Description:  "Initial scaffold.",
		},
	}
}

func TestRenderParseRoundTrip(t *testing.T) {
	orig := testResponse()

	doc, err := Render(orig)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	parsed, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse of rendered document failed: %v\ndocument:\n%s", err, doc)
	}

	if len(parsed.Files) != len(orig.Files) {
		t.Fatalf("round trip lost files: %d → %d", len(orig.Files), len(parsed.Files))
	}
	for i, f := range orig.Files {
		got := parsed.Files[i]
		if got.Path != f.Path {
			t.Errorf("file %d path = %q, want %q", i, got.Path, f.Path)
		}
		if got.Content != f.Content {
			t.Errorf("file %q content changed:\nwant: %q\ngot:  %q", f.Path, f.Content, got.Content)
		}
	}
	if *parsed.Patch != *orig.Patch {
		t.Errorf("patch changed: %+v → %+v", orig.Patch, parsed.Patch)
	}
}

func TestRenderEscapesInnerFences(t *testing.T) {
	doc, err := Render(testResponse())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(doc, "\\```\nnpm run dev\n\\```") {
		t.Errorf("inner fences not escaped:\n%s", doc)
	}
}

func TestRenderAlreadyEscapedContent(t *testing.T) {
	// Content that itself contains an escaped fence gains a second
	// backslash; Parse strips exactly one back off.
	r := testResponse()
	r.Files[1].Content = "see \\``` escaped fence:\n\\```"

	doc, err := Render(r)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	parsed, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := parsed.File("src/index.ts").Content; got != r.Files[1].Content {
		t.Errorf("content changed: %q → %q", r.Files[1].Content, got)
	}
}

func TestRenderDefaultsLangFromExtension(t *testing.T) {
	r := testResponse()
	doc, err := Render(r)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(doc, "```jsonc wrangler.jsonc") {
		t.Errorf("missing jsonc lang tag for wrangler.jsonc:\n%s", doc)
	}
	if !strings.Contains(doc, "```json "+PatchLabel) {
		t.Errorf("missing patch block opener:\n%s", doc)
	}
}

func TestRenderRejectsIncomplete(t *testing.T) {
	if _, err := Render(&Response{}); err == nil {
		t.Error("Render of empty response should fail")
	}
	if _, err := Render(&Response{Files: testResponse().Files}); err == nil {
		t.Error("Render without patch should fail")
	}
}

func TestRenderRejectsIncompletePatch(t *testing.T) {
	// Parse requires all patch fields, so Render refuses documents that
	// could never round-trip.
	r := testResponse()
	r.Patch.Title = ""
	r.Patch.Description = ""

	_, err := Render(r)
	if err == nil {
		t.Fatal("Render with empty patch fields should fail")
	}
	if !strings.Contains(err.Error(), "title") || !strings.Contains(err.Error(), "description") {
		t.Errorf("error should name the missing fields: %v", err)
	}
}
