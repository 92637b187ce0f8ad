package response

import (
	"strings"
	"testing"
)

// ============================================================================
// PARSER TESTS — Document → Response extraction
// ============================================================================

const sampleDoc = "Here is your project.\n\n" +
	"```md README.md\n# demo\n\nA demo worker.\n```\n\n" +
	"```ts src/index.ts\nexport default {\n  async fetch(): Promise<Response> {\n    return new Response(\"ok\");\n  },\n};\n```\n\n" +
	"```jsonc wrangler.jsonc\n{ \"name\": \"demo\" }\n```\n\n" +
	"```jsonc package.json\n{ \"name\": \"demo\" }\n```\n\n" +
	"```jsonc tsconfig.json\n{}\n```\n\n" +
	"```json patch-config\n{\"branch\": \"scaffold/demo\", \"createBranch\": true, \"title\": \"Scaffold demo\", \"description\": \"Initial scaffold.\"}\n```\n"

func TestParseSampleDocument(t *testing.T) {
	resp, err := Parse(sampleDoc)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(resp.Files) != 5 {
		t.Fatalf("expected 5 file blocks, got %d", len(resp.Files))
	}

	readme := resp.File("README.md")
	if readme == nil {
		t.Fatal("README.md block not found")
	}
	if readme.Lang != "md" {
		t.Errorf("README lang = %q, want md", readme.Lang)
	}
	if !strings.Contains(readme.Content, "A demo worker.") {
		t.Errorf("README content wrong: %q", readme.Content)
	}

	if resp.Patch == nil {
		t.Fatal("patch configuration not parsed")
	}
	if resp.Patch.Branch != "scaffold/demo" {
		t.Errorf("patch branch = %q", resp.Patch.Branch)
	}
	if !resp.Patch.CreateBranch {
		t.Error("createBranch should be true")
	}
}

func TestParseEscapedFences(t *testing.T) {
	doc := "```md README.md\n# demo\n\n\\```\nnpm run dev\n\\```\n```\n\n" +
		"```json patch-config\n{\"branch\": \"b\", \"createBranch\": false, \"title\": \"t\", \"description\": \"d\"}\n```\n"

	resp, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	content := resp.Files[0].Content
	if !strings.Contains(content, "```\nnpm run dev\n```") {
		t.Errorf("escaped fences not unescaped:\n%s", content)
	}
	if strings.Contains(content, "\\```") {
		t.Errorf("backslash escape left in content:\n%s", content)
	}
}

func TestParseErrors(t *testing.T) {
	patch := "```json patch-config\n{\"branch\": \"b\", \"createBranch\": true, \"title\": \"t\", \"description\": \"d\"}\n```\n"
	file := "```ts src/index.ts\nexport default {};\n```\n"

	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"empty document", "   \n", "empty response document"},
		{"no annotation", "```ts\ncode\n```\n" + patch, "no path annotation"},
		{"absolute path", "```ts /etc/passwd\ncode\n```\n" + patch, "absolute"},
		{"traversal path", "```ts ../../escape.ts\ncode\n```\n" + patch, "escapes the project root"},
		{"unterminated fence", "```ts src/index.ts\ncode\n", "unterminated"},
		{"no patch block", file, "no patch-configuration block"},
		{"two patch blocks", file + patch + patch, "multiple patch-configuration blocks"},
		{"no file blocks", patch, "no file blocks"},
		{"patch bad json", file + "```json patch-config\nnot json\n```\n", "invalid patch-configuration JSON"},
		{"patch missing fields", file + "```json patch-config\n{\"branch\": \"b\"}\n```\n", "missing fields: createBranch, title, description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.doc)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseReportsFenceLine(t *testing.T) {
	doc := "intro line\n\n```ts\ncode\n```\n"
	_, err := Parse(doc)
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error should carry the fence line, got %v", err)
	}
}

func TestSplitInfo(t *testing.T) {
	tests := []struct {
		info       string
		lang       string
		annotation string
	}{
		{"ts src/index.ts", "ts", "src/index.ts"},
		{"src/index.ts", "", "src/index.ts"},
		{"ts", "ts", ""},
		{"", "", ""},
		{"json patch-config", "json", "patch-config"},
	}

	for _, tt := range tests {
		lang, annotation := splitInfo(tt.info)
		if lang != tt.lang || annotation != tt.annotation {
			t.Errorf("splitInfo(%q) = (%q, %q), want (%q, %q)",
				tt.info, lang, annotation, tt.lang, tt.annotation)
		}
	}
}
