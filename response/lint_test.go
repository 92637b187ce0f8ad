package response

import (
	"strings"
	"testing"
)

// ============================================================================
// LINTER TESTS — Formatting invariants
// ============================================================================

func findingRules(r *Report) []string {
	rules := make([]string, 0, len(r.Findings))
	for _, f := range r.Findings {
		rules = append(rules, f.Rule)
	}
	return rules
}

func assertHasRule(t *testing.T, r *Report, rule string) {
	t.Helper()
	for _, f := range r.Findings {
		if f.Rule == rule {
			return
		}
	}
	t.Errorf("expected finding %q, got %v", rule, findingRules(r))
}

func TestLintCleanDocument(t *testing.T) {
	report := Lint(sampleDoc)
	if !report.OK() {
		t.Fatalf("clean document should pass:\n%s", report.Text())
	}
	if report.Files != 5 {
		t.Errorf("Files = %d, want 5", report.Files)
	}
	if !strings.Contains(report.Text(), "no findings") {
		t.Errorf("Text() = %q", report.Text())
	}
}

func TestLintFindings(t *testing.T) {
	patch := "```json patch-config\n{\"branch\": \"b\", \"createBranch\": true, \"title\": \"t\", \"description\": \"d\"}\n```\n"

	tests := []struct {
		name     string
		doc      string
		wantRule string
	}{
		{"empty document", "", "empty-document"},
		{"missing annotation", "```ts\ncode\n```\n" + patch, "path-annotation"},
		{"invalid annotation", "```ts ../evil.ts\ncode\n```\n" + patch, "path-annotation"},
		{"unterminated", "```ts src/index.ts\ncode\n", "unterminated-fence"},
		{"no patch", "```ts src/index.ts\ncode\n```\n", "patch-config"},
		{"bad patch fields", "```ts src/index.ts\ncode\n```\n```json patch-config\n{}\n```\n", "patch-config"},
		{"duplicate path", "```ts src/index.ts\na\n```\n```ts src/index.ts\nb\n```\n" + patch, "duplicate-path"},
		{"only patch", patch, "no-file-blocks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Lint(tt.doc)
			if report.OK() {
				t.Fatal("expected errors, report is clean")
			}
			assertHasRule(t, report, tt.wantRule)
		})
	}
}

func TestLintMinimumFileSet(t *testing.T) {
	doc := "```ts src/index.ts\ncode\n```\n" +
		"```json patch-config\n{\"branch\": \"b\", \"createBranch\": true, \"title\": \"t\", \"description\": \"d\"}\n```\n"

	report := Lint(doc)
	assertHasRule(t, report, "minimum-file-set")

	missing := 0
	for _, f := range report.Findings {
		if f.Rule == "minimum-file-set" {
			missing++
		}
	}
	if missing != len(MinimumFileSet)-1 {
		t.Errorf("missing-file findings = %d, want %d", missing, len(MinimumFileSet)-1)
	}

	// Disabled for partial patch responses
	if report := Lint(doc, WithoutMinimumSet()); !report.OK() {
		t.Errorf("WithoutMinimumSet should pass:\n%s", report.Text())
	}

	// Custom required set
	report = Lint(doc, WithRequiredFiles("src/index.ts", "schema.sql"))
	found := false
	for _, f := range report.Findings {
		if f.Rule == "minimum-file-set" && strings.Contains(f.Message, "schema.sql") {
			found = true
		}
	}
	if !found {
		t.Errorf("custom required file not enforced: %v", findingRules(report))
	}
}

func TestLintEmptyContentWarning(t *testing.T) {
	doc := strings.Replace(sampleDoc, "```jsonc tsconfig.json\n{}\n```",
		"```jsonc tsconfig.json\n\n```", 1)

	report := Lint(doc)
	if !report.OK() {
		t.Fatalf("warnings must not fail the document:\n%s", report.Text())
	}
	assertHasRule(t, report, "empty-content")
}

func TestLintCollectsEverything(t *testing.T) {
	// Several independent problems in one document — all reported.
	doc := "```ts\nno annotation\n```\n" +
		"```ts src/index.ts\na\n```\n" +
		"```ts src/index.ts\nb\n```\n"

	report := Lint(doc, WithoutMinimumSet())
	assertHasRule(t, report, "path-annotation")
	assertHasRule(t, report, "duplicate-path")
	assertHasRule(t, report, "patch-config")
	if report.ErrorCount() < 3 {
		t.Errorf("ErrorCount = %d, want >= 3\n%s", report.ErrorCount(), report.Text())
	}
}
