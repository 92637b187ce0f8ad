package response

import (
	"fmt"
	"sort"
	"strings"

	"github.com/workerforge/workerforge/helpers"
)

// ============================================================================
// RESPONSE LINTER — Formatting invariants for response documents
// ============================================================================
// The two contract properties, plus the checks that make them actionable:
//   "every generated file block must carry a valid path annotation"
//   "every response must include exactly one patch-configuration block
//    with the required fields present"
// The linter never aborts on the first problem — it reports everything,
// with the line of the offending fence.
// ============================================================================

// Severity classifies a lint finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is a single lint result.
type Finding struct {
	Line     int      `json:"line,omitempty"`
	Severity Severity `json:"severity"`
	Rule     string   `json:"rule"`
	Message  string   `json:"message"`
}

// Report collects the findings for one document.
type Report struct {
	Findings []Finding `json:"findings"`
	Files    int       `json:"files"`
}

// OK reports whether the document passed with no errors.
func (r *Report) OK() bool { return r.ErrorCount() == 0 }

// ErrorCount returns the number of error-severity findings.
func (r *Report) ErrorCount() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Text renders the report as a human-readable summary.
func (r *Report) Text() string {
	if len(r.Findings) == 0 {
		return fmt.Sprintf("OK: %d file blocks, no findings", r.Files)
	}
	var b strings.Builder
	for _, f := range r.Findings {
		if f.Line > 0 {
			fmt.Fprintf(&b, "line %d: ", f.Line)
		}
		fmt.Fprintf(&b, "%s [%s]: %s\n", f.Severity, f.Rule, f.Message)
	}
	fmt.Fprintf(&b, "%d file blocks, %d errors, %d warnings",
		r.Files, r.ErrorCount(), len(r.Findings)-r.ErrorCount())
	return b.String()
}

// LintOption configures linting via functional options.
type LintOption func(*lintConfig)

type lintConfig struct {
	requiredFiles []string
}

// WithRequiredFiles overrides the minimum file set the linter enforces.
func WithRequiredFiles(paths ...string) LintOption {
	return func(c *lintConfig) {
		c.requiredFiles = paths
	}
}

// WithoutMinimumSet disables the minimum-file-set check, for partial
// patch responses that only touch existing files.
func WithoutMinimumSet() LintOption {
	return func(c *lintConfig) {
		c.requiredFiles = nil
	}
}

// Lint checks a document against the response-format contract.
func Lint(doc string, opts ...LintOption) *Report {
	cfg := &lintConfig{requiredFiles: MinimumFileSet}
	for _, opt := range opts {
		opt(cfg)
	}

	report := &Report{}
	add := func(line int, sev Severity, rule, format string, args ...interface{}) {
		report.Findings = append(report.Findings, Finding{
			Line:     line,
			Severity: sev,
			Rule:     rule,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	if strings.TrimSpace(doc) == "" {
		add(0, SeverityError, "empty-document", "response document is empty")
		return report
	}

	seen := map[string]int{} // cleaned path → line of first occurrence
	patchBlocks := 0

	for _, b := range scan(doc) {
		if !b.terminated {
			add(b.line, SeverityError, "unterminated-fence", "code fence is never closed")
			continue
		}

		if b.isPatch {
			patchBlocks++
			if patchBlocks > 1 {
				add(b.line, SeverityError, "patch-config", "more than one patch-configuration block")
				continue
			}
			if _, err := parsePatch(b.content); err != nil {
				add(b.line, SeverityError, "patch-config", "%v", err)
			}
			continue
		}

		report.Files++
		if b.annotation == "" {
			add(b.line, SeverityError, "path-annotation", "code block has no path annotation")
			continue
		}
		cleaned, err := helpers.CleanAnnotation(b.annotation)
		if err != nil {
			add(b.line, SeverityError, "path-annotation", "%v", err)
			continue
		}
		if first, dup := seen[cleaned]; dup {
			add(b.line, SeverityError, "duplicate-path", "path %q already generated at line %d", cleaned, first)
			continue
		}
		seen[cleaned] = b.line
		if strings.TrimSpace(b.content) == "" {
			add(b.line, SeverityWarning, "empty-content", "file %q has no content", cleaned)
		}
	}

	if report.Files == 0 {
		add(0, SeverityError, "no-file-blocks", "document contains no file blocks")
	}
	if patchBlocks == 0 {
		add(0, SeverityError, "patch-config", "document has no patch-configuration block")
	}

	var missing []string
	for _, req := range cfg.requiredFiles {
		if _, ok := seen[req]; !ok {
			missing = append(missing, req)
		}
	}
	sort.Strings(missing)
	for _, m := range missing {
		add(0, SeverityError, "minimum-file-set", "required file %q is missing", m)
	}

	return report
}
