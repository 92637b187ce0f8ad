package response

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/workerforge/workerforge/helpers"
)

// ============================================================================
// RESPONSE PARSER — Extracts file blocks and patch config from a document
// ============================================================================
// Two layers:
//   scan()  — raw fence scanner. Never fails on malformed blocks; records
//             what it saw so the linter can report precisely.
//   Parse() — strict consumer view. Malformed annotations, unterminated
//             fences, and missing/duplicate patch blocks are errors.
// ============================================================================

// rawBlock is one fenced region as scanned, before interpretation.
type rawBlock struct {
	info       string // fence info string, trimmed
	lang       string
	annotation string // second info field, "" if absent
	content    string
	line       int // 1-based line of the opening fence
	terminated bool
	isPatch    bool
}

// scan walks the document line by line and collects fenced blocks.
// Escaped fences inside content (lines whose backticks are preceded by
// one or more backslashes) have one backslash stripped.
func scan(doc string) []rawBlock {
	var blocks []rawBlock
	lines := strings.Split(doc, "\n")

	var cur *rawBlock
	var content []string

	for i, line := range lines {
		if cur == nil {
			if isFence(line) {
				info := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "```"))
				b := rawBlock{info: info, line: i + 1}
				b.lang, b.annotation = splitInfo(info)
				b.isPatch = b.annotation == PatchLabel ||
					(b.annotation == "" && b.lang == PatchLabel)
				cur = &b
				content = content[:0]
			}
			continue
		}

		if isFence(line) && strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "```")) == "" {
			cur.content = strings.Join(content, "\n")
			cur.terminated = true
			blocks = append(blocks, *cur)
			cur = nil
			continue
		}
		content = append(content, unescapeFence(line))
	}

	if cur != nil {
		cur.content = strings.Join(content, "\n")
		blocks = append(blocks, *cur)
	}
	return blocks
}

// isFence reports whether a line opens or closes a fenced block.
func isFence(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "```")
}

// splitInfo splits a fence info string into language tag and annotation.
// Convention: "<lang> <path>". A single field that looks like a path
// (contains a slash or a dot) is treated as an annotation with no tag.
func splitInfo(info string) (lang, annotation string) {
	fields := strings.Fields(info)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		if strings.ContainsAny(fields[0], "/.") {
			return "", fields[0]
		}
		return fields[0], ""
	default:
		return fields[0], fields[1]
	}
}

// unescapeFence strips one backslash from an escaped fence line.
// Render adds one, so round-tripping preserves content exactly.
// Escaping sits after any indentation: "  \```" unescapes to "  ```".
func unescapeFence(line string) string {
	i := len(line) - len(strings.TrimLeft(line, " \t"))
	rest := line[i:]
	stripped := strings.TrimLeft(rest, "\\")
	if strings.HasPrefix(stripped, "```") && len(stripped) < len(rest) {
		return line[:i] + rest[1:]
	}
	return line
}

// Parse extracts a Response from a document. It fails on blocks with
// invalid path annotations, unterminated fences, a missing patch block,
// or more than one patch block.
func Parse(doc string) (*Response, error) {
	if strings.TrimSpace(doc) == "" {
		return nil, fmt.Errorf("empty response document")
	}

	resp := &Response{}
	for _, b := range scan(doc) {
		if !b.terminated {
			return nil, fmt.Errorf("line %d: unterminated code fence", b.line)
		}
		if b.isPatch {
			if resp.Patch != nil {
				return nil, fmt.Errorf("line %d: multiple patch-configuration blocks", b.line)
			}
			patch, err := parsePatch(b.content)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", b.line, err)
			}
			resp.Patch = patch
			continue
		}
		if b.annotation == "" {
			return nil, fmt.Errorf("line %d: code block has no path annotation", b.line)
		}
		cleaned, err := helpers.CleanAnnotation(b.annotation)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", b.line, err)
		}
		resp.Files = append(resp.Files, FileBlock{
			Path:    cleaned,
			Lang:    b.lang,
			Content: b.content,
			Line:    b.line,
		})
	}

	if len(resp.Files) == 0 {
		return nil, fmt.Errorf("response document contains no file blocks")
	}
	if resp.Patch == nil {
		return nil, fmt.Errorf("response document has no patch-configuration block")
	}
	return resp, nil
}

// parsePatch decodes a patch-configuration block body.
// All four fields are required; createBranch must be explicitly present.
func parsePatch(body string) (*PatchConfig, error) {
	var raw struct {
		Branch       *string `json:"branch"`
		CreateBranch *bool   `json:"createBranch"`
		Title        *string `json:"title"`
		Description  *string `json:"description"`
	}
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("invalid patch-configuration JSON: %w", err)
	}

	var missing []string
	if raw.Branch == nil || *raw.Branch == "" {
		missing = append(missing, "branch")
	}
	if raw.CreateBranch == nil {
		missing = append(missing, "createBranch")
	}
	if raw.Title == nil || *raw.Title == "" {
		missing = append(missing, "title")
	}
	if raw.Description == nil || *raw.Description == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("patch-configuration missing fields: %s", strings.Join(missing, ", "))
	}

	return &PatchConfig{
		Branch:       *raw.Branch,
		CreateBranch: *raw.CreateBranch,
		Title:        *raw.Title,
		Description:  *raw.Description,
	}, nil
}
