package composer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/workerforge/workerforge/manifest"
)

// ============================================================================
// REPLY PARSER — Extracts ComposeResult from the model's reply
// ============================================================================

// parseComposeReply extracts a ComposeResult from the model's JSON reply.
func parseComposeReply(reply string, p manifest.Project) (*ComposeResult, error) {
	// Clean up reply — remove markdown code fences if present
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")
	reply = strings.TrimSpace(reply)

	var result ComposeResult
	if err := json.Unmarshal([]byte(reply), &result); err != nil {
		return nil, fmt.Errorf("failed to parse composer reply: %w (reply: %.200s)", err, reply)
	}

	// Apply manifest defaults for missing fields
	if result.Branch == "" {
		result.Branch = p.Patch.Branch
	}
	if result.Title == "" {
		result.Title = p.Patch.Title
	}
	if result.Description == "" {
		result.Description = p.Patch.Description
	}
	if result.Summary == "" {
		result.Summary = p.Description
	}
	if result.Confidence == 0 {
		result.Confidence = 0.5
	}

	return &result, nil
}

// fallbackResult returns a low-confidence draft built purely from the
// manifest. Used when the full reply parse fails.
func fallbackResult(p manifest.Project) *ComposeResult {
	return &ComposeResult{
		Branch:      p.Patch.Branch,
		Title:       p.Patch.Title,
		Description: p.Patch.Description,
		Summary:     p.Description,
		Confidence:  0.3,
	}
}
