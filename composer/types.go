package composer

import "github.com/workerforge/workerforge/manifest"

// ============================================================================
// COMPOSER — AI boundary for drafting scaffold metadata
// ============================================================================
// The Composer is the ONLY component that calls an external AI service.
// It receives the project manifest + a short brief, and returns draft
// patch metadata and a README summary. It NEVER sees generated file
// contents. Only the manifest and the brief.
// ============================================================================

// Composer drafts scaffold metadata from a project brief.
// Implementations: Gemini (v1), others later.
type Composer interface {
	// Compose drafts patch metadata and a README summary for the project.
	Compose(brief string, p manifest.Project) (*ComposeResult, error)
}

// ComposeResult is the model's draft, parsed and defaulted.
type ComposeResult struct {
	Branch      string  `json:"branch"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Summary     string  `json:"summary"`    // one-paragraph README summary
	Confidence  float64 `json:"confidence"` // 0.0–1.0
}

// Config holds composer configuration.
type Config struct {
	APIKey   string // AI provider API key (consumer's key)
	Model    string // Model name (e.g., "gemini-2.5-flash-lite")
	Endpoint string // API endpoint override (empty = default)
}

// DefaultGeminiConfig returns a Config with sensible Gemini defaults.
func DefaultGeminiConfig(apiKey string) Config {
	return Config{
		APIKey:   apiKey,
		Model:    "gemini-2.5-flash-lite",
		Endpoint: "https://generativelanguage.googleapis.com/v1beta/models",
	}
}
