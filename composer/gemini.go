package composer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/workerforge/workerforge/manifest"
)

// ============================================================================
// GEMINI COMPOSER — Calls Google Gemini for metadata drafting
// ============================================================================
// This is the ONLY file that makes external API calls.
// ============================================================================

// GeminiComposer implements Composer using the Google Gemini API.
type GeminiComposer struct {
	config Config
	client *http.Client
}

// NewGemini creates a new Gemini composer.
func NewGemini(cfg Config) *GeminiComposer {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash-lite"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	}

	return &GeminiComposer{
		config: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Compose drafts patch metadata and a README summary for the project.
func (g *GeminiComposer) Compose(brief string, p manifest.Project) (*ComposeResult, error) {
	prompt := buildComposePrompt(brief, p)

	log.Printf("🔄 Workerforge Composer: project=%q brief=%q", p.Name, truncate(brief, 80))

	reply, err := g.callGemini(prompt)
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}

	result, err := parseComposeReply(reply, p)
	if err != nil {
		log.Printf("⚠️ Workerforge Composer: parse failed, using manifest defaults: %v", err)
		return fallbackResult(p), nil
	}

	log.Printf("✅ Workerforge Composer: branch=%q title=%q confidence=%.2f",
		result.Branch, result.Title, result.Confidence)
	return result, nil
}

// ============================================================================
// GEMINI API CALL
// ============================================================================

// geminiRequest is the Gemini API request body.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// geminiResponse is the Gemini API response body.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// callGemini sends a prompt to the Gemini API and returns the text reply.
func (g *GeminiComposer) callGemini(prompt string) (string, error) {
	url := fmt.Sprintf("%s/%s:generateContent?key=%s",
		g.config.Endpoint, g.config.Model, g.config.APIKey)

	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{{Text: prompt}},
		}},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := g.client.Post(url, "application/json", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Gemini API returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("failed to parse Gemini response: %w", err)
	}

	if geminiResp.Error != nil {
		return "", fmt.Errorf("Gemini error %d: %s", geminiResp.Error.Code, geminiResp.Error.Message)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("Gemini returned empty response")
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

// ============================================================================
// HELPERS
// ============================================================================

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
