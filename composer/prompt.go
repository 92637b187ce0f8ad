package composer

import (
	"fmt"
	"strings"

	"github.com/workerforge/workerforge/manifest"
	"github.com/workerforge/workerforge/response"
)

// ============================================================================
// PROMPT BUILDER — Manifest-Driven Instruction Generation
// ============================================================================
// Two prompts live here:
//
//   BuildInstructions — the full scaffolding instruction document for a
//     generation tool: output conventions (path annotations, fence
//     escaping, required minimum file set, patch-configuration block)
//     plus the project brief. Consumers hand this to any model that
//     should produce response documents workerforge can lint and apply.
//
//   buildComposePrompt — the narrow metadata-drafting prompt used by
//     Compose. The model sees the manifest and the brief, never file
//     contents, and replies with JSON only.
// ============================================================================

// BuildInstructions generates the complete instruction document for a
// generation tool scaffolding this project.
func BuildInstructions(p manifest.Project) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are a scaffolding assistant generating a serverless worker project named "%s".

OUTPUT CONVENTIONS:
Each generated file MUST be emitted as a fenced code block whose info string carries the language tag followed by the target file path, for example:

`, p.Name)
	b.WriteString("    ```ts src/index.ts\n    ...file content...\n    ```\n\n")
	b.WriteString(`Any triple-backtick sequence INSIDE file content must be escaped with a leading backslash so it does not terminate the enclosing block.

REQUIRED FILES:
Every response must produce at least the following files:
`)
	for _, path := range response.MinimumFileSet {
		fmt.Fprintf(&b, "  - %s\n", path)
	}

	b.WriteString(`
PATCH CONFIGURATION:
The response must end with exactly one patch-configuration block declaring the patch metadata:

`)
	b.WriteString("    ```json " + response.PatchLabel + "\n")
	fmt.Fprintf(&b, "    {\"branch\": %q, \"createBranch\": true, \"title\": \"...\", \"description\": \"...\"}\n", p.Patch.Branch)
	b.WriteString("    ```\n")

	b.WriteString(projectBriefSection(p))
	return b.String()
}

// buildComposePrompt generates the metadata-drafting prompt for Compose.
func buildComposePrompt(brief string, p manifest.Project) string {
	var b strings.Builder

	b.WriteString(`You are a release assistant for a worker-project scaffolding tool.

YOUR ROLE:
Draft patch metadata and a README summary for the scaffold described below.
You are a DRAFTING ASSISTANT ONLY — do NOT generate any project files.
`)
	b.WriteString(projectBriefSection(p))

	if brief != "" {
		b.WriteString("\nBRIEF FROM THE USER:\n" + brief + "\n")
	}

	b.WriteString(`
RESPONSE FORMAT:
Respond with valid JSON only, no prose, matching:
{
  "branch": "scaffold/<project-name>",
  "title": "short patch title",
  "description": "one or two sentences describing the patch",
  "summary": "one paragraph for the README",
  "confidence": 0.0-1.0
}
`)
	return b.String()
}

// projectBriefSection renders the manifest as prompt context.
func projectBriefSection(p manifest.Project) string {
	var b strings.Builder

	b.WriteString("\nPROJECT:\n")
	fmt.Fprintf(&b, "  name: %s\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(&b, "  description: %s\n", p.Description)
	}
	fmt.Fprintf(&b, "  compatibility date: %s\n", p.CompatibilityDate)

	if p.HasFeature(manifest.FeatureDurableObject) {
		fmt.Fprintf(&b, "  durable object class: %s\n", p.ObjectName)
		b.WriteString("  features:\n")
		for _, f := range p.Features {
			fmt.Fprintf(&b, "    - %s\n", f)
		}
	} else {
		b.WriteString("  features: stateless worker, no durable object\n")
	}
	return b.String()
}
