package response

// ============================================================================
// RESPONSE TYPES — Contract between the generation tool and its consumers
// ============================================================================
// A response document is plain markdown-flavored text:
//   - one fenced code block per generated file, the fence info string
//     carrying the language tag and the target path annotation
//   - triple-backtick sequences inside file content escaped with a
//     leading backslash
//   - exactly one trailing patch-configuration block declaring the
//     patch/PR metadata
// ============================================================================

// FileBlock is a single generated file: target path, language tag, content.
type FileBlock struct {
	Path    string `json:"path"`
	Lang    string `json:"lang,omitempty"`
	Content string `json:"content"`

	// Line is the 1-based line of the opening fence in the source
	// document. Zero for blocks built programmatically.
	Line int `json:"line,omitempty"`
}

// PatchConfig is the trailing structured block declaring patch metadata.
type PatchConfig struct {
	Branch       string `json:"branch"`
	CreateBranch bool   `json:"createBranch"`
	Title        string `json:"title"`
	Description  string `json:"description"`
}

// Response is a fully parsed response document.
type Response struct {
	Files []FileBlock  `json:"files"`
	Patch *PatchConfig `json:"patch,omitempty"`
}

// File returns the file block for a path, or nil if absent.
func (r *Response) File(path string) *FileBlock {
	for i := range r.Files {
		if r.Files[i].Path == path {
			return &r.Files[i]
		}
	}
	return nil
}

// Paths returns the target paths of all file blocks, in document order.
func (r *Response) Paths() []string {
	paths := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		paths = append(paths, f.Path)
	}
	return paths
}

// PatchLabel identifies the patch-configuration block in the fence info
// string. A patch block opens as: ```json patch-config
const PatchLabel = "patch-config"

// MinimumFileSet lists the files every scaffold response must produce:
// a README, the worker entry point, the platform configuration file,
// the package manifest, and the type-checking configuration.
var MinimumFileSet = []string{
	"README.md",
	"src/index.ts",
	"wrangler.jsonc",
	"package.json",
	"tsconfig.json",
}
