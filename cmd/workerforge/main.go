package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/workerforge/workerforge/composer"
	"github.com/workerforge/workerforge/config"
	"github.com/workerforge/workerforge/manifest"
	"github.com/workerforge/workerforge/response"
	"github.com/workerforge/workerforge/scaffold"
)

// ============================================================================
// WORKERFORGE CLI — Scaffolding toolchain for worker projects
// ============================================================================

const version = "0.3.0"

func main() {
	// ── Flags ─────────────────────────────────────────────────────────────
	newName := flag.String("new", "", "Scaffold a new project with this name")
	manifestPath := flag.String("manifest", "", "Path to a YAML project manifest (alternative to --new)")
	features := flag.String("features", "", "Comma-separated features: durable-object,alarm,websocket,sql,rpc")
	objectName := flag.String("object", "", "Durable object class name override")
	desc := flag.String("desc", "", "Project description")
	dest := flag.String("dest", "", "Destination directory for --new/--apply (default: project name)")
	emit := flag.Bool("emit", false, "Print the scaffold as a response document instead of writing files")
	checkPath := flag.String("check", "", "Lint a response document file")
	watch := flag.Bool("watch", false, "With --check: re-lint whenever the file changes")
	applyPath := flag.String("apply", "", "Parse a response document and write its files under --dest")
	discoverDir := flag.String("discover", "", "Reconstruct a manifest from an existing project directory")
	instructions := flag.Bool("instructions", false, "Print the generation-tool instruction document for the manifest")
	compose := flag.Bool("compose", false, "Draft patch metadata with the AI composer")
	brief := flag.String("brief", "", "Short brief for --compose")
	configPath := flag.String("config", "", "Path to workerforge config file (default: search)")
	format := flag.String("format", "", "Output format: json, pretty, text (default from config)")
	outFile := flag.String("out", "", "Write output to file instead of stdout")
	overwrite := flag.Bool("overwrite", false, "Allow --apply/--new to overwrite existing files")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Workerforge — scaffolding toolchain for worker projects

Usage:
  workerforge --new word-counter --features websocket,alarm
  workerforge --new word-counter --emit --out scaffold.md
  workerforge --check scaffold.md --watch
  workerforge --apply scaffold.md --dest ./word-counter
  workerforge --discover ./existing-project --format pretty
  workerforge --manifest project.yaml --instructions

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment:
  GEMINI_API_KEY       Required for --compose
  WORKERFORGE_FORMAT   Default output format
  WORKERFORGE_MODEL    Composer model override

Formats:
  json      Compact JSON output
  pretty    Pretty-printed JSON
  text      Human-readable summary (default)
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("workerforge %s\n", version)
		os.Exit(0)
	}

	// ── Configuration ─────────────────────────────────────────────────────
	loader := config.NewLoader()
	configFile := *configPath
	if configFile == "" {
		configFile = loader.FindConfigFile()
	}
	cfg, err := loader.Load(configFile)
	if err != nil {
		fatalf("Failed to load configuration: %v", err)
	}
	if *format == "" {
		*format = cfg.Tool.Format
	}
	if *overwrite {
		cfg.Tool.Overwrite = true
	}

	// ── Output writer ─────────────────────────────────────────────────────
	writer := os.Stdout
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			fatalf("Failed to create output file: %v", err)
		}
		defer f.Close()
		writer = f
	}

	// ── Mode dispatch ─────────────────────────────────────────────────────
	switch {
	case *checkPath != "":
		runCheck(writer, cfg, loader, configFile, *checkPath, *format, *watch)

	case *applyPath != "":
		if *dest == "" {
			fatalf("--apply requires --dest")
		}
		runApply(writer, cfg, *applyPath, *dest, *format)

	case *discoverDir != "":
		runDiscover(writer, *discoverDir, *format)

	case *newName != "" || *manifestPath != "":
		project := loadProject(cfg, *newName, *manifestPath, *features, *objectName, *desc)
		switch {
		case *instructions:
			fmt.Fprint(writer, composer.BuildInstructions(*project))
		case *compose:
			runCompose(writer, cfg, *project, *brief, *format)
		default:
			runScaffold(writer, cfg, *project, *dest, *emit, *format)
		}

	default:
		fmt.Fprintln(os.Stderr, "Error: one of --new, --manifest, --check, --apply, or --discover is required")
		flag.Usage()
		os.Exit(1)
	}
}

// loadProject builds the manifest from --manifest or the --new flags.
func loadProject(cfg *config.Config, name, manifestPath, features, objectName, desc string) *manifest.Project {
	var project *manifest.Project

	if manifestPath != "" {
		p, err := manifest.LoadFile(manifestPath)
		if err != nil {
			fatalf("Failed to load manifest: %v", err)
		}
		project = p
	} else {
		project = &manifest.Project{
			Name:              name,
			Description:       desc,
			ObjectName:        objectName,
			CompatibilityDate: cfg.Scaffold.CompatibilityDate,
		}
	}

	project.Features = append(project.Features, cfg.Scaffold.Features...)
	if features != "" {
		for _, f := range strings.Split(features, ",") {
			project.Features = append(project.Features, manifest.Feature(strings.TrimSpace(f)))
		}
	}
	if cfg.Scaffold.BranchPrefix != "" && project.Patch.Branch == "" {
		project.Patch.Branch = cfg.Scaffold.BranchPrefix + project.Name
	}
	if err := project.Validate(); err != nil {
		fatalf("Invalid project: %v", err)
	}
	return project
}

// ── Scaffold mode ─────────────────────────────────────────────────────────

func runScaffold(writer *os.File, cfg *config.Config, project manifest.Project, dest string, emit bool, format string) {
	resp, err := scaffold.Generate(project)
	if err != nil {
		fatalf("Scaffold failed: %v", err)
	}

	if emit {
		doc, err := response.Render(resp)
		if err != nil {
			fatalf("Render failed: %v", err)
		}
		fmt.Fprint(writer, doc)
		return
	}

	if dest == "" {
		dest = project.Name
	}
	result, err := scaffold.Apply(resp, dest, cfg.Tool.Overwrite)
	if err != nil {
		fatalf("Apply failed: %v", err)
	}
	writeResult(writer, result, format, func() string {
		return fmt.Sprintf("Scaffolded %s: %d files under %s", project.Name, len(result.Written), dest)
	})
}

// ── Check mode ────────────────────────────────────────────────────────────

func runCheck(writer *os.File, cfg *config.Config, loader *config.Loader, configFile, path, format string, watch bool) {
	if !watch {
		if report := checkDocument(writer, cfg, path, format); !report.OK() {
			os.Exit(1)
		}
		return
	}

	log.Printf("👀 Workerforge: watching %s (ctrl-c to stop)", path)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := watchAndCheck(ctx, writer, cfg, loader, configFile, path, format); err != nil {
		fatalf("Watch failed: %v", err)
	}
}

// checkDocument lints one response document and writes the report.
func checkDocument(writer *os.File, cfg *config.Config, path, format string) *response.Report {
	data, err := os.ReadFile(path)
	if err != nil {
		fatalf("Failed to read response document: %v", err)
	}
	report := response.Lint(string(data), lintOptions(cfg)...)
	writeResult(writer, report, format, report.Text)
	return report
}

// watchAndCheck re-lints the document whenever it changes. The resolved
// config file is watched through a config.Watcher, so edits to lint
// settings take effect between runs of a live session.
func watchAndCheck(ctx context.Context, writer *os.File, cfg *config.Config, loader *config.Loader, configFile, path, format string) error {
	var mu sync.Mutex
	current := cfg

	check := func() {
		mu.Lock()
		c := current
		mu.Unlock()
		checkDocument(writer, c, path, format)
	}
	check()

	if configFile != "" {
		watcher, err := config.NewWatcher(configFile, loader)
		if err != nil {
			return err
		}
		defer watcher.Stop()
		watcher.OnChange(func(_, newCfg *config.Config) {
			mu.Lock()
			current = newCfg
			mu.Unlock()
			check()
		})
		if err := watcher.Start(); err != nil {
			return err
		}
	}

	return config.WatchFiles(ctx, []string{path}, func(string) {
		check()
	})
}

func lintOptions(cfg *config.Config) []response.LintOption {
	var opts []response.LintOption
	if cfg.Lint.SkipMinimumSet {
		opts = append(opts, response.WithoutMinimumSet())
	} else if len(cfg.Lint.RequiredFiles) > 0 {
		opts = append(opts, response.WithRequiredFiles(cfg.Lint.RequiredFiles...))
	}
	return opts
}

// ── Apply mode ────────────────────────────────────────────────────────────

func runApply(writer *os.File, cfg *config.Config, path, dest, format string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fatalf("Failed to read response document: %v", err)
	}

	report := response.Lint(string(data), lintOptions(cfg)...)
	if !report.OK() {
		fatalf("Response document failed lint:\n%s", report.Text())
	}

	resp, err := response.Parse(string(data))
	if err != nil {
		fatalf("Parse failed: %v", err)
	}

	result, err := scaffold.Apply(resp, dest, cfg.Tool.Overwrite)
	if err != nil {
		fatalf("Apply failed: %v", err)
	}
	writeResult(writer, result, format, func() string {
		var b strings.Builder
		fmt.Fprintf(&b, "Applied %d files under %s\n", len(result.Written), dest)
		fmt.Fprintf(&b, "Patch: branch=%s create=%t\n  %s", result.Patch.Branch, result.Patch.CreateBranch, result.Patch.Title)
		return b.String()
	})
}

// ── Discover mode ─────────────────────────────────────────────────────────

func runDiscover(writer *os.File, dir, format string) {
	project, err := manifest.DiscoverFromDir(dir)
	if err != nil {
		fatalf("Discovery failed: %v", err)
	}
	log.Printf("🔍 Workerforge: discovered %q, features=%v, %d files skipped",
		project.Name, project.Features, len(project.SkippedFiles))
	writeResult(writer, project, format, func() string {
		return fmt.Sprintf("%s: object=%q features=%v", project.Name, project.ObjectName, project.Features)
	})
}

// ── Compose mode ──────────────────────────────────────────────────────────

func runCompose(writer *os.File, cfg *config.Config, project manifest.Project, brief, format string) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fatalf("GEMINI_API_KEY required for --compose")
	}

	c := composer.NewGemini(composer.Config{
		APIKey:   apiKey,
		Model:    cfg.Composer.Model,
		Endpoint: cfg.Composer.Endpoint,
	})
	result, err := c.Compose(brief, project)
	if err != nil {
		fatalf("Compose failed: %v", err)
	}
	writeResult(writer, result, format, func() string {
		return fmt.Sprintf("branch: %s\ntitle: %s\ndescription: %s\nsummary: %s",
			result.Branch, result.Title, result.Description, result.Summary)
	})
}

// ============================================================================
// OUTPUT
// ============================================================================

func writeResult(w *os.File, v interface{}, format string, text func() string) {
	switch format {
	case "text", "":
		fmt.Fprintln(w, text())
	case "pretty":
		writeJSON(w, v, true)
	default:
		writeJSON(w, v, false)
	}
}

func writeJSON(w *os.File, v interface{}, pretty bool) {
	var out []byte
	var err error

	if pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}

	if err != nil {
		fatalf("Failed to marshal output: %v", err)
	}
	fmt.Fprintln(w, string(out))
}

// ============================================================================
// HELPERS
// ============================================================================

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
