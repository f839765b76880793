package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"modlint/pkg/ast"
	"modlint/pkg/check"
	"modlint/pkg/diag"
	"modlint/pkg/parser"
)

// Runner discovers, parses and checks JavaScript sources for one project.
// Each Run constructs a fresh checker, so a Runner may be reused; distinct
// Runners over disjoint files are independent and safe to drive in parallel.
type Runner struct {
	cfg    *Config
	parser *parser.ScriptParser
	logger *log.Logger
}

// NewRunner returns a runner using the given config; a nil config means
// defaults. The caller owns Close.
func NewRunner(cfg *Config, logger *log.Logger) (*Runner, error) {
	if cfg == nil {
		cfg = &Config{}
		cfg.ApplyDefaults()
	}
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	p, err := parser.NewScriptParser()
	if err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, parser: p, logger: logger}, nil
}

// Close releases the parser.
func (r *Runner) Close() {
	if r != nil && r.parser != nil {
		r.parser.Close()
	}
}

// Run checks every JavaScript file under the given paths (files or
// directories) and returns kept diagnostics in file/position order.
func (r *Runner) Run(paths []string) ([]diag.Diagnostic, error) {
	files, err := r.Discover(paths)
	if err != nil {
		return nil, err
	}
	return r.RunFiles(files)
}

// RunFiles checks an explicit file list as one program: every script hangs
// under a single root and one checker instance traverses it, matching the
// full-program entry point.
func (r *Runner) RunFiles(files []string) ([]diag.Diagnostic, error) {
	root := ast.NewNode(ast.KindRoot)
	for _, path := range files {
		source, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("driver: read %s: %w", path, err)
		}
		script, err := r.parser.ParseScript(path, source)
		if err != nil {
			return nil, err
		}
		root.AddChild(script)
	}
	r.logger.Debug("parsed program", "files", len(files))

	collector := diag.NewCollector()
	externs := ast.NewNode(ast.KindRoot)
	check.NewModuleChecker(collector).Process(externs, root)

	return r.keep(collector.Diagnostics()), nil
}

// RecheckFile re-parses a single file and runs the incremental single-script
// path over it, skipping the sibling import checker.
func (r *Runner) RecheckFile(path string) ([]diag.Diagnostic, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("driver: read %s: %w", path, err)
	}
	script, err := r.parser.ParseScript(path, source)
	if err != nil {
		return nil, err
	}

	collector := diag.NewCollector()
	check.NewModuleChecker(collector).RecheckScript(script, script)
	return r.keep(collector.Diagnostics()), nil
}

// Discover expands files and directories into the sorted list of JavaScript
// sources the config admits.
func (r *Runner) Discover(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] && r.admits(path) {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("driver: %w", err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if r.excluded(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(p, ".js") {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("driver: walk %s: %w", path, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func (r *Runner) admits(path string) bool {
	if !strings.HasSuffix(path, ".js") || r.excluded(filepath.Base(path)) {
		return false
	}
	if len(r.cfg.Include) == 0 {
		return true
	}
	for _, pattern := range r.cfg.Include {
		if ok, _ := filepath.Match(pattern, filepath.Base(path)); ok {
			return true
		}
	}
	return false
}

func (r *Runner) excluded(name string) bool {
	for _, pattern := range r.cfg.Exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// keep applies the config's disable list and severity floor, preserving
// traversal order within a file.
func (r *Runner) keep(diags []diag.Diagnostic) []diag.Diagnostic {
	minSev := diag.SeverityWarning
	if r.cfg.Severity == "error" {
		minSev = diag.SeverityError
	}

	kept := make([]diag.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if r.cfg.Disabled(d.ID) || d.Sev > minSev {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}
