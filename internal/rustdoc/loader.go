package rustdoc

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// DefaultInclude and DefaultIgnore are the patterns used when the
// configuration does not override them.
var (
	DefaultInclude = []string{"**/*.rs"}
	DefaultIgnore  = []string{"target/**"}
)

// Loader discovers and reads the Rust sources of a crate.
type Loader struct {
	include []compiledPattern
	ignore  []compiledPattern
}

// NewLoader compiles the include and ignore glob patterns. Patterns
// match slash-separated paths relative to the crate's src directory.
func NewLoader(include, ignore []string) (*Loader, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}

	l := &Loader{}
	for _, pattern := range include {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		l.include = append(l.include, compiledPattern{pattern: pattern, glob: g})
	}
	for _, pattern := range ignore {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		l.ignore = append(l.ignore, compiledPattern{pattern: pattern, glob: g})
	}
	return l, nil
}

// Load walks the crate root's src directory and reads every matching
// source file. Files come back sorted by relative path so that module
// merging downstream is deterministic.
func (l *Loader) Load(root string) ([]SourceFile, error) {
	srcDir := filepath.Join(root, "src")
	if info, err := os.Stat(srcDir); err != nil {
		return nil, fmt.Errorf("reading crate source dir %s: %w", srcDir, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("crate source path %s is not a directory", srcDir)
	}

	var files []SourceFile
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walking %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if l.matchesAny(rel, l.ignore) || !l.matchesAny(rel, l.include) {
			return nil
		}

		text, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading source file %s: %w", path, err)
		}

		files = append(files, SourceFile{
			Path:   path,
			Rel:    rel,
			Module: modulePrefix(rel),
			Text:   text,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })
	return files, nil
}

func (l *Loader) matchesAny(rel string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(rel) {
			return true
		}
	}

	// "**/*.rs" compiled with a '/' separator does not match files in
	// the src root itself, so also try patterns with the **/ prefix
	// stripped for root-level paths.
	if !strings.Contains(rel, "/") {
		for _, cp := range patterns {
			if simplified, ok := strings.CutPrefix(cp.pattern, "**/"); ok {
				if g, err := glob.Compile(simplified, '/'); err == nil && g.Match(rel) {
					return true
				}
			}
		}
	}
	return false
}

// modulePrefix derives the module path a file's location implies.
// lib.rs, main.rs, and mod.rs contribute only their directories; any
// other file contributes its stem as a final segment.
func modulePrefix(rel string) []string {
	rel = strings.TrimSuffix(rel, ".rs")
	parts := strings.Split(rel, "/")

	stem := parts[len(parts)-1]
	switch stem {
	case "lib", "main", "mod":
		parts = parts[:len(parts)-1]
	}

	// Guard against an empty leading element for root-level files.
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
