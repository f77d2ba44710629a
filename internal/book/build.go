package book

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
)

// Builder processes a book source tree: markdown chapters go through
// the splicer, everything else is copied verbatim.
type Builder struct {
	splicer *Splicer
	quiet   bool
}

// NewBuilder creates a builder. When quiet is set, no progress bar is
// shown.
func NewBuilder(splicer *Splicer, quiet bool) *Builder {
	return &Builder{splicer: splicer, quiet: quiet}
}

// Stats summarizes one build.
type Stats struct {
	Chapters int
	Copied   int
}

// Build processes every file under srcDir into outDir, preserving the
// directory layout. Splicing happens fully in memory before anything
// is written: a build with an unresolvable directive produces no
// output at all, not a partially-written tree.
func (b *Builder) Build(srcDir, outDir string) (*Stats, error) {
	files, err := collectFiles(srcDir)
	if err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	if !b.quiet {
		bar = progressbar.Default(int64(len(files)), "building book")
	}

	stats := &Stats{}
	processed := make(map[string][]byte, len(files))
	for _, rel := range files {
		if bar != nil {
			bar.Add(1)
		}

		srcPath := filepath.Join(srcDir, filepath.FromSlash(rel))
		content, err := os.ReadFile(srcPath)
		if err != nil {
			return nil, fmt.Errorf("reading chapter %s: %w", srcPath, err)
		}

		if strings.HasSuffix(rel, ".md") {
			spliced, err := b.splicer.Splice(content)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", rel, err)
			}
			content = spliced
			stats.Chapters++
		} else {
			stats.Copied++
		}
		processed[rel] = content
	}

	if bar != nil {
		bar.Finish()
	}

	for _, rel := range files {
		outPath := filepath.Join(outDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
		if err := os.WriteFile(outPath, processed[rel], 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", outPath, err)
		}
	}
	return stats, nil
}

// collectFiles returns all regular files under srcDir as sorted,
// slash-separated relative paths.
func collectFiles(srcDir string) ([]string, error) {
	var files []string
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
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
