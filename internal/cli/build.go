package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mythmon/mdbook-rust-doc/internal/book"
	"github.com/mythmon/mdbook-rust-doc/internal/config"
)

var (
	buildCrates []string
	buildOut    string
	quietFlag   bool
	watchFlag   bool
)

// buildCmd processes a book's chapters, splicing resolved doc comments
// into every directive.
var buildCmd = &cobra.Command{
	Use:   "build [book-dir]",
	Short: "Build the book, splicing doc comments into directives",
	Long: `Build scans the book's markdown chapters for {{#rust_doc path}}
directives, resolves each path against the registered crates, and
writes the spliced chapters to the output directory.

Any directive that cannot be resolved fails the build: a stale path
after a rename, an item with no doc comment, or an unregistered crate
all abort with a descriptive error and no output.

Examples:
  # Build the book in the current directory
  mdbook-rust-doc build

  # Build with an explicit crate registration
  mdbook-rust-doc build ./docs --crate widgets=../widgets

  # Rebuild on every source or chapter change
  mdbook-rust-doc build --watch
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringArrayVarP(&buildCrates, "crate", "c", nil,
		"crate registration, name=dir or a crate directory (repeatable)")
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "",
		"output directory (default from config: book)")
	buildCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "disable progress output")
	buildCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "rebuild when sources change")
}

func runBuild(cmd *cobra.Command, args []string) error {
	bookDir := "."
	if len(args) == 1 {
		bookDir = args[0]
	}

	cfg, err := config.LoadFromDir(bookDir)
	if err != nil {
		return err
	}

	// Crate paths in rust-doc.yml are relative to the book directory;
	// --crate flags stay relative to the working directory.
	for name, dir := range cfg.Crates {
		cfg.Crates[name] = joinIfRelative(bookDir, dir)
	}

	roots, err := registeredCrates(cfg, buildCrates)
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		return fmt.Errorf("no crates registered: add a crates section to rust-doc.yml or pass --crate")
	}

	srcDir := joinIfRelative(bookDir, cfg.Book.Src)
	outDir := buildOut
	if outDir == "" {
		outDir = joinIfRelative(bookDir, cfg.Book.Out)
	}

	// Each build gets a fresh resolver so crates are re-read from
	// disk: nothing is cached across runs.
	doBuild := func() error {
		resolver, err := newResolver(cfg, roots)
		if err != nil {
			return err
		}
		builder := book.NewBuilder(book.NewSplicer(resolver), quietFlag || watchFlag)
		stats, err := builder.Build(srcDir, outDir)
		if err != nil {
			return err
		}
		if !quietFlag {
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(),
				"✓ built %d chapter(s), copied %d file(s) to %s\n",
				stats.Chapters, stats.Copied, outDir)
		}
		return nil
	}

	if !watchFlag {
		return doBuild()
	}

	// Watch mode: an initial build failure is reported but keeps the
	// watcher alive, like any later failed rebuild.
	if err := doBuild(); err != nil {
		log.Printf("build failed: %v", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("interrupted, stopping watch")
		cancel()
	}()

	watchDirs := []string{srcDir}
	for _, dir := range roots {
		watchDirs = append(watchDirs, dir)
	}

	watcher, err := book.NewWatcher(watchDirs, doBuild)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	log.Printf("watching %d directories for changes", len(watchDirs))
	if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("watch mode failed: %w", err)
	}
	return nil
}

// joinIfRelative resolves a configured path against the book dir
// unless it is already absolute.
func joinIfRelative(bookDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(bookDir, path)
}
