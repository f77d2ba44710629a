package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mythmon/mdbook-rust-doc/internal/config"
	"github.com/mythmon/mdbook-rust-doc/internal/crates"
	"github.com/mythmon/mdbook-rust-doc/internal/rustdoc"
)

var lookupCrates []string

// lookupCmd resolves a single item path and prints its doc comment.
var lookupCmd = &cobra.Command{
	Use:   "lookup <path>",
	Short: "Resolve one item path and print its doc comment",
	Long: `Lookup resolves a dotted Rust item path against the registered crates
and prints the attached doc comment.

Crates come from rust-doc.yml in the current directory and from
--crate flags. A --crate value is either "name=dir" or a bare crate
directory whose Cargo.toml supplies the name.

Examples:
  mdbook-rust-doc lookup widgets::shapes::Circle::radius --crate widgets=../widgets
  mdbook-rust-doc lookup mycrate::run --crate ~/src/mycrate
`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().StringArrayVarP(&lookupCrates, "crate", "c", nil,
		"crate registration, name=dir or a crate directory (repeatable)")
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromCwd()
	if err != nil {
		return err
	}

	roots, err := registeredCrates(cfg, lookupCrates)
	if err != nil {
		return err
	}

	resolver, err := newResolver(cfg, roots)
	if err != nil {
		return err
	}

	doc, err := resolver.Resolve(args[0])
	if err != nil {
		return fmt.Errorf("finding documentation: %w", err)
	}

	color.New(color.Bold).Fprintf(cmd.OutOrStdout(), "%s doc:\n\n", args[0])
	fmt.Fprintf(cmd.OutOrStdout(), "/// %s\n", strings.ReplaceAll(doc, "\n", "\n/// "))
	return nil
}

// registeredCrates merges crates from the config file with --crate
// flags; flags win conflicts.
func registeredCrates(cfg *config.Config, specs []string) (crates.Roots, error) {
	fromFlags, err := crates.FromSpecs(specs)
	if err != nil {
		return nil, fmt.Errorf("registering crates: %w", err)
	}
	return crates.Roots(cfg.Crates).Merge(fromFlags), nil
}

// newResolver builds a resolver honoring the configured source
// patterns.
func newResolver(cfg *config.Config, roots crates.Roots) (*rustdoc.Resolver, error) {
	loader, err := rustdoc.NewLoader(cfg.Source.Include, cfg.Source.Ignore)
	if err != nil {
		return nil, err
	}
	return rustdoc.NewResolver(roots,
		rustdoc.WithLoader(loader),
		rustdoc.WithVerbose(verbose),
	)
}
