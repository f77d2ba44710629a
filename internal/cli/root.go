// Package cli wires the mdbook-rust-doc commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command when called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "mdbook-rust-doc",
	Short: "Inject Rust doc comments into mdBook documentation",
	Long: `mdbook-rust-doc keeps narrative documentation in sync with the doc
comments in your Rust crates. Chapters reference items by path:

    {{#rust_doc mycrate::module::Type::field}}

and the build replaces each directive with the item's doc comment,
failing loudly when a path no longer matches the code.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
