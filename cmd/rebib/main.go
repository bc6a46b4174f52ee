// Package main provides the rebib CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rebib",
	Short: "Convert LaTeX .bbl bibliographies to BibTeX .bib databases",
	Long: `rebib reconstructs structured BibTeX databases from rendered LaTeX
bibliography lists (.bbl files).

It parses free-form bibliography items, infers entry types (article,
inproceedings, book, ...) from textual cues, and emits re-editable .bib
records. Converted records can optionally be kept in a git-versionable
JSONL store with an ephemeral SQLite index for queries.

All commands output JSON by default for easy tool integration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// mustFindStore finds the enclosing record store, exiting on error.
func mustFindStore() string {
	cwd, err := os.Getwd()
	if err != nil {
		os.Exit(outputError(ExitError, "getting current directory: %v", err))
	}

	root, err := storeRoot(cwd)
	if err != nil {
		os.Exit(outputError(ExitConfigError, "%v", err))
	}
	return root
}
