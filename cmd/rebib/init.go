package main

import (
	"fmt"
	"os"

	"github.com/rebib/rebib/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a record store in the current directory",
	Long: `Create a .rebib record store in the current directory.

The store keeps converted records in git-versionable JSONL
(.rebib/records.jsonl) with an ephemeral SQLite cache for queries.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	if storage.IsStore(cwd) {
		exitWithError(ExitError, "store already exists at %s", storage.StorePath(cwd))
	}

	if err := storage.InitStore(cwd); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Initialized empty rebib store in %s\n", storage.StorePath(cwd))
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: storage.StorePath(cwd)})
	}
	return nil
}
