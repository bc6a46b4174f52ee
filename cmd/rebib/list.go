package main

import (
	"github.com/rebib/rebib/internal/storage"
	"github.com/spf13/cobra"
)

var listLimit int

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", DefaultListLimit, "Maximum records to return (0 = all)")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored records",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db := mustOpenStoreDB()
	defer db.Close()

	records, err := db.List(listLimit)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if humanOutput {
		printRecordsHuman(records)
	} else {
		outputJSON(records)
	}
	return nil
}

// mustOpenStoreDB rebuilds the ephemeral query database from the JSONL
// store and returns it, exiting on error.
func mustOpenStoreDB() *storage.DB {
	root := mustFindStore()

	if err := storage.InitStore(root); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	db, err := storage.OpenDB(storage.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "opening query database: %v", err)
	}

	if _, err := db.RebuildFromJSONL(storage.RecordsPath(root)); err != nil {
		db.Close()
		exitWithError(ExitDataError, "rebuilding query database: %v", err)
	}
	return db
}
