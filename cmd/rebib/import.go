package main

import (
	"fmt"
	"time"

	"github.com/rebib/rebib/internal/convert"
	"github.com/rebib/rebib/internal/storage"
	"github.com/spf13/cobra"
)

var importDryRun bool

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Show what would be imported without writing")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file.bbl>",
	Short: "Convert a .bbl file and store the records",
	Long: `Convert a bibliography and append the structured records to the
enclosing record store (.rebib/records.jsonl).

Citation keys already present in the store get a numeric suffix so every
imported record is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// ImportResult is the JSON response of the import command.
type ImportResult struct {
	Imported int             `json:"imported"`
	Report   *convert.Report `json:"report"`
}

func runImport(cmd *cobra.Command, args []string) error {
	root := mustFindStore()

	raw, err := readInput(args[0])
	if err != nil {
		exitWithError(ExitError, "reading input: %v", err)
	}

	opts, err := conversionOptions()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	records, report, err := convert.Records(raw, opts)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	recordsPath := storage.RecordsPath(root)
	existing, err := storage.ReadAll(recordsPath)
	if err != nil {
		exitWithError(ExitDataError, "reading store: %v", err)
	}

	now := time.Now().UTC()
	var incoming []storage.StoredRecord
	for _, rec := range records {
		rec.Key = storage.UniqueKey(append(existing, incoming...), rec.Key)
		incoming = append(incoming, storage.StoredRecord{
			Record:     rec,
			Source:     args[0],
			ImportedAt: now,
		})
	}

	if !importDryRun {
		if err := storage.Append(recordsPath, incoming); err != nil {
			exitWithError(ExitError, "writing store: %v", err)
		}
	}

	if humanOutput {
		verb := "Imported"
		if importDryRun {
			verb = "Would import"
		}
		fmt.Printf("%s %d records into %s\n", verb, len(incoming), recordsPath)
		fmt.Println(report.Summary())
	} else {
		outputJSON(ImportResult{Imported: len(incoming), Report: report})
	}
	return nil
}
