package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rebib/rebib/internal/bibtex"
	"github.com/rebib/rebib/internal/config"
	"github.com/rebib/rebib/internal/convert"
	"github.com/rebib/rebib/internal/pdftext"
	"github.com/spf13/cobra"
)

var (
	convertOutput   string
	convertAppend   bool
	convertMaxBytes int
	convertStdout   bool
)

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Output .bib file (default: input name with .bib extension)")
	convertCmd.Flags().BoolVar(&convertAppend, "append", false, "Append to the output file, skipping keys already present")
	convertCmd.Flags().IntVar(&convertMaxBytes, "max-bytes", 0, "Maximum input size in bytes (0 = configured default)")
	convertCmd.Flags().BoolVar(&convertStdout, "stdout", false, "Write the .bib text to stdout instead of a file")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert <file.bbl|file.pdf|->",
	Short: "Convert a .bbl bibliography to a .bib database",
	Long: `Convert a LaTeX bibliography list to a BibTeX database.

Usage:
  rebib convert refs.bbl
  rebib convert refs.bbl -o refs.bib --append
  rebib convert paper.pdf          (extracts the references section first)
  cat refs.bbl | rebib convert -   (reads stdin, writes stdout)`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

// ConvertResult is the JSON response of the convert command.
type ConvertResult struct {
	Output string          `json:"output,omitempty"`
	Report *convert.Report `json:"report"`
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]

	raw, err := readInput(input)
	if err != nil {
		exitWithError(ExitError, "reading input: %v", err)
	}

	opts, err := conversionOptions()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	bibText, report, err := convert.Convert(raw, opts)
	if err != nil {
		if errors.Is(err, convert.ErrEmptyInput) || errors.Is(err, convert.ErrOversizedInput) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}

	if convertStdout || input == "-" {
		fmt.Print(bibText)
		// Keep stdout clean for piping; the report goes to stderr.
		fmt.Fprintln(os.Stderr, report.Summary())
		return nil
	}

	outPath := outputPath(input)
	if convertAppend {
		if err := appendOutput(outPath, bibText); err != nil {
			exitWithError(ExitError, "appending output: %v", err)
		}
	} else {
		if err := os.WriteFile(outPath, []byte(bibText), 0644); err != nil {
			exitWithError(ExitError, "writing output: %v", err)
		}
	}

	printReport(report, outPath)
	return nil
}

// readInput loads the raw bibliography text from a file, stdin ("-"), or a
// compiled PDF's references section.
func readInput(input string) (string, error) {
	if input == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	if strings.EqualFold(filepath.Ext(input), ".pdf") {
		return pdftext.ExtractBibliography(input)
	}
	data, err := os.ReadFile(input)
	return string(data), err
}

// conversionOptions merges global config with command-line flags.
func conversionOptions() (convert.Options, error) {
	cfg, err := config.Load()
	if err != nil {
		return convert.Options{}, err
	}

	opts := convert.Options{
		MaxInputBytes:  cfg.MaxInputBytes,
		ExtraVenueCues: cfg.VenueCues,
	}
	if convertMaxBytes != 0 {
		opts.MaxInputBytes = convertMaxBytes
	}
	return opts, nil
}

// outputPath resolves the output file: the -o flag, or the input name with
// its extension swapped for .bib.
func outputPath(input string) string {
	if convertOutput != "" {
		cfg, _ := config.Load()
		if cfg != nil && cfg.DefaultOutputDir != "" && !filepath.IsAbs(convertOutput) &&
			filepath.Dir(convertOutput) == "." {
			return filepath.Join(cfg.DefaultOutputDir, convertOutput)
		}
		return convertOutput
	}
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".bib"
}

// appendOutput merges new stanzas into an existing .bib file, skipping
// citation keys that are already present.
func appendOutput(path, bibText string) error {
	idx, err := bibtex.IndexFile(path)
	if err != nil {
		return err
	}

	var keep []string
	for _, entry := range bibtex.Parse(bibText) {
		if idx.Has(entry.Key) {
			continue
		}
		idx.Add(entry.Key)
		keep = append(keep, stanzaText(bibText, entry.Key))
	}
	if len(keep) == 0 {
		return nil
	}
	return bibtex.AppendToFile(path, strings.Join(keep, "\n"))
}

// stanzaText slices one rendered stanza back out of the emitted text.
func stanzaText(bibText, key string) string {
	start := strings.Index(bibText, "{"+key+",")
	if start < 0 {
		return ""
	}
	start = strings.LastIndex(bibText[:start], "@")
	end := strings.Index(bibText[start:], "\n}\n")
	if end < 0 {
		return bibText[start:]
	}
	return bibText[start : start+end+len("\n}\n")]
}

func printReport(report *convert.Report, outPath string) {
	if humanOutput {
		if outPath != "" {
			fmt.Fprintf(os.Stderr, "Wrote %s\n", outPath)
		}
		fmt.Fprintln(os.Stderr, report.Summary())
		return
	}
	outputJSON(ConvertResult{Output: outPath, Report: report})
}
