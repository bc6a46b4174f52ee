package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rebib/rebib/internal/storage"
)

const (
	// DefaultListLimit is the default limit for list/search commands.
	DefaultListLimit = 50
	// ListTitleMaxLen truncates titles in list output.
	ListTitleMaxLen = 60
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError writes an error message to stderr and returns the exit code.
func outputError(code int, format string, args ...interface{}) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	return code
}

// exitWithError outputs an error in the appropriate format (human or JSON)
// and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// storeRoot walks up to find the enclosing record store.
func storeRoot(start string) (string, error) {
	return storage.FindStore(start)
}

// printRecordsHuman prints stored records in human-readable format.
func printRecordsHuman(records []storage.StoredRecord) {
	for _, r := range records {
		fmt.Printf("%s [%s]\n", r.Key, r.Type)
		if t := r.Field("title"); t != "" {
			fmt.Printf("  %s\n", truncateString(t, ListTitleMaxLen))
		}
		if a := r.Field("author"); a != "" {
			year := r.Field("year")
			if year != "" {
				fmt.Printf("  %s (%s)\n", a, year)
			} else {
				fmt.Printf("  %s\n", a)
			}
		}
		fmt.Println()
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
