// Package storage persists converted bibliography records in a
// git-versionable JSONL file, with an ephemeral SQLite database rebuilt
// from it for queries.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rebib/rebib/internal/record"
)

// Store layout constants.
const (
	StoreDir    = ".rebib"
	RecordsFile = "records.jsonl"
	CacheDir    = "cache"
	DBFile      = "records.db"
)

// StoredRecord is a converted record plus import provenance.
type StoredRecord struct {
	record.Record
	Source     string    `json:"source,omitempty"` // input file the record came from
	ImportedAt time.Time `json:"imported_at"`
}

// StorePath returns the path to the .rebib directory from a root path.
func StorePath(root string) string {
	return filepath.Join(root, StoreDir)
}

// RecordsPath returns the path to records.jsonl from a root path.
func RecordsPath(root string) string {
	return filepath.Join(root, StoreDir, RecordsFile)
}

// DBPath returns the path to the ephemeral query database from a root path.
func DBPath(root string) string {
	return filepath.Join(root, StoreDir, CacheDir, DBFile)
}

// IsStore checks if the given path contains a rebib store.
func IsStore(root string) bool {
	info, err := os.Stat(StorePath(root))
	return err == nil && info.IsDir()
}

// FindStore walks up from the given path to find a rebib store.
// Returns the store root path or an error if not found.
func FindStore(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsStore(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a rebib store (no %s directory found; run `rebib init`)", StoreDir)
		}
		abs = parent
	}
}

// InitStore creates the .rebib directory and its cache subdirectory.
func InitStore(root string) error {
	if err := os.MkdirAll(filepath.Join(root, StoreDir, CacheDir), 0755); err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	return nil
}

// FindByKey searches stored records by citation key.
func FindByKey(records []StoredRecord, key string) (int, bool) {
	for i, r := range records {
		if r.Key == key {
			return i, true
		}
	}
	return -1, false
}

// UniqueKey returns a key that doesn't conflict with stored records.
// If the base key exists, appends -2, -3, etc.
func UniqueKey(records []StoredRecord, base string) string {
	if _, found := FindByKey(records, base); !found {
		return base
	}

	// Start at 2: base is taken, so the first duplicate becomes base-2
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if _, found := FindByKey(records, candidate); !found {
			return candidate
		}
	}
}
