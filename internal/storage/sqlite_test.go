package storage

import (
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) (*DB, string) {
	t.Helper()
	dir := t.TempDir()

	jsonlPath := filepath.Join(dir, "records.jsonl")
	if err := WriteAll(jsonlPath, sampleRecords()); err != nil {
		t.Fatal(err)
	}

	db, err := OpenDB(filepath.Join(dir, "records.db"))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db, jsonlPath
}

func TestRebuildFromJSONL(t *testing.T) {
	db, jsonlPath := newTestDB(t)

	n, err := db.RebuildFromJSONL(jsonlPath)
	if err != nil {
		t.Fatalf("RebuildFromJSONL() error = %v", err)
	}
	if n != 2 {
		t.Errorf("RebuildFromJSONL() = %d, want 2", n)
	}

	// Rebuild is idempotent: reloading must not duplicate rows.
	if _, err := db.RebuildFromJSONL(jsonlPath); err != nil {
		t.Fatalf("second RebuildFromJSONL() error = %v", err)
	}
	records, err := db.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 2 {
		t.Errorf("List() after double rebuild = %d records, want 2", len(records))
	}
}

func TestGetByKey(t *testing.T) {
	db, jsonlPath := newTestDB(t)
	if _, err := db.RebuildFromJSONL(jsonlPath); err != nil {
		t.Fatal(err)
	}

	rec, err := db.GetByKey("smith2020")
	if err != nil {
		t.Fatalf("GetByKey() error = %v", err)
	}
	if rec == nil {
		t.Fatal("GetByKey(smith2020) = nil")
	}
	if rec.Field("booktitle") != "ICML" {
		t.Errorf("booktitle = %q, want ICML", rec.Field("booktitle"))
	}
	if rec.Source != "paper.bbl" {
		t.Errorf("source = %q, want paper.bbl", rec.Source)
	}

	missing, err := db.GetByKey("nope")
	if err != nil {
		t.Fatalf("GetByKey(nope) error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetByKey(nope) = %+v, want nil", missing)
	}
}

func TestList(t *testing.T) {
	db, jsonlPath := newTestDB(t)
	if _, err := db.RebuildFromJSONL(jsonlPath); err != nil {
		t.Fatal(err)
	}

	records, err := db.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("List() = %d records, want 2", len(records))
	}
	// Ordered by key: knuth73 before smith2020.
	if records[0].Key != "knuth73" || records[1].Key != "smith2020" {
		t.Errorf("List() order = %q, %q", records[0].Key, records[1].Key)
	}

	limited, err := db.List(1)
	if err != nil {
		t.Fatalf("List(1) error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("List(1) = %d records, want 1", len(limited))
	}
}

func TestSearch(t *testing.T) {
	db, jsonlPath := newTestDB(t)
	if _, err := db.RebuildFromJSONL(jsonlPath); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		query   string
		wantKey string
		wantN   int
	}{
		{"title word", "programming", "knuth73", 1},
		{"author word", "smith", "smith2020", 1},
		{"no hits", "nonexistentterm", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.Search(tt.query, 0)
			if err != nil {
				t.Fatalf("Search(%q) error = %v", tt.query, err)
			}
			if len(got) != tt.wantN {
				t.Fatalf("Search(%q) = %d records, want %d", tt.query, len(got), tt.wantN)
			}
			if tt.wantN > 0 && got[0].Key != tt.wantKey {
				t.Errorf("Search(%q) key = %q, want %q", tt.query, got[0].Key, tt.wantKey)
			}
		})
	}
}

func TestRebuildFromJSONL_MissingFile(t *testing.T) {
	db, _ := newTestDB(t)

	n, err := db.RebuildFromJSONL(filepath.Join(t.TempDir(), "nope.jsonl"))
	if err != nil {
		t.Fatalf("RebuildFromJSONL() error = %v", err)
	}
	if n != 0 {
		t.Errorf("RebuildFromJSONL() = %d, want 0", n)
	}
}
