package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rebib/rebib/internal/record"
	_ "modernc.org/sqlite"
)

// DB wraps the ephemeral SQLite query database. The JSONL file is the
// source of truth; the database is rebuilt from it and can be deleted at
// any time.
type DB struct {
	db *sql.DB
}

const selectRecordFields = `key, entry_type, confidence, author, title, pub_year, fields_json, source, imported_at`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS records (
			key TEXT PRIMARY KEY,
			entry_type TEXT NOT NULL,
			confidence TEXT NOT NULL,
			author TEXT,
			title TEXT,
			pub_year INTEGER,
			fields_json TEXT NOT NULL,
			source TEXT,
			imported_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_records_type ON records(entry_type);

		-- Full-text search over title and author
		CREATE VIRTUAL TABLE IF NOT EXISTS records_fts USING fts5(
			key,
			title,
			author
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the database and rebuilds it from a JSONL file.
// Returns the number of records loaded.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	records, err := ReadAll(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}

	if _, err := d.db.Exec("DELETE FROM records"); err != nil {
		return 0, fmt.Errorf("clearing records table: %w", err)
	}
	if _, err := d.db.Exec("DELETE FROM records_fts"); err != nil {
		return 0, fmt.Errorf("clearing records_fts table: %w", err)
	}

	recStmt, err := d.db.Prepare(`
		INSERT INTO records (key, entry_type, confidence, author, title, pub_year, fields_json, source, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing records insert: %w", err)
	}
	defer recStmt.Close()

	ftsStmt, err := d.db.Prepare(`
		INSERT INTO records_fts (key, title, author) VALUES (?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	count := 0
	for _, rec := range records {
		fieldsJSON, err := json.Marshal(rec.Fields)
		if err != nil {
			return count, fmt.Errorf("encoding fields for %s: %w", rec.Key, err)
		}

		year := 0
		fmt.Sscanf(rec.Field("year"), "%d", &year)

		if _, err := recStmt.Exec(
			rec.Key, string(rec.Type), string(rec.Confidence),
			rec.Field("author"), rec.Field("title"), year,
			string(fieldsJSON), rec.Source, rec.ImportedAt.Format(time.RFC3339),
		); err != nil {
			return count, fmt.Errorf("inserting %s: %w", rec.Key, err)
		}

		if _, err := ftsStmt.Exec(rec.Key, rec.Field("title"), rec.Field("author")); err != nil {
			return count, fmt.Errorf("indexing %s: %w", rec.Key, err)
		}
		count++
	}

	return count, nil
}

// GetByKey returns the stored record with the given citation key, or nil.
func (d *DB) GetByKey(key string) (*StoredRecord, error) {
	row := d.db.QueryRow(`SELECT `+selectRecordFields+` FROM records WHERE key = ?`, key)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

// List returns stored records ordered by key, up to limit (0 = no limit).
func (d *DB) List(limit int) ([]StoredRecord, error) {
	query := `SELECT ` + selectRecordFields + ` FROM records ORDER BY key`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// Search runs a full-text query over titles and authors.
func (d *DB) Search(query string, limit int) ([]StoredRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.db.Query(`
		SELECT `+selectRecordFields+`
		FROM records
		WHERE key IN (SELECT key FROM records_fts WHERE records_fts MATCH ?)
		ORDER BY key
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*StoredRecord, error) {
	var rec StoredRecord
	var entryType, confidence, fieldsJSON, importedAt string
	var author, title, source sql.NullString
	var year sql.NullInt64

	err := row.Scan(&rec.Key, &entryType, &confidence, &author, &title, &year, &fieldsJSON, &source, &importedAt)
	if err != nil {
		return nil, err
	}

	rec.Type = record.EntryType(entryType)
	rec.Confidence = record.Confidence(confidence)
	rec.Source = source.String
	if t, err := time.Parse(time.RFC3339, importedAt); err == nil {
		rec.ImportedAt = t
	}
	if err := json.Unmarshal([]byte(fieldsJSON), &rec.Fields); err != nil {
		return nil, fmt.Errorf("decoding fields for %s: %w", rec.Key, err)
	}

	return &rec, nil
}

func collectRecords(rows *sql.Rows) ([]StoredRecord, error) {
	var records []StoredRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}
