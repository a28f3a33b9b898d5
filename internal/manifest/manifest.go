// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest persists a record of past conversions in SQLite. The
// convert command consults it for --resume runs and the status command
// lists it.
package manifest

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pagemill/pkg/types"
)

// Record is one conversion outcome as stored in the manifest.
type Record struct {
	SourcePath  string
	OutputPath  string
	Pages       int
	FailedPages int
	Status      string
	Error       string
	Duration    time.Duration
	ConvertedAt time.Time
}

// Status values stored in the manifest.
const (
	StatusConverted = "converted"
	StatusPartial   = "partial"
	StatusFailed    = "failed"
)

// StatusFor derives the manifest status from a DocumentResult.
func StatusFor(r types.DocumentResult) string {
	switch {
	case r.Failed():
		return StatusFailed
	case r.FailedPages > 0:
		return StatusPartial
	default:
		return StatusConverted
	}
}

// Store manages the conversions database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the manifest database at path, creating the schema
// and any missing parent directories.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating manifest directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening manifest database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating manifest schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			source_path TEXT PRIMARY KEY,
			output_path TEXT,
			pages INTEGER,
			failed_pages INTEGER,
			status TEXT NOT NULL,
			error TEXT,
			duration_ms INTEGER,
			converted_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_status ON conversions(status)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Put inserts or replaces the record for its source path.
func (s *Store) Put(rec Record) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO conversions
		 (source_path, output_path, pages, failed_pages, status, error, duration_ms, converted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SourcePath, rec.OutputPath, rec.Pages, rec.FailedPages, rec.Status,
		rec.Error, rec.Duration.Milliseconds(), rec.ConvertedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording conversion of %s: %w", rec.SourcePath, err)
	}
	return nil
}

// Get looks up the record for a source path. The second return value
// reports whether a record exists.
func (s *Store) Get(sourcePath string) (Record, bool, error) {
	row := s.db.QueryRow(
		`SELECT source_path, output_path, pages, failed_pages, status, error, duration_ms, converted_at
		 FROM conversions WHERE source_path = ?`, sourcePath)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("looking up %s: %w", sourcePath, err)
	}
	return rec, true, nil
}

// List returns all records, most recent first.
func (s *Store) List() ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT source_path, output_path, pages, failed_pages, status, error, duration_ms, converted_at
		 FROM conversions ORDER BY converted_at DESC, source_path`)
	if err != nil {
		return nil, fmt.Errorf("listing conversions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning conversion record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var rec Record
	var durationMS int64
	var convertedAt string
	err := row.Scan(&rec.SourcePath, &rec.OutputPath, &rec.Pages, &rec.FailedPages,
		&rec.Status, &rec.Error, &durationMS, &convertedAt)
	if err != nil {
		return Record{}, err
	}
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	if t, perr := time.Parse(time.RFC3339, convertedAt); perr == nil {
		rec.ConvertedAt = t
	}
	return rec, nil
}
