// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store tracks conversion outcomes in a SQLite index so ingestion
// runs can skip finished work and report what happened to every record.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/hep-ingest/pkg/types"
)

const dbFile = "hep-ingest.db"

// Conversion statuses recorded in the index.
const (
	StatusConverted = "converted"
	StatusFailed    = "failed"
)

// Store manages the conversion index database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the conversion index at dir/hep-ingest.db, creating
// the schema if it does not exist.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
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
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			record_format TEXT NOT NULL,
			status TEXT NOT NULL,
			output_path TEXT,
			detail TEXT,
			converted_at TEXT NOT NULL
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

// Entry is one row of the conversion index.
type Entry struct {
	ID           string `yaml:"id"`
	Source       string `yaml:"source"`
	RecordFormat string `yaml:"record_format"`
	Status       string `yaml:"status"`
	OutputPath   string `yaml:"output_path,omitempty"`
	Detail       string `yaml:"detail,omitempty"`
	ConvertedAt  string `yaml:"converted_at"`
}

func (s *Store) upsert(e Entry) error {
	_, err := s.db.Exec(
		`INSERT INTO conversions (id, source, record_format, status, output_path, detail, converted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			record_format = excluded.record_format,
			status = excluded.status,
			output_path = excluded.output_path,
			detail = excluded.detail,
			converted_at = excluded.converted_at`,
		e.ID, e.Source, e.RecordFormat, e.Status, e.OutputPath, e.Detail, e.ConvertedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting conversion %s: %w", e.ID, err)
	}
	return nil
}

// MarkConverted records a successful conversion.
func (s *Store) MarkConverted(id, source, format, outputPath string) error {
	return s.upsert(Entry{
		ID:           id,
		Source:       source,
		RecordFormat: format,
		Status:       StatusConverted,
		OutputPath:   outputPath,
		ConvertedAt:  time.Now().UTC().Format(time.RFC3339),
	})
}

// MarkFailed records a failed conversion with the failure detail.
func (s *Store) MarkFailed(id, source, format, detail string) error {
	return s.upsert(Entry{
		ID:           id,
		Source:       source,
		RecordFormat: format,
		Status:       StatusFailed,
		Detail:       detail,
		ConvertedAt:  time.Now().UTC().Format(time.RFC3339),
	})
}

// Status returns the recorded status for id, or ok=false when the record
// has not been seen.
func (s *Store) Status(id string) (status string, ok bool, err error) {
	row := s.db.QueryRow(`SELECT status FROM conversions WHERE id = ?`, id)
	if err := row.Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("querying conversion %s: %w", id, err)
	}
	return status, true, nil
}

// Entries returns all index rows ordered by id.
func (s *Store) Entries() ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, source, record_format, status, output_path, detail, converted_at
		 FROM conversions ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying conversions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var outputPath, detail sql.NullString
		if err := rows.Scan(&e.ID, &e.Source, &e.RecordFormat, &e.Status, &outputPath, &detail, &e.ConvertedAt); err != nil {
			return nil, fmt.Errorf("scanning conversion row: %w", err)
		}
		e.OutputPath = outputPath.String
		e.Detail = detail.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ExportYAML writes the full index to w as YAML, for run reports.
func (s *Store) ExportYAML(w io.Writer) error {
	entries, err := s.Entries()
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(entries)
}

// RecordID derives a stable identity for a record: the control number when
// present, else the first DOI, else a hash of the record content.
func RecordID(rec types.Record) string {
	if n, ok := types.AsInt(rec["control_number"]); ok {
		return fmt.Sprintf("%d", n)
	}
	if s := rec.String("control_number"); s != "" {
		return s
	}
	if dois := rec.List("dois"); len(dois) > 0 {
		if doi, ok := types.AsRecord(dois[0]); ok {
			if value := doi.String("value"); value != "" {
				return value
			}
		}
	}
	data, err := json.Marshal(rec)
	if err != nil {
		data = []byte(fmt.Sprint(rec))
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("rec-%x", sum[:8])
}
