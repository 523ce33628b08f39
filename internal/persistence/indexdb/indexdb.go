// Package indexdb keeps a small sqlite catalog of save files so operators
// can list and resume saves without scanning the data directory.
package indexdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type SaveIndex struct {
	db *sql.DB
}

type SaveRecord struct {
	Name        string
	Seed        uint32
	FieldOfView int
	Chunks      int
	Pending     int
	RecordedAt  string
}

func Open(path string) (*SaveIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SaveIndex{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS saves (
		name TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		field_of_view INTEGER NOT NULL,
		chunks INTEGER NOT NULL,
		pending INTEGER NOT NULL,
		recorded_at TEXT NOT NULL
	);`)
	return err
}

func (s *SaveIndex) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// RecordSave is a no-op on a nil index so callers can run with the db
// disabled.
func (s *SaveIndex) RecordSave(rec SaveRecord) error {
	if s == nil {
		return nil
	}
	if rec.RecordedAt == "" {
		rec.RecordedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO saves (name, seed, field_of_view, chunks, pending, recorded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Name, int64(rec.Seed), rec.FieldOfView, rec.Chunks, rec.Pending, rec.RecordedAt,
	)
	return err
}

// Latest returns the most recent save record, if any.
func (s *SaveIndex) Latest() (SaveRecord, bool, error) {
	var rec SaveRecord
	if s == nil {
		return rec, false, nil
	}
	var seed int64
	err := s.db.QueryRow(
		`SELECT name, seed, field_of_view, chunks, pending, recorded_at FROM saves ORDER BY recorded_at DESC, name DESC LIMIT 1`,
	).Scan(&rec.Name, &seed, &rec.FieldOfView, &rec.Chunks, &rec.Pending, &rec.RecordedAt)
	if err == sql.ErrNoRows {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, err
	}
	rec.Seed = uint32(seed)
	return rec, true, nil
}

// List returns up to limit records, newest first.
func (s *SaveIndex) List(limit int) ([]SaveRecord, error) {
	if s == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT name, seed, field_of_view, chunks, pending, recorded_at FROM saves ORDER BY recorded_at DESC, name DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SaveRecord
	for rows.Next() {
		var rec SaveRecord
		var seed int64
		if err := rows.Scan(&rec.Name, &seed, &rec.FieldOfView, &rec.Chunks, &rec.Pending, &rec.RecordedAt); err != nil {
			return nil, err
		}
		rec.Seed = uint32(seed)
		out = append(out, rec)
	}
	return out, rows.Err()
}
