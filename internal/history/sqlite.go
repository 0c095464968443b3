// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/verifact-tui/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS claims (
	seq              INTEGER PRIMARY KEY AUTOINCREMENT,
	id               TEXT NOT NULL UNIQUE,
	claim_text       TEXT NOT NULL,
	original_source  TEXT NOT NULL DEFAULT '',
	image_url        TEXT NOT NULL DEFAULT '',
	verified_at      INTEGER NOT NULL,
	status           TEXT NOT NULL,
	summary          TEXT NOT NULL DEFAULT '',
	details          TEXT NOT NULL DEFAULT '',
	evidence         TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_claims_verified_at ON claims(verified_at);
CREATE INDEX IF NOT EXISTS idx_claims_status ON claims(status);
`

// SQLiteRepository persists records in a single SQLite database file.
type SQLiteRepository struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteRepository{db: db, path: path}, nil
}

// Path returns the database file path.
func (r *SQLiteRepository) Path() string {
	return r.path
}

// List returns all records in insertion order.
func (r *SQLiteRepository) List(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, claim_text, original_source, image_url, verified_at, status, summary, details, evidence
		FROM claims ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	if out == nil {
		out = []Record{}
	}
	return out, nil
}

// Get returns the record with the given ID.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, claim_text, original_source, image_url, verified_at, status, summary, details, evidence
		FROM claims WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

// Record inserts rec, or replaces the record with the same ID in place.
func (r *SQLiteRepository) Record(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = NewRecordID()
	}
	rec.Status = rec.Status.Normalize()

	links := rec.EvidenceLinks
	if links == nil {
		links = []EvidenceLink{}
	}
	evidence, err := json.Marshal(links)
	if err != nil {
		return Record{}, fmt.Errorf("encode evidence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO claims (id, claim_text, original_source, image_url, verified_at, status, summary, details, evidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			claim_text = excluded.claim_text,
			original_source = excluded.original_source,
			image_url = excluded.image_url,
			verified_at = excluded.verified_at,
			status = excluded.status,
			summary = excluded.summary,
			details = excluded.details,
			evidence = excluded.evidence`,
		rec.ID, rec.ClaimText, rec.OriginalSource, rec.ImageURL,
		rec.VerificationDate.UnixNano(), string(rec.Status),
		rec.Summary, rec.Details, string(evidence))
	if err != nil {
		return Record{}, fmt.Errorf("record claim: %w", err)
	}
	return rec.Clone(), nil
}

// Delete removes the record with the given ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM claims WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete claim: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the database.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(s rowScanner) (Record, error) {
	var (
		rec      Record
		at       int64
		status   string
		evidence string
	)
	if err := s.Scan(&rec.ID, &rec.ClaimText, &rec.OriginalSource, &rec.ImageURL,
		&at, &status, &rec.Summary, &rec.Details, &evidence); err != nil {
		return Record{}, err
	}
	rec.VerificationDate = time.Unix(0, at).UTC()
	rec.Status = model.Status(status).Normalize()

	var links []EvidenceLink
	if err := json.Unmarshal([]byte(evidence), &links); err != nil {
		return Record{}, fmt.Errorf("decode evidence for %s: %w", rec.ID, err)
	}
	if len(links) > 0 {
		rec.EvidenceLinks = links
	}
	return rec, nil
}
