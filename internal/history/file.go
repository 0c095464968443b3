// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jeranaias/verifact-tui/internal/util"
)

// =============================================================================
// FILE REPOSITORY
// =============================================================================

// FileRepository stores one JSON document per record in a directory.
type FileRepository struct {
	// BaseDir is the directory for storing records
	// Default: ~/.verifact/history/
	BaseDir string

	// MaxRecords limits stored records (0 = unlimited)
	MaxRecords int
}

// NewFileRepository creates a store rooted at baseDir.
func NewFileRepository(baseDir string) (*FileRepository, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &FileRepository{
		BaseDir:    baseDir,
		MaxRecords: 500,
	}, nil
}

// Record persists rec and returns the stored copy.
func (s *FileRepository) Record(ctx context.Context, rec Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	if rec.ID == "" {
		rec.ID = NewRecordID()
	}
	rec.Status = rec.Status.Normalize()

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return Record{}, err
	}

	if err := util.AtomicWriteFile(s.filePath(rec.ID), data, 0644); err != nil {
		return Record{}, err
	}

	if s.MaxRecords > 0 {
		s.enforceLimit(ctx)
	}

	return rec.Clone(), nil
}

// Get loads a record by ID.
func (s *FileRepository) Get(ctx context.Context, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	if !validFileID(id) {
		return Record{}, ErrNotFound
	}

	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, err
	}
	rec.Status = rec.Status.Normalize()
	return rec, nil
}

// List returns all records, oldest verification first. Corrupted files are skipped.
func (s *FileRepository) List(ctx context.Context) ([]Record, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, err
	}

	out := []Record{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		rec, err := s.Get(ctx, strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].VerificationDate.Before(out[j].VerificationDate)
	})
	return out, nil
}

// Delete removes a record by ID.
func (s *FileRepository) Delete(ctx context.Context, id string) error {
	if !validFileID(id) {
		return ErrNotFound
	}
	if err := os.Remove(s.filePath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Close is a no-op.
func (s *FileRepository) Close() error { return nil }

// enforceLimit removes the oldest records if over limit.
func (s *FileRepository) enforceLimit(ctx context.Context) {
	recs, err := s.List(ctx)
	if err != nil || len(recs) <= s.MaxRecords {
		return
	}
	excess := len(recs) - s.MaxRecords
	for i := 0; i < excess; i++ {
		s.Delete(ctx, recs[i].ID)
	}
}

func (s *FileRepository) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}

// validFileID rejects IDs that would escape BaseDir.
func validFileID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}
