// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"context"
	"sync"
)

// MemoryRepository keeps records in process memory. It is the default
// backend and is safe for concurrent use.
type MemoryRepository struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryRepository creates a repository holding copies of seed.
func NewMemoryRepository(seed ...Record) *MemoryRepository {
	r := &MemoryRepository{records: make([]Record, 0, len(seed))}
	for _, rec := range seed {
		r.records = append(r.records, rec.Clone())
	}
	return r
}

// List returns copies of all records in insertion order.
func (r *MemoryRepository) List(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Record, len(r.records))
	for i, rec := range r.records {
		out[i] = rec.Clone()
	}
	return out, nil
}

// Get returns the record with the given ID.
func (r *MemoryRepository) Get(ctx context.Context, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.records[i].Clone(), nil
	}
	return Record{}, ErrNotFound
}

// Record appends rec, or replaces an existing record with the same ID.
func (r *MemoryRepository) Record(ctx context.Context, rec Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	if rec.ID == "" {
		rec.ID = NewRecordID()
	}
	rec.Status = rec.Status.Normalize()
	rec = rec.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(rec.ID); i >= 0 {
		r.records[i] = rec
	} else {
		r.records = append(r.records, rec)
	}
	return rec.Clone(), nil
}

// Delete removes the record with the given ID.
func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	r.records = append(r.records[:i], r.records[i+1:]...)
	return nil
}

// Len returns the number of stored records.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Close is a no-op.
func (r *MemoryRepository) Close() error { return nil }

func (r *MemoryRepository) indexOf(id string) int {
	for i := range r.records {
		if r.records[i].ID == id {
			return i
		}
	}
	return -1
}
