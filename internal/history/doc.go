// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history stores past verifications and implements the history
// browser's search, status filter and sort.
//
// # Key Types
//
//   - Record: one past verification with its verdict and evidence
//   - Query: search term, status filter, sort key and order
//   - Repository: storage backend (memory, SQLite or JSON files)
//
// # Usage
//
//	repo, err := history.Open(history.BackendSQLite, path, false)
//	records, err := repo.List(ctx)
//	visible := history.Apply(records, history.DefaultQuery())
//
// # Storage Location
//
// The SQLite backend defaults to ~/.verifact/history.db and the file backend
// to ~/.verifact/history/.
package history

import (
	"fmt"
	"strings"
)

// Backend names a Repository implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendSQLite Backend = "sqlite"
	BackendFile   Backend = "file"
)

// Open creates the repository for backend. path is ignored for the memory
// backend. When seedDemo is set an empty repository is filled with
// MockRecords.
func Open(backend Backend, path string, seedDemo bool) (Repository, error) {
	var (
		repo Repository
		err  error
	)

	switch Backend(strings.ToLower(string(backend))) {
	case BackendMemory, "":
		repo = NewMemoryRepository()
	case BackendSQLite:
		repo, err = OpenSQLite(path)
	case BackendFile:
		repo, err = NewFileRepository(path)
	default:
		return nil, fmt.Errorf("unknown history backend %q", backend)
	}
	if err != nil {
		return nil, err
	}

	if seedDemo {
		if err := seed(repo); err != nil {
			repo.Close()
			return nil, err
		}
	}
	return repo, nil
}
