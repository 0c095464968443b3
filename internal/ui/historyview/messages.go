// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package historyview

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/verifact-tui/internal/history"
)

// loadTimeout bounds a single repository call.
const loadTimeout = 5 * time.Second

// RecordsLoadedMsg carries the result of listing the repository.
type RecordsLoadedMsg struct {
	Records []history.Record
	Err     error
}

// RecordLoadedMsg carries the result of fetching one claim.
type RecordLoadedMsg struct {
	ID     string
	Record history.Record
	Err    error
}

// ExportDoneMsg reports the result of exporting the visible records.
type ExportDoneMsg struct {
	Path string
	Err  error
}

func loadRecords(repo history.Repository) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		recs, err := repo.List(ctx)
		return RecordsLoadedMsg{Records: recs, Err: err}
	}
}

func loadRecord(repo history.Repository, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		rec, err := repo.Get(ctx, id)
		return RecordLoadedMsg{ID: id, Record: rec, Err: err}
	}
}
