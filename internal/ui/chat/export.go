// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/verifact-tui/internal/export"
)

var errNothingToExport = export.ErrNothingToExport

// =============================================================================
// EXPORT HANDLING
// =============================================================================

// exportTranscript writes the current transcript into the export directory
// in the configured format.
func (m Model) exportTranscript() tea.Cmd {
	msgs := m.ctrl.Messages()
	at := m.now()
	format := m.exportFormat
	opts := &export.Options{
		OutputDir:         m.exportDir,
		IncludeMetadata:   true,
		IncludeTimestamps: true,
	}

	return func() tea.Msg {
		exporter, err := export.New(format, opts)
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		path, err := export.ExportToFile(export.FromTranscript(msgs, at), exporter, opts)
		return ExportDoneMsg{Path: path, Err: err}
	}
}
