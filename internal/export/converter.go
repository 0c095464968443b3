// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"time"

	"github.com/jeranaias/verifact-tui/internal/history"
	"github.com/jeranaias/verifact-tui/internal/model"
)

// =============================================================================
// DOCUMENT
// =============================================================================

// Generator identifies the exporting program.
const Generator = "verifact-tui"

// Entry is one transcript message in export form.
type Entry struct {
	ID        string       `json:"id" yaml:"id"`
	Role      string       `json:"role" yaml:"role"`
	Text      string       `json:"text,omitempty" yaml:"text,omitempty"`
	ImageName string       `json:"image_name,omitempty" yaml:"image_name,omitempty"`
	Status    model.Status `json:"status,omitempty" yaml:"status,omitempty"`
	Summary   string       `json:"summary,omitempty" yaml:"summary,omitempty"`
	Details   string       `json:"details,omitempty" yaml:"details,omitempty"`
	Query     *model.Query `json:"query,omitempty" yaml:"query,omitempty"`
	Timestamp time.Time    `json:"timestamp" yaml:"timestamp"`
}

// Document is what the exporters serialize: either a chat transcript or a
// list of history records.
type Document struct {
	Title      string           `json:"title" yaml:"title"`
	Generator  string           `json:"generator" yaml:"generator"`
	ExportedAt time.Time        `json:"exported_at" yaml:"exported_at"`
	Transcript []Entry          `json:"transcript,omitempty" yaml:"transcript,omitempty"`
	History    []history.Record `json:"history,omitempty" yaml:"history,omitempty"`
}

// IsEmpty reports whether the document has nothing to export.
func (d *Document) IsEmpty() bool {
	return d == nil || (len(d.Transcript) == 0 && len(d.History) == 0)
}

// =============================================================================
// CONVERSION UTILITIES
// =============================================================================

// FromTranscript converts chat messages, preserving order.
func FromTranscript(msgs []model.Message, at time.Time) *Document {
	doc := &Document{
		Title:      "Verifact conversation",
		Generator:  Generator,
		ExportedAt: at,
		Transcript: make([]Entry, 0, len(msgs)),
	}
	for _, msg := range msgs {
		switch m := msg.(type) {
		case *model.UserMessage:
			doc.Transcript = append(doc.Transcript, Entry{
				ID:        m.ID,
				Role:      string(m.Kind()),
				Text:      m.Text,
				ImageName: m.ImageName(),
				Timestamp: m.CreatedAt,
			})
		case *model.VerifactMessage:
			q := m.OriginalQuery
			doc.Transcript = append(doc.Transcript, Entry{
				ID:        m.ID,
				Role:      string(m.Kind()),
				Status:    m.Status,
				Summary:   m.Summary,
				Details:   m.Details,
				Query:     &q,
				Timestamp: m.CreatedAt,
			})
		}
	}
	return doc
}

// FromHistory wraps history records, copying them.
func FromHistory(records []history.Record, at time.Time) *Document {
	out := make([]history.Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return &Document{
		Title:      "Verification History",
		Generator:  Generator,
		ExportedAt: at,
		History:    out,
	}
}
