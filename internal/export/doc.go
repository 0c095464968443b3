// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes chat transcripts and verification history to
// files or writers.
//
// # Key Types
//
//   - Document: a transcript or a list of history records, ready to serialize
//   - Exporter: converts a Document to bytes
//   - Format: md, json or yaml
//
// # Usage
//
//	doc := export.FromTranscript(ctrl.Messages(), time.Now())
//	path, err := export.ExportToFile(doc, export.NewMarkdownExporter(nil), nil)
//
//	doc = export.FromHistory(records, time.Now())
//	err = export.Write(os.Stdout, doc, export.FormatYAML, nil)
package export
