// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/verifact-tui/internal/history"
	"github.com/jeranaias/verifact-tui/internal/model"
)

var exportTime = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func sampleTranscript(t *testing.T) []model.Message {
	t.Helper()
	user, err := model.NewUserMessage("Is the moon made of cheese?", &model.ImageRef{Name: "moon.png"}, exportTime)
	require.NoError(t, err)
	reply := model.NewVerifactMessage(model.StatusDebunked, "No.", "Rock.\n\nNot dairy.", user.Snapshot(), exportTime.Add(time.Second))
	return []model.Message{user, reply}
}

// =============================================================================
// CONVERSION TESTS
// =============================================================================

func TestFromTranscript(t *testing.T) {
	doc := FromTranscript(sampleTranscript(t), exportTime)
	require.Len(t, doc.Transcript, 2)

	assert.Equal(t, "user", doc.Transcript[0].Role)
	assert.Equal(t, "moon.png", doc.Transcript[0].ImageName)
	assert.Equal(t, "verifact", doc.Transcript[1].Role)
	assert.Equal(t, model.StatusDebunked, doc.Transcript[1].Status)
	require.NotNil(t, doc.Transcript[1].Query)
	assert.Equal(t, "Is the moon made of cheese?", doc.Transcript[1].Query.Text)
	assert.Equal(t, Generator, doc.Generator)
}

func TestFromHistory_Copies(t *testing.T) {
	records := history.MockRecords()
	doc := FromHistory(records, exportTime)
	doc.History[1].EvidenceLinks[0].Title = "changed"
	assert.NotEqual(t, "changed", records[1].EvidenceLinks[0].Title)
}

func TestEmptyDocument(t *testing.T) {
	for _, f := range Formats {
		exp, err := New(f, nil)
		require.NoError(t, err)
		_, err = exp.Export(FromTranscript(nil, exportTime))
		assert.True(t, errors.Is(err, ErrNothingToExport), "format %s", f)
	}
}

// =============================================================================
// FORMAT TESTS
// =============================================================================

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"md": FormatMarkdown, "Markdown": FormatMarkdown, "json": FormatJSON, "YML": FormatYAML, "yaml": FormatYAML}
	for in, want := range cases {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("html")
	assert.Error(t, err)
	_, err = New(Format("html"), nil)
	assert.Error(t, err)
}

func TestMarkdownExport_Transcript(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(FromTranscript(sampleTranscript(t), exportTime))
	require.NoError(t, err)
	s := string(out)

	assert.True(t, strings.HasPrefix(s, "---\n"))
	assert.Contains(t, s, "messages: 2")
	assert.Contains(t, s, "### You")
	assert.Contains(t, s, "> Is the moon made of cheese?")
	assert.Contains(t, s, "*Image: moon.png*")
	assert.Contains(t, s, "**Status**: Debunked")
	assert.Contains(t, s, "Not dairy.")
	assert.Less(t, strings.Index(s, "### You"), strings.Index(s, "### Verifact"))
}

func TestMarkdownExport_HistoryWithoutMetadata(t *testing.T) {
	opts := &Options{IncludeMetadata: false, IncludeTimestamps: false}
	out, err := NewMarkdownExporter(opts).Export(FromHistory(history.MockRecords(), exportTime))
	require.NoError(t, err)
	s := string(out)

	assert.False(t, strings.HasPrefix(s, "---\n"))
	assert.Contains(t, s, "# Verification History")
	assert.Contains(t, s, "**Supporting Evidence**")
	assert.NotContains(t, s, "Verified on")
}

func TestJSONExport_Decodes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FromHistory(history.MockRecords(), exportTime), FormatJSON, nil))

	var decoded Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded.History, 4)
	assert.Empty(t, decoded.Transcript)
}

func TestYAMLExport_Decodes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FromTranscript(sampleTranscript(t), exportTime), FormatYAML, nil))
	assert.Contains(t, buf.String(), "role: verifact")
	assert.Contains(t, buf.String(), "image_name: moon.png")

	var decoded Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Transcript, 2)
	assert.Equal(t, model.StatusDebunked, decoded.Transcript[1].Status)
}

// =============================================================================
// FILE TESTS
// =============================================================================

func TestExportToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	path, err := ExportToFile(FromTranscript(sampleTranscript(t), exportTime), NewJSONExporter(nil), &Options{OutputDir: dir})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "verifact_conversation_20240506_070809.json"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"role": "user"`)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "history.yaml")
	require.NoError(t, WriteFile(path, FromHistory(history.MockRecords(), exportTime), FormatYAML, nil))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a-b-c_d", sanitizeFilename("a/b:c d"))
	assert.Equal(t, "export", sanitizeFilename(""))
}
