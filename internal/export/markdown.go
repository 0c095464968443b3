// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/verifact-tui/internal/history"
	"github.com/jeranaias/verifact-tui/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports documents to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a document to Markdown format.
func (e *MarkdownExporter) Export(doc *Document) ([]byte, error) {
	if doc.IsEmpty() {
		return nil, ErrNothingToExport
	}

	var sb strings.Builder

	// YAML frontmatter with metadata
	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(doc.Title)))
		sb.WriteString(fmt.Sprintf("exported: %s\n", doc.ExportedAt.Format(time.RFC3339)))
		if len(doc.Transcript) > 0 {
			sb.WriteString(fmt.Sprintf("messages: %d\n", len(doc.Transcript)))
		}
		if len(doc.History) > 0 {
			sb.WriteString(fmt.Sprintf("claims: %d\n", len(doc.History)))
		}
		sb.WriteString(fmt.Sprintf("generator: %s\n", doc.Generator))
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(doc.Title)))

	if len(doc.Transcript) > 0 {
		e.writeTranscript(&sb, doc.Transcript)
	}
	if len(doc.History) > 0 {
		e.writeHistory(&sb, doc.History)
	}

	sb.WriteString("\n---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported from Verifact on %s*\n",
		doc.ExportedAt.Format("January 2, 2006 at 3:04 PM")))

	return []byte(sb.String()), nil
}

func (e *MarkdownExporter) writeTranscript(sb *strings.Builder, entries []Entry) {
	sb.WriteString("## Conversation\n\n")

	for i, entry := range entries {
		label := model.Kind(entry.Role).DisplayName()
		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n", label, formatShortTimestamp(entry.Timestamp)))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", label))
		}

		switch model.Kind(entry.Role) {
		case model.KindUser:
			if entry.ImageName != "" {
				sb.WriteString(fmt.Sprintf("*Image: %s*\n\n", entry.ImageName))
			}
			if entry.Text != "" {
				sb.WriteString(quote(entry.Text))
				sb.WriteString("\n\n")
			}
		case model.KindVerifact:
			sb.WriteString(fmt.Sprintf("**Status**: %s\n\n", entry.Status.Normalize().Title()))
			if entry.Summary != "" {
				sb.WriteString(strings.TrimSpace(entry.Summary))
				sb.WriteString("\n\n")
			}
			for _, p := range model.SplitParagraphs(entry.Details) {
				sb.WriteString(p)
				sb.WriteString("\n\n")
			}
		}

		if i < len(entries)-1 {
			sb.WriteString("---\n\n")
		}
	}
}

func (e *MarkdownExporter) writeHistory(sb *strings.Builder, records []history.Record) {
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("## %s\n\n", escapeMarkdown(r.ClaimText)))
		sb.WriteString(fmt.Sprintf("- **Status**: %s\n", r.Status.Normalize().Title()))
		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf("- **Verified on**: %s\n", formatTimestamp(r.VerificationDate)))
		}
		if r.OriginalSource != "" {
			sb.WriteString(fmt.Sprintf("- **Source**: %s\n", r.OriginalSource))
		}
		sb.WriteString(fmt.Sprintf("- **ID**: `%s`\n\n", r.ID))

		if r.Summary != "" {
			sb.WriteString(strings.TrimSpace(r.Summary))
			sb.WriteString("\n\n")
		}
		for _, p := range r.Paragraphs() {
			sb.WriteString(p)
			sb.WriteString("\n\n")
		}
		if len(r.EvidenceLinks) > 0 {
			sb.WriteString("**Supporting Evidence**\n\n")
			for _, link := range r.EvidenceLinks {
				sb.WriteString(fmt.Sprintf("- [%s](%s)\n", escapeMarkdown(link.Title), link.URL))
			}
			sb.WriteString("\n")
		}
	}
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// quote renders text as a Markdown block quote.
func quote(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, l := range lines {
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	// Only escape characters that would break formatting in titles/headings
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}

// escapeYAML escapes special YAML characters in values.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
