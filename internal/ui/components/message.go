// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/verifact-tui/internal/model"
	"github.com/jeranaias/verifact-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one transcript entry.
type MessageBubble struct {
	Message       model.Message
	Width         int
	ShowTimestamp bool
	Markdown      *Markdown
	theme         *styles.Theme
}

// NewMessageBubble creates a bubble for msg.
func NewMessageBubble(msg model.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
	}
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	switch m := b.Message.(type) {
	case *model.UserMessage:
		return b.renderUser(m)
	case *model.VerifactMessage:
		return b.renderVerdict(m)
	default:
		return ""
	}
}

func (b *MessageBubble) contentWidth() int {
	w := b.Width - 12
	if w < 20 {
		w = 20
	}
	return w
}

// ==========================================================================
// USER BUBBLE
// ==========================================================================

func (b *MessageBubble) renderUser(m *model.UserMessage) string {
	maxWidth := b.contentWidth()

	var parts []string
	if m.Image != nil {
		parts = append(parts, b.theme.ImageChip.Render("[image] "+m.Image.Name))
	}
	if m.Text != "" {
		parts = append(parts, wordWrap(m.Text, maxWidth))
	}
	content := strings.Join(parts, "\n")

	bubble := b.theme.UserBubble.
		Width(clampWidth(maxLineWidth(content)+4, 8, b.Width-8)).
		Render(content)

	label := b.theme.Timestamp.Italic(true).Render("you")
	if b.ShowTimestamp {
		label += " " + b.theme.Timestamp.Render(m.CreatedAt.Format("3:04 PM"))
	}

	block := lipgloss.JoinVertical(lipgloss.Right, label, bubble)
	return lipgloss.PlaceHorizontal(b.Width, lipgloss.Right, block)
}

// ==========================================================================
// VERDICT BUBBLE
// ==========================================================================

func (b *MessageBubble) renderVerdict(m *model.VerifactMessage) string {
	maxWidth := b.contentWidth()
	p := styles.PresentStatus(m.Status)

	var sections []string
	sections = append(sections, styles.StatusBadge(b.theme, m.Status))
	if m.Summary != "" {
		sections = append(sections, b.theme.VerdictSummary.Render(wordWrap(m.Summary, maxWidth)))
	}
	if paras := m.Paragraphs(); len(paras) > 0 {
		var details string
		if b.Markdown != nil {
			details = b.Markdown.RenderParagraphs(paras, maxWidth)
		} else {
			details = wordWrap(strings.Join(paras, "\n\n"), maxWidth)
		}
		sections = append(sections, b.theme.VerdictDetails.Render(details))
	}
	content := strings.Join(sections, "\n\n")

	bubble := b.theme.VerdictBubbleFor(p).
		Width(clampWidth(maxLineWidth(content)+4, 8, b.Width-8)).
		Render(content)

	label := b.theme.HeaderBrand.Render("Verifact")
	if b.ShowTimestamp {
		label += " " + b.theme.Timestamp.Render(m.CreatedAt.Format("3:04 PM"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, label, bubble)
}

// RenderTranscript renders every message separated by a blank line.
func RenderTranscript(msgs []model.Message, theme *styles.Theme, md *Markdown, width int) string {
	out := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		bubble := NewMessageBubble(msg, theme)
		bubble.Width = width
		bubble.Markdown = md
		out = append(out, bubble.View())
	}
	return strings.Join(out, "\n\n")
}
