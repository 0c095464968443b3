// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/verifact-tui/internal/conversation"
	"github.com/jeranaias/verifact-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

const (
	welcomeTitle    = "Welcome to Verifact!"
	welcomeSubtitle = "Verify rumors, check information, and explore topics with confidence. How can I help you today?"
)

// Welcome shows the greeting and the suggestion cards until the first
// submission.
type Welcome struct {
	suggestions []conversation.Suggestion
	focused     int // -1 when no card has focus
	width       int
	theme       *styles.Theme
}

// NewWelcome creates a welcome screen for the given suggestions.
func NewWelcome(theme *styles.Theme, suggestions []conversation.Suggestion) Welcome {
	return Welcome{
		suggestions: suggestions,
		focused:     -1,
		width:       80,
		theme:       theme,
	}
}

// SetWidth updates the available width.
func (w *Welcome) SetWidth(width int) {
	w.width = width
}

// Next moves card focus forward, wrapping.
func (w *Welcome) Next() {
	if len(w.suggestions) == 0 {
		return
	}
	w.focused = (w.focused + 1) % len(w.suggestions)
}

// Prev moves card focus backward, wrapping.
func (w *Welcome) Prev() {
	if len(w.suggestions) == 0 {
		return
	}
	if w.focused <= 0 {
		w.focused = len(w.suggestions) - 1
		return
	}
	w.focused--
}

// Blur clears card focus.
func (w *Welcome) Blur() {
	w.focused = -1
}

// Focused returns the focused suggestion.
func (w Welcome) Focused() (conversation.Suggestion, bool) {
	if w.focused < 0 || w.focused >= len(w.suggestions) {
		return conversation.Suggestion{}, false
	}
	return w.suggestions[w.focused], true
}

// View renders the welcome screen.
func (w Welcome) View() string {
	width := w.width
	if width <= 0 {
		width = 80
	}

	title := w.theme.WelcomeTitle.Render(welcomeTitle)
	subtitle := w.theme.WelcomeInfo.Render(wordWrap(welcomeSubtitle, clampWidth(width-4, 20, 72)))

	cards := make([]string, len(w.suggestions))
	for i, s := range w.suggestions {
		cards[i] = w.renderCard(s, i == w.focused)
	}

	// Three cards need roughly 3*30 columns; stack them when narrow.
	var row string
	if w.theme.GetLayoutMode() == styles.LayoutWide || width >= 96 {
		row = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	} else {
		row = lipgloss.JoinVertical(lipgloss.Left, cards...)
	}

	hint := w.theme.Shortcut("tab", "choose a suggestion") + "  " + w.theme.Shortcut("enter", "use it")
	block := lipgloss.JoinVertical(lipgloss.Center, title, "", subtitle, "", row, "", hint)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
}

func (w Welcome) renderCard(s conversation.Suggestion, focused bool) string {
	style := w.theme.SuggestionCard
	if focused {
		style = w.theme.SuggestionCardFocused
	}
	inner := style.GetWidth() - style.GetHorizontalFrameSize()
	if inner < 10 {
		inner = 10
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		w.theme.SuggestionTitle.Render(s.Title),
		w.theme.SuggestionText.Render(wordWrap(s.Text, inner)),
		"",
		w.theme.LinkStyle.Render(wordWrap(`"`+s.Prompt+`"`, inner)),
	)
	return style.Render(body)
}
