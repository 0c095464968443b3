// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/verifact-tui/internal/ui/styles"
)

// Disclaimer is shown under the chat input.
const Disclaimer = "Verifact can make mistakes. Consider checking important information."

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar is the footer: an optional notice, the key hints and the
// disclaimer.
type StatusBar struct {
	Width          int
	Notice         string
	ShowDisclaimer bool

	help  help.Model
	theme *styles.Theme
}

// NewStatusBar creates a footer.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	h := help.New()
	h.Styles.ShortKey = theme.ShortcutKey
	h.Styles.ShortDesc = theme.ShortcutDesc
	h.Styles.ShortSeparator = theme.ShortcutDesc
	h.Styles.FullKey = theme.ShortcutKey
	h.Styles.FullDesc = theme.ShortcutDesc
	return &StatusBar{
		Width: 80,
		help:  h,
		theme: theme,
	}
}

// SetShowAll toggles the full help listing.
func (s *StatusBar) SetShowAll(all bool) {
	s.help.ShowAll = all
}

// View renders the footer with hints from keys.
func (s *StatusBar) View(keys help.KeyMap) string {
	s.help.Width = s.Width
	var lines []string
	if s.Notice != "" {
		lines = append(lines, s.theme.InfoStyle.Render(s.Notice))
	}
	if keys != nil {
		lines = append(lines, s.help.View(keys))
	}
	if s.ShowDisclaimer {
		lines = append(lines, lipgloss.PlaceHorizontal(s.Width, lipgloss.Center,
			s.theme.Disclaimer.Render(Disclaimer)))
	}
	return s.theme.Footer.Render(strings.Join(lines, "\n"))
}

// Hint renders a single binding the way the help view does.
func Hint(theme *styles.Theme, b key.Binding) string {
	h := b.Help()
	return theme.Shortcut(h.Key, h.Desc)
}
