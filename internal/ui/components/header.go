// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/verifact-tui/internal/ui/styles"
	"github.com/jeranaias/verifact-tui/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Section is the top-level area shown in the navigation tabs.
type Section int

const (
	SectionChat Section = iota
	SectionHistory
)

// String returns the tab label.
func (s Section) String() string {
	switch s {
	case SectionHistory:
		return "History"
	default:
		return "Chat"
	}
}

// Header is the title bar with brand, navigation tabs and profile.
type Header struct {
	Title   string
	Section Section
	Profile string
	Width   int
	theme   *styles.Theme
}

// NewHeader creates a header with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "Verifact",
		Width: 80,
		theme: theme,
	}
}

// View renders the header.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}
	inner := width - h.theme.Header.GetHorizontalFrameSize()

	brand := h.theme.HeaderBrand.Render(h.Title)

	tabs := make([]string, 0, 2)
	for _, s := range []Section{SectionChat, SectionHistory} {
		if s == h.Section {
			tabs = append(tabs, h.theme.NavActive.Render(s.String()))
		} else {
			tabs = append(tabs, h.theme.NavInactive.Render(s.String()))
		}
	}
	left := brand + "  " + strings.Join(tabs, " ")

	right := ""
	if h.Profile != "" {
		room := inner - lipgloss.Width(left) - 2
		if room > 4 {
			right = h.theme.HeaderProfile.Render(util.TruncateWidth(h.Profile, room))
		}
	}

	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return h.theme.Header.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
