// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/verifact-tui/internal/ui/components"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// renderChat renders the transcript (or the welcome screen) above the
// input area. The viewport height is derived from bottomHeight in layout,
// so both must render the same bottom parts.
func (m Model) renderChat() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.renderBody(), m.renderBottom())
}

func (m Model) renderBody() string {
	if m.welcomeVisible() {
		return lipgloss.Place(m.width, m.viewport.Height, lipgloss.Center, lipgloss.Center, m.welcome.View())
	}
	return m.viewport.View()
}

func (m Model) bottomHeight() int {
	return lipgloss.Height(m.renderBottom())
}

// renderBottom stacks loading indicator, failure banner, staged image,
// image prompt, input and footer.
func (m Model) renderBottom() string {
	var parts []string

	if m.loading.Active() {
		parts = append(parts, " "+m.loading.View(m.now()))
	}
	if banner := components.FailureBanner(m.theme, m.ctrl.LastFailure(), m.width); banner != "" {
		parts = append(parts, banner)
	}
	if staged := m.renderStaged(); staged != "" {
		parts = append(parts, staged)
	}
	if m.prompting {
		parts = append(parts, m.theme.InputContainer.Width(m.inputWidth()).Render(m.imagePrompt.View()))
	}
	parts = append(parts, m.renderInput())

	m.status.Notice = m.notice
	parts = append(parts, m.status.View(m.keys))

	return strings.Join(parts, "\n")
}

func (m Model) inputWidth() int {
	w := m.width - 2
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) renderInput() string {
	style := m.theme.InputContainer.Width(m.inputWidth())
	if m.ctrl.Loading() {
		style = style.BorderForeground(m.theme.InputPlaceholder.GetForeground())
	}
	return style.Render(m.input.View())
}

// renderStaged shows the staged image chip and, once decoded, its thumbnail.
func (m Model) renderStaged() string {
	st := m.ctrl.StagedImage()
	if st == nil {
		return ""
	}

	label := "[image] " + st.Ref.Name
	switch {
	case st.Preview != nil:
		label += "  " + strings.ToUpper(st.Preview.Format) + " " + st.Preview.Dimensions()
	case st.PreviewErr != nil:
		label += "  (no preview)"
	default:
		label += "  (loading preview...)"
	}
	chip := " " + m.theme.StagedImage.Render(label) + "  " + components.Hint(m.theme, m.keys.RemoveImage)

	if st.Preview != nil && st.Preview.Thumbnail != "" {
		return lipgloss.JoinVertical(lipgloss.Left, st.Preview.Thumbnail, chip)
	}
	return chip
}
