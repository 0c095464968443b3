// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/verifact-tui/internal/conversation"
	"github.com/jeranaias/verifact-tui/internal/ui/styles"
	"github.com/jeranaias/verifact-tui/internal/util"
)

// =============================================================================
// FAILURE BANNER
// =============================================================================

// FailureBanner renders a failed verification with retry and dismiss hints.
// It returns "" for a nil failure.
func FailureBanner(theme *styles.Theme, f *conversation.Failure, width int) string {
	if f == nil {
		return ""
	}

	title := "Verification failed"
	hint := "The verification service could not be reached."
	if f.Timeout() {
		title = "Verification timed out"
		hint = "The verification service took too long to answer."
	}

	claim := util.TruncateWidth(f.Query.Label(), clampWidth(width-16, 10, 200))
	body := lipgloss.JoinVertical(lipgloss.Left,
		theme.FailureTitle.Render(styles.RenderError(title)),
		theme.FailureHint.Render(hint),
		theme.FailureHint.Render("Claim: "+claim),
		theme.Shortcut("ctrl+r", "retry")+"  "+theme.Shortcut("esc", "dismiss"),
	)
	return theme.FailureBanner.Width(clampWidth(width-4, 20, width)).Render(body)
}

// ErrorLine renders a one-line error message.
func ErrorLine(theme *styles.Theme, msg string) string {
	return theme.ErrorStyle.Render(msg)
}
