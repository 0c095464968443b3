// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/verifact-tui/internal/model"
)

// =============================================================================
// STATUS PRESENTATION
// =============================================================================

// IconKind names the icon shown beside a verdict.
type IconKind int

const (
	IconClock IconKind = iota
	IconCheck
	IconCross
	IconQuestion
)

// String returns the icon name.
func (k IconKind) String() string {
	switch k {
	case IconCheck:
		return "check"
	case IconCross:
		return "cross"
	case IconQuestion:
		return "question"
	default:
		return "clock"
	}
}

// ASCII returns a shape indicator that reads without color or unicode.
func (k IconKind) ASCII() string {
	switch k {
	case IconCheck:
		return "[OK]"
	case IconCross:
		return "[X]"
	case IconQuestion:
		return "[?]"
	default:
		return "[ ]"
	}
}

// StatusPresentation is how a verdict is drawn.
type StatusPresentation struct {
	Icon   IconKind
	Accent lipgloss.AdaptiveColor
	Label  string
	Glyph  string
}

var (
	verifiedPresentation     = StatusPresentation{Icon: IconCheck, Accent: Green, Label: "Verified", Glyph: "✓"}
	debunkedPresentation     = StatusPresentation{Icon: IconCross, Accent: Red, Label: "Debunked", Glyph: "✗"}
	pendingPresentation      = StatusPresentation{Icon: IconClock, Accent: Sky, Label: "Pending", Glyph: "◷"}
	inconclusivePresentation = StatusPresentation{Icon: IconQuestion, Accent: Yellow, Label: "Inconclusive", Glyph: "?"}
)

// PresentStatus maps a status to its icon, accent and label. Values outside
// the four known statuses get the pending presentation.
func PresentStatus(s model.Status) StatusPresentation {
	switch s {
	case model.StatusVerified:
		return verifiedPresentation
	case model.StatusDebunked:
		return debunkedPresentation
	case model.StatusInconclusive:
		return inconclusivePresentation
	default:
		return pendingPresentation
	}
}

// StatusBadge renders the glyph and label in the status accent.
func StatusBadge(t *Theme, s model.Status) string {
	p := PresentStatus(s)
	style := lipgloss.NewStyle().Foreground(p.Accent).Bold(true)
	if t != nil {
		style = t.Badge.Foreground(p.Accent)
	}
	glyph := p.Glyph
	if t != nil && t.ASCII {
		glyph = p.Icon.ASCII()
	}
	return style.Render(glyph + " " + p.Label)
}

// StatusText renders just the label in the status accent.
func StatusText(s model.Status) string {
	p := PresentStatus(s)
	return lipgloss.NewStyle().Foreground(p.Accent).Render(p.Label)
}
