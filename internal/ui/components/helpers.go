// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the Verifact TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

// wordWrap wraps text at width, keeping explicit newlines.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.String(text, width)
}

// maxLineWidth returns the display width of the widest line.
func maxLineWidth(s string) int {
	w := 0
	for _, line := range strings.Split(s, "\n") {
		if lw := lipgloss.Width(line); lw > w {
			w = lw
		}
	}
	return w
}

// clampWidth keeps a bubble width inside [lo, hi].
func clampWidth(w, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if w < lo {
		return lo
	}
	if w > hi {
		return hi
	}
	return w
}
