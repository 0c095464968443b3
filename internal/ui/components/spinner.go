// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/verifact-tui/internal/ui/styles"
)

// =============================================================================
// LOADING INDICATOR
// =============================================================================

// Loading shows a spinner and elapsed time while a verification runs.
type Loading struct {
	Label   string
	spinner spinner.Model
	started time.Time
	active  bool
	theme   *styles.Theme
}

// NewLoading creates an idle indicator.
func NewLoading(theme *styles.Theme, label string) Loading {
	return Loading{
		Label: label,
		spinner: spinner.New(
			spinner.WithSpinner(styles.DotsSpinner.Bubble()),
			spinner.WithStyle(theme.Spinner),
		),
		theme: theme,
	}
}

// Start activates the indicator and returns the first tick.
func (l *Loading) Start(now time.Time) tea.Cmd {
	l.active = true
	l.started = now
	return l.spinner.Tick
}

// Stop deactivates the indicator.
func (l *Loading) Stop() {
	l.active = false
}

// Active reports whether the indicator is running.
func (l Loading) Active() bool {
	return l.active
}

// Update advances the spinner. Ticks stop once inactive.
func (l Loading) Update(msg tea.Msg) (Loading, tea.Cmd) {
	if !l.active {
		return l, nil
	}
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

// View renders the indicator, or "" when inactive.
func (l Loading) View(now time.Time) string {
	if !l.active {
		return ""
	}
	elapsed := now.Sub(l.started).Truncate(100 * time.Millisecond)
	return l.theme.Spinner.Render(l.spinner.View()) + " " +
		l.theme.LoadingText.Render(l.Label) + " " +
		l.theme.Timestamp.Render(fmt.Sprintf("%.1fs", elapsed.Seconds()))
}
