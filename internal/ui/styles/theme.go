// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted by NewTheme.
const (
	ModeSystem = "system"
	ModeLight  = "light"
	ModeDark   = "dark"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	Mode         string
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile
	// ASCII swaps unicode glyphs for bracketed indicators.
	ASCII bool

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderBrand    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	HeaderProfile  lipgloss.Style
	NavActive      lipgloss.Style
	NavInactive    lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble     lipgloss.Style
	VerdictBubble  lipgloss.Style
	VerdictSummary lipgloss.Style
	VerdictDetails lipgloss.Style
	ImageChip      lipgloss.Style
	Timestamp      lipgloss.Style
	Badge          lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style
	StagedImage      lipgloss.Style

	// ==========================================================================
	// LOADING AND FAILURE STYLES
	// ==========================================================================

	Spinner       lipgloss.Style
	LoadingText   lipgloss.Style
	FailureBanner lipgloss.Style
	FailureTitle  lipgloss.Style
	FailureHint   lipgloss.Style

	// ==========================================================================
	// WELCOME STYLES
	// ==========================================================================

	WelcomeTitle          lipgloss.Style
	WelcomeInfo           lipgloss.Style
	SuggestionCard        lipgloss.Style
	SuggestionCardFocused lipgloss.Style
	SuggestionTitle       lipgloss.Style
	SuggestionText        lipgloss.Style

	// ==========================================================================
	// HISTORY STYLES
	// ==========================================================================

	HistoryRow         lipgloss.Style
	HistoryRowSelected lipgloss.Style
	HistoryDate        lipgloss.Style
	FilterActive       lipgloss.Style
	FilterInactive     lipgloss.Style
	EmptyState         lipgloss.Style
	DetailTitle        lipgloss.Style
	DetailLabel        lipgloss.Style
	DetailValue        lipgloss.Style

	// ==========================================================================
	// FOOTER STYLES
	// ==========================================================================

	Footer       lipgloss.Style
	Disclaimer   lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	ErrorStyle lipgloss.Style
	InfoStyle  lipgloss.Style
	LinkStyle  lipgloss.Style
}

// ValidMode reports whether mode is a theme mode NewTheme understands.
func ValidMode(mode string) bool {
	switch mode {
	case ModeSystem, ModeLight, ModeDark:
		return true
	}
	return false
}

// NewTheme creates a theme for the given mode. An unknown mode behaves like
// ModeSystem.
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch mode {
	case ModeLight:
		isDark = false
	case ModeDark:
		isDark = true
	default:
		mode = ModeSystem
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		Mode:         mode,
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
		ASCII:        colorProfile == termenv.Ascii,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.HeaderProfile = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.NavActive = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true).
		Underline(true)

	t.NavInactive = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.VerdictBubble = lipgloss.NewStyle().
		Foreground(VerdictBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(0, 2).
		MarginRight(4)

	t.VerdictSummary = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.VerdictDetails = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ImageChip = lipgloss.NewStyle().
		Foreground(Cyan).
		Italic(true)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Badge = lipgloss.NewStyle().
		Bold(true)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.StagedImage = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)

	// Loading and failure
	t.Spinner = lipgloss.NewStyle().
		Foreground(Indigo)

	t.LoadingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.FailureBanner = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Red).
		Padding(0, 1)

	t.FailureTitle = lipgloss.NewStyle().
		Foreground(Red).
		Bold(true)

	t.FailureHint = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Welcome
	t.WelcomeTitle = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true)

	t.WelcomeInfo = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.SuggestionCard = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1).
		Width(28)

	t.SuggestionCardFocused = t.SuggestionCard.
		BorderForeground(FocusRing)

	t.SuggestionTitle = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.SuggestionText = lipgloss.NewStyle().
		Foreground(TextMuted)

	// History
	t.HistoryRow = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.HistoryRowSelected = lipgloss.NewStyle().
		Background(SelectionBg).
		Bold(true).
		Padding(0, 1)

	t.HistoryDate = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.FilterActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Indigo).
		Padding(0, 1)

	t.FilterInactive = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.EmptyState = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(1, 2).
		Align(lipgloss.Center)

	t.DetailTitle = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.DetailLabel = lipgloss.NewStyle().
		Foreground(TextMuted).
		Width(10)

	t.DetailValue = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Footer
	t.Footer = lipgloss.NewStyle().
		Foreground(TextMuted).
		Padding(0, 1)

	t.Disclaimer = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(Red).
		Bold(true)

	t.InfoStyle = lipgloss.NewStyle().
		Foreground(Sky)

	t.LinkStyle = lipgloss.NewStyle().
		Foreground(LinkColor).
		Underline(true)
}

// VerdictBubbleFor returns the verdict bubble with its border in the
// status accent.
func (t *Theme) VerdictBubbleFor(p StatusPresentation) lipgloss.Style {
	return t.VerdictBubble.BorderForeground(p.Accent)
}

// Shortcut renders a "key desc" hint pair.
func (t *Theme) Shortcut(key, desc string) string {
	return t.ShortcutKey.Render(key) + " " + t.ShortcutDesc.Render(desc)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
