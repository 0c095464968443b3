// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/verifact-tui/internal/conversation"
	"github.com/jeranaias/verifact-tui/internal/export"
	"github.com/jeranaias/verifact-tui/internal/ui/components"
	"github.com/jeranaias/verifact-tui/internal/ui/styles"
)

const (
	inputPlaceholder = "Enter a claim to verify, or attach an image..."
	imagePlaceholder = "Path to a PNG, JPEG or GIF file"
	inputCharLimit   = 4096
	inputHeight      = 3
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Options configures a chat Model.
type Options struct {
	// Controller owns the session. Required.
	Controller *conversation.Controller

	Theme *styles.Theme

	// ShowWelcome enables the welcome screen before the first submission.
	ShowWelcome bool

	// Markdown renders verdict details with glamour.
	Markdown bool

	// ExportDir and ExportFormat control ctrl+e.
	ExportDir    string
	ExportFormat export.Format

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Model is the Bubble Tea model of the chat screen. It renders the state of
// a conversation.Controller and turns key presses into controller calls.
type Model struct {
	ctrl  *conversation.Controller
	theme *styles.Theme
	keys  KeyMap
	now   func() time.Time
	ctx   context.Context

	width  int
	height int

	// Components
	input       textarea.Model
	imagePrompt textinput.Model
	viewport    viewport.Model
	welcome     components.Welcome
	loading     components.Loading
	status      *components.StatusBar
	markdown    *components.Markdown

	// UI state
	prompting    bool
	showHelp     bool
	showWelcome  bool
	notice       string
	exportDir    string
	exportFormat export.Format
}

// New creates a chat model. It panics if opts.Controller is nil.
func New(opts Options) Model {
	if opts.Controller == nil {
		panic("chat: nil Controller")
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(styles.ModeSystem)
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	format := opts.ExportFormat
	if format == "" {
		format = export.FormatMarkdown
	}
	dir := opts.ExportDir
	if dir == "" {
		dir = "."
	}

	ta := textarea.New()
	ta.Placeholder = inputPlaceholder
	ta.ShowLineNumbers = false
	ta.Prompt = "> "
	ta.CharLimit = inputCharLimit
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()

	ip := textinput.New()
	ip.Prompt = "image: "
	ip.Placeholder = imagePlaceholder
	ip.CharLimit = 1024

	vp := viewport.New(80, 20)

	status := components.NewStatusBar(theme)
	status.ShowDisclaimer = true

	m := Model{
		ctrl:         opts.Controller,
		theme:        theme,
		keys:         DefaultKeyMap(),
		now:          now,
		ctx:          context.Background(),
		width:        80,
		height:       24,
		input:        ta,
		imagePrompt:  ip,
		viewport:     vp,
		welcome:      components.NewWelcome(theme, conversation.Suggestions()),
		loading:      components.NewLoading(theme, "Verifying..."),
		status:       status,
		markdown:     components.NewMarkdown(theme, opts.Markdown),
		showWelcome:  opts.ShowWelcome,
		exportDir:    dir,
		exportFormat: format,
	}
	m.input.SetValue(m.ctrl.Draft())
	m.layout()
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// KeyMap returns the chat bindings.
func (m Model) KeyMap() KeyMap {
	return m.keys
}

// Controller returns the underlying session.
func (m Model) Controller() *conversation.Controller {
	return m.ctrl
}

// SetSize updates the available area, excluding the application header.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.layout()
}

// Focus gives keyboard focus back to the claim input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// Prompting reports whether the image path prompt is open.
func (m Model) Prompting() bool {
	return m.prompting
}

// Notice returns the transient footer message.
func (m Model) Notice() string {
	return m.notice
}

// welcomeVisible reports whether the welcome screen replaces the transcript.
func (m Model) welcomeVisible() bool {
	return m.showWelcome && !m.ctrl.Started()
}

// layout sizes the components to the current area and refreshes the
// transcript.
func (m *Model) layout() {
	contentWidth := m.width - 2
	if contentWidth < 20 {
		contentWidth = 20
	}
	m.input.SetWidth(contentWidth - 2)
	m.imagePrompt.Width = contentWidth - len(m.imagePrompt.Prompt) - 2
	m.welcome.SetWidth(contentWidth)
	m.status.Width = m.width

	m.viewport.Width = m.width
	h := m.height - m.bottomHeight()
	if h < 3 {
		h = 3
	}
	m.viewport.Height = h
	m.refreshTranscript()
}

// refreshTranscript re-renders the transcript into the viewport and
// scrolls to the newest message.
func (m *Model) refreshTranscript() {
	content := components.RenderTranscript(m.ctrl.Messages(), m.theme, m.markdown, m.viewport.Width)
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

// syncFocusRequest moves a requested draft into the input.
func (m *Model) syncFocusRequest() tea.Cmd {
	if !m.ctrl.FocusRequested() {
		return nil
	}
	m.input.SetValue(m.ctrl.Draft())
	m.input.CursorEnd()
	return m.input.Focus()
}
