// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/verifact-tui/internal/config"
	"github.com/jeranaias/verifact-tui/internal/conversation"
	"github.com/jeranaias/verifact-tui/internal/export"
	"github.com/jeranaias/verifact-tui/internal/history"
	"github.com/jeranaias/verifact-tui/internal/logging"
	"github.com/jeranaias/verifact-tui/internal/ui/chat"
	"github.com/jeranaias/verifact-tui/internal/ui/components"
	"github.com/jeranaias/verifact-tui/internal/ui/historyview"
	"github.com/jeranaias/verifact-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// NavigateMsg switches the visible screen to Path.
type NavigateMsg struct {
	Path string
}

// ConfigChangedMsg carries a reloaded configuration.
type ConfigChangedMsg struct {
	Config *config.Config
}

// =============================================================================
// SCREENS
// =============================================================================

// Screen identifies the visible screen.
type Screen int

const (
	ScreenChat Screen = iota
	ScreenHistory
	ScreenDetail
)

func (s Screen) section() components.Section {
	if s == ScreenChat {
		return components.SectionChat
	}
	return components.SectionHistory
}

type globalKeys struct {
	Chat    key.Binding
	History key.Binding
}

func defaultGlobalKeys() globalKeys {
	return globalKeys{
		Chat: key.NewBinding(
			key.WithKeys("alt+1"),
			key.WithHelp("alt+1", "chat"),
		),
		History: key.NewBinding(
			key.WithKeys("alt+2"),
			key.WithHelp("alt+2", "history"),
		),
	}
}

// =============================================================================
// ROOT MODEL
// =============================================================================

// Options configures the root model.
type Options struct {
	// Controller owns the chat session. Required.
	Controller *conversation.Controller

	// Repository backs the history screens. Nil shows an empty history.
	Repository history.Repository

	// Config supplies UI and profile settings. Defaults apply when nil.
	Config *config.Config

	Theme        *styles.Theme
	Logger       *zap.Logger
	ExportDir    string
	ExportFormat export.Format
	Clock        func() time.Time
}

// Model is the application root. It owns the header, routes navigation
// paths to screens and forwards messages to the active screen.
type Model struct {
	ctrl   *conversation.Controller
	theme  *styles.Theme
	logger *zap.Logger
	keys   globalKeys
	nav    *channelNavigator

	header *components.Header
	chat   chat.Model
	list   historyview.ListModel
	detail historyview.DetailModel

	screen Screen
	path   string
	width  int
	height int
}

// New wires the screens together. The controller and both history screens
// navigate through the returned model.
func New(opts Options) Model {
	if opts.Controller == nil {
		panic("app: nil Controller")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(cfg.UI.Theme)
	}

	nav := newChannelNavigator()
	opts.Controller.SetNavigator(nav)

	header := components.NewHeader(theme)
	header.Profile = cfg.Profile.DisplayName()

	m := Model{
		ctrl:   opts.Controller,
		theme:  theme,
		logger: logging.OrNop(opts.Logger).Named("app"),
		keys:   defaultGlobalKeys(),
		nav:    nav,
		header: header,
		chat: chat.New(chat.Options{
			Controller:   opts.Controller,
			Theme:        theme,
			ShowWelcome:  cfg.UI.ShowWelcome,
			Markdown:     cfg.UI.Markdown,
			ExportDir:    opts.ExportDir,
			ExportFormat: opts.ExportFormat,
			Clock:        opts.Clock,
		}),
		list: historyview.NewList(historyview.ListOptions{
			Repository:   opts.Repository,
			Navigator:    nav,
			Theme:        theme,
			ExportDir:    opts.ExportDir,
			ExportFormat: opts.ExportFormat,
			Clock:        opts.Clock,
		}),
		detail: historyview.NewDetail(historyview.DetailOptions{
			Repository: opts.Repository,
			Navigator:  nav,
			Theme:      theme,
			Markdown:   cfg.UI.Markdown,
		}),
		screen: ScreenChat,
		path:   conversation.PathChat,
		width:  80,
		height: 24,
	}
	m.layout()
	return m
}

// Init starts the chat input, loads the history and listens for navigation.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.chat.Init(), m.list.Init(), m.nav.listen())
}

// Screen returns the visible screen.
func (m Model) Screen() Screen {
	return m.screen
}

// Path returns the current navigation path.
func (m Model) Path() string {
	return m.path
}

// Header returns the title bar.
func (m Model) Header() *components.Header {
	return m.header
}

// Chat returns the chat screen.
func (m Model) Chat() chat.Model {
	return m.chat
}

// List returns the history list screen.
func (m Model) List() historyview.ListModel {
	return m.list
}

// Detail returns the claim detail screen.
func (m Model) Detail() historyview.DetailModel {
	return m.detail
}

func (m *Model) layout() {
	m.header.Width = m.width
	m.header.Section = m.screen.section()
	h := m.height - lipgloss.Height(m.header.View())
	if h < 1 {
		h = 1
	}
	m.chat.SetSize(m.width, h)
	m.list.SetSize(m.width, h)
	m.detail.SetSize(m.width, h)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update routes messages to the screens.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case NavigateMsg:
		cmds = append(cmds, m.route(msg.Path), m.nav.listen())
		return m, tea.Batch(cmds...)

	case ConfigChangedMsg:
		if msg.Config != nil {
			m.header.Profile = msg.Config.Profile.DisplayName()
			m.layout()
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Chat):
			return m, m.route(conversation.PathChat)
		case key.Matches(msg, m.keys.History):
			return m, m.route(conversation.PathHistory)
		}
		cmds = append(cmds, m.updateScreen(msg))

	case chat.VerificationDoneMsg, chat.PreviewDoneMsg, chat.ExportDoneMsg, spinner.TickMsg:
		cmds = append(cmds, m.updateChat(msg))
		if _, ok := msg.(chat.VerificationDoneMsg); ok {
			cmds = append(cmds, m.list.Reload())
		}

	case historyview.RecordsLoadedMsg, historyview.ExportDoneMsg:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)

	case historyview.RecordLoadedMsg:
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		cmds = append(cmds, cmd)

	default:
		cmds = append(cmds, m.updateScreen(msg))
	}

	cmds = append(cmds, m.drainNavigation()...)
	return m, tea.Batch(cmds...)
}

func (m *Model) updateChat(msg tea.Msg) tea.Cmd {
	next, cmd := m.chat.Update(msg)
	if c, ok := next.(chat.Model); ok {
		m.chat = c
	}
	return cmd
}

func (m *Model) updateScreen(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.screen {
	case ScreenHistory:
		m.list, cmd = m.list.Update(msg)
	case ScreenDetail:
		m.detail, cmd = m.detail.Update(msg)
	default:
		cmd = m.updateChat(msg)
	}
	return cmd
}

// drainNavigation applies navigation requested while handling the current
// message, so a screen switch is visible in the same frame.
func (m *Model) drainNavigation() []tea.Cmd {
	var cmds []tea.Cmd
	for {
		select {
		case path := <-m.nav.ch:
			cmds = append(cmds, m.route(path))
		default:
			return cmds
		}
	}
}

// route switches to the screen for path. Unknown paths fall back to chat.
func (m *Model) route(path string) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case path == conversation.PathHistory:
		m.screen = ScreenHistory
		cmd = m.list.Reload()
	default:
		if id, ok := conversation.ParseDetailPath(path); ok {
			m.screen = ScreenDetail
			cmd = m.detail.Open(id)
			break
		}
		if path != conversation.PathChat {
			m.logger.Debug("unknown navigation path", zap.String("path", path))
			path = conversation.PathChat
		}
		m.screen = ScreenChat
		cmd = m.chat.Focus()
	}
	m.path = path
	m.logger.Debug("navigate", zap.String("path", path))
	m.layout()
	return cmd
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the header above the active screen.
func (m Model) View() string {
	var body string
	switch m.screen {
	case ScreenHistory:
		body = m.list.View()
	case ScreenDetail:
		body = m.detail.View()
	default:
		body = m.chat.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body)
}
