// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package historyview

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jeranaias/verifact-tui/internal/conversation"
	"github.com/jeranaias/verifact-tui/internal/history"
	"github.com/jeranaias/verifact-tui/internal/ui/components"
	"github.com/jeranaias/verifact-tui/internal/ui/styles"
	"github.com/jeranaias/verifact-tui/internal/util"
)

const (
	backLabel      = "Back to Verification History"
	errorTitle     = "Error Loading Claim"
	errorBackLabel = "Back to History"
	loadingLabel   = "Loading claim details..."
)

// =============================================================================
// DETAIL MODEL
// =============================================================================

// DetailOptions configures a DetailModel.
type DetailOptions struct {
	Repository history.Repository
	Navigator  conversation.Navigator
	Theme      *styles.Theme
	Markdown   bool
}

// DetailModel shows one past verification: the claim, its verdict, the
// explanation and the supporting evidence.
type DetailModel struct {
	repo     history.Repository
	nav      conversation.Navigator
	theme    *styles.Theme
	keys     DetailKeyMap
	markdown *components.Markdown
	status   *components.StatusBar
	viewport viewport.Model

	id      string
	record  history.Record
	loading bool
	err     error

	width  int
	height int
}

// NewDetail creates an empty detail screen. Call Open to load a claim.
func NewDetail(opts DetailOptions) DetailModel {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(styles.ModeSystem)
	}
	return DetailModel{
		repo:     opts.Repository,
		nav:      opts.Navigator,
		theme:    theme,
		keys:     DefaultDetailKeyMap(),
		markdown: components.NewMarkdown(theme, opts.Markdown),
		status:   components.NewStatusBar(theme),
		viewport: viewport.New(80, 20),
		width:    80,
		height:   24,
	}
}

// Open starts loading the claim with the given ID.
func (m *DetailModel) Open(id string) tea.Cmd {
	m.id = id
	m.record = history.Record{}
	m.err = nil
	m.loading = true
	if m.repo == nil {
		m.loading = false
		m.err = history.ErrNotFound
		return nil
	}
	return loadRecord(m.repo, id)
}

// ID returns the claim being shown.
func (m DetailModel) ID() string {
	return m.id
}

// Record returns the loaded claim.
func (m DetailModel) Record() (history.Record, bool) {
	return m.record, !m.loading && m.err == nil && m.record.ID != ""
}

// Err returns the load error, if any.
func (m DetailModel) Err() error {
	return m.err
}

// KeyMap returns the detail bindings.
func (m DetailModel) KeyMap() DetailKeyMap {
	return m.keys
}

// SetSize updates the available area.
func (m *DetailModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.status.Width = width
	m.viewport.Width = width
	h := height - lipgloss.Height(m.renderBack()) - lipgloss.Height(m.status.View(m.keys))
	if h < 3 {
		h = 3
	}
	m.viewport.Height = h
	m.refresh()
}

func (m *DetailModel) refresh() {
	if m.record.ID == "" {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(m.renderRecord())
	m.viewport.GotoTop()
}

func (m *DetailModel) back() {
	if m.nav != nil {
		m.nav.Navigate(conversation.PathHistory)
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and user input.
func (m DetailModel) Update(msg tea.Msg) (DetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case RecordLoadedMsg:
		if msg.ID != m.id {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.record = msg.Record
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.back()
			return m, nil
		case key.Matches(msg, m.keys.Up):
			m.viewport.LineUp(1)
		case key.Matches(msg, m.keys.Down):
			m.viewport.LineDown(1)
		case key.Matches(msg, m.keys.PageUp):
			m.viewport.HalfViewUp()
		case key.Matches(msg, m.keys.PageDown):
			m.viewport.HalfViewDown()
		}
		return m, nil
	}
	return m, nil
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the detail screen.
func (m DetailModel) View() string {
	footer := m.status.View(m.keys)

	switch {
	case m.loading:
		body := lipgloss.Place(m.width, m.viewport.Height, lipgloss.Center, lipgloss.Center,
			m.theme.LoadingText.Render(loadingLabel))
		return lipgloss.JoinVertical(lipgloss.Left, m.renderBack(), body, footer)

	case m.err != nil:
		return lipgloss.JoinVertical(lipgloss.Left, m.renderError(), footer)
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderBack(), m.viewport.View(), footer)
}

func (m DetailModel) renderBack() string {
	return " " + m.theme.LinkStyle.Render("< "+backLabel) + "  " + components.Hint(m.theme, m.keys.Back) + "\n"
}

func (m DetailModel) renderError() string {
	msg := "Failed to load claim details."
	if errors.Is(m.err, history.ErrNotFound) {
		msg = "Claim not found."
	} else if m.err != nil {
		msg = m.err.Error()
	}
	block := lipgloss.JoinVertical(lipgloss.Center,
		m.theme.FailureTitle.Render(styles.RenderError(errorTitle)),
		m.theme.EmptyState.Render(msg),
		m.theme.LinkStyle.Render(errorBackLabel)+"  "+components.Hint(m.theme, m.keys.Back),
	)
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	return lipgloss.Place(m.width, h, lipgloss.Center, lipgloss.Center, block)
}

// renderRecord lays out the claim as sections: original claim, metadata,
// verification details and supporting evidence.
func (m DetailModel) renderRecord() string {
	r := m.record
	width := m.width - 4
	if width < 20 {
		width = 20
	}

	var sections []string

	claim := []string{
		m.theme.DetailTitle.Render("Original Claim"),
		m.theme.DetailValue.Render(wordwrap.String(r.ClaimText, width)),
	}
	if r.ImageURL != "" {
		claim = append(claim, m.theme.DetailLabel.Render("Image:")+m.theme.DetailValue.Render(util.TruncateWidth(r.ImageURL, width-10)))
	}
	sections = append(sections, strings.Join(claim, "\n"))

	meta := []string{
		styles.StatusBadge(m.theme, r.Status),
		m.theme.DetailLabel.Render("Verified on:") + " " + m.theme.DetailValue.Render(util.FormatDate(r.VerificationDate)),
	}
	if r.OriginalSource != "" {
		meta = append(meta, m.theme.DetailLabel.Render("Source:")+" "+m.theme.DetailValue.Render(r.OriginalSource))
	}
	sections = append(sections, strings.Join(meta, "\n"))

	details := []string{m.theme.DetailTitle.Render("Verification Details")}
	if r.Summary != "" {
		details = append(details, m.theme.VerdictSummary.Render(wordwrap.String(r.Summary, width)))
	}
	if paras := r.Paragraphs(); len(paras) > 0 {
		details = append(details, m.markdown.RenderParagraphs(paras, width))
	} else if r.Summary == "" {
		details = append(details, m.theme.HistoryDate.Render("No details available yet."))
	}
	sections = append(sections, strings.Join(details, "\n\n"))

	if len(r.EvidenceLinks) > 0 {
		ev := []string{m.theme.DetailTitle.Render("Supporting Evidence")}
		for i, link := range r.EvidenceLinks {
			prefix := styles.RenderTreeLine(i == len(r.EvidenceLinks)-1)
			ev = append(ev, prefix+m.theme.LinkStyle.Render(link.Title))
			ev = append(ev, strings.Repeat(" ", lipgloss.Width(prefix))+m.theme.HistoryDate.Render(util.TruncateWidth(link.URL, width-4)))
		}
		sections = append(sections, strings.Join(ev, "\n"))
	}

	return lipgloss.NewStyle().Padding(0, 2).Render(strings.Join(sections, "\n\n"))
}
