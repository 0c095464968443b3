// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package historyview

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/verifact-tui/internal/conversation"
	"github.com/jeranaias/verifact-tui/internal/export"
	"github.com/jeranaias/verifact-tui/internal/history"
	"github.com/jeranaias/verifact-tui/internal/model"
	"github.com/jeranaias/verifact-tui/internal/ui/components"
	"github.com/jeranaias/verifact-tui/internal/ui/styles"
	"github.com/jeranaias/verifact-tui/internal/util"
)

const (
	listTitle    = "Verification History"
	listSubtitle = "Review all your past verified claims and their outcomes."

	emptyTitle  = "No History Yet"
	emptyText   = "Once you start verifying claims, they will appear here."
	emptyAction = "Verify Your First Claim"

	noMatchTitle = "No Matching Claims"
	noMatchText  = "Try a different search term or status filter."

	// rowHeight is the rendered height of one record including its gap.
	rowHeight = 4
)

// statusCycle is the order the status filter steps through.
var statusCycle = []history.StatusFilter{
	history.StatusAll,
	history.FilterFor(model.StatusVerified),
	history.FilterFor(model.StatusDebunked),
	history.FilterFor(model.StatusPending),
	history.FilterFor(model.StatusInconclusive),
}

// FilterLabel returns the display name of a status filter.
func FilterLabel(f history.StatusFilter) string {
	if f == "" || f == history.StatusAll {
		return "All Statuses"
	}
	return model.Status(f).Title()
}

// =============================================================================
// LIST MODEL
// =============================================================================

// ListOptions configures a ListModel.
type ListOptions struct {
	Repository   history.Repository
	Navigator    conversation.Navigator
	Theme        *styles.Theme
	ExportDir    string
	ExportFormat export.Format
	Clock        func() time.Time
}

// ListModel browses the verification history with search, status filter
// and sort controls.
type ListModel struct {
	repo   history.Repository
	nav    conversation.Navigator
	theme  *styles.Theme
	keys   ListKeyMap
	status *components.StatusBar
	now    func() time.Time

	search    textinput.Model
	searching bool

	query   history.Query
	records []history.Record
	visible []history.Record
	cursor  int
	offset  int

	loaded   bool
	err      error
	notice   string
	showHelp bool

	exportDir    string
	exportFormat export.Format

	width  int
	height int
}

// NewList creates a history list. Call Init (or Reload) to load records.
func NewList(opts ListOptions) ListModel {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(styles.ModeSystem)
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	if opts.ExportFormat == "" {
		opts.ExportFormat = export.FormatMarkdown
	}

	ti := textinput.New()
	ti.Prompt = "Search: "
	ti.Placeholder = "Search claims..."
	ti.CharLimit = 256

	return ListModel{
		repo:         opts.Repository,
		nav:          opts.Navigator,
		theme:        theme,
		keys:         DefaultListKeyMap(),
		status:       components.NewStatusBar(theme),
		now:          now,
		search:       ti,
		query:        history.DefaultQuery(),
		exportDir:    opts.ExportDir,
		exportFormat: opts.ExportFormat,
		width:        80,
		height:       24,
	}
}

// Init loads the records.
func (m ListModel) Init() tea.Cmd {
	return m.Reload()
}

// Reload re-reads the repository.
func (m ListModel) Reload() tea.Cmd {
	if m.repo == nil {
		return func() tea.Msg { return RecordsLoadedMsg{} }
	}
	return loadRecords(m.repo)
}

// SetSize updates the available area.
func (m *ListModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.search.Width = width - len(m.search.Prompt) - 6
	m.status.Width = width
	m.clampScroll()
}

// Query returns the active filter and sort settings.
func (m ListModel) Query() history.Query {
	return m.query
}

// Visible returns the filtered and sorted records.
func (m ListModel) Visible() []history.Record {
	return m.visible
}

// Selected returns the record under the cursor.
func (m ListModel) Selected() (history.Record, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return history.Record{}, false
	}
	return m.visible[m.cursor], true
}

// Searching reports whether the search input has focus.
func (m ListModel) Searching() bool {
	return m.searching
}

// KeyMap returns the list bindings.
func (m ListModel) KeyMap() ListKeyMap {
	return m.keys
}

func (m *ListModel) apply() {
	m.visible = history.Apply(m.records, m.query)
	m.clampScroll()
}

func (m *ListModel) clampScroll() {
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	rows := m.rowsVisible()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m ListModel) rowsVisible() int {
	rows := (m.height - m.chromeHeight()) / rowHeight
	if rows < 1 {
		rows = 1
	}
	return rows
}

// chromeHeight is everything around the rows: title block, controls, footer.
func (m ListModel) chromeHeight() int {
	return lipgloss.Height(m.renderTop()) + lipgloss.Height(m.renderFooter()) + 1
}

func (m *ListModel) navigate(path string) {
	if m.nav != nil {
		m.nav.Navigate(path)
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and user input.
func (m ListModel) Update(msg tea.Msg) (ListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case RecordsLoadedMsg:
		m.loaded = true
		m.err = msg.Err
		if msg.Err == nil {
			m.records = msg.Records
		}
		m.apply()
		return m, nil

	case ExportDoneMsg:
		switch {
		case errors.Is(msg.Err, export.ErrNothingToExport):
			m.notice = "Nothing to export"
		case msg.Err != nil:
			m.notice = "Export failed: " + msg.Err.Error()
		default:
			m.notice = "Exported to " + msg.Path
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m ListModel) handleSearchKey(msg tea.KeyMsg) (ListModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.query.SearchTerm {
		m.query.SearchTerm = m.search.Value()
		m.cursor, m.offset = 0, 0
		m.apply()
	}
	return m, cmd
}

func (m ListModel) handleKey(msg tea.KeyMsg) (ListModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.status.SetShowAll(m.showHelp)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.clampScroll()
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
			m.clampScroll()
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if len(m.records) == 0 && m.loaded {
			m.navigate(conversation.PathChat)
			return m, nil
		}
		if rec, ok := m.Selected(); ok {
			m.navigate(conversation.DetailPath(rec.ID))
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		cmd := m.search.Focus()
		return m, tea.Batch(cmd, textinput.Blink)

	case key.Matches(msg, m.keys.CycleStatus):
		m.query.Status = nextFilter(m.query.Status)
		m.cursor, m.offset = 0, 0
		m.apply()
		return m, nil

	case key.Matches(msg, m.keys.ToggleSort):
		if m.query.SortBy == history.SortByStatus {
			m.query.SortBy = history.SortByDate
		} else {
			m.query.SortBy = history.SortByStatus
		}
		m.apply()
		return m, nil

	case key.Matches(msg, m.keys.ToggleOrder):
		m.query.Order = m.query.Order.Toggle()
		m.apply()
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		m.query = history.DefaultQuery()
		m.search.SetValue("")
		m.notice = ""
		m.cursor, m.offset = 0, 0
		m.apply()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.Reload()

	case key.Matches(msg, m.keys.Export):
		return m, m.exportVisible()

	case key.Matches(msg, m.keys.Chat):
		m.navigate(conversation.PathChat)
		return m, nil
	}
	return m, nil
}

func nextFilter(cur history.StatusFilter) history.StatusFilter {
	if cur == "" {
		cur = history.StatusAll
	}
	for i, f := range statusCycle {
		if f == cur {
			return statusCycle[(i+1)%len(statusCycle)]
		}
	}
	return history.StatusAll
}

func (m ListModel) exportVisible() tea.Cmd {
	doc := export.FromHistory(m.visible, m.now())
	format := m.exportFormat
	opts := &export.Options{OutputDir: m.exportDir, IncludeMetadata: true, IncludeTimestamps: true}
	return func() tea.Msg {
		exporter, err := export.New(format, opts)
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		path, err := export.ExportToFile(doc, exporter, opts)
		return ExportDoneMsg{Path: path, Err: err}
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the list.
func (m ListModel) View() string {
	top := m.renderTop()
	footer := m.renderFooter()
	bodyHeight := m.height - lipgloss.Height(top) - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body string
	switch {
	case !m.loaded:
		body = m.theme.LoadingText.Render("  Loading history...")
	case m.err != nil:
		body = "  " + components.ErrorLine(m.theme, styles.RenderError("Could not load history: "+m.err.Error()))
	case len(m.records) == 0:
		body = m.renderEmpty(emptyTitle, emptyText, components.Hint(m.theme, m.keys.Open)+" "+m.theme.LinkStyle.Render(emptyAction))
	case len(m.visible) == 0:
		body = m.renderEmpty(noMatchTitle, noMatchText, components.Hint(m.theme, m.keys.Reset))
	default:
		body = m.renderRows()
	}

	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, top, body, footer)
}

func (m ListModel) renderTop() string {
	lines := []string{
		m.theme.WelcomeTitle.Render(listTitle),
		m.theme.WelcomeInfo.Render(listSubtitle),
		"",
	}

	if m.searching || m.query.SearchTerm != "" {
		lines = append(lines, m.search.View())
	} else {
		lines = append(lines, m.theme.InputPlaceholder.Render("Search claims...")+"  "+components.Hint(m.theme, m.keys.Search))
	}

	order := "desc"
	if m.query.Order == history.Ascending {
		order = "asc"
	}
	controls := []string{
		m.theme.FilterActive.Render("Status: " + FilterLabel(m.query.Status)),
		m.theme.FilterInactive.Render(fmt.Sprintf("Sort: %s %s", m.query.SortBy, order)),
	}
	if m.loaded && len(m.records) > 0 {
		controls = append(controls, m.theme.HistoryDate.Render(m.countLine()))
	}
	lines = append(lines, strings.Join(controls, " "), "")

	return lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(lines, "\n"))
}

func (m ListModel) countLine() string {
	counts := history.CountByStatus(m.records)
	parts := []string{fmt.Sprintf("%d of %d claims", len(m.visible), len(m.records))}
	for _, s := range model.AllStatuses {
		if n := counts[s]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, s))
		}
	}
	return strings.Join(parts, " · ")
}

func (m ListModel) renderRows() string {
	end := m.offset + m.rowsVisible()
	if end > len(m.visible) {
		end = len(m.visible)
	}
	rows := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		rows = append(rows, m.renderRow(m.visible[i], i == m.cursor))
	}
	return strings.Join(rows, "\n\n")
}

func (m ListModel) renderRow(r history.Record, selected bool) string {
	width := m.width - 4
	if width < 20 {
		width = 20
	}

	badge := styles.StatusBadge(m.theme, r.Status)
	claimWidth := width - lipgloss.Width(badge) - 2
	line1 := badge + "  " + util.TruncateWidth(util.OneLine(r.ClaimText), claimWidth)

	line2 := ""
	if r.Summary != "" {
		line2 = "   " + m.theme.HistoryDate.Render(util.TruncateWidth(util.OneLine(r.Summary), width-3))
	}

	meta := []string{util.FormatShortDate(r.VerificationDate)}
	if r.OriginalSource != "" {
		meta = append(meta, util.TruncateWidth(r.OriginalSource, 30))
	}
	if r.ImageURL != "" {
		meta = append(meta, "[image]")
	}
	line3 := "   " + m.theme.HistoryDate.Render(strings.Join(meta, " · "))

	style := m.theme.HistoryRow
	if selected {
		style = m.theme.HistoryRowSelected
	}
	return style.Width(width).Render(strings.Join([]string{line1, line2, line3}, "\n"))
}

func (m ListModel) renderEmpty(title, text, action string) string {
	block := lipgloss.JoinVertical(lipgloss.Center,
		m.theme.DetailTitle.Render(title),
		m.theme.EmptyState.Render(text),
		action,
	)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, block)
}

func (m ListModel) renderFooter() string {
	m.status.Notice = m.notice
	return m.status.View(m.keys)
}
