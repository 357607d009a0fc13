package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/rule-runner/internal/registry"
	"github.com/vovakirdan/rule-runner/internal/storage"
)

// Stats layout constants
const (
	minWidthForSidebar = 80
	sidebarWidth       = 18
	maxRuns            = 100
)

// StatsKeyMap defines the key bindings for the stats screen.
type StatsKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextMode key.Binding
	PrevMode key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k StatsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMode, k.PrevMode, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k StatsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextMode, k.PrevMode},
		{k.Back, k.Quit},
	}
}

// DefaultStatsKeyMap returns default key bindings.
func DefaultStatsKeyMap() StatsKeyMap {
	return StatsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextMode: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next mode"),
		),
		PrevMode: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev mode"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// statsTab is one leaderboard filter. An empty mode shows every mode.
type statsTab struct {
	mode  string
	title string
}

// StatsModel shows lifetime totals and the best runs per mode.
type StatsModel struct {
	tabs        []statsTab
	tab         int
	store       *storage.Store
	stats       storage.Stats
	runs        []storage.RunRecord
	err         error
	table       table.Model
	help        help.Model
	keys        StatsKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewStatsModel creates a new stats model.
func NewStatsModel(store *storage.Store, width, height int) StatsModel {
	tabs := []statsTab{{mode: "", title: "All modes"}}
	for _, g := range registry.List() {
		tabs = append(tabs, statsTab{mode: g.ID, title: g.Title})
	}

	m := StatsModel{
		tabs:        tabs,
		store:       store,
		keys:        DefaultStatsKeyMap(),
		help:        help.New(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a new table sized to the window.
func (m *StatsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Score", Width: 8},
		{Title: "Coins", Width: 6},
		{Title: "Lv", Width: 3},
		{Title: "Time", Width: 7},
		{Title: "Mode", Width: 8},
		{Title: "Date", Width: 12},
	}

	avail := m.width - 6
	if m.showSidebar {
		avail -= sidebarWidth + 4
	}
	// Date and mode go first on narrow terminals.
	for len(columns) > 5 && columnsWidth(columns) > avail {
		columns = columns[:len(columns)-1]
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-12)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = selectedStyle
	t.SetStyles(s)

	return t
}

func columnsWidth(columns []table.Column) int {
	w := 0
	for _, c := range columns {
		w += c.Width + 2
	}
	return w
}

// load reads totals and the current tab's runs.
func (m *StatsModel) load() {
	m.runs, m.err = nil, nil
	if m.store != nil {
		if m.stats, m.err = m.store.Stats(); m.err == nil {
			m.runs, m.err = m.store.TopRuns(m.tabs[m.tab].mode, maxRuns)
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current runs.
func (m *StatsModel) updateTableRows() {
	width := len(m.table.Columns())
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		row := table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.Coins),
			fmt.Sprintf("%d", r.Level),
			formatDuration(r.Duration),
			r.Mode,
			r.CreatedAt.Local().Format("Jan 02 15:04"),
		}
		rows[i] = row[:width]
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// formatDuration renders simulated seconds as m:ss.
func formatDuration(seconds float64) string {
	s := int(seconds)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// Init initializes the stats model.
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the stats screen.
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.NextMode):
			m.tab = (m.tab + 1) % len(m.tabs)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.PrevMode):
			m.tab = (m.tab + len(m.tabs) - 1) % len(m.tabs)
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the stats screen.
func (m StatsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("STATS - "+m.tabs[m.tab].title), m.width))
	b.WriteString("\n\n")

	totals := fmt.Sprintf("runs %d   coins earned %d   best score %d   best coins %d   ",
		m.stats.TotalRuns, m.stats.TotalCoins, m.stats.BestScore, m.stats.BestCoins)
	b.WriteString(centerText(dimStyle.Render(totals)+coinStyle.Render(fmt.Sprintf("balance ◎ %d", m.stats.Balance)), m.width))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(centerBlock(m.renderWideLayout(), m.width))
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render(m.help.View(m.keys)), m.width))
	return b.String()
}

// renderWideLayout renders the mode list beside the table.
func (m StatsModel) renderWideLayout() string {
	var sidebar strings.Builder
	sidebar.WriteString("Modes\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	for i, t := range m.tabs {
		sidebar.WriteString("\n")
		if i == m.tab {
			sidebar.WriteString(cursorStyle.Render("> " + t.title))
		} else {
			sidebar.WriteString("  " + t.title)
		}
	}

	side := panelStyle.Padding(0, 1).Width(sidebarWidth).Render(sidebar.String())
	body := panelStyle.Padding(0, 1).Render(m.renderTableContent())
	return lipgloss.JoinHorizontal(lipgloss.Top, side, "  ", body)
}

// renderNarrowLayout renders mode tabs above the table.
func (m StatsModel) renderNarrowLayout() string {
	tabs := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		if i == m.tab {
			tabs[i] = selectedStyle.Padding(0, 1).Render(t.title)
		} else {
			tabs[i] = dimStyle.Render(" " + t.title + " ")
		}
	}
	tabLine := strings.Join(tabs, " ")
	if lipgloss.Width(tabLine) > m.width-4 {
		tabLine = fmt.Sprintf("< %s >", m.tabs[m.tab].title)
	}

	var b strings.Builder
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")
	b.WriteString(centerBlock(panelStyle.Padding(0, 1).Render(m.renderTableContent()), m.width))
	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m StatsModel) renderTableContent() string {
	empty := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(1, 3)
	switch {
	case m.store == nil:
		return empty.Render("No storage: runs are not being saved.")
	case m.err != nil:
		return errorStyle.Render(m.err.Error())
	case len(m.runs) == 0:
		return empty.Render("No runs recorded yet.\nFinish a run to get on the board!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m StatsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m StatsModel) IsQuitting() bool {
	return m.quitting
}
