package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/rule-runner/internal/core"
	"github.com/vovakirdan/rule-runner/internal/registry"
	"github.com/vovakirdan/rule-runner/internal/shop"
)

// Screen identifies where a menu entry leads.
type Screen int

const (
	ScreenMenu Screen = iota
	ScreenGame
	ScreenShop
	ScreenSettings
	ScreenStats
)

// MenuItem represents a selectable entry in the main menu.
type MenuItem struct {
	Screen Screen
	ModeID string // set for ScreenGame
	Title  string
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	coinStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
)

// guideTips are shown in the menu to owners of the secret guide.
var guideTips = []string{
	"Low gravity stretches your jump; wait before pressing.",
	"High gravity lands you fast: jump late over cactus clusters.",
	"Slippery floors keep your speed, steer early.",
	"DOUBLE JUMP lets you jump again in the air; save it for birds.",
	"A shield eats one hit and takes the obstacle with it.",
	"Coins come in arcs. Stay on one to keep the streak going.",
	"Wind pushes you sideways; you can still walk against it.",
}

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	backend   Backend
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	balance   int
	best      int
	tip       string
	quitting  bool
	selected  *MenuItem
}

// NewMenuModel creates a new menu model.
func NewMenuModel(backend Backend, cfg core.RuntimeConfig) MenuModel {
	modes := registry.List()
	items := make([]MenuItem, 0, len(modes)+3)

	for _, g := range modes {
		items = append(items, MenuItem{Screen: ScreenGame, ModeID: g.ID, Title: "Play " + g.Title})
	}
	items = append(items,
		MenuItem{Screen: ScreenShop, Title: "Shop"},
		MenuItem{Screen: ScreenSettings, Title: "Settings"},
		MenuItem{Screen: ScreenStats, Title: "Stats"},
	)

	m := MenuModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		backend:   backend,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
	m.loadProfile()
	return m
}

// loadProfile reads the balance, best score and guide ownership.
func (m *MenuModel) loadProfile() {
	store := m.backend.Store
	if store == nil {
		return
	}
	if stats, err := store.Stats(); err == nil {
		m.balance = stats.Balance
		m.best = stats.BestScore
	}
	if owned, err := store.Owned(); err == nil && owned[shop.SecretGuide] {
		i := m.config.Seed % int64(len(guideTips))
		if i < 0 {
			i = -i
		}
		m.tip = guideTips[i]
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
		}
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("R U L E   R U N N E R"), m.width))
	b.WriteString("\n\n")

	status := coinStyle.Render(fmt.Sprintf("◎ %d", m.balance)) + dimStyle.Render(fmt.Sprintf("   best %d", m.best))
	b.WriteString(centerText(status, m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title
		if i == m.cursor {
			line = cursorStyle.Render("> " + item.Title)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if m.tip != "" {
		b.WriteString("\n")
		b.WriteString(centerText(dimStyle.Render("Guide: "+m.tip), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render("Up/Down: Navigate  |  Enter: Select  |  Q: Quit"), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within the given width. Styled text is measured
// without its escape codes.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// centerBlock centers every line of a multi-line block.
func centerBlock(block string, width int) string {
	if lipgloss.Width(block) >= width {
		return block
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
}
