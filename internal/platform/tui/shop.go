package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rule-runner/internal/shop"
	"github.com/vovakirdan/rule-runner/internal/storage"
)

// ListKeyMap holds the bindings shared by the shop and settings screens.
type ListKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ListKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ListKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Select}, {k.Back, k.Quit}}
}

func newListKeyMap(selectHelp string) ListKeyMap {
	return ListKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("down/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", selectHelp),
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

// ShopModel lists the catalog and buys the selected upgrade.
type ShopModel struct {
	shop     *shop.Shop
	entries  []shop.Entry
	balance  int
	cursor   int
	message  string
	failed   bool
	keys     ListKeyMap
	help     help.Model
	width    int
	quitting bool
	back     bool
}

// NewShopModel creates the shop screen. A nil shop shows the catalog
// without prices being payable.
func NewShopModel(s *shop.Shop, width int) ShopModel {
	m := ShopModel{
		shop:  s,
		keys:  newListKeyMap("buy"),
		help:  help.New(),
		width: width,
	}
	m.reload()
	return m
}

func (m *ShopModel) reload() {
	if m.shop == nil {
		m.entries = nil
		for _, item := range shop.DefaultCatalog().Items() {
			m.entries = append(m.entries, shop.Entry{Item: item})
		}
		return
	}
	entries, balance, err := m.shop.Listing()
	if err != nil {
		m.message, m.failed = err.Error(), true
		return
	}
	m.entries, m.balance = entries, balance
}

// Init initializes the shop model.
func (m ShopModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the shop.
func (m ShopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.back = true
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Select):
			m.buy()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m *ShopModel) buy() {
	if len(m.entries) == 0 {
		return
	}
	if m.shop == nil {
		m.message, m.failed = "no storage: purchases are disabled", true
		return
	}
	item, err := m.shop.Buy(m.entries[m.cursor].ID)
	switch {
	case errors.Is(err, storage.ErrAlreadyOwned):
		m.message, m.failed = "You already own that.", true
	case errors.Is(err, storage.ErrInsufficientCoins):
		m.message, m.failed = "Not enough coins.", true
	case err != nil:
		m.message, m.failed = err.Error(), true
	default:
		m.message, m.failed = fmt.Sprintf("Bought %s!", item.Name), false
	}
	m.reload()
}

// View renders the shop.
func (m ShopModel) View() string {
	if m.quitting || m.back {
		return ""
	}

	var list strings.Builder
	for i, e := range m.entries {
		price := coinStyle.Render(fmt.Sprintf("%4d", e.Price))
		status := ""
		switch {
		case e.Owned:
			price = okStyle.Render("owned")
		case !e.Affordable:
			status = dimStyle.Render("  (need more coins)")
		}
		line := fmt.Sprintf("  %-14s %s%s", e.Name, price, status)
		if i == m.cursor {
			line = cursorStyle.Render("> "+fmt.Sprintf("%-14s ", e.Name)) + price + status
		}
		list.WriteString(line)
		list.WriteString("\n")
		list.WriteString(dimStyle.Render("    " + e.Description))
		list.WriteString("\n")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("SHOP"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(coinStyle.Render(fmt.Sprintf("Balance: ◎ %d", m.balance)), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerBlock(panelStyle.Render(strings.TrimRight(list.String(), "\n")), m.width))
	b.WriteString("\n\n")
	if m.message != "" {
		style := okStyle
		if m.failed {
			style = errorStyle
		}
		b.WriteString(centerText(style.Render(m.message), m.width))
		b.WriteString("\n")
	}
	b.WriteString(centerText(dimStyle.Render(m.help.View(m.keys)), m.width))
	return b.String()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ShopModel) IsGoingBack() bool {
	return m.back
}

// IsQuitting returns true if user wants to quit entirely.
func (m ShopModel) IsQuitting() bool {
	return m.quitting
}
