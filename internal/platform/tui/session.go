package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rule-runner/internal/core"
	"github.com/vovakirdan/rule-runner/internal/registry"
)

// SessionModel manages the full session flow: menu -> game, shop, settings
// or stats -> menu. It is the top-level model of `runner menu` and of every
// SSH session.
type SessionModel struct {
	backend  Backend
	config   core.RuntimeConfig
	username string
	screen   Screen
	menu     MenuModel
	game     GameModel
	shop     ShopModel
	settings SettingsModel
	stats    StatsModel
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(backend Backend, cfg core.RuntimeConfig, username string) SessionModel {
	return SessionModel{
		backend:  backend,
		config:   cfg,
		username: username,
		screen:   ScreenMenu,
		menu:     NewMenuModel(backend, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	// Ticks of a game that was left are dropped; the chain ends here.
	if _, ok := msg.(TickMsg); ok && m.screen != ScreenGame {
		return m, nil
	}

	var cmd tea.Cmd
	switch m.screen {
	case ScreenGame:
		next, c := m.game.Update(msg)
		m.game, cmd = next.(GameModel), c
		if m.game.IsQuitting() {
			return m.quit()
		}
		if m.game.BackToMenu() {
			return m.toMenu()
		}

	case ScreenShop:
		next, c := m.shop.Update(msg)
		m.shop, cmd = next.(ShopModel), c
		if m.shop.IsQuitting() {
			return m.quit()
		}
		if m.shop.IsGoingBack() {
			return m.toMenu()
		}

	case ScreenSettings:
		next, c := m.settings.Update(msg)
		m.settings, cmd = next.(SettingsModel), c
		if m.settings.IsQuitting() {
			return m.quit()
		}
		if m.settings.IsGoingBack() {
			return m.toMenu()
		}

	case ScreenStats:
		next, c := m.stats.Update(msg)
		m.stats, cmd = next.(StatsModel), c
		if m.stats.IsQuitting() {
			return m.quit()
		}
		if m.stats.IsGoingBack() {
			return m.toMenu()
		}

	default:
		next, c := m.menu.Update(msg)
		m.menu, cmd = next.(MenuModel), c
		if m.menu.IsQuitting() {
			return m.quit()
		}
		if selected := m.menu.Selected(); selected != nil {
			return m.open(*selected)
		}
	}
	return m, cmd
}

// open switches to the screen behind a menu entry.
func (m SessionModel) open(item MenuItem) (tea.Model, tea.Cmd) {
	m.config = m.menu.Config()
	switch item.Screen {
	case ScreenGame:
		game, err := registry.Create(item.ModeID)
		if err != nil {
			m.backend.Logger.Error("cannot create mode", "mode", item.ModeID, "err", err)
			return m.toMenu()
		}
		m.backend.Logger.Info("run started", "user", m.username, "mode", item.ModeID)
		m.game = NewGameModel(game, m.backend, m.config)
		m.screen = ScreenGame
		return m, m.game.Init()

	case ScreenShop:
		m.shop = NewShopModel(m.backend.Shop, m.config.ScreenW)
		m.screen = ScreenShop
	case ScreenSettings:
		m.settings = NewSettingsModel(m.backend.Store, m.backend.Features, m.config.ScreenW)
		m.screen = ScreenSettings
	case ScreenStats:
		m.stats = NewStatsModel(m.backend.Store, m.config.ScreenW, m.config.ScreenH)
		m.screen = ScreenStats
	}
	return m, nil
}

// toMenu rebuilds the menu so balance and best score are current.
func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.screen = ScreenMenu
	m.menu = NewMenuModel(m.backend, m.config)
	return m, m.menu.Init()
}

func (m SessionModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case ScreenGame:
		return m.game.View()
	case ScreenShop:
		return m.shop.View()
	case ScreenSettings:
		return m.settings.View()
	case ScreenStats:
		return m.stats.View()
	}
	return m.menu.View()
}

// Screen returns the active screen.
func (m SessionModel) Screen() Screen {
	return m.screen
}

// RunSession runs the menu-driven session in the local terminal.
func RunSession(backend Backend, cfg core.RuntimeConfig) error {
	_, err := tea.NewProgram(NewSessionModel(backend, cfg, ""), tea.WithAltScreen()).Run()
	return err
}
