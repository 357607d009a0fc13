package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rule-runner/internal/config"
	"github.com/vovakirdan/rule-runner/internal/core"
	"github.com/vovakirdan/rule-runner/internal/registry"
)

// flusher is implemented by games that record runs and can hand over an
// unfinished recording when the player leaves mid-run.
type flusher interface {
	FlushRecording()
}

// GameModel is the Bubble Tea model that drives one game.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	backend    Backend
	config     core.RuntimeConfig
	keys       *KeyMapper
	loop       uint64
	inputFrame core.InputFrame
	gameState  core.GameState
	started    bool
	exitOnBack bool
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a model for game. A zero seed picks one from the clock.
func NewGameModel(game registry.Game, backend Backend, cfg core.RuntimeConfig) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		backend:    backend,
		config:     cfg,
		keys:       NewKeyMapper(),
		loop:       nextLoop(),
		inputFrame: core.NewInputFrame(),
	}
}

// Init starts the tick loop. The run itself starts on the first tick.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.loop, m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg, time.Now())
	case tea.WindowSizeMsg:
		// The viewport scales to any size, so the run keeps going.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleTick(msg.At)
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg, now time.Time) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		if path, err := m.saveScreenshot(); err != nil {
			m.backend.Logger.Warn("screenshot failed", "err", err)
		} else {
			m.backend.Logger.Info("screenshot saved", "path", path)
		}
		return m, nil
	}

	if m.keys.Press(msg, now, &m.inputFrame) {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	// Back to menu from the pause or game over screens.
	if m.keys.MapKeyToMenuAction(msg) == MenuActionBack && (m.gameState.GameOver || m.gameState.Paused) {
		m.leave()
		m.backToMenu = true
		if m.exitOnBack {
			return m, tea.Quit
		}
	}
	return m, nil
}

// handleTick processes one simulation tick.
func (m GameModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if !m.started {
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.started = true
	}

	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.keys.Reset()
		m.inputFrame.Reset()
		return m, tickCmd(m.loop, m.config.TickRate)
	}

	m.keys.Update(now, &m.inputFrame)
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	if result.Outcome != nil {
		m.backend.recordRun(result.Outcome)
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.loop, m.config.TickRate)
}

// leave hands over the recording of a run that is still going.
func (m GameModel) leave() {
	if !m.started || m.gameState.GameOver {
		return
	}
	if f, ok := m.game.(flusher); ok {
		f.FlushRecording()
	}
}

// saveScreenshot writes the current frame as plain text.
func (m *GameModel) saveScreenshot() (string, error) {
	m.game.Render(m.screen)

	dir := config.UserDataPath("screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create screenshot directory: %w", err)
	}
	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "", fmt.Errorf("cannot write screenshot: %w", err)
	}
	return path, nil
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting || m.backToMenu || !m.started {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the latest game state.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays game in a standalone program. Without a menu to return to,
// going back quits.
func Run(game registry.Game, backend Backend, cfg core.RuntimeConfig) error {
	model := NewGameModel(game, backend, cfg)
	model.exitOnBack = true

	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
