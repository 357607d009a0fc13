package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rule-runner/internal/config"
	"github.com/vovakirdan/rule-runner/internal/storage"
)

var featureLabels = map[string]string{
	"wind":      "Wind gusts",
	"day_night": "Day/night cycle",
	"events":    "Random events",
	"meteors":   "Meteors",
	"golden":    "Golden streak",
	"sound":     "Sound",
}

// SettingsModel toggles the persisted feature switches.
type SettingsModel struct {
	store    *storage.Store
	features config.Features
	cursor   int
	message  string
	keys     ListKeyMap
	help     help.Model
	width    int
	quitting bool
	back     bool
}

// NewSettingsModel creates the settings screen. Toggles without a stored
// value show defaults.
func NewSettingsModel(store *storage.Store, defaults config.Features, width int) SettingsModel {
	m := SettingsModel{
		store:    store,
		features: defaults,
		keys:     newListKeyMap("toggle"),
		help:     help.New(),
		width:    width,
	}
	if store != nil {
		f, err := store.Features(defaults)
		if err != nil {
			m.message = err.Error()
		}
		m.features = f
	}
	return m
}

// Init initializes the settings model.
func (m SettingsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the settings screen.
func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.cursor < len(config.FeatureKeys)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Select):
			m.toggle(config.FeatureKeys[m.cursor])
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m *SettingsModel) toggle(name string) {
	if m.store == nil {
		m.message = "no storage: settings are read-only"
		return
	}
	on, err := m.features.Get(name)
	if err != nil {
		m.message = err.Error()
		return
	}
	if err := m.store.SetFeature(name, !on); err != nil {
		m.message = err.Error()
		return
	}
	_ = m.features.Set(name, !on)
	m.message = ""
}

// Features returns the toggles as currently shown.
func (m SettingsModel) Features() config.Features {
	return m.features
}

// View renders the settings screen.
func (m SettingsModel) View() string {
	if m.quitting || m.back {
		return ""
	}

	var list strings.Builder
	for i, name := range config.FeatureKeys {
		on, _ := m.features.Get(name)
		state := dimStyle.Render("off")
		if on {
			state = okStyle.Render("on ")
		}
		label := fmt.Sprintf("%-18s", featureLabels[name])
		if i == m.cursor {
			list.WriteString(cursorStyle.Render("> "+label) + " " + state)
		} else {
			list.WriteString("  " + label + " " + state)
		}
		if i < len(config.FeatureKeys)-1 {
			list.WriteString("\n")
		}
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("SETTINGS"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerBlock(panelStyle.Render(list.String()), m.width))
	b.WriteString("\n\n")
	if m.message != "" {
		b.WriteString(centerText(errorStyle.Render(m.message), m.width))
		b.WriteString("\n")
	}
	b.WriteString(centerText(dimStyle.Render(m.help.View(m.keys)), m.width))
	return b.String()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m SettingsModel) IsGoingBack() bool {
	return m.back
}

// IsQuitting returns true if user wants to quit entirely.
func (m SettingsModel) IsQuitting() bool {
	return m.quitting
}
