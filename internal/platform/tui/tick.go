// Package tui runs rule-runner in the terminal with Bubble Tea: the fixed
// tick game loop, the session menus (shop, settings, stats) and the Wish
// SSH server that serves the same session to remote players.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/atomic"
)

// TickMsg is sent to trigger a simulation tick. Loop tells tick chains
// apart so a game left mid-tick does not keep driving the next one.
type TickMsg struct {
	Loop uint64
	At   time.Time
}

var loopIDs atomic.Uint64

// nextLoop returns a fresh tick loop id.
func nextLoop() uint64 {
	return loopIDs.Inc()
}

// tickCmd schedules the next tick of loop at the given rate.
func tickCmd(loop uint64, tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Loop: loop, At: t}
	})
}
