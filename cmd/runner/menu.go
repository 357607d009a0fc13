package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/rule-runner/internal/core"
	"github.com/vovakirdan/rule-runner/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the menu with play, shop, settings and stats",
	Long: `Start Rule Runner in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select.
After a run ends, press B to return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Esc/B        - Back
  Q            - Quit

Examples:
  runner menu
  runner menu --fps 30
  runner menu --db ./runner.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	logFile, err := openLogFile()
	if err != nil {
		exitf("%v", err)
	}
	defer logFile.Close()
	logger := newLogger(logFile, "runner")

	cfg, err := loadConfig()
	if err != nil {
		exitf("%v", err)
	}

	store := openStoreOrWarn(logger)
	if store != nil {
		defer store.Close()
	}
	configureGames(store, cfg, logger)

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	rt := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	if err := tui.RunSession(tui.NewBackend(store, cfg.Features, logger), rt); err != nil {
		exitf("%v", err)
	}
}
