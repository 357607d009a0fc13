package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/rule-runner/internal/core"
	"github.com/vovakirdan/rule-runner/internal/games/runner"
	"github.com/vovakirdan/rule-runner/internal/platform/tui"
	"github.com/vovakirdan/rule-runner/internal/registry"
	"github.com/vovakirdan/rule-runner/internal/replay"
)

var (
	flagRecord string
	flagDev    bool
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start a run in the given mode (default: rules).

Controls:
  Space/W/Up   - Jump (release early for a short hop)
  S/Down       - Crouch
  A/D, Arrows  - Move
  P/Esc        - Pause
  R            - Restart (after game over)
  B            - Leave (paused or after game over)
  Ctrl+S       - Save a text screenshot
  Q/Ctrl+C     - Quit

Developer controls (--dev):
  F1           - Freeze or unfreeze the rule timer
  F2           - Force the next rule

Difficulty options:
  easy   - Start at lowest difficulty, slower ramp
  normal - Ramp as configured
  hard   - Start at 40% difficulty, faster ramp
  fixed  - No ramp

Examples:
  runner play
  runner play classic
  runner play --difficulty hard --seed 7
  runner play --record run.replay`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagRecord, "record", "", "Record every finished run to this file (later runs get -2, -3, ...)")
	playCmd.Flags().BoolVar(&flagDev, "dev", false, "Enable the rule freeze and force-next hotkeys")
}

func runPlay(_ *cobra.Command, args []string) {
	modeID := "rules"
	if len(args) == 1 {
		modeID = args[0]
	}
	if !registry.Exists(modeID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", modeID)
		fmt.Fprintln(os.Stderr, "Run 'runner modes' to see available modes.")
		os.Exit(1)
	}

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
	runner.SetDevMode(flagDev)
	if flagRecord != "" {
		runner.SetRecorder(recordingSaver(flagRecord, logger))
	}

	game, err := registry.Create(modeID)
	if err != nil {
		exitf("creating mode: %v", err)
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}
	rt := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	backend := tui.NewBackend(store, cfg.Features, logger)
	if err := tui.Run(game, backend, rt); err != nil {
		exitf("running game: %v", err)
	}
}

// recordingSaver saves the first recording to path and later ones next to
// it with a numeric suffix.
func recordingSaver(path string, logger *log.Logger) runner.RecordSink {
	n := 0
	return func(rec *replay.Recording) {
		n++
		target := numberedPath(path, n)
		if err := replay.Save(target, rec); err != nil {
			logger.Error("cannot save recording", "path", target, "err", err)
			return
		}
		logger.Info("recording saved", "path", target, "ticks", rec.Ticks, "score", int(rec.Score))
	}
}

func numberedPath(path string, n int) string {
	if n <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), n, ext)
}
