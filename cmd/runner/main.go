// runner is a terminal endless runner whose physics rules change while you
// play.
//
// Usage:
//
//	runner play [mode]       - Play a mode (rules by default)
//	runner menu              - Menu with play, shop, settings and stats
//	runner serve             - Start SSH server for remote play
//	runner stats             - Show lifetime stats and the best runs
//	runner shop              - List, buy and grant upgrades
//	runner settings          - List or change feature toggles
//	runner replay <cmd>      - Inspect and verify recorded runs
//	runner sim               - Run the autopilot headless
//	runner modes             - List available modes
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible runs
//	--db <path>          - Set database path (default: ~/.rule-runner/runner.db, env RUNNER_DB)
//	--config <path>      - Custom runner config YAML (env RUNNER_CONFIG)
//	--difficulty <name>  - Difficulty preset: easy, normal, hard, fixed
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/rule-runner/internal/config"
	"github.com/vovakirdan/rule-runner/internal/games/runner"
	"github.com/vovakirdan/rule-runner/internal/storage"
)

const defaultDBPath = "~/.rule-runner/runner.db"

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	// A missing .env is fine; flags and the environment still apply.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "runner",
	Short: "Rule Runner - an endless runner where the rules keep changing",
	Long: `Rule Runner is a terminal endless runner. Every few seconds a new rule
changes gravity, world speed or the floor under your feet.

Available commands:
  play      - Play a mode directly
  menu      - Menu with play, shop, settings and stats
  serve     - Start SSH server for remote play
  stats     - Lifetime totals and the best runs
  shop      - Spend coins on upgrades
  settings  - Feature toggles
  replay    - Verify recorded runs
  sim       - Headless autopilot runs
  modes     - List available modes

Examples:
  runner play
  runner play classic --difficulty easy
  runner play --record run.replay
  runner replay verify run.replay
  runner sim --seed 42 --runs 10
  runner serve --ssh :2222`,
	PersistentPreRunE: applyEnv,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", defaultDBPath, "Path to runner database (env RUNNER_DB)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom runner config YAML (env RUNNER_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(shopCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(modesCmd)
}

// applyEnv fills flags the user did not set from RUNNER_DB and RUNNER_CONFIG.
func applyEnv(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	if v := os.Getenv("RUNNER_DB"); v != "" && !flags.Changed("db") {
		flagDBPath = v
	}
	if v := os.Getenv("RUNNER_CONFIG"); v != "" && !flags.Changed("config") {
		flagConfig = v
	}
	if _, err := log.ParseLevel(flagLogLevel); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return nil
}

// newLogger creates a logger at the --log-level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if level, err := log.ParseLevel(flagLogLevel); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

// openLogFile opens ~/.rule-runner/runner.log for appending. The TUI owns
// the terminal, so interactive commands log there.
func openLogFile() (io.WriteCloser, error) {
	path := config.UserDataPath("runner.log")
	if err := os.MkdirAll(config.UserDataPath(), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create %s: %w", config.UserDataPath(), err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file %s: %w", path, err)
	}
	return f, nil
}

// loadConfig loads the runner config and applies --difficulty.
func loadConfig() (config.RunnerConfig, error) {
	cfg, err := config.LoadRunner(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDifficulty != "" {
		config.ApplyPreset(&cfg, config.ParsePreset(flagDifficulty))
	}
	return cfg, nil
}

// openStore opens the database at --db, exiting on failure.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		exitf("opening database: %v", err)
	}
	return store
}

// configureGames hands the CLI settings and the player's profile to the
// mode adapters.
func configureGames(store *storage.Store, cfg config.RunnerConfig, logger *log.Logger) {
	runner.SetConfigPath(flagConfig)
	runner.SetDifficultyPreset(flagDifficulty)
	runner.SetLogger(logger)
	if store != nil {
		runner.SetProfileSource(runner.StoreProfile(store, cfg.Features))
	}
}

// exitf prints an error and exits with status 1.
func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// openStoreOrWarn opens the database; without one, play goes on unsaved.
func openStoreOrWarn(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database, runs will not be saved", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}
