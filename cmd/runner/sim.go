package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rule-runner/internal/autopilot"
	"github.com/vovakirdan/rule-runner/internal/config"
	"github.com/vovakirdan/rule-runner/internal/replay"
	"github.com/vovakirdan/rule-runner/internal/shop"
	"github.com/vovakirdan/rule-runner/internal/sim"
)

var (
	flagSimMode    string
	flagSimTicks   int
	flagSimRuns    int
	flagSimRecord  string
	flagSimProfile bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the autopilot headless",
	Long: `Let the autopilot play without a terminal. Runs are seeded from --seed
(the n-th run uses seed+n), so the output is reproducible.

Examples:
  runner sim --seed 42
  runner sim --seed 42 --runs 20 --mode classic
  runner sim --seed 7 --record bot.replay
  runner sim --profile           # use stored settings and owned upgrades`,
	Args: cobra.NoArgs,
	Run:  runSim,
}

func init() {
	simCmd.Flags().StringVar(&flagSimMode, "mode", "rules", "Mode to simulate")
	simCmd.Flags().IntVar(&flagSimTicks, "ticks", 60*60*5, "Tick limit per run")
	simCmd.Flags().IntVar(&flagSimRuns, "runs", 1, "Number of runs")
	simCmd.Flags().StringVar(&flagSimRecord, "record", "", "Record every run to this file (later runs get -2, -3, ...)")
	simCmd.Flags().BoolVar(&flagSimProfile, "profile", false, "Use the stored settings and upgrades")
}

func runSim(_ *cobra.Command, _ []string) {
	mode, ok := sim.ModeByID(flagSimMode)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", flagSimMode)
		fmt.Fprintln(os.Stderr, "Run 'runner modes' to see available modes.")
		os.Exit(1)
	}
	if flagSimRuns < 1 || flagSimTicks < 1 {
		exitf("--runs and --ticks must be positive")
	}

	cfg, err := loadConfig()
	if err != nil {
		exitf("%v", err)
	}
	opts := sim.Options{Mode: mode, Features: cfg.Features}
	if flagSimProfile {
		opts.Features, opts.Upgrades = loadSimProfile(cfg.Features)
	}

	fps := flagFPS
	if fps <= 0 {
		fps = 60
	}
	dt := 1.0 / float64(fps)

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger := newLogger(os.Stderr, "sim")
	var (
		total, best float64
		coins       int
	)
	fmt.Printf("  %-4s  %-20s  %-8s  %-5s  %-3s  %-7s  %s\n", "Run", "Seed", "Score", "Coins", "Lv", "Ticks", "End")
	for i := 0; i < flagSimRuns; i++ {
		runSeed := seed + int64(i)
		run, err := sim.New(cfg, opts, runSeed, sim.WithLogger(logger))
		if err != nil {
			exitf("%v", err)
		}

		var rec *replay.Recorder
		var observe func(sim.Intents)
		if flagSimRecord != "" {
			rec = replay.NewRecorder(cfg, opts, runSeed, dt)
			observe = func(in sim.Intents) { rec.Add(replay.InputFrom(in)) }
		}

		ticks := 0
		count := func(in sim.Intents) {
			ticks++
			if observe != nil {
				observe(in)
			}
		}
		res := autopilot.Play(run, autopilot.New(cfg.Player.X), dt, flagSimTicks, count)

		end := "limit"
		if res.GameOver {
			end = "crash"
		}
		fmt.Printf("  %-4d  %-20d  %-8d  %-5d  %-3d  %-7d  %s\n", i+1, runSeed, int(res.Score), res.Coins, res.Level, ticks, end)

		total += res.Score
		best = max(best, res.Score)
		coins += res.Coins

		if rec != nil {
			path := numberedPath(flagSimRecord, i+1)
			if err := replay.Save(path, rec.Finish(run, res)); err != nil {
				exitf("%v", err)
			}
			logger.Debug("recording saved", "path", path)
		}
	}
	if flagSimRuns > 1 {
		fmt.Println()
		fmt.Printf("Mean score %d, best %d, coins %d\n", int(total/float64(flagSimRuns)), int(best), coins)
	}
}

// loadSimProfile reads toggles and upgrades from the database. Toggles that
// were never stored keep their config defaults.
func loadSimProfile(defaults config.Features) (config.Features, sim.Upgrades) {
	store := openStore()
	defer store.Close()

	features, err := store.Features(defaults)
	if err != nil {
		exitf("reading settings: %v", err)
	}
	upgrades, err := shop.New(shop.DefaultCatalog(), store).Upgrades()
	if err != nil {
		exitf("reading upgrades: %v", err)
	}
	return features, upgrades
}
