package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rule-runner/internal/config"
	"github.com/vovakirdan/rule-runner/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Inspect and verify recorded runs",
	Long: `Work with recordings made by 'runner play --record' or 'runner sim --record'.

A recording only replays under the config it was made with, so pass the
same --config and --difficulty that were used to record it.

Examples:
  runner replay info run.replay
  runner replay verify run.replay
  runner replay verify run.replay --difficulty hard`,
}

var replayVerifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Re-simulate a recording and compare the final state",
	Args:  cobra.ExactArgs(1),
	Run:   runReplayVerify,
}

var replayInfoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show what a recording contains",
	Args:  cobra.ExactArgs(1),
	Run:   runReplayInfo,
}

func init() {
	replayCmd.AddCommand(replayVerifyCmd, replayInfoCmd)
}

func loadRecording(path string) *replay.Recording {
	rec, err := replay.Load(path)
	if err != nil {
		exitf("%v", err)
	}
	return rec
}

func runReplayVerify(_ *cobra.Command, args []string) {
	rec := loadRecording(args[0])
	cfg, err := loadConfig()
	if err != nil {
		exitf("%v", err)
	}

	res, err := replay.Verify(rec, cfg)
	if errors.Is(err, replay.ErrMismatch) {
		fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", args[0], err)
		if replay.ConfigHash(cfg) != rec.ConfigHash {
			fmt.Fprintln(os.Stderr, "The config differs from the recording; check --config and --difficulty.")
		}
		os.Exit(1)
	}
	if err != nil {
		exitf("%v", err)
	}
	fmt.Printf("OK %s: %d ticks, score %d, coins %d\n", args[0], rec.Ticks, int(res.Score), res.Coins)
}

func runReplayInfo(_ *cobra.Command, args []string) {
	rec := loadRecording(args[0])

	fmt.Printf("ID         %s\n", rec.ID)
	fmt.Printf("Recorded   %s\n", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Mode       %s\n", rec.Mode)
	fmt.Printf("Seed       %d\n", rec.Seed)
	fmt.Printf("Ticks      %d (%d frames, dt %.4f)\n", rec.Ticks, len(rec.Frames), rec.Dt)
	fmt.Printf("Duration   %.1fs\n", float64(rec.Ticks)*rec.Dt)
	fmt.Printf("Score      %d\n", int(rec.Score))
	fmt.Printf("Coins      %d\n", rec.Coins)
	fmt.Printf("Finished   %v\n", rec.GameOver)
	fmt.Printf("Config     %016x\n", rec.ConfigHash)
	fmt.Printf("Final hash %016x\n", rec.FinalHash)

	var on []string
	for _, key := range config.FeatureKeys {
		if v, _ := rec.Features.Get(key); v {
			on = append(on, key)
		}
	}
	fmt.Printf("Features   %v\n", on)
	fmt.Printf("Upgrades   %+v\n", rec.Upgrades)
}
