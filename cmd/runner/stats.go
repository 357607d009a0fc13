package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rule-runner/internal/registry"
	"github.com/vovakirdan/rule-runner/internal/storage"
)

var (
	flagStatsMode   string
	flagStatsLimit  int
	flagStatsRecent bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lifetime stats and the best runs",
	Long: `Display lifetime totals and the top runs.

Examples:
  runner stats
  runner stats --mode classic
  runner stats --recent --limit 5
  runner stats clear --mode classic`,
	Args: cobra.NoArgs,
	Run:  runStats,
}

var statsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete recorded runs (totals and balance are kept)",
	Args:  cobra.NoArgs,
	Run:   runStatsClear,
}

func init() {
	statsCmd.PersistentFlags().StringVar(&flagStatsMode, "mode", "", "Only runs of this mode")
	statsCmd.Flags().IntVar(&flagStatsLimit, "limit", 10, "Number of runs to show")
	statsCmd.Flags().BoolVar(&flagStatsRecent, "recent", false, "Show the latest runs instead of the best")
	statsCmd.AddCommand(statsClearCmd)
}

func checkMode(mode string) {
	if mode != "" && !registry.Exists(mode) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", mode)
		fmt.Fprintln(os.Stderr, "Run 'runner modes' to see available modes.")
		os.Exit(1)
	}
}

func runStats(_ *cobra.Command, _ []string) {
	checkMode(flagStatsMode)

	store := openStore()
	defer store.Close()

	stats, err := store.Stats()
	if err != nil {
		exitf("retrieving stats: %v", err)
	}
	fmt.Println("Lifetime")
	fmt.Println()
	fmt.Printf("  Runs         %d\n", stats.TotalRuns)
	fmt.Printf("  Coins earned %d\n", stats.TotalCoins)
	fmt.Printf("  Best score   %d\n", stats.BestScore)
	fmt.Printf("  Best coins   %d\n", stats.BestCoins)
	fmt.Printf("  Balance      %d\n", stats.Balance)
	fmt.Println()

	var (
		runs  []storage.RunRecord
		title string
	)
	if flagStatsRecent {
		title = "Recent runs"
		runs, err = store.RecentRuns(flagStatsLimit)
	} else {
		title = "Best runs"
		runs, err = store.TopRuns(flagStatsMode, flagStatsLimit)
	}
	if err != nil {
		exitf("retrieving runs: %v", err)
	}
	if flagStatsMode != "" && !flagStatsRecent {
		title += " - " + flagStatsMode
	}
	fmt.Println(title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'runner play' to set the first score!")
		return
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %-3s  %-6s  %-8s  %-12s  %s\n", "Rank", "Score", "Coins", "Lv", "Time", "Mode", "Seed", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %-3s  %-6s  %-8s  %-12s  %s\n", "----", "-----", "-----", "--", "----", "----", "----", "----")
	for i, r := range runs {
		secs := int(r.Duration)
		fmt.Printf("  %-4d  %-8d  %-5d  %-3d  %-6s  %-8s  %-12d  %s\n",
			i+1, r.Score, r.Coins, r.Level, fmt.Sprintf("%d:%02d", secs/60, secs%60),
			r.Mode, r.Seed, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}

func runStatsClear(_ *cobra.Command, _ []string) {
	checkMode(flagStatsMode)

	store := openStore()
	defer store.Close()

	if err := store.ClearRuns(flagStatsMode); err != nil {
		exitf("clearing runs: %v", err)
	}
	if flagStatsMode == "" {
		fmt.Println("Cleared all runs.")
		return
	}
	fmt.Printf("Cleared %s runs.\n", flagStatsMode)
}
