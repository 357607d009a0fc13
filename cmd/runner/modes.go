package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rule-runner/internal/registry"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List all available modes",
	Long:  `Shows every registered mode with its rule set.`,
	Run:   runModes,
}

func runModes(_ *cobra.Command, _ []string) {
	modes := registry.List()
	if len(modes) == 0 {
		fmt.Println("No modes available.")
		return
	}

	fmt.Println("Available modes:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, g := range modes {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Printf("  %-*s  %-16s  %s\n", maxIDLen, "ID", "Title", "Rules")
	fmt.Printf("  %-*s  %-16s  %s\n", maxIDLen, "--", "-----", "-----")
	for _, g := range modes {
		fmt.Printf("  %-*s  %-16s  %s\n", maxIDLen, g.ID, g.Title, g.Summary)
	}

	fmt.Println()
	fmt.Println("Run 'runner play <id>' to play a mode.")
}
