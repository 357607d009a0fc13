package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rule-runner/internal/config"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "List feature toggles",
	Long: `Show or change the feature toggles stored in the database. Stored values
override the features section of the runner config.

Examples:
  runner settings
  runner settings set wind off
  runner settings set meteors on`,
	Args: cobra.NoArgs,
	Run:  runSettingsList,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <feature> <on|off>",
	Short: "Turn a feature on or off",
	Args:  cobra.ExactArgs(2),
	Run:   runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
}

func runSettingsList(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitf("%v", err)
	}
	store := openStore()
	defer store.Close()

	features, err := store.Features(cfg.Features)
	if err != nil {
		exitf("reading settings: %v", err)
	}
	for _, key := range config.FeatureKeys {
		on, _ := features.Get(key)
		state := "off"
		if on {
			state = "on"
		}
		fmt.Printf("  %-10s %s\n", key, state)
	}
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

func runSettingsSet(_ *cobra.Command, args []string) {
	on, err := parseSwitch(args[1])
	if err != nil {
		exitf("%v", err)
	}
	store := openStore()
	defer store.Close()

	if err := store.SetFeature(args[0], on); err != nil {
		if errors.Is(err, config.ErrUnknownFeature) {
			exitf("unknown feature %q (one of %s)", args[0], strings.Join(config.FeatureKeys, ", "))
		}
		exitf("%v", err)
	}
	fmt.Printf("%s is now %s\n", args[0], args[1])
}
