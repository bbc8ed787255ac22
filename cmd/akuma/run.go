package main

import (
	"github.com/spf13/cobra"
)

var flagProfile string

var runCmd = &cobra.Command{
	Use:   "run <main.lua>",
	Short: "Run a script",
	Long: `Run the given Lua script. The folder holding the script is watched;
any change below it restarts the simulator once the folder has been quiet
for the debounce interval (default 100ms).

Before the script runs, the bootstrap script (Akuma.lua) and the selected
profile are loaded from the profile directory.

Examples:
  akuma run main.lua
  akuma run ./demo/main.lua --profile retro`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagProfile, "profile", "", "Profile to load (default from config)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagProfile != "" {
		cfg.Profile = flagProfile
	}

	out, err := newLogOutput(cfg)
	if err != nil {
		return err
	}
	defer closeLogOutput(out)

	return runSimulator(cfg, out, args[0], cfg.Profile)
}
