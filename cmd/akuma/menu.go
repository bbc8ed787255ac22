package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/akuma-sim/internal/platform/tui"
	"github.com/vovakirdan/akuma-sim/internal/profile"
)

var menuCmd = &cobra.Command{
	Use:   "menu <main.lua>",
	Short: "Pick a profile interactively, then run a script",
	Long: `Shows the available profiles in an interactive list. The chosen
profile is loaded before the script runs, exactly as with 'akuma run'.

Controls:
  Up/Down or j/k  - Move
  Enter           - Run with the selected profile
  ?               - More keys
  Q/Esc           - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runMenu,
}

func runMenu(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dir, err := profileDir(cfg)
	if err != nil {
		return err
	}
	profiles, err := profile.List(dir, cfg.BootstrapScript)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		return fmt.Errorf("no profiles in %s", dir)
	}

	chosen, ok, err := tui.RunProfilePicker(profiles, cfg.Profile)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	out, err := newLogOutput(cfg)
	if err != nil {
		return err
	}
	defer closeLogOutput(out)

	return runSimulator(cfg, out, args[0], chosen.Name)
}
