package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/akuma-sim/internal/profile"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List all available profiles",
	Long:  `Shows the profile scripts found in the profile directory.`,
	Args:  cobra.NoArgs,
	RunE:  runProfiles,
}

func runProfiles(cmd *cobra.Command, args []string) error {
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

	printProfiles(os.Stdout, dir, profiles, cfg.Profile)
	return nil
}

// printProfiles writes the profile table, marking the default profile.
func printProfiles(w io.Writer, dir string, profiles []profile.Profile, current string) {
	if len(profiles) == 0 {
		fmt.Fprintf(w, "No profiles in %s.\n", dir)
		return
	}

	fmt.Fprintf(w, "Profiles in %s:\n", dir)
	fmt.Fprintln(w)

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, p := range profiles {
		if len(p.Name) > maxNameLen {
			maxNameLen = len(p.Name)
		}
	}

	// Print header
	fmt.Fprintf(w, "    %-*s  %s\n", maxNameLen, "Name", "Description")
	fmt.Fprintf(w, "    %-*s  %s\n", maxNameLen, "----", "-----------")

	// Print profiles
	for _, p := range profiles {
		marker := "  "
		if p.Name == current {
			marker = "* "
		}
		fmt.Fprintf(w, "  %s%-*s  %s\n", marker, maxNameLen, p.Name, p.Description)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'akuma run <main.lua> --profile <name>' to use a profile.")
}
