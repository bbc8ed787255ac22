// akuma is a reload-on-change simulator shell for Lua scripts.
//
// Usage:
//
//	akuma run <main.lua>     - Run a script, restarting when its folder changes
//	akuma menu <main.lua>    - Pick a profile interactively, then run
//	akuma profiles           - List available profiles
//
// Global flags:
//
//	--config <path>      - Custom config YAML
//	--log-level <level>  - debug, info, warn or error
//	--log-file <path>    - Append logs to a file instead of stderr
//	--fps <rate>         - Frame rate (default: 60)
//	--profile-dir <dir>  - Directory holding Akuma.lua and the profiles
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig     string
	flagLogLevel   string
	flagLogFile    string
	flagFPS        int
	flagProfileDir string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "akuma",
	Short: "Akuma Simulator - run Lua scripts and reload them on change",
	Long: `Akuma Simulator hosts a Lua runtime in your terminal. It runs a main
script, draws the frames it renders, and restarts it whenever a file in
the script's folder changes.

Available commands:
  run       - Run a script
  menu      - Pick a profile interactively, then run a script
  profiles  - Show all available profiles

Keys while running:
  Ctrl+R         - Restart immediately
  Ctrl+C/Ctrl+Q  - Quit

Examples:
  akuma run ./game/main.lua
  akuma run main.lua --profile retro --fps 30
  akuma menu main.lua
  akuma profiles --profile-dir ./profiles`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Append logs to this file")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Frame rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagProfileDir, "profile-dir", "", "Profile directory")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(profilesCmd)
}
