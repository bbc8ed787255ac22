package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/akuma.yaml
var defaultYAML []byte

// Default returns the built-in configuration, matching defaults/akuma.yaml.
func Default() Config {
	return Config{
		FrameRate:       60,
		Debounce:        100 * time.Millisecond,
		LogLevel:        "info",
		ReloadKey:       "ctrl+r",
		QuitKeys:        []string{"ctrl+c", "ctrl+q"},
		ProfileDir:      "~/.akuma/profiles",
		Profile:         "default",
		BootstrapScript: "Akuma.lua",
		Audio:           true,
		Extensions:      []string{"sql", "yaml", "crypto"},
		Window: WindowConfig{
			Title: "Akuma Simulator",
		},
	}
}
