// Package config provides YAML-based simulator configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vovakirdan/akuma-sim/internal/core"
)

// Config contains all simulator settings.
type Config struct {
	FrameRate       int           `yaml:"frame_rate"`
	Debounce        time.Duration `yaml:"debounce"`
	LogLevel        string        `yaml:"log_level"`
	LogFile         string        `yaml:"log_file"`
	ReloadKey       string        `yaml:"reload_key"`
	QuitKeys        []string      `yaml:"quit_keys"`
	ProfileDir      string        `yaml:"profile_dir"`
	Profile         string        `yaml:"profile"`
	BootstrapScript string        `yaml:"bootstrap_script"`
	StrictBootstrap bool          `yaml:"strict_bootstrap"`
	Audio           bool          `yaml:"audio"`
	Extensions      []string      `yaml:"extensions"`
	Window          WindowConfig  `yaml:"window"`
	Watch           WatchConfig   `yaml:"watch"`
}

// WindowConfig holds window presentation settings.
type WindowConfig struct {
	// Title is used when a script opens a window with an empty title.
	Title string `yaml:"title"`
}

// WatchConfig holds project watcher settings.
type WatchConfig struct {
	// Ignore lists glob patterns (matched against the path relative to the
	// project directory and against the base name) whose changes never
	// trigger a reload.
	Ignore []string `yaml:"ignore"`
}

// FrameInterval returns the fixed target time between frames.
func (c Config) FrameInterval() time.Duration {
	if c.FrameRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.FrameRate)
}

// ReloadChord parses the configured reload key.
func (c Config) ReloadChord() (core.KeyChord, error) {
	chord, err := core.ParseKeyChord(c.ReloadKey)
	if err != nil {
		return core.KeyChord{}, fmt.Errorf("config: reload_key: %w", err)
	}
	return chord, nil
}

// QuitChords parses the configured quit keys.
func (c Config) QuitChords() ([]core.KeyChord, error) {
	chords := make([]core.KeyChord, 0, len(c.QuitKeys))
	for _, k := range c.QuitKeys {
		chord, err := core.ParseKeyChord(k)
		if err != nil {
			return nil, fmt.Errorf("config: quit_keys: %w", err)
		}
		chords = append(chords, chord)
	}
	return chords, nil
}

// ResolvedProfileDir returns ProfileDir with a leading ~ expanded.
func (c Config) ResolvedProfileDir() (string, error) {
	return ExpandHome(c.ProfileDir)
}

// Validate checks the configuration for values the simulator cannot run with.
func (c Config) Validate() error {
	if c.FrameRate <= 0 {
		return fmt.Errorf("config: frame_rate must be positive, got %d", c.FrameRate)
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("config: debounce must be positive, got %s", c.Debounce)
	}
	if strings.TrimSpace(c.BootstrapScript) == "" {
		return fmt.Errorf("config: bootstrap_script must not be empty")
	}
	if _, err := c.ReloadChord(); err != nil {
		return err
	}
	if _, err := c.QuitChords(); err != nil {
		return err
	}
	for _, pattern := range c.Watch.Ignore {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("config: watch.ignore pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
