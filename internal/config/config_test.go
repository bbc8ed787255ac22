package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/akuma-sim/internal/core"
)

func TestEmbeddedDefaultsMatchDefault(t *testing.T) {
	cfg, err := parse(defaultYAML)
	if err != nil {
		t.Fatalf("parse(defaultYAML) failed: %v", err)
	}
	want := Default()
	want.Watch.Ignore = []string{}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("embedded defaults = %+v\nexpected %+v", cfg, want)
	}
}

func TestLoadCustomPathOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("frame_rate: 30\ndebounce: 250ms\nwatch:\n  ignore: ['*.swp']\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.FrameRate != 30 {
		t.Errorf("FrameRate = %d, expected 30", cfg.FrameRate)
	}
	if cfg.Debounce != 250*time.Millisecond {
		t.Errorf("Debounce = %s, expected 250ms", cfg.Debounce)
	}
	if cfg.ReloadKey != "ctrl+r" {
		t.Errorf("unset fields should keep defaults, ReloadKey = %q", cfg.ReloadKey)
	}
	if !reflect.DeepEqual(cfg.Watch.Ignore, []string{"*.swp"}) {
		t.Errorf("Watch.Ignore = %v", cfg.Watch.Ignore)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing custom file should fail")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("frame_rate: [1, 2"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Load() of malformed YAML should fail")
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)

	// Nothing on disk: embedded defaults
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.FrameRate != 60 {
		t.Errorf("FrameRate = %d, expected default 60", cfg.FrameRate)
	}

	// Working directory file
	if err := os.WriteFile(filepath.Join(work, FileName), []byte("frame_rate: 24\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if cfg, _ = Load(""); cfg.FrameRate != 24 {
		t.Errorf("FrameRate = %d, expected 24 from ./%s", cfg.FrameRate, FileName)
	}

	// User file wins over working directory
	userDir := filepath.Join(home, ".akuma")
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(userDir, FileName), []byte("frame_rate: 12\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if cfg, _ = Load(""); cfg.FrameRate != 12 {
		t.Errorf("FrameRate = %d, expected 12 from ~/.akuma/%s", cfg.FrameRate, FileName)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero frame rate", func(c *Config) { c.FrameRate = 0 }, true},
		{"negative debounce", func(c *Config) { c.Debounce = -time.Second }, true},
		{"empty bootstrap", func(c *Config) { c.BootstrapScript = " " }, true},
		{"bad reload key", func(c *Config) { c.ReloadKey = "hyper+r" }, true},
		{"bad quit key", func(c *Config) { c.QuitKeys = []string{"ctrl+"} }, true},
		{"bad ignore glob", func(c *Config) { c.Watch.Ignore = []string{"[a-"} }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFrameInterval(t *testing.T) {
	cfg := Default()
	if got := cfg.FrameInterval(); got != time.Second/60 {
		t.Errorf("FrameInterval() = %s, expected %s", got, time.Second/60)
	}
	cfg.FrameRate = 0
	if got := cfg.FrameInterval(); got != time.Second/60 {
		t.Errorf("FrameInterval() with zero rate = %s, expected 60fps fallback", got)
	}
}

func TestChords(t *testing.T) {
	cfg := Default()
	reload, err := cfg.ReloadChord()
	if err != nil {
		t.Fatal(err)
	}
	if !reload.Matches(core.RuneEvent('r', core.ModCtrl)) {
		t.Error("default reload chord should match ctrl+r")
	}
	quits, err := cfg.QuitChords()
	if err != nil {
		t.Fatal(err)
	}
	if len(quits) != 2 {
		t.Errorf("expected 2 quit chords, got %d", len(quits))
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	got, err := ExpandHome("~/.akuma/profiles")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join("/home/tester", ".akuma/profiles") {
		t.Errorf("ExpandHome() = %q", got)
	}
	if got, _ := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("absolute paths should be unchanged, got %q", got)
	}
}
