package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/akuma-sim/internal/config"
	"github.com/vovakirdan/akuma-sim/internal/profile"
)

func TestApplyFlags(t *testing.T) {
	defer func() {
		flagLogLevel, flagLogFile, flagFPS, flagProfileDir = "", "", 0, ""
	}()

	cfg := config.Default()
	applyFlags(&cfg)
	if cfg.FrameRate != config.Default().FrameRate || cfg.LogLevel != config.Default().LogLevel {
		t.Error("unset flags should leave the config alone")
	}

	flagLogLevel, flagLogFile, flagFPS, flagProfileDir = "debug", "/tmp/akuma.log", 30, "/p"
	applyFlags(&cfg)
	if cfg.LogLevel != "debug" || cfg.LogFile != "/tmp/akuma.log" || cfg.FrameRate != 30 || cfg.ProfileDir != "/p" {
		t.Errorf("flags not applied: %+v", cfg)
	}
}

func TestPrintProfiles(t *testing.T) {
	var buf bytes.Buffer
	printProfiles(&buf, "/p", []profile.Profile{
		{Name: "default", Description: "Plain"},
		{Name: "retro", Description: "Green"},
	}, "retro")

	out := buf.String()
	for _, want := range []string{"Profiles in /p", "Name", "  default  Plain", "* retro", "Green"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestPrintProfilesEmpty(t *testing.T) {
	var buf bytes.Buffer
	printProfiles(&buf, "/p", nil, "")
	if !strings.Contains(buf.String(), "No profiles in /p") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestLoadConfigRejectsUnknownExtension(t *testing.T) {
	defer func() { flagConfig = "" }()

	path := filepath.Join(t.TempDir(), "akuma.yaml")
	if err := os.WriteFile(path, []byte("extensions: [sql, curl]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	flagConfig = path

	_, err := loadConfig()
	if err == nil || !strings.Contains(err.Error(), `"curl"`) {
		t.Fatalf("loadConfig() error = %v, want unknown extension curl", err)
	}
}

func TestLoadConfigAcceptsKnownExtensions(t *testing.T) {
	defer func() { flagConfig = "" }()

	path := filepath.Join(t.TempDir(), "akuma.yaml")
	if err := os.WriteFile(path, []byte("extensions: [yaml, crypto]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	flagConfig = path

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if len(cfg.Extensions) != 2 {
		t.Errorf("Extensions = %v", cfg.Extensions)
	}
}

func TestLogOutputClose(t *testing.T) {
	cfg := config.Default()
	cfg.LogFile = filepath.Join(t.TempDir(), "akuma.log")

	out, err := newLogOutput(cfg)
	if err != nil {
		t.Fatalf("newLogOutput() error = %v", err)
	}
	out.logger.Info("hello")

	if err := out.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := out.Close(); err == nil {
		t.Error("closing the log file twice should report the error")
	}

	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file = %q", data)
	}
}

func TestLogOutputCloseWithoutFile(t *testing.T) {
	out, err := newLogOutput(config.Default())
	if err != nil {
		t.Fatalf("newLogOutput() error = %v", err)
	}
	if err := out.Close(); err != nil {
		t.Errorf("Close() error = %v, expected nil for stderr output", err)
	}
}
