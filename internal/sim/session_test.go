package sim

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vovakirdan/akuma-sim/internal/core"
)

func TestInitializeBootstrapOrder(t *testing.T) {
	h := newHarness()
	s := New(h.deps(), Options{Extensions: []string{"sql", "yaml"}, Audio: true})

	if err := s.Initialize("/profiles", "retro"); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}

	want := []string{
		filepath.Join("/profiles", DefaultBootstrapScript),
		filepath.Join("/profiles", "retro.lua"),
	}
	if !reflect.DeepEqual(h.runtime.scripts, want) {
		t.Errorf("scripts = %v, expected %v", h.runtime.scripts, want)
	}
	if h.runtime.created != 1 {
		t.Errorf("created = %d, expected 1", h.runtime.created)
	}
	if len(h.runtime.extensions) != 1 || !reflect.DeepEqual(h.runtime.extensions[0], []string{"sql", "yaml"}) {
		t.Errorf("extensions = %v", h.runtime.extensions)
	}
	if h.runtime.audioInits != 1 {
		t.Errorf("audioInits = %d, expected 1", h.runtime.audioInits)
	}
	if h.input.inits != 1 {
		t.Errorf("input inits = %d, expected 1", h.input.inits)
	}
	if h.runtime.hooks != WindowHooks(h.window) {
		t.Error("window hooks were not bound to the window")
	}
}

func TestInitializeWithoutAudio(t *testing.T) {
	h := newHarness()
	s := New(h.deps(), Options{})
	if err := s.Initialize("/profiles", "default"); err != nil {
		t.Fatal(err)
	}
	if h.runtime.audioInits != 0 {
		t.Errorf("audio initialized although disabled")
	}
}

func TestInitializeScriptFailures(t *testing.T) {
	boom := errors.New("syntax error")

	tests := []struct {
		name    string
		script  string
		strict  bool
		wantErr bool
	}{
		{"bootstrap tolerated", DefaultBootstrapScript, false, false},
		{"profile tolerated", "default.lua", false, false},
		{"bootstrap strict", DefaultBootstrapScript, true, true},
		{"profile strict", "default.lua", true, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness()
			h.runtime.scriptErrs[filepath.Join("/p", tc.script)] = boom
			s := New(h.deps(), Options{StrictBootstrap: tc.strict})

			err := s.Initialize("/p", "default")
			if tc.wantErr {
				if !errors.Is(err, boom) {
					t.Fatalf("Initialize() error = %v, expected it to wrap %v", err, boom)
				}
				if h.runtime.deleted != 1 {
					t.Errorf("context should be released on failure, deleted = %d", h.runtime.deleted)
				}
				return
			}
			if err != nil {
				t.Fatalf("Initialize() error: %v", err)
			}
			if len(h.runtime.scripts) != 2 {
				t.Errorf("both scripts should run, got %v", h.runtime.scripts)
			}
			if h.runtime.deleted != 0 {
				t.Errorf("context deleted after tolerated failure")
			}
		})
	}
}

func TestInitializeCreateContextFailure(t *testing.T) {
	h := newHarness()
	h.runtime.createErr = errors.New("out of memory")
	s := New(h.deps(), Options{})

	if err := s.Initialize("/p", "default"); !errors.Is(err, h.runtime.createErr) {
		t.Fatalf("Initialize() error = %v", err)
	}
	if len(h.runtime.scripts) != 0 {
		t.Errorf("no script should run without a context, got %v", h.runtime.scripts)
	}
	if h.runtime.deleted != 0 {
		t.Errorf("nothing to delete, deleted = %d", h.runtime.deleted)
	}
}

func TestStartBeforeInitialize(t *testing.T) {
	h := newHarness()
	s := New(h.deps(), Options{})
	if _, err := s.Start("main.lua"); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("Start() error = %v, expected %v", err, ErrNotInitialized)
	}
	if h.runtime.created != 0 {
		t.Error("Start must not create a context before Initialize")
	}
}

func initialized(t *testing.T, h *harness) *Simulator {
	t.Helper()
	s := New(h.deps(), Options{})
	if err := s.Initialize("/p", "default"); err != nil {
		t.Fatal(err)
	}
	h.runtime.scripts = nil
	return s
}

func TestStartReleasesEverything(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(*harness)
		reason ExitReason
	}{
		{"quit", func(h *harness) { h.events.at(20*ms, core.QuitEvent()) }, ExitUserAction},
		{"reload chord", func(h *harness) { h.events.at(20*ms, core.RuneEvent('r', core.ModCtrl)) }, ExitRestart},
		{"project change", func(h *harness) { h.watcher.notifyAt(20 * ms) }, ExitRestart},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness()
			s := initialized(t, h)
			tc.setup(h)

			dir := t.TempDir()
			reason, err := s.Start(filepath.Join(dir, "main.lua"))
			if err != nil {
				t.Fatalf("Start() error: %v", err)
			}
			if reason != tc.reason {
				t.Errorf("reason = %v, expected %v", reason, tc.reason)
			}

			if h.runtime.workDir != dir {
				t.Errorf("working directory = %q, expected %q", h.runtime.workDir, dir)
			}
			if h.watcher.dir != dir {
				t.Errorf("watched %q, expected %q", h.watcher.dir, dir)
			}
			if !reflect.DeepEqual(h.runtime.scripts, []string{"main.lua"}) {
				t.Errorf("scripts = %v, expected the main script by name", h.runtime.scripts)
			}
			if len(h.watcher.removed) != 1 || h.watcher.removed[0] != 1 {
				t.Errorf("removed = %v, expected the watch to be released", h.watcher.removed)
			}
			if h.window.closes == 0 {
				t.Error("window was never closed")
			}
			if h.runtime.deleted != 1 {
				t.Errorf("deleted = %d, expected the context to be released once", h.runtime.deleted)
			}
		})
	}
}

func TestStartRebootstrapsAfterRun(t *testing.T) {
	h := newHarness()
	s := initialized(t, h)
	h.events.at(0, core.QuitEvent())
	h.events.at(0, core.QuitEvent())

	for i := 0; i < 2; i++ {
		if _, err := s.Start("main.lua"); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	if h.runtime.created != 2 {
		t.Errorf("created = %d, expected a fresh context for the second run", h.runtime.created)
	}
	if h.runtime.deleted != 2 {
		t.Errorf("deleted = %d, expected 2", h.runtime.deleted)
	}
	want := []string{"main.lua", filepath.Join("/p", DefaultBootstrapScript), filepath.Join("/p", "default.lua"), "main.lua"}
	if !reflect.DeepEqual(h.runtime.scripts, want) {
		t.Errorf("scripts = %v, expected %v", h.runtime.scripts, want)
	}
}

func TestStartMainScriptFailureKeepsRunning(t *testing.T) {
	h := newHarness()
	s := initialized(t, h)
	h.runtime.scriptErrs["main.lua"] = errors.New("attempt to call a nil value")
	h.events.at(50*ms, core.QuitEvent())

	reason, err := s.Start("main.lua")
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if reason != ExitUserAction {
		t.Errorf("reason = %v", reason)
	}
	if len(h.window.presents) == 0 {
		t.Error("loop should run even when the main script fails")
	}
}

func TestStartWatchFailure(t *testing.T) {
	h := newHarness()
	s := initialized(t, h)
	h.watcher.addErr = errors.New("no such directory")

	if _, err := s.Start("main.lua"); !errors.Is(err, h.watcher.addErr) {
		t.Fatalf("Start() error = %v", err)
	}
	if h.runtime.deleted != 1 {
		t.Errorf("deleted = %d, expected the context to be released", h.runtime.deleted)
	}
	if len(h.runtime.scripts) != 0 {
		t.Errorf("main script ran without a watch: %v", h.runtime.scripts)
	}
}

func TestRunRestartsUntilUserAction(t *testing.T) {
	h := newHarness()
	s := initialized(t, h)
	h.events.at(0, core.RuneEvent('r', core.ModCtrl))
	h.events.at(0, core.RuneEvent('R', core.ModCtrl))
	h.events.at(0, core.QuitEvent())

	if err := s.Run("main.lua"); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if h.watcher.added != 3 {
		t.Errorf("runs = %d, expected 3", h.watcher.added)
	}
	if h.runtime.created != 3 || h.runtime.deleted != 3 {
		t.Errorf("created = %d, deleted = %d, expected 3 each", h.runtime.created, h.runtime.deleted)
	}
}

func TestRunStopsOnError(t *testing.T) {
	h := newHarness()
	s := initialized(t, h)
	h.runtime.renderErr = errors.New("bad draw call")

	if err := s.Run("main.lua"); !errors.Is(err, h.runtime.renderErr) {
		t.Fatalf("Run() error = %v", err)
	}
	if h.watcher.added != 1 {
		t.Errorf("runs = %d, expected 1", h.watcher.added)
	}
}
