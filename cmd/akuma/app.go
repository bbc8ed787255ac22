package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/akuma-sim/internal/audio"
	"github.com/vovakirdan/akuma-sim/internal/config"
	"github.com/vovakirdan/akuma-sim/internal/host"
	"github.com/vovakirdan/akuma-sim/internal/host/ext"
	"github.com/vovakirdan/akuma-sim/internal/input"
	"github.com/vovakirdan/akuma-sim/internal/logging"
	"github.com/vovakirdan/akuma-sim/internal/platform/term"
	"github.com/vovakirdan/akuma-sim/internal/profile"
	"github.com/vovakirdan/akuma-sim/internal/sim"
	"github.com/vovakirdan/akuma-sim/internal/watch"
)

// loadConfig loads the configuration and applies the global flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	for _, name := range cfg.Extensions {
		if !ext.Exists(name) {
			return config.Config{}, fmt.Errorf("config: unknown extension %q (available: %s)",
				name, strings.Join(ext.Names(), ", "))
		}
	}
	return cfg, nil
}

// applyFlags overrides config values with the flags that were set.
func applyFlags(cfg *config.Config) {
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagLogFile != "" {
		cfg.LogFile = flagLogFile
	}
	if flagFPS > 0 {
		cfg.FrameRate = flagFPS
	}
	if flagProfileDir != "" {
		cfg.ProfileDir = flagProfileDir
	}
}

// profileDir returns the configured profile directory as an absolute path.
func profileDir(cfg config.Config) (string, error) {
	dir, err := cfg.ResolvedProfileDir()
	if err != nil {
		return "", err
	}
	return filepath.Abs(dir)
}

// logOutput is where the simulator logs go.
type logOutput struct {
	logger *log.Logger
	crlf   *logging.CRLFWriter
	closer io.Closer
}

// Close closes the log file, if any.
func (o logOutput) Close() error {
	if o.closer == nil {
		return nil
	}
	if err := o.closer.Close(); err != nil {
		return fmt.Errorf("cannot close log file: %w", err)
	}
	return nil
}

// closeLogOutput closes o and reports a failure on stderr.
func closeLogOutput(o logOutput) {
	if err := o.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

// newLogOutput builds the logger. Terminal output is CRLF-translated while
// the window holds the terminal in raw mode.
func newLogOutput(cfg config.Config) (logOutput, error) {
	var w io.Writer = os.Stderr
	var closer io.Closer
	if cfg.LogFile != "" {
		path, err := config.ExpandHome(cfg.LogFile)
		if err != nil {
			return logOutput{}, err
		}
		f, err := logging.OpenFile(path)
		if err != nil {
			return logOutput{}, fmt.Errorf("cannot open log file: %w", err)
		}
		w, closer = f, f
	}

	crlf := logging.NewCRLFWriter(w)
	return logOutput{
		logger: logging.New(cfg.LogLevel, crlf),
		crlf:   crlf,
		closer: closer,
	}, nil
}

// runSimulator wires the simulator to the terminal and runs mainScript
// with the given profile until the user quits.
func runSimulator(cfg config.Config, out logOutput, mainScript, profileName string) error {
	logger := out.logger

	if _, err := os.Stat(mainScript); err != nil {
		return fmt.Errorf("cannot open main script: %w", err)
	}
	dir, err := profileDir(cfg)
	if err != nil {
		return err
	}
	checkProfile(logger, dir, cfg.BootstrapScript, profileName)

	reload, err := cfg.ReloadChord()
	if err != nil {
		return err
	}
	quits, err := cfg.QuitChords()
	if err != nil {
		return err
	}

	watcher, err := watch.New(watch.Options{Ignore: cfg.Watch.Ignore, Logger: logger})
	if err != nil {
		return err
	}
	defer watcher.Close()

	size := term.TerminalSize(int(os.Stdout.Fd()))
	rt := host.New(host.Options{
		Logger:       logger,
		Sound:        audio.NewBell(os.Stdout, cfg.Audio),
		DefaultTitle: cfg.Window.Title,
	})
	window := term.NewWindow(term.WindowOptions{
		Out:     os.Stdout,
		Fd:      int(os.Stdin.Fd()),
		Size:    size,
		Binding: rt,
		RawMode: out.crlf,
		Logger:  logger,
	})
	defer window.Close()

	events := term.NewEvents(os.Stdin, term.EventOptions{
		QuitChords: quits,
		Size:       size,
		Logger:     logger,
		Signals:    true,
	})
	defer events.Close()

	simulator := sim.New(sim.Deps{
		Runtime: rt,
		Window:  window,
		Events:  events,
		Input:   input.NewAdapter(rt, window),
		Watcher: watcher,
		Logger:  logger,
	}, sim.Options{
		FrameInterval:   cfg.FrameInterval(),
		Debounce:        cfg.Debounce,
		ReloadChord:     reload,
		BootstrapScript: cfg.BootstrapScript,
		Extensions:      cfg.Extensions,
		Audio:           cfg.Audio,
		StrictBootstrap: cfg.StrictBootstrap,
	})

	if err := simulator.Initialize(dir, profileName); err != nil {
		return err
	}
	if err := simulator.Run(mainScript); err != nil {
		logger.Error("simulator failed", "error", err)
		return err
	}
	return nil
}

// checkProfile warns when profileName is not a profile in dir. The
// simulator still starts; the bootstrap logs the failed load.
func checkProfile(logger *log.Logger, dir, baseScript, profileName string) {
	profiles, err := profile.List(dir, baseScript)
	if err != nil {
		logger.Warn("cannot list profiles", "dir", dir, "error", err)
		return
	}
	if _, ok := profile.Find(profiles, profileName); ok {
		return
	}
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.Name
	}
	logger.Warn("unknown profile", "profile", profileName, "available", names)
}
