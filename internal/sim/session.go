package sim

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/akuma-sim/internal/core"
	"github.com/vovakirdan/akuma-sim/internal/watch"
)

// Defaults used when Options leaves a field unset.
const (
	DefaultFrameInterval   = time.Second / 60
	DefaultDebounce        = 100 * time.Millisecond
	DefaultBootstrapScript = "Akuma.lua"
)

// DefaultReloadChord restarts the simulator immediately.
var DefaultReloadChord = core.KeyChord{Key: core.KeyRune, Rune: 'r', Mods: core.ModCtrl}

// ErrNotInitialized is returned by Start before Initialize succeeded.
var ErrNotInitialized = errors.New("sim: simulator not initialized")

// Deps are the collaborators of the simulator.
type Deps struct {
	Runtime Runtime
	Window  Window
	Events  EventSource
	Input   InputForwarder
	Watcher ProjectWatcher
	Clock   Clock
	Logger  *log.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Clock == nil {
		d.Clock = SystemClock{}
	}
	if d.Logger == nil {
		d.Logger = log.Default()
	}
	return d
}

// Options tunes the simulator.
type Options struct {
	FrameInterval time.Duration
	Debounce      time.Duration
	ReloadChord   core.KeyChord

	// BootstrapScript is the base script run from the profile directory
	// before the profile itself.
	BootstrapScript string
	Extensions      []string
	Audio           bool

	// StrictBootstrap turns bootstrap and profile script failures into
	// Initialize errors instead of warnings.
	StrictBootstrap bool
}

func (o Options) withDefaults() Options {
	if o.FrameInterval <= 0 {
		o.FrameInterval = DefaultFrameInterval
	}
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.ReloadChord == (core.KeyChord{}) {
		o.ReloadChord = DefaultReloadChord
	}
	if o.BootstrapScript == "" {
		o.BootstrapScript = DefaultBootstrapScript
	}
	return o
}

// Simulator owns the hosted runtime across runs.
type Simulator struct {
	deps Deps
	opts Options

	profileDir  string
	profile     string
	initialized bool
	live        bool // the runtime context exists
	runs        int
}

// New creates a simulator. Call Initialize once, then Start per run.
func New(deps Deps, opts Options) *Simulator {
	return &Simulator{
		deps: deps.withDefaults(),
		opts: opts.withDefaults(),
	}
}

// Initialize creates the runtime context and runs the bootstrap script and
// the named profile from profileDir. Script failures are logged and
// tolerated unless Options.StrictBootstrap is set.
func (s *Simulator) Initialize(profileDir, profile string) error {
	s.profileDir = profileDir
	s.profile = profile
	if err := s.bootstrap(); err != nil {
		return err
	}
	s.initialized = true
	return nil
}

// bootstrap brings up a fresh runtime context.
func (s *Simulator) bootstrap() error {
	rt := s.deps.Runtime
	s.deps.Logger.Info("initializing runtime", "profile", s.profile, "dir", s.profileDir)

	if err := rt.CreateContext(); err != nil {
		return fmt.Errorf("sim: create runtime context: %w", err)
	}
	s.live = true

	if err := rt.LoadExtensions(s.opts.Extensions); err != nil {
		s.teardown()
		return fmt.Errorf("sim: load extensions: %w", err)
	}
	if s.opts.Audio {
		if err := rt.InitAudio(); err != nil {
			s.deps.Logger.Warn("audio unavailable", "error", err)
		}
	}
	s.deps.Input.Init()
	rt.SetWindowHooks(s.deps.Window)

	if err := s.runBootstrapScript(filepath.Join(s.profileDir, s.opts.BootstrapScript)); err != nil {
		s.teardown()
		return err
	}
	s.deps.Logger.Info("loading profile", "profile", s.profile)
	if err := s.runBootstrapScript(filepath.Join(s.profileDir, s.profile+".lua")); err != nil {
		s.teardown()
		return err
	}
	return nil
}

func (s *Simulator) runBootstrapScript(path string) error {
	err := s.deps.Runtime.RunScript(path)
	if err == nil {
		return nil
	}
	if s.opts.StrictBootstrap {
		return fmt.Errorf("sim: bootstrap %s: %w", path, err)
	}
	s.deps.Logger.Warn("bootstrap script failed", "script", path, "error", err)
	return nil
}

// teardown closes the window and releases the runtime context.
func (s *Simulator) teardown() {
	s.deps.Window.Close()
	if s.live {
		s.deps.Runtime.DeleteContext()
		s.live = false
	}
}

// Start runs mainScript until the loop ends. The project directory is the
// directory of mainScript; changes below it end the run with ExitRestart.
// The watch, the window and the runtime context are always released
// before Start returns; the next Start bootstraps a fresh context.
func (s *Simulator) Start(mainScript string) (ExitReason, error) {
	if !s.initialized {
		return ExitUserAction, ErrNotInitialized
	}
	if !s.live {
		if err := s.bootstrap(); err != nil {
			return ExitUserAction, err
		}
	}
	defer s.teardown()

	abs, err := filepath.Abs(mainScript)
	if err != nil {
		return ExitUserAction, fmt.Errorf("sim: resolve %s: %w", mainScript, err)
	}
	projectDir, filename := filepath.Dir(abs), filepath.Base(abs)

	s.runs++
	s.deps.Logger.Info("starting simulator", "project", projectDir, "script", filename, "run", s.runs)
	s.deps.Runtime.SetWorkingDirectory(projectDir)

	dirty := watch.NewDirtyFlag()
	id, err := s.deps.Watcher.AddWatch(projectDir, dirty)
	if err != nil {
		return ExitUserAction, fmt.Errorf("sim: watch project: %w", err)
	}
	defer s.deps.Watcher.RemoveWatch(id)

	// A broken main script still runs the loop so that fixing it reloads.
	if err := s.deps.Runtime.RunScript(filename); err != nil {
		s.deps.Logger.Error("main script failed", "script", filename, "error", err)
	}

	loop := NewLoop(s.deps, s.opts, dirty)
	reason, err := loop.Run()
	s.deps.Logger.Info("simulator stopped", "reason", reason, "frames", loop.Frames())
	return reason, err
}

// Run calls Start until a run ends for a reason other than ExitRestart.
func (s *Simulator) Run(mainScript string) error {
	for {
		reason, err := s.Start(mainScript)
		if err != nil {
			return err
		}
		if reason != ExitRestart {
			return nil
		}
		s.deps.Logger.Info("restarting simulator")
	}
}
