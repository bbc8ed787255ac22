// Package host embeds the gopher-lua runtime that simulator scripts run in.
//
// A Runtime owns at most one Lua context at a time. Scripts reach the
// simulator through four global tables:
//
//	sim    window requests, frame callbacks, logging
//	gfx    drawing into the char-cell frame buffer (zero-based cells)
//	input  key and resize callbacks
//	audio  the terminal bell
//
// Optional modules (sql, yaml, crypto) come from package ext and are
// loaded with require.
package host

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/akuma-sim/internal/core"
	"github.com/vovakirdan/akuma-sim/internal/host/ext"
	"github.com/vovakirdan/akuma-sim/internal/sim"
)

var errNoContext = errors.New("host: no runtime context")

// Sound is the audio device scripts may use.
type Sound interface {
	Beep() error
	Enabled() bool
}

// Options configures a Runtime.
type Options struct {
	Logger *log.Logger
	// Sound backs the audio table; nil leaves audio unavailable.
	Sound Sound
	// DefaultTitle is used when a script opens a window without a title.
	DefaultTitle string
	// Now supplies frame times for update deltas.
	Now func() time.Time
}

// Runtime is a gopher-lua host implementing sim.Runtime.
type Runtime struct {
	opts Options

	L        *lua.LState
	basePath string // package.path of a fresh context
	closers  []io.Closer

	hooks   sim.WindowHooks
	workDir string

	screen        *core.Screen
	width, height int

	audioReady bool

	// script callbacks
	onUpdate, onRender *lua.LFunction
	onKey, onResize    *lua.LFunction

	pending    []inputEvent
	lastUpdate time.Time
}

var _ sim.Runtime = (*Runtime)(nil)

// New creates a runtime without a context.
func New(opts Options) *Runtime {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runtime{opts: opts}
}

// CreateContext creates a fresh Lua context, replacing any existing one.
func (r *Runtime) CreateContext() error {
	if r.L != nil {
		r.DeleteContext()
	}

	r.L = lua.NewState()
	pkg, ok := r.L.GetGlobal("package").(*lua.LTable)
	if !ok {
		r.DeleteContext()
		return errors.New("host: create context: package library missing")
	}
	r.basePath = pkg.RawGetString("path").String()
	r.install()
	r.applyPackagePath()
	r.lastUpdate = time.Time{}
	return nil
}

// DeleteContext closes the Lua context and every resource scripts opened.
func (r *Runtime) DeleteContext() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			r.opts.Logger.Warn("closing script resource", "error", err)
		}
	}
	r.closers = nil

	if r.L != nil {
		r.L.Close()
		r.L = nil
	}
	r.onUpdate, r.onRender, r.onKey, r.onResize = nil, nil, nil, nil
	r.pending = nil
	r.audioReady = false
}

// Live reports whether a context exists.
func (r *Runtime) Live() bool {
	return r.L != nil
}

// LoadExtensions makes the named extensions available to require.
func (r *Runtime) LoadExtensions(names []string) error {
	if r.L == nil {
		return errNoContext
	}
	env := ext.Env{
		Resolve: r.resolve,
		Track:   func(c io.Closer) { r.closers = append(r.closers, c) },
	}
	if err := ext.Preload(r.L, env, names); err != nil {
		return fmt.Errorf("host: %w", err)
	}
	return nil
}

// InitAudio enables the audio table.
func (r *Runtime) InitAudio() error {
	if r.L == nil {
		return errNoContext
	}
	if r.opts.Sound == nil || !r.opts.Sound.Enabled() {
		return errors.New("host: no audio device")
	}
	r.audioReady = true
	return nil
}

// SetWindowHooks installs the window operations behind sim.openWindow and
// the fullscreen calls.
func (r *Runtime) SetWindowHooks(h sim.WindowHooks) {
	r.hooks = h
}

// SetWorkingDirectory sets the directory relative script paths and
// require resolve against.
func (r *Runtime) SetWorkingDirectory(dir string) {
	r.workDir = dir
	r.applyPackagePath()
}

// WorkingDirectory returns the current working directory.
func (r *Runtime) WorkingDirectory() string {
	return r.workDir
}

func (r *Runtime) applyPackagePath() {
	if r.L == nil {
		return
	}
	pkg, ok := r.L.GetGlobal("package").(*lua.LTable)
	if !ok {
		return
	}
	path := r.basePath
	if r.workDir != "" {
		path = strings.Join([]string{
			filepath.Join(r.workDir, "?.lua"),
			filepath.Join(r.workDir, "?", "init.lua"),
			r.basePath,
		}, ";")
	}
	r.L.SetField(pkg, "path", lua.LString(path))
}

func (r *Runtime) resolve(path string) string {
	if filepath.IsAbs(path) || r.workDir == "" {
		return path
	}
	return filepath.Join(r.workDir, path)
}

// RunScript executes the script at path.
func (r *Runtime) RunScript(path string) error {
	if r.L == nil {
		return errNoContext
	}
	if err := r.L.DoFile(r.resolve(path)); err != nil {
		return fmt.Errorf("host: run %s: %w", path, err)
	}
	return nil
}

// Update dispatches queued input and calls the script's update callback
// with the seconds elapsed since the previous update.
func (r *Runtime) Update() error {
	if r.L == nil {
		return errNoContext
	}
	if err := r.dispatchInput(); err != nil {
		return err
	}

	now := r.opts.Now()
	var dt float64
	if !r.lastUpdate.IsZero() {
		dt = now.Sub(r.lastUpdate).Seconds()
	}
	r.lastUpdate = now

	if err := r.call(r.onUpdate, lua.LNumber(dt)); err != nil {
		return fmt.Errorf("host: update callback: %w", err)
	}
	return nil
}

// Render calls the script's render callback.
func (r *Runtime) Render() error {
	if r.L == nil {
		return errNoContext
	}
	if err := r.call(r.onRender); err != nil {
		return fmt.Errorf("host: render callback: %w", err)
	}
	return nil
}

// DetectGfxContext binds the frame buffer gfx draws into.
func (r *Runtime) DetectGfxContext(screen *core.Screen) {
	r.screen = screen
	if screen != nil {
		r.width, r.height = screen.Width(), screen.Height()
	}
}

// ReleaseGfxContext unbinds the frame buffer; gfx calls become no-ops.
func (r *Runtime) ReleaseGfxContext() {
	r.screen = nil
}

// SetScreenSize records the drawable size reported by gfx.width and
// gfx.height.
func (r *Runtime) SetScreenSize(width, height int) {
	r.width, r.height = width, height
}

func (r *Runtime) call(fn *lua.LFunction, args ...lua.LValue) error {
	if fn == nil {
		return nil
	}
	return r.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
}
