// Package sim drives the hosted runtime: the fixed-tick game loop with its
// reload-on-change decision, and the per-process / per-run lifecycle.
//
// Everything outside the loop's decision logic (the scripting runtime, the
// window, native events, the file watcher, time) is reached through the
// small interfaces in this file so the loop can run against fakes.
package sim

import (
	"time"

	"github.com/vovakirdan/akuma-sim/internal/core"
	"github.com/vovakirdan/akuma-sim/internal/watch"
)

// Runtime is the hosted scripting runtime as seen by the simulator.
type Runtime interface {
	CreateContext() error
	DeleteContext()
	LoadExtensions(names []string) error
	InitAudio() error
	SetWindowHooks(h WindowHooks)
	SetWorkingDirectory(dir string)
	RunScript(path string) error
	Update() error
	Render() error
}

// WindowHooks are the window operations scripts may request.
type WindowHooks interface {
	OpenWindow(title string, width, height int) error
	EnterFullscreen()
	ExitFullscreen()
}

// Window is the graphics surface driven by the loop. It also serves the
// runtime's window hooks.
type Window interface {
	WindowHooks
	// Clear wipes the frame buffer before the runtime renders.
	Clear()
	// Present shows the rendered frame.
	Present() error
	// Close releases the runtime binding and the surface. It must be safe
	// to call repeatedly and before the window was ever opened.
	Close()
}

// EventSource yields pending native events without blocking.
type EventSource interface {
	Poll() (core.Event, bool)
}

// InputForwarder hands native events to the runtime. Fire and forget.
type InputForwarder interface {
	Init()
	Forward(ev core.Event)
}

// ProjectWatcher reports filesystem changes below a directory.
// Update delivers pending notifications to the listener synchronously.
type ProjectWatcher interface {
	AddWatch(dir string, l watch.Listener) (watch.WatchID, error)
	RemoveWatch(id watch.WatchID)
	Update()
}

// Clock supplies time to the loop.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Sleep calls time.Sleep.
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }
