package sim

import (
	"fmt"

	"github.com/vovakirdan/akuma-sim/internal/core"
	"github.com/vovakirdan/akuma-sim/internal/watch"
)

// Loop is the state of one run of the game loop. It is built per run by
// Simulator.Start and owns nothing that outlives the run.
type Loop struct {
	deps  Deps
	opts  Options
	dirty *watch.DirtyFlag

	frames int
}

// NewLoop creates a loop over deps that watches dirty for project changes.
func NewLoop(deps Deps, opts Options, dirty *watch.DirtyFlag) *Loop {
	return &Loop{
		deps:  deps.withDefaults(),
		opts:  opts.withDefaults(),
		dirty: dirty,
	}
}

// Frames returns how many frames were presented so far.
func (l *Loop) Frames() int {
	return l.frames
}

// Run drives update/render at the fixed frame interval until the user quits,
// a reload is requested, or the project changes. A failing update, render or
// present closes the window and is returned as an error.
func (l *Loop) Run() (ExitReason, error) {
	last := l.deps.Clock.Now()
	for {
		if reason, done := l.drainEvents(); done {
			return reason, nil
		}

		l.deps.Watcher.Update()
		if l.dirty.IsSet() {
			l.deps.Logger.Info("change to project folder detected")
			l.debounce()
			return ExitRestart, nil
		}

		if err := l.frame(); err != nil {
			l.deps.Window.Close()
			return ExitUserAction, err
		}

		if elapsed := l.deps.Clock.Now().Sub(last); elapsed < l.opts.FrameInterval {
			l.deps.Clock.Sleep(l.opts.FrameInterval - elapsed)
		}
		last = l.deps.Clock.Now()
	}
}

// drainEvents handles every pending native event. It reports done when an
// event ends the run.
func (l *Loop) drainEvents() (ExitReason, bool) {
	for {
		ev, ok := l.deps.Events.Poll()
		if !ok {
			return ExitUserAction, false
		}

		switch {
		case ev.Type == core.EventQuit:
			l.deps.Window.Close()
			return ExitUserAction, true
		case l.opts.ReloadChord.Matches(ev):
			l.deps.Logger.Info("reload requested", "key", ev.String())
			l.deps.Window.Close()
			return ExitRestart, true
		}

		l.deps.Input.Forward(ev)
	}
}

// frame runs one update/render cycle and presents it.
func (l *Loop) frame() error {
	if err := l.deps.Runtime.Update(); err != nil {
		return fmt.Errorf("sim: update: %w", err)
	}
	l.deps.Window.Clear()
	if err := l.deps.Runtime.Render(); err != nil {
		return fmt.Errorf("sim: render: %w", err)
	}
	if err := l.deps.Window.Present(); err != nil {
		return fmt.Errorf("sim: present: %w", err)
	}
	l.frames++
	return nil
}

// debounce waits one full debounce window after the flag was last set and
// keeps waiting while new changes arrive during the window.
func (l *Loop) debounce() {
	for {
		l.dirty.Clear()
		l.deps.Clock.Sleep(l.opts.Debounce)
		l.deps.Watcher.Update()
		if !l.dirty.IsSet() {
			return
		}
		l.deps.Logger.Debug("project still changing, waiting")
	}
}
