package sim

import (
	"sort"
	"time"

	"github.com/vovakirdan/akuma-sim/internal/core"
	"github.com/vovakirdan/akuma-sim/internal/logging"
	"github.com/vovakirdan/akuma-sim/internal/watch"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// fakeClock advances only when slept on or told to.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: epoch}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// elapsed returns the time since epoch.
func (c *fakeClock) elapsed() time.Duration { return c.now.Sub(epoch) }

// fakeWatcher delivers scheduled notifications once the clock reaches them.
type fakeWatcher struct {
	clock    *fakeClock
	pending  []watch.Notification
	listener watch.Listener
	dir      string
	addErr   error
	added    int
	removed  []watch.WatchID
	updates  int
}

// notifyAt schedules notifications at the given offsets from epoch.
func (w *fakeWatcher) notifyAt(offsets ...time.Duration) {
	for _, off := range offsets {
		w.pending = append(w.pending, watch.Notification{
			Filename: "main.lua",
			Action:   watch.ActionModified,
			At:       epoch.Add(off),
		})
	}
	sort.Slice(w.pending, func(i, j int) bool { return w.pending[i].At.Before(w.pending[j].At) })
}

func (w *fakeWatcher) AddWatch(dir string, l watch.Listener) (watch.WatchID, error) {
	if w.addErr != nil {
		return 0, w.addErr
	}
	w.added++
	w.dir = dir
	w.listener = l
	return watch.WatchID(w.added), nil
}

func (w *fakeWatcher) RemoveWatch(id watch.WatchID) {
	w.removed = append(w.removed, id)
}

func (w *fakeWatcher) Update() {
	w.updates++
	for len(w.pending) > 0 && !w.pending[0].At.After(w.clock.Now()) {
		n := w.pending[0]
		w.pending = w.pending[1:]
		if w.listener != nil {
			w.listener.HandleFileAction(n)
		}
	}
}

// fakeEvents yields scheduled events once the clock reaches them.
type fakeEvents struct {
	clock   *fakeClock
	pending []timedEvent
}

type timedEvent struct {
	at time.Duration
	ev core.Event
}

func (e *fakeEvents) at(off time.Duration, ev core.Event) {
	e.pending = append(e.pending, timedEvent{at: off, ev: ev})
	sort.SliceStable(e.pending, func(i, j int) bool { return e.pending[i].at < e.pending[j].at })
}

func (e *fakeEvents) Poll() (core.Event, bool) {
	if len(e.pending) == 0 || e.pending[0].at > e.clock.elapsed() {
		return core.Event{}, false
	}
	ev := e.pending[0].ev
	e.pending = e.pending[1:]
	return ev, true
}

// fakeRuntime records calls; Update costs updateCost of clock time.
type fakeRuntime struct {
	clock      *fakeClock
	updateCost time.Duration

	created, deleted int
	updates, renders int
	extensions       [][]string
	audioInits       int
	hooks            WindowHooks
	workDir          string
	scripts          []string

	createErr  error
	updateErr  error
	renderErr  error
	scriptErrs map[string]error
}

func (r *fakeRuntime) CreateContext() error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created++
	return nil
}

func (r *fakeRuntime) DeleteContext() { r.deleted++ }

func (r *fakeRuntime) LoadExtensions(names []string) error {
	r.extensions = append(r.extensions, names)
	return nil
}

func (r *fakeRuntime) InitAudio() error {
	r.audioInits++
	return nil
}

func (r *fakeRuntime) SetWindowHooks(h WindowHooks) { r.hooks = h }

func (r *fakeRuntime) SetWorkingDirectory(dir string) { r.workDir = dir }

func (r *fakeRuntime) RunScript(path string) error {
	r.scripts = append(r.scripts, path)
	return r.scriptErrs[path]
}

func (r *fakeRuntime) Update() error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates++
	r.clock.advance(r.updateCost)
	return nil
}

func (r *fakeRuntime) Render() error {
	if r.renderErr != nil {
		return r.renderErr
	}
	r.renders++
	return nil
}

// fakeWindow counts lifecycle calls and records when frames are presented.
type fakeWindow struct {
	clock    *fakeClock
	opened   int
	closes   int
	clears   int
	presents []time.Duration
	fullscr  int
}

func (w *fakeWindow) OpenWindow(string, int, int) error {
	w.opened++
	return nil
}

func (w *fakeWindow) EnterFullscreen() { w.fullscr++ }
func (w *fakeWindow) ExitFullscreen()  { w.fullscr++ }
func (w *fakeWindow) Clear()           { w.clears++ }

func (w *fakeWindow) Present() error {
	w.presents = append(w.presents, w.clock.elapsed())
	return nil
}

func (w *fakeWindow) Close() { w.closes++ }

// fakeInput records forwarded events.
type fakeInput struct {
	inits     int
	forwarded []core.Event
}

func (i *fakeInput) Init()                 { i.inits++ }
func (i *fakeInput) Forward(ev core.Event) { i.forwarded = append(i.forwarded, ev) }

// harness wires all fakes together.
type harness struct {
	clock   *fakeClock
	watcher *fakeWatcher
	events  *fakeEvents
	runtime *fakeRuntime
	window  *fakeWindow
	input   *fakeInput
}

func newHarness() *harness {
	clock := newFakeClock()
	return &harness{
		clock:   clock,
		watcher: &fakeWatcher{clock: clock},
		events:  &fakeEvents{clock: clock},
		runtime: &fakeRuntime{clock: clock, scriptErrs: map[string]error{}},
		window:  &fakeWindow{clock: clock},
		input:   &fakeInput{},
	}
}

func (h *harness) deps() Deps {
	return Deps{
		Runtime: h.runtime,
		Window:  h.window,
		Events:  h.events,
		Input:   h.input,
		Watcher: h.watcher,
		Clock:   h.clock,
		Logger:  logging.Discard(),
	}
}

// loop builds a loop whose dirty flag is registered with the fake watcher.
func (h *harness) loop(opts Options) (*Loop, *watch.DirtyFlag) {
	dirty := watch.NewDirtyFlag()
	h.watcher.listener = dirty
	return NewLoop(h.deps(), opts, dirty), dirty
}
