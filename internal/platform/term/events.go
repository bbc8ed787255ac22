package term

import (
	"io"
	"os"
	"os/signal"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/akuma-sim/internal/core"
)

// eventBuffer is how many events may wait for the next frame.
const eventBuffer = 256

// EventOptions configures an event source.
type EventOptions struct {
	// QuitChords are keys that close the window.
	QuitChords []core.KeyChord
	// Size reports the terminal size after a resize signal.
	Size   func() (width, height int, err error)
	Logger *log.Logger
	// Signals enables SIGINT/SIGTERM/SIGWINCH handling.
	Signals bool
}

// Events is the native event source: keys read from the terminal and
// process signals, queued for the game loop to poll. It implements
// sim.EventSource.
type Events struct {
	opts EventOptions
	ch   chan core.Event
	sigs chan os.Signal
	done chan struct{}
	once sync.Once
}

// NewEvents starts reading keys from r. End of input and read errors are
// reported as a quit.
func NewEvents(r io.Reader, opts EventOptions) *Events {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	e := &Events{
		opts: opts,
		ch:   make(chan core.Event, eventBuffer),
		done: make(chan struct{}),
	}

	if r != nil {
		go e.readLoop(r)
	}
	if opts.Signals {
		e.sigs = make(chan os.Signal, 4)
		notifySignals(e.sigs)
		go e.signalLoop()
	}
	return e
}

// Poll returns the next pending event without blocking.
func (e *Events) Poll() (core.Event, bool) {
	select {
	case ev := <-e.ch:
		return ev, true
	default:
		return core.Event{}, false
	}
}

// Push queues an event as if it came from the terminal.
func (e *Events) Push(ev core.Event) {
	e.send(ev)
}

// Close stops signal handling. A reader blocked on the terminal stays
// blocked until the next key, whose event is dropped.
func (e *Events) Close() {
	e.once.Do(func() {
		if e.sigs != nil {
			signal.Stop(e.sigs)
		}
		close(e.done)
	})
}

func (e *Events) send(ev core.Event) bool {
	select {
	case e.ch <- ev:
		return true
	case <-e.done:
		return false
	}
}

// translate turns quit chords into quit events.
func (e *Events) translate(ev core.Event) core.Event {
	for _, c := range e.opts.QuitChords {
		if c.Matches(ev) {
			return core.QuitEvent()
		}
	}
	return ev
}

func (e *Events) readLoop(r io.Reader) {
	buf := make([]byte, 256)
	var pending []byte

	for {
		n, err := r.Read(buf)
		if n > 0 {
			var events []core.Event
			events, pending = DecodeKeys(append(pending, buf[:n]...))
			for _, ev := range events {
				if !e.send(e.translate(ev)) {
					return
				}
			}
		}
		if err != nil {
			if err != io.EOF {
				e.opts.Logger.Warn("terminal read failed", "error", err)
			}
			e.send(core.QuitEvent())
			return
		}
	}
}

func (e *Events) signalLoop() {
	for {
		select {
		case <-e.done:
			return
		case sig := <-e.sigs:
			if isResize(sig) {
				e.resize()
				continue
			}
			e.opts.Logger.Info("signal received", "signal", sig.String())
			if !e.send(core.QuitEvent()) {
				return
			}
		}
	}
}

func (e *Events) resize() {
	if e.opts.Size == nil {
		return
	}
	w, h, err := e.opts.Size()
	if err != nil {
		e.opts.Logger.Debug("cannot read terminal size", "error", err)
		return
	}
	e.send(core.ResizeEvent(w, h))
}
