// Package input translates native events into the hosted runtime's input
// representation.
package input

import (
	"github.com/vovakirdan/akuma-sim/internal/core"
)

// Sink is the runtime side of input delivery.
type Sink interface {
	KeyboardEvent(key string, mods []string, down bool)
	ResizeEvent(width, height int)
}

// Framer owns the drawable frame. FrameSize fits the frame to the
// terminal and reports its size; ok is false while there is no frame.
type Framer interface {
	FrameSize() (width, height int, ok bool)
}

// Adapter forwards native events to a Sink. It implements
// sim.InputForwarder.
type Adapter struct {
	sink  Sink
	frame Framer
	ready bool
}

// NewAdapter creates an adapter delivering to sink. Resizes are reported
// with the size of frame; a nil frame passes the terminal size through.
func NewAdapter(sink Sink, frame Framer) *Adapter {
	return &Adapter{sink: sink, frame: frame}
}

// Init prepares the adapter for a fresh runtime context. Events forwarded
// before Init are dropped.
func (a *Adapter) Init() {
	a.ready = true
}

// Forward delivers ev. Events without a runtime meaning are dropped.
func (a *Adapter) Forward(ev core.Event) {
	if !a.ready || a.sink == nil {
		return
	}

	switch ev.Type {
	case core.EventKey:
		// Terminals report presses only.
		a.sink.KeyboardEvent(ev.KeyName(), ev.Mods.Names(), true)
	case core.EventResize:
		w, h := ev.Width, ev.Height
		if a.frame != nil {
			var ok bool
			if w, h, ok = a.frame.FrameSize(); !ok {
				return
			}
		}
		a.sink.ResizeEvent(w, h)
	}
}
