package host

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// maxPendingInput bounds the queue between two updates; older events are
// dropped first.
const maxPendingInput = 256

type inputEvent struct {
	resize        bool
	key           string
	mods          []string
	down          bool
	width, height int
}

// KeyboardEvent queues a key for the next update. Keys are named as in
// core.Event.KeyName; mods are "ctrl", "alt" and "shift".
func (r *Runtime) KeyboardEvent(key string, mods []string, down bool) {
	r.enqueue(inputEvent{key: key, mods: mods, down: down})
}

// ResizeEvent queues a resize for the next update. The size is the frame
// size; the drawable size itself is set by the window.
func (r *Runtime) ResizeEvent(width, height int) {
	r.enqueue(inputEvent{resize: true, width: width, height: height})
}

func (r *Runtime) enqueue(ev inputEvent) {
	if r.L == nil {
		return
	}
	if len(r.pending) >= maxPendingInput {
		r.pending = r.pending[1:]
	}
	r.pending = append(r.pending, ev)
}

// dispatchInput delivers queued input to the script callbacks.
func (r *Runtime) dispatchInput() error {
	pending := r.pending
	r.pending = nil

	for _, ev := range pending {
		if ev.resize {
			if err := r.call(r.onResize, lua.LNumber(ev.width), lua.LNumber(ev.height)); err != nil {
				return fmt.Errorf("host: resize callback: %w", err)
			}
			continue
		}

		mods := r.L.CreateTable(len(ev.mods), 0)
		for _, m := range ev.mods {
			mods.Append(lua.LString(m))
		}
		if err := r.call(r.onKey, lua.LString(ev.key), mods, lua.LBool(ev.down)); err != nil {
			return fmt.Errorf("host: key callback: %w", err)
		}
	}
	return nil
}
