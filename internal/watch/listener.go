package watch

import (
	"sync/atomic"
)

// Listener receives change notifications from Watcher.Update.
type Listener interface {
	HandleFileAction(n Notification)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(n Notification)

// HandleFileAction calls f(n).
func (f ListenerFunc) HandleFileAction(n Notification) {
	f(n)
}

// DirtyFlag is a Listener that records "the project changed since last
// checked". It is safe to set from one goroutine and read or clear from
// another.
type DirtyFlag struct {
	dirty atomic.Bool
}

// NewDirtyFlag returns a clear flag.
func NewDirtyFlag() *DirtyFlag {
	return &DirtyFlag{}
}

// HandleFileAction marks the flag dirty. Any action counts.
func (d *DirtyFlag) HandleFileAction(Notification) {
	d.Set()
}

// Set marks the flag dirty.
func (d *DirtyFlag) Set() {
	d.dirty.Store(true)
}

// IsSet reports whether a change arrived since the last Clear.
func (d *DirtyFlag) IsSet() bool {
	return d.dirty.Load()
}

// Clear resets the flag.
func (d *DirtyFlag) Clear() {
	d.dirty.Store(false)
}
