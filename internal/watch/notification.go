// Package watch observes project directory trees for changes.
//
// A Watcher wraps fsnotify. Notifications are timestamped as fsnotify
// delivers them on its own goroutine and queued; Update drains the queue on
// the caller's goroutine and invokes each watch's Listener synchronously.
package watch

import (
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchID identifies a registered watch.
type WatchID uint64

// Action is the kind of change a notification reports.
type Action int

const (
	ActionAdd Action = iota + 1
	ActionDelete
	ActionModified
	ActionRenamed
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionDelete:
		return "delete"
	case ActionModified:
		return "modified"
	case ActionRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// Notification describes one change inside a watched tree.
type Notification struct {
	ID       WatchID
	Dir      string // Directory containing the changed entry
	Filename string // Base name of the changed entry
	Action   Action
	At       time.Time // When the change was observed
}

// actionFor maps an fsnotify operation to an Action.
func actionFor(op fsnotify.Op) Action {
	switch {
	case op.Has(fsnotify.Create):
		return ActionAdd
	case op.Has(fsnotify.Remove):
		return ActionDelete
	case op.Has(fsnotify.Rename):
		return ActionRenamed
	default:
		return ActionModified
	}
}
