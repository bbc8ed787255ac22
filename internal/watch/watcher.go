package watch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// queueSize bounds the notifications buffered between two Update calls.
// Overflow collapses into a single synthetic notification per watch, which
// is enough for listeners that only care that something changed.
const queueSize = 1024

// event is an fsnotify event stamped on arrival.
type event struct {
	name string
	op   fsnotify.Op
	at   time.Time
}

// entry is one registered watch.
type entry struct {
	id       WatchID
	root     string
	dirs     map[string]struct{}
	listener Listener
	since    time.Time // events observed before this belong to an older watch
}

// Options configures a Watcher.
type Options struct {
	// Ignore lists glob patterns matched against the path relative to the
	// watch root and against the base name.
	Ignore []string
	Logger *log.Logger
	// Now overrides the clock used to stamp notifications.
	Now func() time.Time
}

// Watcher watches directory trees recursively.
type Watcher struct {
	fsw    *fsnotify.Watcher
	log    *log.Logger
	ignore []string
	now    func() time.Time

	queue    chan event
	overflow chan time.Time
	done     chan struct{}

	mu      sync.Mutex
	watches map[WatchID]*entry
	nextID  WatchID
}

// New creates a Watcher and starts its delivery goroutine.
func New(opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: cannot create watcher: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	w := &Watcher{
		fsw:      fsw,
		log:      opts.Logger,
		ignore:   opts.Ignore,
		now:      opts.Now,
		queue:    make(chan event, queueSize),
		overflow: make(chan time.Time, 1),
		done:     make(chan struct{}),
		watches:  make(map[WatchID]*entry),
	}
	go w.deliver()
	return w, nil
}

// deliver moves fsnotify events into the queue until the watcher closes.
func (w *Watcher) deliver() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			stamped := event{name: ev.Name, op: ev.Op, at: w.now()}
			select {
			case w.queue <- stamped:
			default:
				// Keep only the newest overflow time.
				select {
				case <-w.overflow:
				default:
				}
				w.overflow <- stamped.at
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watcher error", "error", err)
		}
	}
}

// AddWatch registers a recursive watch on dir. Directories created under
// dir later are watched automatically.
func (w *Watcher) AddWatch(dir string, l Listener) (WatchID, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("watch: cannot resolve %s: %w", dir, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return 0, fmt.Errorf("watch: cannot watch %s: %w", root, err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("watch: %s is not a directory", root)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.nextID++
	e := &entry{
		id:       w.nextID,
		root:     root,
		dirs:     make(map[string]struct{}),
		listener: l,
		since:    w.now(),
	}
	if err := w.addTree(e, root); err != nil {
		w.removeDirs(e)
		return 0, err
	}
	w.watches[e.id] = e
	w.log.Debug("watching project", "dir", root, "dirs", len(e.dirs), "id", e.id)
	return e.id, nil
}

// addTree watches dir and every directory below it.
func (w *Watcher) addTree(e *entry, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A directory vanishing mid-walk is not fatal.
			if errors.Is(err, fs.ErrNotExist) && path != dir {
				return nil
			}
			return fmt.Errorf("watch: cannot walk %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if path != e.root && w.ignored(e, path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: cannot watch %s: %w", path, err)
		}
		e.dirs[path] = struct{}{}
		return nil
	})
}

// RemoveWatch unregisters a watch. Unknown ids are ignored.
func (w *Watcher) RemoveWatch(id WatchID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.watches[id]
	if !ok {
		return
	}
	delete(w.watches, id)
	w.removeDirs(e)
	w.log.Debug("stopped watching project", "dir", e.root, "id", id)
}

// removeDirs drops the fsnotify registrations of e that no other watch uses.
func (w *Watcher) removeDirs(e *entry) {
	for dir := range e.dirs {
		if w.sharedLocked(dir) {
			continue
		}
		//nolint:errcheck // The directory may already be gone
		w.fsw.Remove(dir)
	}
}

// sharedLocked reports whether another registered watch covers dir.
func (w *Watcher) sharedLocked(dir string) bool {
	for _, other := range w.watches {
		if _, ok := other.dirs[dir]; ok {
			return true
		}
	}
	return false
}

// Update delivers queued notifications to their listeners. It never blocks.
func (w *Watcher) Update() {
	for {
		select {
		case ev := <-w.queue:
			w.dispatch(ev)
		case at := <-w.overflow:
			w.dispatchOverflow(at)
		default:
			return
		}
	}
}

// dispatch routes one event to every watch whose tree contains it.
func (w *Watcher) dispatch(ev event) {
	w.mu.Lock()
	var targets []*entry
	for _, e := range w.watches {
		if ev.at.Before(e.since) || !within(e.root, ev.name) || w.ignored(e, ev.name) {
			continue
		}
		if ev.op.Has(fsnotify.Create) {
			if info, err := os.Stat(ev.name); err == nil && info.IsDir() {
				if err := w.addTree(e, ev.name); err != nil {
					w.log.Warn("cannot watch new directory", "dir", ev.name, "error", err)
				}
			}
		}
		if ev.op.Has(fsnotify.Remove) || ev.op.Has(fsnotify.Rename) {
			delete(e.dirs, ev.name)
		}
		targets = append(targets, e)
	}
	w.mu.Unlock()

	for _, e := range targets {
		e.listener.HandleFileAction(Notification{
			ID:       e.id,
			Dir:      filepath.Dir(ev.name),
			Filename: filepath.Base(ev.name),
			Action:   actionFor(ev.op),
			At:       ev.at,
		})
	}
}

// dispatchOverflow tells every current watch that changes were dropped.
func (w *Watcher) dispatchOverflow(at time.Time) {
	w.mu.Lock()
	targets := make([]*entry, 0, len(w.watches))
	for _, e := range w.watches {
		if !at.Before(e.since) {
			targets = append(targets, e)
		}
	}
	w.mu.Unlock()

	w.log.Debug("file watcher queue overflowed")
	for _, e := range targets {
		e.listener.HandleFileAction(Notification{
			ID:     e.id,
			Dir:    e.root,
			Action: ActionModified,
			At:     at,
		})
	}
}

// ignored reports whether path matches one of the ignore patterns.
func (w *Watcher) ignored(e *entry, path string) bool {
	if len(w.ignore) == 0 {
		return false
	}
	rel, err := filepath.Rel(e.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)
	for _, pattern := range w.ignore {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		// "dir/*" style patterns also cover everything deeper in dir.
		if prefix, found := strings.CutSuffix(pattern, "/*"); found && strings.HasPrefix(rel, prefix+"/") {
			return true
		}
	}
	return false
}

// Close stops the watcher. Registered watches are dropped.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	w.mu.Lock()
	w.watches = make(map[WatchID]*entry)
	w.mu.Unlock()
	if err != nil {
		return fmt.Errorf("watch: close: %w", err)
	}
	return nil
}

// within reports whether path is root or lies below it.
func within(root, path string) bool {
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
