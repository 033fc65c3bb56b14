// Package watcher reports changes to template files so cached templates can
// be reloaded without restarting the server.
package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for more events before
// delivering a batch.
const DefaultDebounce = 50 * time.Millisecond

// Event represents a file change detected by the watcher.
type Event struct {
	Path string // Absolute path of the changed file
	Kind string // "write", "create", "rename" or "remove"
}

// Watcher monitors a set of files for changes.
type Watcher struct {
	files    map[string]bool
	onChange func([]Event)
	debounce time.Duration
	onError  func(error)

	fsw  *fsnotify.Watcher
	done chan struct{}
	once sync.Once
}

// New creates a Watcher for the given files. onChange receives each batch
// of events for those files.
func New(files []string, onChange func([]Event)) *Watcher {
	set := make(map[string]bool, len(files))
	for _, f := range files {
		if abs, err := filepath.Abs(f); err == nil {
			set[abs] = true
		}
	}
	return &Watcher{
		files:    set,
		onChange: onChange,
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}
}

// OnError sets a callback for errors reported by the underlying watcher.
// Without one, errors are dropped.
func (w *Watcher) OnError(fn func(error)) {
	w.onError = fn
}

// Start begins watching. It watches the parent directory of each file,
// which also catches saves that rename a temp file over the original.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fsw = fsw

	dirs := map[string]bool{}
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			w.fsw = nil
			return err
		}
	}

	go w.loop()
	return nil
}

// Stop terminates the watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		if w.fsw == nil {
			close(w.done)
			return
		}
		w.fsw.Close()
		<-w.done
	})
}

func (w *Watcher) loop() {
	defer close(w.done)

	var (
		pending []Event
		timer   *time.Timer
		fire    <-chan time.Time
	)
	flush := func() {
		if len(pending) > 0 {
			w.onChange(pending)
			pending = nil
		}
		fire = nil
	}

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				flush()
				return
			}
			e, relevant := w.convert(ev)
			if !relevant {
				continue
			}
			pending = append(pending, e)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			flush()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				flush()
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

func (w *Watcher) convert(ev fsnotify.Event) (Event, bool) {
	abs, err := filepath.Abs(ev.Name)
	if err != nil || !w.files[abs] {
		return Event{}, false
	}
	kind := opKind(ev.Op)
	if kind == "" {
		return Event{}, false
	}
	return Event{Path: abs, Kind: kind}, true
}

// opKind names the operation, or "" for operations that do not change
// content (chmod).
func opKind(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Write != 0:
		return "write"
	case op&fsnotify.Create != 0:
		return "create"
	case op&fsnotify.Rename != 0:
		return "rename"
	case op&fsnotify.Remove != 0:
		return "remove"
	}
	return ""
}
