// Package watch implements the debounced filesystem watcher that keeps a
// graph fresh after the initial build, classifying each event and handing
// it to scoped incremental-update callbacks instead of a full rebuild.
package watch

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MonsieurBarti/code-graph-ai/internal/lang"
	"github.com/MonsieurBarti/code-graph-ai/internal/walker"
)

// DebounceWindow is how long the watcher waits after the last event for a
// path before dispatching its classification.
const DebounceWindow = 75 * time.Millisecond

var configFilenames = map[string]bool{
	"tsconfig.json":      true,
	"package.json":       true,
	"pnpm-workspace.yaml": true,
}

// EventKind is the outcome of classify_event.
type EventKind int

const (
	EventDropped EventKind = iota
	EventConfigChanged
	EventModified
	EventDeleted
)

// Classify applies the hardcoded-exclude, gitignore, config-filename, and
// source-extension rules to a raw filesystem path, folding Created into
// Modified since the update pipeline is idempotent on remove-and-reparse.
func Classify(root string, w *walker.Walker, path string) EventKind {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return EventDropped
	}
	rel = filepath.ToSlash(rel)

	if walker.IsAlwaysExcludedAncestor(rel) {
		return EventDropped
	}
	if w != nil && w.IsExcluded(rel) {
		return EventDropped
	}

	base := filepath.Base(rel)
	if configFilenames[base] {
		return EventConfigChanged
	}

	if _, ok := lang.ForPath(path); !ok {
		return EventDropped
	}

	if _, err := os.Stat(path); err != nil {
		return EventDeleted
	}
	return EventModified
}

// Handler receives classified, debounced events. Implementations perform the
// scoped graph mutation described for each kind; ConfigChanged should
// trigger a full rebuild of the owning server core instead of an in-place
// mutation.
type Handler interface {
	OnConfigChanged()
	OnModified(path string)
	OnDeleted(path string)
}

// Watcher wraps an fsnotify.Watcher with per-path debounce timers and the
// classification rules above.
type Watcher struct {
	root    string
	fsw     *fsnotify.Watcher
	walker  *walker.Walker
	handler Handler

	mu     sync.Mutex
	timers map[string]*time.Timer

	stopOnce sync.Once
	done     chan struct{}
}

// New creates a Watcher rooted at root, recursively adding every
// non-excluded directory to the underlying fsnotify watch set.
func New(root string, w *walker.Walker, handler Handler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &Watcher{
		root: root, fsw: fsw, walker: w, handler: handler,
		timers: make(map[string]*time.Timer),
		done:   make(chan struct{}),
	}

	if err := watcher.addDirs(root); err != nil {
		fsw.Close()
		return nil, err
	}

	go watcher.loop()
	return watcher, nil
}

func (w *Watcher) addDirs(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr == nil && rel != "." {
			rel = filepath.ToSlash(rel)
			if walker.IsAlwaysExcludedAncestor(rel) || w.walker.IsExcluded(rel) {
				return filepath.SkipDir
			}
		}
		return w.fsw.Add(path)
	})
}

// Stop shuts down the event loop and cancels any pending debounce timers.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		for _, t := range w.timers {
			t.Stop()
		}
		w.timers = map[string]*time.Timer{}
		w.mu.Unlock()
		w.fsw.Close()
	})
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.debounce(ev.Name)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) debounce(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(DebounceWindow, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.dispatch(path)
	})
}

func (w *Watcher) dispatch(path string) {
	switch Classify(w.root, w.walker, path) {
	case EventConfigChanged:
		w.handler.OnConfigChanged()
	case EventModified:
		w.handler.OnModified(path)
	case EventDeleted:
		w.handler.OnDeleted(path)
	case EventDropped:
	}
}
