// Package watcher reports changes to the source files of a workspace.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar"
	"github.com/fsnotify/fsnotify"

	"nga/internal/paths"
	"nga/internal/slogutil"
)

// EventType represents the type of file system event
type EventType int

const (
	EventCreate EventType = iota
	EventModify
	EventDelete
	EventRename
)

// String returns a string representation of the event type
func (e EventType) String() string {
	switch e {
	case EventCreate:
		return "create"
	case EventModify:
		return "modify"
	case EventDelete:
		return "delete"
	case EventRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Event is one change to a watched source file.
type Event struct {
	Type      EventType
	Path      string
	Timestamp time.Time
}

// ChangeHandler receives debounced batches of events.
type ChangeHandler func(events []Event)

// DefaultDebounce is the quiet period before a batch is emitted.
const DefaultDebounce = 500 * time.Millisecond

// skippedDirs are never watched.
var skippedDirs = []string{".git", ".nga", ".angular", "dist", paths.NodeModulesDir}

// Options controls which files are reported.
type Options struct {
	Debounce time.Duration
	// Extensions limits events to these file extensions; empty means all.
	Extensions []string
	// Ignore holds doublestar patterns matched against workspace-relative
	// slash paths.
	Ignore []string
	Logger *slog.Logger
}

// Watcher watches every directory below a workspace root.
type Watcher struct {
	root    string
	opts    Options
	logger  *slog.Logger
	fs      *fsnotify.Watcher
	batch   *BatchDebouncer

	mu      sync.Mutex
	watched map[string]bool
}

// New creates a watcher for root. Call Run to start delivering events.
func New(root string, opts Options, handler ChangeHandler) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		root:    root,
		opts:    opts,
		logger:  logger,
		fs:      fsw,
		watched: make(map[string]bool),
	}
	w.batch = NewBatchDebouncer(opts.Debounce, func(events []Event) {
		w.logger.Debug("Source changes detected", "events", len(events))
		if handler != nil {
			handler(events)
		}
	})
	return w, nil
}

// Run watches until ctx is cancelled. Pending events are dropped on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()
	defer w.batch.Cancel()

	if err := w.addTree(w.root); err != nil {
		return err
	}
	w.logger.Info("Watching workspace", "root", w.root, "directories", w.WatchedDirs(), "debounce", w.opts.Debounce)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", "error", err.Error())
		}
	}
}

// WatchedDirs returns the number of directories being watched.
func (w *Watcher) WatchedDirs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.watched)
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Has(fsnotify.Create) && paths.IsDir(ev.Name) {
		if err := w.addTree(ev.Name); err != nil {
			w.logger.Warn("Failed to watch new directory", "path", ev.Name, "error", err.Error())
		}
		return
	}
	if !w.IsRelevant(ev.Name) {
		return
	}

	var typ EventType
	switch {
	case ev.Has(fsnotify.Create):
		typ = EventCreate
	case ev.Has(fsnotify.Write):
		typ = EventModify
	case ev.Has(fsnotify.Remove):
		typ = EventDelete
	case ev.Has(fsnotify.Rename):
		typ = EventRename
	default:
		return
	}
	w.batch.Add(Event{Type: typ, Path: ev.Name, Timestamp: time.Now()})
}

func (w *Watcher) addTree(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.skipDir(path) {
			return filepath.SkipDir
		}
		if w.watched[path] {
			return nil
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		w.watched[path] = true
		return nil
	})
}

func (w *Watcher) skipDir(path string) bool {
	return slices.Contains(skippedDirs, filepath.Base(path)) || w.ignored(path)
}

// IsRelevant reports whether a change to path should trigger a batch.
func (w *Watcher) IsRelevant(path string) bool {
	if paths.IsNodeModules(path) || w.ignored(path) {
		return false
	}
	if len(w.opts.Extensions) == 0 {
		return true
	}
	return slices.Contains(w.opts.Extensions, strings.ToLower(filepath.Ext(path)))
}

func (w *Watcher) ignored(path string) bool {
	rel := paths.RelativeTo(path, w.root)
	for _, pattern := range w.opts.Ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
