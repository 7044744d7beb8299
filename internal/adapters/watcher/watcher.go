package watcher

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/texmk/internal/core/ports"
)

// shouldSkipDirectories are directories that should not be watched.
var shouldSkipDirectories = map[string]bool{
	".git": true,
	".jj":  true,
}

// watchedExtensions are the source extensions whose saves trigger a build.
var watchedExtensions = map[string]bool{
	".tex": true, ".rnw": true, ".snw": true, ".jnw": true, ".jtexw": true,
	".bib": true, ".sty": true, ".cls": true,
}

// Watcher watches a document tree and fires a debounced callback when
// source content actually changes.
type Watcher struct {
	logger    ports.Logger
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	hashes    *hashCache
}

// New creates a watcher firing onChange after a quiet window of the given
// interval.
func New(logger ports.Logger, interval time.Duration, onChange func(paths []string)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		logger:    logger,
		fsWatcher: fsWatcher,
		debouncer: NewDebouncer(interval, onChange),
		hashes:    newHashCache(),
	}, nil
}

// Start begins watching the given root directory recursively. It returns
// after registration; events are processed until the context is done or
// Stop is called.
func (w *Watcher) Start(ctx context.Context, root string) error {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable directories are skipped, not fatal
		}
		if !d.IsDir() {
			return nil
		}
		if shouldSkipDirectories[d.Name()] {
			return fs.SkipDir
		}
		return w.fsWatcher.Add(path)
	})

	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher and releases its resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error: " + err.Error())
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
		return
	}
	if !watchedExtensions[strings.ToLower(filepath.Ext(event.Name))] {
		return
	}
	if !w.hashes.Changed(event.Name) {
		return
	}
	w.debouncer.Add(event.Name)
}
