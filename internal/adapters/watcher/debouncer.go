// Package watcher implements the autosave build trigger: file system
// watching with debounced, content-aware change notifications.
package watcher

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid file system events into one batched
// notification per quiet window. A save in an editor typically produces
// several events for the same path within milliseconds; the consumer sees
// a single deduplicated batch once the burst settles.
type Debouncer struct {
	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	window  time.Duration
	notify  func(paths []string)
}

// NewDebouncer creates a debouncer that calls notify with the batched
// paths after each quiet window.
func NewDebouncer(window time.Duration, notify func(paths []string)) *Debouncer {
	return &Debouncer{
		pending: make(map[string]struct{}),
		window:  window,
		notify:  notify,
	}
}

// Add records a changed path and restarts the quiet window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() {
		if paths := d.drain(); len(paths) > 0 {
			d.notify(paths)
		}
	})
}

// Flush delivers any pending paths right away, synchronously. Used on
// shutdown so the last save burst is not lost.
func (d *Debouncer) Flush() {
	if paths := d.drain(); len(paths) > 0 {
		d.notify(paths)
	}
}

// drain stops the running timer and empties the pending set.
func (d *Debouncer) drain() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if len(d.pending) == 0 {
		return nil
	}
	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	clear(d.pending)
	return paths
}
