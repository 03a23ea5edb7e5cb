// ABOUTME: Polling watcher over hook configuration files
// ABOUTME: Detects files appearing, disappearing, or changing mtime or size between polls

package config

import (
	"context"
	"os"
	"time"
)

const defaultWatchInterval = 2 * time.Second

// Watcher polls a fixed set of paths. Sessions never reload their hooks;
// the watcher serves tooling that re-checks configuration as it is edited.
// A Watcher is not safe for concurrent use.
type Watcher struct {
	paths    []string
	interval time.Duration
	stamps   map[string]fileStamp
}

// fileStamp is what a poll compares.
type fileStamp struct {
	modTime time.Time
	size    int64
}

func stampOf(info os.FileInfo) fileStamp {
	return fileStamp{modTime: info.ModTime(), size: info.Size()}
}

func (s fileStamp) equal(o fileStamp) bool {
	return s.size == o.size && s.modTime.Equal(o.modTime)
}

// NewWatcher snapshots paths and returns a watcher polling every interval
// (2s when interval is not positive).
func NewWatcher(paths []string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = defaultWatchInterval
	}
	w := &Watcher{
		paths:    paths,
		interval: interval,
		stamps:   make(map[string]fileStamp, len(paths)),
	}
	w.snapshot()
	return w
}

// Changed reports whether any path differs from the last snapshot and, if
// so, takes a new one.
func (w *Watcher) Changed() bool {
	changed := false
	for _, path := range w.paths {
		prev, existed := w.stamps[path]
		info, err := os.Stat(path)
		if err != nil {
			if existed {
				changed = true
			}
			continue
		}
		if !existed || !stampOf(info).equal(prev) {
			changed = true
		}
	}
	if changed {
		w.snapshot()
	}
	return changed
}

// Run polls until ctx is done, calling onChange after each detected change.
func (w *Watcher) Run(ctx context.Context, onChange func()) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if w.Changed() {
				onChange()
			}
		}
	}
}

func (w *Watcher) snapshot() {
	for _, path := range w.paths {
		info, err := os.Stat(path)
		if err != nil {
			delete(w.stamps, path)
			continue
		}
		w.stamps[path] = stampOf(info)
	}
}
