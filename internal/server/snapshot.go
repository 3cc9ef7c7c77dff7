package server

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/TheCing/uma-parent-viewer/internal/enrich"
	"github.com/TheCing/uma-parent-viewer/internal/metrics"
)

// Reload waits this long after the last filesystem event before
// re-reading the data file, so a pipeline rewrite settles first.
const debounceWindow = 500 * time.Millisecond

// Snapshot holds the enriched veteran records the viewer serves.
// Load swaps the records atomically; a failed reload keeps the
// previous records in place.
type Snapshot struct {
	path string
	log  *slog.Logger

	mu       sync.RWMutex
	veterans []map[string]any
	loadedAt time.Time
}

// NewSnapshot points at an enriched data file without reading it.
func NewSnapshot(path string, log *slog.Logger) *Snapshot {
	return &Snapshot{path: path, log: log}
}

// Path returns the data file the snapshot reads from.
func (s *Snapshot) Path() string { return s.path }

// Load reads the data file and swaps in the new records.
func (s *Snapshot) Load() error {
	veterans, err := enrich.ReadVeteransFile(s.path)
	if err != nil {
		return fmt.Errorf("load %s: %w", s.path, err)
	}
	s.mu.Lock()
	s.veterans = veterans
	s.loadedAt = time.Now()
	s.mu.Unlock()
	metrics.SetVeteransLoaded(len(veterans))
	s.log.Info("viewer: snapshot loaded", "path", s.path, "veterans", len(veterans))
	return nil
}

// Veterans returns the current records. Callers must not mutate them.
func (s *Snapshot) Veterans() []map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.veterans
}

// Veteran returns the record at index, if it exists.
func (s *Snapshot) Veteran(index int) (map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.veterans) {
		return nil, false
	}
	return s.veterans[index], true
}

// Count returns the number of loaded records.
func (s *Snapshot) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.veterans)
}

// LoadedAt returns when the current records were read.
func (s *Snapshot) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Watch reloads the snapshot whenever the data file changes. The
// pipeline replaces the file rather than appending to it, so the watch
// covers the parent directory and reacts to create and rename as well
// as write. The returned stop function blocks until the loop exits and
// must be called exactly once.
func (s *Snapshot) Watch(ctx context.Context) (func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(s.path)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	go s.watchLoop(ctx, w, stopCh, doneCh)
	stop := func() {
		close(stopCh)
		<-doneCh
		_ = w.Close()
	}
	return stop, nil
}

func (s *Snapshot) watchLoop(ctx context.Context, w *fsnotify.Watcher, stopCh, doneCh chan struct{}) {
	defer close(doneCh)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	var pending time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(s.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.Now()
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.log.Warn("viewer: watch error", "error", err)
		case <-tick.C:
			if pending.IsZero() || time.Since(pending) < debounceWindow {
				continue
			}
			pending = time.Time{}
			if err := s.Load(); err != nil {
				s.log.Warn("viewer: reload failed", "error", err)
				continue
			}
			metrics.IncSnapshotReload()
		}
	}
}
