// Package watch drops cached tables when their files change on disk, so a
// long-running server picks up edits made outside it.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/tenderlist/internal/logging"
	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

// Invalidator forgets cached tables.
type Invalidator interface {
	Invalidate(ids ...types.TableID)
}

// Stats counts watcher activity.
type Stats struct {
	Events        int
	Invalidations int
	Errors        int
	LastTable     types.TableID
	LastEventTime time.Time
}

// Watcher watches the config directory for changes to table files.
type Watcher struct {
	dir     string
	target  Invalidator
	log     *zap.Logger
	watcher *fsnotify.Watcher

	mu    sync.Mutex
	stats Stats
}

// New starts watching dir, creating it if needed. Events are delivered once
// Run is called.
func New(dir string, target Invalidator, log *zap.Logger) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	return &Watcher{
		dir:     dir,
		target:  target,
		log:     logging.OrNop(log),
		watcher: fw,
	}, nil
}

// Run delivers events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()
	w.log.Debug("watching config directory", zap.String("dir", w.dir))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
			w.log.Warn("config watcher error", zap.Error(err))
		}
	}
}

// Close stops the underlying watcher. It is safe to call after Run.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Stats returns a copy of the activity counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	id, ok := tableFor(event.Name)
	if !ok {
		return
	}

	w.target.Invalidate(id)

	w.mu.Lock()
	w.stats.Events++
	w.stats.Invalidations++
	w.stats.LastTable = id
	w.stats.LastEventTime = time.Now()
	w.mu.Unlock()

	w.log.Debug("table file changed", zap.String("table", string(id)), zap.String("op", event.Op.String()))
}

// tableFor maps a file path to the table stored in it.
func tableFor(path string) (types.TableID, bool) {
	base := filepath.Base(path)
	for _, id := range types.StandardTables {
		if id.FileName() == base {
			return id, true
		}
	}
	return "", false
}
