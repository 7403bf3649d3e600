// Package watch invalidates cached contexts when taxonomy data files
// change on disk, so externally edited content becomes visible without
// waiting for TTL expiry.
package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/quillframe/contexta/internal/core/ports/driven"
	"github.com/quillframe/contexta/internal/logger"
)

// DefaultDebounce batches bursts of writes into one invalidation.
const DefaultDebounce = 500 * time.Millisecond

// Watcher invalidates cache tags when a watched path changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	cache    driven.CacheStore
	tags     []string
	debounce time.Duration

	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// NewWatcher watches path and invalidates the given cache tags on change.
// A zero debounce uses DefaultDebounce.
func NewWatcher(path string, cache driven.CacheStore, tags []string, debounce time.Duration) (*Watcher, error) {
	if cache == nil || len(tags) == 0 {
		return nil, fmt.Errorf("watch: cache and tags are required")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}

	return &Watcher{
		watcher:  fw,
		cache:    cache,
		tags:     tags,
		debounce: debounce,
		done:     make(chan struct{}),
	}, nil
}

// Start begins processing file events in the background.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Close stops the watcher and waits for the event loop to drain.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}

// loop collects events and invalidates after a quiet period, so one
// save that touches a file several times costs one invalidation.
func (w *Watcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !relevantOp(event.Op) {
				continue
			}
			logger.Debug("Taxonomy data changed: %s (%s)", event.Name, event.Op)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error: %v", err)

		case <-fire:
			w.invalidate()
			timer = nil
			fire = nil
		}
	}
}

// invalidate drops every cache entry carrying the watched tags.
func (w *Watcher) invalidate() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	removed, err := w.cache.InvalidateByTags(ctx, w.tags)
	if err != nil {
		logger.Warn("Cache invalidation failed: %v", err)
		return
	}
	logger.Info("Invalidated %d cached context(s) after data change", removed)
}

// relevantOp reports whether the event can change taxonomy content.
func relevantOp(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) ||
		op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename)
}
