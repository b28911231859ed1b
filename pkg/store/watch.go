package store

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aurelia-labs/moodvault/pkg/core"
)

const eventBufferSize = 100

// Watch starts a filesystem watcher over the store tree and emits an event
// for every document whose root-relative slash path matches the doublestar
// pattern (e.g. "users/*/checkins/*.json"; an empty pattern matches every
// document). The channel is closed when ctx is cancelled. Temp files and
// the .git directory are ignored.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "**/*.json"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern: %s", pattern)
	}

	events := make(chan core.Event, eventBufferSize)
	w := newWatchWorker(s, pattern, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

type watchWorker struct {
	*worker.BaseWorker
	store     *Store
	pattern   string
	events    chan<- core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
}

func newWatchWorker(store *Store, pattern string, events chan<- core.Event) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("store-watcher"),
		store:      store,
		pattern:    pattern,
		events:     events,
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	w.watcher = watcher

	if err := w.addTree(w.store.root); err != nil {
		_ = watcher.Close()
		return err
	}
	w.debouncer = newDebouncer(50 * time.Millisecond)
	w.store.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

// addTree registers a directory and everything below it with the watcher,
// skipping .git. Walking the whole subtree matters for directories created
// in one MkdirAll burst: only the topmost one produces a Create event.
func (w *watchWorker) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			panicErr := fmt.Errorf("watcher panic: %v", recovered)
			if w.store.logger.Enabled(ctx, slog.LevelDebug) {
				w.store.logger.Error("watcher panic", "error", panicErr, "stack", string(debug.Stack()))
			} else {
				w.store.logger.Error("watcher panic", "error", panicErr)
			}
		}
	}()
	defer w.store.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.eventLoop(ctx)

	// Drain in-flight debounce timers before closing the channel so no
	// emission races the close.
	w.debouncer.stopAndWait(5 * time.Second)
	close(w.events)

	return err
}

func (w *watchWorker) eventLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processEvent(ctx, event)

		case werr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.store.logger.Error("fsnotify error", "error", werr)
		}
	}
}

func (w *watchWorker) processEvent(ctx context.Context, event fsnotify.Event) {
	// New tenant directories appear at runtime and need watching too.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if filepath.Base(event.Name) != ".git" {
				_ = w.addTree(event.Name)
			}
			return
		}
	}

	rel, ok := w.store.relativeDocumentPath(event.Name, w.pattern)
	if !ok {
		return
	}

	eType := mapEventType(event)
	if eType == "" {
		return
	}

	w.debouncer.add(core.Event{
		Type:      eType,
		Path:      rel,
		Timestamp: time.Now().Unix(),
	}, func(e core.Event) {
		select {
		case w.events <- e:
		case <-ctx.Done():
		}
	})
}

// relativeDocumentPath maps an absolute filesystem path to a root-relative
// slash path, reporting whether it names a document the watcher should
// surface.
func (s *Store) relativeDocumentPath(name, pattern string) (string, bool) {
	base := filepath.Base(name)
	if strings.HasPrefix(base, TempFilePrefix) {
		return "", false
	}
	rel, err := filepath.Rel(s.root, name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	for _, segment := range strings.Split(rel, "/") {
		if segment == ".git" {
			return "", false
		}
	}
	if !strings.HasSuffix(strings.ToLower(rel), ".json") {
		return "", false
	}
	if match, err := doublestar.Match(pattern, rel); err != nil || !match {
		return "", false
	}
	return rel, true
}

func mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	default:
		return ""
	}
}
