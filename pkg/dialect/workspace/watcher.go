package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	// Root is the directory to watch recursively.
	Root string
	// DebounceInterval is the quiet period before changes are delivered.
	DebounceInterval time.Duration
	// Documents selects which files count as documents.
	Documents DocumentOptions
}

// DefaultWatcherConfig returns the default configuration for root.
func DefaultWatcherConfig(root string) *WatcherConfig {
	return &WatcherConfig{
		Root:             root,
		DebounceInterval: 200 * time.Millisecond,
		Documents:        DefaultDocumentOptions(),
	}
}

// ChangeFunc receives the absolute paths changed during one debounce
// window, sorted.
type ChangeFunc func(paths []string) error

// Watcher invalidates Store entries when documents change on disk and
// reports the changed paths in batches.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   *WatcherConfig
	store    *Store
	debounce *Debouncer

	mu      sync.Mutex
	running bool
}

// NewWatcher creates a watcher. store may be nil.
func NewWatcher(config *WatcherConfig, store *Store, logger *slog.Logger) (*Watcher, error) {
	if config == nil {
		return nil, fmt.Errorf("watcher config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:  fw,
		logger:   logger,
		config:   config,
		store:    store,
		debounce: NewDebouncer(config.DebounceInterval),
	}, nil
}

// Watch blocks until ctx is cancelled, delivering batches of changed
// documents to onChange. The watcher is closed when Watch returns.
func (w *Watcher) Watch(ctx context.Context, onChange ChangeFunc) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.debounce.Stop()
		_ = w.watcher.Close()
	}()

	root, err := filepath.Abs(w.config.Root)
	if err != nil {
		return err
	}
	if err := w.addTree(root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}

	w.logger.Info("document watcher started",
		"root", root,
		"debounce_ms", w.config.DebounceInterval.Milliseconds(),
	)

	deliver := func(paths []string) {
		for _, p := range paths {
			if w.store != nil {
				w.store.Invalidate(p)
			}
		}
		w.logger.Debug("documents changed", "count", len(paths))
		if onChange == nil {
			return
		}
		if err := onChange(paths); err != nil {
			w.logger.Error("change handler failed", "error", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("document watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			w.handle(event, deliver)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("document watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event, deliver func([]string)) {
	if event.Op == fsnotify.Chmod {
		return
	}

	// New directories are watched as they appear.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !slices.Contains(w.config.Documents.SkipDirs, filepath.Base(event.Name)) {
				if err := w.addTree(event.Name); err != nil {
					w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
				}
			}
			return
		}
	}

	if !hasExtension(event.Name, w.config.Documents.Extensions) {
		return
	}

	w.logger.Debug("document event", "path", event.Name, "op", event.Op.String())
	w.debounce.Add(event.Name, deliver)
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && slices.Contains(w.config.Documents.SkipDirs, d.Name()) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

// Debouncer collects keys and delivers them as one batch once no new key
// has arrived for the interval.
type Debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
	flush   func([]string)
	stopped bool

	inflight sync.WaitGroup
}

// NewDebouncer creates a debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval, pending: make(map[string]struct{})}
}

// Add records key and restarts the quiet period. flush replaces any
// previously registered callback.
func (d *Debouncer) Add(key string, flush func([]string)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending[key] = struct{}{}
	d.flush = flush

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	batch := make([]string, 0, len(d.pending))
	for k := range d.pending {
		batch = append(batch, k)
	}
	d.pending = make(map[string]struct{})
	flush := d.flush
	d.inflight.Add(1)
	d.mu.Unlock()
	defer d.inflight.Done()

	slices.Sort(batch)
	if flush != nil {
		flush(batch)
	}
}

// Stop cancels any pending delivery and waits for a batch already being
// delivered. Later Add calls are ignored. Stop must not be called from a
// flush callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = make(map[string]struct{})
	d.flush = nil
	d.mu.Unlock()

	d.inflight.Wait()
}
