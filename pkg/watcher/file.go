package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FileWatcher calls a handler after a file settles following changes. It
// watches the parent directory so that replaced or recreated files are seen.
type FileWatcher struct {
	path      string
	fs        *fsnotify.Watcher
	debouncer *Debouncer
	onChange  func()
	logger    *zap.Logger

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// NewFileWatcher prepares a watcher for path. Call Start to begin watching.
func NewFileWatcher(path string, debounce time.Duration, logger *zap.Logger, onChange func()) (*FileWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	return &FileWatcher{
		path:      abs,
		fs:        fs,
		debouncer: NewDebouncer(debounce),
		onChange:  onChange,
		logger:    logger,
		done:      make(chan struct{}),
	}, nil
}

// Path returns the watched file.
func (w *FileWatcher) Path() string {
	return w.path
}

// Start begins watching. It returns once the watch is registered; events are
// handled on a background goroutine until ctx is done or Close is called.
func (w *FileWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := w.fs.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.running = true
	go w.loop(ctx)
	return nil
}

// Close stops watching and waits for the event loop to exit.
func (w *FileWatcher) Close() error {
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()

	w.debouncer.Cancel()
	err := w.fs.Close()
	if running {
		<-w.done
	}
	return err
}

func (w *FileWatcher) loop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			w.debouncer.Cancel()
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", zap.String("path", w.path), zap.Error(err))
		}
	}
}

func (w *FileWatcher) handle(event fsnotify.Event) {
	// SQLite journal files sit next to the database and change with it.
	name := filepath.Clean(event.Name)
	if name != w.path && name != w.path+"-journal" && name != w.path+"-wal" {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	w.logger.Debug("watched file changed", zap.String("path", name), zap.String("op", event.Op.String()))
	w.debouncer.Trigger(w.onChange)
}
