package config

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher reloads a file after it changes and hands the fresh value to
// every registered handler. The file's directory is watched so editors that
// replace the file on save are seen too.
type Watcher[T any] struct {
	path     string
	debounce time.Duration
	loader   func(path string) (T, error)
	onError  func(error)
	logger   *slog.Logger

	mu       sync.Mutex
	handlers map[int]func(T)
	nextID   int
	watcher  *fsnotify.Watcher
	cancel   context.CancelFunc
	done     chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption[T any] func(*Watcher[T])

// WithDebounce sets how long the file must be quiet before reloading.
func WithDebounce[T any](d time.Duration) WatcherOption[T] {
	return func(w *Watcher[T]) {
		w.debounce = d
	}
}

// WithErrorHandler sets a callback for load errors. Errors are always logged.
func WithErrorHandler[T any](handler func(error)) WatcherOption[T] {
	return func(w *Watcher[T]) {
		w.onError = handler
	}
}

// NewWatcher creates a watcher for path. loader runs on every change.
func NewWatcher[T any](path string, loader func(path string) (T, error), logger *slog.Logger, opts ...WatcherOption[T]) *Watcher[T] {
	w := &Watcher[T]{
		path:     filepath.Clean(path),
		debounce: defaultDebounce,
		loader:   loader,
		logger:   logger,
		handlers: make(map[int]func(T)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// OnReload registers a handler and returns a function that removes it.
func (w *Watcher[T]) OnReload(handler func(T)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextID
	w.nextID++
	w.handlers[id] = handler
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.handlers, id)
	}
}

// Start begins watching until ctx is cancelled or Stop is called.
func (w *Watcher[T]) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher != nil {
		return errors.New("config watcher already started")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	w.watcher = fw
	w.cancel = cancel
	w.done = make(chan struct{})
	w.logger.Info("Config watcher started", "path", w.path, "debounce", w.debounce)
	go w.watch(ctx, fw, w.done)
	return nil
}

// Stop stops watching and waits for the watch loop to exit.
func (w *Watcher[T]) Stop() error {
	w.mu.Lock()
	fw, cancel, done := w.watcher, w.cancel, w.done
	w.watcher, w.cancel, w.done = nil, nil, nil
	w.mu.Unlock()
	if fw == nil {
		return nil
	}
	cancel()
	err := fw.Close()
	<-done
	return err
}

func (w *Watcher[T]) watch(ctx context.Context, fw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("Config watcher stopped")
			return

		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("Config file change detected", "op", ev.Op.String())
			timer.Reset(w.debounce)

		case <-timer.C:
			w.reload()

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Config watcher error", "error", err)
		}
	}
}

// reload loads the file and notifies handlers with the same snapshot.
func (w *Watcher[T]) reload() {
	cfg, err := w.loader(w.path)
	if err != nil {
		w.logger.Warn("Failed to reload config", "path", w.path, "error", err)
		if w.onError != nil {
			w.onError(err)
		}
		return
	}

	w.mu.Lock()
	handlers := make([]func(T), 0, len(w.handlers))
	for _, h := range w.handlers {
		handlers = append(handlers, h)
	}
	w.mu.Unlock()

	w.logger.Info("Config reloaded", "path", w.path, "handlers", len(handlers))
	for _, h := range handlers {
		h(cfg)
	}
}
