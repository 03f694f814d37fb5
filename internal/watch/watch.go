// Package watch reports changes made to the transcript file by other programs.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/bethropolis/redline/internal/logger"
	"github.com/bethropolis/redline/internal/utils"
	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is how long the file must stay quiet before a change is reported.
const DefaultDelay = 200 * time.Millisecond

// Handler is called with the watched path after a burst of changes settles.
type Handler func(path string)

// Watcher watches the directory holding one file, since editors often
// replace a file instead of writing to it in place.
type Watcher struct {
	path      string
	delay     time.Duration
	handler   Handler
	watcher   *fsnotify.Watcher
	debouncer utils.Debouncer
	wg        sync.WaitGroup
}

// New starts watching the directory of path.
func New(path string, delay time.Duration, handler Handler) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Watcher{path: abs, delay: delay, handler: handler, watcher: fsw}, nil
}

// Start runs the event loop until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.loop(ctx)
	}()
}

func (w *Watcher) loop(ctx context.Context) {
	logger.Infof("Watch: monitoring %s", w.path)
	for {
		select {
		case <-ctx.Done():
			w.debouncer.Stop()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.DebugTagf("watch", "Watch: %s %s", event.Op, event.Name)
			w.debouncer.Debounce(w.delay, func() { w.handler(w.path) })

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Errorf("Watch: watcher error: %v", err)
		}
	}
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	w.wg.Wait()
	w.debouncer.Stop()
	return err
}
