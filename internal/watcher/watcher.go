// Package watcher monitors the source directory tree for newly arrived
// video files and enqueues them once they have finished being written.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"carousel/internal/config"
	"carousel/internal/fileutil"
	"carousel/internal/logging"
	"carousel/internal/queue"
)

// Sink receives settled video files. The daemon implements it by enqueueing
// the path for identification.
type Sink interface {
	AddFile(ctx context.Context, path string) (*queue.Item, error)
}

// Watcher tails filesystem events under the configured source directory.
type Watcher struct {
	cfg    *config.Config
	logger *slog.Logger
	sink   Sink

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	pending sync.WaitGroup
}

// New constructs a watcher. Start must be called before events flow.
func New(cfg *config.Config, logger *slog.Logger, sink Sink) *Watcher {
	return &Watcher{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "watcher"),
		sink:   sink,
	}
}

// Start begins monitoring the source tree. When scan-on-start is enabled,
// files already present are enqueued before new events arrive.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw != nil {
		return errors.New("watcher already running")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := w.watchTree(fsw, w.cfg.Paths.SourceDir); err != nil {
		_ = fsw.Close()
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.fsw = fsw
	w.cancel = cancel

	if w.cfg.Watcher.ScanOnStart {
		w.Scan(runCtx, w.cfg.Paths.SourceDir)
	}

	w.wg.Add(1)
	go w.run(runCtx, fsw)
	return nil
}

// Stop halts event processing and waits for in-flight file handling.
func (w *Watcher) Stop() {
	w.mu.Lock()
	fsw := w.fsw
	cancel := w.cancel
	w.fsw = nil
	w.cancel = nil
	w.mu.Unlock()

	if fsw == nil {
		return
	}
	cancel()
	_ = fsw.Close()
	w.wg.Wait()
	w.pending.Wait()
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, fsw, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("filesystem watch error", logging.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, fsw *fsnotify.Watcher, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		// Transient files vanish between the event and the stat.
		return
	}

	if info.IsDir() {
		if err := w.watchTree(fsw, event.Name); err != nil {
			w.logger.Warn("failed to watch new directory",
				logging.String("path", event.Name),
				logging.Error(err))
		}
		// Files may have landed before the watch was in place.
		w.Scan(ctx, event.Name)
		return
	}

	w.handleFile(ctx, event.Name)
}

// handleFile settles and enqueues one candidate path. Settling runs in its
// own goroutine so a slow copy never blocks event dispatch.
func (w *Watcher) handleFile(ctx context.Context, path string) {
	if !w.cfg.IsVideoExtension(filepath.Ext(path)) {
		w.logger.Debug("skipping non-video file", logging.String("path", path))
		return
	}

	w.pending.Add(1)
	go func() {
		defer w.pending.Done()

		settleCtx, cancel := context.WithTimeout(ctx, w.cfg.SettleTimeout())
		defer cancel()

		size, err := fileutil.WaitForSettle(settleCtx, path, w.cfg.SettleInterval())
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				w.logger.Warn("file never settled",
					logging.String("path", path),
					logging.Error(err))
			}
			return
		}

		item, err := w.sink.AddFile(ctx, path)
		if err != nil {
			w.logger.Error("failed to enqueue file",
				logging.String("path", path),
				logging.Error(err))
			return
		}
		if item == nil {
			return
		}
		w.logger.Info("file enqueued",
			logging.String("path", path),
			logging.Int64("size_bytes", size),
			logging.Int64(logging.FieldItemID, item.ID))
	}()
}

// Scan sweeps dir for video files already on disk and runs each through the
// settle-and-enqueue path.
func (w *Watcher) Scan(ctx context.Context, dir string) {
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if strings.HasPrefix(entry.Name(), ".") && path != dir {
				return fs.SkipDir
			}
			return nil
		}
		w.handleFile(ctx, path)
		return nil
	})
	if err != nil {
		w.logger.Warn("source scan failed",
			logging.String("dir", dir),
			logging.Error(err))
	}
}

// watchTree registers dir and every subdirectory with the fsnotify watcher.
func (w *Watcher) watchTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", path, err)
		}
		if !entry.IsDir() {
			return nil
		}
		if strings.HasPrefix(entry.Name(), ".") && path != dir {
			return fs.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
