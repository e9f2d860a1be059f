// Package daemon ties the watcher, workflow manager, and queue store into a
// single long-running process guarded by a file lock.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gofrs/flock"

	"carousel/internal/config"
	"carousel/internal/logging"
	"carousel/internal/notifications"
	"carousel/internal/preflight"
	"carousel/internal/queue"
	"carousel/internal/watcher"
	"carousel/internal/workflow"
)

// Status reports the daemon's runtime state for IPC consumers.
type Status struct {
	Running      bool
	PID          int
	QueueDBPath  string
	LockFilePath string
	SourceDir    string
	LibraryDir   string
	Workflow     workflow.StatusSummary
}

// Daemon owns the long-running pieces of the process.
type Daemon struct {
	cfg      *config.Config
	store    *queue.Store
	logger   *slog.Logger
	workflow *workflow.Manager
	watcher  *watcher.Watcher
	notifier notifications.Service

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
}

// New constructs the daemon. The store and workflow manager are owned by
// the caller; the watcher is created here with the daemon as its sink.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger, wf *workflow.Manager) (*Daemon, error) {
	if cfg == nil || store == nil || wf == nil {
		return nil, errors.New("daemon requires config, store, and workflow manager")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "carousel.lock")
	d := &Daemon{
		cfg:      cfg,
		store:    store,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		workflow: wf,
		notifier: notifications.NewService(cfg),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.watcher = watcher.New(cfg, logger, d)
	return d, nil
}

// Start acquires the daemon lock, verifies the environment, and launches
// the workflow manager and filesystem watcher.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another instance holds %s", d.lockPath)
	}

	if failures := preflight.Failures(preflight.RunAll(ctx, d.cfg)); len(failures) > 0 {
		_ = d.lock.Unlock()
		details := make([]string, 0, len(failures))
		for _, failure := range failures {
			details = append(details, fmt.Sprintf("%s: %s", failure.Name, failure.Detail))
		}
		return fmt.Errorf("preflight failed: %s", strings.Join(details, "; "))
	}

	if err := d.workflow.Start(ctx); err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("start workflow: %w", err)
	}
	if err := d.watcher.Start(ctx); err != nil {
		d.workflow.Stop()
		_ = d.lock.Unlock()
		return fmt.Errorf("start watcher: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("daemon started",
		logging.String("lock", d.lockPath),
		logging.String("source_dir", d.cfg.Paths.SourceDir))
	if err := d.notifier.NotifyDaemonStarted(ctx); err != nil {
		d.logger.Warn("startup notification failed", logging.Error(err))
	}
	return nil
}

// Stop halts the watcher and workflow manager and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Swap(false) {
		return
	}
	d.watcher.Stop()
	d.workflow.Stop()
	if err := d.notifier.NotifyDaemonStopped(context.Background()); err != nil {
		d.logger.Warn("shutdown notification failed", logging.Error(err))
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.logger.Info("daemon stopped")
}

// Close stops the daemon if it is still running.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		QueueDBPath:  d.cfg.QueueDatabasePath(),
		LockFilePath: d.lockPath,
		SourceDir:    d.cfg.Paths.SourceDir,
		LibraryDir:   d.cfg.Paths.LibraryDir,
		Workflow:     d.workflow.Status(ctx),
	}
}
