// Package organizer implements the stage that relocates identified files to
// their planned library destination.
package organizer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"carousel/internal/config"
	"carousel/internal/library"
	"carousel/internal/logging"
	"carousel/internal/notifications"
	"carousel/internal/queue"
	"carousel/internal/services"
	"carousel/internal/stage"
)

// MoveFunc relocates a file; injectable for tests.
type MoveFunc func(sourcePath, targetPath string) error

// Organizer moves identified files into the final library location.
type Organizer struct {
	cfg      *config.Config
	store    *queue.Store
	logger   *slog.Logger
	notifier notifications.Service
	move     MoveFunc
}

// NewOrganizer constructs the organizer stage handler using default dependencies.
func NewOrganizer(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Organizer {
	return NewOrganizerWithDependencies(cfg, store, logger, notifications.NewService(cfg), library.MoveFile)
}

// NewOrganizerWithDependencies allows injecting collaborators (used in tests).
func NewOrganizerWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, notifier notifications.Service, move MoveFunc) *Organizer {
	if move == nil {
		move = library.MoveFile
	}
	return &Organizer{
		cfg:      cfg,
		store:    store,
		logger:   logging.NewComponentLogger(logger, "organizer"),
		notifier: notifier,
		move:     move,
	}
}

// Prepare initializes progress messaging prior to Execute.
func (o *Organizer) Prepare(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, o.logger)
	item.InitProgress("Organizing", "Preparing library move")
	item.ErrorMessage = ""
	logger.Info("starting organization",
		logging.String("source_path", item.SourcePath),
		logging.String("title", strings.TrimSpace(item.DisplayTitle)))
	return nil
}

// Execute moves the file to the destination planned by the identifier and
// records the final library path on the item.
func (o *Organizer) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, o.logger)

	meta := queue.MetadataFromJSON(item.MetadataJSON)
	if !meta.Valid() {
		return services.Wrap(services.ErrValidation, "organizer", "validate inputs",
			"item has no planned destination; identification must run first", nil)
	}

	target := meta.DestinationPath()
	item.SetProgress("Organizing", fmt.Sprintf("Moving to %s", target), 25)
	if err := o.store.Update(ctx, item); err != nil {
		logger.Warn("failed to persist progress", logging.Error(err))
	}

	if err := o.move(item.SourcePath, target); err != nil {
		return services.Wrap(services.ErrMove, "organizer", "move file",
			fmt.Sprintf("move %s to %s", item.SourcePath, target), err)
	}

	item.FinalFile = target
	item.Status = queue.StatusCompleted
	item.SetProgress("Completed", fmt.Sprintf("Organized as %s", filepath.Base(target)), 100)

	logger.Info("organization complete",
		logging.String("final_file", target))

	if o.notifier != nil {
		if err := o.notifier.NotifyFileOrganized(ctx, item.DisplayTitle, target); err != nil {
			logger.Warn("organized notification failed", logging.Error(err))
		}
	}
	return nil
}

// HealthCheck verifies the library roots are present and writable.
func (o *Organizer) HealthCheck(ctx context.Context) stage.Health {
	const name = "organizer"
	if o.store == nil {
		return stage.Unhealthy(name, "queue store unavailable")
	}
	for _, root := range []string{o.cfg.MoviesRoot(), o.cfg.TVRoot()} {
		info, err := os.Stat(root)
		if err != nil {
			return stage.Unhealthy(name, fmt.Sprintf("library root %s: %v", root, err))
		}
		if !info.IsDir() {
			return stage.Unhealthy(name, fmt.Sprintf("library root %s is not a directory", root))
		}
	}
	return stage.Healthy(name)
}

var _ stage.Handler = (*Organizer)(nil)
