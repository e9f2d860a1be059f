// Package identifier implements the stage that turns a newly arrived file
// into a confirmed identity with a planned library destination.
package identifier

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"carousel/internal/config"
	"carousel/internal/identification"
	"carousel/internal/identification/tmdb"
	"carousel/internal/library"
	"carousel/internal/logging"
	"carousel/internal/queue"
	"carousel/internal/services"
	"carousel/internal/stage"
)

// Identifier parses filenames, resolves them against TMDB, and records the
// planned destination on the queue item for the organizer stage.
type Identifier struct {
	cfg      *config.Config
	store    *queue.Store
	logger   *slog.Logger
	resolver *identification.Resolver
}

// NewIdentifier creates the stage handler with a real TMDB client.
func NewIdentifier(cfg *config.Config, store *queue.Store, logger *slog.Logger) (*Identifier, error) {
	client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "identifier", "initialize", "tmdb client", err)
	}
	return NewIdentifierWithClient(cfg, store, logger, client), nil
}

// NewIdentifierWithClient creates the stage handler with an injected search
// client (used for testing).
func NewIdentifierWithClient(cfg *config.Config, store *queue.Store, logger *slog.Logger, client tmdb.Searcher) *Identifier {
	stageLogger := logging.NewComponentLogger(logger, "identifier")
	return &Identifier{
		cfg:      cfg,
		store:    store,
		logger:   stageLogger,
		resolver: identification.NewResolver(client, stageLogger),
	}
}

// Prepare initializes progress messaging prior to Execute.
func (i *Identifier) Prepare(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, i.logger)
	item.InitProgress("Identifying", "Fetching metadata")
	logger.Info("starting identification",
		logging.String("source_path", item.SourcePath))
	return nil
}

// Execute parses the filename, resolves the guess with the provider, and
// stamps the item with its identity and planned destination.
func (i *Identifier) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, i.logger)

	base := filepath.Base(item.SourcePath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	guess := identification.Parse(stem)
	if !guess.Valid() {
		return services.Wrap(services.ErrParse, "identifier", "parse",
			fmt.Sprintf("no usable title in %q", base), nil)
	}

	item.SetProgress("Identifying", "Searching provider", 25)
	if err := i.store.Update(ctx, item); err != nil {
		return services.Wrap(services.ErrValidation, "identifier", "persist progress", "update queue item", err)
	}

	resolved, err := i.resolver.Resolve(ctx, guess)
	if err != nil {
		return err
	}

	dest := i.planDestination(resolved, ext)
	meta := queue.Metadata{
		Kind:           string(resolved.Kind),
		Title:          resolved.Title,
		Year:           resolved.Year,
		Season:         resolved.Season,
		Episode:        resolved.Episode,
		TMDBID:         resolved.TMDBID,
		DestinationDir: dest.Dir,
		Filename:       dest.Filename,
	}
	encoded, err := meta.Encode()
	if err != nil {
		return services.Wrap(services.ErrValidation, "identifier", "encode metadata", "serialize resolved metadata", err)
	}

	item.DisplayTitle = resolved.Title
	item.MediaKind = string(resolved.Kind)
	item.MetadataJSON = encoded
	item.Status = queue.StatusIdentified
	item.SetProgress("Identified", fmt.Sprintf("Matched %s", resolved.Title), 100)

	logger.Info("identification complete",
		logging.String("title", resolved.Title),
		logging.String("media_kind", string(resolved.Kind)),
		logging.String("destination", dest.Path()))
	return nil
}

// planDestination derives the canonical library location for resolved media.
func (i *Identifier) planDestination(resolved *identification.Resolved, ext string) library.Destination {
	if resolved.Kind == identification.MediaKindEpisode {
		return library.EpisodePath(i.cfg.TVRoot(), resolved.Title, resolved.Season, resolved.Episode, resolved.Year, ext)
	}
	return library.MoviePath(i.cfg.MoviesRoot(), resolved.Title, resolved.Year, ext)
}

// HealthCheck reports whether the stage can reach its dependencies.
func (i *Identifier) HealthCheck(ctx context.Context) stage.Health {
	const name = "identifier"
	if i.store == nil {
		return stage.Unhealthy(name, "queue store unavailable")
	}
	if i.resolver == nil {
		return stage.Unhealthy(name, "resolver unavailable")
	}
	if strings.TrimSpace(i.cfg.TMDB.APIKey) == "" || i.cfg.TMDB.APIKey == config.PlaceholderAPIKey {
		return stage.Unhealthy(name, "tmdb api key not configured")
	}
	return stage.Healthy(name)
}

var _ stage.Handler = (*Identifier)(nil)
