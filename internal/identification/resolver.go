package identification

import (
	"context"
	"fmt"
	"strings"

	"log/slog"

	"carousel/internal/identification/tmdb"
	"carousel/internal/logging"
	"carousel/internal/services"
)

// MediaKind distinguishes resolved movies from TV episodes.
type MediaKind string

const (
	MediaKindMovie   MediaKind = "movie"
	MediaKindEpisode MediaKind = "episode"
)

// Resolved captures the provider-confirmed identity of a media file. For
// episodes, Title is the show name as the provider displays it, and Season
// and Episode come from the detail response rather than the original parse.
// Year holds the first four characters of the detail date field.
type Resolved struct {
	Kind    MediaKind
	TMDBID  int64
	Title   string
	Season  int
	Episode int
	Year    string
}

// Resolver reconciles parsed guesses against provider search results.
type Resolver struct {
	client tmdb.Searcher
	logger *slog.Logger
}

// NewResolver creates a Resolver. The logger may be nil.
func NewResolver(client tmdb.Searcher, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{client: client, logger: logger}
}

// Resolve searches the provider for the guess's title and confirms the first
// hit. Empty results, a hit of an unusable media type, a TV hit without
// season/episode numbers in the guess, and a missing episode all surface as
// services.ErrNotFound. Transport failures and movie-detail fetch failures
// surface as services.ErrProvider.
func (r *Resolver) Resolve(ctx context.Context, guess Guess) (*Resolved, error) {
	title := strings.TrimSpace(guess.Title)
	if title == "" {
		return nil, services.Wrap(services.ErrParse, "resolver", "resolve", "guess has no title", nil)
	}

	response, err := r.client.SearchMulti(ctx, title)
	if err != nil {
		return nil, services.Wrap(services.ErrProvider, "resolver", "search", fmt.Sprintf("multi search for %q", title), err)
	}

	hit := pickHit(response)
	if hit == nil {
		return nil, services.Wrap(services.ErrNotFound, "resolver", "search", fmt.Sprintf("no results for %q", title), nil)
	}

	switch hit.MediaType {
	case tmdb.MediaTypeMovie:
		return r.resolveMovie(ctx, *hit)
	case tmdb.MediaTypeTV:
		return r.resolveEpisode(ctx, *hit, guess)
	default:
		return nil, services.Wrap(services.ErrNotFound, "resolver", "search",
			fmt.Sprintf("first result for %q has media type %q", title, hit.MediaType), nil)
	}
}

// pickHit selects the provider result to trust. First result wins: ordering
// is the provider's responsibility. A ranking or confirmation step would
// replace this function and nothing else.
func pickHit(response *tmdb.Response) *tmdb.Result {
	if response == nil || len(response.Results) == 0 {
		return nil
	}
	return &response.Results[0]
}

func (r *Resolver) resolveMovie(ctx context.Context, hit tmdb.Result) (*Resolved, error) {
	detail, err := r.client.GetMovieDetails(ctx, hit.ID)
	if err != nil {
		// The hit already named a movie; without the detail fields it
		// cannot be placed, so this is a hard failure rather than a miss.
		return nil, services.Wrap(services.ErrProvider, "resolver", "movie details",
			fmt.Sprintf("fetch %q (id %d)", hit.DisplayName(), hit.ID), err)
	}
	return &Resolved{
		Kind:   MediaKindMovie,
		TMDBID: detail.ID,
		Title:  strings.TrimSpace(detail.DisplayName()),
		Year:   dateYear(detail.ReleaseDate),
	}, nil
}

func (r *Resolver) resolveEpisode(ctx context.Context, hit tmdb.Result, guess Guess) (*Resolved, error) {
	if guess.Kind != GuessEpisode {
		return nil, services.Wrap(services.ErrNotFound, "resolver", "episode details",
			fmt.Sprintf("%q matched show %q but the filename has no season/episode marker", guess.Title, hit.DisplayName()), nil)
	}

	episode, err := r.client.GetEpisodeDetails(ctx, hit.ID, guess.Season, guess.Episode)
	if err != nil {
		// The show matched but this episode may simply be absent from the
		// provider catalog. Routine miss, not a provider failure.
		r.logger.Warn("episode lookup failed",
			logging.String("show", hit.DisplayName()),
			logging.Int("season", guess.Season),
			logging.Int("episode", guess.Episode),
			logging.Error(err))
		return nil, services.Wrap(services.ErrNotFound, "resolver", "episode details",
			fmt.Sprintf("s%02de%02d of %q", guess.Season, guess.Episode, hit.DisplayName()), err)
	}

	return &Resolved{
		Kind:    MediaKindEpisode,
		TMDBID:  hit.ID,
		Title:   strings.TrimSpace(hit.DisplayName()),
		Season:  episode.SeasonNumber,
		Episode: episode.EpisodeNumber,
		Year:    dateYear(episode.AirDate),
	}, nil
}

// dateYear returns the leading year of a provider date field ("2010-07-16"
// gives "2010"). Dates shorter than four characters pass through unchanged.
func dateYear(date string) string {
	date = strings.TrimSpace(date)
	if len(date) >= 4 {
		return date[:4]
	}
	return date
}
