// Package identification turns raw filenames into provider-confirmed media
// identities.
//
// Parse reads a filename stem into a Guess: an episode guess when a
// season/episode marker is present, a movie guess when a year token is, and
// an unresolved guess otherwise. Resolver reconciles a guess against TMDB
// multi-search results and returns Resolved metadata carrying the fields the
// library path builder needs. Result selection is first-hit-wins and lives
// in a single decision function so a ranking step could replace it without
// touching parsing or path construction.
package identification
