// Package tmdb provides the minimal TMDB API client used during file
// identification.
//
// It authenticates requests and exposes multi search plus the two detail
// lookups the resolver needs: movie details by id and episode details by
// (show id, season, episode). Responses are strongly typed so the resolver
// can inspect media types and date fields directly. Options allow tests to
// supply custom HTTP clients without modifying production code.
//
// Calls are single-shot with a fixed client timeout: there is no retry,
// caching, or rate limiting. Hardening any of those belongs in this package.
package tmdb
