// Package config loads, normalizes, and validates carousel configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TMDB_API_KEY. The Config type centralizes every knob the daemon and CLI
// need: the watched source directory, library roots, recognized video
// extensions, provider credentials, and operational intervals — all fixed at
// process start.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical extension lists, and a single clear validation
// error at startup instead of scattered checks.
package config
