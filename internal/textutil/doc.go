// Package textutil provides the text transforms the naming pipeline relies on:
// normalizing raw filename stems into searchable titles and sanitizing
// provider-supplied names into safe path segments.
//
// Both transforms are pure and deterministic. SanitizeName is idempotent, so
// already-clean library names pass through unchanged.
package textutil
