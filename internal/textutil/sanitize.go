package textutil

import (
	"regexp"
	"strings"
)

// illegalNamePattern matches every character that cannot appear in a
// destination path segment on the supported filesystems.
var illegalNamePattern = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeName removes characters that are illegal in path segments.
// No locale handling, no length truncation.
func SanitizeName(name string) string {
	return illegalNamePattern.ReplaceAllString(name, "")
}

// NormalizeTitle converts a filename fragment into the lowercase,
// space-separated form used for provider searches. Dots and underscores act
// as word separators in release names, so each becomes a space before the
// result is trimmed.
func NormalizeTitle(fragment string) string {
	replaced := strings.Map(func(r rune) rune {
		if r == '.' || r == '_' {
			return ' '
		}
		return r
	}, fragment)
	return strings.ToLower(strings.TrimSpace(replaced))
}
