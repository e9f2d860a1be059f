package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// DisplayTitle renders a normalized, lowercase title in a form fit for queue
// listings and notifications ("breaking bad" becomes "Breaking Bad"). Used
// as a placeholder until the provider supplies its own display name.
func DisplayTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	return titleCaser.String(title)
}
