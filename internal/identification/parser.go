package identification

import (
	"regexp"
	"strconv"

	"carousel/internal/textutil"
)

var (
	seasonEpisodePattern = regexp.MustCompile(`[sS](\d{1,2})[eE](\d{1,2})`)
	yearPattern          = regexp.MustCompile(`\(?(\d{4})\)?`)
)

// Parse turns a filename stem into a structured guess. A season/episode
// marker wins over a year token; a year token wins over nothing. The title
// is the normalized text before the first marker.
//
// A stray 4-digit number ahead of the real year token mis-splits the title.
// That is an accepted limit of the heuristic, not something Parse corrects.
func Parse(stem string) Guess {
	if match := seasonEpisodePattern.FindStringSubmatchIndex(stem); match != nil {
		season, _ := strconv.Atoi(stem[match[2]:match[3]])
		episode, _ := strconv.Atoi(stem[match[4]:match[5]])
		return Guess{
			Kind:    GuessEpisode,
			Title:   textutil.NormalizeTitle(stem[:match[0]]),
			Season:  season,
			Episode: episode,
		}
	}
	if match := yearPattern.FindStringSubmatchIndex(stem); match != nil {
		year, _ := strconv.Atoi(stem[match[2]:match[3]])
		return Guess{
			Kind:  GuessMovie,
			Title: textutil.NormalizeTitle(stem[:match[0]]),
			Year:  year,
		}
	}
	return Guess{Kind: GuessUnresolved, Title: textutil.NormalizeTitle(stem)}
}
