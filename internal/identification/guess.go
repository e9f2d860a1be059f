package identification

// GuessKind tags the outcome of filename parsing.
type GuessKind int

const (
	// GuessUnresolved means no season/episode marker or year token matched;
	// the whole normalized stem is carried as the title.
	GuessUnresolved GuessKind = iota
	// GuessMovie means a year token was found.
	GuessMovie
	// GuessEpisode means a season/episode marker was found.
	GuessEpisode
)

func (k GuessKind) String() string {
	switch k {
	case GuessMovie:
		return "movie"
	case GuessEpisode:
		return "episode"
	default:
		return "unresolved"
	}
}

// Guess is the structured reading of a filename stem. Title is normalized
// (lowercase, dots and underscores replaced with spaces, trimmed). Year is
// set only for movie guesses, season and episode only for episode guesses.
type Guess struct {
	Kind    GuessKind
	Title   string
	Year    int
	Season  int
	Episode int
}

// Valid reports whether the guess can be resolved. Normalization can leave
// an empty title (a stem like "s01e01" or "..."); such files are skipped.
func (g Guess) Valid() bool {
	return g.Title != ""
}
