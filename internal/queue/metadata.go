package queue

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

// Metadata is the identifier stage's output persisted on a queue item: the
// provider-confirmed identity plus the planned library destination. The
// organizer stage consumes it verbatim; nothing is re-derived at move time.
type Metadata struct {
	Kind           string `json:"kind"`
	Title          string `json:"title"`
	Year           string `json:"year,omitempty"`
	Season         int    `json:"season,omitempty"`
	Episode        int    `json:"episode,omitempty"`
	TMDBID         int64  `json:"tmdb_id,omitempty"`
	DestinationDir string `json:"destination_dir"`
	Filename       string `json:"filename"`
}

// MetadataFromJSON decodes stored metadata. A decoding failure returns the
// zero value; callers detect that through Valid.
func MetadataFromJSON(data string) Metadata {
	var meta Metadata
	if strings.TrimSpace(data) == "" {
		return meta
	}
	_ = json.Unmarshal([]byte(data), &meta)
	return meta
}

// Encode serializes the metadata for storage on a queue item.
func (m Metadata) Encode() (string, error) {
	encoded, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// Valid reports whether the metadata carries enough to organize the file.
func (m Metadata) Valid() bool {
	return m.Title != "" && m.DestinationDir != "" && m.Filename != ""
}

// IsMovie reports whether the metadata describes a movie.
func (m Metadata) IsMovie() bool { return m.Kind == "movie" }

// DestinationPath joins the planned directory and filename.
func (m Metadata) DestinationPath() string {
	if m.DestinationDir == "" || m.Filename == "" {
		return ""
	}
	return filepath.Join(m.DestinationDir, m.Filename)
}
