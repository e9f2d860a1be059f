// Package library derives canonical destinations inside the media library
// and moves files into them.
package library

import (
	"fmt"
	"path/filepath"

	"carousel/internal/textutil"
)

// Destination is a planned library location: a directory and the canonical
// filename within it. Pure value, no I/O.
type Destination struct {
	Dir      string
	Filename string
}

// Path joins the destination into a full file path.
func (d Destination) Path() string {
	return filepath.Join(d.Dir, d.Filename)
}

// MoviePath places a movie flat in the movies root as
// "<sanitized title>-<year><ext>".
func MoviePath(root, title, year, ext string) Destination {
	return Destination{
		Dir:      root,
		Filename: fmt.Sprintf("%s-%s%s", textutil.SanitizeName(title), year, ext),
	}
}

// EpisodePath places an episode under "<root>/<sanitized show>/Season <SS>"
// as "<sanitized show>.s<SS>e<EE>-<year><ext>". Season and episode numbers
// are zero-padded to two digits; larger values keep their natural width.
func EpisodePath(root, show string, season, episode int, year, ext string) Destination {
	name := textutil.SanitizeName(show)
	return Destination{
		Dir:      filepath.Join(root, name, fmt.Sprintf("Season %02d", season)),
		Filename: fmt.Sprintf("%s.s%02de%02d-%s%s", name, season, episode, year, ext),
	}
}
