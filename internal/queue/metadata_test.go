package queue_test

import (
	"path/filepath"
	"testing"

	"carousel/internal/queue"
)

func TestMetadataEncodeDecode(t *testing.T) {
	meta := queue.Metadata{
		Kind:           "episode",
		Title:          "Breaking Bad",
		Year:           "2008",
		Season:         1,
		Episode:        1,
		TMDBID:         1396,
		DestinationDir: "/library/tv/BreakingBad/Season 01",
		Filename:       "BreakingBad.s01e01-2008.mkv",
	}

	encoded, err := meta.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded := queue.MetadataFromJSON(encoded)
	if decoded != meta {
		t.Fatalf("decoded = %+v, want %+v", decoded, meta)
	}
	if !decoded.Valid() {
		t.Fatal("expected valid metadata")
	}
	if decoded.IsMovie() {
		t.Fatal("episode metadata reported as movie")
	}

	want := filepath.Join(meta.DestinationDir, meta.Filename)
	if got := decoded.DestinationPath(); got != want {
		t.Fatalf("DestinationPath = %q, want %q", got, want)
	}
}

func TestMetadataFromJSONTolerant(t *testing.T) {
	if meta := queue.MetadataFromJSON(""); meta.Valid() {
		t.Fatal("empty payload should not be valid")
	}
	if meta := queue.MetadataFromJSON("{not json"); meta.Valid() {
		t.Fatal("malformed payload should not be valid")
	}
}

func TestMetadataValidRequiresDestination(t *testing.T) {
	meta := queue.Metadata{Kind: "movie", Title: "Inception"}
	if meta.Valid() {
		t.Fatal("metadata without destination should not be valid")
	}
	if meta.DestinationPath() != "" {
		t.Fatal("expected empty destination path")
	}

	meta.DestinationDir = "/library/movies"
	meta.Filename = "Inception-2010.mkv"
	if !meta.Valid() {
		t.Fatal("expected valid metadata")
	}
	if !meta.IsMovie() {
		t.Fatal("movie metadata not reported as movie")
	}
}
