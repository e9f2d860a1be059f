package library_test

import (
	"path/filepath"
	"testing"

	"carousel/internal/library"
)

func TestMoviePath(t *testing.T) {
	dest := library.MoviePath("/library/movies", "Inception", "2010", ".mkv")
	if dest.Dir != "/library/movies" {
		t.Fatalf("dir = %q", dest.Dir)
	}
	if dest.Filename != "Inception-2010.mkv" {
		t.Fatalf("filename = %q", dest.Filename)
	}
	if dest.Path() != filepath.Join("/library/movies", "Inception-2010.mkv") {
		t.Fatalf("path = %q", dest.Path())
	}
}

func TestMoviePathSanitizesTitle(t *testing.T) {
	dest := library.MoviePath("/library/movies", `What If?: A "Story"`, "1999", ".mp4")
	if dest.Filename != "What If A Story-1999.mp4" {
		t.Fatalf("filename = %q", dest.Filename)
	}
}

func TestEpisodePathZeroPads(t *testing.T) {
	dest := library.EpisodePath("/library/tv", "BreakingBad", 3, 7, "2010", ".mkv")
	if dest.Dir != filepath.Join("/library/tv", "BreakingBad", "Season 03") {
		t.Fatalf("dir = %q", dest.Dir)
	}
	if dest.Filename != "BreakingBad.s03e07-2010.mkv" {
		t.Fatalf("filename = %q", dest.Filename)
	}
}

func TestEpisodePathLargeNumbersKeepWidth(t *testing.T) {
	dest := library.EpisodePath("/library/tv", "One Piece", 1, 1071, "2023", ".mkv")
	if dest.Dir != filepath.Join("/library/tv", "One Piece", "Season 01") {
		t.Fatalf("dir = %q", dest.Dir)
	}
	if dest.Filename != "One Piece.s01e1071-2023.mkv" {
		t.Fatalf("filename = %q", dest.Filename)
	}
}

func TestEpisodePathSanitizesShow(t *testing.T) {
	dest := library.EpisodePath("/library/tv", "M*A*S*H", 1, 1, "1972", ".avi")
	if dest.Dir != filepath.Join("/library/tv", "MASH", "Season 01") {
		t.Fatalf("dir = %q", dest.Dir)
	}
	if dest.Filename != "MASH.s01e01-1972.avi" {
		t.Fatalf("filename = %q", dest.Filename)
	}
}
