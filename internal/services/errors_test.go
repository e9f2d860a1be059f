package services_test

import (
	"errors"
	"strings"
	"testing"

	"carousel/internal/queue"
	"carousel/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("connection refused")
	err := services.Wrap(services.ErrProvider, "identifier", "search", "tmdb unreachable", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrProvider) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"identifier", "search", "tmdb unreachable"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrNotFound, "identifier", "resolve", "no results", nil)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found marker, got %v", err)
	}
}

func TestFailureStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status queue.Status
	}{
		{"parse", services.Wrap(services.ErrParse, "identifier", "parse", "empty title", nil), queue.StatusReview},
		{"not found", services.Wrap(services.ErrNotFound, "identifier", "resolve", "no match", nil), queue.StatusReview},
		{"validation", services.Wrap(services.ErrValidation, "organizer", "prepare", "missing plan", nil), queue.StatusReview},
		{"provider", services.Wrap(services.ErrProvider, "identifier", "detail", "500", errors.New("boom")), queue.StatusFailed},
		{"move", services.Wrap(services.ErrMove, "organizer", "move", "read-only fs", errors.New("EROFS")), queue.StatusFailed},
		{"nil", nil, queue.StatusFailed},
	}
	for _, tc := range cases {
		if got := services.FailureStatus(tc.err); got != tc.status {
			t.Errorf("%s: FailureStatus = %s, want %s", tc.name, got, tc.status)
		}
	}
}
