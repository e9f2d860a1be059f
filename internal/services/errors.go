package services

import (
	"errors"
	"fmt"
	"strings"

	"carousel/internal/queue"
)

// Error markers classify pipeline failures. ErrConfiguration halts startup;
// the rest are per-file outcomes that never stop the processing loop.
var (
	// ErrConfiguration marks missing or invalid configuration (credential,
	// required directory). Fatal before monitoring starts, never per file.
	ErrConfiguration = errors.New("configuration error")
	// ErrParse marks filenames the parser could not reduce to a usable guess.
	ErrParse = errors.New("parse error")
	// ErrNotFound marks routine resolution misses: empty search results, a
	// hit of the wrong media type, or an episode absent from the catalog.
	ErrNotFound = errors.New("not found")
	// ErrProvider marks transport, auth, or response-shape failures from the
	// metadata service. Actionable; the file stays in place and is never
	// silently retried.
	ErrProvider = errors.New("provider error")
	// ErrMove marks relocation failures. The file remains in the source tree.
	ErrMove = errors.New("move error")
	// ErrValidation marks stage input that should have been prepared earlier.
	ErrValidation = errors.New("validation error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later status classification. The marker should
// be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrProvider
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureStatus maps a stage error to the queue status the workflow manager
// should persist after the stage fails. Routine misses route to review so an
// operator can rename and retry; provider and move failures are hard errors.
func FailureStatus(err error) queue.Status {
	switch {
	case errors.Is(err, ErrParse), errors.Is(err, ErrNotFound), errors.Is(err, ErrValidation):
		return queue.StatusReview
	default:
		return queue.StatusFailed
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
