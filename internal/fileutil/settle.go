package fileutil

import (
	"context"
	"fmt"
	"os"
	"time"
)

// WaitForSettle blocks until the file at path stops growing: the size and
// modification time must hold steady across two consecutive samples taken
// interval apart. Files still being written (downloads, network copies)
// keep changing and never satisfy the check until the writer finishes.
// Returns the settled size, or an error when the file disappears or the
// context expires first.
func WaitForSettle(ctx context.Context, path string, interval time.Duration) (int64, error) {
	if interval <= 0 {
		interval = time.Second
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	lastSize := info.Size()
	lastMod := info.ModTime()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return 0, fmt.Errorf("waiting for %s to settle: %w", path, ctx.Err())
		case <-ticker.C:
			info, err := os.Stat(path)
			if err != nil {
				return 0, fmt.Errorf("stat %s: %w", path, err)
			}
			if info.Size() == lastSize && info.ModTime().Equal(lastMod) {
				return lastSize, nil
			}
			lastSize = info.Size()
			lastMod = info.ModTime()
		}
	}
}
