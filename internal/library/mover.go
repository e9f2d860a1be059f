package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"carousel/internal/fileutil"
)

// MoveFile relocates sourcePath to targetPath, creating the target's parent
// directories. Rename is attempted first; when source and target sit on
// different filesystems the kernel refuses with EXDEV and the move falls
// back to a verified copy followed by removal of the source.
func MoveFile(sourcePath, targetPath string) error {
	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return fmt.Errorf("create target directory: %w", err)
	}

	if err := os.Rename(sourcePath, targetPath); err != nil {
		var linkErr *os.LinkError
		if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
			return moveAcrossFilesystems(sourcePath, targetPath)
		}
		return fmt.Errorf("rename file: %w", err)
	}
	return nil
}

func moveAcrossFilesystems(sourcePath, targetPath string) error {
	if err := fileutil.CopyFileVerified(sourcePath, targetPath); err != nil {
		return fmt.Errorf("copy across filesystems: %w", err)
	}
	if err := os.Remove(sourcePath); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}
