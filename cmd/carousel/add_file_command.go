package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"carousel/internal/queue"
)

func newAddFileCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "add <path>...",
		Aliases: []string{"add-file"},
		Short:   "Add video files to the processing queue",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			paths := make([]string, 0, len(args))
			for _, arg := range args {
				absPath, err := filepath.Abs(arg)
				if err != nil {
					return fmt.Errorf("resolve path: %w", err)
				}

				info, err := os.Stat(absPath)
				if err != nil {
					if errors.Is(err, os.ErrNotExist) {
						return fmt.Errorf("file does not exist: %s", absPath)
					}
					return fmt.Errorf("inspect file: %w", err)
				}
				if info.IsDir() {
					return fmt.Errorf("%s is a directory", absPath)
				}

				ext := strings.ToLower(filepath.Ext(info.Name()))
				if !cfg.IsVideoExtension(ext) {
					return fmt.Errorf("unsupported file extension %q", ext)
				}
				paths = append(paths, absPath)
			}

			out := cmd.OutOrStdout()

			if client, dialErr := ctx.dialClient(); dialErr == nil {
				defer client.Close()
				for _, path := range paths {
					resp, err := client.AddFile(path)
					if err != nil {
						return err
					}
					if !resp.Queued {
						fmt.Fprintf(out, "File already queued: %s\n", filepath.Base(path))
						continue
					}
					fmt.Fprintf(out, "Queued file as item #%d (%s)\n", resp.Item.ID, filepath.Base(path))
				}
				return nil
			}

			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, path := range paths {
				if err := enqueueDirect(cmd.Context(), store, path, out); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func enqueueDirect(ctx context.Context, store *queue.Store, absPath string, out io.Writer) error {
	existing, err := store.FindBySourcePath(ctx, absPath)
	if err != nil {
		return err
	}
	if existing != nil && existing.Status != queue.StatusCompleted {
		fmt.Fprintf(out, "File already queued: %s\n", filepath.Base(absPath))
		return nil
	}

	item, err := store.NewFile(ctx, absPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Queued file as item #%d (%s)\n", item.ID, filepath.Base(absPath))
	return nil
}
