package preflight_test

import (
	"context"
	"path/filepath"
	"testing"

	"carousel/internal/preflight"
	"carousel/internal/testsupport"
)

func TestRunAllPassesWithPreparedDirectories(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := preflight.RunAll(context.Background(), cfg)
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if failures := preflight.Failures(results); len(failures) != 0 {
		t.Fatalf("unexpected failures: %+v", failures)
	}
}

func TestRunAllFlagsMissingSourceDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	cfg.Paths.SourceDir = filepath.Join(cfg.Paths.SourceDir, "never-created")

	results := preflight.RunAll(context.Background(), cfg)
	failures := preflight.Failures(results)
	if len(failures) != 1 {
		t.Fatalf("failures = %+v", failures)
	}
	if failures[0].Name != "Source directory" {
		t.Fatalf("failure = %+v", failures[0])
	}
}

func TestCheckDirectoryAccessRejectsFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	file := filepath.Join(cfg.Paths.LogDir, "plain.txt")
	testsupport.WriteFile(t, file, 4)

	result := preflight.CheckDirectoryAccess("Probe", file)
	if result.Passed {
		t.Fatalf("expected failure for a regular file: %+v", result)
	}
}
