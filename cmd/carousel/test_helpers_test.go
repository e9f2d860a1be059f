package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// writeTestConfig writes a valid config rooted in a temp directory and
// returns the config file path plus the parsed directories.
func writeTestConfig(t *testing.T) (configPath, sourceDir, logDir string) {
	t.Helper()
	base := t.TempDir()
	sourceDir = filepath.Join(base, "incoming")
	libraryDir := filepath.Join(base, "library")
	logDir = filepath.Join(base, "logs")

	content := fmt.Sprintf(`[paths]
source_dir = %q
library_dir = %q
log_dir = %q

[tmdb]
api_key = "test-key"
`, sourceDir, libraryDir, logDir)

	configPath = filepath.Join(base, "config.toml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath, sourceDir, logDir
}

func writeVideoFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create directory: %v", err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x2a}, 64), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

// runCommand executes the root command with the given args and returns
// captured stdout. The socket points into the temp log dir so queue
// commands fall back to direct database access.
func runCommand(t *testing.T, configPath, logDir string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)

	socket := filepath.Join(logDir, "carousel.sock")
	full := append([]string{"--config", configPath, "--socket", socket}, args...)
	cmd.SetArgs(full)

	err := cmd.Execute()
	return out.String(), err
}
