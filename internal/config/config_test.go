package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"carousel/internal/config"
)

func TestLoadDefaultConfigUsesEnvTMDBKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "test-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Paths.SourceDir != filepath.Join(tempHome, "incoming") {
		t.Fatalf("unexpected source dir: %q", cfg.Paths.SourceDir)
	}
	if cfg.Paths.LibraryDir != filepath.Join(tempHome, "library") {
		t.Fatalf("unexpected library dir: %q", cfg.Paths.LibraryDir)
	}
	if cfg.TMDB.APIKey != "test-key" {
		t.Fatalf("expected TMDB key from env, got %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.BaseURL != config.Default().TMDB.BaseURL {
		t.Fatalf("unexpected TMDB base url: %q", cfg.TMDB.BaseURL)
	}
	if cfg.MoviesRoot() != filepath.Join(cfg.Paths.LibraryDir, "movies") {
		t.Fatalf("unexpected movies root: %q", cfg.MoviesRoot())
	}
	if cfg.TVRoot() != filepath.Join(cfg.Paths.LibraryDir, "tv") {
		t.Fatalf("unexpected tv root: %q", cfg.TVRoot())
	}
	if len(cfg.Watcher.VideoExtensions) != 4 {
		t.Fatalf("unexpected default extensions: %v", cfg.Watcher.VideoExtensions)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.SourceDir, cfg.Paths.LogDir, cfg.MoviesRoot(), cfg.TVRoot()} {
		if _, statErr := os.Stat(dir); statErr != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, statErr)
		}
	}
}

func TestLoadReadsFileAndNormalizesExtensions(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("TMDB_API_KEY", "")

	configPath := filepath.Join(tempHome, "carousel.toml")
	body := `
[paths]
source_dir = "~/downloads"
library_dir = "~/media"

[tmdb]
api_key = "file-key"

[watcher]
video_extensions = ["MKV", ".mp4", "mp4", ""]
`
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config at %q to be used, got %q exists=%v", configPath, resolved, exists)
	}
	if cfg.TMDB.APIKey != "file-key" {
		t.Fatalf("unexpected api key: %q", cfg.TMDB.APIKey)
	}
	if cfg.Paths.SourceDir != filepath.Join(tempHome, "downloads") {
		t.Fatalf("expected tilde expansion, got %q", cfg.Paths.SourceDir)
	}

	want := []string{".mkv", ".mp4"}
	if len(cfg.Watcher.VideoExtensions) != len(want) {
		t.Fatalf("expected extensions %v, got %v", want, cfg.Watcher.VideoExtensions)
	}
	for i, ext := range want {
		if cfg.Watcher.VideoExtensions[i] != ext {
			t.Fatalf("expected extensions %v, got %v", want, cfg.Watcher.VideoExtensions)
		}
	}
}

func TestValidateRejectsMissingOrPlaceholderCredential(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	if _, _, _, err := config.Load(""); err == nil {
		t.Fatal("expected error for missing credential")
	} else if !strings.Contains(err.Error(), "tmdb.api_key") {
		t.Fatalf("expected credential error, got %v", err)
	}

	cfg := config.Default()
	cfg.TMDB.APIKey = config.PlaceholderAPIKey
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected placeholder credential to be rejected")
	}
}

func TestValidateChecksIntervals(t *testing.T) {
	cfg := config.Default()
	cfg.TMDB.APIKey = "k"

	cfg.Watcher.SettleTimeout = cfg.Watcher.SettleInterval
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected settle_timeout validation error")
	}

	cfg = config.Default()
	cfg.TMDB.APIKey = "k"
	cfg.Workflow.QueuePollInterval = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected queue_poll_interval validation error")
	}
}

func TestIsVideoExtension(t *testing.T) {
	cfg := config.Default()
	cases := map[string]bool{
		".mkv": true,
		"MKV":  true,
		".MP4": true,
		".txt": false,
		"":     false,
		".":    false,
	}
	for ext, want := range cases {
		if got := cfg.IsVideoExtension(ext); got != want {
			t.Errorf("IsVideoExtension(%q) = %v, want %v", ext, got, want)
		}
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[tmdb]") {
		t.Fatalf("expected tmdb section in sample, got %q", string(data))
	}
}
