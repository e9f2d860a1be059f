package watcher_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"carousel/internal/config"
	"carousel/internal/logging"
	"carousel/internal/queue"
	"carousel/internal/testsupport"
	"carousel/internal/watcher"
)

type recordingSink struct {
	mu    sync.Mutex
	paths []string
}

func (s *recordingSink) AddFile(_ context.Context, path string) (*queue.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, path)
	return &queue.Item{ID: int64(len(s.paths)), SourcePath: path}, nil
}

func (s *recordingSink) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

func (s *recordingSink) waitFor(t *testing.T, want int) []string {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if paths := s.snapshot(); len(paths) >= want {
			return paths
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatalf("sink never received %d paths (got %v)", want, s.snapshot())
	return nil
}

func fastSettleConfig(t *testing.T) *config.Config {
	cfg := testsupport.NewConfig(t)
	// The settle check works in whole seconds from config; one second per
	// sample keeps tests responsive while still exercising the stability
	// loop.
	cfg.Watcher.SettleInterval = 1
	cfg.Watcher.SettleTimeout = 30
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	return cfg
}

func TestScanEnqueuesExistingVideos(t *testing.T) {
	cfg := fastSettleConfig(t)
	sink := &recordingSink{}
	w := watcher.New(cfg, logging.NewNop(), sink)

	video := filepath.Join(cfg.Paths.SourceDir, "inception.2010.mkv")
	nested := filepath.Join(cfg.Paths.SourceDir, "shows", "breaking.bad.s01e01.mp4")
	text := filepath.Join(cfg.Paths.SourceDir, "notes.txt")
	testsupport.WriteFile(t, video, 32)
	testsupport.WriteFile(t, nested, 32)
	testsupport.WriteFile(t, text, 8)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	w.Scan(ctx, cfg.Paths.SourceDir)

	paths := sink.waitFor(t, 2)
	seen := map[string]bool{}
	for _, p := range paths {
		seen[p] = true
	}
	if !seen[video] || !seen[nested] {
		t.Fatalf("paths = %v", paths)
	}
	if seen[text] {
		t.Fatal("non-video file was enqueued")
	}
}

func TestStartPicksUpCreatedFile(t *testing.T) {
	cfg := fastSettleConfig(t)
	sink := &recordingSink{}
	w := watcher.New(cfg, logging.NewNop(), sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	video := filepath.Join(cfg.Paths.SourceDir, "arrival.2016.mkv")
	testsupport.WriteFile(t, video, 64)

	paths := sink.waitFor(t, 1)
	if paths[0] != video {
		t.Fatalf("paths = %v", paths)
	}
}

func TestStartScanOnStart(t *testing.T) {
	cfg := fastSettleConfig(t)
	cfg.Watcher.ScanOnStart = true
	sink := &recordingSink{}
	w := watcher.New(cfg, logging.NewNop(), sink)

	video := filepath.Join(cfg.Paths.SourceDir, "preexisting.2001.mkv")
	testsupport.WriteFile(t, video, 16)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	paths := sink.waitFor(t, 1)
	if paths[0] != video {
		t.Fatalf("paths = %v", paths)
	}
}

func TestStartTwiceFails(t *testing.T) {
	cfg := fastSettleConfig(t)
	w := watcher.New(cfg, logging.NewNop(), &recordingSink{})

	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := w.Start(ctx); err == nil {
		t.Fatal("expected second Start to fail")
	}
}
