package fileutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"carousel/internal/fileutil"
)

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mkv")
	dst := filepath.Join(dir, "dst.mkv")

	content := []byte("not actually matroska but good enough")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	if err := fileutil.CopyFileVerified(src, dst); err != nil {
		t.Fatalf("CopyFileVerified: %v", err)
	}

	copied, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(copied) != string(content) {
		t.Fatalf("copied content mismatch: %q", copied)
	}
}

func TestCopyFileVerifiedMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := fileutil.CopyFileVerified(filepath.Join(dir, "absent.mkv"), filepath.Join(dir, "dst.mkv"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestWaitForSettleStableFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stable.mkv")
	if err := os.WriteFile(path, []byte("settled"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	size, err := fileutil.WaitForSettle(ctx, path, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("WaitForSettle: %v", err)
	}
	if size != int64(len("settled")) {
		t.Fatalf("size = %d, want %d", size, len("settled"))
	}
}

func TestWaitForSettleGrowingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "growing.mkv")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create file: %v", err)
	}
	defer f.Close()

	// Write fast relative to the sample interval so every sample observes
	// growth until the writer finishes.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 20; i++ {
			if _, err := f.Write([]byte("chunk")); err != nil {
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	size, err := fileutil.WaitForSettle(ctx, path, 50*time.Millisecond)
	<-done
	if err != nil {
		t.Fatalf("WaitForSettle: %v", err)
	}
	final, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if size != final.Size() {
		t.Fatalf("settled size %d, final size %d", size, final.Size())
	}
}

func TestWaitForSettleContextCancelled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slow.mkv")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := fileutil.WaitForSettle(ctx, path, time.Hour); err == nil {
		t.Fatal("expected context error")
	}
}

func TestWaitForSettleMissingFile(t *testing.T) {
	ctx := context.Background()
	if _, err := fileutil.WaitForSettle(ctx, filepath.Join(t.TempDir(), "ghost.mkv"), time.Millisecond); err == nil {
		t.Fatal("expected error for missing file")
	}
}
