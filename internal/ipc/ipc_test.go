package ipc_test

import (
	"context"
	"path/filepath"
	"testing"

	"carousel/internal/config"
	"carousel/internal/daemon"
	"carousel/internal/ipc"
	"carousel/internal/logging"
	"carousel/internal/queue"
	"carousel/internal/stage"
	"carousel/internal/testsupport"
	"carousel/internal/workflow"
)

type passHandler struct{ name string }

func (h passHandler) Prepare(context.Context, *queue.Item) error { return nil }
func (h passHandler) Execute(context.Context, *queue.Item) error { return nil }
func (h passHandler) HealthCheck(context.Context) stage.Health   { return stage.Healthy(h.name) }

func newTestServer(t *testing.T) (*ipc.Client, *config.Config, *queue.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.QueuePollInterval = 1
	store := testsupport.MustOpenStore(t, cfg)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	manager := workflow.NewManager(cfg, store, logging.NewNop())
	manager.RegisterStages(passHandler{"identifier"}, passHandler{"organizer"})

	d, err := daemon.New(cfg, store, logging.NewNop(), manager)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	socketPath := filepath.Join(cfg.Paths.LogDir, "carousel.sock")
	server, err := ipc.NewServer(context.Background(), socketPath, d, logging.NewNop())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	go server.Serve()
	t.Cleanup(func() { server.Close() })

	client, err := ipc.Dial(socketPath)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client, cfg, store
}

func TestStatusOverSocket(t *testing.T) {
	client, _, _ := newTestServer(t)

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Running {
		t.Fatal("daemon reported running before Start")
	}
	if status.PID == 0 || status.QueueDBPath == "" || status.SourceDir == "" {
		t.Fatalf("status = %+v", status)
	}
}

func TestStartAndStopOverSocket(t *testing.T) {
	client, _, _ := newTestServer(t)

	started, err := client.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !started.Started {
		t.Fatalf("Start = %+v", started)
	}

	again, err := client.Start()
	if err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if again.Started {
		t.Fatal("second Start should report not started")
	}

	stopped, err := client.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !stopped.Stopped {
		t.Fatalf("Stop = %+v", stopped)
	}

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Running {
		t.Fatal("daemon still running after Stop")
	}
}

func TestQueueOperationsOverSocket(t *testing.T) {
	client, cfg, store := newTestServer(t)
	ctx := context.Background()

	videoPath := filepath.Join(cfg.Paths.SourceDir, "Inception.2010.mkv")
	testsupport.WriteFile(t, videoPath, 64)

	added, err := client.AddFile(videoPath)
	if err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if !added.Queued || added.Item == nil {
		t.Fatalf("AddFile = %+v", added)
	}
	if added.Item.Status != string(queue.StatusPending) {
		t.Fatalf("item status = %s", added.Item.Status)
	}

	items, err := client.QueueList(nil)
	if err != nil {
		t.Fatalf("QueueList: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("QueueList returned %d items", len(items))
	}

	described, err := client.QueueDescribe(added.Item.ID)
	if err != nil {
		t.Fatalf("QueueDescribe: %v", err)
	}
	if described == nil || described.SourcePath != videoPath {
		t.Fatalf("described source = %s", described.SourcePath)
	}

	health, err := client.QueueHealth()
	if err != nil {
		t.Fatalf("QueueHealth: %v", err)
	}
	if health.Total != 1 || health.Pending != 1 {
		t.Fatalf("health = %+v", health)
	}

	dbHealth, err := client.DatabaseHealth()
	if err != nil {
		t.Fatalf("DatabaseHealth: %v", err)
	}
	if !dbHealth.DatabaseExists || !dbHealth.TableExists || !dbHealth.IntegrityCheck {
		t.Fatalf("database health = %+v", dbHealth)
	}

	removed, err := client.QueueClear()
	if err != nil {
		t.Fatalf("QueueClear: %v", err)
	}
	if removed != 1 {
		t.Fatalf("QueueClear removed %d", removed)
	}

	item, err := store.GetByID(ctx, added.Item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if item != nil {
		t.Fatal("item still present after clear")
	}
}

func TestDescribeMissingItem(t *testing.T) {
	client, _, _ := newTestServer(t)

	item, err := client.QueueDescribe(999)
	if err != nil {
		t.Fatalf("QueueDescribe: %v", err)
	}
	if item != nil {
		t.Fatalf("expected nil item, got %+v", item)
	}
}

func TestRetryOverSocket(t *testing.T) {
	client, _, store := newTestServer(t)
	ctx := context.Background()

	item, err := store.NewFile(ctx, "/library/source/broken.mkv")
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	item.SetFailed("provider unavailable")
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update: %v", err)
	}

	updated, err := client.QueueRetry(nil)
	if err != nil {
		t.Fatalf("QueueRetry: %v", err)
	}
	if updated != 1 {
		t.Fatalf("QueueRetry updated %d", updated)
	}

	refreshed, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if refreshed.Status != queue.StatusPending {
		t.Fatalf("status after retry = %s", refreshed.Status)
	}
}

func TestTestNotificationWithoutTopic(t *testing.T) {
	client, _, _ := newTestServer(t)

	resp, err := client.TestNotification()
	if err != nil {
		t.Fatalf("TestNotification: %v", err)
	}
	if resp.Sent {
		t.Fatal("notification reported sent with no topic configured")
	}
}
