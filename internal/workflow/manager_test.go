package workflow_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"carousel/internal/logging"
	"carousel/internal/queue"
	"carousel/internal/services"
	"carousel/internal/stage"
	"carousel/internal/testsupport"
	"carousel/internal/workflow"
)

type fakeHandler struct {
	name     string
	execute  func(ctx context.Context, item *queue.Item) error
	executed atomic.Int64
}

func (f *fakeHandler) Prepare(_ context.Context, item *queue.Item) error {
	item.InitProgress(f.name, "working")
	return nil
}

func (f *fakeHandler) Execute(ctx context.Context, item *queue.Item) error {
	f.executed.Add(1)
	if f.execute != nil {
		return f.execute(ctx, item)
	}
	return nil
}

func (f *fakeHandler) HealthCheck(context.Context) stage.Health {
	return stage.Healthy(f.name)
}

func newTestManager(t *testing.T, identify, organize *fakeHandler) (*workflow.Manager, *queue.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.QueuePollInterval = 1
	cfg.Workflow.ErrorRetryInterval = 1
	store := testsupport.MustOpenStore(t, cfg)
	manager := workflow.NewManager(cfg, store, logging.NewNop())
	manager.RegisterStages(identify, organize)
	return manager, store
}

func waitForStatus(t *testing.T, store *queue.Store, id int64, want queue.Status) *queue.Item {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		item, err := store.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if item != nil && item.Status == want {
			return item
		}
		time.Sleep(25 * time.Millisecond)
	}
	item, _ := store.GetByID(context.Background(), id)
	t.Fatalf("item %d never reached %s (last: %+v)", id, want, item)
	return nil
}

func TestManagerRunsItemThroughBothStages(t *testing.T) {
	identify := &fakeHandler{name: "identifier"}
	organize := &fakeHandler{name: "organizer"}
	manager, store := newTestManager(t, identify, organize)

	ctx := context.Background()
	item, err := store.NewFile(ctx, "/srv/incoming/movie.2010.mkv")
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	if err := manager.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer manager.Stop()

	final := waitForStatus(t, store, item.ID, queue.StatusCompleted)
	if identify.executed.Load() != 1 || organize.executed.Load() != 1 {
		t.Fatalf("executions: identify=%d organize=%d", identify.executed.Load(), organize.executed.Load())
	}
	if final.ErrorMessage != "" {
		t.Fatalf("unexpected error message: %q", final.ErrorMessage)
	}
}

func TestManagerRoutesNotFoundToReviewAndContinues(t *testing.T) {
	identify := &fakeHandler{name: "identifier", execute: func(_ context.Context, item *queue.Item) error {
		if item.SourcePath == "/srv/incoming/mystery.mkv" {
			return services.Wrap(services.ErrNotFound, "identifier", "search", "no results", nil)
		}
		return nil
	}}
	organize := &fakeHandler{name: "organizer"}
	manager, store := newTestManager(t, identify, organize)

	ctx := context.Background()
	bad, err := store.NewFile(ctx, "/srv/incoming/mystery.mkv")
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	good, err := store.NewFile(ctx, "/srv/incoming/known.2015.mkv")
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	if err := manager.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer manager.Stop()

	reviewed := waitForStatus(t, store, bad.ID, queue.StatusReview)
	if !reviewed.NeedsReview || reviewed.ReviewReason == "" {
		t.Fatalf("review fields not set: %+v", reviewed)
	}

	// A failure on one file never halts the loop; the next file completes.
	waitForStatus(t, store, good.ID, queue.StatusCompleted)
}

func TestManagerMarksProviderFailuresFailed(t *testing.T) {
	identify := &fakeHandler{name: "identifier", execute: func(context.Context, *queue.Item) error {
		return services.Wrap(services.ErrProvider, "identifier", "search", "connection refused", nil)
	}}
	organize := &fakeHandler{name: "organizer"}
	manager, store := newTestManager(t, identify, organize)

	ctx := context.Background()
	item, err := store.NewFile(ctx, "/srv/incoming/movie.2010.mkv")
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	if err := manager.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer manager.Stop()

	failed := waitForStatus(t, store, item.ID, queue.StatusFailed)
	if failed.ErrorMessage == "" {
		t.Fatal("expected error message on failed item")
	}
	if failed.NeedsReview {
		t.Fatal("provider failure should not flag review")
	}
}

func TestManagerStartRequiresStages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := workflow.NewManager(cfg, store, logging.NewNop())

	if err := manager.Start(context.Background()); err == nil {
		manager.Stop()
		t.Fatal("expected error when no stages registered")
	}
}

func TestManagerStartReclaimsStrandedItems(t *testing.T) {
	identify := &fakeHandler{name: "identifier"}
	organize := &fakeHandler{name: "organizer"}
	manager, store := newTestManager(t, identify, organize)

	ctx := context.Background()
	item, err := store.NewFile(ctx, "/srv/incoming/stranded.mkv")
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	item.Status = queue.StatusIdentifying
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := manager.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer manager.Stop()

	waitForStatus(t, store, item.ID, queue.StatusCompleted)
}

func TestManagerStatusReportsStageHealth(t *testing.T) {
	identify := &fakeHandler{name: "identifier"}
	organize := &fakeHandler{name: "organizer"}
	manager, _ := newTestManager(t, identify, organize)

	summary := manager.Status(context.Background())
	if summary.Running {
		t.Fatal("manager should not report running before Start")
	}
	if len(summary.StageHealth) != 2 {
		t.Fatalf("stage health = %+v", summary.StageHealth)
	}
	for name, health := range summary.StageHealth {
		if !health.Ready {
			t.Fatalf("stage %s unhealthy: %+v", name, health)
		}
	}
}
