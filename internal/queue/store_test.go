package queue_test

import (
	"context"
	"testing"

	"carousel/internal/queue"
	"carousel/internal/testsupport"
)

func TestNewFileRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	item, err := store.NewFile(ctx, "/srv/incoming/the.matrix.1999.mkv")
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if item.Status != queue.StatusPending {
		t.Fatalf("status = %s, want pending", item.Status)
	}
	if item.DisplayTitle != "The Matrix 1999" {
		t.Fatalf("display title = %q", item.DisplayTitle)
	}

	fetched, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fetched == nil || fetched.SourcePath != item.SourcePath {
		t.Fatalf("fetched %+v, want source path %q", fetched, item.SourcePath)
	}
	if fetched.CreatedAt.IsZero() || fetched.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to round-trip")
	}
}

func TestGetByIDMissingReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	item, err := store.GetByID(context.Background(), 404)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if item != nil {
		t.Fatalf("expected nil item, got %+v", item)
	}
}

func TestFindBySourcePathReturnsNewest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	const path = "/srv/incoming/duplicated.mkv"
	first, err := store.NewFile(ctx, path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	second, err := store.NewFile(ctx, path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	found, err := store.FindBySourcePath(ctx, path)
	if err != nil {
		t.Fatalf("FindBySourcePath: %v", err)
	}
	if found == nil || found.ID != second.ID {
		t.Fatalf("found %+v, want id %d (not %d)", found, second.ID, first.ID)
	}

	missing, err := store.FindBySourcePath(ctx, "/srv/incoming/never-seen.mkv")
	if err != nil {
		t.Fatalf("FindBySourcePath: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown path, got %+v", missing)
	}
}

func TestUpdatePersistsFields(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	item, err := store.NewFile(ctx, "/srv/incoming/inception.2010.mkv")
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	item.Status = queue.StatusIdentified
	item.DisplayTitle = "Inception"
	item.MediaKind = "movie"
	item.MetadataJSON = `{"kind":"movie","title":"Inception"}`
	item.SetProgress("Identified", "Matched Inception (2010)", 100)

	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update: %v", err)
	}

	fetched, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fetched.Status != queue.StatusIdentified {
		t.Fatalf("status = %s", fetched.Status)
	}
	if fetched.MediaKind != "movie" || fetched.DisplayTitle != "Inception" {
		t.Fatalf("fetched %+v", fetched)
	}
	if fetched.ProgressStage != "Identified" || fetched.ProgressPercent != 100 {
		t.Fatalf("progress not persisted: %+v", fetched)
	}
}

func TestNextForStatusesOrdersOldestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first, err := store.NewFile(ctx, "/srv/incoming/a.mkv")
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if _, err := store.NewFile(ctx, "/srv/incoming/b.mkv"); err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	next, err := store.NextForStatuses(ctx, queue.StatusPending, queue.StatusIdentified)
	if err != nil {
		t.Fatalf("NextForStatuses: %v", err)
	}
	if next == nil || next.ID != first.ID {
		t.Fatalf("next = %+v, want id %d", next, first.ID)
	}

	none, err := store.NextForStatuses(ctx, queue.StatusOrganizing)
	if err != nil {
		t.Fatalf("NextForStatuses: %v", err)
	}
	if none != nil {
		t.Fatalf("expected no organizing items, got %+v", none)
	}
}

func TestResetStuckProcessingRollsBackByStage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	identifying, err := store.NewFile(ctx, "/srv/incoming/stuck-identify.mkv")
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	identifying.Status = queue.StatusIdentifying
	if err := store.Update(ctx, identifying); err != nil {
		t.Fatalf("Update: %v", err)
	}

	organizing, err := store.NewFile(ctx, "/srv/incoming/stuck-organize.mkv")
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	organizing.Status = queue.StatusOrganizing
	if err := store.Update(ctx, organizing); err != nil {
		t.Fatalf("Update: %v", err)
	}

	completed, err := store.NewFile(ctx, "/srv/incoming/done.mkv")
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	completed.Status = queue.StatusCompleted
	if err := store.Update(ctx, completed); err != nil {
		t.Fatalf("Update: %v", err)
	}

	count, err := store.ResetStuckProcessing(ctx)
	if err != nil {
		t.Fatalf("ResetStuckProcessing: %v", err)
	}
	if count != 2 {
		t.Fatalf("reset count = %d, want 2", count)
	}

	check := func(id int64, want queue.Status) {
		t.Helper()
		item, err := store.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if item.Status != want {
			t.Fatalf("item %d status = %s, want %s", id, item.Status, want)
		}
	}
	check(identifying.ID, queue.StatusPending)
	check(organizing.ID, queue.StatusIdentified)
	check(completed.ID, queue.StatusCompleted)
}

func TestRetryFailed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	failed, err := store.NewFile(ctx, "/srv/incoming/broken.mkv")
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	failed.SetFailed("provider unavailable")
	if err := store.Update(ctx, failed); err != nil {
		t.Fatalf("Update: %v", err)
	}

	review, err := store.NewFile(ctx, "/srv/incoming/mystery.mkv")
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	review.SetReview("no title could be parsed")
	if err := store.Update(ctx, review); err != nil {
		t.Fatalf("Update: %v", err)
	}

	// Bare retry only touches failed items.
	count, err := store.RetryFailed(ctx)
	if err != nil {
		t.Fatalf("RetryFailed: %v", err)
	}
	if count != 1 {
		t.Fatalf("retry count = %d, want 1", count)
	}
	item, err := store.GetByID(ctx, failed.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if item.Status != queue.StatusPending || item.ErrorMessage != "" {
		t.Fatalf("failed item after retry: %+v", item)
	}
	item, err = store.GetByID(ctx, review.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if item.Status != queue.StatusReview {
		t.Fatalf("review item should be untouched, got %s", item.Status)
	}

	// Targeted retry covers review items too.
	count, err = store.RetryFailed(ctx, review.ID)
	if err != nil {
		t.Fatalf("RetryFailed: %v", err)
	}
	if count != 1 {
		t.Fatalf("targeted retry count = %d, want 1", count)
	}
	item, err = store.GetByID(ctx, review.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if item.Status != queue.StatusPending || item.NeedsReview || item.ReviewReason != "" {
		t.Fatalf("review item after targeted retry: %+v", item)
	}
}

func TestClearVariants(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	seed := func(path string, status queue.Status) {
		t.Helper()
		item, err := store.NewFile(ctx, path)
		if err != nil {
			t.Fatalf("NewFile: %v", err)
		}
		item.Status = status
		if err := store.Update(ctx, item); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	seed("/srv/incoming/one.mkv", queue.StatusPending)
	seed("/srv/incoming/two.mkv", queue.StatusCompleted)
	seed("/srv/incoming/three.mkv", queue.StatusFailed)

	removed, err := store.ClearCompleted(ctx)
	if err != nil {
		t.Fatalf("ClearCompleted: %v", err)
	}
	if removed != 1 {
		t.Fatalf("ClearCompleted removed %d, want 1", removed)
	}

	removed, err = store.ClearFailed(ctx)
	if err != nil {
		t.Fatalf("ClearFailed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("ClearFailed removed %d, want 1", removed)
	}

	removed, err = store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if removed != 1 {
		t.Fatalf("Clear removed %d, want 1", removed)
	}
}

func TestStatsAndHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	statuses := []queue.Status{
		queue.StatusPending,
		queue.StatusIdentifying,
		queue.StatusReview,
		queue.StatusFailed,
		queue.StatusCompleted,
	}
	for i, status := range statuses {
		item, err := store.NewFile(ctx, "/srv/incoming/file"+string(rune('a'+i))+".mkv")
		if err != nil {
			t.Fatalf("NewFile: %v", err)
		}
		item.Status = status
		if err := store.Update(ctx, item); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats[queue.StatusPending] != 1 || stats[queue.StatusFailed] != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	want := queue.HealthSummary{Total: 5, Pending: 1, Processing: 1, Review: 1, Failed: 1, Completed: 1}
	if health != want {
		t.Fatalf("health = %+v, want %+v", health, want)
	}
}

func TestRemove(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	item, err := store.NewFile(ctx, "/srv/incoming/removable.mkv")
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	removed, err := store.Remove(ctx, item.ID, 9999)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	gone, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if gone != nil {
		t.Fatalf("expected item deleted, got %+v", gone)
	}
}

func TestCheckHealthReportsHealthyDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := store.NewFile(ctx, "/srv/incoming/healthy.mkv"); err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	health, err := store.CheckHealth(ctx)
	if err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable || !health.TableExists {
		t.Fatalf("health = %+v", health)
	}
	if len(health.MissingColumns) != 0 {
		t.Fatalf("missing columns: %v", health.MissingColumns)
	}
	if health.TotalItems != 1 || !health.IntegrityCheck {
		t.Fatalf("health = %+v", health)
	}
}
