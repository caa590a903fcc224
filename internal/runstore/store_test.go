package runstore_test

import (
	"context"
	"errors"
	"testing"

	"talktrack/internal/config"
	"talktrack/internal/runstore"
)

func newStore(t *testing.T) *runstore.Store {
	t.Helper()
	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.CacheDir = base + "/cache"
	cfg.Paths.OutputDir = base + "/out"
	cfg.Paths.LogDir = base + "/logs"

	store, err := runstore.Open(&cfg)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewRunAndGet(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	run, err := store.NewRun(ctx, "/videos/interview.mp4", "interview", "/cache/interview-123")
	if err != nil {
		t.Fatalf("NewRun returned error: %v", err)
	}
	if run.ID == 0 {
		t.Fatal("expected non-zero run id")
	}
	if run.Status != runstore.StatusPending {
		t.Fatalf("status: got %s want %s", run.Status, runstore.StatusPending)
	}
	if run.VideoPath != "/videos/interview.mp4" || run.Stem != "interview" {
		t.Fatalf("unexpected run: %+v", run)
	}

	fetched, err := store.GetByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if fetched.Workdir != "/cache/interview-123" {
		t.Fatalf("workdir: got %s", fetched.Workdir)
	}
}

func TestGetMissingRun(t *testing.T) {
	store := newStore(t)
	if _, err := store.GetByID(context.Background(), 999); !errors.Is(err, runstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStatusProgression(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	run, err := store.NewRun(ctx, "/v/a.mp4", "a", "/cache/a")
	if err != nil {
		t.Fatal(err)
	}

	for _, status := range []runstore.Status{
		runstore.StatusDemuxing,
		runstore.StatusDetecting,
		runstore.StatusTracking,
		runstore.StatusCropping,
		runstore.StatusScoring,
		runstore.StatusRendering,
	} {
		if err := store.SetStatus(ctx, run.ID, status); err != nil {
			t.Fatalf("SetStatus(%s) returned error: %v", status, err)
		}
	}

	if err := store.SetCompleted(ctx, run.ID, "/out/a.avi", 3); err != nil {
		t.Fatalf("SetCompleted returned error: %v", err)
	}

	final, err := store.GetByID(ctx, run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if final.Status != runstore.StatusCompleted || !final.Status.Terminal() {
		t.Fatalf("status: got %s", final.Status)
	}
	if final.OutputPath != "/out/a.avi" || final.TrackCount != 3 {
		t.Fatalf("unexpected run: %+v", final)
	}
}

func TestSetFailedRecordsMessage(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	run, err := store.NewRun(ctx, "/v/b.mp4", "b", "/cache/b")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SetFailed(ctx, run.ID, "scene detection exited with status 2"); err != nil {
		t.Fatalf("SetFailed returned error: %v", err)
	}

	failed, err := store.GetByID(ctx, run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if failed.Status != runstore.StatusFailed {
		t.Fatalf("status: got %s", failed.Status)
	}
	if failed.ErrorMessage != "scene detection exited with status 2" {
		t.Fatalf("error message: got %q", failed.ErrorMessage)
	}
}

func TestSetStatusRejectsUnknown(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	run, err := store.NewRun(ctx, "/v/c.mp4", "c", "/cache/c")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SetStatus(ctx, run.ID, runstore.Status("exploded")); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestSetStatusMissingRun(t *testing.T) {
	store := newStore(t)
	if err := store.SetStatus(context.Background(), 42, runstore.StatusDemuxing); !errors.Is(err, runstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	first, err := store.NewRun(ctx, "/v/one.mp4", "one", "/cache/one")
	if err != nil {
		t.Fatal(err)
	}
	second, err := store.NewRun(ctx, "/v/two.mp4", "two", "/cache/two")
	if err != nil {
		t.Fatal(err)
	}

	runs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("run count: got %d want 2", len(runs))
	}
	if runs[0].ID != second.ID || runs[1].ID != first.ID {
		t.Fatalf("order: got %d,%d want %d,%d", runs[0].ID, runs[1].ID, second.ID, first.ID)
	}
}
