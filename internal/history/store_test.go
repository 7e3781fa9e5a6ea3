package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"lottie2video/internal/encoding"
	"lottie2video/internal/history"
	"lottie2video/internal/job"
)

func openTestStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	ok := job.Result{
		InputPath:  "/in/a.json",
		OutputPath: "/out/a.gif",
		WorkDir:    "/render/a",
		Format:     encoding.FormatGIF,
		Elapsed:    1500 * time.Millisecond,
	}
	failed := job.Result{
		InputPath:  "/in/b.json",
		OutputPath: "/out/b.gif",
		Format:     encoding.FormatGIF,
		Err:        errors.New("ffmpeg: exit status 1"),
	}
	if _, err := store.Record(ctx, "batch-1", ok); err != nil {
		t.Fatalf("Record ok: %v", err)
	}
	if _, err := store.Record(ctx, "batch-1", failed); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	newest, oldest := entries[0], entries[1]
	if newest.InputPath != "/in/b.json" || newest.Status != history.StatusFailed || newest.ErrorMessage != "ffmpeg: exit status 1" {
		t.Fatalf("unexpected newest entry %+v", newest)
	}
	if newest.WorkDir != "" {
		t.Fatalf("expected empty work dir, got %q", newest.WorkDir)
	}
	if oldest.Status != history.StatusSucceeded || oldest.Elapsed != 1500*time.Millisecond || oldest.Format != "gif" {
		t.Fatalf("unexpected oldest entry %+v", oldest)
	}
	if oldest.BatchID != "batch-1" || oldest.CreatedAt.IsZero() {
		t.Fatalf("missing batch id or timestamp: %+v", oldest)
	}
}

func TestRecentLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := store.Record(ctx, "b", job.Result{InputPath: "x.json", OutputPath: "x.mp4", Format: encoding.FormatMP4}); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	for i := 0; i < 2; i++ {
		store, err := history.Open(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		if store.Path() != path {
			t.Fatalf("unexpected path %s", store.Path())
		}
		if err := store.Close(); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := history.Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
