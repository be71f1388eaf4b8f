package project

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mgpai22/captioner/internal/cue"
	"github.com/mgpai22/captioner/internal/overlay"
	"github.com/mgpai22/captioner/internal/placement"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "projects.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSnapshot() Snapshot {
	pos := cue.DefaultPosition()
	return Snapshot{
		Meta: Meta{
			Title:      "Interview",
			VideoPath:  "/videos/interview.mp4",
			DurationMs: 90000,
			Stage:      StageEditing,
		},
		Cues: []cue.Cue{
			{ID: "a", Start: 1000, End: 3000, Text: "Hello", Speaker: "Alice", Position: &pos},
			{ID: "b", Start: 3500, End: 5000, Text: "World"},
		},
		Broll: []placement.Placement{
			{ID: "p1", Media: placement.Ref{ID: "clip", Kind: placement.KindBroll}, Start: 500, End: 3500, Volume: 0.3},
		},
		Watermark: overlay.DefaultWatermark(),
		View:      ViewSettings{PixelsPerSecond: 75, Scroll: 120, SnapEnabled: true, SnapThreshold: 250},
	}
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	saved, err := s.Save(ctx, sampleSnapshot())
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("Save should assign an id")
	}
	if saved.CueCount != 2 {
		t.Errorf("cue count got %d, want 2", saved.CueCount)
	}

	loaded, err := s.Load(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Title != "Interview" || loaded.Stage != StageEditing || loaded.DurationMs != 90000 {
		t.Errorf("meta got %+v", loaded.Meta)
	}
	if len(loaded.Cues) != 2 || loaded.Cues[0].Speaker != "Alice" || loaded.Cues[0].Position == nil {
		t.Errorf("cues got %+v", loaded.Cues)
	}
	if len(loaded.Broll) != 1 || loaded.Broll[0].Volume != 0.3 {
		t.Errorf("broll got %+v", loaded.Broll)
	}
	if len(loaded.Media) != 0 {
		t.Errorf("media got %+v, want empty", loaded.Media)
	}
	if loaded.View.PixelsPerSecond != 75 || loaded.View.Scroll != 120 {
		t.Errorf("view got %+v", loaded.View)
	}
	if loaded.Watermark != overlay.DefaultWatermark() {
		t.Errorf("watermark got %+v", loaded.Watermark)
	}
	if !loaded.CreatedAt.Equal(saved.CreatedAt) {
		t.Errorf("created_at got %v, want %v", loaded.CreatedAt, saved.CreatedAt)
	}
}

func TestSaveUpdatesKeepCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	first, err := s.Save(ctx, sampleSnapshot())
	if err != nil {
		t.Fatal(err)
	}

	clock = clock.Add(time.Hour)
	first.Title = "Renamed"
	first.Cues = first.Cues[:1]
	second, err := s.Save(ctx, first)
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := s.Load(ctx, second.ID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Title != "Renamed" || loaded.CueCount != 1 {
		t.Errorf("update not applied: %+v", loaded.Meta)
	}
	if !loaded.CreatedAt.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("created_at changed to %v", loaded.CreatedAt)
	}
	if !loaded.UpdatedAt.Equal(clock) {
		t.Errorf("updated_at got %v, want %v", loaded.UpdatedAt, clock)
	}
}

func TestListOrdersByUpdate(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	for _, title := range []string{"old", "new"} {
		snap := sampleSnapshot()
		snap.Title = title
		if _, err := s.Save(ctx, snap); err != nil {
			t.Fatal(err)
		}
		clock = clock.Add(time.Minute)
	}

	metas, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(metas) != 2 || metas[0].Title != "new" || metas[1].Title != "old" {
		t.Errorf("List got %+v", metas)
	}
}

func TestLoadAndDeleteMissing(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, err := s.Load(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load error got %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete error got %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	saved, err := s.Save(ctx, sampleSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := s.Load(ctx, saved.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after delete got %v", err)
	}
}
