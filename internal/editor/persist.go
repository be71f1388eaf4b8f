package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mgpai22/captioner/internal/project"
)

var errNoSaver = errors.New("no project store configured")

// Saver stores a project snapshot and returns it with id and timestamps set.
// *project.Store implements it.
type Saver interface {
	Save(ctx context.Context, snap project.Snapshot) (project.Snapshot, error)
}

func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta.Title = title
	s.status = StatusUnsaved
}

func (s *Session) SetStage(stage project.Stage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta.Stage = stage
}

// MarkUnsaved flags the project as changed since the last save.
func (s *Session) MarkUnsaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusUnsaved
}

func (s *Session) Status() SaveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) LastSaved() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaved
}

func (s *Session) Meta() project.Meta {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.meta
	m.CueCount = s.cues.Len()
	return m
}

// Snapshot captures the project for persistence.
func (s *Session) Snapshot() project.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() project.Snapshot {
	meta := s.meta
	meta.CueCount = s.cues.Len()
	return project.Snapshot{
		Meta:      meta,
		Cues:      s.cues.Cues(),
		Media:     s.media.Items(),
		Broll:     s.broll.Items(),
		Watermark: s.watermark,
		View: project.ViewSettings{
			PixelsPerSecond: s.view.PixelsPerSecond(),
			Scroll:          s.view.Scroll(),
			SnapEnabled:     s.view.SnapEnabled(),
			SnapThreshold:   s.view.SnapThreshold(),
		},
	}
}

// Restore replaces the session state with a stored project. The result
// counts as saved.
func (s *Session) Restore(snap project.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.drag.Active() {
		s.drag.End()
	}
	s.meta = snap.Meta
	s.cues.Restore(snap.Cues)
	s.media.Restore(snap.Media)
	s.broll.Restore(snap.Broll)
	s.watermark = snap.Watermark
	s.sel.Clear()

	s.clock.Reset()
	if snap.DurationMs > 0 {
		s.clock.SetDuration(snap.DurationMs)
	}
	if snap.View.PixelsPerSecond > 0 {
		s.view.SetZoom(snap.View.PixelsPerSecond)
	}
	s.view.SetScroll(snap.View.Scroll)
	s.view.SetSnap(snap.View.SnapEnabled)
	s.view.SetSnapThreshold(snap.View.SnapThreshold)

	s.status = StatusSaved
	s.lastSaved = snap.UpdatedAt
}

// Save writes the project through the configured Saver. The lock is not held
// while the Saver runs; edits made meanwhile leave the project unsaved.
func (s *Session) Save(ctx context.Context) error {
	if s.saver == nil {
		return errNoSaver
	}

	s.mu.Lock()
	snap := s.snapshotLocked()
	s.status = StatusSaving
	s.mu.Unlock()

	stored, err := s.saver.Save(ctx, snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if s.status == StatusSaving {
			s.status = StatusError
		}
		return fmt.Errorf("failed to save project: %w", err)
	}
	s.meta.ID = stored.ID
	s.meta.CreatedAt = stored.CreatedAt
	s.meta.UpdatedAt = stored.UpdatedAt
	s.lastSaved = stored.UpdatedAt
	if s.status == StatusSaving {
		s.status = StatusSaved
	}
	return nil
}
