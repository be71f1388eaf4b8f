package editor

import (
	"context"
	"time"
)

// Tick applies the latest queued progress report and runs auto-follow. Run
// calls it every TickInterval; hosts with their own loop may call it
// directly. It does nothing after Close.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if played, ok := s.progress.Take(); ok {
		s.player.OnProgress(played)
	}
	s.followLocked()
}

// FollowTick runs one auto-follow step on its own. It reports whether the
// timeline scrolled.
func (s *Session) FollowTick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	return s.followLocked()
}

// auto-follow only runs while playing and never during a drag
func (s *Session) followLocked() bool {
	if !s.clock.Playing() || s.sel.Dragging() {
		return false
	}
	px := s.view.TimeToPixel(s.clock.Current())
	next, ok := s.follower.Next(px, s.view.Scroll(), s.view.ViewportWidth())
	if !ok {
		return false
	}
	s.view.SetScroll(next)
	return true
}

// Run drives the session timers until ctx is done or Close is called.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	var autoSave <-chan time.Time
	if s.saver != nil && s.autoSave > 0 {
		saveTicker := time.NewTicker(s.autoSave)
		defer saveTicker.Stop()
		autoSave = saveTicker.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stop:
			return nil
		case <-ticker.C:
			s.Tick()
		case <-autoSave:
			if s.Status() == StatusUnsaved {
				if err := s.Save(ctx); err != nil {
					s.logger.Warnw("Auto-save failed", "error", err)
				}
			}
		}
	}
}

// Close stops Run and turns later ticks into no-ops. It is safe to call more
// than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		if s.drag.Active() {
			s.drag.End()
		}
		s.mu.Unlock()
		close(s.stop)
	})
}
