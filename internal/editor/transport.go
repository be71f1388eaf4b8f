package editor

import (
	"github.com/mgpai22/captioner/internal/cue"
	"github.com/mgpai22/captioner/internal/playback"
	"github.com/mgpai22/captioner/internal/project"
)

// LoadVideo records the media and its duration, then zooms the timeline so
// the whole clip is visible.
func (s *Session) LoadVideo(path string, durationMs int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.meta.VideoPath = path
	s.clock.SetDuration(durationMs)
	s.durationChanged()
	s.status = StatusUnsaved
}

func (s *Session) durationChanged() {
	s.meta.DurationMs = s.clock.Duration()
	s.view.FitToWindow(s.meta.DurationMs, s.view.ViewportWidth())
}

// LoadCues replaces all cues, clears the selection and moves to editing.
func (s *Session) LoadCues(drafts []cue.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cues.Replace(drafts)
	s.sel.Clear()
	s.meta.Stage = project.StageEditing
}

// OnProgress queues a position report from the player. Reports are applied
// on the next tick; only the latest one in each window counts.
func (s *Session) OnProgress(playedSeconds float64) {
	s.progress.Submit(playedSeconds)
}

func (s *Session) OnDuration(durationSeconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.OnDuration(durationSeconds)
	s.durationChanged()
}

func (s *Session) OnPlayerError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.OnError(err)
}

// Seek moves the playhead, clamped to the media duration.
func (s *Session) Seek(ms int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.Seek(ms)
}

func (s *Session) TogglePlayback() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock.TogglePlayback()
	s.player.ApplyTransport()
}

func (s *Session) SetPlaying(playing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock.SetPlaying(playing)
	s.player.ApplyTransport()
}

func (s *Session) SetVolume(v int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock.SetVolume(v)
	s.player.ApplyTransport()
}

func (s *Session) SetPlaybackRate(r float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock.SetPlaybackRate(r)
}

func (s *Session) Playback() playback.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.State()
}

// CurrentCue is the cue under the playhead.
func (s *Session) CurrentCue() (cue.Cue, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cues.FindAtTime(s.clock.Current())
}
