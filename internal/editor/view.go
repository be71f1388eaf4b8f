package editor

import (
	"github.com/mgpai22/captioner/internal/overlay"
	"github.com/mgpai22/captioner/internal/placement"
	"github.com/mgpai22/captioner/internal/timeline"
)

type ViewState struct {
	PixelsPerSecond float64         `json:"pixels_per_second"`
	Scroll          float64         `json:"scroll"`
	Viewport        float64         `json:"viewport"`
	SnapEnabled     bool            `json:"snap_enabled"`
	SnapThreshold   int64           `json:"snap_threshold_ms"`
	Range           *timeline.Range `json:"range,omitempty"`
}

func (s *Session) View() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	vs := ViewState{
		PixelsPerSecond: s.view.PixelsPerSecond(),
		Scroll:          s.view.Scroll(),
		Viewport:        s.view.ViewportWidth(),
		SnapEnabled:     s.view.SnapEnabled(),
		SnapThreshold:   s.view.SnapThreshold(),
	}
	if r, ok := s.view.SelectedRange(); ok {
		vs.Range = &r
	}
	return vs
}

func (s *Session) ZoomIn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.ZoomIn()
}

func (s *Session) ZoomOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.ZoomOut()
}

func (s *Session) SetZoom(pps float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.SetZoom(pps)
}

func (s *Session) FitToWindow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.FitToWindow(s.clock.Duration(), s.view.ViewportWidth())
}

func (s *Session) SetScroll(px float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.SetScroll(px)
}

func (s *Session) SetSnap(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.SetSnap(enabled)
}

func (s *Session) SelectRange(a, b int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.SelectRange(a, b)
}

func (s *Session) ExpandRange(t int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.ExpandRange(t)
}

func (s *Session) ClearRange() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.ClearRange()
}

// SnapTargets lists snap candidates near t from every item on the timeline.
func (s *Session) SnapTargets(t int64) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.FindSnapTargets(t, s.snapSpansLocked())
}

// Marks builds the ruler for the loaded media at the current zoom, with
// every item edge as a boundary mark.
func (s *Session) Marks() []timeline.Mark {
	s.mu.Lock()
	defer s.mu.Unlock()
	return timeline.Marks(
		s.clock.Duration(),
		s.view.PixelsPerSecond(),
		timeline.Boundaries(s.snapSpansLocked()),
	)
}

func (s *Session) Watermark() overlay.Watermark {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watermark
}

func (s *Session) SetWatermarkPreset(a overlay.Anchor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watermark.SetPreset(a)
	s.status = StatusUnsaved
}

func (s *Session) ToggleWatermark() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watermark.Enabled = !s.watermark.Enabled
	s.status = StatusUnsaved
}

// PlaceMedia puts a sticker or gif on the timeline.
func (s *Session) PlaceMedia(ref placement.Ref, start, end int64, x, y float64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.media.Place(ref, start, end, x, y)
}

// PlaceBroll covers the given cue with a B-roll clip, padded on both sides.
func (s *Session) PlaceBroll(ref placement.Ref, cueID string, before, after int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cues.Get(cueID)
	if !ok {
		return ""
	}
	ref.Kind = placement.KindBroll
	return s.broll.PlaceBeside(ref, c.Span(), before, after)
}

func (s *Session) SetBrollVolume(id string, v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broll.SetVolume(id, v)
}

// SetPlacementTiming retimes a sticker, gif or B-roll clip.
func (s *Session) SetPlacementTiming(id string, start, end int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.media.SetTiming(id, start, end)
	s.broll.SetTiming(id, start, end)
}

func (s *Session) SetMediaPosition(id string, x, y, scale float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.media.SetPosition(id, x, y, scale)
}

func (s *Session) RemovePlacement(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.media.Remove(id)
	s.broll.Remove(id)
}

func (s *Session) Media() []placement.Placement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.media.Items()
}

func (s *Session) Broll() []placement.Placement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.broll.Items()
}

// Active returns the media and B-roll items under the playhead.
func (s *Session) Active() []placement.Placement {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Current()
	return append(s.media.AtTime(now), s.broll.AtTime(now)...)
}
