package editor

import (
	"github.com/mgpai22/captioner/internal/drag"
	"github.com/mgpai22/captioner/internal/selection"
)

// BeginPlayheadScrub starts dragging the playhead across the timeline
// container. The grab offset is zero so the playhead follows the pointer.
func (s *Session) BeginPlayheadScrub(pointer drag.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := drag.TimeTarget{
		Locate:      func() (drag.Rect, bool) { return s.container(ContainerTimeline) },
		Scroll:      s.view.Scroll,
		PixelToTime: s.view.PixelToTime,
		Duration:    s.clock.Duration,
		Set:         func(ms int64) { s.player.Seek(ms) },
	}
	s.drag.Begin(selection.KindPlayhead, target, pointer, drag.Rect{X: pointer.X, Y: pointer.Y})
}

// BeginProgressScrub starts dragging along the progress bar. Pressing seeks
// straight to the pressed position.
func (s *Session) BeginProgressScrub(pointer drag.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := drag.ProgressTarget{
		Locate:   func() (drag.Rect, bool) { return s.container(ContainerProgress) },
		Duration: s.clock.Duration,
		Set:      func(ms int64) { s.player.Seek(ms) },
	}
	s.drag.Begin(selection.KindProgress, target, pointer, drag.Rect{X: pointer.X, Y: pointer.Y})
	s.drag.Move(pointer)
}

// BeginCueReposition starts moving a cue on the video frame. element is the
// cue's on-screen box at press time. The cue becomes selected.
func (s *Session) BeginCueReposition(id string, pointer drag.Point, element drag.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cues.Get(id); !ok {
		return
	}
	if !s.sel.IsSelected(id) {
		s.sel.Set([]string{id})
	}
	target := drag.PercentTarget{
		Locate: func() (drag.Rect, bool) { return s.container(ContainerVideo) },
		Set:    func(x, y float64) { s.cues.SetPosition(id, x, y) },
	}
	s.drag.Begin(selection.KindSubtitle, target, pointer, element)
}

// BeginWatermarkDrag starts moving the watermark. A preset-positioned
// watermark switches to custom positioning first, at its anchor coordinates.
func (s *Session) BeginWatermarkDrag(pointer drag.Point, element drag.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := drag.PercentTarget{
		Locate:  func() (drag.Rect, bool) { return s.container(ContainerVideo) },
		Set:     s.watermark.Move,
		OnBegin: s.watermark.SwitchToCustom,
	}
	s.drag.Begin(selection.KindWatermark, target, pointer, element)
}

// BeginMediaDrag starts moving a placed sticker or gif on the video frame.
func (s *Session) BeginMediaDrag(id string, pointer drag.Point, element drag.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.media.Get(id); !ok {
		return
	}
	target := drag.PercentTarget{
		Locate: func() (drag.Rect, bool) { return s.container(ContainerVideo) },
		Set:    func(x, y float64) { s.media.SetPosition(id, x, y, 0) },
	}
	s.drag.Begin(selection.KindMedia, target, pointer, element)
}

// PointerMove feeds a pointer position to the active gesture. It reports
// whether anything was applied.
func (s *Session) PointerMove(pointer drag.Point) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.Move(pointer)
}

// PointerUp ends the gesture. Everything applied during it stays applied.
func (s *Session) PointerUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag.Active() {
		s.drag.End()
	}
}

// panTarget scrolls the timeline by the pointer's horizontal travel.
type panTarget struct {
	s            *Session
	originX      float64
	originScroll float64
}

func (t *panTarget) Container() (drag.Rect, bool) {
	return t.s.container(ContainerTimeline)
}

func (t *panTarget) Apply(local drag.Point, _ drag.Rect) {
	t.s.view.SetScroll(t.originScroll - (local.X - t.originX))
}

// BeginTimelinePan starts dragging the timeline itself. Auto-follow is held
// off until the pointer is released.
func (s *Session) BeginTimelinePan(pointer drag.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()

	container, ok := s.container(ContainerTimeline)
	if !ok {
		return
	}
	target := &panTarget{
		s:            s,
		originX:      pointer.X - container.X,
		originScroll: s.view.Scroll(),
	}
	s.drag.Begin(selection.KindTimeline, target, pointer, drag.Rect{X: pointer.X, Y: pointer.Y})
}
