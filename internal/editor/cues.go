package editor

import (
	"github.com/mgpai22/captioner/internal/cue"
	"github.com/mgpai22/captioner/internal/timeline"
)

// AddCue inserts a cue and selects it.
func (s *Session) AddCue(d cue.Draft) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.cues.Add(d)
	s.sel.Set([]string{id})
	return id
}

// AddCueAtPlayhead inserts a cue of the given length starting at the
// playhead.
func (s *Session) AddCueAtPlayhead(text string, durationMs int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := s.clock.Current()
	id := s.cues.Add(cue.Draft{Start: start, End: start + durationMs, Text: text})
	s.sel.Set([]string{id})
	return id
}

func (s *Session) UpdateCue(id string, p cue.Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cues.Update(id, p)
}

// DeleteCues removes cues and drops them from the selection.
func (s *Session) DeleteCues(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(ids)
}

func (s *Session) DeleteSelected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(s.sel.IDs())
}

func (s *Session) deleteLocked(ids []string) {
	s.cues.DeleteMany(ids)
	for _, id := range ids {
		s.sel.Remove(id)
	}
}

// SplitAtPlayhead splits the cue under the playhead, or the given cue when
// id is set. It returns the id of the second half.
func (s *Session) SplitAtPlayhead(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	at := s.clock.Current()
	if id == "" {
		c, ok := s.cues.FindAtTime(at)
		if !ok {
			return ""
		}
		id = c.ID
	}
	return s.cues.Split(id, at)
}

func (s *Session) SplitCue(id string, at int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cues.Split(id, at)
}

// MergeSelected merges the selected cues and selects the result.
func (s *Session) MergeSelected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mergeLocked(s.sel.IDs())
}

func (s *Session) MergeCues(ids []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mergeLocked(ids)
}

func (s *Session) mergeLocked(ids []string) string {
	merged := s.cues.Merge(ids)
	if merged != "" {
		s.sel.Set([]string{merged})
	}
	return merged
}

func (s *Session) DuplicateCue(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	dup := s.cues.Duplicate(id)
	if dup != "" {
		s.sel.Set([]string{dup})
	}
	return dup
}

// MoveSelected shifts the selected cues by delta. With snapping on, the
// earliest selected cue's start snaps to the edges of unselected items and
// the rest of the selection moves by the same amount.
func (s *Session) MoveSelected(delta int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.sel.IDs()
	if len(ids) == 0 {
		return
	}
	earliest, ok := s.earliestLocked(ids)
	if !ok {
		return
	}
	target := earliest.Start + delta
	snapped := s.view.Snap(target, s.snapSpansLocked(ids...))
	s.cues.MoveMany(ids, snapped-earliest.Start)
}

func (s *Session) earliestLocked(ids []string) (cue.Cue, bool) {
	var first cue.Cue
	found := false
	for _, id := range ids {
		c, ok := s.cues.Get(id)
		if !ok {
			continue
		}
		if !found || c.Start < first.Start {
			first, found = c, true
		}
	}
	return first, found
}

// RetimeCue sets both edges of a cue, snapping each to nearby targets.
func (s *Session) RetimeCue(id string, start, end int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cues.Get(id); !ok {
		return
	}
	spans := s.snapSpansLocked(id)
	s.cues.AdjustTiming(id, s.view.Snap(start, spans), s.view.Snap(end, spans))
}

// snap candidates: every cue and placement except the excluded cues
func (s *Session) snapSpansLocked(exclude ...string) []timeline.Span {
	skip := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}
	var spans []timeline.Span
	for _, c := range s.cues.Cues() {
		if _, ok := skip[c.ID]; !ok {
			spans = append(spans, c.Span())
		}
	}
	spans = append(spans, s.media.Spans()...)
	spans = append(spans, s.broll.Spans()...)
	return spans
}

func (s *Session) SetCuePosition(id string, x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cues.SetPosition(id, x, y)
}

func (s *Session) ValidateCue(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cues.Get(id)
	if !ok {
		return nil
	}
	return cue.Validate(c.Draft())
}

// ValidateAll maps each invalid cue id to its problems.
func (s *Session) ValidateAll() map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]string)
	for _, c := range s.cues.Cues() {
		if errs := cue.Validate(c.Draft()); len(errs) > 0 {
			out[c.ID] = errs
		}
	}
	return out
}

func (s *Session) Cues() []cue.Cue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cues.Cues()
}

func (s *Session) Cue(id string) (cue.Cue, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cues.Get(id)
}
