package editor

import "github.com/mgpai22/captioner/internal/selection"

func (s *Session) Select(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Set(ids)
}

func (s *Session) ToggleSelected(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Toggle(id)
}

func (s *Session) SetEditing(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.SetEditing(id)
}

func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Clear()
}

func (s *Session) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Set(s.cues.IDs())
}

func (s *Session) Selection() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.IDs()
}

func (s *Session) Editing() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Editing()
}

func (s *Session) Drag() selection.DragState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Drag()
}

// FocusNext selects the cue after the focused one (the edited cue, else the
// last selected) and moves the playhead to its start. With nothing focused
// the first cue is used.
func (s *Session) FocusNext() string {
	return s.focus(true)
}

// FocusPrev is FocusNext in the other direction; with nothing focused the
// last cue is used.
func (s *Session) FocusPrev() string {
	return s.focus(false)
}

func (s *Session) focus(forward bool) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.cues.IDs()
	if len(ids) == 0 {
		return ""
	}

	current := s.sel.Editing()
	if current == "" {
		if sel := s.sel.IDs(); len(sel) > 0 {
			current = sel[len(sel)-1]
		}
	}

	var target string
	switch {
	case current == "" && forward:
		target = ids[0]
	case current == "":
		target = ids[len(ids)-1]
	case forward:
		if c, ok := s.cues.Next(current); ok {
			target = c.ID
		}
	default:
		if c, ok := s.cues.Prev(current); ok {
			target = c.ID
		}
	}
	if target == "" {
		return ""
	}

	editing := s.sel.Editing() != ""
	s.sel.Set([]string{target})
	if editing {
		s.sel.SetEditing(target)
	}
	if c, ok := s.cues.Get(target); ok {
		s.player.Seek(c.Start)
	}
	return target
}
