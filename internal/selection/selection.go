package selection

// what a pointer gesture is dragging
type Kind string

const (
	KindPlayhead  Kind = "playhead"
	KindTimeline  Kind = "timeline"
	KindSubtitle  Kind = "subtitle"
	KindWatermark Kind = "watermark"
	KindProgress  Kind = "progress"
	KindMedia     Kind = "media"
)

type DragState struct {
	Active bool `json:"active"`
	Kind   Kind `json:"kind,omitempty"`
}

// State tracks selected entity ids, the entity being edited, and the current
// drag gesture. Editing implies single selection; clearing drops both.
type State struct {
	ids     []string
	editing string
	drag    DragState
}

func New() *State {
	return &State{}
}

// Set replaces the selection, dropping duplicate ids.
func (s *State) Set(ids []string) {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	s.ids = out
	s.dropStaleEditing()
}

func (s *State) Add(id string) {
	if s.IsSelected(id) {
		return
	}
	s.ids = append(s.ids, id)
}

func (s *State) Remove(id string) {
	out := s.ids[:0]
	for _, cur := range s.ids {
		if cur != id {
			out = append(out, cur)
		}
	}
	s.ids = out
	s.dropStaleEditing()
}

// edit mode ends once the edited id leaves the selection
func (s *State) dropStaleEditing() {
	if s.editing != "" && !s.IsSelected(s.editing) {
		s.editing = ""
	}
}

// modifier-click behavior
func (s *State) Toggle(id string) {
	if s.IsSelected(id) {
		s.Remove(id)
		return
	}
	s.Add(id)
}

// SetEditing enters edit mode for id. An id outside the selection becomes the
// only selected id. An empty id leaves edit mode and keeps the selection.
func (s *State) SetEditing(id string) {
	s.editing = id
	if id != "" && !s.IsSelected(id) {
		s.ids = []string{id}
	}
}

func (s *State) Clear() {
	s.ids = nil
	s.editing = ""
}

func (s *State) IDs() []string {
	return append([]string(nil), s.ids...)
}

func (s *State) Len() int {
	return len(s.ids)
}

func (s *State) Editing() string {
	return s.editing
}

func (s *State) IsSelected(id string) bool {
	for _, cur := range s.ids {
		if cur == id {
			return true
		}
	}
	return false
}

func (s *State) BeginDrag(kind Kind) {
	s.drag = DragState{Active: true, Kind: kind}
}

func (s *State) EndDrag() {
	s.drag = DragState{}
}

func (s *State) Drag() DragState {
	return s.drag
}

func (s *State) Dragging() bool {
	return s.drag.Active
}
