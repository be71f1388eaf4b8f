package placement

import (
	"sort"

	"github.com/google/uuid"

	"github.com/mgpai22/captioner/internal/cue"
	"github.com/mgpai22/captioner/internal/timeline"
)

type Kind string

const (
	KindSticker Kind = "sticker"
	KindGIF     Kind = "gif"
	KindBroll   Kind = "broll"
)

const (
	DefaultBrollVolume  = 0.3
	DefaultBrollPadding = int64(500) // ms either side of a cue
)

// library item a placement points at; Duration is only known for video clips
type Ref struct {
	ID       string   `json:"id"`
	Kind     Kind     `json:"kind"`
	URL      string   `json:"url"`
	Preview  string   `json:"preview,omitempty"`
	Name     string   `json:"name,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	Duration int64    `json:"duration_ms,omitempty"`
}

type Placement struct {
	ID       string       `json:"id"`
	Media    Ref          `json:"media"`
	Start    int64        `json:"start_ms"`
	End      int64        `json:"end_ms"`
	Position cue.Position `json:"position"`
	Volume   float64      `json:"volume"`
}

func (p Placement) Span() timeline.Span {
	return timeline.Span{Start: p.Start, End: p.End}
}

func (p Placement) clone() Placement {
	out := p
	if p.Media.Tags != nil {
		out.Media.Tags = append([]string(nil), p.Media.Tags...)
	}
	return out
}

// Store holds items placed on the timeline, sorted by start time. It is used
// once for stickers and gifs and once for B-roll clips.
type Store struct {
	items  []Placement
	notify cue.Notifier
	newID  func() string
}

func NewStore(notify cue.Notifier) *Store {
	return &Store{
		notify: notify,
		newID:  func() string { return uuid.NewString() },
	}
}

func (s *Store) changed() {
	if s.notify != nil {
		s.notify.MarkUnsaved()
	}
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) insert(p Placement) {
	idx := sort.Search(len(s.items), func(i int) bool {
		return s.items[i].Start > p.Start
	})
	s.items = append(s.items, Placement{})
	copy(s.items[idx+1:], s.items[idx:])
	s.items[idx] = p
}

func (s *Store) resort() {
	sort.SliceStable(s.items, func(i, j int) bool {
		return s.items[i].Start < s.items[j].Start
	})
}

// Place puts a media item on the timeline at the given frame position and
// returns the placement id. Video clips get DefaultBrollVolume.
func (s *Store) Place(ref Ref, start, end int64, x, y float64) string {
	start, end = clampTiming(start, end)
	p := Placement{
		ID:       s.newID(),
		Media:    ref,
		Start:    start,
		End:      end,
		Position: cue.Position{X: clampPercent(x), Y: clampPercent(y), Scale: 1},
	}
	if ref.Kind == KindBroll {
		p.Volume = DefaultBrollVolume
	}
	s.insert(p.clone())
	s.changed()
	return p.ID
}

// PlaceBeside covers a cue's span plus padding on either side. When the
// padded start falls before zero it is moved to zero and the padded
// duration is kept, so the clip ends later instead of getting shorter.
func (s *Store) PlaceBeside(ref Ref, span timeline.Span, before, after int64) string {
	start := span.Start - before
	end := span.End + after
	duration := end - start
	if start < 0 {
		start = 0
	}
	return s.Place(ref, start, start+duration, 50, 50)
}

func (s *Store) SetPosition(id string, x, y, scale float64) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	pos := &s.items[i].Position
	pos.X = clampPercent(x)
	pos.Y = clampPercent(y)
	if scale > 0 {
		pos.Scale = scale
	}
	s.changed()
}

func (s *Store) SetTiming(id string, start, end int64) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.items[i].Start, s.items[i].End = clampTiming(start, end)
	s.resort()
	s.changed()
}

// SetVolume clamps to 0..1.
func (s *Store) SetVolume(id string, v float64) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	if v != v || v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	s.items[i].Volume = v
	s.changed()
}

func (s *Store) Remove(id string) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.changed()
}

// AtTime returns every placement whose span contains t.
func (s *Store) AtTime(t int64) []Placement {
	var out []Placement
	for _, p := range s.items {
		if p.Span().Contains(t) {
			out = append(out, p.clone())
		}
	}
	return out
}

func (s *Store) Get(id string) (Placement, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return Placement{}, false
	}
	return s.items[i].clone(), true
}

func (s *Store) Items() []Placement {
	out := make([]Placement, len(s.items))
	for i, p := range s.items {
		out[i] = p.clone()
	}
	return out
}

// Restore loads persisted placements, keeping their ids.
func (s *Store) Restore(items []Placement) {
	s.items = make([]Placement, 0, len(items))
	for _, p := range items {
		s.items = append(s.items, p.clone())
	}
	s.resort()
}

func (s *Store) Clear() {
	if len(s.items) == 0 {
		return
	}
	s.items = nil
	s.changed()
}

func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) Spans() []timeline.Span {
	out := make([]timeline.Span, len(s.items))
	for i, p := range s.items {
		out[i] = p.Span()
	}
	return out
}

func clampTiming(start, end int64) (int64, int64) {
	if start < 0 {
		start = 0
	}
	if end < start+cue.MinDuration {
		end = start + cue.MinDuration
	}
	return start, end
}

func clampPercent(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
