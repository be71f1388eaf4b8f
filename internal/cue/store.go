package cue

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mgpai22/captioner/internal/timeline"
)

// Store owns the ordered cue list of one editing session. Cues are kept
// sorted by start time after every mutation that can change timing;
// overlapping cues are allowed. Lookups for unknown ids are silent no-ops.
type Store struct {
	cues   []Cue
	newID  func() string
	notify Notifier
}

type Option func(*Store)

// overrides the id source (uuid v4 by default)
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func NewStore(notify Notifier, opts ...Option) *Store {
	s := &Store{
		newID:  func() string { return uuid.NewString() },
		notify: notify,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) changed() {
	if s.notify != nil {
		s.notify.MarkUnsaved()
	}
}

func (s *Store) indexOf(id string) int {
	for i := range s.cues {
		if s.cues[i].ID == id {
			return i
		}
	}
	return -1
}

// inserts before the first cue starting strictly later, so equal starts keep arrival order
func (s *Store) insertSorted(c Cue) {
	idx := sort.Search(len(s.cues), func(i int) bool {
		return s.cues[i].Start > c.Start
	})
	s.cues = append(s.cues, Cue{})
	copy(s.cues[idx+1:], s.cues[idx:])
	s.cues[idx] = c
}

func (s *Store) resort() {
	sort.SliceStable(s.cues, func(i, j int) bool {
		return s.cues[i].Start < s.cues[j].Start
	})
}

func (s *Store) fromDraft(d Draft) Cue {
	c := Cue{
		ID:      s.newID(),
		Start:   d.Start,
		End:     d.End,
		Text:    d.Text,
		Speaker: d.Speaker,
		Track:   d.Track,
	}
	if d.Style != nil {
		st := *d.Style
		c.Style = &st
	}
	pos := DefaultPosition()
	if d.Position != nil {
		pos = *d.Position
	}
	c.Position = &pos
	if d.Animations != nil {
		c.Animations = append([]string(nil), d.Animations...)
	}
	return c
}

// Add inserts a new cue at its sorted position and returns its id. It never
// rejects input; use Validate beforehand to surface problems to the user.
func (s *Store) Add(d Draft) string {
	c := s.fromDraft(d)
	s.insertSorted(c)
	s.changed()
	return c.ID
}

// Update merges the patch into the cue. Timing changes are normalized
// (start >= 0, duration >= MinDuration) and trigger a re-sort.
func (s *Store) Update(id string, p Patch) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	c := &s.cues[i]
	if p.Text != nil {
		c.Text = *p.Text
	}
	if p.Speaker != nil {
		c.Speaker = *p.Speaker
	}
	if p.Style != nil {
		st := *p.Style
		c.Style = &st
	}
	if p.Track != nil {
		c.Track = *p.Track
	}
	if p.Position != nil {
		pos := *p.Position
		c.Position = &pos
	}
	if p.Animations != nil {
		c.Animations = append([]string(nil), p.Animations...)
	}
	if p.touchesTiming() {
		start, end := c.Start, c.End
		if p.Start != nil {
			start = *p.Start
		}
		if p.End != nil {
			end = *p.End
		}
		c.Start, c.End = clampTiming(start, end)
		s.resort()
	}
	s.changed()
}

// AdjustTiming sets both bounds at once with the same normalization as Update.
func (s *Store) AdjustTiming(id string, start, end int64) {
	s.Update(id, Patch{Start: &start, End: &end})
}

func clampTiming(start, end int64) (int64, int64) {
	if start < 0 {
		start = 0
	}
	if end < start+MinDuration {
		end = start + MinDuration
	}
	return start, end
}

func (s *Store) Delete(id string) {
	s.DeleteMany([]string{id})
}

func (s *Store) DeleteMany(ids []string) {
	drop := toSet(ids)
	kept := s.cues[:0]
	removed := 0
	for _, c := range s.cues {
		if _, ok := drop[c.ID]; ok {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	s.cues = kept
	if removed > 0 {
		s.changed()
	}
}

// Split cuts a cue in two at the given time. The text is duplicated, not
// divided. Splitting at or outside the cue bounds does nothing.
func (s *Store) Split(id string, at int64) string {
	i := s.indexOf(id)
	if i < 0 {
		return ""
	}
	original := s.cues[i]
	if at <= original.Start || at >= original.End {
		return ""
	}

	second := original.clone()
	second.ID = s.newID()
	second.Start = at

	s.cues[i].End = at
	// right after the original, past any nested cue starting before the cut
	j := i + 1
	for j < len(s.cues) && s.cues[j].Start < at {
		j++
	}
	s.cues = append(s.cues, Cue{})
	copy(s.cues[j+1:], s.cues[j:])
	s.cues[j] = second
	s.changed()
	return second.ID
}

// Merge replaces at least two cues with one running from the earliest
// member's start to the end of the last member in start order. Text is
// joined with single spaces in time order; other fields come from the
// earliest member. Returns the merged cue's id, or "" if nothing happened.
func (s *Store) Merge(ids []string) string {
	if len(ids) < 2 {
		return ""
	}
	want := toSet(ids)

	var members []Cue
	for _, c := range s.cues {
		if _, ok := want[c.ID]; ok {
			members = append(members, c)
		}
	}
	if len(members) < 2 {
		return ""
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Start < members[j].Start
	})

	merged := members[0].clone()
	merged.ID = s.newID()
	merged.End = members[len(members)-1].End
	texts := make([]string, len(members))
	for i, m := range members {
		texts[i] = m.Text
	}
	merged.Text = strings.Join(texts, " ")

	kept := s.cues[:0]
	for _, c := range s.cues {
		if _, ok := want[c.ID]; !ok {
			kept = append(kept, c)
		}
	}
	s.cues = kept
	s.insertSorted(merged)
	s.changed()
	return merged.ID
}

// Duplicate copies a cue to start DuplicateGap after the original ends,
// keeping its duration.
func (s *Store) Duplicate(id string) string {
	i := s.indexOf(id)
	if i < 0 {
		return ""
	}
	original := s.cues[i]
	dup := original.clone()
	dup.ID = s.newID()
	dup.Start = original.End + DuplicateGap
	dup.End = dup.Start + original.Duration()
	s.insertSorted(dup)
	s.changed()
	return dup.ID
}

// MoveMany shifts the given cues by delta. Starts are clamped at zero and
// ends are kept at least MinDuration after the new start.
func (s *Store) MoveMany(ids []string, delta int64) {
	want := toSet(ids)
	moved := false
	for i := range s.cues {
		c := &s.cues[i]
		if _, ok := want[c.ID]; !ok {
			continue
		}
		start := c.Start + delta
		if start < 0 {
			start = 0
		}
		end := c.End + delta
		if end < start+MinDuration {
			end = start + MinDuration
		}
		c.Start, c.End = start, end
		moved = true
	}
	if !moved {
		return
	}
	s.resort()
	s.changed()
}

// SetPosition moves a cue on the video frame; coordinates are clamped to 0..100.
func (s *Store) SetPosition(id string, x, y float64) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	c := &s.cues[i]
	if c.Position == nil {
		pos := DefaultPosition()
		c.Position = &pos
	}
	c.Position.X = clampPercent(x)
	c.Position.Y = clampPercent(y)
	s.changed()
}

// PositionOf returns the cue's position, or the default preset when unset or unknown.
func (s *Store) PositionOf(id string) Position {
	i := s.indexOf(id)
	if i < 0 || s.cues[i].Position == nil {
		return DefaultPosition()
	}
	return *s.cues[i].Position
}

// Replace discards every cue and bulk loads the drafts with fresh ids.
func (s *Store) Replace(drafts []Draft) {
	cues := make([]Cue, 0, len(drafts))
	for _, d := range drafts {
		cues = append(cues, s.fromDraft(d))
	}
	s.cues = cues
	s.resort()
	s.changed()
}

// Restore loads previously persisted cues, keeping their ids.
func (s *Store) Restore(cues []Cue) {
	s.cues = make([]Cue, 0, len(cues))
	for _, c := range cues {
		s.cues = append(s.cues, c.clone())
	}
	s.resort()
}

// FindAtTime returns the first cue (in start order) whose range contains t.
func (s *Store) FindAtTime(t int64) (Cue, bool) {
	for _, c := range s.cues {
		if t >= c.Start && t <= c.End {
			return c.clone(), true
		}
	}
	return Cue{}, false
}

func (s *Store) Get(id string) (Cue, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return Cue{}, false
	}
	return s.cues[i].clone(), true
}

func (s *Store) Next(id string) (Cue, bool) {
	i := s.indexOf(id)
	if i < 0 || i >= len(s.cues)-1 {
		return Cue{}, false
	}
	return s.cues[i+1].clone(), true
}

func (s *Store) Prev(id string) (Cue, bool) {
	i := s.indexOf(id)
	if i <= 0 {
		return Cue{}, false
	}
	return s.cues[i-1].clone(), true
}

// Cues returns a deep copy of the ordered list.
func (s *Store) Cues() []Cue {
	out := make([]Cue, len(s.cues))
	for i, c := range s.cues {
		out[i] = c.clone()
	}
	return out
}

func (s *Store) IDs() []string {
	out := make([]string, len(s.cues))
	for i, c := range s.cues {
		out[i] = c.ID
	}
	return out
}

func (s *Store) Len() int {
	return len(s.cues)
}

func (s *Store) Spans() []timeline.Span {
	out := make([]timeline.Span, len(s.cues))
	for i, c := range s.cues {
		out[i] = c.Span()
	}
	return out
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
