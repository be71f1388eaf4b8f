package cue

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

type countingNotifier struct {
	calls int
}

func (n *countingNotifier) MarkUnsaved() {
	n.calls++
}

func sequentialIDs() Option {
	next := 0
	return WithIDGenerator(func() string {
		next++
		return fmt.Sprintf("c%d", next)
	})
}

func assertSorted(t *testing.T, s *Store) {
	t.Helper()
	cues := s.Cues()
	for i := 1; i < len(cues); i++ {
		if cues[i].Start < cues[i-1].Start {
			t.Fatalf(
				"cues not sorted at %d: %d after %d",
				i,
				cues[i].Start,
				cues[i-1].Start,
			)
		}
	}
}

func TestAddInsertsSortedWithDefaultPosition(t *testing.T) {
	n := &countingNotifier{}
	s := NewStore(n, sequentialIDs())

	s.Add(Draft{Start: 5000, End: 6000, Text: "third"})
	s.Add(Draft{Start: 1000, End: 2000, Text: "first"})
	s.Add(Draft{Start: 3000, End: 4000, Text: "second"})
	s.Add(Draft{Start: 3000, End: 3500, Text: "second-tie"})

	got := s.Cues()
	want := []string{"first", "second", "second-tie", "third"}
	for i, w := range want {
		if got[i].Text != w {
			t.Errorf("cue %d: got %q, want %q", i, got[i].Text, w)
		}
	}
	if got[0].Position == nil || *got[0].Position != DefaultPosition() {
		t.Errorf("expected default position, got %+v", got[0].Position)
	}
	if n.calls != 4 {
		t.Errorf("expected 4 notifications, got %d", n.calls)
	}
}

func TestAddToleratesOverlap(t *testing.T) {
	s := NewStore(nil)
	s.Add(Draft{Start: 1000, End: 5000, Text: "a"})
	s.Add(Draft{Start: 2000, End: 3000, Text: "b"})
	if s.Len() != 2 {
		t.Fatalf("expected 2 cues, got %d", s.Len())
	}
}

func TestUpdateMissingIDIsNoop(t *testing.T) {
	n := &countingNotifier{}
	s := NewStore(n)
	text := "x"
	s.Update("missing", Patch{Text: &text})
	if n.calls != 0 {
		t.Errorf("expected no notification, got %d", n.calls)
	}
}

func TestUpdateTimingResorts(t *testing.T) {
	s := NewStore(nil, sequentialIDs())
	a := s.Add(Draft{Start: 1000, End: 2000, Text: "a"})
	s.Add(Draft{Start: 3000, End: 4000, Text: "b"})

	start := int64(5000)
	s.Update(a, Patch{Start: &start})

	cues := s.Cues()
	if cues[1].ID != a {
		t.Fatalf("expected %s last after retime, got order %v", a, s.IDs())
	}
	if cues[1].End != start+MinDuration {
		t.Errorf("end not clamped: got %d, want %d", cues[1].End, start+MinDuration)
	}
}

func TestUpdateTextDoesNotResort(t *testing.T) {
	s := NewStore(nil, sequentialIDs())
	s.Add(Draft{Start: 1000, End: 2000, Text: "a"})
	b := s.Add(Draft{Start: 3000, End: 4000, Text: "b"})
	text := "changed"
	s.Update(b, Patch{Text: &text})
	got, _ := s.Get(b)
	if got.Text != "changed" {
		t.Errorf("got %q, want %q", got.Text, "changed")
	}
}

func TestDeleteMany(t *testing.T) {
	s := NewStore(nil, sequentialIDs())
	a := s.Add(Draft{Start: 0, End: 1000, Text: "a"})
	b := s.Add(Draft{Start: 1000, End: 2000, Text: "b"})
	c := s.Add(Draft{Start: 2000, End: 3000, Text: "c"})

	s.DeleteMany([]string{a, c, "missing"})
	ids := s.IDs()
	if len(ids) != 1 || ids[0] != b {
		t.Errorf("got %v, want [%s]", ids, b)
	}

	s.Delete("missing")
	if s.Len() != 1 {
		t.Errorf("delete of missing id changed store")
	}
}

func TestSplit(t *testing.T) {
	s := NewStore(nil, sequentialIDs())
	id := s.Add(Draft{Start: 1000, End: 3000, Text: "AB", Speaker: "Ann"})

	second := s.Split(id, 2000)
	if second == "" {
		t.Fatal("split returned no id")
	}

	cues := s.Cues()
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].Start != 1000 || cues[0].End != 2000 || cues[0].Text != "AB" {
		t.Errorf("first half wrong: %+v", cues[0])
	}
	if cues[1].Start != 2000 || cues[1].End != 3000 || cues[1].Text != "AB" {
		t.Errorf("second half wrong: %+v", cues[1])
	}
	if cues[1].Speaker != "Ann" {
		t.Errorf("second half lost speaker: %+v", cues[1])
	}
	if cues[1].ID == id {
		t.Errorf("second half reused id %s", id)
	}
}

func TestSplitAtBoundariesIsNoop(t *testing.T) {
	for _, at := range []int64{1000, 3000, 500, 4000} {
		t.Run(fmt.Sprint(at), func(t *testing.T) {
			n := &countingNotifier{}
			s := NewStore(n)
			id := s.Add(Draft{Start: 1000, End: 3000, Text: "AB"})
			before := s.Cues()

			if got := s.Split(id, at); got != "" {
				t.Errorf("split at %d returned %q", at, got)
			}
			after := s.Cues()
			if len(after) != 1 || after[0].Start != before[0].Start || after[0].End != before[0].End {
				t.Errorf("split at %d mutated store: %+v", at, after)
			}
			if n.calls != 1 {
				t.Errorf("expected only the add notification, got %d", n.calls)
			}
		})
	}
}

func TestSplitThenMergeConcatenatesText(t *testing.T) {
	s := NewStore(nil)
	id := s.Add(Draft{Start: 1000, End: 3000, Text: "AB"})
	second := s.Split(id, 2000)

	merged := s.Merge([]string{second, id})
	if merged == "" {
		t.Fatal("merge returned no id")
	}
	cues := s.Cues()
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	if cues[0].Start != 1000 || cues[0].End != 3000 {
		t.Errorf("got [%d,%d], want [1000,3000]", cues[0].Start, cues[0].End)
	}
	if cues[0].Text != "AB AB" {
		t.Errorf("got %q, want %q", cues[0].Text, "AB AB")
	}
}

func TestMergeKeepsTimeOrderRegardlessOfIDOrder(t *testing.T) {
	s := NewStore(nil)
	a := s.Add(Draft{Start: 0, End: 1000, Text: "one", Speaker: "first"})
	b := s.Add(Draft{Start: 1000, End: 2000, Text: "two", Speaker: "second"})
	c := s.Add(Draft{Start: 2000, End: 3000, Text: "three"})
	s.Add(Draft{Start: 500, End: 2500, Text: "other"})

	s.Merge([]string{c, a, b})

	cues := s.Cues()
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	var merged Cue
	for _, cu := range cues {
		if strings.Contains(cu.Text, "one") {
			merged = cu
		}
	}
	if merged.Text != "one two three" {
		t.Errorf("got %q, want %q", merged.Text, "one two three")
	}
	if merged.Speaker != "first" {
		t.Errorf("fields should come from earliest member, got speaker %q", merged.Speaker)
	}
	if merged.Start != 0 || merged.End != 3000 {
		t.Errorf("got [%d,%d], want [0,3000]", merged.Start, merged.End)
	}
	assertSorted(t, s)
}

func TestMergeEndsAtLastMemberInStartOrder(t *testing.T) {
	s := NewStore(nil)
	outer := s.Add(Draft{Start: 0, End: 5000, Text: "outer"})
	inner := s.Add(Draft{Start: 1000, End: 2000, Text: "inner"})

	merged := s.Merge([]string{outer, inner})
	c, ok := s.Get(merged)
	if !ok {
		t.Fatal("merged cue not found")
	}
	if c.Start != 0 || c.End != 2000 {
		t.Errorf("got [%d,%d], want [0,2000]", c.Start, c.End)
	}
	if c.Text != "outer inner" {
		t.Errorf("got %q, want %q", c.Text, "outer inner")
	}
}

func TestMergeNeedsTwoMatches(t *testing.T) {
	s := NewStore(nil)
	a := s.Add(Draft{Start: 0, End: 1000, Text: "one"})

	if got := s.Merge([]string{a}); got != "" {
		t.Errorf("single id merge returned %q", got)
	}
	if got := s.Merge([]string{a, "missing"}); got != "" {
		t.Errorf("merge with one match returned %q", got)
	}
	if s.Len() != 1 {
		t.Errorf("store changed: %d cues", s.Len())
	}
}

func TestDuplicate(t *testing.T) {
	s := NewStore(nil)
	id := s.Add(Draft{Start: 1000, End: 3000, Text: "Hello"})

	dup := s.Duplicate(id)
	got, ok := s.Get(dup)
	if !ok {
		t.Fatal("duplicate not found")
	}
	if got.Start != 3100 || got.End != 5100 || got.Text != "Hello" {
		t.Errorf("got {%d %d %q}, want {3100 5100 Hello}", got.Start, got.End, got.Text)
	}
	if s.Duplicate("missing") != "" {
		t.Error("duplicate of missing id should be a no-op")
	}
}

func TestMoveMany(t *testing.T) {
	tests := []struct {
		name               string
		start, end, delta  int64
		wantStart, wantEnd int64
	}{
		{"clamped start keeps delta on end", 1000, 3000, -2000, 0, 2000},
		{"end held at min duration", 1000, 1600, -1500, 0, 500},
		{"forward", 1000, 3000, 500, 1500, 3500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(nil)
			id := s.Add(Draft{Start: tt.start, End: tt.end, Text: "x"})
			s.MoveMany([]string{id}, tt.delta)
			got, _ := s.Get(id)
			if got.Start != tt.wantStart || got.End != tt.wantEnd {
				t.Errorf(
					"got [%d,%d], want [%d,%d]",
					got.Start,
					got.End,
					tt.wantStart,
					tt.wantEnd,
				)
			}
		})
	}
}

func TestSortInvariantAcrossOperations(t *testing.T) {
	s := NewStore(nil)
	ids := []string{
		s.Add(Draft{Start: 4000, End: 6000, Text: "d"}),
		s.Add(Draft{Start: 1000, End: 3000, Text: "a"}),
		s.Add(Draft{Start: 2000, End: 2600, Text: "b"}),
	}
	assertSorted(t, s)

	s.Split(ids[0], 5000)
	assertSorted(t, s)

	s.Duplicate(ids[1])
	assertSorted(t, s)

	s.MoveMany([]string{ids[0]}, -3500)
	assertSorted(t, s)

	s.Merge([]string{ids[1], ids[2]})
	assertSorted(t, s)

	s.MoveMany(s.IDs()[:1], 10000)
	assertSorted(t, s)

	outer := s.Add(Draft{Start: 20000, End: 25000, Text: "outer"})
	s.Add(Draft{Start: 21000, End: 22000, Text: "inner"})
	s.Split(outer, 23000)
	assertSorted(t, s)
}

func TestSplitAroundNestedCue(t *testing.T) {
	s := NewStore(nil)
	outer := s.Add(Draft{Start: 0, End: 5000, Text: "outer"})
	inner := s.Add(Draft{Start: 1000, End: 2000, Text: "inner"})
	later := s.Add(Draft{Start: 3000, End: 4000, Text: "later"})

	second := s.Split(outer, 3000)
	if second == "" {
		t.Fatal("split returned no id")
	}
	assertSorted(t, s)

	want := []string{outer, inner, second, later}
	if got := s.IDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("order got %v, want %v", got, want)
	}

	c, ok := s.FindAtTime(3500)
	if !ok || c.ID != second {
		t.Errorf("FindAtTime(3500) got %q, want %q", c.ID, second)
	}
}

func TestFindAtTime(t *testing.T) {
	s := NewStore(nil)
	s.Add(Draft{Start: 1000, End: 3000, Text: "first"})
	s.Add(Draft{Start: 2000, End: 4000, Text: "overlap"})

	tests := []struct {
		at   int64
		want string
		ok   bool
	}{
		{999, "", false},
		{1000, "first", true},
		{2500, "first", true},
		{3000, "first", true},
		{3001, "overlap", true},
		{4000, "overlap", true},
		{4001, "", false},
	}
	for _, tt := range tests {
		got, ok := s.FindAtTime(tt.at)
		if ok != tt.ok || got.Text != tt.want {
			t.Errorf("FindAtTime(%d) = %q,%v want %q,%v", tt.at, got.Text, ok, tt.want, tt.ok)
		}
	}
}

func TestNextPrev(t *testing.T) {
	s := NewStore(nil)
	a := s.Add(Draft{Start: 0, End: 1000, Text: "a"})
	b := s.Add(Draft{Start: 1000, End: 2000, Text: "b"})

	if got, ok := s.Next(a); !ok || got.ID != b {
		t.Errorf("Next(a) = %v,%v", got.ID, ok)
	}
	if _, ok := s.Next(b); ok {
		t.Error("Next(last) should be empty")
	}
	if got, ok := s.Prev(b); !ok || got.ID != a {
		t.Errorf("Prev(b) = %v,%v", got.ID, ok)
	}
	if _, ok := s.Prev(a); ok {
		t.Error("Prev(first) should be empty")
	}
}

func TestSetPositionClamps(t *testing.T) {
	s := NewStore(nil)
	id := s.Add(Draft{Start: 0, End: 1000, Text: "a"})
	s.SetPosition(id, -5, 140)
	pos := s.PositionOf(id)
	if pos.X != 0 || pos.Y != 100 {
		t.Errorf("got %+v, want x=0 y=100", pos)
	}
	if pos.Scale != 1 {
		t.Errorf("scale should keep default, got %v", pos.Scale)
	}
	if got := s.PositionOf("missing"); got != DefaultPosition() {
		t.Errorf("missing id should report default, got %+v", got)
	}
}

func TestCuesAreCopies(t *testing.T) {
	s := NewStore(nil)
	id := s.Add(Draft{Start: 0, End: 1000, Text: "a"})
	cues := s.Cues()
	cues[0].Text = "mutated"
	cues[0].Position.X = 1

	got, _ := s.Get(id)
	if got.Text != "a" || got.Position.X != 50 {
		t.Errorf("store state leaked through copy: %+v", got)
	}
}

func TestReplaceSortsAndAssignsIDs(t *testing.T) {
	s := NewStore(nil)
	s.Replace([]Draft{
		{Start: 3000, End: 4000, Text: "b"},
		{Start: 1000, End: 2000, Text: "a"},
	})
	cues := s.Cues()
	if cues[0].Text != "a" || cues[1].Text != "b" {
		t.Errorf("got %q,%q", cues[0].Text, cues[1].Text)
	}
	if cues[0].ID == "" || cues[0].ID == cues[1].ID {
		t.Errorf("ids not assigned uniquely: %q %q", cues[0].ID, cues[1].ID)
	}
}
