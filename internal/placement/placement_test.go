package placement

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/mgpai22/captioner/internal/timeline"
)

type counter struct{ n int }

func (c *counter) MarkUnsaved() { c.n++ }

func newTestStore() (*Store, *counter) {
	c := &counter{}
	s := NewStore(c)
	next := 0
	s.newID = func() string {
		next++
		return fmt.Sprintf("p%d", next)
	}
	return s, c
}

func TestPlaceSortsAndMarksUnsaved(t *testing.T) {
	s, c := newTestStore()
	sticker := Ref{ID: "s1", Kind: KindSticker}
	s.Place(sticker, 5000, 7000, 50, 50)
	s.Place(sticker, 1000, 2000, 20, 30)
	s.Place(sticker, 3000, 3100, 120, -5)

	items := s.Items()
	var starts []int64
	for _, it := range items {
		starts = append(starts, it.Start)
	}
	if !reflect.DeepEqual(starts, []int64{1000, 3000, 5000}) {
		t.Errorf("starts got %v, want sorted", starts)
	}
	if c.n != 3 {
		t.Errorf("MarkUnsaved called %d times, want 3", c.n)
	}

	short := items[1]
	if short.End != 3500 {
		t.Errorf("short placement end got %d, want 3500", short.End)
	}
	if short.Position.X != 100 || short.Position.Y != 0 || short.Position.Scale != 1 {
		t.Errorf("position got %+v", short.Position)
	}
	if short.Volume != 0 {
		t.Errorf("sticker volume got %v, want 0", short.Volume)
	}
}

func TestPlaceBeside(t *testing.T) {
	clip := Ref{ID: "b1", Kind: KindBroll, Duration: 8000}
	tests := []struct {
		name      string
		span      timeline.Span
		wantStart int64
		wantEnd   int64
	}{
		{name: "padded", span: timeline.Span{Start: 2000, End: 4000}, wantStart: 1500, wantEnd: 4500},
		{name: "clamped keeps duration", span: timeline.Span{Start: 200, End: 1000}, wantStart: 0, wantEnd: 1800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore()
			id := s.PlaceBeside(clip, tt.span, DefaultBrollPadding, DefaultBrollPadding)
			p, ok := s.Get(id)
			if !ok {
				t.Fatal("placement not found")
			}
			if p.Start != tt.wantStart || p.End != tt.wantEnd {
				t.Errorf("got [%d, %d], want [%d, %d]", p.Start, p.End, tt.wantStart, tt.wantEnd)
			}
			if p.Volume != DefaultBrollVolume {
				t.Errorf("volume got %v, want %v", p.Volume, DefaultBrollVolume)
			}
		})
	}
}

func TestSetVolumeClamps(t *testing.T) {
	s, _ := newTestStore()
	id := s.Place(Ref{Kind: KindBroll}, 0, 1000, 50, 50)
	for _, tt := range []struct{ in, want float64 }{{-1, 0}, {0.4, 0.4}, {3, 1}} {
		s.SetVolume(id, tt.in)
		p, _ := s.Get(id)
		if p.Volume != tt.want {
			t.Errorf("SetVolume(%v) got %v, want %v", tt.in, p.Volume, tt.want)
		}
	}
}

func TestSetTimingResorts(t *testing.T) {
	s, _ := newTestStore()
	a := s.Place(Ref{}, 1000, 2000, 50, 50)
	s.Place(Ref{}, 3000, 4000, 50, 50)

	s.SetTiming(a, 5000, 5100)
	items := s.Items()
	if items[1].ID != a {
		t.Fatalf("moved placement should sort last, got %v", items)
	}
	if items[1].End != 5500 {
		t.Errorf("end got %d, want 5500", items[1].End)
	}
}

func TestAtTimeReturnsAllMatches(t *testing.T) {
	s, _ := newTestStore()
	s.Place(Ref{ID: "a"}, 0, 5000, 50, 50)
	s.Place(Ref{ID: "b"}, 2000, 3000, 50, 50)
	s.Place(Ref{ID: "c"}, 6000, 7000, 50, 50)

	got := s.AtTime(2500)
	if len(got) != 2 {
		t.Fatalf("AtTime(2500) got %d items, want 2", len(got))
	}
	if len(s.AtTime(5500)) != 0 {
		t.Error("AtTime in a gap should be empty")
	}
}

func TestUnknownIDsAreNoops(t *testing.T) {
	s, c := newTestStore()
	s.SetVolume("missing", 1)
	s.SetTiming("missing", 0, 1)
	s.SetPosition("missing", 1, 1, 1)
	s.Remove("missing")
	if c.n != 0 {
		t.Errorf("MarkUnsaved called %d times for unknown ids", c.n)
	}
}

func TestRemove(t *testing.T) {
	s, _ := newTestStore()
	id := s.Place(Ref{}, 0, 1000, 50, 50)
	s.Remove(id)
	if s.Len() != 0 {
		t.Errorf("Len got %d, want 0", s.Len())
	}
}
