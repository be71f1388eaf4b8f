package subtitle

import (
	"strings"
	"testing"

	"github.com/mgpai22/captioner/internal/cue"
)

func TestGenerateSplitsLongSegments(t *testing.T) {
	g := NewDefaultGenerator()
	long := strings.Repeat("word ", 40)

	sub, err := g.Generate([]Segment{
		{Start: 0, End: 2000, Text: "  short line  "},
		{Start: 2000, End: 16000, Text: long},
		{Start: 16000, End: 17000, Text: "   "},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(sub.Entries) < 3 {
		t.Fatalf("expected the long segment to be split, got %d entries", len(sub.Entries))
	}
	if sub.Entries[0].Text != "short line" {
		t.Errorf("entry 0: got %q", sub.Entries[0].Text)
	}
	last := sub.Entries[len(sub.Entries)-1]
	if last.End != 16000 {
		t.Errorf("last entry should end at segment end, got %d", last.End)
	}
	for i, e := range sub.Entries {
		if e.End-e.Start > g.MaxDuration {
			t.Errorf("entry %d exceeds max duration: %d", i, e.End-e.Start)
		}
	}
}

func TestGenerateEnforcesMinDuration(t *testing.T) {
	sub, err := NewDefaultGenerator().Generate([]Segment{
		{Start: 1000, End: 1100, Text: "blink"},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got := sub.Entries[0].End - sub.Entries[0].Start; got != cue.MinDuration {
		t.Errorf("expected duration %d, got %d", cue.MinDuration, got)
	}
}

func TestDraftsCarrySpeaker(t *testing.T) {
	sub := &Subtitle{Entries: []Entry{{Start: 1, End: 600, Text: "x", Speaker: "S"}}}
	d := sub.Drafts()
	if len(d) != 1 || d[0].Speaker != "S" || d[0].Start != 1 || d[0].End != 600 {
		t.Errorf("unexpected drafts %+v", d)
	}
	back := FromCues([]cue.Cue{{ID: "a", Start: 1, End: 600, Text: "x", Speaker: "S"}}, FormatVTT)
	if back.Format != "vtt" || back.Entries[0] != sub.Entries[0] {
		t.Errorf("unexpected subtitle %+v", back)
	}
}

func TestGenerateWrapsAtMiddle(t *testing.T) {
	sub, err := NewDefaultGenerator().Generate([]Segment{
		{Start: 0, End: 4000, Text: "the quick brown fox jumps over the lazy dog again and again"},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(sub.Entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(sub.Entries))
	}
	want := "the quick brown fox jumps over\nthe lazy dog again and again"
	if sub.Entries[0].Text != want {
		t.Errorf("got %q, want %q", sub.Entries[0].Text, want)
	}
}

func TestGenerateSplitsSlowSpeech(t *testing.T) {
	g := NewDefaultGenerator()
	sub, err := g.Generate([]Segment{
		{Start: 0, End: 20000, Text: "one two three four five six"},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(sub.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(sub.Entries))
	}
	wantTexts := []string{"one two", "three four", "five six"}
	var prev int64
	for i, e := range sub.Entries {
		if e.Text != wantTexts[i] {
			t.Errorf("entry %d: got %q, want %q", i, e.Text, wantTexts[i])
		}
		if e.Start != prev {
			t.Errorf("entry %d: starts at %d, previous ended at %d", i, e.Start, prev)
		}
		if e.End-e.Start > g.MaxDuration {
			t.Errorf("entry %d lasts %d", i, e.End-e.Start)
		}
		prev = e.End
	}
	if prev != 20000 {
		t.Errorf("last entry ends at %d", prev)
	}
}

func TestPack(t *testing.T) {
	groups := pack(strings.Fields("aa bb cc dddddddddd e"), 5)
	want := [][]string{{"aa", "bb"}, {"cc"}, {"dddddddddd"}, {"e"}}
	if len(groups) != len(want) {
		t.Fatalf("got %v", groups)
	}
	for i := range want {
		if strings.Join(groups[i], " ") != strings.Join(want[i], " ") {
			t.Errorf("group %d: got %v, want %v", i, groups[i], want[i])
		}
	}
}
