package subtitle

import (
	"strings"
	"unicode/utf8"

	"github.com/mgpai22/captioner/internal/cue"
)

// DefaultGenerator turns transcription segments into readable cues: at most
// MaxLinesPerSub lines of MaxCharsPerLine runes, shown for no longer than
// MaxDuration and no shorter than MinDuration.
type DefaultGenerator struct {
	MaxCharsPerLine int
	MaxLinesPerSub  int
	MinDuration     int64
	MaxDuration     int64
}

func NewDefaultGenerator() *DefaultGenerator {
	return &DefaultGenerator{
		MaxCharsPerLine: 42,
		MaxLinesPerSub:  2,
		MinDuration:     cue.MinDuration,
		MaxDuration:     7000,
	}
}

func (g *DefaultGenerator) Generate(segments []Segment) (*Subtitle, error) {
	sub := &Subtitle{Entries: []Entry{}, Format: string(FormatSRT)}
	for _, seg := range segments {
		words := strings.Fields(seg.Text)
		if len(words) == 0 {
			continue
		}
		for _, e := range g.cut(seg, words) {
			sub.Entries = append(sub.Entries, g.padded(e))
		}
	}
	return sub, nil
}

// cut breaks one segment into pieces that each fit a cue. Time is shared out
// by character count, or evenly when the span alone forces the split.
func (g *DefaultGenerator) cut(seg Segment, words []string) []Entry {
	groups := pack(words, g.MaxCharsPerLine*g.MaxLinesPerSub)
	span := seg.End - seg.Start

	byTime := 0
	if g.MaxDuration > 0 && span > g.MaxDuration {
		byTime = int((span + g.MaxDuration - 1) / g.MaxDuration)
	}
	if byTime > len(groups) {
		groups = spread(words, byTime)
	}

	ends := shareByChars(groups, seg.Start, span)
	if byTime > 0 && exceeds(ends, seg.Start, g.MaxDuration) {
		ends = shareEvenly(len(groups), seg.Start, span)
	}

	entries := make([]Entry, len(groups))
	start := seg.Start
	for i, group := range groups {
		entries[i] = Entry{Start: start, End: ends[i], Text: g.wrap(group)}
		start = ends[i]
	}
	return entries
}

func (g *DefaultGenerator) padded(e Entry) Entry {
	if e.Start < 0 {
		e.Start = 0
	}
	if e.End-e.Start < g.MinDuration {
		e.End = e.Start + g.MinDuration
	}
	return e
}

// wrap puts the words on two lines split nearest the middle when they do not
// fit on one.
func (g *DefaultGenerator) wrap(words []string) string {
	text := strings.Join(words, " ")
	total := utf8.RuneCountInString(text)
	if total <= g.MaxCharsPerLine || len(words) < 2 {
		return text
	}

	best, bestGap := 1, total
	left := -1
	for i := 1; i < len(words); i++ {
		left += utf8.RuneCountInString(words[i-1]) + 1
		right := total - left - 1
		gap := left - right
		if gap < 0 {
			gap = -gap
		}
		if gap < bestGap {
			best, bestGap = i, gap
		}
	}
	return strings.Join(words[:best], " ") + "\n" + strings.Join(words[best:], " ")
}

// pack fills groups greedily up to limit runes. A single word longer than
// the limit gets a group of its own.
func pack(words []string, limit int) [][]string {
	var (
		groups [][]string
		cur    []string
		size   int
	)
	for _, w := range words {
		n := utf8.RuneCountInString(w)
		if len(cur) > 0 && size+1+n > limit {
			groups = append(groups, cur)
			cur, size = nil, 0
		}
		if len(cur) > 0 {
			size++
		}
		cur = append(cur, w)
		size += n
	}
	if len(cur) > 0 {
		groups = append(groups, cur)
	}
	return groups
}

// spread deals words into n groups of near equal word count.
func spread(words []string, n int) [][]string {
	if n > len(words) {
		n = len(words)
	}
	groups := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		lo := i * len(words) / n
		hi := (i + 1) * len(words) / n
		groups = append(groups, words[lo:hi])
	}
	return groups
}

func shareByChars(groups [][]string, start, span int64) []int64 {
	weights := make([]int64, len(groups))
	var total int64
	for i, group := range groups {
		weights[i] = int64(utf8.RuneCountInString(strings.Join(group, " ")))
		total += weights[i]
	}

	ends := make([]int64, len(groups))
	var acc int64
	for i, w := range weights {
		acc += w
		ends[i] = start + span*acc/total
	}
	ends[len(ends)-1] = start + span
	return ends
}

func shareEvenly(n int, start, span int64) []int64 {
	ends := make([]int64, n)
	for i := range ends {
		ends[i] = start + span*int64(i+1)/int64(n)
	}
	return ends
}

func exceeds(ends []int64, start, limit int64) bool {
	prev := start
	for _, end := range ends {
		if end-prev > limit {
			return true
		}
		prev = end
	}
	return false
}
