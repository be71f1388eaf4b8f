package subtitle

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	vttTimecode = regexp.MustCompile(
		`(?:(\d{2,}):)?(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(?:(\d{2,}):)?(\d{2}):(\d{2})\.(\d{3})`,
	)
	voiceSpan = regexp.MustCompile(`^<v(?:\.[^ >]*)?\s+([^>]+)>\s*(.*?)(?:</v>)?$`)
)

type VTTFile struct {
	entries []Entry
}

// ParseVTT reads WebVTT text with the same skip semantics as ParseSRT. The
// cue identifier line is optional and NOTE, STYLE and REGION blocks are
// ignored. Speakers come from a <v Name> voice span or a leading "[Name]".
func ParseVTT(content string) []Entry {
	var entries []Entry
	for i, block := range splitBlocks(content) {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		head := strings.TrimSpace(lines[0])
		if i == 0 && strings.HasPrefix(head, "WEBVTT") {
			continue
		}
		if isVTTMetaBlock(head) {
			continue
		}

		timing := 0
		if !vttTimecode.MatchString(lines[0]) {
			timing = 1
		}
		if timing >= len(lines)-1 {
			continue
		}
		start, end, ok := parseVTTTimecode(lines[timing])
		if !ok {
			continue
		}
		speaker, text := splitVoice(strings.TrimSpace(strings.Join(lines[timing+1:], "\n")))
		entries = append(entries, Entry{
			Start:   start,
			End:     end,
			Text:    text,
			Speaker: speaker,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Start < entries[j].Start
	})
	return entries
}

func isVTTMetaBlock(head string) bool {
	for _, kw := range []string{"NOTE", "STYLE", "REGION"} {
		if head == kw || strings.HasPrefix(head, kw+" ") {
			return true
		}
	}
	return false
}

func parseVTTTimecode(line string) (int64, int64, bool) {
	m := vttTimecode.FindStringSubmatch(line)
	if m == nil {
		return 0, 0, false
	}
	return clockMillis(orZero(m[1]), m[2], m[3], m[4]), clockMillis(orZero(m[5]), m[6], m[7], m[8]), true
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

func splitVoice(text string) (string, string) {
	if m := voiceSpan.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return splitSpeaker(text)
}

// FormatVTTTime renders milliseconds as HH:MM:SS.mmm.
func FormatVTTTime(ms int64) string {
	return formatClock(ms, '.')
}

func (f *VTTFile) Format() Format {
	return FormatVTT
}

func (f *VTTFile) Subtitle() *Subtitle {
	return &Subtitle{
		Entries: f.entries,
		Format:  string(FormatVTT),
	}
}

func (f *VTTFile) SetText(index int, text string) error {
	if index < 0 || index >= len(f.entries) {
		return fmt.Errorf(
			"index %d out of range (0-%d)",
			index,
			len(f.entries)-1,
		)
	}
	f.entries[index].Text = text
	return nil
}

func (f *VTTFile) Write(path string) error {
	return (&VTTWriter{}).Write(f.Subtitle(), path)
}
