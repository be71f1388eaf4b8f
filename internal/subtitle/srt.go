package subtitle

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	blockSeparator = regexp.MustCompile(`\n\s*\n`)
	srtTimecode    = regexp.MustCompile(
		`(\d{2}):(\d{2}):(\d{2}),(\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2}),(\d{3})`,
	)
	speakerPrefix = regexp.MustCompile(`^\[([^\]]+)\]\s*(.*)$`)
	leadingIndex  = regexp.MustCompile(`^[+-]?\d+`)
)

type SRTFile struct {
	entries []Entry
}

// ParseSRT reads SubRip text leniently. Blocks with fewer than three lines, a
// non-numeric index or a malformed timecode are skipped. A leading "[Name]"
// on the text becomes the entry's speaker. Entries are sorted by start.
func ParseSRT(content string) []Entry {
	var entries []Entry
	for _, block := range splitBlocks(content) {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 3 {
			continue
		}
		if !hasIndex(lines[0]) {
			continue
		}
		start, end, ok := parseSRTTimecode(lines[1])
		if !ok {
			continue
		}
		speaker, text := splitSpeaker(strings.TrimSpace(strings.Join(lines[2:], "\n")))
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

// ValidateSRT reports every malformed block. An empty result means the
// content parses cleanly.
func ValidateSRT(content string) []string {
	if strings.TrimSpace(normalizeNewlines(content)) == "" {
		return []string{"subtitle file is empty"}
	}
	var problems []string
	for i, block := range splitBlocks(content) {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 3 {
			problems = append(problems, fmt.Sprintf("block %d: not enough lines", i+1))
			continue
		}
		if !hasIndex(lines[0]) {
			problems = append(problems, fmt.Sprintf("block %d: invalid index", i+1))
		}
		if _, _, ok := parseSRTTimecode(lines[1]); !ok {
			problems = append(problems, fmt.Sprintf("block %d: invalid timecode", i+1))
		}
	}
	return problems
}

// FormatSRTTime renders milliseconds as HH:MM:SS,mmm.
func FormatSRTTime(ms int64) string {
	return formatClock(ms, ',')
}

func formatClock(ms int64, sep byte) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3600000
	minutes := (ms % 3600000) / 60000
	seconds := (ms % 60000) / 1000
	millis := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, seconds, sep, millis)
}

func splitBlocks(content string) []string {
	content = strings.TrimSpace(normalizeNewlines(content))
	if content == "" {
		return nil
	}
	return blockSeparator.Split(content, -1)
}

func normalizeNewlines(content string) string {
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}

func hasIndex(line string) bool {
	return leadingIndex.MatchString(strings.TrimSpace(line))
}

func parseSRTTimecode(line string) (int64, int64, bool) {
	m := srtTimecode.FindStringSubmatch(line)
	if m == nil {
		return 0, 0, false
	}
	return clockMillis(m[1], m[2], m[3], m[4]), clockMillis(m[5], m[6], m[7], m[8]), true
}

// the regexes only hand digit runs to this, so parsing cannot fail
func clockMillis(hours, minutes, seconds, millis string) int64 {
	h, _ := strconv.ParseInt(hours, 10, 64)
	m, _ := strconv.ParseInt(minutes, 10, 64)
	s, _ := strconv.ParseInt(seconds, 10, 64)
	ms, _ := strconv.ParseInt(millis, 10, 64)
	return h*3600000 + m*60000 + s*1000 + ms
}

func splitSpeaker(text string) (string, string) {
	m := speakerPrefix.FindStringSubmatch(text)
	if m == nil {
		return "", strings.TrimSpace(text)
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
}

func withSpeaker(e Entry) string {
	if e.Speaker == "" {
		return e.Text
	}
	return "[" + e.Speaker + "] " + e.Text
}

func (f *SRTFile) Format() Format {
	return FormatSRT
}

func (f *SRTFile) Subtitle() *Subtitle {
	return &Subtitle{
		Entries: f.entries,
		Format:  string(FormatSRT),
	}
}

func (f *SRTFile) SetText(index int, text string) error {
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

func (f *SRTFile) Write(path string) error {
	return (&SRTWriter{}).Write(f.Subtitle(), path)
}
