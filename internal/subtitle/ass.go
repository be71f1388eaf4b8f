package subtitle

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingOverrides = regexp.MustCompile(`^(\{[^}]*\})+`)
	anyOverride      = regexp.MustCompile(`\{[^}]*\}`)
)

// one Dialogue line split at the Text column
type assDialogue struct {
	fields []string // columns before Text
	tags   string   // override blocks preceding the text
	text   string   // ASS-escaped text after tags
}

// ASSFile keeps every non-dialogue line of a SubStation Alpha script so
// edited text can be written back without losing styles or positioning.
type ASSFile struct {
	header    []string
	format    []string
	textCol   int
	startCol  int
	endCol    int
	nameCol   int
	dialogues []assDialogue
	trailer   []string
}

// ParseASS reads an ASS/SSA script. Unlike the SRT and VTT readers it fails
// on a missing Events Format line, since dialogue columns cannot be located
// without it.
func ParseASS(content string) (*ASSFile, error) {
	f := &ASSFile{textCol: -1, startCol: -1, endCol: -1, nameCol: -1}
	inEvents := false

	for n, line := range strings.Split(normalizeNewlines(content), "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			inEvents = strings.EqualFold(trimmed, "[events]")
			if len(f.format) > 0 {
				f.trailer = append(f.trailer, line)
			} else {
				f.header = append(f.header, line)
			}
			continue
		}

		if !inEvents {
			if len(f.format) > 0 {
				f.trailer = append(f.trailer, line)
			} else {
				f.header = append(f.header, line)
			}
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "Format:"):
			if err := f.setFormat(strings.TrimPrefix(trimmed, "Format:")); err != nil {
				return nil, err
			}
		case strings.HasPrefix(trimmed, "Dialogue:"):
			if len(f.format) == 0 {
				return nil, fmt.Errorf("dialogue before Format line at line %d", n+1)
			}
			f.dialogues = append(f.dialogues, f.parseDialogue(trimmed))
		case trimmed != "":
			f.trailer = append(f.trailer, line)
		}
	}

	if len(f.format) == 0 {
		return nil, fmt.Errorf("ASS file missing Format line in [Events] section")
	}
	return f, nil
}

func (f *ASSFile) setFormat(format string) error {
	cols := strings.Split(format, ",")
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
		switch strings.ToLower(cols[i]) {
		case "text":
			f.textCol = i
		case "start":
			f.startCol = i
		case "end":
			f.endCol = i
		case "name":
			f.nameCol = i
		}
	}
	if f.textCol != len(cols)-1 {
		return fmt.Errorf("ASS Format line must end with the Text column")
	}
	f.format = cols
	return nil
}

func (f *ASSFile) parseDialogue(line string) assDialogue {
	content := strings.TrimSpace(strings.TrimPrefix(line, "Dialogue:"))
	parts := strings.SplitN(content, ",", len(f.format))
	for len(parts) < len(f.format) {
		parts = append(parts, "")
	}
	raw := parts[f.textCol]
	tags := leadingOverrides.FindString(raw)
	return assDialogue{
		fields: parts[:f.textCol],
		tags:   tags,
		text:   raw[len(tags):],
	}
}

func (f *ASSFile) column(d assDialogue, idx int) string {
	if idx < 0 || idx >= len(d.fields) {
		return ""
	}
	return strings.TrimSpace(d.fields[idx])
}

// parses H:MM:SS.cc; malformed values read as zero
func parseASSTime(ts string) int64 {
	parts := strings.Split(strings.TrimSpace(ts), ":")
	if len(parts) != 3 {
		return 0
	}
	sec := strings.Split(parts[2], ".")
	if len(sec) != 2 {
		return 0
	}
	h, err1 := strconv.ParseInt(parts[0], 10, 64)
	m, err2 := strconv.ParseInt(parts[1], 10, 64)
	s, err3 := strconv.ParseInt(sec[0], 10, 64)
	cs, err4 := strconv.ParseInt(sec[1], 10, 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return 0
	}
	return h*3600000 + m*60000 + s*1000 + cs*10
}

func formatASSTime(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	return fmt.Sprintf("%d:%02d:%02d.%02d",
		ms/3600000, (ms%3600000)/60000, (ms%60000)/1000, (ms%1000)/10)
}

func unescapeASS(text string) string {
	text = anyOverride.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "\\N", "\n")
	text = strings.ReplaceAll(text, "\\n", "\n")
	return strings.ReplaceAll(text, "\\h", " ")
}

func escapeASS(text string) string {
	return strings.ReplaceAll(text, "\n", "\\N")
}

func (f *ASSFile) Format() Format {
	return FormatASS
}

func (f *ASSFile) Subtitle() *Subtitle {
	entries := make([]Entry, len(f.dialogues))
	for i, d := range f.dialogues {
		entries[i] = Entry{
			Start:   parseASSTime(f.column(d, f.startCol)),
			End:     parseASSTime(f.column(d, f.endCol)),
			Text:    unescapeASS(d.text),
			Speaker: f.column(d, f.nameCol),
		}
	}
	return &Subtitle{
		Entries: entries,
		Format:  string(FormatASS),
	}
}

func (f *ASSFile) SetText(index int, text string) error {
	if index < 0 || index >= len(f.dialogues) {
		return fmt.Errorf(
			"index %d out of range (0-%d)",
			index,
			len(f.dialogues)-1,
		)
	}
	f.dialogues[index].text = escapeASS(text)
	return nil
}

// SetTextWithOverlay stacks the translation above the original line,
// keeping the leading override tags.
func (f *ASSFile) SetTextWithOverlay(index int, translated string) error {
	if index < 0 || index >= len(f.dialogues) {
		return fmt.Errorf(
			"index %d out of range (0-%d)",
			index,
			len(f.dialogues)-1,
		)
	}
	d := &f.dialogues[index]
	d.text = escapeASS(translated) + "\\N" + d.text
	return nil
}

func (f *ASSFile) Encode() []byte {
	var sb strings.Builder
	for _, line := range f.header {
		sb.WriteString(line + "\n")
	}
	sb.WriteString("Format: " + strings.Join(f.format, ", ") + "\n")
	for _, d := range f.dialogues {
		fields := append(append([]string(nil), d.fields...), d.tags+d.text)
		sb.WriteString("Dialogue: " + strings.Join(fields, ",") + "\n")
	}
	for _, line := range f.trailer {
		sb.WriteString(line + "\n")
	}
	return []byte(sb.String())
}

func (f *ASSFile) Write(path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, f.Encode(), 0644); err != nil {
		return fmt.Errorf("failed to write ASS file: %w", err)
	}
	return nil
}
