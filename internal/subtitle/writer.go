package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SubRip format
type SRTWriter struct{}

// WebVTT format
type VTTWriter struct{}

// Advanced SubStation Alpha format
type ASSWriter struct {
	Title    string
	FontName string
	FontSize int
}

func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	case FormatASS:
		return &ASSWriter{
			Title:    "Captioner Export",
			FontName: "Arial",
			FontSize: 20,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// speakers are written as a "[Name] " prefix so ParseSRT reads them back
func (w *SRTWriter) Encode(sub *Subtitle) []byte {
	var sb strings.Builder
	for i, entry := range sub.Entries {
		fmt.Fprintf(&sb, "%d\n", i+1)
		fmt.Fprintf(&sb, "%s --> %s\n", FormatSRTTime(entry.Start), FormatSRTTime(entry.End))
		sb.WriteString(withSpeaker(entry))
		sb.WriteString("\n\n")
	}
	return []byte(sb.String())
}

func (w *SRTWriter) Write(sub *Subtitle, path string) error {
	return writeFile(path, w.Encode(sub))
}

func (w *VTTWriter) Encode(sub *Subtitle) []byte {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")
	for i, entry := range sub.Entries {
		fmt.Fprintf(&sb, "%d\n", i+1)
		fmt.Fprintf(&sb, "%s --> %s\n", FormatVTTTime(entry.Start), FormatVTTTime(entry.End))
		if entry.Speaker != "" {
			sb.WriteString("<v " + entry.Speaker + ">")
		}
		sb.WriteString(entry.Text)
		sb.WriteString("\n\n")
	}
	return []byte(sb.String())
}

func (w *VTTWriter) Write(sub *Subtitle, path string) error {
	return writeFile(path, w.Encode(sub))
}

func (w *ASSWriter) Encode(sub *Subtitle) []byte {
	var sb strings.Builder

	sb.WriteString("[Script Info]\n")
	fmt.Fprintf(&sb, "Title: %s\n", w.Title)
	sb.WriteString("ScriptType: v4.00+\n")
	sb.WriteString("Collisions: Normal\n")
	sb.WriteString("PlayDepth: 0\n\n")

	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(&sb, "Style: Default,%s,%d,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1\n\n",
		w.FontName, w.FontSize)

	sb.WriteString("[Events]\n")
	sb.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, entry := range sub.Entries {
		fmt.Fprintf(&sb, "Dialogue: 0,%s,%s,Default,%s,0,0,0,,%s\n",
			formatASSTime(entry.Start),
			formatASSTime(entry.End),
			strings.ReplaceAll(entry.Speaker, ",", " "),
			escapeASS(entry.Text))
	}
	return []byte(sb.String())
}

func (w *ASSWriter) Write(sub *Subtitle, path string) error {
	return writeFile(path, w.Encode(sub))
}

func writeFile(path string, data []byte) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write subtitle file: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// subtitle format based on file extension, SRT when unknown
func GetFormatFromExtension(path string) Format {
	if format, ok := formatForExtension(strings.ToLower(filepath.Ext(path))); ok {
		return format
	}
	return FormatSRT
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatVTT:
		return ".vtt"
	case FormatASS:
		return ".ass"
	default:
		return ".srt"
	}
}

// ParseFormat accepts a user supplied format name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "srt":
		return FormatSRT, nil
	case "vtt", "webvtt":
		return FormatVTT, nil
	case "ass", "ssa":
		return FormatASS, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use srt, vtt, or ass)", name)
	}
}
