package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// parsed subtitle file that preserves format specific metadata
type File interface {
	Format() Format
	Subtitle() *Subtitle
	SetText(index int, text string) error
	Write(path string) error
}

func Open(path string) (File, error) {
	ext := strings.ToLower(filepath.Ext(path))
	format, ok := formatForExtension(ext)
	if !ok {
		return nil, fmt.Errorf("unsupported subtitle format: %s", ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}
	return Parse(string(data), format)
}

// Parse decodes subtitle text that did not come from a file, such as an
// upload body or clipboard contents.
func Parse(content string, format Format) (File, error) {
	switch format {
	case FormatSRT:
		return &SRTFile{entries: ParseSRT(content)}, nil
	case FormatVTT:
		return &VTTFile{entries: ParseVTT(content)}, nil
	case FormatASS:
		return ParseASS(content)
	default:
		return nil, fmt.Errorf("unsupported subtitle format: %s", format)
	}
}

func formatForExtension(ext string) (Format, bool) {
	switch ext {
	case ".srt":
		return FormatSRT, true
	case ".vtt":
		return FormatVTT, true
	case ".ass", ".ssa":
		return FormatASS, true
	default:
		return "", false
	}
}
