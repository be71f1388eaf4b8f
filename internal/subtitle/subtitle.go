package subtitle

import (
	"github.com/mgpai22/captioner/internal/cue"
)

// represents single subtitle entry, times in milliseconds
type Entry struct {
	Start   int64
	End     int64
	Text    string
	Speaker string
}

// represents complete subtitle track
type Subtitle struct {
	Entries  []Entry
	Language string
	Format   string
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
	FormatASS Format = "ass"
)

// interface for subtitle generation
type Generator interface {
	Generate(segments []Segment) (*Subtitle, error)
}

// represents transcribed audio segment
type Segment struct {
	Start int64
	End   int64
	Text  string
}

// interface for serializing subtitles
type Writer interface {
	Encode(subtitle *Subtitle) []byte
	Write(subtitle *Subtitle, path string) error
}

// Drafts converts parsed entries into cue drafts ready for cue.Store.Replace.
func (s *Subtitle) Drafts() []cue.Draft {
	drafts := make([]cue.Draft, len(s.Entries))
	for i, e := range s.Entries {
		drafts[i] = cue.Draft{
			Start:   e.Start,
			End:     e.End,
			Text:    e.Text,
			Speaker: e.Speaker,
		}
	}
	return drafts
}

// FromCues builds a track from edited cues, preserving their order.
func FromCues(cues []cue.Cue, format Format) *Subtitle {
	entries := make([]Entry, len(cues))
	for i, c := range cues {
		entries[i] = Entry{
			Start:   c.Start,
			End:     c.End,
			Text:    c.Text,
			Speaker: c.Speaker,
		}
	}
	return &Subtitle{Entries: entries, Format: string(format)}
}
