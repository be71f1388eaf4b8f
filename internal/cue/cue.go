package cue

import (
	"github.com/mgpai22/captioner/internal/timeline"
)

const (
	MinDuration   int64 = 500   // ms
	MaxDuration   int64 = 10000 // ms
	MaxTextLength       = 200   // runes
	DuplicateGap  int64 = 100   // ms between a cue and its duplicate
)

// on-frame placement in percent of the video frame
type Position struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation"`
}

// bottom-center preset used when a cue has no explicit position
func DefaultPosition() Position {
	return Position{X: 50, Y: 85, Scale: 1, Rotation: 0}
}

type Shadow struct {
	Enabled bool    `json:"enabled"`
	Color   string  `json:"color"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	Blur    float64 `json:"blur"`
}

type Style struct {
	FontSize   int     `json:"font_size"`
	FontFamily string  `json:"font_family"`
	Bold       bool    `json:"bold"`
	Italic     bool    `json:"italic"`
	Color      string  `json:"color"`
	Background string  `json:"background,omitempty"`
	Placement  string  `json:"placement"` // bottom, top, center
	Alignment  string  `json:"alignment"` // left, center, right
	Opacity    float64 `json:"opacity"`
	Shadow     Shadow  `json:"shadow"`
}

func DefaultStyle() Style {
	return Style{
		FontSize:   24,
		FontFamily: "Inter, sans-serif",
		Color:      "#ffffff",
		Background: "rgba(0, 0, 0, 0.6)",
		Placement:  "bottom",
		Alignment:  "center",
		Opacity:    1,
		Shadow: Shadow{
			Enabled: true,
			Color:   "#000000",
			OffsetX: 2,
			OffsetY: 2,
		},
	}
}

// single subtitle line on the timeline; times are absolute project milliseconds
type Cue struct {
	ID         string    `json:"id"`
	Start      int64     `json:"start_ms"`
	End        int64     `json:"end_ms"`
	Text       string    `json:"text"`
	Speaker    string    `json:"speaker,omitempty"`
	Style      *Style    `json:"style,omitempty"`
	Track      int       `json:"track,omitempty"`
	Position   *Position `json:"position,omitempty"`
	Animations []string  `json:"animations,omitempty"`
}

func (c Cue) Span() timeline.Span {
	return timeline.Span{Start: c.Start, End: c.End}
}

func (c Cue) Duration() int64 {
	return c.End - c.Start
}

func (c Cue) clone() Cue {
	out := c
	if c.Style != nil {
		st := *c.Style
		out.Style = &st
	}
	if c.Position != nil {
		pos := *c.Position
		out.Position = &pos
	}
	if c.Animations != nil {
		out.Animations = append([]string(nil), c.Animations...)
	}
	return out
}

// fields for a cue that does not exist yet
type Draft struct {
	Start      int64
	End        int64
	Text       string
	Speaker    string
	Style      *Style
	Track      int
	Position   *Position
	Animations []string
}

// partial update; nil fields are left untouched
type Patch struct {
	Start      *int64
	End        *int64
	Text       *string
	Speaker    *string
	Style      *Style
	Track      *int
	Position   *Position
	Animations []string
}

func (p Patch) touchesTiming() bool {
	return p.Start != nil || p.End != nil
}

// receives a call after every store mutation
type Notifier interface {
	MarkUnsaved()
}

type NotifierFunc func()

func (f NotifierFunc) MarkUnsaved() {
	f()
}
