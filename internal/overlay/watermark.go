package overlay

type Mode string

const (
	ModePreset Mode = "preset"
	ModeCustom Mode = "custom"
)

type Anchor string

const (
	TopLeft     Anchor = "top-left"
	TopRight    Anchor = "top-right"
	BottomLeft  Anchor = "bottom-left"
	BottomRight Anchor = "bottom-right"
)

// percent of the video frame
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

var anchors = map[Anchor]Point{
	TopLeft:     {X: 5, Y: 5},
	TopRight:    {X: 85, Y: 5},
	BottomLeft:  {X: 5, Y: 85},
	BottomRight: {X: 85, Y: 85},
}

// AnchorPoint returns the frame position of a preset corner. Unknown anchors
// fall back to bottom-right.
func AnchorPoint(a Anchor) Point {
	if p, ok := anchors[a]; ok {
		return p
	}
	return anchors[BottomRight]
}

func ValidAnchor(a Anchor) bool {
	_, ok := anchors[a]
	return ok
}

type Watermark struct {
	Enabled         bool    `json:"enabled" yaml:"enabled"`
	Text            string  `json:"text" yaml:"text"`
	Mode            Mode    `json:"position_mode" yaml:"position_mode"`
	Anchor          Anchor  `json:"position" yaml:"position"`
	Custom          Point   `json:"custom_position" yaml:"custom_position"`
	Opacity         float64 `json:"opacity" yaml:"opacity"` // 0..100
	FontSize        int     `json:"font_size" yaml:"font_size"`
	FontFamily      string  `json:"font_family" yaml:"font_family"`
	Color           string  `json:"color" yaml:"color"`
	BackgroundColor string  `json:"background_color" yaml:"background_color"`
}

func DefaultWatermark() Watermark {
	return Watermark{
		Enabled:         false,
		Text:            "Subtitle Studio",
		Mode:            ModePreset,
		Anchor:          TopRight,
		Custom:          Point{X: 85, Y: 10},
		Opacity:         80,
		FontSize:        14,
		FontFamily:      "Inter, -apple-system, BlinkMacSystemFont, sans-serif",
		Color:           "#ffffff",
		BackgroundColor: "rgba(0, 0, 0, 0.2)",
	}
}

// Position is where the watermark is drawn, in percent of the frame.
func (w Watermark) Position() Point {
	if w.Mode == ModeCustom {
		return w.Custom
	}
	return AnchorPoint(w.Anchor)
}

// SwitchToCustom leaves preset mode, starting the custom position at the
// current anchor so the watermark does not jump. Already custom is a no-op.
func (w *Watermark) SwitchToCustom() {
	if w.Mode == ModeCustom {
		return
	}
	w.Custom = AnchorPoint(w.Anchor)
	w.Mode = ModeCustom
}

// SetPreset snaps the watermark to a corner. This is the only way back to
// preset mode; dragging never returns to it.
func (w *Watermark) SetPreset(a Anchor) {
	if !ValidAnchor(a) {
		return
	}
	w.Anchor = a
	w.Mode = ModePreset
}

// Move places the watermark at a custom position, clamped to the frame.
func (w *Watermark) Move(x, y float64) {
	w.Mode = ModeCustom
	w.Custom = Point{X: clampPercent(x), Y: clampPercent(y)}
}

func clampPercent(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
