package timeline

import (
	"math"
	"sort"
)

const (
	MinPPS               = 10.0
	MaxPPS               = 500.0
	DefaultPPS           = 50.0
	ZoomFactor           = 1.5
	FitMargin            = 100.0 // px left free by FitToWindow
	DefaultViewport      = 800.0
	DefaultSnapThreshold = int64(250) // ms
)

// selected time range on the ruler, always Start <= End
type Range struct {
	Start int64 `json:"start_ms"`
	End   int64 `json:"end_ms"`
}

// View is the pixel coordinate space of the timeline: zoom (pixels per
// second), horizontal scroll, viewport width, range selection and snapping.
// Inputs outside the valid range are clamped.
type View struct {
	pps           float64
	scroll        float64
	viewport      float64
	selected      *Range
	snapEnabled   bool
	snapThreshold int64
}

func NewView() *View {
	return &View{
		pps:           DefaultPPS,
		viewport:      DefaultViewport,
		snapEnabled:   true,
		snapThreshold: DefaultSnapThreshold,
	}
}

func (v *View) PixelsPerSecond() float64 { return v.pps }
func (v *View) Scroll() float64          { return v.scroll }
func (v *View) ViewportWidth() float64   { return v.viewport }
func (v *View) SnapEnabled() bool        { return v.snapEnabled }
func (v *View) SnapThreshold() int64     { return v.snapThreshold }

func (v *View) TimeToPixel(ms int64) float64 {
	return float64(ms) / 1000 * v.pps
}

// PixelToTime returns fractional milliseconds; round at the call site when
// storing the result on an entity.
func (v *View) PixelToTime(px float64) float64 {
	return px / v.pps * 1000
}

func (v *View) SetZoom(pps float64) {
	v.pps = clampPPS(pps)
}

func (v *View) ZoomIn() {
	v.pps = clampPPS(v.pps * ZoomFactor)
}

func (v *View) ZoomOut() {
	v.pps = clampPPS(v.pps / ZoomFactor)
}

// FitToWindow zooms so the whole duration fits the viewport minus FitMargin
// and scrolls back to the start. A non-positive duration leaves the view alone.
func (v *View) FitToWindow(durationMs int64, viewport float64) {
	if durationMs <= 0 {
		return
	}
	v.pps = clampPPS((viewport - FitMargin) / (float64(durationMs) / 1000))
	v.scroll = 0
}

func (v *View) SetScroll(px float64) {
	if px < 0 || math.IsNaN(px) {
		px = 0
	}
	v.scroll = px
}

func (v *View) SetViewportWidth(px float64) {
	if px < 0 || math.IsNaN(px) {
		px = 0
	}
	v.viewport = px
}

// VisibleRange is the time window currently on screen, in milliseconds.
func (v *View) VisibleRange() (float64, float64) {
	return v.PixelToTime(v.scroll), v.PixelToTime(v.scroll + v.viewport)
}

func (v *View) SelectRange(a, b int64) {
	if a > b {
		a, b = b, a
	}
	v.selected = &Range{Start: a, End: b}
}

// ExpandRange grows the selection to include t, starting a zero-width range
// when nothing is selected.
func (v *View) ExpandRange(t int64) {
	if v.selected == nil {
		v.selected = &Range{Start: t, End: t}
		return
	}
	if t < v.selected.Start {
		v.selected.Start = t
	}
	if t > v.selected.End {
		v.selected.End = t
	}
}

func (v *View) ClearRange() {
	v.selected = nil
}

func (v *View) SelectedRange() (Range, bool) {
	if v.selected == nil {
		return Range{}, false
	}
	return *v.selected, true
}

func (v *View) SetSnap(enabled bool) {
	v.snapEnabled = enabled
}

func (v *View) SetSnapThreshold(ms int64) {
	if ms < 0 {
		ms = 0
	}
	v.snapThreshold = ms
}

// FindSnapTargets lists the candidate times within the snap threshold of t:
// every span start and end, plus the nearest whole second. The result is
// ascending and free of duplicates. Nothing is moved.
func (v *View) FindSnapTargets(t int64, spans []Span) []int64 {
	seen := make(map[int64]struct{})
	var targets []int64
	add := func(c int64) {
		if abs64(c-t) > v.snapThreshold {
			return
		}
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		targets = append(targets, c)
	}

	for _, s := range spans {
		add(s.Start)
		add(s.End)
	}
	add(int64(math.Round(float64(t)/1000)) * 1000)

	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
	return targets
}

// Snap returns the target closest to t, or t itself when snapping is off or
// nothing is in range. Ties go to the earlier target.
func (v *View) Snap(t int64, spans []Span) int64 {
	if !v.snapEnabled {
		return t
	}
	best, found := t, false
	for _, c := range v.FindSnapTargets(t, spans) {
		if !found || abs64(c-t) < abs64(best-t) {
			best, found = c, true
		}
	}
	return best
}

// Reset restores zoom, scroll, range and snap settings to their defaults.
// The viewport width is a property of the host window and is kept.
func (v *View) Reset() {
	v.pps = DefaultPPS
	v.scroll = 0
	v.selected = nil
	v.snapEnabled = true
	v.snapThreshold = DefaultSnapThreshold
}

func clampPPS(pps float64) float64 {
	if math.IsNaN(pps) {
		return DefaultPPS
	}
	return math.Max(MinPPS, math.Min(MaxPPS, pps))
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
