package drag

import "math"

// PercentTarget positions an overlay in percent of its container, clamped
// to 0..100 on both axes.
type PercentTarget struct {
	Locate  func() (Rect, bool)
	Set     func(x, y float64)
	OnBegin func()
}

func (t PercentTarget) Container() (Rect, bool) {
	if t.Locate == nil {
		return Rect{}, false
	}
	r, ok := t.Locate()
	if !ok || r.Width <= 0 || r.Height <= 0 {
		return Rect{}, false
	}
	return r, true
}

func (t PercentTarget) Apply(local Point, container Rect) {
	t.Set(
		clamp(local.X/container.Width*100, 0, 100),
		clamp(local.Y/container.Height*100, 0, 100),
	)
}

func (t PercentTarget) Prepare() {
	if t.OnBegin != nil {
		t.OnBegin()
	}
}

// TimeTarget maps a horizontal position on the scrolled timeline to a time
// in [0, duration].
type TimeTarget struct {
	Locate      func() (Rect, bool)
	Scroll      func() float64
	PixelToTime func(px float64) float64
	Duration    func() int64
	Set         func(ms int64)
}

func (t TimeTarget) Container() (Rect, bool) {
	if t.Locate == nil || t.Duration() <= 0 {
		return Rect{}, false
	}
	return t.Locate()
}

func (t TimeTarget) Apply(local Point, _ Rect) {
	ms := t.PixelToTime(local.X + t.Scroll())
	t.Set(int64(math.Round(clamp(ms, 0, float64(t.Duration())))))
}

// ProgressTarget maps a position along a progress bar to the same fraction
// of the duration.
type ProgressTarget struct {
	Locate   func() (Rect, bool)
	Duration func() int64
	Set      func(ms int64)
}

func (t ProgressTarget) Container() (Rect, bool) {
	if t.Locate == nil || t.Duration() <= 0 {
		return Rect{}, false
	}
	r, ok := t.Locate()
	if !ok || r.Width <= 0 {
		return Rect{}, false
	}
	return r, true
}

func (t ProgressTarget) Apply(local Point, container Rect) {
	fraction := clamp(local.X/container.Width, 0, 1)
	t.Set(int64(math.Round(fraction * float64(t.Duration()))))
}
