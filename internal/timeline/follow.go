package timeline

import "math"

// Follower decides how far to scroll so the playhead stays on screen during
// playback. When the playhead enters a buffer zone at either edge the view
// jumps past it by Overshoot instead of creeping along every tick.
type Follower struct {
	LeftBuffer  float64
	RightBuffer float64
	Overshoot   float64
	MinDelta    float64
}

func DefaultFollower() Follower {
	return Follower{
		LeftBuffer:  200,
		RightBuffer: 200,
		Overshoot:   300,
		MinDelta:    10,
	}
}

// Next returns the scroll offset to apply and whether a correction is needed.
// Corrections no larger than MinDelta are suppressed.
func (f Follower) Next(playheadPx, scroll, viewport float64) (float64, bool) {
	if viewport <= 0 {
		viewport = DefaultViewport
	}
	visibleEnd := scroll + viewport

	var next float64
	switch {
	case playheadPx < scroll+f.LeftBuffer:
		next = math.Max(0, playheadPx-f.Overshoot)
	case playheadPx > visibleEnd-f.RightBuffer:
		next = playheadPx - viewport + f.Overshoot
	default:
		return scroll, false
	}

	if math.Abs(next-scroll) <= f.MinDelta {
		return scroll, false
	}
	return next, true
}
