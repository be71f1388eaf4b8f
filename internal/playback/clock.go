package playback

const (
	DefaultVolume = 80
	DefaultRate   = 1.0
	MinRate       = 0.25
	MaxRate       = 4.0
)

// point-in-time copy of the clock
type State struct {
	Current  int64   `json:"current_ms"`
	Duration int64   `json:"duration_ms"`
	Playing  bool    `json:"playing"`
	Ready    bool    `json:"ready"`
	Volume   int     `json:"volume"`
	Rate     float64 `json:"rate"`
}

// Clock holds the playback position of a session in milliseconds.
// Playing and ready are independent flags. Every setter clamps its input
// instead of rejecting it, so current is always within [0, duration].
type Clock struct {
	current  int64
	duration int64
	playing  bool
	ready    bool
	volume   int
	rate     float64
}

func NewClock() *Clock {
	return &Clock{
		volume: DefaultVolume,
		rate:   DefaultRate,
	}
}

func (c *Clock) SetCurrentTime(ms int64) {
	c.current = clamp64(ms, 0, c.duration)
}

// SetDuration marks the media as ready and re-clamps the current position.
func (c *Clock) SetDuration(ms int64) {
	if ms < 0 {
		ms = 0
	}
	c.duration = ms
	c.ready = true
	c.current = clamp64(c.current, 0, c.duration)
}

func (c *Clock) TogglePlayback() {
	c.playing = !c.playing
}

func (c *Clock) SetPlaying(playing bool) {
	c.playing = playing
}

func (c *Clock) SetVolume(v int) {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	c.volume = v
}

func (c *Clock) SetPlaybackRate(r float64) {
	if r < MinRate {
		r = MinRate
	}
	if r > MaxRate {
		r = MaxRate
	}
	c.rate = r
}

// drops the media: position, duration and readiness go back to zero
func (c *Clock) Reset() {
	c.current = 0
	c.duration = 0
	c.playing = false
	c.ready = false
}

func (c *Clock) Current() int64  { return c.current }
func (c *Clock) Duration() int64 { return c.duration }
func (c *Clock) Playing() bool   { return c.playing }
func (c *Clock) Ready() bool     { return c.ready }

func (c *Clock) State() State {
	return State{
		Current:  c.current,
		Duration: c.duration,
		Playing:  c.playing,
		Ready:    c.ready,
		Volume:   c.volume,
		Rate:     c.rate,
	}
}

func clamp64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
