package playback

import "testing"

func TestSetCurrentTimeClamps(t *testing.T) {
	c := NewClock()
	c.SetDuration(60000)

	for _, in := range []int64{-5000, -1, 0, 1, 30000, 59999, 60000, 60001, 1 << 40} {
		c.SetCurrentTime(in)
		if got := c.Current(); got < 0 || got > c.Duration() {
			t.Errorf("SetCurrentTime(%d) left current at %d, outside [0, %d]", in, got, c.Duration())
		}
	}

	c.SetCurrentTime(-10)
	if c.Current() != 0 {
		t.Errorf("negative seek got %d, want 0", c.Current())
	}
	c.SetCurrentTime(90000)
	if c.Current() != 60000 {
		t.Errorf("past end seek got %d, want 60000", c.Current())
	}
}

func TestSetDurationMarksReadyAndReclamps(t *testing.T) {
	c := NewClock()
	if c.Ready() {
		t.Fatal("new clock should not be ready")
	}
	c.SetDuration(10000)
	c.SetCurrentTime(8000)
	c.SetDuration(5000)

	if !c.Ready() {
		t.Error("clock should be ready after SetDuration")
	}
	if c.Current() != 5000 {
		t.Errorf("current got %d, want 5000 after shrinking duration", c.Current())
	}

	c.SetDuration(-1)
	if c.Duration() != 0 || c.Current() != 0 {
		t.Errorf("negative duration got duration=%d current=%d", c.Duration(), c.Current())
	}
}

func TestTogglePlaybackKeepsPosition(t *testing.T) {
	c := NewClock()
	c.SetDuration(10000)
	c.SetCurrentTime(4200)

	c.TogglePlayback()
	if !c.Playing() {
		t.Error("expected playing after first toggle")
	}
	c.TogglePlayback()
	if c.Playing() {
		t.Error("expected stopped after second toggle")
	}
	if c.Current() != 4200 {
		t.Errorf("toggle moved current to %d", c.Current())
	}
}

func TestVolumeAndRateClamp(t *testing.T) {
	c := NewClock()
	if c.State().Volume != DefaultVolume {
		t.Errorf("default volume got %d, want %d", c.State().Volume, DefaultVolume)
	}

	tests := []struct {
		volume     int
		wantVolume int
		rate       float64
		wantRate   float64
	}{
		{volume: -3, wantVolume: 0, rate: 0.1, wantRate: MinRate},
		{volume: 55, wantVolume: 55, rate: 1.5, wantRate: 1.5},
		{volume: 180, wantVolume: 100, rate: 9, wantRate: MaxRate},
	}
	for _, tt := range tests {
		c.SetVolume(tt.volume)
		c.SetPlaybackRate(tt.rate)
		st := c.State()
		if st.Volume != tt.wantVolume {
			t.Errorf("SetVolume(%d) got %d, want %d", tt.volume, st.Volume, tt.wantVolume)
		}
		if st.Rate != tt.wantRate {
			t.Errorf("SetPlaybackRate(%v) got %v, want %v", tt.rate, st.Rate, tt.wantRate)
		}
	}
}

func TestClockReset(t *testing.T) {
	c := NewClock()
	c.SetDuration(10000)
	c.SetCurrentTime(3000)
	c.SetPlaying(true)
	c.SetVolume(20)
	c.Reset()

	st := c.State()
	if st.Current != 0 || st.Duration != 0 || st.Playing || st.Ready {
		t.Errorf("reset state got %+v", st)
	}
	if st.Volume != 20 {
		t.Errorf("reset should keep volume, got %d", st.Volume)
	}
}
