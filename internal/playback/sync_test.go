package playback

import (
	"errors"
	"testing"
)

type fakePlayer struct {
	position float64
	seeks    []float64
	playing  bool
	volume   float64
	seekErr  error
}

func (p *fakePlayer) Seek(seconds float64) error {
	if p.seekErr != nil {
		return p.seekErr
	}
	p.seeks = append(p.seeks, seconds)
	p.position = seconds
	return nil
}

func (p *fakePlayer) Play() error {
	p.playing = true
	return nil
}

func (p *fakePlayer) Pause() error {
	p.playing = false
	return nil
}

func (p *fakePlayer) SetVolume(level float64) error {
	p.volume = level
	return nil
}

func (p *fakePlayer) Position() float64 {
	return p.position
}

func newSynced(durationMs int64) (*Clock, *fakePlayer, *Sync) {
	clock := NewClock()
	clock.SetDuration(durationMs)
	player := &fakePlayer{}
	return clock, player, NewSync(clock, player, nil)
}

func TestOnProgressDeadZone(t *testing.T) {
	clock, _, sync := newSynced(60000)
	clock.SetCurrentTime(10000)

	tests := []struct {
		name    string
		sample  float64
		applied bool
		want    int64
	}{
		{name: "inside dead zone", sample: 10.05, applied: false, want: 10000},
		{name: "exactly at dead zone", sample: 10.1, applied: false, want: 10000},
		{name: "beyond dead zone", sample: 10.25, applied: true, want: 10250},
		{name: "past duration clamps", sample: 75, applied: true, want: 60000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sync.OnProgress(tt.sample); got != tt.applied {
				t.Errorf("OnProgress(%v) applied=%v, want %v", tt.sample, got, tt.applied)
			}
			if clock.Current() != tt.want {
				t.Errorf("current got %d, want %d", clock.Current(), tt.want)
			}
		})
	}
}

func TestSeekSkipsWhenPlayerAgrees(t *testing.T) {
	clock, player, sync := newSynced(60000)
	player.position = 20.3

	if sync.Seek(20000) {
		t.Error("seek within tolerance should not reach the player")
	}
	if clock.Current() != 20000 {
		t.Errorf("clock got %d, want 20000", clock.Current())
	}
	if len(player.seeks) != 0 {
		t.Errorf("player seeks got %v, want none", player.seeks)
	}

	if !sync.Seek(30000) {
		t.Error("seek beyond tolerance should reach the player")
	}
	if len(player.seeks) != 1 || player.seeks[0] != 30 {
		t.Errorf("player seeks got %v, want [30]", player.seeks)
	}
}

func TestSeekClampsBeforeCommandingPlayer(t *testing.T) {
	clock, player, sync := newSynced(5000)
	sync.Seek(-4000)
	if clock.Current() != 0 {
		t.Errorf("clock got %d, want 0", clock.Current())
	}
	sync.Seek(99000)
	if len(player.seeks) != 1 || player.seeks[0] != 5 {
		t.Errorf("player seeks got %v, want [5]", player.seeks)
	}
}

func TestSeekErrorLeavesClock(t *testing.T) {
	clock, player, sync := newSynced(60000)
	player.seekErr = errors.New("decoder gone")

	if sync.Seek(40000) {
		t.Error("failed seek should report false")
	}
	if clock.Current() != 40000 {
		t.Errorf("clock got %d, want 40000", clock.Current())
	}
}

func TestOnErrorKeepsState(t *testing.T) {
	clock, _, sync := newSynced(60000)
	clock.SetCurrentTime(1234)
	clock.SetPlaying(true)
	before := clock.State()

	sync.OnError(errors.New("network"))

	if clock.State() != before {
		t.Errorf("state changed: got %+v, want %+v", clock.State(), before)
	}
}

func TestOnDuration(t *testing.T) {
	clock := NewClock()
	sync := NewSync(clock, nil, nil)
	sync.OnDuration(12.3456)
	if clock.Duration() != 12346 || !clock.Ready() {
		t.Errorf("duration got %d ready=%v", clock.Duration(), clock.Ready())
	}
	if sync.Seek(1000) {
		t.Error("seek without a player should report false")
	}
}

func TestApplyTransport(t *testing.T) {
	clock, player, sync := newSynced(60000)
	clock.SetPlaying(true)
	clock.SetVolume(50)
	sync.ApplyTransport()

	if !player.playing {
		t.Error("player should be playing")
	}
	if player.volume != 0.5 {
		t.Errorf("player volume got %v, want 0.5", player.volume)
	}

	clock.TogglePlayback()
	sync.ApplyTransport()
	if player.playing {
		t.Error("player should be paused")
	}
}
