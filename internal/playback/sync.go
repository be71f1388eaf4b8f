package playback

import (
	"math"

	"github.com/mgpai22/captioner/internal/logging"
)

const (
	// progress samples closer than this to the clock are ignored
	DeadZoneSeconds = 0.1
	// commanded seeks are skipped when the player is already this close
	SeekToleranceSeconds = 0.5
)

// opaque video player the session drives
type Player interface {
	Seek(seconds float64) error
	Play() error
	Pause() error
	SetVolume(level float64) error // 0..1
	Position() float64             // seconds
}

// Sync keeps a Clock and a Player consistent. The player is the source of
// truth while playing; the clock issues seeks when the UI moves the playhead.
// The two tolerances stop a commanded seek and the player's next progress
// report from chasing each other.
type Sync struct {
	clock  *Clock
	player Player
	logger *logging.Logger
}

func NewSync(clock *Clock, player Player, logger *logging.Logger) *Sync {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Sync{clock: clock, player: player, logger: logger}
}

func (s *Sync) Attach(player Player) {
	s.player = player
}

// OnProgress applies a played-seconds sample from the player. It reports
// whether the clock moved.
func (s *Sync) OnProgress(playedSeconds float64) bool {
	current := float64(s.clock.Current()) / 1000
	if math.Abs(playedSeconds-current) <= DeadZoneSeconds {
		return false
	}
	s.clock.SetCurrentTime(secondsToMillis(playedSeconds))
	return true
}

func (s *Sync) OnDuration(durationSeconds float64) {
	s.clock.SetDuration(secondsToMillis(durationSeconds))
}

// OnError leaves playback state untouched.
func (s *Sync) OnError(err error) {
	s.logger.Warnw("Video player error",
		"error", err,
		"position_ms", s.clock.Current(),
	)
}

// Seek moves the clock (clamped) and forwards the seek to the player unless
// the player already sits within SeekToleranceSeconds of the target. It
// reports whether a player seek was issued.
func (s *Sync) Seek(ms int64) bool {
	s.clock.SetCurrentTime(ms)
	if s.player == nil {
		return false
	}

	target := float64(s.clock.Current()) / 1000
	if math.Abs(s.player.Position()-target) <= SeekToleranceSeconds {
		return false
	}
	if err := s.player.Seek(target); err != nil {
		s.OnError(err)
		return false
	}
	return true
}

// ApplyTransport pushes play state and volume to the player.
func (s *Sync) ApplyTransport() {
	if s.player == nil {
		return
	}
	state := s.clock.State()

	var err error
	if state.Playing {
		err = s.player.Play()
	} else {
		err = s.player.Pause()
	}
	if err != nil {
		s.OnError(err)
	}
	if err := s.player.SetVolume(float64(state.Volume) / 100); err != nil {
		s.OnError(err)
	}
}

func secondsToMillis(seconds float64) int64 {
	if math.IsNaN(seconds) || seconds < 0 {
		return 0
	}
	if math.IsInf(seconds, 1) {
		return math.MaxInt64
	}
	return int64(math.Round(seconds * 1000))
}
