package editor

import (
	"sync"
	"time"

	"github.com/mgpai22/captioner/internal/config"
	"github.com/mgpai22/captioner/internal/cue"
	"github.com/mgpai22/captioner/internal/drag"
	"github.com/mgpai22/captioner/internal/logging"
	"github.com/mgpai22/captioner/internal/overlay"
	"github.com/mgpai22/captioner/internal/placement"
	"github.com/mgpai22/captioner/internal/playback"
	"github.com/mgpai22/captioner/internal/project"
	"github.com/mgpai22/captioner/internal/selection"
	"github.com/mgpai22/captioner/internal/throttle"
	"github.com/mgpai22/captioner/internal/timeline"
)

// TickInterval paces auto-follow and the progress throttle.
const TickInterval = 100 * time.Millisecond

type SaveStatus string

const (
	StatusSaved   SaveStatus = "saved"
	StatusSaving  SaveStatus = "saving"
	StatusUnsaved SaveStatus = "unsaved"
	StatusError   SaveStatus = "error"
)

// host element the pointer is measured against
type Container string

const (
	ContainerTimeline Container = "timeline"
	ContainerVideo    Container = "video"
	ContainerProgress Container = "progress"
)

type Options struct {
	Logger   *logging.Logger
	Player   playback.Player
	Settings *config.Values
	Saver    Saver
	// zero disables auto-save
	AutoSaveInterval time.Duration
}

// Session owns every piece of editor state for one open project. All methods
// are safe for concurrent use; state only changes while the session lock is
// held, so each operation observes and leaves a consistent state.
type Session struct {
	mu sync.Mutex

	logger *logging.Logger

	cues      *cue.Store
	media     *placement.Store
	broll     *placement.Store
	clock     *playback.Clock
	player    *playback.Sync
	view      *timeline.View
	sel       *selection.State
	drag      *drag.Controller
	follower  timeline.Follower
	watermark overlay.Watermark
	meta      project.Meta
	status    SaveStatus
	lastSaved time.Time

	containers map[Container]drag.Rect
	progress   throttle.Latest[float64]

	settings config.Values
	saver    Saver
	autoSave time.Duration

	stop      chan struct{}
	closeOnce sync.Once
	closed    bool
}

// projectNotifier is handed to the stores; it runs with the session lock held.
type projectNotifier struct {
	s *Session
}

func (n projectNotifier) MarkUnsaved() {
	n.s.status = StatusUnsaved
}

func NewSession(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	settings := config.DefaultValues()
	if opts.Settings != nil {
		settings = *opts.Settings
	}

	s := &Session{
		logger:     logger,
		clock:      playback.NewClock(),
		view:       timeline.NewView(),
		sel:        selection.New(),
		follower:   timeline.DefaultFollower(),
		containers: make(map[Container]drag.Rect),
		settings:   settings,
		saver:      opts.Saver,
		autoSave:   opts.AutoSaveInterval,
		stop:       make(chan struct{}),
		status:     StatusSaved,
		meta:       project.Meta{Stage: project.StageUpload},
	}
	notify := projectNotifier{s: s}
	s.cues = cue.NewStore(notify)
	s.media = placement.NewStore(notify)
	s.broll = placement.NewStore(notify)
	s.player = playback.NewSync(s.clock, opts.Player, logger)
	s.drag = drag.NewController(s.sel)
	s.applySettings(settings)
	return s
}

func (s *Session) applySettings(v config.Values) {
	s.clock.SetVolume(v.Editor.DefaultVolume)
	s.clock.SetPlaybackRate(v.Editor.DefaultPlaybackRate)
	s.view.SetZoom(v.Editor.PixelsPerSecond)
	s.view.SetSnap(v.Editor.SnapEnabled)
	s.view.SetSnapThreshold(v.Editor.SnapThreshold)
	s.watermark = v.Watermark
}

func (s *Session) AttachPlayer(p playback.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.Attach(p)
}

// SetContainer records the on-screen box of a host element. Drags measured
// against a container that was never set, or was removed, are ignored.
func (s *Session) SetContainer(c Container, r drag.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.containers[c] = r
	if c == ContainerTimeline {
		s.view.SetViewportWidth(r.Width)
	}
}

func (s *Session) RemoveContainer(c Container) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.containers, c)
}

func (s *Session) container(c Container) (drag.Rect, bool) {
	r, ok := s.containers[c]
	return r, ok
}

// Reset drops the project and returns to the upload stage with the
// configured editor defaults and watermark. Timers keep running.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.drag.Active() {
		s.drag.End()
	}
	s.cues.Restore(nil)
	s.media.Restore(nil)
	s.broll.Restore(nil)
	s.clock.Reset()
	s.view.Reset()
	s.applySettings(s.settings)
	s.sel.Clear()
	s.progress.Take()
	s.meta = project.Meta{Stage: project.StageUpload}
	s.status = StatusSaved
	s.lastSaved = time.Time{}
}
