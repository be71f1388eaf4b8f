package project

import (
	"time"

	"github.com/mgpai22/captioner/internal/cue"
	"github.com/mgpai22/captioner/internal/overlay"
	"github.com/mgpai22/captioner/internal/placement"
)

// where a project is in its lifecycle
type Stage string

const (
	StageUpload     Stage = "upload"
	StageProcessing Stage = "processing"
	StageEditing    Stage = "editing"
)

type Meta struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	VideoPath  string    `json:"video_path,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	Stage      Stage     `json:"stage"`
	CueCount   int       `json:"cue_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// timeline settings restored with a project
type ViewSettings struct {
	PixelsPerSecond float64 `json:"pixels_per_second"`
	Scroll          float64 `json:"scroll"`
	SnapEnabled     bool    `json:"snap_enabled"`
	SnapThreshold   int64   `json:"snap_threshold_ms"`
}

// Snapshot is everything persisted for one project.
type Snapshot struct {
	Meta
	Cues      []cue.Cue             `json:"cues"`
	Media     []placement.Placement `json:"media"`
	Broll     []placement.Placement `json:"broll"`
	Watermark overlay.Watermark     `json:"watermark"`
	View      ViewSettings          `json:"view"`
}
