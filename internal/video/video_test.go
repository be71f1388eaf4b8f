package video

import (
	"context"
	"math"
	"path/filepath"
	"testing"
)

func TestParseProbe(t *testing.T) {
	data := []byte(`{
  "streams": [
    {"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080, "avg_frame_rate": "30000/1001", "r_frame_rate": "30/1"},
    {"codec_type": "audio", "codec_name": "aac"}
  ],
  "format": {"duration": "61.2346"}
}`)

	info, err := parseProbe(data, "clip.mp4")
	if err != nil {
		t.Fatalf("parseProbe failed: %v", err)
	}
	if info.DurationMs != 61235 {
		t.Errorf("duration: got %d, want 61235", info.DurationMs)
	}
	if info.Width != 1920 || info.Height != 1080 {
		t.Errorf("size: got %dx%d", info.Width, info.Height)
	}
	if info.Codec != "h264" {
		t.Errorf("codec: got %q", info.Codec)
	}
	if math.Abs(info.FrameRate-29.97) > 0.01 {
		t.Errorf("frame rate: got %v", info.FrameRate)
	}
	if !info.HasAudio {
		t.Error("expected audio stream to be detected")
	}
}

func TestParseProbeAudioOnly(t *testing.T) {
	info, err := parseProbe([]byte(`{"streams":[{"codec_type":"audio"}],"format":{"duration":"2.5"}}`), "a.mp3")
	if err != nil {
		t.Fatalf("parseProbe failed: %v", err)
	}
	if info.DurationMs != 2500 || info.Codec != "" || !info.HasAudio {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestParseProbeInvalid(t *testing.T) {
	if _, err := parseProbe([]byte("not json"), "x"); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := parseProbe([]byte(`{"format":{"duration":"abc"}}`), "x"); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"25/1", 25},
		{"24", 24},
		{"0/0", 0},
		{"", 0},
		{"x/1", 0},
	}
	for _, tt := range tests {
		if got := parseRate(tt.in); got != tt.want {
			t.Errorf("parseRate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestProbeMissingFile(t *testing.T) {
	_, err := Probe(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}
