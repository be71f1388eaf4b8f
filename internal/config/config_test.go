package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mgpai22/captioner/internal/overlay"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "captioner.yaml")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !reflect.DeepEqual(s.Values, DefaultValues()) {
		t.Errorf("values got %+v, want defaults", s.Values)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config was not written: %v", err)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captioner.yaml")
	content := `
editor:
  default_volume: 55
  snap_enabled: false
export:
  format: " VTT "
watermark:
  position: bottom-left
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if s.Editor.DefaultVolume != 55 {
		t.Errorf("default_volume got %d, want 55", s.Editor.DefaultVolume)
	}
	if s.Editor.SnapEnabled {
		t.Error("snap_enabled should be false")
	}
	if s.Editor.PixelsPerSecond != 50 {
		t.Errorf("missing field should keep default, got %v", s.Editor.PixelsPerSecond)
	}
	if s.Export.Format != "vtt" {
		t.Errorf("format got %q, want vtt", s.Export.Format)
	}
	if s.Watermark.Anchor != overlay.BottomLeft {
		t.Errorf("watermark anchor got %q", s.Watermark.Anchor)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captioner.yaml")
	if err := os.WriteFile(path, []byte("editor: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveRoundTripKeepsPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captioner.yaml")
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Subtitle.FontSize = 32
	s.SavePreset("big")
	s.Subtitle.FontSize = 18
	if err := s.Save(); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if again.Subtitle.FontSize != 18 {
		t.Errorf("font size got %d, want 18", again.Subtitle.FontSize)
	}
	if !again.LoadPreset("big") || again.Subtitle.FontSize != 32 {
		t.Errorf("preset big not restored, font size %d", again.Subtitle.FontSize)
	}
}

func TestExportImportJSON(t *testing.T) {
	s := Default()
	s.Editor.DefaultVolume = 42
	s.Watermark.Text = "demo"

	out, err := s.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON returned error: %v", err)
	}
	if !strings.Contains(out, `"default_volume": 42`) {
		t.Errorf("export missing volume: %s", out)
	}

	other := Default()
	if !other.ImportJSON(out) {
		t.Fatal("ImportJSON rejected exported settings")
	}
	if !reflect.DeepEqual(other.Values, s.Values) {
		t.Errorf("imported values got %+v, want %+v", other.Values, s.Values)
	}
}

func TestImportJSONMergesOverDefaults(t *testing.T) {
	s := Default()
	s.Editor.DefaultVolume = 10

	if !s.ImportJSON(`{"export": {"format": "ass"}}`) {
		t.Fatal("ImportJSON rejected a partial object")
	}
	if s.Export.Format != "ass" {
		t.Errorf("format got %q, want ass", s.Export.Format)
	}
	if s.Editor.DefaultVolume != 80 {
		t.Errorf("unspecified field should reset to default, got %d", s.Editor.DefaultVolume)
	}
}

func TestImportJSONRejectsMalformed(t *testing.T) {
	inputs := []string{"", "not json", "null", "[]", `{"editor":`, `"text"`, "42"}
	for _, in := range inputs {
		s := Default()
		s.Editor.DefaultVolume = 33
		if s.ImportJSON(in) {
			t.Errorf("ImportJSON(%q) returned true", in)
		}
		if s.Editor.DefaultVolume != 33 {
			t.Errorf("ImportJSON(%q) changed settings", in)
		}
	}
}

func TestPresets(t *testing.T) {
	s := Default()
	s.SavePreset("  ")
	s.SavePreset("b")
	s.SavePreset("a")

	if got := s.PresetNames(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("PresetNames got %v", got)
	}
	if s.LoadPreset("missing") {
		t.Error("LoadPreset of unknown name should be false")
	}
	s.DeletePreset("a")
	if got := s.PresetNames(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("after delete got %v", got)
	}
}
