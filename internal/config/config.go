package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mgpai22/captioner/internal/overlay"
)

const (
	CurrentVersion  = 1
	DefaultFileName = "captioner.yaml"
)

type Editor struct {
	DefaultVolume       int     `yaml:"default_volume" json:"default_volume"`
	DefaultPlaybackRate float64 `yaml:"default_playback_rate" json:"default_playback_rate"`
	PixelsPerSecond     float64 `yaml:"pixels_per_second" json:"pixels_per_second"`
	SnapEnabled         bool    `yaml:"snap_enabled" json:"snap_enabled"`
	SnapThreshold       int64   `yaml:"snap_threshold_ms" json:"snap_threshold_ms"`
	AutoSave            bool    `yaml:"auto_save" json:"auto_save"`
	AutoSaveInterval    int     `yaml:"auto_save_interval" json:"auto_save_interval"` // seconds
	ShowWaveform        bool    `yaml:"show_waveform" json:"show_waveform"`
}

type Subtitle struct {
	FontSize        int    `yaml:"font_size" json:"font_size"`
	FontFamily      string `yaml:"font_family" json:"font_family"`
	TextColor       string `yaml:"text_color" json:"text_color"`
	BackgroundColor string `yaml:"background_color" json:"background_color"`
}

type Export struct {
	Format   string `yaml:"format" json:"format"` // srt, vtt, ass
	Encoding string `yaml:"encoding" json:"encoding"`
}

type Translate struct {
	Provider    string `yaml:"provider" json:"provider"`
	Model       string `yaml:"model" json:"model"`
	BatchSize   int    `yaml:"batch_size" json:"batch_size"`
	Concurrency int    `yaml:"concurrency" json:"concurrency"`
}

// Values is everything a preset captures.
type Values struct {
	Editor     Editor            `yaml:"editor" json:"editor"`
	Subtitle   Subtitle          `yaml:"subtitle" json:"subtitle"`
	Export     Export            `yaml:"export" json:"export"`
	Watermark  overlay.Watermark `yaml:"watermark" json:"watermark"`
	Translate  Translate         `yaml:"translate" json:"translate"`
	FFmpegPath string            `yaml:"ffmpeg_path" json:"ffmpeg_path"`
}

// Settings is the on-disk configuration: current values plus named presets.
type Settings struct {
	Values  `yaml:",inline"`
	Presets map[string]Values `yaml:"presets,omitempty" json:"-"`
	Version int               `yaml:"config_version" json:"-"`

	path string
}

func DefaultValues() Values {
	return Values{
		Editor: Editor{
			DefaultVolume:       80,
			DefaultPlaybackRate: 1,
			PixelsPerSecond:     50,
			SnapEnabled:         true,
			SnapThreshold:       250,
			AutoSave:            true,
			AutoSaveInterval:    30,
			ShowWaveform:        true,
		},
		Subtitle: Subtitle{
			FontSize:        24,
			FontFamily:      "Inter, sans-serif",
			TextColor:       "#ffffff",
			BackgroundColor: "rgba(0, 0, 0, 0.6)",
		},
		Export: Export{
			Format:   "srt",
			Encoding: "utf-8",
		},
		Watermark: overlay.DefaultWatermark(),
		Translate: Translate{
			Provider:    "gemini",
			Model:       "gemini-2.5-flash",
			BatchSize:   50,
			Concurrency: 3,
		},
	}
}

func Default() *Settings {
	return &Settings{
		Values:  DefaultValues(),
		Version: CurrentVersion,
	}
}

// Load reads the settings file over the defaults. A missing file is created
// with the default values.
func Load(path string) (*Settings, error) {
	if path == "" {
		path = DefaultFileName
	}

	s := Default()
	s.path = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := s.Save(); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	s.normalize()
	return s, nil
}

func (s *Settings) Path() string {
	return s.path
}

// Save writes the settings back to the file they were loaded from.
func (s *Settings) Save() error {
	if s.path == "" {
		s.path = DefaultFileName
	}
	s.Version = CurrentVersion

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", s.path, err)
	}
	return nil
}

func (s *Settings) normalize() {
	d := DefaultValues()

	s.Export.Format = strings.ToLower(strings.TrimSpace(s.Export.Format))
	switch s.Export.Format {
	case "srt", "vtt", "ass":
	default:
		s.Export.Format = d.Export.Format
	}
	if s.Editor.DefaultVolume < 0 || s.Editor.DefaultVolume > 100 {
		s.Editor.DefaultVolume = d.Editor.DefaultVolume
	}
	if s.Editor.DefaultPlaybackRate <= 0 {
		s.Editor.DefaultPlaybackRate = d.Editor.DefaultPlaybackRate
	}
	if s.Editor.PixelsPerSecond <= 0 {
		s.Editor.PixelsPerSecond = d.Editor.PixelsPerSecond
	}
	if s.Editor.SnapThreshold < 0 {
		s.Editor.SnapThreshold = d.Editor.SnapThreshold
	}
	if s.Translate.BatchSize <= 0 {
		s.Translate.BatchSize = d.Translate.BatchSize
	}
	if s.Translate.Concurrency <= 0 {
		s.Translate.Concurrency = d.Translate.Concurrency
	}
	if !overlay.ValidAnchor(s.Watermark.Anchor) {
		s.Watermark.Anchor = d.Watermark.Anchor
	}
	if s.Watermark.Mode != overlay.ModeCustom {
		s.Watermark.Mode = overlay.ModePreset
	}
}

func (s *Settings) ResetToDefaults() {
	s.Values = DefaultValues()
}

// ExportJSON renders the current values as indented JSON. Presets are not
// included.
func (s *Settings) ExportJSON() (string, error) {
	b, err := json.MarshalIndent(s.Values, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode settings: %w", err)
	}
	return string(b), nil
}

// ImportJSON replaces the current values with the defaults overlaid by the
// given JSON object. Anything that is not a JSON object is rejected and the
// settings are left unchanged.
func (s *Settings) ImportJSON(raw string) bool {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 || data[0] != '{' {
		return false
	}
	v := DefaultValues()
	if err := json.Unmarshal(data, &v); err != nil {
		return false
	}
	s.Values = v
	s.normalize()
	return true
}

func (s *Settings) SavePreset(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if s.Presets == nil {
		s.Presets = make(map[string]Values)
	}
	s.Presets[name] = s.Values
}

// LoadPreset reports false when no preset has that name.
func (s *Settings) LoadPreset(name string) bool {
	v, ok := s.Presets[name]
	if !ok {
		return false
	}
	s.Values = v
	return true
}

func (s *Settings) DeletePreset(name string) {
	delete(s.Presets, name)
}

func (s *Settings) PresetNames() []string {
	names := make([]string, 0, len(s.Presets))
	for name := range s.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// APIKey returns the key for a provider from the environment.
func APIKey(provider string) string {
	switch strings.ToLower(provider) {
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	}
	return ""
}

func writeFileAtomic(dest string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	_ = os.Chmod(tmpName, perm)

	if err := os.Rename(tmpName, dest); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
