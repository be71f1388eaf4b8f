package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
)

const (
	envFFmpegPath  = "CAPTIONER_FFMPEG_PATH"
	envFFprobePath = "CAPTIONER_FFPROBE_PATH"
)

// ErrNotFound is returned when a binary is neither configured nor on PATH.
var ErrNotFound = errors.New("binary not found")

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var (
	ensureOnce sync.Once
	ensureErr  error
	ensurePath BinaryPaths

	configuredFFmpeg string
)

// Configure sets the ffmpeg path from the settings file. The environment
// still takes precedence. It has no effect after the first Ensure.
func Configure(ffmpegPath string) {
	configuredFFmpeg = ffmpegPath
}

// Ensure resolves both binaries once per process.
func Ensure() (BinaryPaths, error) {
	ensureOnce.Do(func() {
		ensurePath, ensureErr = resolve(withConfigured(os.Getenv), exec.LookPath)
	})
	return ensurePath, ensureErr
}

func withConfigured(getenv func(string) string) func(string) string {
	return func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		if key == envFFmpegPath {
			return configuredFFmpeg
		}
		return ""
	}
}

func FFmpegPath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFmpeg, nil
}

func FFprobePath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFprobe, nil
}

// explicit paths win; an ffprobe next to a configured ffmpeg is preferred over PATH
func resolve(getenv func(string) string, lookPath func(string) (string, error)) (BinaryPaths, error) {
	paths := BinaryPaths{
		FFmpeg:  getenv(envFFmpegPath),
		FFprobe: getenv(envFFprobePath),
	}

	if paths.FFprobe == "" && paths.FFmpeg != "" {
		sibling := filepath.Join(filepath.Dir(paths.FFmpeg), "ffprobe"+filepath.Ext(paths.FFmpeg))
		if fileExists(sibling) {
			paths.FFprobe = sibling
		}
	}

	if paths.FFmpeg == "" {
		found, err := lookPath("ffmpeg")
		if err != nil {
			return BinaryPaths{}, fmt.Errorf("ffmpeg: %w (install it or set %s)", ErrNotFound, envFFmpegPath)
		}
		paths.FFmpeg = found
	}
	if paths.FFprobe == "" {
		found, err := lookPath("ffprobe")
		if err != nil {
			return BinaryPaths{}, fmt.Errorf("ffprobe: %w (install it or set %s)", ErrNotFound, envFFprobePath)
		}
		paths.FFprobe = found
	}
	return paths, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}
