package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/captioner/internal/ffmpeg"
)

// decode rate for waveform display; peaks do not need more
const waveformSampleRate = 8000

// Waveform decodes the file's audio to mono PCM and reduces it to buckets
// peak amplitudes in 0..1, suitable for drawing under the timeline.
func Waveform(ctx context.Context, path string, buckets int) ([]float64, error) {
	if buckets <= 0 {
		return nil, fmt.Errorf("bucket count must be positive, got %d", buckets)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("media file not found: %s", path)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return nil, err
	}

	var pcm bytes.Buffer
	err = ffmpeg.Input(path).
		Output("pipe:", ffmpeg.KwArgs{
			"vn":     "",
			"f":      "s16le",
			"acodec": "pcm_s16le",
			"ac":     1,
			"ar":     waveformSampleRate,
		}).
		WithOutput(&pcm, io.Discard).
		SetFfmpegPath(ffmpegPath).
		Run()
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio: %w", err)
	}

	samples := make([]int16, pcm.Len()/2)
	if err := binary.Read(&pcm, binary.LittleEndian, samples); err != nil {
		return nil, fmt.Errorf("failed to read PCM samples: %w", err)
	}
	return Peaks(samples, buckets), nil
}

// Peaks reduces samples to buckets maximum absolute amplitudes normalized to
// 0..1. Fewer samples than buckets leaves the trailing buckets at zero.
func Peaks(samples []int16, buckets int) []float64 {
	if buckets <= 0 {
		return nil
	}
	peaks := make([]float64, buckets)
	if len(samples) == 0 {
		return peaks
	}
	for i, s := range samples {
		b := i * buckets / len(samples)
		v := float64(s)
		if v < 0 {
			v = -v
		}
		v /= 32768
		if v > peaks[b] {
			peaks[b] = v
		}
	}
	return peaks
}
