package transcribe

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mgpai22/captioner/internal/audio"
	"github.com/mgpai22/captioner/internal/subtitle"
)

const defaultConcurrency = 3

// transcription result
type Result struct {
	Segments   []subtitle.Segment
	Language   string
	DurationMs int64
}

// interface for audio transcription
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

type ConcurrentTranscriber interface {
	Transcriber
	TranscribeWithChunks(
		ctx context.Context,
		chunks []audio.ChunkInfo,
		concurrency int,
	) (*Result, error)
}

// transcription service provider
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// transcription options
type Options struct {
	Language           string // Source language of audio
	TranscriptLanguage string // Output language for transcript (default: "native")
	Model              string
	Prompt             string
}

// recognizer turns one audio file into segments. language is what the
// provider reports, or "" when it does not say.
type recognizer interface {
	recognize(ctx context.Context, audioPath string, durationMs int64) (segments []subtitle.Segment, language string, err error)
}

// Service runs a provider recognizer over single files or chunk sets.
type Service struct {
	provider Provider
	rec      recognizer
	options  Options
}

// Factory builds a transcription service for the provider.
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (ConcurrentTranscriber, error) {
	var (
		rec recognizer
		err error
	)
	switch provider {
	case ProviderGemini:
		rec, err = newGeminiRecognizer(ctx, apiKey, opts)
	case ProviderOpenAI:
		rec, err = newWhisperRecognizer(apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}
	return &Service{provider: provider, rec: rec, options: opts}, nil
}

func (s *Service) Provider() Provider {
	return s.provider
}

// Transcribe sends one audio file to the provider.
func (s *Service) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	// best effort, providers fall back to it when they report no timing
	duration, _ := audio.GetDuration(ctx, audioPath)

	segments, lang, err := s.rec.recognize(ctx, audioPath, duration)
	if err != nil {
		return nil, fmt.Errorf("%s transcription failed: %w", s.provider, err)
	}
	if lang == "" {
		lang = s.options.Language
	}
	return &Result{Segments: segments, Language: lang, DurationMs: duration}, nil
}

// TranscribeWithChunks transcribes chunks in parallel and stitches the
// segments back onto the source timeline.
func (s *Service) TranscribeWithChunks(
	ctx context.Context,
	chunks []audio.ChunkInfo,
	concurrency int,
) (*Result, error) {
	if len(chunks) == 0 {
		return &Result{}, nil
	}
	segments, err := transcribeChunks(ctx, chunks, concurrency, s.Transcribe)
	if err != nil {
		return nil, err
	}
	return chunkedResult(segments, chunks, s.options.Language), nil
}

func secondsToMillis(s float64) int64 {
	return int64(s*1000 + 0.5)
}

// shifts chunk-relative segments onto the source timeline
func offsetSegments(segments []subtitle.Segment, by int64) []subtitle.Segment {
	out := make([]subtitle.Segment, len(segments))
	for i, seg := range segments {
		out[i] = subtitle.Segment{
			Start: seg.Start + by,
			End:   seg.End + by,
			Text:  seg.Text,
		}
	}
	return out
}

// transcribeChunks fans chunks out to fn with bounded concurrency and merges
// the offset segments in chunk order. The first failure cancels the rest.
func transcribeChunks(
	ctx context.Context,
	chunks []audio.ChunkInfo,
	concurrency int,
	fn func(ctx context.Context, path string) (*Result, error),
) ([]subtitle.Segment, error) {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	var mu sync.Mutex
	byIndex := make(map[int][]subtitle.Segment, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, chunk := range chunks {
		g.Go(func() error {
			result, err := fn(gctx, chunk.Path)
			if err != nil {
				return fmt.Errorf("chunk %d failed: %w", chunk.Index, err)
			}
			mu.Lock()
			byIndex[chunk.Index] = offsetSegments(result.Segments, chunk.Start)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	indexes := make([]int, 0, len(byIndex))
	for idx := range byIndex {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	var all []subtitle.Segment
	for _, idx := range indexes {
		all = append(all, byIndex[idx]...)
	}
	return all, nil
}

func chunkedResult(segments []subtitle.Segment, chunks []audio.ChunkInfo, language string) *Result {
	var total int64
	if len(chunks) > 0 {
		total = chunks[len(chunks)-1].End
	}
	return &Result{
		Segments:   segments,
		Language:   language,
		DurationMs: total,
	}
}
