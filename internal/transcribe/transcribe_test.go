package transcribe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mgpai22/captioner/internal/audio"
	"github.com/mgpai22/captioner/internal/subtitle"
)

func TestTranscribeChunksOffsetsAndOrders(t *testing.T) {
	chunks := []audio.ChunkInfo{
		{Path: "c0", Index: 0, Start: 0, End: 60000},
		{Path: "c1", Index: 1, Start: 60000, End: 120000},
		{Path: "c2", Index: 2, Start: 120000, End: 150000},
	}
	fn := func(ctx context.Context, path string) (*Result, error) {
		return &Result{Segments: []subtitle.Segment{
			{Start: 1000, End: 2000, Text: path},
		}}, nil
	}

	segments, err := transcribeChunks(context.Background(), chunks, 2, fn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	for i, seg := range segments {
		if seg.Text != chunks[i].Path {
			t.Errorf("segment %d: got text %q, want %q", i, seg.Text, chunks[i].Path)
		}
		if seg.Start != chunks[i].Start+1000 || seg.End != chunks[i].Start+2000 {
			t.Errorf("segment %d: got %d-%d", i, seg.Start, seg.End)
		}
	}

	res := chunkedResult(segments, chunks, "en")
	if res.DurationMs != 150000 || res.Language != "en" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestTranscribeChunksError(t *testing.T) {
	chunks := []audio.ChunkInfo{{Path: "ok", Index: 0}, {Path: "bad", Index: 1}}
	fn := func(ctx context.Context, path string) (*Result, error) {
		if path == "bad" {
			return nil, errors.New("quota exceeded")
		}
		return &Result{}, nil
	}

	_, err := transcribeChunks(context.Background(), chunks, 0, fn)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "chunk 1 failed") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestFactory(t *testing.T) {
	tests := []struct {
		provider Provider
		key      string
		wantErr  bool
	}{
		{ProviderGemini, "key", false},
		{ProviderOpenAI, "key", false},
		{ProviderOpenAI, "", true},
		{ProviderGemini, "", true},
		{Provider("whisper-local"), "key", true},
	}
	for _, tt := range tests {
		tr, err := Factory(context.Background(), tt.provider, tt.key, Options{})
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s with key %q: expected error", tt.provider, tt.key)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.provider, err)
		}
		if svc, ok := tr.(*Service); !ok || svc.Provider() != tt.provider {
			t.Errorf("%s: got %T", tt.provider, tr)
		}
	}
}

type stubRecognizer struct {
	segments []subtitle.Segment
	language string
	err      error
}

func (s stubRecognizer) recognize(ctx context.Context, path string, durationMs int64) ([]subtitle.Segment, string, error) {
	return s.segments, s.language, s.err
}

func TestServiceTranscribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunk.mp3")
	if err := os.WriteFile(path, []byte("not really audio"), 0644); err != nil {
		t.Fatal(err)
	}

	svc := &Service{
		provider: ProviderGemini,
		rec:      stubRecognizer{segments: []subtitle.Segment{{Start: 0, End: 900, Text: "hi"}}},
		options:  Options{Language: "de"},
	}
	res, err := svc.Transcribe(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Segments) != 1 || res.Language != "de" {
		t.Errorf("unexpected result %+v", res)
	}

	svc.rec = stubRecognizer{language: "en"}
	if res, _ := svc.Transcribe(context.Background(), path); res.Language != "en" {
		t.Errorf("reported language should win, got %q", res.Language)
	}

	svc.rec = stubRecognizer{err: errors.New("429")}
	if _, err := svc.Transcribe(context.Background(), path); err == nil || !strings.Contains(err.Error(), "gemini transcription failed") {
		t.Errorf("unexpected error %v", err)
	}

	if _, err := svc.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.mp3")); err == nil {
		t.Error("expected error for missing file")
	}
}
