package transcribe

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mgpai22/captioner/internal/subtitle"
)

const defaultWhisperModel = "whisper-1"

// whisperRecognizer uses the audio endpoints with verbose_json so segment
// timing comes back with the text.
type whisperRecognizer struct {
	client  openai.Client
	model   openai.AudioModel
	options Options
}

func newWhisperRecognizer(apiKey string, opts Options) (*whisperRecognizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	model := opts.Model
	if model == "" {
		model = defaultWhisperModel
	}
	return &whisperRecognizer{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   openai.AudioModel(model),
		options: opts,
	}, nil
}

// the translations endpoint only produces English
func (w *whisperRecognizer) toEnglish() bool {
	switch strings.ToLower(strings.TrimSpace(w.options.TranscriptLanguage)) {
	case "english", "en":
		return true
	}
	return false
}

func (w *whisperRecognizer) recognize(ctx context.Context, audioPath string, durationMs int64) ([]subtitle.Segment, string, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	var raw, text, lang string
	if w.toEnglish() {
		params := openai.AudioTranslationNewParams{
			File:           file,
			Model:          w.model,
			ResponseFormat: openai.AudioTranslationNewParamsResponseFormatVerboseJSON,
		}
		if w.options.Prompt != "" {
			params.Prompt = openai.String(w.options.Prompt)
		}
		resp, err := w.client.Audio.Translations.New(ctx, params)
		if err != nil {
			return nil, "", err
		}
		raw, text, lang = resp.RawJSON(), resp.Text, "en"
	} else {
		params := openai.AudioTranscriptionNewParams{
			File:                   file,
			Model:                  w.model,
			ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
			TimestampGranularities: []string{"segment"},
		}
		if w.options.Language != "" {
			params.Language = openai.String(w.options.Language)
		}
		if w.options.Prompt != "" {
			params.Prompt = openai.String(w.options.Prompt)
		}
		resp, err := w.client.Audio.Transcriptions.New(ctx, params)
		if err != nil {
			return nil, "", err
		}
		raw, text = resp.RawJSON(), resp.Text
	}

	segments, err := decodeVerbose(raw, durationMs)
	if err != nil {
		// keep the text even when the timing is unusable
		segments = []subtitle.Segment{{Start: 0, End: durationMs, Text: strings.TrimSpace(text)}}
	}
	return segments, lang, nil
}
