package transcribe

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/mgpai22/captioner/internal/subtitle"
)

const defaultGeminiModel = "gemini-2.5-flash"

// geminiRecognizer uploads the audio and asks the model for timed JSON.
type geminiRecognizer struct {
	client *genai.Client
	model  string
	prompt string
}

func newGeminiRecognizer(ctx context.Context, apiKey string, opts Options) (*geminiRecognizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &geminiRecognizer{client: client, model: model, prompt: transcriptPrompt(opts)}, nil
}

func (g *geminiRecognizer) recognize(ctx context.Context, audioPath string, _ int64) ([]subtitle.Segment, string, error) {
	file, err := g.client.Files.UploadFromPath(ctx, audioPath, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to upload audio file: %w", err)
	}
	defer func() {
		_, _ = g.client.Files.Delete(context.WithoutCancel(ctx), file.Name, nil)
	}()

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(g.prompt),
			genai.NewPartFromURI(file.URI, file.MIMEType),
		}, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, "", err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, "", fmt.Errorf("empty response from Gemini")
	}

	segments, err := decodeSegments(resp.Text())
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse transcription: %w", err)
	}
	return segments, "", nil
}

func transcriptPrompt(opts Options) string {
	lines := []string{
		"Transcribe this audio as subtitle segments.",
		"Give every sentence or short phrase its own segment with the exact spoken text.",
		`Respond with a JSON array of objects with "start", "end" and "text" fields, times in seconds as numbers.`,
	}
	if opts.Language != "" {
		lines = append(lines, fmt.Sprintf("The speech is in %s.", opts.Language))
	}
	if target := opts.TranscriptLanguage; target != "" && target != "native" {
		lines = append(lines, fmt.Sprintf("Write the transcript in %s.", target))
	}
	if opts.Prompt != "" {
		lines = append(lines, opts.Prompt)
	}
	lines = append(lines, "Output the JSON array only, without markdown.")
	return strings.Join(lines, "\n")
}
