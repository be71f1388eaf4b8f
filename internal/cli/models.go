package cli

import (
	"fmt"
	"slices"
	"strings"
)

var geminiModels = []string{
	"gemini-3-pro-preview",
	"gemini-3-flash-preview",
	"gemini-2.5-pro",
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
}

// models accepted per provider without --model-override
var (
	translationModels = map[string][]string{
		"gemini": geminiModels,
		"openai": {
			"o1", "o3-mini", "o1-pro", "o3",
			"gpt-5", "gpt-5-nano", "gpt-5-mini", "gpt-5-pro",
			"gpt-5.1", "gpt-5.2", "gpt-5.2-pro",
		},
		"anthropic": {
			"claude-haiku-4-5",
			"claude-sonnet-4-5",
			"claude-opus-4-1",
		},
	}
	// only whisper returns segment timestamps
	transcriptionModels = map[string][]string{
		"gemini": geminiModels,
		"openai": {"whisper-1"},
	}
)

// OpenAI transcription can keep the spoken language or translate to English only.
func isValidOpenAITranscriptLanguage(lang string) bool {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "", "native", "english", "en":
		return true
	}
	return false
}

// checkModel rejects models outside the provider's list unless override is set.
// An empty model means the provider default.
func checkModel(provider, model string, override bool, table map[string][]string) error {
	if model == "" || override {
		return nil
	}
	valid, ok := table[provider]
	if !ok || slices.Contains(valid, model) {
		return nil
	}
	return fmt.Errorf(
		"unsupported %s model %q: valid models are %s (use --model-override to bypass)",
		provider,
		model,
		strings.Join(valid, ", "),
	)
}

func apiKeyEnv(provider string) string {
	switch provider {
	case "gemini":
		return "GEMINI_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	default:
		return "API_KEY"
	}
}
