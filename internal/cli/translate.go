package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/captioner/internal/config"
	"github.com/mgpai22/captioner/internal/cue"
	"github.com/mgpai22/captioner/internal/editor"
	"github.com/mgpai22/captioner/internal/subtitle"
	"github.com/mgpai22/captioner/internal/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate [project_id | subtitle_file]",
	Short: "Translate cues to another language using AI",
	Long: `Translate the cues of a project, or an existing subtitle file, to another
language using AI.

For a project the cue text is replaced in place and the project is saved.
For a subtitle file (SRT, VTT, ASS/SSA) a translated copy is written; ASS
styling and override tags are preserved.

The --overlay flag creates bilingual subtitles with the translated text
first, followed by the original text on the next line.

Provider, model, batch size and concurrency default to the settings file.

Examples:
  captioner translate 3f2a --target-language japanese
  captioner translate video.ass --target-language ja --overlay
  captioner translate video.vtt -l english --target-language spanish -o translated.vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().
		StringP("target-language", "t", "", "Target language for translation (required)")
	translateCmd.Flags().
		Bool("overlay", false, "Overlay translated text with original (bilingual subtitles)")
	translateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY env var)")
	translateCmd.Flags().
		String("model", "", "Model to use for translation (provider-specific, uses sensible defaults)")
	translateCmd.Flags().
		Bool("model-override", false, "Allow any custom model, bypassing provider model validation")
	translateCmd.Flags().
		String("provider", "gemini", "Translation provider (gemini, openai, anthropic)")
	translateCmd.Flags().
		Int("concurrency", 3, "Number of parallel translation workers")
	translateCmd.Flags().
		Int("batch-size", translate.DefaultBatchSize, "Number of subtitle entries per API request")

	_ = translateCmd.MarkFlagRequired("target-language")
}

type translateJob struct {
	translator  translate.Translator
	target      string
	overlay     bool
	concurrency int
}

func runTranslate(cmd *cobra.Command, args []string) error {
	ref := args[0]
	ctx := cmd.Context()

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	applyTranslateDefaults(cmd, settings.Translate)

	targetLang, _ := cmd.Flags().GetString("target-language")
	overlay, _ := cmd.Flags().GetBool("overlay")
	apiKey, _ := cmd.Flags().GetString("api-key")
	model, _ := cmd.Flags().GetString("model")
	modelOverride, _ := cmd.Flags().GetBool("model-override")
	providerStr, _ := cmd.Flags().GetString("provider")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	inputLang, _ := cmd.Flags().GetString("language")

	if strings.TrimSpace(targetLang) == "" {
		return fmt.Errorf("target language is required")
	}
	if inputLang != "" &&
		strings.EqualFold(
			strings.TrimSpace(inputLang),
			strings.TrimSpace(targetLang),
		) {
		return fmt.Errorf(
			"input language %q and target language %q cannot be the same",
			inputLang,
			targetLang,
		)
	}

	provider := translate.Provider(strings.ToLower(providerStr))
	if apiKey == "" {
		apiKey = config.APIKey(string(provider))
	}
	if apiKey == "" {
		return fmt.Errorf(
			"API key is required: use --api-key flag or set %s environment variable",
			apiKeyEnv(string(provider)),
		)
	}
	if err := checkModel(string(provider), model, modelOverride, translationModels); err != nil {
		return err
	}

	if concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be positive, got %d", batchSize)
	}

	opts := translate.Options{
		InputLanguage:  inputLang,
		TargetLanguage: targetLang,
		Model:          model,
		BatchSize:      batchSize,
	}
	translator, err := translate.Factory(ctx, provider, apiKey, opts)
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	job := translateJob{
		translator:  translator,
		target:      targetLang,
		overlay:     overlay,
		concurrency: concurrency,
	}

	logger.Infow("Starting subtitle translation",
		"input", ref,
		"provider", provider,
		"target_language", targetLang,
		"input_language", inputLang,
		"overlay", overlay,
		"model", model,
	)

	if isSubtitleFile(ref) {
		outputPath, _ := cmd.Flags().GetString("output")
		return translateFile(ctx, job, ref, outputPath)
	}
	return editProject(cmd, ref, func(s *editor.Session) error {
		return translateProject(ctx, job, s)
	})
}

// settings file values fill in flags the user did not set
func applyTranslateDefaults(cmd *cobra.Command, t config.Translate) {
	flags := cmd.Flags()
	if !flags.Changed("provider") && t.Provider != "" {
		_ = flags.Set("provider", t.Provider)
	}
	if !flags.Changed("model") && t.Model != "" &&
		strings.EqualFold(t.Provider, flags.Lookup("provider").Value.String()) {
		_ = flags.Set("model", t.Model)
	}
	if !flags.Changed("batch-size") && t.BatchSize > 0 {
		_ = flags.Set("batch-size", fmt.Sprint(t.BatchSize))
	}
	if !flags.Changed("concurrency") && t.Concurrency > 0 {
		_ = flags.Set("concurrency", fmt.Sprint(t.Concurrency))
	}
}

func isSubtitleFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".srt", ".vtt", ".ass", ".ssa":
	default:
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func overlayText(translated, original string) string {
	return translated + "\n" + original
}

func translateProject(ctx context.Context, job translateJob, s *editor.Session) error {
	cues := s.Cues()
	if len(cues) == 0 {
		return fmt.Errorf("project has no cues to translate")
	}

	logger.Infow("Translating cues",
		"cues", len(cues),
		"concurrency", job.concurrency,
	)
	texts, err := translate.Cues(ctx, job.translator, cues, job.concurrency)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	for _, c := range cues {
		text, ok := texts[c.ID]
		if !ok {
			continue
		}
		if job.overlay {
			text = overlayText(text, c.Text)
		}
		s.UpdateCue(c.ID, cue.Patch{Text: &text})
	}

	meta := s.Meta()
	fmt.Printf("Project translated successfully: %s\n", meta.ID)
	fmt.Printf("  Cues: %d\n", len(texts))
	fmt.Printf("  Target language: %s\n", job.target)
	if job.overlay {
		fmt.Printf("  Mode: bilingual overlay\n")
	}
	return nil
}

func translateFile(ctx context.Context, job translateJob, subtitlePath, outputPath string) error {
	ext := strings.ToLower(filepath.Ext(subtitlePath))
	if outputPath == "" {
		baseName := strings.TrimSuffix(subtitlePath, filepath.Ext(subtitlePath))
		if job.overlay {
			outputPath = fmt.Sprintf("%s.%s.overlay%s", baseName, job.target, ext)
		} else {
			outputPath = fmt.Sprintf("%s.%s%s", baseName, job.target, ext)
		}
	}

	logger.Infow("Parsing subtitle file")
	subFile, err := subtitle.Open(subtitlePath)
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}

	sub := subFile.Subtitle()
	if len(sub.Entries) == 0 {
		return fmt.Errorf("subtitle file contains no entries")
	}

	logger.Infow("Parsed subtitle file",
		"entries", len(sub.Entries),
		"format", subFile.Format(),
	)

	items := make([]translate.TranslationItem, len(sub.Entries))
	for i, entry := range sub.Entries {
		items[i] = translate.TranslationItem{
			Index: i,
			Text:  entry.Text,
		}
	}

	logger.Infow("Translating subtitles",
		"items", len(items),
		"concurrency", job.concurrency,
	)

	var results []translate.TranslationResult
	if ct, ok := job.translator.(translate.ConcurrentTranslator); ok {
		results, err = ct.TranslateWithConcurrency(ctx, items, job.concurrency)
	} else {
		results, err = job.translator.Translate(ctx, items)
	}
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	assFile, isASS := subFile.(*subtitle.ASSFile)

	for _, result := range results {
		if result.Index < 0 || result.Index >= len(sub.Entries) {
			logger.Warnw("Skipping invalid result index",
				"index", result.Index,
				"max", len(sub.Entries)-1,
			)
			continue
		}

		switch {
		case job.overlay && isASS:
			err = assFile.SetTextWithOverlay(result.Index, result.Text)
		case job.overlay:
			err = subFile.SetText(
				result.Index,
				overlayText(result.Text, sub.Entries[result.Index].Text),
			)
		default:
			err = subFile.SetText(result.Index, result.Text)
		}
		if err != nil {
			return fmt.Errorf("failed to set text for entry %d: %w", result.Index, err)
		}
	}

	logger.Infow("Writing output file")
	if err := subFile.Write(outputPath); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles translated successfully: %s\n", absOutput)
	fmt.Printf("  Entries: %d\n", len(sub.Entries))
	fmt.Printf("  Target language: %s\n", job.target)
	if job.overlay {
		fmt.Printf("  Mode: bilingual overlay\n")
	}
	return nil
}
