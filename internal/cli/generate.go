package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/captioner/internal/audio"
	"github.com/mgpai22/captioner/internal/config"
	"github.com/mgpai22/captioner/internal/subtitle"
	"github.com/mgpai22/captioner/internal/transcribe"
	"github.com/mgpai22/captioner/internal/video"
)

var generateCmd = &cobra.Command{
	Use:   "generate [media_file]",
	Short: "Generate cues for an audio or video file",
	Long: `Transcribe the specified audio or video file and turn the transcript into
display-sized cues.

For video files, audio is extracted before transcription. The audio is split
into chunks (default 1 minute) that are transcribed in parallel.

With --save the cues become a new project in the database; otherwise they are
written as a subtitle file next to the media (or to --output).

Examples:
  captioner generate video.mp4 --save
  captioner generate audio.mp3 --format vtt
  captioner generate video.mp4 --provider openai --chunk-duration 2
  captioner generate podcast.mp3 -f srt -d 1 --concurrency 5`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY env var)")
	generateCmd.Flags().
		String("provider", "gemini", "Transcription provider (gemini, openai)")
	generateCmd.Flags().
		IntP("chunk-duration", "d", 1, "Chunk duration in minutes for splitting audio")
	generateCmd.Flags().
		StringP("format", "f", "", "Output subtitle format (srt, vtt, ass)")
	generateCmd.Flags().
		Int("concurrency", 3, "Number of parallel transcription workers")
	generateCmd.Flags().
		String("model", "", "Model to use for transcription (provider-specific)")
	generateCmd.Flags().
		Bool("model-override", false, "Allow any custom model, bypassing provider model validation")
	generateCmd.Flags().
		String("transcript-language", "native", "Output language for transcript (e.g., 'english', 'spanish', or 'native' for original language)")
	generateCmd.Flags().
		Bool("save", false, "Store the cues as a new project instead of writing a file")
	generateCmd.Flags().String("title", "", "Project title when saving")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := cmd.Context()

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !audio.IsMediaFile(mediaPath) {
		return fmt.Errorf("unsupported file type: %s (expected audio or video file)", filepath.Ext(mediaPath))
	}

	apiKey, _ := cmd.Flags().GetString("api-key")
	providerStr, _ := cmd.Flags().GetString("provider")
	chunkDuration, _ := cmd.Flags().GetInt("chunk-duration")
	formatStr, _ := cmd.Flags().GetString("format")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	model, _ := cmd.Flags().GetString("model")
	modelOverride, _ := cmd.Flags().GetBool("model-override")
	outputPath, _ := cmd.Flags().GetString("output")
	language, _ := cmd.Flags().GetString("language")
	transcriptLang, _ := cmd.Flags().GetString("transcript-language")
	save, _ := cmd.Flags().GetBool("save")
	title, _ := cmd.Flags().GetString("title")

	provider := transcribe.Provider(strings.ToLower(providerStr))
	switch provider {
	case transcribe.ProviderGemini, transcribe.ProviderOpenAI:
	default:
		return fmt.Errorf("unsupported provider %q: use gemini or openai", providerStr)
	}

	if apiKey == "" {
		apiKey = config.APIKey(string(provider))
	}
	if apiKey == "" {
		return fmt.Errorf(
			"API key is required: use --api-key flag or set %s environment variable",
			apiKeyEnv(string(provider)),
		)
	}

	if provider == transcribe.ProviderOpenAI && !isValidOpenAITranscriptLanguage(transcriptLang) {
		return fmt.Errorf(
			"OpenAI transcription only supports native or english transcripts, got %q",
			transcriptLang,
		)
	}
	if err := checkModel(string(provider), model, modelOverride, transcriptionModels); err != nil {
		return err
	}

	if chunkDuration <= 0 {
		return fmt.Errorf("chunk-duration must be positive, got %d", chunkDuration)
	}
	if concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	if formatStr == "" {
		formatStr = settings.Export.Format
		if outputPath != "" {
			formatStr = string(subtitle.GetFormatFromExtension(outputPath))
		}
	}
	format, err := subtitle.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	if outputPath == "" && !save {
		baseName := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
		outputPath = baseName + subtitle.GetExtensionForFormat(format)
	}

	logger.Infow("Starting subtitle generation",
		"input", mediaPath,
		"output", outputPath,
		"provider", provider,
		"format", format,
		"chunk_duration", chunkDuration,
		"concurrency", concurrency,
	)

	opts := transcribe.Options{
		Language:           language,
		TranscriptLanguage: transcriptLang,
		Model:              model,
	}
	result, err := transcribeMedia(
		ctx,
		mediaPath,
		provider,
		apiKey,
		opts,
		time.Duration(chunkDuration)*time.Minute,
		concurrency,
	)
	if err != nil {
		return err
	}

	generator := subtitle.NewDefaultGenerator()
	subs, err := generator.Generate(result.Segments)
	if err != nil {
		return fmt.Errorf("failed to generate subtitles: %w", err)
	}
	if len(subs.Entries) == 0 {
		return fmt.Errorf("transcription produced no subtitle entries")
	}
	subs.Language = language
	subs.Format = string(format)

	if save {
		return saveGenerated(ctx, mediaPath, title, result.DurationMs, subs)
	}

	writer, err := subtitle.NewWriter(format)
	if err != nil {
		return fmt.Errorf("failed to create subtitle writer: %w", err)
	}
	if err := writer.Write(subs, outputPath); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles generated successfully: %s\n", absOutput)
	fmt.Printf("  Entries: %d\n", len(subs.Entries))
	fmt.Printf("  Duration: %s\n", subtitle.FormatSRTTime(result.DurationMs))
	return nil
}

// prepares compressed audio, splits it and transcribes the chunks
func transcribeMedia(
	ctx context.Context,
	mediaPath string,
	provider transcribe.Provider,
	apiKey string,
	opts transcribe.Options,
	chunkDur time.Duration,
	concurrency int,
) (*transcribe.Result, error) {
	tempDir, err := os.MkdirTemp("", "captioner-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	audioPath := filepath.Join(tempDir, "audio.mp3")
	compressionOpts := audio.DefaultCompressionOptions()

	if audio.IsVideoFile(mediaPath) {
		logger.Infow("Extracting audio from video")
		extractOpts := video.ExtractAudioOptions{
			Format:     compressionOpts.Format,
			SampleRate: compressionOpts.SampleRate,
			Channels:   compressionOpts.Channels,
			Bitrate:    compressionOpts.Bitrate,
		}
		if err := video.ExtractAudio(ctx, mediaPath, audioPath, extractOpts); err != nil {
			return nil, fmt.Errorf("failed to extract audio: %w", err)
		}
	} else {
		logger.Infow("Compressing audio for transcription")
		if err := audio.CompressAudio(ctx, mediaPath, audioPath, compressionOpts); err != nil {
			return nil, fmt.Errorf("failed to compress audio: %w", err)
		}
	}

	duration, err := audio.GetDuration(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get audio duration: %w", err)
	}
	logger.Infow("Audio prepared",
		"duration", subtitle.FormatSRTTime(duration),
	)

	logger.Infow("Splitting audio into chunks",
		"chunk_duration", chunkDur.String(),
	)
	chunks, err := audio.ChunkAudio(ctx, audioPath, chunkDur, filepath.Join(tempDir, "chunks"), concurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to split audio: %w", err)
	}
	logger.Infow("Created audio chunks",
		"count", len(chunks),
	)

	transcriber, err := transcribe.Factory(ctx, provider, apiKey, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create transcriber: %w", err)
	}

	logger.Infow("Transcribing audio",
		"concurrency", concurrency,
	)
	result, err := transcriber.TranscribeWithChunks(ctx, chunks, concurrency)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}
	if result.DurationMs <= 0 {
		result.DurationMs = duration
	}

	logger.Infow("Transcription complete",
		"segments", len(result.Segments),
	)
	return result, nil
}

func saveGenerated(
	ctx context.Context,
	mediaPath, title string,
	durationMs int64,
	subs *subtitle.Subtitle,
) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	s := ws.newSession()
	defer s.Close()

	if title == "" {
		base := filepath.Base(mediaPath)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	absMedia, _ := filepath.Abs(mediaPath)

	s.SetTitle(title)
	s.LoadVideo(absMedia, durationMs)
	s.LoadCues(subs.Drafts())

	if err := s.Save(ctx); err != nil {
		return err
	}

	meta := s.Meta()
	fmt.Printf("Project created: %s\n", meta.ID)
	fmt.Printf("  Title: %s\n", meta.Title)
	fmt.Printf("  Cues: %d\n", meta.CueCount)
	fmt.Printf("  Duration: %s\n", subtitle.FormatSRTTime(meta.DurationMs))
	return nil
}
