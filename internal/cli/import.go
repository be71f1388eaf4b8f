package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/captioner/internal/subtitle"
	"github.com/mgpai22/captioner/internal/timeline"
	"github.com/mgpai22/captioner/internal/video"
)

var importCmd = &cobra.Command{
	Use:   "import [subtitle_file]",
	Short: "Create a project from an existing subtitle file",
	Long: `Create a new project from an SRT, VTT or ASS file.

Malformed SRT blocks are skipped and reported. With --video the media is
probed and its duration becomes the project timeline length; otherwise the
timeline ends at the last cue.

Examples:
  captioner import talk.srt --video talk.mp4
  captioner import episode.vtt --title "Episode 3"`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("video", "", "Video the subtitles belong to")
	importCmd.Flags().String("title", "", "Project title (defaults to the file name)")
}

func runImport(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	ctx := cmd.Context()

	videoPath, _ := cmd.Flags().GetString("video")
	title, _ := cmd.Flags().GetString("title")
	language, _ := cmd.Flags().GetString("language")

	file, err := subtitle.Open(subtitlePath)
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}
	if file.Format() == subtitle.FormatSRT {
		reportSRTProblems(subtitlePath)
	}

	sub := file.Subtitle()
	if len(sub.Entries) == 0 {
		return fmt.Errorf("subtitle file contains no entries")
	}

	if title == "" {
		base := filepath.Base(subtitlePath)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	s := ws.newSession()
	defer s.Close()

	s.SetTitle(title)
	if videoPath != "" {
		info, err := video.Probe(ctx, videoPath)
		if err != nil {
			return fmt.Errorf("failed to probe video: %w", err)
		}
		absVideo, _ := filepath.Abs(videoPath)
		s.LoadVideo(absVideo, info.DurationMs)
	}
	s.LoadCues(sub.Drafts())

	if videoPath == "" {
		var end int64
		for _, e := range sub.Entries {
			end = max(end, e.End)
		}
		s.OnDuration(timeline.Seconds(end))
	}

	for id, problems := range s.ValidateAll() {
		logger.Warnw("Imported cue has problems",
			"cue", id,
			"problems", problems,
		)
	}

	if err := s.Save(ctx); err != nil {
		return err
	}

	meta := s.Meta()
	logger.Infow("Imported subtitles",
		"project", meta.ID,
		"format", file.Format(),
		"language", language,
	)
	fmt.Printf("Project created: %s\n", meta.ID)
	fmt.Printf("  Title: %s\n", meta.Title)
	fmt.Printf("  Cues: %d\n", meta.CueCount)
	fmt.Printf("  Duration: %s\n", subtitle.FormatSRTTime(meta.DurationMs))
	return nil
}

// logs each block the lenient SRT reader dropped
func reportSRTProblems(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	for _, problem := range subtitle.ValidateSRT(string(data)) {
		logger.Warnw("Skipped subtitle block", "problem", problem)
	}
}
