package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/mgpai22/captioner/internal/subtitle"
)

var exportCmd = &cobra.Command{
	Use:   "export [project_id]",
	Short: "Export a project's cues as a subtitle file",
	Long: `Export the cues of a project as SRT, VTT or ASS.

The format defaults to the export format in the settings file. Without
--output the subtitles are printed to stdout; --clipboard copies them to the
system clipboard instead.

Examples:
  captioner export 3f2a --format vtt -o talk.vtt
  captioner export 3f2a --clipboard`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("format", "f", "", "Subtitle format (srt, vtt, ass)")
	exportCmd.Flags().Bool("clipboard", false, "Copy the subtitles to the clipboard")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	formatStr, _ := cmd.Flags().GetString("format")
	toClipboard, _ := cmd.Flags().GetBool("clipboard")
	outputPath, _ := cmd.Flags().GetString("output")
	language, _ := cmd.Flags().GetString("language")

	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	if formatStr == "" {
		formatStr = ws.settings.Export.Format
		if outputPath != "" {
			formatStr = string(subtitle.GetFormatFromExtension(outputPath))
		}
	}
	format, err := subtitle.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	s, err := ws.open(ctx, args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	cues := s.Cues()
	if len(cues) == 0 {
		return fmt.Errorf("project has no cues to export")
	}

	sub := subtitle.FromCues(cues, format)
	sub.Language = language

	writer, err := subtitle.NewWriter(format)
	if err != nil {
		return fmt.Errorf("failed to create subtitle writer: %w", err)
	}

	switch {
	case toClipboard:
		if err := clipboard.WriteAll(string(writer.Encode(sub))); err != nil {
			return fmt.Errorf("failed to copy subtitles to clipboard: %w", err)
		}
		fmt.Printf("Copied %d cues to the clipboard\n", len(cues))
	case outputPath != "":
		if err := writer.Write(sub, outputPath); err != nil {
			return fmt.Errorf("failed to write subtitles: %w", err)
		}
		absOutput, _ := filepath.Abs(outputPath)
		fmt.Printf("Subtitles exported: %s\n", absOutput)
		fmt.Printf("  Entries: %d\n", len(cues))
	default:
		if _, err := os.Stdout.Write(writer.Encode(sub)); err != nil {
			return fmt.Errorf("failed to write subtitles: %w", err)
		}
	}

	logger.Debugw("Exported project",
		"project", s.Meta().ID,
		"format", format,
		"cues", len(cues),
	)
	return nil
}
