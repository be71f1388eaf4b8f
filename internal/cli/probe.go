package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/captioner/internal/subtitle"
	"github.com/mgpai22/captioner/internal/video"
)

var probeCmd = &cobra.Command{
	Use:   "probe [media_file]",
	Short: "Show duration, dimensions and codec of a media file",
	Args:  cobra.ExactArgs(1),
	RunE:  runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().Bool("json", false, "Print the result as JSON")
}

func runProbe(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	if _, err := loadSettings(); err != nil {
		return err
	}

	info, err := video.Probe(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to probe media: %w", err)
	}

	if asJSON {
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode probe result: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("%s\n", info.Path)
	fmt.Printf("  Duration: %s\n", subtitle.FormatSRTTime(info.DurationMs))
	if info.Width > 0 {
		fmt.Printf("  Size: %dx%d\n", info.Width, info.Height)
		fmt.Printf("  Frame rate: %.3f\n", info.FrameRate)
		fmt.Printf("  Codec: %s\n", info.Codec)
	}
	fmt.Printf("  Audio: %t\n", info.HasAudio)
	return nil
}
