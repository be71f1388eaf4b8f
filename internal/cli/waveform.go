package cli

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/captioner/internal/audio"
)

var waveformCmd = &cobra.Command{
	Use:   "waveform [media_file]",
	Short: "Print the peak waveform drawn under the timeline",
	Long: `Decode the audio of a media file and print its peak amplitudes, one value
per bucket in the range 0..1.

Examples:
  captioner waveform talk.mp4
  captioner waveform talk.mp4 --buckets 400 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runWaveform,
}

func init() {
	rootCmd.AddCommand(waveformCmd)

	waveformCmd.Flags().IntP("buckets", "b", 80, "Number of peak buckets")
	waveformCmd.Flags().Bool("json", false, "Print peaks as a JSON array")
}

func runWaveform(cmd *cobra.Command, args []string) error {
	buckets, _ := cmd.Flags().GetInt("buckets")
	asJSON, _ := cmd.Flags().GetBool("json")

	if _, err := loadSettings(); err != nil {
		return err
	}

	logger.Debugw("Decoding waveform", "input", args[0], "buckets", buckets)
	peaks, err := audio.Waveform(cmd.Context(), args[0], buckets)
	if err != nil {
		return err
	}

	if asJSON {
		out, err := json.Marshal(peaks)
		if err != nil {
			return fmt.Errorf("failed to encode peaks: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}
	fmt.Println(sparkline(peaks))
	return nil
}

var bars = []rune("▁▂▃▄▅▆▇█")

// renders peaks in 0..1 as block characters; out of range values are clamped
func sparkline(peaks []float64) string {
	var b strings.Builder
	for _, p := range peaks {
		p = math.Max(0, math.Min(1, p))
		b.WriteRune(bars[int(math.Round(p*float64(len(bars)-1)))])
	}
	return b.String()
}
