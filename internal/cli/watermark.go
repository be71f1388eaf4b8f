package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/captioner/internal/editor"
	"github.com/mgpai22/captioner/internal/overlay"
)

var watermarkCmd = &cobra.Command{
	Use:   "watermark [project_id]",
	Short: "Show or change a project's watermark",
	Long: `Show the watermark of a project, or change it.

--position snaps the watermark to a corner preset (top-left, top-right,
bottom-left, bottom-right); --toggle switches it on or off.

Examples:
  captioner watermark 3f2a
  captioner watermark 3f2a --position top-right
  captioner watermark 3f2a --toggle`,
	Args: cobra.ExactArgs(1),
	RunE: runWatermark,
}

func init() {
	rootCmd.AddCommand(watermarkCmd)

	watermarkCmd.Flags().String("position", "", "Corner preset")
	watermarkCmd.Flags().Bool("toggle", false, "Enable or disable the watermark")
}

func runWatermark(cmd *cobra.Command, args []string) error {
	position, _ := cmd.Flags().GetString("position")
	toggle, _ := cmd.Flags().GetBool("toggle")

	anchor := overlay.Anchor(position)
	if position != "" && !overlay.ValidAnchor(anchor) {
		return fmt.Errorf("unknown watermark position %q: use top-left, top-right, bottom-left or bottom-right", position)
	}

	return editProject(cmd, args[0], func(s *editor.Session) error {
		if position != "" {
			s.SetWatermarkPreset(anchor)
		}
		if toggle {
			s.ToggleWatermark()
		}

		w := s.Watermark()
		at := w.Position()
		fmt.Printf("Watermark: %q\n", w.Text)
		fmt.Printf("  Enabled: %t\n", w.Enabled)
		fmt.Printf("  Mode: %s\n", w.Mode)
		fmt.Printf("  Position: %.1f%%, %.1f%%\n", at.X, at.Y)
		fmt.Printf("  Opacity: %.0f%%\n", w.Opacity)
		return nil
	})
}
