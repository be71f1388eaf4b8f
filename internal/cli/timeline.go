package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/captioner/internal/editor"
	"github.com/mgpai22/captioner/internal/timeline"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Inspect a project's timeline",
}

var timelineMarksCmd = &cobra.Command{
	Use:   "marks [project_id]",
	Short: "Print the ruler marks for a zoom level",
	Long: `Print the ruler marks the editor draws for a project at the given zoom.

Major ticks carry a label; cue edges that do not fall on a tick are listed
as boundary marks.

Examples:
  captioner timeline marks 3f2a
  captioner timeline marks 3f2a --pps 250 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runTimelineMarks,
}

func init() {
	rootCmd.AddCommand(timelineCmd)
	timelineCmd.AddCommand(timelineMarksCmd)

	timelineMarksCmd.Flags().
		Float64("pps", 0, "Pixels per second (defaults to the project's zoom)")
	timelineMarksCmd.Flags().Bool("json", false, "Print marks as JSON")
}

func runTimelineMarks(cmd *cobra.Command, args []string) error {
	pps, _ := cmd.Flags().GetFloat64("pps")
	asJSON, _ := cmd.Flags().GetBool("json")

	return editProject(cmd, args[0], func(s *editor.Session) error {
		prev := s.View().PixelsPerSecond
		if pps > 0 {
			s.SetZoom(pps)
			defer s.SetZoom(prev)
		}

		if s.Meta().DurationMs <= 0 {
			return fmt.Errorf("project has no timeline duration")
		}
		marks := s.Marks()

		if asJSON {
			out, err := json.MarshalIndent(marks, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode marks: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		view := s.View()
		fmt.Printf("Zoom: %.0f px/s, tick every %s\n",
			view.PixelsPerSecond,
			timeline.FormatRulerTime(timeline.TickInterval(view.PixelsPerSecond), true),
		)
		for _, m := range marks {
			kind := "minor"
			switch {
			case m.Boundary:
				kind = "edge"
			case m.Major:
				kind = "major"
			}
			fmt.Printf("%s  %10.1fpx  %-6s %s\n",
				timeline.FormatRulerTime(m.Time, true),
				m.Position,
				kind,
				m.Label,
			)
		}
		return nil
	})
}
