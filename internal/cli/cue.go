package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mgpai22/captioner/internal/cue"
	"github.com/mgpai22/captioner/internal/editor"
	"github.com/mgpai22/captioner/internal/subtitle"
)

var cueCmd = &cobra.Command{
	Use:   "cue",
	Short: "Inspect and edit the cues of a project",
	Long: `Edit the cues of a stored project. Every subcommand takes the project id
(or a unique prefix) first; cue ids may also be shortened to a unique prefix.

Times accept milliseconds (1500), durations (1.5s, -250ms) or clock values
(00:00:01,500). Moves and retimes snap to neighbouring cue edges unless
--no-snap is given.

Examples:
  captioner cue list 3f2a
  captioner cue add 3f2a --start 00:00:05,000 --end 7.5s --text "Hello"
  captioner cue move 3f2a 9c1e 77b0 --delta=-500
  captioner cue merge 3f2a 9c1e 77b0`,
}

func init() {
	rootCmd.AddCommand(cueCmd)

	cueListCmd.Flags().Bool("json", false, "Print cues as JSON")

	cueAddCmd.Flags().String("start", "", "Start time (required)")
	cueAddCmd.Flags().String("end", "", "End time (required)")
	cueAddCmd.Flags().String("text", "", "Cue text (required)")
	cueAddCmd.Flags().String("speaker", "", "Speaker name")
	_ = cueAddCmd.MarkFlagRequired("start")
	_ = cueAddCmd.MarkFlagRequired("end")
	_ = cueAddCmd.MarkFlagRequired("text")

	cueEditCmd.Flags().String("text", "", "New cue text")
	cueEditCmd.Flags().String("speaker", "", "New speaker name")

	cueSplitCmd.Flags().String("at", "", "Split time (required)")
	_ = cueSplitCmd.MarkFlagRequired("at")

	cueMoveCmd.Flags().String("delta", "", "Offset to move by, may be negative (required)")
	cueMoveCmd.Flags().Bool("no-snap", false, "Disable snapping to other cues")
	_ = cueMoveCmd.MarkFlagRequired("delta")

	cueRetimeCmd.Flags().String("start", "", "New start time (required)")
	cueRetimeCmd.Flags().String("end", "", "New end time (required)")
	cueRetimeCmd.Flags().Bool("no-snap", false, "Disable snapping to other cues")
	_ = cueRetimeCmd.MarkFlagRequired("start")
	_ = cueRetimeCmd.MarkFlagRequired("end")

	cuePositionCmd.Flags().Float64("x", 50, "Horizontal position in percent")
	cuePositionCmd.Flags().Float64("y", 85, "Vertical position in percent")

	cueCmd.AddCommand(
		cueListCmd,
		cueAddCmd,
		cueEditCmd,
		cueSplitCmd,
		cueMergeCmd,
		cueDuplicateCmd,
		cueMoveCmd,
		cueRetimeCmd,
		cuePositionCmd,
		cueDeleteCmd,
		cueValidateCmd,
	)
}

// editProject opens a project, runs fn against it and saves when fn left
// unsaved changes.
func editProject(cmd *cobra.Command, ref string, fn func(s *editor.Session) error) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	s, err := ws.open(cmd.Context(), ref)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := fn(s); err != nil {
		return err
	}
	if s.Status() != editor.StatusUnsaved {
		return nil
	}
	return s.Save(cmd.Context())
}

func resolveCues(s *editor.Session, refs []string) ([]string, error) {
	cues := s.Cues()
	ids := make([]string, len(cues))
	for i, c := range cues {
		ids[i] = c.ID
	}
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		id, err := matchID("cue", ids, ref)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func timeFlag(cmd *cobra.Command, name string) (int64, error) {
	raw, _ := cmd.Flags().GetString(name)
	ms, err := parseTime(raw)
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", name, err)
	}
	return ms, nil
}

func printCue(label string, s *editor.Session, id string) {
	c, ok := s.Cue(id)
	if !ok {
		return
	}
	fmt.Printf("%s %s  %s --> %s  %s\n",
		label,
		c.ID,
		subtitle.FormatSRTTime(c.Start),
		subtitle.FormatSRTTime(c.End),
		oneLine(c.Text),
	)
}

// runs fn with snapping forced off when enabled is false; the stored setting is kept
func snapping(s *editor.Session, enabled bool, fn func()) {
	if enabled {
		fn()
		return
	}
	prev := s.View().SnapEnabled
	s.SetSnap(false)
	fn()
	s.SetSnap(prev)
}

func oneLine(text string) string {
	return strings.ReplaceAll(text, "\n", " / ")
}

var cueListCmd = &cobra.Command{
	Use:   "list [project_id]",
	Short: "List cues in time order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return editProject(cmd, args[0], func(s *editor.Session) error {
			cues := s.Cues()
			if asJSON {
				out, err := json.MarshalIndent(cues, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode cues: %w", err)
				}
				fmt.Println(string(out))
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTART\tEND\tSPEAKER\tTEXT")
			for _, c := range cues {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					c.ID,
					subtitle.FormatSRTTime(c.Start),
					subtitle.FormatSRTTime(c.End),
					c.Speaker,
					oneLine(c.Text),
				)
			}
			return tw.Flush()
		})
	},
}

var cueAddCmd = &cobra.Command{
	Use:   "add [project_id]",
	Short: "Add a cue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := timeFlag(cmd, "start")
		if err != nil {
			return err
		}
		end, err := timeFlag(cmd, "end")
		if err != nil {
			return err
		}
		text, _ := cmd.Flags().GetString("text")
		speaker, _ := cmd.Flags().GetString("speaker")

		draft := cue.Draft{Start: start, End: end, Text: text, Speaker: speaker}
		if problems := cue.Validate(draft); len(problems) > 0 {
			return fmt.Errorf("invalid cue: %s", strings.Join(problems, "; "))
		}

		return editProject(cmd, args[0], func(s *editor.Session) error {
			id := s.AddCue(draft)
			printCue("Added", s, id)
			return nil
		})
	},
}

var cueEditCmd = &cobra.Command{
	Use:   "edit [project_id] [cue_id]",
	Short: "Change the text or speaker of a cue",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch cue.Patch
		if cmd.Flags().Changed("text") {
			text, _ := cmd.Flags().GetString("text")
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("invalid cue: text must not be empty")
			}
			patch.Text = &text
		}
		if cmd.Flags().Changed("speaker") {
			speaker, _ := cmd.Flags().GetString("speaker")
			patch.Speaker = &speaker
		}
		if patch.Text == nil && patch.Speaker == nil {
			return fmt.Errorf("nothing to change: use --text or --speaker")
		}

		return editProject(cmd, args[0], func(s *editor.Session) error {
			ids, err := resolveCues(s, args[1:])
			if err != nil {
				return err
			}
			s.UpdateCue(ids[0], patch)
			printCue("Updated", s, ids[0])
			return nil
		})
	},
}

var cueSplitCmd = &cobra.Command{
	Use:   "split [project_id] [cue_id]",
	Short: "Split a cue in two at a time inside it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := timeFlag(cmd, "at")
		if err != nil {
			return err
		}
		return editProject(cmd, args[0], func(s *editor.Session) error {
			ids, err := resolveCues(s, args[1:])
			if err != nil {
				return err
			}
			second := s.SplitCue(ids[0], at)
			if second == "" {
				return fmt.Errorf("split time %s is not inside the cue", subtitle.FormatSRTTime(at))
			}
			printCue("First ", s, ids[0])
			printCue("Second", s, second)
			return nil
		})
	},
}

var cueMergeCmd = &cobra.Command{
	Use:   "merge [project_id] [cue_id] [cue_id]...",
	Short: "Merge two or more cues into one",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editProject(cmd, args[0], func(s *editor.Session) error {
			ids, err := resolveCues(s, args[1:])
			if err != nil {
				return err
			}
			merged := s.MergeCues(ids)
			if merged == "" {
				return fmt.Errorf("merge needs at least two distinct cues")
			}
			printCue("Merged", s, merged)
			return nil
		})
	},
}

var cueDuplicateCmd = &cobra.Command{
	Use:   "duplicate [project_id] [cue_id]",
	Short: "Copy a cue to just after the original",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editProject(cmd, args[0], func(s *editor.Session) error {
			ids, err := resolveCues(s, args[1:])
			if err != nil {
				return err
			}
			printCue("Added", s, s.DuplicateCue(ids[0]))
			return nil
		})
	},
}

var cueMoveCmd = &cobra.Command{
	Use:   "move [project_id] [cue_id]...",
	Short: "Shift cues in time, keeping their spacing",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		delta, err := timeFlag(cmd, "delta")
		if err != nil {
			return err
		}
		noSnap, _ := cmd.Flags().GetBool("no-snap")

		return editProject(cmd, args[0], func(s *editor.Session) error {
			ids, err := resolveCues(s, args[1:])
			if err != nil {
				return err
			}
			s.Select(ids)
			snapping(s, !noSnap, func() { s.MoveSelected(delta) })
			for _, id := range ids {
				printCue("Moved", s, id)
			}
			return nil
		})
	},
}

var cueRetimeCmd = &cobra.Command{
	Use:   "retime [project_id] [cue_id]",
	Short: "Set both edges of a cue",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := timeFlag(cmd, "start")
		if err != nil {
			return err
		}
		end, err := timeFlag(cmd, "end")
		if err != nil {
			return err
		}
		noSnap, _ := cmd.Flags().GetBool("no-snap")

		return editProject(cmd, args[0], func(s *editor.Session) error {
			ids, err := resolveCues(s, args[1:])
			if err != nil {
				return err
			}
			snapping(s, !noSnap, func() { s.RetimeCue(ids[0], start, end) })
			printCue("Retimed", s, ids[0])
			return nil
		})
	},
}

var cuePositionCmd = &cobra.Command{
	Use:   "position [project_id] [cue_id]",
	Short: "Place a cue on the video frame (percent coordinates)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, _ := cmd.Flags().GetFloat64("x")
		y, _ := cmd.Flags().GetFloat64("y")
		return editProject(cmd, args[0], func(s *editor.Session) error {
			ids, err := resolveCues(s, args[1:])
			if err != nil {
				return err
			}
			s.SetCuePosition(ids[0], x, y)
			if c, ok := s.Cue(ids[0]); ok && c.Position != nil {
				fmt.Printf("Positioned %s at %.1f%%, %.1f%%\n", c.ID, c.Position.X, c.Position.Y)
			}
			return nil
		})
	},
}

var cueDeleteCmd = &cobra.Command{
	Use:   "delete [project_id] [cue_id]...",
	Short: "Delete cues",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editProject(cmd, args[0], func(s *editor.Session) error {
			ids, err := resolveCues(s, args[1:])
			if err != nil {
				return err
			}
			s.DeleteCues(ids)
			fmt.Printf("Deleted %d cues\n", len(ids))
			return nil
		})
	},
}

var cueValidateCmd = &cobra.Command{
	Use:   "validate [project_id]",
	Short: "Report cues with empty text or out-of-range durations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editProject(cmd, args[0], func(s *editor.Session) error {
			problems := s.ValidateAll()
			if len(problems) == 0 {
				fmt.Println("All cues are valid")
				return nil
			}

			// report in time order
			for _, c := range s.Cues() {
				errs, ok := problems[c.ID]
				if !ok {
					continue
				}
				fmt.Printf("%s %s\n", c.ID, subtitle.FormatSRTTime(c.Start))
				sort.Strings(errs)
				for _, e := range errs {
					fmt.Printf("  - %s\n", e)
				}
			}
			return fmt.Errorf("%d of %d cues have problems", len(problems), len(s.Cues()))
		})
	},
}
