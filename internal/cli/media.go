package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mgpai22/captioner/internal/editor"
	"github.com/mgpai22/captioner/internal/placement"
	"github.com/mgpai22/captioner/internal/subtitle"
)

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Place stickers, gifs and B-roll clips on a project timeline",
	Long: `Manage media placed on a project's timeline. Stickers and gifs sit on the
video frame at a percent position; B-roll clips cover a cue with padding on
either side and play at a reduced volume.

Examples:
  captioner media add 3f2a --url https://example.com/wave.gif --kind gif --start 2s --end 4s
  captioner media broll 3f2a 9c1e --url clips/city.mp4 --before 250ms
  captioner media list 3f2a`,
}

var mediaListCmd = &cobra.Command{
	Use:   "list [project]",
	Short: "List placed media",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editProject(cmd, args[0], func(s *editor.Session) error {
			items := append(s.Media(), s.Broll()...)
			if len(items) == 0 {
				fmt.Println("No media placed.")
				return nil
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tKIND\tSTART\tEND\tPOSITION\tVOLUME\tSOURCE")
			for _, p := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.0f,%.0f x%.2g\t%.2f\t%s\n",
					p.ID[:8],
					p.Media.Kind,
					subtitle.FormatSRTTime(p.Start),
					subtitle.FormatSRTTime(p.End),
					p.Position.X, p.Position.Y, p.Position.Scale,
					p.Volume,
					p.Media.URL,
				)
			}
			return tw.Flush()
		})
	},
}

var mediaAddCmd = &cobra.Command{
	Use:   "add [project]",
	Short: "Place a sticker or gif",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString("url")
		kind, _ := cmd.Flags().GetString("kind")
		x, _ := cmd.Flags().GetFloat64("x")
		y, _ := cmd.Flags().GetFloat64("y")

		switch placement.Kind(kind) {
		case placement.KindSticker, placement.KindGIF:
		default:
			return fmt.Errorf("invalid kind: %s (use sticker or gif)", kind)
		}
		start, err := timeFlag(cmd, "start")
		if err != nil {
			return err
		}
		end, err := timeFlag(cmd, "end")
		if err != nil {
			return err
		}

		return editProject(cmd, args[0], func(s *editor.Session) error {
			ref := mediaRef(url, placement.Kind(kind))
			id := s.PlaceMedia(ref, start, end, x, y)
			logger.Infow("media placed", "id", id, "kind", kind)
			fmt.Printf("placed %s %s\n", kind, id)
			return nil
		})
	},
}

var mediaBrollCmd = &cobra.Command{
	Use:   "broll [project] [cue]",
	Short: "Cover a cue with a B-roll clip",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString("url")
		before, err := timeFlag(cmd, "before")
		if err != nil {
			return err
		}
		after, err := timeFlag(cmd, "after")
		if err != nil {
			return err
		}

		return editProject(cmd, args[0], func(s *editor.Session) error {
			ids, err := resolveCues(s, args[1:])
			if err != nil {
				return err
			}
			id := s.PlaceBroll(mediaRef(url, placement.KindBroll), ids[0], before, after)
			if id == "" {
				return fmt.Errorf("cue not found: %s", args[1])
			}
			fmt.Printf("placed broll %s\n", id)
			return nil
		})
	},
}

var mediaEditCmd = &cobra.Command{
	Use:   "edit [project] [placement]",
	Short: "Retime, move or change the volume of placed media",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editProject(cmd, args[0], func(s *editor.Session) error {
			id, p, err := resolvePlacement(s, args[1])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("start") || flags.Changed("end") {
				start, end := p.Start, p.End
				if flags.Changed("start") {
					if start, err = timeFlag(cmd, "start"); err != nil {
						return err
					}
				}
				if flags.Changed("end") {
					if end, err = timeFlag(cmd, "end"); err != nil {
						return err
					}
				}
				s.SetPlacementTiming(id, start, end)
			}
			if flags.Changed("x") || flags.Changed("y") || flags.Changed("scale") {
				if p.Media.Kind == placement.KindBroll {
					return fmt.Errorf("B-roll clips fill the frame and cannot be moved")
				}
				x, y, scale := p.Position.X, p.Position.Y, p.Position.Scale
				if flags.Changed("x") {
					x, _ = flags.GetFloat64("x")
				}
				if flags.Changed("y") {
					y, _ = flags.GetFloat64("y")
				}
				if flags.Changed("scale") {
					scale, _ = flags.GetFloat64("scale")
				}
				s.SetMediaPosition(id, x, y, scale)
			}
			if flags.Changed("volume") {
				v, _ := flags.GetFloat64("volume")
				s.SetBrollVolume(id, v)
			}
			return nil
		})
	},
}

var mediaRemoveCmd = &cobra.Command{
	Use:   "remove [project] [placement]",
	Short: "Remove placed media",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editProject(cmd, args[0], func(s *editor.Session) error {
			id, _, err := resolvePlacement(s, args[1])
			if err != nil {
				return err
			}
			s.RemovePlacement(id)
			fmt.Printf("removed %s\n", id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(mediaCmd)

	mediaAddCmd.Flags().String("url", "", "Media URL or path (required)")
	mediaAddCmd.Flags().String("kind", string(placement.KindSticker), "Media kind: sticker or gif")
	mediaAddCmd.Flags().String("start", "", "Start time (required)")
	mediaAddCmd.Flags().String("end", "", "End time (required)")
	mediaAddCmd.Flags().Float64("x", 50, "Horizontal position in percent")
	mediaAddCmd.Flags().Float64("y", 50, "Vertical position in percent")
	_ = mediaAddCmd.MarkFlagRequired("url")
	_ = mediaAddCmd.MarkFlagRequired("start")
	_ = mediaAddCmd.MarkFlagRequired("end")

	mediaBrollCmd.Flags().String("url", "", "Clip URL or path (required)")
	mediaBrollCmd.Flags().String("before", fmt.Sprint(placement.DefaultBrollPadding), "Lead-in before the cue")
	mediaBrollCmd.Flags().String("after", fmt.Sprint(placement.DefaultBrollPadding), "Tail after the cue")
	_ = mediaBrollCmd.MarkFlagRequired("url")

	mediaEditCmd.Flags().String("start", "", "New start time")
	mediaEditCmd.Flags().String("end", "", "New end time")
	mediaEditCmd.Flags().Float64("x", 0, "Horizontal position in percent")
	mediaEditCmd.Flags().Float64("y", 0, "Vertical position in percent")
	mediaEditCmd.Flags().Float64("scale", 1, "Scale factor")
	mediaEditCmd.Flags().Float64("volume", placement.DefaultBrollVolume, "B-roll volume 0..1")

	mediaCmd.AddCommand(mediaListCmd, mediaAddCmd, mediaBrollCmd, mediaEditCmd, mediaRemoveCmd)
}

func mediaRef(url string, kind placement.Kind) placement.Ref {
	return placement.Ref{
		ID:   url,
		Kind: kind,
		URL:  url,
		Name: filepath.Base(url),
	}
}

func resolvePlacement(s *editor.Session, ref string) (string, placement.Placement, error) {
	items := append(s.Media(), s.Broll()...)
	ids := make([]string, len(items))
	for i, p := range items {
		ids[i] = p.ID
	}
	id, err := matchID("placement", ids, ref)
	if err != nil {
		return "", placement.Placement{}, err
	}
	for _, p := range items {
		if p.ID == id {
			return id, p, nil
		}
	}
	return id, placement.Placement{}, nil
}
