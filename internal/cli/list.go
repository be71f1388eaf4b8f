package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mgpai22/captioner/internal/subtitle"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored projects, most recently updated first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	metas, err := ws.store.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Println("No projects")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTAGE\tCUES\tDURATION\tUPDATED")
	for _, m := range metas {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			m.ID,
			m.Title,
			m.Stage,
			m.CueCount,
			subtitle.FormatSRTTime(m.DurationMs),
			m.UpdatedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	return tw.Flush()
}

var deleteCmd = &cobra.Command{
	Use:   "delete [project_id]",
	Short: "Delete a stored project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		s, err := ws.open(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		meta := s.Meta()
		if err := ws.store.Delete(cmd.Context(), meta.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted project %s (%s)\n", meta.ID, meta.Title)
		return nil
	},
}
