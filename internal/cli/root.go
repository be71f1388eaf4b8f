package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mgpai22/captioner/internal/config"
	"github.com/mgpai22/captioner/internal/logging"
)

var (
	verbose    bool
	configPath string
	dbPath     string
	logger     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "captioner",
	Short: "Subtitle editing engine for video projects",
	Long: `Captioner manages subtitle projects: import or generate cues for a video,
edit their timing and text, translate them and export SRT, VTT or ASS files.

Projects are stored in a local sqlite database. Editor defaults come from
a YAML settings file.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
}

// Execute runs the root command; an interrupt cancels in-flight work.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", config.DefaultFileName, "Settings file path")
	rootCmd.PersistentFlags().
		StringVar(&dbPath, "db", "captioner.db", "Project database path")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language code (e.g., en, es, fr)")
}
