package cmd

import (
	"context"
	"os"

	"github.com/maruel/interrupt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/averync2005/lusi-science-module/configs"
	"github.com/averync2005/lusi-science-module/internal/app"
	"github.com/averync2005/lusi-science-module/internal/pipeline"
)

var (
	runSource    string
	runFramesDir string
	runFPS       int
	runWaterfall bool
	runListen    string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the live spectrometer pipeline",
	Long: `Run the live capture loop: reduce each camera frame to an intensity
series, smooth it (or accumulate a peak-hold maximum), detect and label
peaks and render the spectrum display.

Without payload hardware attached the synthetic source generates a
deterministic emission-line spectrum; a directory source replays
captured frames instead.

Examples:
  # Live run against the synthetic source with the web preview
  spectrometer run --listen :8080

  # Replay captured frames with the waterfall display
  spectrometer run --source dir --frames ./captures --waterfall

  # Slow the loop down for debugging
  spectrometer run --fps 5`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runSource, "source", "synthetic",
		"frame source (synthetic, dir)")
	runCmd.Flags().StringVar(&runFramesDir, "frames", "",
		"frame image directory for the dir source")
	runCmd.Flags().IntVar(&runFPS, "fps", 30,
		"frame rate")
	runCmd.Flags().BoolVar(&runWaterfall, "waterfall", false,
		"enable the waterfall display")
	runCmd.Flags().StringVar(&runListen, "listen", "",
		"address for the browser preview (e.g. :8080)")

	viper.BindPFlag("capture.source", runCmd.Flags().Lookup("source"))
	viper.BindPFlag("capture.frames_dir", runCmd.Flags().Lookup("frames"))
	viper.BindPFlag("capture.fps", runCmd.Flags().Lookup("fps"))
	viper.BindPFlag("display.waterfall", runCmd.Flags().Lookup("waterfall"))
	viper.BindPFlag("web.listen", runCmd.Flags().Lookup("listen"))
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := configs.Load()
	if err != nil {
		return err
	}

	prompter := &pipeline.TerminalPrompter{In: os.Stdin, Out: os.Stderr}
	application, err := app.New(cfg, prompter)
	if err != nil {
		return err
	}

	interrupt.HandleCtrlC()
	return application.Run(context.Background())
}
