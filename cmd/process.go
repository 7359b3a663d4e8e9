package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/averync2005/lusi-science-module/configs"
	"github.com/averync2005/lusi-science-module/internal/app"
	"github.com/averync2005/lusi-science-module/internal/frame"
	"github.com/averync2005/lusi-science-module/internal/pipeline"
	"github.com/averync2005/lusi-science-module/internal/render"
	"github.com/averync2005/lusi-science-module/pkg/calibration"
)

var (
	processInput  string
	processOutput string
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process a single captured frame offline",
	Long: `Run one pipeline pass over a captured frame image and write the
snapshot artifacts (spectrum PNG, wavelength/intensity CSV and YAML
metadata) without touching the camera.

Examples:
  spectrometer process --input capture-001.png
  spectrometer process --input capture-001.png --output ./results`,
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&processInput, "input", "",
		"captured frame image (PNG or JPEG)")
	processCmd.Flags().StringVar(&processOutput, "output", ".",
		"output directory for snapshot artifacts")
	processCmd.MarkFlagRequired("input")
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := configs.Load()
	if err != nil {
		return err
	}
	logger, err := app.NewLogger(cfg.LogLevel, cfg.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	src, err := frame.NewStill(processInput)
	if err != nil {
		return err
	}

	engine := calibration.NewEngine(cfg.Calibration.File, src.Width(), logger)
	renderer := render.NewRenderer(src.Width(),
		cfg.Display.BannerHeight, cfg.Display.PreviewHeight, cfg.Display.GraphHeight)

	driver := pipeline.NewDriver(pipeline.Config{
		Source:      src,
		Engine:      engine,
		Renderer:    renderer,
		Logger:      logger,
		SnapshotDir: processOutput,
		DeviceLabel: filepath.Base(processInput),
		SavGolOrder: cfg.Processing.SavGolOrder,
		MinDistance: cfg.Processing.PeakMinDistance,
		Threshold:   cfg.Processing.PeakThreshold,
		BandTop:     src.Height()/2 - 40,
		BandHeight:  cfg.Display.PreviewHeight,
	})

	f, err := src.Next(cmd.Context())
	if err != nil {
		return err
	}
	spectrumImg, _ := driver.ProcessFrame(f)

	st := driver.State()
	msg, err := pipeline.SaveSnapshot(processOutput, spectrumImg, nil,
		st.Cal.Wavelengths, st.Intensity, pipeline.SnapshotMeta{
			Device:      filepath.Base(processInput),
			Calibrated:  st.Cal.Status.Calibrated,
			PointCount:  st.Cal.Status.PointCount,
			FitOrder:    st.Cal.Status.FitOrder,
			RSquared:    st.Cal.Status.RSquared,
			SavGolOrder: st.SavGolOrder,
			MinDistance: st.MinDistance,
			Threshold:   st.Threshold,
		})
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return src.Close()
}
