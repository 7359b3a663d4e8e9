package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/averync2005/lusi-science-module/configs"
	"github.com/averync2005/lusi-science-module/internal/app"
	"github.com/averync2005/lusi-science-module/pkg/calibration"
	"github.com/averync2005/lusi-science-module/pkg/spectrum"
)

// calibrationCmd represents the calibration command
var calibrationCmd = &cobra.Command{
	Use:   "calibration",
	Short: "Manage the wavelength calibration",
}

// calibrationShowCmd represents the calibration show command
var calibrationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Inspect the stored wavelength calibration",
	Long: `Load the persisted calibration points, fit the pixel-to-wavelength
polynomial and report its quality: point count, fit order, R-squared,
the mapped wavelength span and the graticule coverage it yields.`,
	RunE: runCalibrationShow,
}

func init() {
	rootCmd.AddCommand(calibrationCmd)
	calibrationCmd.AddCommand(calibrationShowCmd)
}

func runCalibrationShow(cmd *cobra.Command, args []string) error {
	cfg, err := configs.Load()
	if err != nil {
		return err
	}
	logger, err := app.NewLogger(cfg.LogLevel, cfg.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	engine := calibration.NewEngine(cfg.Calibration.File, cfg.Capture.Width, logger)
	res := engine.Load()

	fmt.Printf("Calibration file:  %s\n", cfg.Calibration.File)
	fmt.Printf("Status:            %s\n", res.Status.Messages[0])
	fmt.Printf("Points:            %d\n", res.Status.PointCount)
	fmt.Printf("Fit order:         %d\n", res.Status.FitOrder)
	if res.Status.FitOrder == 3 {
		fmt.Printf("R-squared:         %.6f\n", res.Status.RSquared)
	}
	for _, p := range res.Points {
		fmt.Printf("  pixel %4d -> %.2f nm\n", p.Pixel, p.WavelengthNm)
	}

	n := len(res.Wavelengths)
	fmt.Printf("Wavelength span:   %.2f nm .. %.2f nm over %d px\n",
		res.Wavelengths[0], res.Wavelengths[n-1], n)

	grat := spectrum.BuildGraticule(res.Wavelengths)
	fmt.Printf("Graticule:         %d minor (10 nm), %d major (50 nm) lines\n",
		len(grat.Minor), len(grat.Major))
	return nil
}
