package configs

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Frame and display geometry. The camera is driven at 800x600; the
// wavelength map length equals the frame width and is fixed for the
// process lifetime.
const (
	DefaultFrameWidth  = 800
	DefaultFrameHeight = 600

	DefaultGraphHeight   = 320
	DefaultBannerHeight  = 80
	DefaultPreviewHeight = 80
)

// Default signal processing settings, the same starting values the
// payload has always flown with.
const (
	DefaultSavGolOrder     = 7
	DefaultPeakMinDistance = 50
	DefaultPeakThreshold   = 20
)

// SetDefaults sets default configuration values for all components
func SetDefaults(v *viper.Viper) {
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", "info")

	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".local", "share", "lusi-spectrometer")
	v.SetDefault("data_dir", dataDir)

	// Capture defaults
	v.SetDefault("capture.source", "synthetic")
	v.SetDefault("capture.frames_dir", "")
	v.SetDefault("capture.width", DefaultFrameWidth)
	v.SetDefault("capture.height", DefaultFrameHeight)
	v.SetDefault("capture.fps", 30)
	v.SetDefault("capture.seed", 1)
	v.SetDefault("capture.loop", true)

	// Signal processing defaults
	v.SetDefault("processing.savgol_order", DefaultSavGolOrder)
	v.SetDefault("processing.peak_min_distance", DefaultPeakMinDistance)
	v.SetDefault("processing.peak_threshold", DefaultPeakThreshold)

	// Display defaults
	v.SetDefault("display.graph_height", DefaultGraphHeight)
	v.SetDefault("display.banner_height", DefaultBannerHeight)
	v.SetDefault("display.preview_height", DefaultPreviewHeight)
	v.SetDefault("display.waterfall", false)
	v.SetDefault("display.waterfall_height", DefaultGraphHeight)

	// Calibration defaults. The file path is left empty here and derived
	// from the effective data_dir at load time, so a data_dir override
	// relocates the calibration store along with the snapshots.
	v.SetDefault("calibration.file", "")

	// Web preview defaults
	v.SetDefault("web.listen", "")
}
