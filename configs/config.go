package configs

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose  bool   `mapstructure:"verbose"`
	LogLevel string `mapstructure:"log_level"`
	DataDir  string `mapstructure:"data_dir"`

	// Capture configuration
	Capture CaptureConfig `mapstructure:"capture"`

	// Signal processing configuration
	Processing ProcessingConfig `mapstructure:"processing"`

	// Display configuration
	Display DisplayConfig `mapstructure:"display"`

	// Calibration configuration
	Calibration CalibrationConfig `mapstructure:"calibration"`

	// Web preview configuration
	Web WebConfig `mapstructure:"web"`
}

// CaptureConfig contains frame source settings
type CaptureConfig struct {
	// Source selects the frame source: "synthetic" or "dir".
	Source    string `mapstructure:"source"`
	FramesDir string `mapstructure:"frames_dir"`
	Width     int    `mapstructure:"width"`
	Height    int    `mapstructure:"height"`
	FPS       int    `mapstructure:"fps"`
	Seed      int64  `mapstructure:"seed"`
	Loop      bool   `mapstructure:"loop"`
}

// ProcessingConfig contains signal processing settings
type ProcessingConfig struct {
	SavGolOrder     int `mapstructure:"savgol_order"`
	PeakMinDistance int `mapstructure:"peak_min_distance"`
	PeakThreshold   int `mapstructure:"peak_threshold"`
}

// DisplayConfig contains display geometry and mode settings
type DisplayConfig struct {
	GraphHeight     int  `mapstructure:"graph_height"`
	BannerHeight    int  `mapstructure:"banner_height"`
	PreviewHeight   int  `mapstructure:"preview_height"`
	Waterfall       bool `mapstructure:"waterfall"`
	WaterfallHeight int  `mapstructure:"waterfall_height"`
}

// CalibrationConfig contains calibration storage settings
type CalibrationConfig struct {
	File string `mapstructure:"file"`
}

// WebConfig contains the browser preview settings
type WebConfig struct {
	Listen string `mapstructure:"listen"`
}

// Load unmarshals the current viper configuration
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.applyDerivedDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDerivedDefaults fills defaults that depend on other effective
// values, after flag/env/file overrides have been applied.
func (c *Config) applyDerivedDefaults() {
	if c.Calibration.File == "" {
		c.Calibration.File = filepath.Join(c.DataDir, "caldata.txt")
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Capture.Width <= 0 || c.Capture.Height <= 0 {
		return fmt.Errorf("capture dimensions must be positive, got %dx%d",
			c.Capture.Width, c.Capture.Height)
	}
	if c.Capture.FPS < 0 {
		return fmt.Errorf("capture fps must not be negative, got %d", c.Capture.FPS)
	}
	switch c.Capture.Source {
	case "synthetic", "dir":
	default:
		return fmt.Errorf("unsupported capture source: %s", c.Capture.Source)
	}
	if c.Capture.Source == "dir" && c.Capture.FramesDir == "" {
		return fmt.Errorf("capture source 'dir' requires frames_dir")
	}

	if c.Processing.SavGolOrder < 0 || c.Processing.SavGolOrder > 15 {
		return fmt.Errorf("savgol_order must be in [0,15], got %d", c.Processing.SavGolOrder)
	}
	if c.Processing.PeakMinDistance < 0 || c.Processing.PeakMinDistance > 100 {
		return fmt.Errorf("peak_min_distance must be in [0,100], got %d", c.Processing.PeakMinDistance)
	}
	if c.Processing.PeakThreshold < 0 || c.Processing.PeakThreshold > 100 {
		return fmt.Errorf("peak_threshold must be in [0,100], got %d", c.Processing.PeakThreshold)
	}

	if c.Display.GraphHeight <= 0 || c.Display.BannerHeight <= 0 || c.Display.PreviewHeight <= 0 {
		return fmt.Errorf("display section heights must be positive")
	}
	if c.Display.WaterfallHeight <= 0 {
		return fmt.Errorf("waterfall_height must be positive, got %d", c.Display.WaterfallHeight)
	}
	if c.Calibration.File == "" {
		return fmt.Errorf("calibration file path must not be empty")
	}
	return nil
}
