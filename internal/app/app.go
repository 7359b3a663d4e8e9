// Package app assembles the spectrometer application from its
// configuration: logger, frame source, calibration engine, renderer
// and pipeline driver.
package app

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/averync2005/lusi-science-module/configs"
	"github.com/averync2005/lusi-science-module/internal/frame"
	"github.com/averync2005/lusi-science-module/internal/pipeline"
	"github.com/averync2005/lusi-science-module/internal/render"
	"github.com/averync2005/lusi-science-module/internal/webui"
	"github.com/averync2005/lusi-science-module/pkg/calibration"
)

// App holds the assembled spectrometer application.
type App struct {
	cfg    *configs.Config
	logger *zap.Logger
	driver *pipeline.Driver
	server *webui.Server
}

// New builds the application. The frame source is opened here; Run
// releases it.
func New(cfg *configs.Config, prompter pipeline.WavelengthPrompter) (*App, error) {
	logger, err := NewLogger(cfg.LogLevel, cfg.Verbose)
	if err != nil {
		return nil, err
	}

	src, deviceLabel, err := newSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening frame source: %w", err)
	}

	engine := calibration.NewEngine(cfg.Calibration.File, src.Width(), logger)
	renderer := render.NewRenderer(src.Width(),
		cfg.Display.BannerHeight, cfg.Display.PreviewHeight, cfg.Display.GraphHeight)

	var waterfall *render.Waterfall
	if cfg.Display.Waterfall {
		waterfall = render.NewWaterfall(src.Width(), cfg.Display.WaterfallHeight)
	}

	a := &App{cfg: cfg, logger: logger}

	driverCfg := pipeline.Config{
		Source:      src,
		Engine:      engine,
		Renderer:    renderer,
		Waterfall:   waterfall,
		Prompter:    prompter,
		Logger:      logger,
		SnapshotDir: filepath.Join(cfg.DataDir, "snapshots"),
		DeviceLabel: deviceLabel,
		FPS:         cfg.Capture.FPS,
		SavGolOrder: cfg.Processing.SavGolOrder,
		MinDistance: cfg.Processing.PeakMinDistance,
		Threshold:   cfg.Processing.PeakThreshold,
		BandTop:     src.Height()/2 - 40,
		BandHeight:  cfg.Display.PreviewHeight,
	}

	// The driver owns the event queue; the web preview produces into it
	// and consumes rendered frames as a sink.
	d := pipeline.NewDriver(driverCfg)
	if cfg.Web.Listen != "" {
		server, err := webui.New(cfg.Web.Listen, d.Events(), logger)
		if err != nil {
			src.Close()
			return nil, fmt.Errorf("starting preview server: %w", err)
		}
		a.server = server
		d.AddSink(server)
	}
	a.driver = d
	return a, nil
}

// Driver exposes the assembled pipeline driver.
func (a *App) Driver() *pipeline.Driver {
	return a.driver
}

// Logger exposes the application logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Run executes the pipeline loop and tears the application down.
func (a *App) Run(ctx context.Context) error {
	defer a.logger.Sync()
	if a.server != nil {
		defer a.server.Close()
	}
	return a.driver.Run(ctx)
}

// NewLogger builds the application logger: console encoding at the
// configured level, debug when verbose is set.
func NewLogger(level string, verbose bool) (*zap.Logger, error) {
	zapLevel := zapcore.InfoLevel
	if err := zapLevel.Set(level); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if verbose {
		zapLevel = zapcore.DebugLevel
	}

	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zapLevel)
	zcfg.DisableStacktrace = true
	return zcfg.Build()
}

func newSource(cfg *configs.Config) (frame.Source, string, error) {
	switch cfg.Capture.Source {
	case "dir":
		src, err := frame.NewDirectory(cfg.Capture.FramesDir, cfg.Capture.FPS, cfg.Capture.Loop)
		if err != nil {
			return nil, "", err
		}
		return src, cfg.Capture.FramesDir, nil
	default:
		src := frame.NewSynthetic(cfg.Capture.Width, cfg.Capture.Height,
			cfg.Capture.FPS, nil, cfg.Capture.Seed)
		return src, "synthetic", nil
	}
}
