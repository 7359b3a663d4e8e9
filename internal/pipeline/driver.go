// Package pipeline runs the per-frame spectral processing loop:
// reduce the camera frame to an intensity series, smooth or
// peak-hold, detect peaks, render, and apply queued input events.
// Single-threaded and frame-paced; all mutable state lives in State
// and is touched only from the control loop.
package pipeline

import (
	"context"
	"errors"
	"image"
	"image/draw"

	"github.com/maruel/interrupt"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/averync2005/lusi-science-module/internal/frame"
	"github.com/averync2005/lusi-science-module/internal/render"
	"github.com/averync2005/lusi-science-module/pkg/calibration"
	"github.com/averync2005/lusi-science-module/pkg/spectrum"
)

// smoothWindow is the fixed Savitzky-Golay window; only the polynomial
// order is operator-adjustable.
const smoothWindow = 17

// Sink receives rendered display images. waterfall is nil when the
// waterfall display is disabled.
type Sink interface {
	Publish(spectrumImg, waterfallImg *image.RGBA)
}

// Config wires a Driver.
type Config struct {
	Source      frame.Source
	Engine      *calibration.Engine
	Renderer    *render.Renderer
	Waterfall   *render.Waterfall // nil disables the waterfall display
	Prompter    WavelengthPrompter
	Sinks       []Sink
	Logger      *zap.Logger
	SnapshotDir string
	DeviceLabel string
	FPS         int

	SavGolOrder int
	MinDistance int
	Threshold   int

	// BandTop is the first row of the horizontal band cropped from the
	// raw frame; the intensity series is read from the band's center.
	BandTop    int
	BandHeight int
}

// Driver orchestrates the spectral pipeline for one frame source.
type Driver struct {
	src       frame.Source
	engine    *calibration.Engine
	renderer  *render.Renderer
	waterfall *render.Waterfall
	prompter  WavelengthPrompter
	sinks     []Sink
	logger    *zap.Logger

	state  *State
	events chan Event

	snapshotDir string
	deviceLabel string
	fps         int
	bandTop     int
	bandHeight  int
	quit        bool

	lastSpectrum  *image.RGBA
	lastWaterfall *image.RGBA
}

// NewDriver builds the driver and loads the persisted calibration.
func NewDriver(cfg Config) *Driver {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Driver{
		src:         cfg.Source,
		engine:      cfg.Engine,
		renderer:    cfg.Renderer,
		waterfall:   cfg.Waterfall,
		prompter:    cfg.Prompter,
		sinks:       cfg.Sinks,
		logger:      logger,
		snapshotDir: cfg.SnapshotDir,
		deviceLabel: cfg.DeviceLabel,
		fps:         cfg.FPS,
		bandTop:     cfg.BandTop,
		bandHeight:  cfg.BandHeight,
		events:      make(chan Event, 64),
	}
	d.state = NewState(cfg.Source.Width(), cfg.Renderer.GraphTop(),
		cfg.SavGolOrder, cfg.MinDistance, cfg.Threshold)
	d.state.SetCalibration(cfg.Engine.Load())
	return d
}

// Events returns the input event queue. Producers must not block: the
// queue is drained once per frame iteration.
func (d *Driver) Events() chan<- Event {
	return d.events
}

// AddSink attaches a display sink. Must be called before Run.
func (d *Driver) AddSink(sink Sink) {
	d.sinks = append(d.sinks, sink)
}

// State exposes the pipeline state for the offline process command and
// tests. Callers outside the control loop must not mutate it while Run
// is active.
func (d *Driver) State() *State {
	return d.state
}

// Run executes the frame loop until quit, interrupt or a frame read
// failure. A read failure is fatal: the source is released cleanly and
// the error is returned without retry, since the camera link is a
// device-level fault when it breaks.
func (d *Driver) Run(ctx context.Context) error {
	defer d.src.Close()

	d.logger.Info("spectrometer pipeline running",
		zap.String("device", d.deviceLabel),
		zap.Int("width", d.src.Width()),
		zap.Bool("waterfall", d.waterfall != nil))

	for !d.quit {
		if interrupt.IsSet() {
			d.logger.Info("interrupt received, releasing camera")
			return nil
		}

		f, err := d.src.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			d.logger.Error("frame read failed, shutting down", zap.Error(err))
			return err
		}

		d.ProcessFrame(f)
		d.drainEvents()
	}

	d.logger.Info("quit requested")
	return nil
}

// ProcessFrame runs one iteration of the fixed per-frame procedure.
func (d *Driver) ProcessFrame(f *frame.Frame) (*image.RGBA, *image.RGBA) {
	st := d.state

	centerRow := d.bandTop + d.bandHeight/2
	frame.Reduce(f, centerRow, st.Raw)
	st.MergeFrame()

	if !st.HoldPeaks {
		smoothed, err := spectrum.SavitzkyGolay(st.Intensity, smoothWindow, st.SavGolOrder)
		if err != nil {
			// Unreachable with clamped parameters; surfaced rather than
			// allowed to kill the display loop.
			d.logger.Warn("smoothing skipped", zap.Error(err))
		} else {
			for i, v := range smoothed {
				st.Intensity[i] = float64(int(v))
			}
		}
	}

	maxIntensity := floats.Max(st.Intensity)
	if maxIntensity <= 0 {
		maxIntensity = 1
	}
	peaks := spectrum.PeakIndexes(st.Intensity, spectrum.PeakOptions{
		Threshold:   float64(st.Threshold) / maxIntensity,
		MinDistance: st.MinDistance,
	})

	rs := &render.State{
		Intensity:    st.Intensity,
		Wavelengths:  st.Cal.Wavelengths,
		Graticule:    st.Graticule,
		Peaks:        peaks,
		HoldPeaks:    st.HoldPeaks,
		Measure:      st.Measure,
		RecordPixels: st.RecordPixels,
		SavGolOrder:  st.SavGolOrder,
		MinDistance:  st.MinDistance,
		Threshold:    st.Threshold,
		CursorX:      st.CursorX,
		CursorY:      st.CursorY,
		Clicks:       st.Clicks,
		CalMessages:  st.Cal.Status.Messages,
		SaveMessage:  st.SaveMessage,
		DeviceLabel:  d.deviceLabel,
		FPS:          d.fps,
		Preview:      d.previewStrip(f),
	}
	spectrumImg := d.renderer.Spectrum(rs)

	var waterfallImg *image.RGBA
	if d.waterfall != nil {
		d.waterfall.Push(st.Intensity, st.Cal.Wavelengths)
		waterfallImg = d.renderer.Compose(d.waterfall, rs)
	}

	d.lastSpectrum = spectrumImg
	d.lastWaterfall = waterfallImg

	for _, sink := range d.sinks {
		sink.Publish(spectrumImg, waterfallImg)
	}
	return spectrumImg, waterfallImg
}

// drainEvents applies every queued input event, then executes any
// implied driver-level actions.
func (d *Driver) drainEvents() {
	for {
		select {
		case ev := <-d.events:
			switch d.state.Apply(ev) {
			case ActionQuit:
				d.quit = true
			case ActionSave:
				d.saveSnapshot()
			case ActionCalibrate:
				d.recalibrate()
			}
		default:
			return
		}
	}
}

func (d *Driver) saveSnapshot() {
	st := d.state
	if d.lastSpectrum == nil {
		d.logger.Warn("nothing rendered yet, snapshot skipped")
		return
	}

	msg, err := SaveSnapshot(d.snapshotDir, d.lastSpectrum, imageOrNil(d.lastWaterfall),
		st.Cal.Wavelengths, st.Intensity, SnapshotMeta{
			Device:      d.deviceLabel,
			Calibrated:  st.Cal.Status.Calibrated,
			PointCount:  st.Cal.Status.PointCount,
			FitOrder:    st.Cal.Status.FitOrder,
			RSquared:    st.Cal.Status.RSquared,
			HoldPeaks:   st.HoldPeaks,
			SavGolOrder: st.SavGolOrder,
			MinDistance: st.MinDistance,
			Threshold:   st.Threshold,
		})
	if err != nil {
		d.logger.Error("snapshot save failed", zap.Error(err))
		d.state.SaveMessage = "Save failed"
		return
	}
	d.logger.Info("snapshot saved", zap.String("dir", d.snapshotDir))
	d.state.SaveMessage = msg
}

// recalibrate collects wavelengths for the recorded pixels, persists
// the new calibration and reloads it. Frame processing pauses for the
// duration of the interactive prompt. A validation failure aborts the
// save and leaves the prior calibration untouched.
func (d *Driver) recalibrate() {
	pixels := d.state.ClickedPixels()
	if len(pixels) == 0 {
		d.logger.Warn("no calibration points selected; enter pixel recording mode first")
		d.state.SaveMessage = "No cal points set"
		return
	}

	inputs, err := d.prompter.Prompt(pixels)
	if err != nil {
		d.logger.Warn("calibration input aborted", zap.Error(err))
		return
	}
	points, err := calibration.ParseWavelengths(pixels, inputs)
	if err != nil {
		d.logger.Warn("calibration aborted", zap.Error(err))
		d.state.SaveMessage = "Cal aborted"
		return
	}
	if err := d.engine.Save(points); err != nil {
		d.logger.Warn("calibration save failed", zap.Error(err))
		d.state.SaveMessage = "Cal save failed"
		return
	}

	d.state.SetCalibration(d.engine.Load())
	d.logger.Info("recalibrated", zap.Int("points", len(points)))
}

// previewStrip crops the sampled band out of the raw frame for the
// preview section of the display.
func (d *Driver) previewStrip(f *frame.Frame) *image.RGBA {
	w := f.Width()
	top := d.bandTop
	if top < 0 {
		top = 0
	}
	h := d.bandHeight
	if top+h > f.Height() {
		h = f.Height() - top
	}
	strip := image.NewRGBA(image.Rect(0, 0, w, h))

	if f.Color != nil {
		draw.Draw(strip, strip.Rect, f.Color, image.Point{X: f.Color.Rect.Min.X, Y: f.Color.Rect.Min.Y + top}, draw.Src)
		return strip
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := f.Gray.Pix[f.Gray.PixOffset(f.Gray.Rect.Min.X+x, f.Gray.Rect.Min.Y+top+y)]
			i := strip.PixOffset(x, y)
			strip.Pix[i] = v
			strip.Pix[i+1] = v
			strip.Pix[i+2] = v
			strip.Pix[i+3] = 0xff
		}
	}
	return strip
}

func imageOrNil(img *image.RGBA) image.Image {
	if img == nil {
		return nil
	}
	return img
}
