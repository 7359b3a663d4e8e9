package pipeline

import (
	"image"

	"github.com/averync2005/lusi-science-module/pkg/calibration"
	"github.com/averync2005/lusi-science-module/pkg/spectrum"
)

// Adjustable parameter bounds. The UI clamps here so the smoothing
// filter and peak detector never see an invalid configuration.
const (
	minSavGolOrder = 0
	maxSavGolOrder = 15
	minPeakDist    = 0
	maxPeakDist    = 100
	minThreshold   = 0
	maxThreshold   = 100
)

// Action is a driver-level command produced by applying an event.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionSave
	ActionCalibrate
)

// State owns every piece of per-frame mutable pipeline state. It is
// mutated only from the single control loop; there are no ambient
// globals and no concurrent access.
type State struct {
	// Raw holds the latest reduced series; Intensity is what gets
	// rendered. With peak hold active, Intensity is a running per-index
	// maximum and is never smoothed.
	Raw       []float64
	Intensity []float64

	HoldPeaks    bool
	Measure      bool
	RecordPixels bool

	SavGolOrder int
	MinDistance int
	Threshold   int

	CursorX, CursorY int
	Clicks           []image.Point

	SaveMessage string

	Cal       *calibration.Result
	Graticule spectrum.Graticule

	// graphTop translates stacked-display mouse coordinates into graph
	// coordinates.
	graphTop int
}

// NewState creates pipeline state for the given frame width.
func NewState(width, graphTop, savGolOrder, minDistance, threshold int) *State {
	return &State{
		Raw:         make([]float64, width),
		Intensity:   make([]float64, width),
		SavGolOrder: savGolOrder,
		MinDistance: minDistance,
		Threshold:   threshold,
		SaveMessage: "No data saved",
		graphTop:    graphTop,
	}
}

// SetCalibration installs a new calibration result and regenerates the
// graticule. Called at startup and after every recalibration.
func (s *State) SetCalibration(cal *calibration.Result) {
	s.Cal = cal
	s.Graticule = spectrum.BuildGraticule(cal.Wavelengths)
}

// MergeFrame folds the raw series into the retained intensity series:
// per-index running maximum under peak hold, wholesale replacement
// otherwise.
func (s *State) MergeFrame() {
	if s.HoldPeaks {
		for i, v := range s.Raw {
			if v > s.Intensity[i] {
				s.Intensity[i] = v
			}
		}
		return
	}
	copy(s.Intensity, s.Raw)
}

// Apply mutates the state for one input event and reports any
// driver-level action it implies.
func (s *State) Apply(ev Event) Action {
	switch e := ev.(type) {
	case MouseMoveEvent:
		s.CursorX = e.X
		s.CursorY = e.Y - s.graphTop

	case MouseClickEvent:
		if s.RecordPixels {
			s.Clicks = append(s.Clicks, image.Point{X: e.X, Y: e.Y - s.graphTop})
		}

	case KeyEvent:
		switch e.Key {
		case KeyQuit:
			return ActionQuit
		case KeySave:
			return ActionSave
		case KeyCalibrate:
			return ActionCalibrate
		case KeyPeakHold:
			s.HoldPeaks = !s.HoldPeaks
			if !s.HoldPeaks {
				// Leaving hold resets the running maximum.
				for i := range s.Intensity {
					s.Intensity[i] = 0
				}
			}
		case KeyMeasure:
			s.RecordPixels = false
			s.Clicks = nil
			s.Measure = !s.Measure
		case KeyRecordPixels:
			s.Measure = false
			s.RecordPixels = !s.RecordPixels
			if !s.RecordPixels {
				s.Clicks = nil
			}
		case KeyClearPoints:
			s.Clicks = nil
		case KeyOrderUp:
			s.SavGolOrder = clamp(s.SavGolOrder+1, minSavGolOrder, maxSavGolOrder)
		case KeyOrderDown:
			s.SavGolOrder = clamp(s.SavGolOrder-1, minSavGolOrder, maxSavGolOrder)
		case KeyMinDistUp:
			s.MinDistance = clamp(s.MinDistance+1, minPeakDist, maxPeakDist)
		case KeyMinDistDown:
			s.MinDistance = clamp(s.MinDistance-1, minPeakDist, maxPeakDist)
		case KeyThresholdUp:
			s.Threshold = clamp(s.Threshold+1, minThreshold, maxThreshold)
		case KeyThresholdDown:
			s.Threshold = clamp(s.Threshold-1, minThreshold, maxThreshold)
		}
	}
	return ActionNone
}

// ClickedPixels returns the pixel columns of the recorded calibration
// clicks, in click order.
func (s *State) ClickedPixels() []int {
	pixels := make([]int, len(s.Clicks))
	for i, c := range s.Clicks {
		pixels[i] = c.X
	}
	return pixels
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
