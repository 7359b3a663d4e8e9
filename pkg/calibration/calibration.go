// Package calibration maintains the pixel -> wavelength mapping of the
// spectrometer. A small set of calibration points (pixel column, known
// wavelength) is persisted as a two-line text artifact; a polynomial
// fit through the points is evaluated at every pixel column to
// materialize the full wavelength map.
package calibration

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Point is a single calibration point: a pixel column and the known
// wavelength observed there.
type Point struct {
	Pixel        int
	WavelengthNm float64
}

// Wavelength bounds accepted during a calibration save. The storage
// format itself does not enforce these; they guard interactive entry
// against physically nonsensical values poisoning the fit. Values
// outside the visible band but inside these bounds are accepted and
// simply render gray.
const (
	MinWavelengthNm = 0.0
	MaxWavelengthNm = 2000.0
)

// Status describes the loaded calibration for the display banner.
type Status struct {
	Calibrated bool
	PointCount int
	FitOrder   int
	RSquared   float64

	// Banner lines, top to bottom.
	Messages [3]string
}

// Result is a materialized calibration: one wavelength per pixel
// column, plus the points and fit diagnostics that produced it.
// Immutable once computed; recomputed whenever the calibration
// changes.
type Result struct {
	Wavelengths []float64
	Points      []Point
	Status      Status
}

// Engine loads, fits and persists calibration data for a fixed frame
// width.
type Engine struct {
	path   string
	width  int
	logger *zap.Logger
}

// NewEngine creates a calibration engine backed by the two-line text
// file at path, producing wavelength maps of the given width.
func NewEngine(path string, width int, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{path: path, width: width, logger: logger}
}

// DefaultPoints is the built-in placeholder calibration used when no
// usable stored calibration exists: a coarse 380-750 nm mapping.
func DefaultPoints() []Point {
	return []Point{
		{Pixel: 0, WavelengthNm: 380},
		{Pixel: 400, WavelengthNm: 560},
		{Pixel: 800, WavelengthNm: 750},
	}
}

// Load reads the persisted calibration points and materializes the
// wavelength map. Loading fails soft: a missing, malformed or
// undersized store substitutes the built-in default points and flags
// the result uncalibrated.
func (e *Engine) Load() *Result {
	points, err := e.readPoints()
	loaded := err == nil
	if !loaded {
		e.logger.Warn("calibration load failed, using placeholder data",
			zap.String("path", e.path),
			zap.Error(err))
		points = DefaultPoints()
	} else {
		e.logger.Info("calibration data loaded",
			zap.String("path", e.path),
			zap.Int("points", len(points)))
	}
	return e.fit(points, loaded)
}

// Fit materializes a wavelength map directly from the given points
// without touching storage. At least 3 points are required; fewer fall
// back to the defaults, flagged uncalibrated.
func (e *Engine) Fit(points []Point) *Result {
	if len(points) < 3 {
		return e.fit(DefaultPoints(), false)
	}
	return e.fit(points, true)
}

func (e *Engine) fit(points []Point, loaded bool) *Result {
	pixels := make([]int, len(points))
	wavelengths := make([]float64, len(points))
	for i, p := range points {
		pixels[i] = p.Pixel
		wavelengths[i] = p.WavelengthNm
	}

	res := &Result{
		Wavelengths: make([]float64, e.width),
		Points:      points,
		Status:      Status{PointCount: len(points)},
	}

	degree := 2
	if len(points) > 3 {
		degree = 3
	}
	coeffs := polyFit(pixels, wavelengths, degree)
	for px := 0; px < e.width; px++ {
		wl := polyEval(coeffs, float64(px))
		res.Wavelengths[px] = math.Round(wl*1e6) / 1e6
	}
	res.Status.FitOrder = degree

	if degree == 3 {
		res.Status.RSquared = rSquared(pixels, wavelengths, coeffs)
		e.logger.Info("3rd-order polynomial fit",
			zap.Int("points", len(points)),
			zap.Float64("r_squared", res.Status.RSquared))
	} else {
		e.logger.Info("2nd-order polynomial fit", zap.Int("points", len(points)))
	}

	switch {
	case !loaded:
		res.Status.Messages = [3]string{"UNCALIBRATED!", "Defaults loaded", "Perform Calibration!"}
	case degree == 2:
		res.Status.Calibrated = true
		res.Status.Messages = [3]string{"Calibrated", "Using 3 cal points", "2nd Order Polyfit"}
	default:
		res.Status.Calibrated = true
		res.Status.Messages = [3]string{
			"Calibrated",
			fmt.Sprintf("Using %d cal points", len(points)),
			"3rd Order Polyfit",
		}
	}
	return res
}

// Save validates and persists the calibration points, pixel list on
// line 1 and wavelength list on line 2. Points must be unique by pixel
// column: a repeated pixel makes the fit matrix singular and the whole
// wavelength map degenerate. Validation failure aborts the whole save;
// the file is written atomically so a failure never leaves a partial
// store behind.
func (e *Engine) Save(points []Point) error {
	if len(points) == 0 {
		return newError(CodeValidation, "no calibration points to save", nil)
	}
	seen := make(map[int]struct{}, len(points))
	for _, p := range points {
		if math.IsNaN(p.WavelengthNm) || math.IsInf(p.WavelengthNm, 0) {
			return newError(CodeValidation,
				fmt.Sprintf("wavelength for pixel %d is not a number", p.Pixel), nil)
		}
		if p.WavelengthNm <= MinWavelengthNm || p.WavelengthNm > MaxWavelengthNm {
			return newError(CodeValidation,
				fmt.Sprintf("wavelength %g nm for pixel %d is outside (%g, %g]",
					p.WavelengthNm, p.Pixel, MinWavelengthNm, MaxWavelengthNm), nil)
		}
		if _, dup := seen[p.Pixel]; dup {
			return newError(CodeValidation,
				fmt.Sprintf("pixel %d appears in more than one calibration point", p.Pixel), nil)
		}
		seen[p.Pixel] = struct{}{}
	}

	pixels := make([]string, len(points))
	wavelengths := make([]string, len(points))
	for i, p := range points {
		pixels[i] = strconv.Itoa(p.Pixel)
		wavelengths[i] = strconv.FormatFloat(p.WavelengthNm, 'g', -1, 64)
	}
	content := strings.Join(pixels, ",") + "\n" + strings.Join(wavelengths, ",") + "\n"

	tmp := e.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(e.path), 0o755); err != nil {
		return newError(CodeWrite, "creating calibration directory", err)
	}
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return newError(CodeWrite, "writing calibration data", err)
	}
	if err := os.Rename(tmp, e.path); err != nil {
		return newError(CodeWrite, "replacing calibration data", err)
	}

	e.logger.Info("calibration data written",
		zap.String("path", e.path),
		zap.Int("points", len(points)))
	return nil
}

// ParseWavelengths converts interactively entered wavelength strings
// to values, pairing them with the recorded pixels. Any non-numeric or
// out-of-bound entry, or a pixel recorded twice, aborts the whole set
// with a validation error.
func ParseWavelengths(pixels []int, inputs []string) ([]Point, error) {
	if len(pixels) != len(inputs) {
		return nil, newError(CodeValidation,
			fmt.Sprintf("%d wavelengths entered for %d pixels", len(inputs), len(pixels)), nil)
	}
	seen := make(map[int]struct{}, len(pixels))
	for _, px := range pixels {
		if _, dup := seen[px]; dup {
			return nil, newError(CodeValidation,
				fmt.Sprintf("pixel %d was recorded more than once", px), nil)
		}
		seen[px] = struct{}{}
	}
	points := make([]Point, len(pixels))
	for i, raw := range inputs {
		wl, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, newError(CodeValidation,
				"only numbers and decimals are allowed", err)
		}
		if wl <= MinWavelengthNm || wl > MaxWavelengthNm {
			return nil, newError(CodeValidation,
				fmt.Sprintf("wavelength %g nm is outside (%g, %g]",
					wl, MinWavelengthNm, MaxWavelengthNm), nil)
		}
		points[i] = Point{Pixel: pixels[i], WavelengthNm: wl}
	}
	return points, nil
}

func (e *Engine) readPoints() ([]Point, error) {
	data, err := os.ReadFile(e.path)
	if err != nil {
		return nil, newError(CodeLoadFailed, "reading calibration data", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) < 2 {
		return nil, newError(CodeLoadFailed, "calibration data must have two lines", nil)
	}

	pixelFields := strings.Split(strings.TrimSpace(lines[0]), ",")
	wlFields := strings.Split(strings.TrimSpace(lines[1]), ",")
	if len(pixelFields) != len(wlFields) {
		return nil, newError(CodeLoadFailed, "pixel and wavelength counts differ", nil)
	}
	if len(pixelFields) < 3 {
		return nil, newError(CodeLoadFailed, "at least 3 calibration points are required", nil)
	}

	points := make([]Point, len(pixelFields))
	seen := make(map[int]struct{}, len(pixelFields))
	for i := range pixelFields {
		px, err := strconv.Atoi(strings.TrimSpace(pixelFields[i]))
		if err != nil {
			return nil, newError(CodeLoadFailed, "corrupted pixel data", err)
		}
		if _, dup := seen[px]; dup {
			return nil, newError(CodeLoadFailed,
				fmt.Sprintf("pixel %d stored more than once", px), nil)
		}
		seen[px] = struct{}{}
		wl, err := strconv.ParseFloat(strings.TrimSpace(wlFields[i]), 64)
		if err != nil {
			return nil, newError(CodeLoadFailed, "corrupted wavelength data", err)
		}
		points[i] = Point{Pixel: px, WavelengthNm: wl}
	}
	return points, nil
}
