package calibration

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempEngine(t *testing.T, width int) *Engine {
	t.Helper()
	return NewEngine(filepath.Join(t.TempDir(), "caldata.txt"), width, nil)
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	e := tempEngine(t, 800)
	res := e.Load()

	assert.False(t, res.Status.Calibrated)
	assert.Equal(t, "UNCALIBRATED!", res.Status.Messages[0])
	assert.Len(t, res.Wavelengths, 800)
	assert.Equal(t, DefaultPoints(), res.Points)
}

func TestLoadMalformedFileFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"one line", "0,400,800\n"},
		{"count mismatch", "0,400,800\n380,560\n"},
		{"too few points", "0,800\n380,750\n"},
		{"garbage pixels", "a,b,c\n380,560,750\n"},
		{"garbage wavelengths", "0,400,800\nx,y,z\n"},
		{"duplicate pixels", "100,100,200\n405.4,436.6,546.1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "caldata.txt")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			res := NewEngine(path, 800, nil).Load()
			assert.False(t, res.Status.Calibrated)
			assert.Equal(t, "UNCALIBRATED!", res.Status.Messages[0])
		})
	}
}

func TestDefaultFitEndpoints(t *testing.T) {
	// The built-in 3-point set spans 380-750 nm across 800 px.
	e := tempEngine(t, 800)
	res := e.Load()

	assert.InDelta(t, 380, res.Wavelengths[0], 1)
	assert.InDelta(t, 750, res.Wavelengths[799], 1)
}

func TestThreePointFitUsesSecondOrder(t *testing.T) {
	e := tempEngine(t, 800)
	res := e.Fit([]Point{{0, 380}, {400, 560}, {800, 750}})

	assert.Equal(t, 2, res.Status.FitOrder)
	assert.True(t, res.Status.Calibrated)
	assert.Equal(t, "2nd Order Polyfit", res.Status.Messages[2])
}

func TestFourPointFitUsesThirdOrder(t *testing.T) {
	e := tempEngine(t, 800)
	res := e.Fit([]Point{{10, 405.4}, {250, 436.6}, {500, 546.1}, {700, 611.6}})

	assert.Equal(t, 3, res.Status.FitOrder)
	assert.Equal(t, "3rd Order Polyfit", res.Status.Messages[2])
	// A cubic through 4 points is exact, so R-squared is 1.
	assert.InDelta(t, 1.0, res.Status.RSquared, 1e-9)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	e := tempEngine(t, 800)
	points := []Point{{10, 405.4}, {250, 436.6}, {500, 546.1}, {700, 611.6}}

	require.NoError(t, e.Save(points))
	loaded := e.Load()
	direct := e.Fit(points)

	assert.True(t, loaded.Status.Calibrated)
	require.Len(t, loaded.Wavelengths, len(direct.Wavelengths))
	for i := range loaded.Wavelengths {
		assert.InDelta(t, direct.Wavelengths[i], loaded.Wavelengths[i], 1e-6)
	}
}

func TestSaveValidation(t *testing.T) {
	e := tempEngine(t, 800)

	tests := []struct {
		name   string
		points []Point
	}{
		{"empty", nil},
		{"nan wavelength", []Point{{0, math.NaN()}, {400, 560}, {800, 750}}},
		{"negative wavelength", []Point{{0, -5}, {400, 560}, {800, 750}}},
		{"absurd wavelength", []Point{{0, 380}, {400, 560}, {800, 2500}}},
		{"duplicate pixel", []Point{{100, 405.4}, {100, 436.6}, {200, 546.1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.Save(tt.points)
			require.Error(t, err)

			var calErr *Error
			require.True(t, errors.As(err, &calErr))
			assert.Equal(t, CodeValidation, calErr.Code)
		})
	}

	// A failed save never leaves a store behind.
	res := e.Load()
	assert.False(t, res.Status.Calibrated)
}

func TestSaveAbortLeavesPriorCalibration(t *testing.T) {
	e := tempEngine(t, 800)
	good := []Point{{0, 380}, {400, 560}, {799, 750}}
	require.NoError(t, e.Save(good))

	err := e.Save([]Point{{0, math.Inf(1)}, {1, 2}, {3, 4}})
	require.Error(t, err)

	res := e.Load()
	assert.True(t, res.Status.Calibrated)
	assert.Equal(t, good, res.Points)
}

func TestParseWavelengths(t *testing.T) {
	points, err := ParseWavelengths([]int{10, 20}, []string{"405.4\n", " 436.6 "})
	require.NoError(t, err)
	assert.Equal(t, []Point{{10, 405.4}, {20, 436.6}}, points)

	_, err = ParseWavelengths([]int{10}, []string{"blue"})
	var calErr *Error
	require.True(t, errors.As(err, &calErr))
	assert.Equal(t, CodeValidation, calErr.Code)

	_, err = ParseWavelengths([]int{10}, []string{"-1"})
	require.Error(t, err)

	_, err = ParseWavelengths([]int{10, 20}, []string{"500"})
	require.Error(t, err)

	_, err = ParseWavelengths([]int{10, 10}, []string{"405.4", "436.6"})
	require.True(t, errors.As(err, &calErr))
	assert.Equal(t, CodeValidation, calErr.Code)
}

func TestSaveRejectsRepeatedPixel(t *testing.T) {
	// A pixel clicked twice must not reach storage: the singular fit
	// matrix would map every column to 0 nm while reporting calibrated.
	e := tempEngine(t, 800)
	err := e.Save([]Point{{100, 405.4}, {100, 436.6}, {200, 546.1}})
	require.Error(t, err)

	var calErr *Error
	require.True(t, errors.As(err, &calErr))
	assert.Equal(t, CodeValidation, calErr.Code)

	res := e.Load()
	assert.False(t, res.Status.Calibrated)
	assert.Greater(t, res.Wavelengths[0], 0.0, "map falls back to defaults, never flat zero")
}
