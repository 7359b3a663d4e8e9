package spectrum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linearMap(n int, start, step float64) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = start + step*float64(i)
	}
	return w
}

func TestBuildGraticuleMonotonicMap(t *testing.T) {
	// 380.0 .. 779.5 nm across 800 px; every 10 nm boundary in range
	// should match exactly one pixel.
	w := linearMap(800, 380, 0.5)
	g := BuildGraticule(w)

	seen := map[int]bool{}
	for _, px := range g.Minor {
		assert.False(t, seen[px], "duplicate minor line at pixel %d", px)
		seen[px] = true
	}

	// Boundaries 380, 390, ..., 780.
	assert.Len(t, g.Minor, 41)
	for _, px := range g.Minor {
		nearest := w[px]
		assert.Zero(t, int(nearest+0.5)%10, "pixel %d maps to %.2f nm", px, nearest)
	}
}

func TestBuildGraticuleMajorLabels(t *testing.T) {
	w := linearMap(800, 380, 0.5)
	g := BuildGraticule(w)

	// 400, 450, ..., 750 plus the 380-side has no 50-multiple below 400.
	require.NotEmpty(t, g.Major)
	for _, major := range g.Major {
		assert.Zero(t, major.LabelNm%50, "label %d nm is not a 50 nm multiple", major.LabelNm)
	}
}

func TestBuildGraticuleCoarseMappingSuppressed(t *testing.T) {
	// 10 nm per pixel: almost no boundary lies within 1 nm of a pixel,
	// so nearly all gridlines are suppressed rather than mismapped.
	w := linearMap(10, 383, 10)
	g := BuildGraticule(w)
	for _, px := range g.Minor {
		t.Errorf("unexpected minor line at pixel %d (%.1f nm)", px, w[px])
	}
}

func TestBuildGraticuleEmptyMap(t *testing.T) {
	g := BuildGraticule(nil)
	assert.Empty(t, g.Minor)
	assert.Empty(t, g.Major)
}
