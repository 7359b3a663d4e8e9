package spectrum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func impulses(n int, at map[int]float64) []float64 {
	y := make([]float64, n)
	for i, v := range at {
		y[i] = v
	}
	return y
}

func TestPeakIndexesConstantSignal(t *testing.T) {
	y := make([]float64, 100)
	for i := range y {
		y[i] = 7
	}
	assert.Empty(t, PeakIndexes(y, PeakOptions{Threshold: 1, Absolute: true, MinDistance: 10}))
}

func TestPeakIndexesWellSeparatedImpulses(t *testing.T) {
	y := impulses(500, map[int]float64{100: 10, 300: 8})
	got := PeakIndexes(y, PeakOptions{Threshold: 5, Absolute: true, MinDistance: 50})
	assert.Equal(t, []int{100, 300}, got)
}

func TestPeakIndexesCloseImpulsesKeepTaller(t *testing.T) {
	y := impulses(500, map[int]float64{100: 10, 120: 8})
	got := PeakIndexes(y, PeakOptions{Threshold: 5, Absolute: true, MinDistance: 50})
	assert.Equal(t, []int{100}, got)

	// Order independence: the taller peak wins from either side.
	y = impulses(500, map[int]float64{100: 8, 120: 10})
	got = PeakIndexes(y, PeakOptions{Threshold: 5, Absolute: true, MinDistance: 50})
	assert.Equal(t, []int{120}, got)
}

func TestPeakIndexesRelativeThreshold(t *testing.T) {
	y := impulses(500, map[int]float64{100: 10, 300: 4})
	// thresholdValue = 0.5*(10-0)+0 = 5: the shorter impulse is out.
	got := PeakIndexes(y, PeakOptions{Threshold: 0.5, MinDistance: 10})
	assert.Equal(t, []int{100}, got)
}

func TestPeakIndexesPlateau(t *testing.T) {
	// Ramp up to a flat top spanning indices 10..14, then ramp down.
	// The plateau must register exactly once, at the median split.
	var y []float64
	for i := 0; i <= 10; i++ {
		y = append(y, float64(i))
	}
	for i := 0; i < 4; i++ {
		y = append(y, 10)
	}
	for i := 9; i >= 0; i-- {
		y = append(y, float64(i))
	}

	got := PeakIndexes(y, PeakOptions{Threshold: 5, Absolute: true, MinDistance: 1})
	assert.Len(t, got, 1)
	assert.GreaterOrEqual(t, got[0], 10)
	assert.LessOrEqual(t, got[0], 14)
}

func TestPeakIndexesEdgesAreNotPeaks(t *testing.T) {
	// Monotonic signals have no interior sign change.
	y := make([]float64, 50)
	for i := range y {
		y[i] = float64(i)
	}
	assert.Empty(t, PeakIndexes(y, PeakOptions{Threshold: 1, Absolute: true, MinDistance: 1}))
}

func TestPeakIndexesShortInput(t *testing.T) {
	assert.Empty(t, PeakIndexes([]float64{1, 2}, PeakOptions{}))
	assert.Empty(t, PeakIndexes(nil, PeakOptions{}))
}
