package spectrum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavitzkyGolayPreservesLength(t *testing.T) {
	for _, n := range []int{17, 100, 800} {
		y := make([]float64, n)
		for i := range y {
			y[i] = float64(i % 13)
		}
		out, err := SavitzkyGolay(y, 17, 7)
		require.NoError(t, err)
		assert.Len(t, out, n)
	}
}

func TestSavitzkyGolayLinearIdempotent(t *testing.T) {
	// A polynomial fit of any order >= 1 reproduces a line exactly, and
	// the edge padding extends an increasing line linearly.
	y := make([]float64, 200)
	for i := range y {
		y[i] = 2*float64(i) + 3
	}

	for _, order := range []int{1, 3, 7} {
		out, err := SavitzkyGolay(y, 17, order)
		require.NoError(t, err)
		for i := range y {
			assert.InDelta(t, y[i], out[i], 1e-6, "order %d index %d", order, i)
		}
	}
}

func TestSavitzkyGolayConstantInput(t *testing.T) {
	y := make([]float64, 50)
	for i := range y {
		y[i] = 42
	}
	out, err := SavitzkyGolay(y, 17, 7)
	require.NoError(t, err)
	for i := range out {
		assert.InDelta(t, 42, out[i], 1e-9)
	}
}

func TestSavitzkyGolayParameterValidation(t *testing.T) {
	y := make([]float64, 64)

	tests := []struct {
		name   string
		window int
		order  int
	}{
		{"even window", 16, 7},
		{"zero window", 0, 0},
		{"negative window", -5, 2},
		{"order too large", 5, 4},
		{"negative order", 17, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SavitzkyGolay(y, tt.window, tt.order)
			require.Error(t, err)
			var paramErr *InvalidParameterError
			assert.ErrorAs(t, err, &paramErr)
		})
	}
}

func TestSavitzkyGolaySmoothsNoise(t *testing.T) {
	// A smoothed noisy sine should be closer to the clean signal than
	// the noisy input was.
	n := 400
	clean := make([]float64, n)
	noisy := make([]float64, n)
	for i := range clean {
		clean[i] = 100 + 80*math.Sin(float64(i)/30)
		// Deterministic pseudo-noise.
		noisy[i] = clean[i] + 12*math.Sin(float64(i)*2.7)*math.Cos(float64(i)*1.3)
	}

	out, err := SavitzkyGolay(noisy, 17, 3)
	require.NoError(t, err)

	var errNoisy, errSmooth float64
	for i := 20; i < n-20; i++ {
		errNoisy += math.Abs(noisy[i] - clean[i])
		errSmooth += math.Abs(out[i] - clean[i])
	}
	assert.Less(t, errSmooth, errNoisy)
}
