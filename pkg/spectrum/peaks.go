package spectrum

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// PeakOptions controls peak detection behavior.
type PeakOptions struct {
	// Threshold is the minimum qualifying sample value. When Absolute
	// is false it is interpreted as a fraction of the signal span:
	// thresholdValue = Threshold*(max-min) + min.
	Threshold float64
	Absolute  bool

	// MinDistance is the exclusion radius in samples between accepted
	// peaks. Among peaks closer than this, only the tallest survives.
	MinDistance int
}

// PeakIndexes returns the indices of local maxima in y, in ascending
// order. A local maximum is a sample where the first difference
// transitions from positive to negative. Plateaus (zero-difference
// runs) are resolved by propagating the nearest non-zero neighboring
// slope across the run, split at its median index, so a flat-topped
// peak registers exactly once. A totally flat signal yields no peaks.
func PeakIndexes(y []float64, opts PeakOptions) []int {
	n := len(y)
	if n < 3 {
		return nil
	}

	threshold := opts.Threshold
	if !opts.Absolute {
		max := floats.Max(y)
		min := floats.Min(y)
		threshold = threshold*(max-min) + min
	}

	dy := make([]float64, n-1)
	var zeros []int
	for i := range dy {
		dy[i] = y[i+1] - y[i]
		if dy[i] == 0 {
			zeros = append(zeros, i)
		}
	}

	// Totally flat signal.
	if len(zeros) == len(y)-1 {
		return nil
	}

	if len(zeros) > 0 {
		resolvePlateaus(dy, zeros)
	}

	var peaks []int
	for i := 1; i < n-1; i++ {
		if dy[i-1] > 0 && dy[i] < 0 && y[i] > threshold {
			peaks = append(peaks, i)
		}
	}

	if len(peaks) > 1 && opts.MinDistance > 1 {
		peaks = enforceMinDistance(y, peaks, opts.MinDistance)
	}
	return peaks
}

// resolvePlateaus rewrites zero runs of the first difference with the
// slope of their non-zero neighbors: the left neighbor's slope up to
// the run's median index, the right neighbor's slope from the median
// on. Runs touching either end of the signal take the slope from their
// single inward neighbor. The exact median-split is load-bearing: it
// determines which sample inside a flat maximum is reported.
func resolvePlateaus(dy []float64, zeros []int) {
	var plateaus [][]int
	start := 0
	for i := 1; i <= len(zeros); i++ {
		if i == len(zeros) || zeros[i] != zeros[i-1]+1 {
			plateaus = append(plateaus, zeros[start:i])
			start = i
		}
	}

	// Leading run: no left neighbor, take the slope just past it.
	if len(plateaus) > 0 && plateaus[0][0] == 0 {
		p := plateaus[0]
		after := p[len(p)-1] + 1
		for _, idx := range p {
			dy[idx] = dy[after]
		}
		plateaus = plateaus[1:]
	}

	// Trailing run: no right neighbor, take the slope just before it.
	if len(plateaus) > 0 && plateaus[len(plateaus)-1][len(plateaus[len(plateaus)-1])-1] == len(dy)-1 {
		p := plateaus[len(plateaus)-1]
		before := p[0] - 1
		for _, idx := range p {
			dy[idx] = dy[before]
		}
		plateaus = plateaus[:len(plateaus)-1]
	}

	for _, p := range plateaus {
		median := plateauMedian(p)
		left := dy[p[0]-1]
		right := dy[p[len(p)-1]+1]
		for _, idx := range p {
			if float64(idx) < median {
				dy[idx] = left
			} else {
				dy[idx] = right
			}
		}
	}
}

func plateauMedian(p []int) float64 {
	m := len(p)
	if m%2 == 1 {
		return float64(p[m/2])
	}
	return (float64(p[m/2-1]) + float64(p[m/2])) / 2
}

// enforceMinDistance keeps only the tallest peak within each exclusion
// window, processing candidates from tallest to shortest and
// suppressing any shorter peak near an already-accepted one.
func enforceMinDistance(y []float64, peaks []int, minDist int) []int {
	highest := make([]int, len(peaks))
	copy(highest, peaks)
	sort.SliceStable(highest, func(i, j int) bool {
		return y[highest[i]] > y[highest[j]]
	})

	suppressed := make([]bool, len(y))
	for i := range suppressed {
		suppressed[i] = true
	}
	for _, p := range peaks {
		suppressed[p] = false
	}

	for _, p := range highest {
		if suppressed[p] {
			continue
		}
		lo := p - minDist
		if lo < 0 {
			lo = 0
		}
		hi := p + minDist
		if hi > len(y)-1 {
			hi = len(y) - 1
		}
		for i := lo; i <= hi; i++ {
			suppressed[i] = true
		}
		suppressed[p] = false
	}

	var kept []int
	for i, s := range suppressed {
		if !s {
			kept = append(kept, i)
		}
	}
	return kept
}
