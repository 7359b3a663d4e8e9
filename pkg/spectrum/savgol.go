package spectrum

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// SavitzkyGolay smooths the signal by fitting a least-squares
// polynomial of the given order over a sliding window centered on each
// sample and replacing the sample with the fitted value at the window
// center. The signal is reflect-padded at both ends by mirroring the
// deltas from the boundary value, so the output has the same length as
// the input with no index shift.
//
// window must be a positive odd integer and at least order+2;
// otherwise an *InvalidParameterError is returned.
func SavitzkyGolay(y []float64, window, order int) ([]float64, error) {
	if window < 1 || window%2 != 1 {
		return nil, &InvalidParameterError{Param: "window", Value: window, Message: "must be a positive odd number"}
	}
	if order < 0 {
		return nil, &InvalidParameterError{Param: "order", Value: order, Message: "must be non-negative"}
	}
	if window < order+2 {
		return nil, &InvalidParameterError{Param: "window", Value: window, Message: "too small for the polynomial order"}
	}
	if len(y) == 0 {
		return nil, nil
	}

	half := (window - 1) / 2
	weights, err := savgolWeights(window, order)
	if err != nil {
		return nil, err
	}

	// Reflect-pad: mirror the absolute deltas from each boundary value
	// so the padding never introduces a new extremum at the edge.
	n := len(y)
	padded := make([]float64, n+2*half)
	for i := 0; i < half; i++ {
		src := half - i
		if src >= n {
			src = n - 1
		}
		padded[i] = y[0] - math.Abs(y[src]-y[0])
	}
	copy(padded[half:], y)
	for i := 0; i < half; i++ {
		src := n - 2 - i
		if src < 0 {
			src = 0
		}
		padded[n+half+i] = y[n-1] + math.Abs(y[src]-y[n-1])
	}

	out := make([]float64, n)
	for i := range out {
		var acc float64
		for j, w := range weights {
			acc += w * padded[i+j]
		}
		out[i] = acc
	}
	return out, nil
}

// savgolWeights computes the convolution weights for the window center
// as the first row of the pseudo-inverse of the polynomial design
// matrix B, B[k][i] = k^i for k in [-half, half].
func savgolWeights(window, order int) ([]float64, error) {
	half := (window - 1) / 2

	b := mat.NewDense(window, order+1, nil)
	for row := 0; row < window; row++ {
		k := float64(row - half)
		v := 1.0
		for i := 0; i <= order; i++ {
			b.Set(row, i, v)
			v *= k
		}
	}

	// Least-squares solve B * X = I gives X = pinv(B).
	eye := mat.NewDense(window, window, nil)
	for i := 0; i < window; i++ {
		eye.Set(i, i, 1)
	}
	var pinv mat.Dense
	if err := pinv.Solve(b, eye); err != nil {
		return nil, &InvalidParameterError{Param: "order", Value: order, Message: "design matrix is singular"}
	}

	return mat.Row(nil, 0, &pinv), nil
}
