package frame

import (
	"context"
	"image"
	"math"
	"math/rand"
	"time"
)

// EmissionLine is one synthetic spectral line.
type EmissionLine struct {
	CenterPx  int
	SigmaPx   float64
	Amplitude float64
}

// DefaultEmissionLines approximate a fluorescent lamp spectrum on an
// 800 px sensor, which is what the payload is normally calibrated
// against.
func DefaultEmissionLines() []EmissionLine {
	return []EmissionLine{
		{CenterPx: 120, SigmaPx: 3, Amplitude: 180},
		{CenterPx: 260, SigmaPx: 4, Amplitude: 230},
		{CenterPx: 410, SigmaPx: 3, Amplitude: 140},
		{CenterPx: 545, SigmaPx: 5, Amplitude: 200},
		{CenterPx: 700, SigmaPx: 4, Amplitude: 120},
	}
}

// Synthetic generates frames containing Gaussian emission lines over a
// low baseline with a little deterministic noise. It stands in for the
// USB camera when the payload hardware is not attached, and paces
// frames at the configured rate.
type Synthetic struct {
	width  int
	height int
	lines  []EmissionLine
	rng    *rand.Rand
	ticker *time.Ticker
	closed bool
}

// NewSynthetic creates a synthetic source. fps <= 0 disables pacing,
// which the tests rely on.
func NewSynthetic(width, height, fps int, lines []EmissionLine, seed int64) *Synthetic {
	if len(lines) == 0 {
		lines = DefaultEmissionLines()
	}
	s := &Synthetic{
		width:  width,
		height: height,
		lines:  lines,
		rng:    rand.New(rand.NewSource(seed)),
	}
	if fps > 0 {
		s.ticker = time.NewTicker(time.Second / time.Duration(fps))
	}
	return s
}

func (s *Synthetic) Width() int  { return s.width }
func (s *Synthetic) Height() int { return s.height }

// Next synthesizes one frame, waiting out the frame interval first.
func (s *Synthetic) Next(ctx context.Context) (*Frame, error) {
	if s.closed {
		return nil, &ReadError{Device: "synthetic"}
	}
	if s.ticker != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.ticker.C:
		}
	}

	gray := image.NewGray(image.Rect(0, 0, s.width, s.height))
	row := make([]uint8, s.width)
	for x := 0; x < s.width; x++ {
		v := 8.0 + s.rng.Float64()*4.0
		for _, line := range s.lines {
			d := float64(x - line.CenterPx)
			v += line.Amplitude * math.Exp(-d*d/(2*line.SigmaPx*line.SigmaPx))
		}
		if v > 255 {
			v = 255
		}
		row[x] = uint8(v)
	}
	for y := 0; y < s.height; y++ {
		copy(gray.Pix[y*gray.Stride:y*gray.Stride+s.width], row)
	}
	return &Frame{Gray: gray}, nil
}

// Close stops the pacing ticker; subsequent reads fail.
func (s *Synthetic) Close() error {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	s.closed = true
	return nil
}
