// Package frame supplies raw camera frames to the spectrum pipeline
// and reduces them to per-column intensity series. The camera device
// itself is an external collaborator; sources here either synthesize
// frames or replay captured ones.
package frame

import (
	"context"
	"image"
)

// Frame is one raw capture. Gray is always present and drives the
// intensity reduction; Color, when present, is used for the preview
// strip.
type Frame struct {
	Gray  *image.Gray
	Color *image.RGBA
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int {
	return f.Gray.Rect.Dx()
}

// Height returns the frame height in pixels.
func (f *Frame) Height() int {
	return f.Gray.Rect.Dy()
}

// Source produces frames of a fixed width for the lifetime of the
// process. A read failure is a device-level fault: the pipeline treats
// it as fatal rather than retrying, since a silent retry could mask a
// physically unplugged camera.
type Source interface {
	// Next blocks until the next frame is available.
	Next(ctx context.Context) (*Frame, error)
	Width() int
	Height() int
	Close() error
}

// ReadError reports a frame read failure on the camera link.
type ReadError struct {
	Device string
	Cause  error
}

func (e *ReadError) Error() string {
	if e.Cause != nil {
		return "frame read from " + e.Device + " failed: " + e.Cause.Error()
	}
	return "frame read from " + e.Device + " failed"
}

func (e *ReadError) Unwrap() error {
	return e.Cause
}

// grayFromRGBA converts a color frame to grayscale with the standard
// luma weights.
func grayFromRGBA(src *image.RGBA) *image.Gray {
	b := src.Rect
	gray := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := src.PixOffset(x, y)
			r := float64(src.Pix[i])
			g := float64(src.Pix[i+1])
			bl := float64(src.Pix[i+2])
			gray.Pix[gray.PixOffset(x, y)] = uint8(0.299*r + 0.587*g + 0.114*bl)
		}
	}
	return gray
}
