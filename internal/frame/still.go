package frame

import (
	"context"
	"fmt"
)

// Still is a single-frame source wrapping one captured image, used by
// the offline process command.
type Still struct {
	device string
	frame  *Frame
	read   bool
}

// NewStill decodes one captured frame image.
func NewStill(path string) (*Still, error) {
	d := &Directory{device: path}
	f, err := d.decode(path)
	if err != nil {
		return nil, err
	}
	return &Still{device: path, frame: f}, nil
}

func (s *Still) Width() int  { return s.frame.Width() }
func (s *Still) Height() int { return s.frame.Height() }

// Next returns the frame once; a second read reports exhaustion.
func (s *Still) Next(ctx context.Context) (*Frame, error) {
	if s.read {
		return nil, &ReadError{Device: s.device, Cause: fmt.Errorf("single frame already read")}
	}
	s.read = true
	return s.frame, nil
}

func (s *Still) Close() error { return nil }
