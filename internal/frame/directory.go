package frame

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Directory replays previously captured frames from a directory of PNG
// or JPEG files, in filename order. Every frame must match the width
// and height of the first one; the camera's frame size is fixed for
// the process lifetime.
type Directory struct {
	device string
	files  []string
	next   int
	loop   bool
	width  int
	height int
	ticker *time.Ticker
}

// NewDirectory scans dir for frame images. With loop set the sequence
// restarts after the last file; otherwise exhaustion surfaces as a
// read error and ends the run.
func NewDirectory(dir string, fps int, loop bool) (*Directory, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning frame directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".png", ".jpg", ".jpeg":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("no frame images in %s", dir)
	}

	d := &Directory{device: dir, files: files, loop: loop}
	first, err := d.decode(files[0])
	if err != nil {
		return nil, err
	}
	d.width = first.Width()
	d.height = first.Height()
	if fps > 0 {
		d.ticker = time.NewTicker(time.Second / time.Duration(fps))
	}
	return d, nil
}

func (d *Directory) Width() int  { return d.width }
func (d *Directory) Height() int { return d.height }

func (d *Directory) Next(ctx context.Context) (*Frame, error) {
	if d.next >= len(d.files) {
		if !d.loop {
			return nil, &ReadError{Device: d.device, Cause: fmt.Errorf("frame sequence exhausted")}
		}
		d.next = 0
	}
	if d.ticker != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-d.ticker.C:
		}
	}

	f, err := d.decode(d.files[d.next])
	if err != nil {
		return nil, err
	}
	d.next++
	if f.Width() != d.width || f.Height() != d.height {
		return nil, &ReadError{
			Device: d.device,
			Cause:  fmt.Errorf("frame size changed mid-sequence (%dx%d)", f.Width(), f.Height()),
		}
	}
	return f, nil
}

func (d *Directory) Close() error {
	if d.ticker != nil {
		d.ticker.Stop()
	}
	return nil
}

func (d *Directory) decode(path string) (*Frame, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Device: d.device, Cause: err}
	}
	defer fh.Close()

	img, _, err := image.Decode(fh)
	if err != nil {
		return nil, &ReadError{Device: d.device, Cause: fmt.Errorf("decoding %s: %w", filepath.Base(path), err)}
	}

	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Rect, img, img.Bounds().Min, draw.Src)
	return &Frame{Gray: grayFromRGBA(rgba), Color: rgba}, nil
}
