package frame

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticFrameGeometry(t *testing.T) {
	src := NewSynthetic(800, 600, 0, nil, 42)
	defer src.Close()

	assert.Equal(t, 800, src.Width())
	assert.Equal(t, 600, src.Height())

	f, err := src.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 800, f.Width())
	assert.Equal(t, 600, f.Height())
}

func TestSyntheticEmissionLinesVisible(t *testing.T) {
	src := NewSynthetic(800, 600, 0, nil, 42)
	defer src.Close()

	f, err := src.Next(context.Background())
	require.NoError(t, err)

	intensity := make([]float64, f.Width())
	Reduce(f, f.Height()/2, intensity)

	for _, line := range DefaultEmissionLines() {
		assert.Greater(t, intensity[line.CenterPx], 100.0,
			"emission line at px %d missing", line.CenterPx)
	}
	// Baseline between lines stays near the noise floor.
	assert.Less(t, intensity[190], 30.0)
}

func TestSyntheticDeterministicSeed(t *testing.T) {
	a := NewSynthetic(800, 600, 0, nil, 7)
	b := NewSynthetic(800, 600, 0, nil, 7)
	defer a.Close()
	defer b.Close()

	fa, err := a.Next(context.Background())
	require.NoError(t, err)
	fb, err := b.Next(context.Background())
	require.NoError(t, err)

	assert.Equal(t, fa.Gray.Pix, fb.Gray.Pix)
}

func TestSyntheticClosedFails(t *testing.T) {
	src := NewSynthetic(800, 600, 0, nil, 42)
	require.NoError(t, src.Close())

	_, err := src.Next(context.Background())
	var readErr *ReadError
	require.True(t, errors.As(err, &readErr))
}

func TestReduceAveragesThreeRows(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 5))
	// Column 0: rows 1..3 hold 10, 20, 30 -> truncates to 20.
	gray.SetGray(0, 1, color.Gray{Y: 10})
	gray.SetGray(0, 2, color.Gray{Y: 20})
	gray.SetGray(0, 3, color.Gray{Y: 30})
	// Column 1: 1, 1, 2 -> (4 / 3) truncates to 1.
	gray.SetGray(1, 1, color.Gray{Y: 1})
	gray.SetGray(1, 2, color.Gray{Y: 1})
	gray.SetGray(1, 3, color.Gray{Y: 2})

	dst := make([]float64, 4)
	Reduce(&Frame{Gray: gray}, 2, dst)

	assert.Equal(t, 20.0, dst[0])
	assert.Equal(t, 1.0, dst[1])
	assert.Equal(t, 0.0, dst[2])
}

func TestReduceClampsCenterRow(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 3))
	gray.SetGray(0, 0, color.Gray{Y: 30})
	gray.SetGray(0, 1, color.Gray{Y: 30})
	gray.SetGray(0, 2, color.Gray{Y: 30})

	dst := make([]float64, 2)
	// A center row off the top edge still reads rows 0..2.
	Reduce(&Frame{Gray: gray}, 0, dst)
	assert.Equal(t, 30.0, dst[0])

	Reduce(&Frame{Gray: gray}, 10, dst)
	assert.Equal(t, 30.0, dst[0])
}

func writeTestPNG(t *testing.T, path string, w, h int, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	fh, err := os.Create(path)
	require.NoError(t, err)
	defer fh.Close()
	require.NoError(t, png.Encode(fh, img))
}

func TestDirectoryReplaysInNameOrder(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "frame-002.png"), 8, 6, color.RGBA{R: 200, G: 200, B: 200, A: 255})
	writeTestPNG(t, filepath.Join(dir, "frame-001.png"), 8, 6, color.RGBA{R: 50, G: 50, B: 50, A: 255})

	src, err := NewDirectory(dir, 0, false)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, 8, src.Width())
	assert.Equal(t, 6, src.Height())

	f1, err := src.Next(context.Background())
	require.NoError(t, err)
	f2, err := src.Next(context.Background())
	require.NoError(t, err)
	assert.Less(t, f1.Gray.Pix[0], f2.Gray.Pix[0])

	_, err = src.Next(context.Background())
	var readErr *ReadError
	require.True(t, errors.As(err, &readErr))
}

func TestDirectoryLoops(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "only.png"), 4, 4, color.RGBA{R: 99, G: 99, B: 99, A: 255})

	src, err := NewDirectory(dir, 0, true)
	require.NoError(t, err)
	defer src.Close()

	for i := 0; i < 3; i++ {
		_, err := src.Next(context.Background())
		require.NoError(t, err)
	}
}

func TestDirectoryRejectsSizeChange(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "a.png"), 8, 6, color.RGBA{A: 255})
	writeTestPNG(t, filepath.Join(dir, "b.png"), 4, 4, color.RGBA{A: 255})

	src, err := NewDirectory(dir, 0, false)
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Next(context.Background())
	require.NoError(t, err)
	_, err = src.Next(context.Background())
	require.Error(t, err)
}

func TestDirectoryEmpty(t *testing.T) {
	_, err := NewDirectory(t.TempDir(), 0, false)
	require.Error(t, err)
}

func TestStillReturnsFrameOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capture.png")
	writeTestPNG(t, path, 8, 6, color.RGBA{R: 120, G: 120, B: 120, A: 255})

	src, err := NewStill(path)
	require.NoError(t, err)
	defer src.Close()

	f, err := src.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, f.Width())

	_, err = src.Next(context.Background())
	var readErr *ReadError
	require.True(t, errors.As(err, &readErr))
}

func TestGrayFromRGBALuma(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})

	gray := grayFromRGBA(img)
	assert.Equal(t, uint8(76), gray.Pix[0])
}
