package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averync2005/lusi-science-module/pkg/spectrum"
)

func testState(width int) *State {
	st := &State{
		Intensity:   make([]float64, width),
		Wavelengths: make([]float64, width),
	}
	for i := range st.Wavelengths {
		st.Wavelengths[i] = 380 + 0.5*float64(i)
	}
	return st
}

func TestRendererGeometry(t *testing.T) {
	r := NewRenderer(800, 80, 80, 320)

	assert.Equal(t, 160, r.GraphTop())
	assert.Equal(t, 480, r.StackHeight())

	img := r.Spectrum(testState(800))
	assert.Equal(t, 800, img.Rect.Dx())
	assert.Equal(t, 480, img.Rect.Dy())
}

func TestSpectrumDrawsIntensityBar(t *testing.T) {
	r := NewRenderer(800, 80, 80, 320)
	st := testState(800)
	st.Intensity[340] = 100 // 550 nm column

	img := r.Spectrum(st)
	bottom := r.GraphTop() + 320 - 1

	// The bar is the dominant-green 550 nm color up from the baseline,
	// capped with a black pixel.
	mid := img.RGBAAt(340, bottom-50)
	rgb := spectrum.WavelengthToRGB(550)
	assert.Equal(t, rgb.G, mid.G)
	assert.Equal(t, rgb.R, mid.R)

	top := img.RGBAAt(340, bottom-100)
	assert.Equal(t, uint8(0), top.R)
	assert.Equal(t, uint8(0), top.G)
	assert.Equal(t, uint8(0), top.B)
}

func TestSpectrumClampsTallBars(t *testing.T) {
	r := NewRenderer(800, 80, 80, 320)
	st := testState(800)
	st.Intensity[100] = 10000

	// Must not panic or draw outside the graph section. The preview row
	// just above the graph stays untouched (black, no preview set).
	img := r.Spectrum(st)
	above := img.RGBAAt(100, r.GraphTop()-1)
	assert.Equal(t, black, above)
}

func TestSpectrumPeakLabelBox(t *testing.T) {
	r := NewRenderer(800, 80, 80, 320)
	st := testState(800)
	st.Intensity[400] = 120
	st.Peaks = []int{400}

	img := r.Spectrum(st)
	bottom := r.GraphTop() + 320 - 1
	y := bottom - 10 - 120

	// Label box spans px-14..px+47; sample inside it, right of the text
	// glyphs.
	inBox := img.RGBAAt(440, y-7)
	assert.Equal(t, labelBg, inBox)
}

func TestSpectrumCursorOnlyInMeasureModes(t *testing.T) {
	r := NewRenderer(800, 80, 80, 320)

	st := testState(800)
	st.CursorX = 200
	st.CursorY = 100
	plain := r.Spectrum(st)

	st.Measure = true
	measured := r.Spectrum(st)

	cy := r.GraphTop() + 100
	assert.NotEqual(t, black, plain.RGBAAt(200, cy))
	assert.Equal(t, black, measured.RGBAAt(200, cy))
}

func TestSpectrumPreviewCopied(t *testing.T) {
	r := NewRenderer(8, 20, 10, 30)
	st := &State{
		Intensity:   make([]float64, 8),
		Wavelengths: make([]float64, 8),
		Preview:     image.NewRGBA(image.Rect(0, 0, 8, 10)),
	}
	marker := color.RGBA{12, 34, 56, 255}
	st.Preview.SetRGBA(3, 1, marker)

	img := r.Spectrum(st)
	require.Equal(t, marker, img.RGBAAt(3, 21), "preview rows land below the banner divider")
}
