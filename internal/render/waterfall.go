package render

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/averync2005/lusi-science-module/pkg/spectrum"
)

// Waterfall is a fixed-height scrolling buffer of spectral color
// strips: one row per frame, newest on top, oldest evicted.
type Waterfall struct {
	img    *image.RGBA
	width  int
	height int
}

// NewWaterfall creates an empty (black) waterfall buffer.
func NewWaterfall(width, height int) *Waterfall {
	w := &Waterfall{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		width:  width,
		height: height,
	}
	fillRect(w.img, w.img.Rect, color.RGBA{0, 0, 0, 255})
	return w
}

// Height returns the fixed buffer height.
func (w *Waterfall) Height() int { return w.height }

// Push derives a single color strip from the intensity series (hue
// from the wavelength map, luminosity from intensity), scrolls the
// buffer down one row and inserts the strip at the top.
func (w *Waterfall) Push(intensity, wavelengths []float64) {
	stride := w.img.Stride
	copy(w.img.Pix[stride:], w.img.Pix[:stride*(w.height-1)])

	for x := 0; x < w.width; x++ {
		var lum float64
		if x < len(intensity) {
			lum = intensity[x] / 255
		}
		if lum < 0 {
			lum = 0
		}
		if lum > 1 {
			lum = 1
		}
		var rgb spectrum.RGB
		if x < len(wavelengths) {
			rgb = spectrum.WavelengthToRGB(math.Round(wavelengths[x]))
		}
		i := w.img.PixOffset(x, 0)
		w.img.Pix[i] = uint8(math.Round(float64(rgb.R) * lum))
		w.img.Pix[i+1] = uint8(math.Round(float64(rgb.G) * lum))
		w.img.Pix[i+2] = uint8(math.Round(float64(rgb.B) * lum))
		w.img.Pix[i+3] = 0xff
	}
}

// Row returns the color strip at the given row, top first. Used by
// tests to observe eviction.
func (w *Waterfall) Row(y int) []uint8 {
	i := w.img.PixOffset(0, y)
	return w.img.Pix[i : i+w.width*4]
}

// Compose stacks the banner and preview sections of the spectrum
// display above the waterfall buffer and overlays dashed 50 nm
// graticule lines with labels.
func (r *Renderer) Compose(w *Waterfall, st *State) *image.RGBA {
	stackH := r.bannerH + r.previewH + w.height
	img := image.NewRGBA(image.Rect(0, 0, r.width, stackH))

	r.drawBanner(img, st)
	r.drawPreview(img, st.Preview)

	for y := 0; y < w.height; y++ {
		si := w.img.PixOffset(0, y)
		di := img.PixOffset(0, r.graphTop+y)
		copy(img.Pix[di:di+r.width*4], w.img.Pix[si:si+r.width*4])
	}

	hline(img, 0, r.width-1, r.bannerH, white)
	hline(img, 0, r.width-1, r.graphTop, white)

	for _, major := range st.Graticule.Major {
		for y := r.graphTop + 2; y < stackH; y++ {
			if y%20 == 0 {
				setPixel(img, major.Pixel, y, black)
				setPixel(img, major.Pixel, y+1, white)
			}
		}
		drawText(img, major.Pixel-labelTextOffset, stackH-5, strconv.Itoa(major.LabelNm)+"nm", white)
	}
	return img
}
