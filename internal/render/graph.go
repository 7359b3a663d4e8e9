// Package render draws the spectrometer display: a status banner, the
// camera preview band and the intensity-vs-wavelength graph stacked
// into one image, plus the optional scrolling waterfall.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/averync2005/lusi-science-module/pkg/spectrum"
)

var (
	bannerBg     = color.RGBA{40, 40, 40, 255}
	bannerTitle  = color.RGBA{255, 200, 0, 255}
	bannerInfo   = color.RGBA{180, 180, 180, 255}
	bannerHint   = color.RGBA{140, 140, 140, 255}
	bannerStatus = color.RGBA{255, 255, 0, 255}
	graphBg      = color.RGBA{255, 255, 255, 255}
	minorLine    = color.RGBA{200, 200, 200, 255}
	refLine      = color.RGBA{100, 100, 100, 255}
	black        = color.RGBA{0, 0, 0, 255}
	white        = color.RGBA{255, 255, 255, 255}
	labelBg      = color.RGBA{255, 255, 0, 255}
)

const labelTextOffset = 12

// State carries everything one frame's render needs. The renderer
// reads it and never mutates pipeline state.
type State struct {
	Intensity   []float64
	Wavelengths []float64
	Graticule   spectrum.Graticule
	Peaks       []int

	HoldPeaks    bool
	Measure      bool
	RecordPixels bool
	SavGolOrder  int
	MinDistance  int
	Threshold    int

	CursorX, CursorY int
	Clicks           []image.Point

	CalMessages [3]string
	SaveMessage string
	DeviceLabel string
	FPS         int

	Preview *image.RGBA
}

// Renderer draws spectrum display images for a fixed geometry.
type Renderer struct {
	width      int
	bannerH    int
	previewH   int
	graphH     int
	stackH     int
	graphTop   int
	previewTop int
}

// NewRenderer creates a renderer for the given frame width and section
// heights.
func NewRenderer(width, bannerH, previewH, graphH int) *Renderer {
	return &Renderer{
		width:      width,
		bannerH:    bannerH,
		previewH:   previewH,
		graphH:     graphH,
		stackH:     bannerH + previewH + graphH,
		previewTop: bannerH,
		graphTop:   bannerH + previewH,
	}
}

// GraphTop returns the y offset of the graph section within the
// stacked image; mouse coordinates arriving from the display are
// translated by this amount.
func (r *Renderer) GraphTop() int { return r.graphTop }

// StackHeight returns the total height of the stacked display image.
func (r *Renderer) StackHeight() int { return r.stackH }

// Spectrum renders the full stacked display for one frame.
func (r *Renderer) Spectrum(st *State) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.stackH))
	r.drawBanner(img, st)
	r.drawPreview(img, st.Preview)
	r.drawGraph(img, st)

	// Section dividers.
	hline(img, 0, r.width-1, r.bannerH, white)
	hline(img, 0, r.width-1, r.graphTop, white)
	return img
}

func (r *Renderer) drawBanner(img *image.RGBA, st *State) {
	fillRect(img, image.Rect(0, 0, r.width, r.bannerH), bannerBg)

	drawText(img, 10, 25, "LUSI Science Module - Spectrometer", bannerTitle)
	drawText(img, 10, 50, fmt.Sprintf("Device: %s  |  FPS: %d", st.DeviceLabel, st.FPS), bannerInfo)
	drawText(img, 10, 70, "Press 'q' to quit  |  's' to save  |  'h' for peak hold", bannerHint)

	drawText(img, 490, 20, st.CalMessages[0], bannerStatus)
	drawText(img, 490, 38, st.CalMessages[1], bannerStatus)
	drawText(img, 490, 56, st.CalMessages[2], bannerStatus)
	drawText(img, 490, 74, st.SaveMessage, bannerStatus)

	holdMsg := "Holdpeaks OFF"
	if st.HoldPeaks {
		holdMsg = "Holdpeaks ON"
	}
	drawText(img, 660, 20, holdMsg, bannerStatus)
	drawText(img, 660, 38, fmt.Sprintf("Savgol: %d", st.SavGolOrder), bannerStatus)
	drawText(img, 660, 56, fmt.Sprintf("Peak Dist: %d", st.MinDistance), bannerStatus)
	drawText(img, 660, 74, fmt.Sprintf("Threshold: %d", st.Threshold), bannerStatus)
}

func (r *Renderer) drawPreview(img *image.RGBA, preview *image.RGBA) {
	if preview == nil {
		fillRect(img, image.Rect(0, r.previewTop, r.width, r.graphTop), black)
		return
	}
	src := preview.Rect
	h := src.Dy()
	if h > r.previewH {
		h = r.previewH
	}
	for y := 0; y < h; y++ {
		si := preview.PixOffset(src.Min.X, src.Min.Y+y)
		di := img.PixOffset(0, r.previewTop+y)
		copy(img.Pix[di:di+r.width*4], preview.Pix[si:si+r.width*4])
	}

	// Indicator lines bracketing the 3 px sampling region.
	half := r.previewTop + h/2
	hline(img, 0, r.width-1, half-2, white)
	hline(img, 0, r.width-1, half+2, white)
}

func (r *Renderer) drawGraph(img *image.RGBA, st *State) {
	top := r.graphTop
	bottom := top + r.graphH - 1

	fillRect(img, image.Rect(0, top, r.width, top+r.graphH), graphBg)

	for _, px := range st.Graticule.Minor {
		vline(img, px, top+15, bottom, minorLine)
	}
	for _, major := range st.Graticule.Major {
		vline(img, major.Pixel, top+15, bottom, black)
		drawText(img, major.Pixel-labelTextOffset, top+12, fmt.Sprintf("%dnm", major.LabelNm), black)
	}
	for y := 64; y < r.graphH; y += 64 {
		hline(img, 0, r.width-1, top+y, refLine)
	}

	// Colored intensity bars with a dark cap pixel.
	for x := 0; x < r.width && x < len(st.Intensity); x++ {
		h := clampIntensity(st.Intensity[x], r.graphH)
		rgb := spectrum.WavelengthToRGB(math.Round(st.Wavelengths[x]))
		vline(img, x, bottom-h, bottom, color.RGBA{rgb.R, rgb.G, rgb.B, 255})
		setPixel(img, x, bottom-h, black)
	}

	r.drawPeakLabels(img, st, top, bottom)
	r.drawCursors(img, st, top)

	for _, click := range st.Clicks {
		fillCircle(img, click.X, top+click.Y, 5, black)
		drawText(img, click.X+5, top+click.Y, fmt.Sprintf("%d", click.X), black)
	}
}

func (r *Renderer) drawPeakLabels(img *image.RGBA, st *State, top, bottom int) {
	for _, px := range st.Peaks {
		if px >= len(st.Intensity) || px >= len(st.Wavelengths) {
			continue
		}
		h := clampIntensity(st.Intensity[px], r.graphH)
		y := bottom - 10 - h
		wl := math.Round(st.Wavelengths[px]*10) / 10

		box := image.Rect(px-labelTextOffset-2, y-15, px-labelTextOffset+60, y)
		fillRect(img, box, labelBg)
		strokeRect(img, box, black)
		drawText(img, px-labelTextOffset, y-3, fmt.Sprintf("%.1fnm", wl), black)
		vline(img, px, y, y+10, black)
	}
}

func (r *Renderer) drawCursors(img *image.RGBA, st *State, top int) {
	if !st.Measure && !st.RecordPixels {
		return
	}
	x := st.CursorX
	y := top + st.CursorY
	vline(img, x, y-20, y+20, black)
	hline(img, x-20, x+20, y, black)
	if x < 0 || x >= r.width {
		return
	}
	if st.Measure && x < len(st.Wavelengths) {
		drawText(img, x+5, y-5, fmt.Sprintf("%.2fnm", st.Wavelengths[x]), black)
	} else if st.RecordPixels {
		drawText(img, x+5, y-5, fmt.Sprintf("%dpx", x), black)
	}
}

func clampIntensity(v float64, graphH int) int {
	h := int(v)
	if h < 0 {
		h = 0
	}
	if h > graphH-1 {
		h = graphH - 1
	}
	return h
}
