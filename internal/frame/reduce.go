package frame

// Reduce extracts a per-column intensity series from a frame by
// averaging the three pixel rows centered on centerRow, writing one
// value per column into dst. dst must be at least as long as the frame
// is wide. The integer average truncates, matching the 8-bit camera
// samples.
func Reduce(f *Frame, centerRow int, dst []float64) {
	gray := f.Gray
	w := gray.Rect.Dx()
	h := gray.Rect.Dy()

	if centerRow < 1 {
		centerRow = 1
	}
	if centerRow > h-2 {
		centerRow = h - 2
	}

	above := gray.Pix[gray.PixOffset(gray.Rect.Min.X, gray.Rect.Min.Y+centerRow-1):]
	center := gray.Pix[gray.PixOffset(gray.Rect.Min.X, gray.Rect.Min.Y+centerRow):]
	below := gray.Pix[gray.PixOffset(gray.Rect.Min.X, gray.Rect.Min.Y+centerRow+1):]

	for x := 0; x < w; x++ {
		sum := int(above[x]) + int(center[x]) + int(below[x])
		dst[x] = float64(uint8(sum / 3))
	}
}
