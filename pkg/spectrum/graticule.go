package spectrum

import "math"

// MajorLine is a labeled 50 nm graticule line.
type MajorLine struct {
	Pixel   int
	LabelNm int
}

// Graticule holds the derived gridline pixel positions for a
// wavelength mapping. Minor lines fall on 10 nm boundaries, major
// lines on 50 nm boundaries with an attached label. Immutable until
// the calibration changes.
type Graticule struct {
	Minor []int
	Major []MajorLine
}

// BuildGraticule scans every 10 nm and 50 nm boundary from just below
// the mapped range to just above it and records the pixel whose mapped
// wavelength lies closest, provided the closest distance is under
// 1 nm. The distance gate suppresses false gridlines where the mapping
// is too coarse or non-monotonic near the frame edges.
func BuildGraticule(wavelengths []float64) Graticule {
	var g Graticule
	if len(wavelengths) == 0 {
		return g
	}

	low := int(math.Round(wavelengths[0])) - 10
	high := int(math.Round(wavelengths[len(wavelengths)-1])) + 10

	for nm := low; nm < high; nm++ {
		if nm%10 != 0 {
			continue
		}
		pixel, dist := nearestPixel(wavelengths, float64(nm))
		if dist >= 1 {
			continue
		}
		g.Minor = append(g.Minor, pixel)
		if nm%50 == 0 {
			g.Major = append(g.Major, MajorLine{
				Pixel:   pixel,
				LabelNm: int(math.Round(wavelengths[pixel])),
			})
		}
	}
	return g
}

func nearestPixel(wavelengths []float64, nm float64) (int, float64) {
	best := 0
	bestDist := math.Abs(nm - wavelengths[0])
	for i := 1; i < len(wavelengths); i++ {
		if d := math.Abs(nm - wavelengths[i]); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best, bestDist
}
