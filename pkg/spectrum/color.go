package spectrum

import "math"

// RGB is an 8-bit-per-channel color.
type RGB struct {
	R, G, B uint8
}

// visible spectrum bounds in nanometers
const (
	visibleMin = 380.0
	visibleMax = 780.0
)

// GrayFallback is the color used for wavelengths that have no visible
// representation. Gray keeps uncalibrated display regions visible
// instead of rendering them black.
var GrayFallback = RGB{155, 155, 155}

// WavelengthToRGB converts a wavelength in nanometers to an RGB color
// using piecewise linear interpolation across the visible spectrum
// bands, with gamma correction and an intensity rolloff at the violet
// and red extremes. Wavelengths outside 380-780 nm map to GrayFallback.
func WavelengthToRGB(nm float64) RGB {
	const gamma = 0.8
	const maxIntensity = 255.0

	var r, g, b float64

	switch {
	case nm >= 380 && nm < 440:
		r = -(nm - 440) / (440 - 380)
		b = 1.0
	case nm >= 440 && nm < 490:
		g = (nm - 440) / (490 - 440)
		b = 1.0
	case nm >= 490 && nm < 510:
		g = 1.0
		b = -(nm - 510) / (510 - 490)
	case nm >= 510 && nm < 580:
		r = (nm - 510) / (580 - 510)
		g = 1.0
	case nm >= 580 && nm < 645:
		r = 1.0
		g = -(nm - 645) / (645 - 580)
	case nm >= 645 && nm <= visibleMax:
		r = 1.0
	}

	var factor float64
	switch {
	case nm >= 380 && nm < 420:
		factor = 0.3 + 0.7*(nm-380)/(420-380)
	case nm >= 420 && nm <= 700:
		factor = 1.0
	case nm > 700 && nm <= visibleMax:
		factor = 0.3 + 0.7*(visibleMax-nm)/(visibleMax-700)
	}

	out := RGB{
		R: gammaScale(r, factor, gamma, maxIntensity),
		G: gammaScale(g, factor, gamma, maxIntensity),
		B: gammaScale(b, factor, gamma, maxIntensity),
	}

	if out.R == 0 && out.G == 0 && out.B == 0 {
		return GrayFallback
	}
	return out
}

func gammaScale(channel, factor, gamma, maxIntensity float64) uint8 {
	if channel <= 0 {
		return 0
	}
	return uint8(maxIntensity * math.Pow(channel*factor, gamma))
}
