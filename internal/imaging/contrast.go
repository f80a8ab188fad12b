package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/math/f64"
	"github.com/disintegration/imaging"
)

// minContrastLevel is the lowest meaningful level: it maps every channel to
// mid-gray. Lower levels are clamped so the operator stays monotonic.
const minContrastLevel = -100.0

// AdjustContrast returns a copy of img with its contrast changed by level.
//
// Level is a percentage. The channel transform is
//
//	f   = ((100 + level) / 100)^2
//	new = clamp(((old/255 - 0.5) * f + 0.5) * 255, 0, 255)
//
// rounded to the nearest integer and applied to R, G and B through a lookup
// table; alpha is untouched. Level 0 is the identity, positive levels spread
// values away from mid-gray and negative levels pull them toward it. NaN is
// treated as 0.
func AdjustContrast(img image.Image, level float64) *image.NRGBA {
	lut := contrastLUT(level)
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: lut[c.R], G: lut[c.G], B: lut[c.B], A: c.A}
	})
}

func contrastLUT(level float64) [256]uint8 {
	if math.IsNaN(level) {
		level = 0
	}
	level = math.Max(level, minContrastLevel)
	factor := math.Pow((100+level)/100, 2)

	var lut [256]uint8
	for i := range lut {
		v := ((float64(i)/255-0.5)*factor + 0.5) * 255
		lut[i] = uint8(f64.Clamp(math.Round(v), 0, 255))
	}
	return lut
}
