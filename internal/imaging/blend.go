package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/math/f64"
	"github.com/anthonynsimon/bild/parallel"
)

// Blend mixes every pixel of img with a solid tint, in place.
//
// For each of the R, G and B channels:
//
//	new = round(tint*opacity + old*(1-opacity))
//
// clamped to [0,255]. Opacity is clamped to [0,1] first. Alpha is never
// modified, so opacity 0 is the identity and opacity 1 sets every color
// channel to the tint exactly.
//
// Only *image.NRGBA buffers expose their color channels directly; any other
// backing type is left untouched.
func Blend(img image.Image, tint RGBColor, opacity float64) {
	dst, ok := img.(*image.NRGBA)
	if !ok {
		return
	}

	opacity = f64.Clamp(opacity, 0, 1)
	factor := 1 - opacity
	offR := float64(tint.R) * opacity
	offG := float64(tint.G) * opacity
	offB := float64(tint.B) * opacity

	b := dst.Bounds()
	width := b.Dx()
	parallel.Line(b.Dy(), func(start, end int) {
		for y := start; y < end; y++ {
			i := dst.PixOffset(b.Min.X, b.Min.Y+y)
			row := dst.Pix[i : i+width*4 : i+width*4]
			for x := 0; x < len(row); x += 4 {
				row[x+0] = blendChannel(offR, row[x+0], factor)
				row[x+1] = blendChannel(offG, row[x+1], factor)
				row[x+2] = blendChannel(offB, row[x+2], factor)
			}
		}
	})
}

func blendChannel(offset float64, old uint8, factor float64) uint8 {
	return uint8(f64.Clamp(math.Round(offset+float64(old)*factor), 0, 255))
}
