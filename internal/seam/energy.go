package seam

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// EnergyMap returns the per-pixel energy of img indexed as [y][x].
//
// For every pixel, the 3x3 Sobel operators are applied separately to the R,
// G and B channels and the absolute responses are summed:
//
//	energy = sum over c in {R,G,B} of |Gx(c)| + |Gy(c)|
//
// Rows are computed in parallel.
func EnergyMap(img *image.NRGBA) [][]float64 {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	energy := make([][]float64, height)
	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			row := make([]float64, width)
			for x := 0; x < width; x++ {
				row[x] = pixelEnergy(img, x, y, width, height)
			}
			energy[y] = row
		}
	})
	return energy
}

func pixelEnergy(img *image.NRGBA, x, y, width, height int) float64 {
	b := img.Bounds()
	var gx, gy [3]float64
	for ky := -1; ky <= 1; ky++ {
		py := clamp(y+ky, 0, height-1)
		for kx := -1; kx <= 1; kx++ {
			px := clamp(x+kx, 0, width-1)
			wx := sobelX[ky+1][kx+1]
			wy := sobelY[ky+1][kx+1]
			if wx == 0 && wy == 0 {
				continue
			}
			i := img.PixOffset(b.Min.X+px, b.Min.Y+py)
			for c := 0; c < 3; c++ {
				v := float64(img.Pix[i+c])
				gx[c] += v * wx
				gy[c] += v * wy
			}
		}
	}

	var e float64
	for c := 0; c < 3; c++ {
		e += math.Abs(gx[c]) + math.Abs(gy[c])
	}
	return e
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
