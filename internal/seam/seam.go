package seam

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// FindVerticalSeam returns the lowest-energy vertical seam of img as one
// column index per row, top to bottom.
//
// The search is a dynamic program over the energy map: the cumulative cost
// of a pixel is its energy plus the cheapest of the (up to) three pixels
// above it. On equal cost the path prefers going straight, then left.
// An empty image has no seam and yields nil.
func FindVerticalSeam(img *image.NRGBA) []int {
	energy := EnergyMap(img)
	height := len(energy)
	if height == 0 || len(energy[0]) == 0 {
		return nil
	}
	width := len(energy[0])

	cost := make([][]float64, height)
	cost[0] = append([]float64(nil), energy[0]...)
	for y := 1; y < height; y++ {
		cost[y] = make([]float64, width)
		prev := cost[y-1]
		for x := 0; x < width; x++ {
			cost[y][x] = energy[y][x] + prev[cheapestAbove(prev, x)]
		}
	}

	seam := make([]int, height)
	last := cost[height-1]
	best := 0
	for x := 1; x < width; x++ {
		if last[x] < last[best] {
			best = x
		}
	}
	seam[height-1] = best

	for y := height - 1; y > 0; y-- {
		seam[y-1] = cheapestAbove(cost[y-1], seam[y])
	}
	return seam
}

// cheapestAbove picks the parent column of x in the previous cost row.
func cheapestAbove(prev []float64, x int) int {
	best := x
	if x > 0 && prev[x-1] < prev[best] {
		best = x - 1
	}
	if x < len(prev)-1 && prev[x+1] < prev[best] {
		best = x + 1
	}
	return best
}

// RemoveVerticalSeam returns a copy of img without the pixels on seam,
// one per row. Pixels right of the seam shift left to close the gap, so the
// result is one pixel narrower and equally tall.
//
// It panics if seam does not have one in-bounds column per row.
func RemoveVerticalSeam(img *image.NRGBA, seam []int) *image.NRGBA {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if len(seam) != height {
		panic(fmt.Sprintf("seam: seam length %d does not match image height %d", len(seam), height))
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width-1, height))
	for y, sx := range seam {
		if sx < 0 || sx >= width {
			panic(fmt.Sprintf("seam: column %d out of range at row %d", sx, y))
		}
		i := img.PixOffset(b.Min.X, b.Min.Y+y)
		src := img.Pix[i : i+width*4]
		row := dst.Pix[y*dst.Stride : y*dst.Stride+(width-1)*4]

		copy(row[:sx*4], src[:sx*4])
		copy(row[sx*4:], src[(sx+1)*4:])
	}
	return dst
}

// Carve shrinks img toward targetWidth x targetHeight by seam removal.
//
// Carving only ever shrinks: an axis whose target is not smaller than the
// current size is left unchanged. Each seam is found and removed on the
// image left by the previous removal. Neither axis drops below one pixel.
func Carve(img *image.NRGBA, targetWidth, targetHeight int) *image.NRGBA {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return img
	}

	diffW := min(width-min(width, targetWidth), width-1)
	diffH := min(height-min(height, targetHeight), height-1)

	out := img
	out = removeSeams(out, diffW)
	if diffH > 0 {
		out = imaging.Rotate90(out)
		out = removeSeams(out, diffH)
		out = imaging.Rotate270(out)
	}
	return out
}

func removeSeams(img *image.NRGBA, n int) *image.NRGBA {
	for i := 0; i < n; i++ {
		img = RemoveVerticalSeam(img, FindVerticalSeam(img))
	}
	return img
}
