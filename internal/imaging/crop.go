package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// CropRect clamps the region (x1,y1)-(x2,y2) to bounds.
//
// Coordinates are relative to the top-left corner of bounds; x1,y1 are
// inclusive and x2,y2 exclusive. ok is false when the clamped region is
// empty, that is when x2 <= x1 or y2 <= y1 after clamping.
func CropRect(bounds image.Rectangle, x1, y1, x2, y2 uint32) (r image.Rectangle, ok bool) {
	w, h := bounds.Dx(), bounds.Dy()

	r = image.Rect(
		clampCoord(x1, w), clampCoord(y1, h),
		clampCoord(x2, w), clampCoord(y2, h),
	)
	// image.Rect canonicalizes swapped corners; a reversed region is still
	// degenerate.
	if x2 <= x1 || y2 <= y1 || r.Empty() {
		return image.Rectangle{}, false
	}
	return r.Add(bounds.Min), true
}

// Crop returns the clamped region of img, or nil if the region is empty.
func Crop(img image.Image, x1, y1, x2, y2 uint32) *image.NRGBA {
	r, ok := CropRect(img.Bounds(), x1, y1, x2, y2)
	if !ok {
		return nil
	}
	return imaging.Crop(img, r)
}

func clampCoord(v uint32, limit int) int {
	if uint64(v) > uint64(limit) {
		return limit
	}
	return int(v)
}
