// Package imaging implements the transform engine of the image proxy.
//
// An Engine owns one RGBA8 buffer decoded from a source image and applies an
// oplist.List to it in order: crop, resize (resampled or seam-carved),
// contrast, tint filter, flips and watermark. Finalize encodes the result in
// the configured output format.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Failure Policy
//
// Operations never fail. Regions are clamped to the buffer, degenerate crops
// and zero-size resizes are skipped, unknown sample filters fall back to
// nearest-neighbour and unknown filter presets to the Oceanic tint. The only
// errors are ErrImageDecode from Decode and ErrImageEncode from Encode.
//
// # Thread Safety
//
// An Engine belongs to one goroutine. The Watermark asset is read-only and
// shared by every engine.
package imaging
