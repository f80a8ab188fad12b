package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

var (
	// ErrImageDecode means fetched bytes are not a supported image.
	ErrImageDecode = errors.New("failed to decode image")
	// ErrImageEncode means the transformed buffer could not be encoded.
	ErrImageEncode = errors.New("failed to encode image")
)

// Format is an output container format.
type Format int

// Output formats.
const (
	JPEG Format = iota
	PNG
	GIF
	TIFF
	BMP
)

var formatInfo = map[Format]struct {
	name        string
	contentType string
	codec       imaging.Format
}{
	JPEG: {"jpeg", "image/jpeg", imaging.JPEG},
	PNG:  {"png", "image/png", imaging.PNG},
	GIF:  {"gif", "image/gif", imaging.GIF},
	TIFF: {"tiff", "image/tiff", imaging.TIFF},
	BMP:  {"bmp", "image/bmp", imaging.BMP},
}

// ParseFormat resolves a format name such as "jpeg", "jpg", "png" or "tiff".
func ParseFormat(name string) (Format, error) {
	codec, err := imaging.FormatFromExtension(strings.TrimSpace(name))
	if err != nil {
		return 0, fmt.Errorf("unknown output format %q", name)
	}
	for f, info := range formatInfo {
		if info.codec == codec {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown output format %q", name)
}

func (f Format) String() string {
	return formatInfo[f].name
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	return formatInfo[f].contentType
}

// HasAlpha reports whether f can carry an alpha channel.
func (f Format) HasAlpha() bool {
	return f != JPEG
}

// Decode parses an encoded source image. JPEG, PNG, GIF, TIFF, BMP and WebP
// are supported; EXIF orientation is applied.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageDecode, err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrImageDecode)
	}
	return img, nil
}

// EncodeOptions tunes Encode.
type EncodeOptions struct {
	// JPEGQuality ranges from 1 to 100. Zero selects the library default.
	JPEGQuality int
}

// Encode writes img in format f. Formats without alpha receive an opaque
// copy: alpha is discarded and the color channels are kept as they are.
func Encode(img *image.NRGBA, f Format, opts EncodeOptions) ([]byte, error) {
	info, ok := formatInfo[f]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported format %d", ErrImageEncode, int(f))
	}

	var src image.Image = img
	if !f.HasAlpha() {
		src = flatten(img)
	}

	var encOpts []imaging.EncodeOption
	if opts.JPEGQuality > 0 {
		encOpts = append(encOpts, imaging.JPEGQuality(opts.JPEGQuality))
	}

	var buf bytes.Buffer
	buf.Grow(1024)
	if err := imaging.Encode(&buf, src, info.codec, encOpts...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageEncode, err)
	}
	return buf.Bytes(), nil
}

// flatten returns an opaque copy of img with alpha forced to 255.
func flatten(img *image.NRGBA) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
