package imaging

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/disintegration/imaging"
)

// WatermarkSize is the edge length of the square watermark asset.
const WatermarkSize = 64

//go:embed assets/watermark.png
var defaultWatermarkPNG []byte

// Watermark is the fixed logo composited by the watermark operation.
//
// A Watermark is created once at startup and shared read-only by every
// request; it has no mutating methods.
type Watermark struct {
	img *image.NRGBA
}

// Image returns the asset. Callers must not modify it.
func (w *Watermark) Image() image.Image {
	return w.img
}

var defaultWatermark = sync.OnceValue(func() *Watermark {
	w, err := decodeWatermark(defaultWatermarkPNG)
	if err != nil {
		panic(fmt.Sprintf("imaging: embedded watermark is unreadable: %v", err))
	}
	return w
})

// DefaultWatermark returns the embedded logo, decoded on first use.
func DefaultWatermark() *Watermark {
	return defaultWatermark()
}

// LoadWatermark reads an operator-supplied logo from path and scales it to
// WatermarkSize x WatermarkSize.
func LoadWatermark(path string) (*Watermark, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read watermark: %w", err)
	}
	w, err := decodeWatermark(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode watermark %s: %w", path, err)
	}
	return w, nil
}

func decodeWatermark(data []byte) (*Watermark, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &Watermark{
		img: imaging.Resize(img, WatermarkSize, WatermarkSize, imaging.NearestNeighbor),
	}, nil
}
