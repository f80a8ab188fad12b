package imaging

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-proxy/internal/oplist"
	"github.com/ironsheep/image-proxy/internal/seam"
)

// resampleFilters maps wire sample filters to resampling kernels.
var resampleFilters = map[oplist.SampleFilter]imaging.ResampleFilter{
	oplist.Nearest:    imaging.NearestNeighbor,
	oplist.Triangle:   imaging.Linear,
	oplist.CatmullRom: imaging.CatmullRom,
	oplist.Gaussian:   imaging.Gaussian,
	oplist.Lanczos3:   imaging.Lanczos,
}

// ResampleFilter returns the kernel for f. Undefined and unknown filters
// fall back to nearest-neighbour.
func ResampleFilter(f oplist.SampleFilter) imaging.ResampleFilter {
	if k, ok := resampleFilters[f]; ok {
		return k
	}
	return imaging.NearestNeighbor
}

// Engine applies operation lists to one owned RGBA8 buffer.
//
// An Engine is used by a single goroutine for a single request. Operations
// never fail. Out-of-range parameters are clamped or ignored, and the buffer
// always stays at least 1x1. Finalize consumes the engine; any
// call after it panics.
type Engine struct {
	buf       *image.NRGBA
	mark      *Watermark
	maxPixels uint64
	spent     bool
}

// DefaultMaxPixels is the largest buffer, in pixels, a Resize may allocate
// unless SetMaxPixels says otherwise.
const DefaultMaxPixels = 50_000_000

// NewEngine copies img into a fresh buffer. A nil mark selects
// DefaultWatermark.
func NewEngine(img image.Image, mark *Watermark) *Engine {
	if mark == nil {
		mark = DefaultWatermark()
	}
	return &Engine{
		buf:       imaging.Clone(img),
		mark:      mark,
		maxPixels: DefaultMaxPixels,
	}
}

// DecodeEngine decodes an encoded source image and wraps it in an Engine.
// Errors wrap ErrImageDecode.
func DecodeEngine(data []byte, mark *Watermark) (*Engine, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return NewEngine(img, mark), nil
}

// SetMaxPixels sets the largest buffer a Resize may allocate. Resizes past
// it are skipped. Zero restores DefaultMaxPixels.
func (e *Engine) SetMaxPixels(n uint64) {
	if n == 0 {
		n = DefaultMaxPixels
	}
	e.maxPixels = n
}

// Image returns the current buffer. Callers must not keep it across Apply.
func (e *Engine) Image() *image.NRGBA {
	e.checkLive("Image")
	return e.buf
}

// Apply runs ops in order against the buffer.
func (e *Engine) Apply(ops oplist.List) {
	e.checkLive("Apply")
	for _, op := range ops {
		e.apply(op)
	}
}

func (e *Engine) apply(op oplist.Operation) {
	switch op := op.(type) {
	case oplist.Crop:
		if cropped := Crop(e.buf, op.X1, op.Y1, op.X2, op.Y2); cropped != nil {
			e.buf = cropped
		}
	case oplist.Resize:
		e.resize(op)
	case oplist.Contrast:
		e.buf = AdjustContrast(e.buf, float64(op.Level))
	case oplist.Filter:
		Blend(e.buf, PresetTint(op.Preset), FilterOpacity)
	case oplist.FlipH:
		e.buf = imaging.FlipH(e.buf)
	case oplist.FlipV:
		e.buf = imaging.FlipV(e.buf)
	case oplist.Watermark:
		e.buf = imaging.Overlay(e.buf, e.mark.img, image.Pt(clampCoord(op.X, maxOffset), clampCoord(op.Y, maxOffset)), 1.0)
	}
}

// maxOffset bounds watermark offsets so they stay representable on 32-bit
// platforms. Any offset past the buffer is clipped away anyway.
const maxOffset = 1 << 30

func (e *Engine) resize(op oplist.Resize) {
	// A zero target would leave an empty buffer.
	if op.Width == 0 || op.Height == 0 {
		return
	}

	if op.Mode == oplist.SeamCarve {
		// Carving only shrinks, so the target never allocates.
		e.buf = seam.Carve(e.buf, int(op.Width), int(op.Height))
		return
	}
	if !e.resizeFits(uint64(op.Width), uint64(op.Height)) {
		return
	}
	e.buf = imaging.Resize(e.buf, int(op.Width), int(op.Height), ResampleFilter(op.Filter))
}

// resizeFits reports whether a w x h resize stays within maxPixels. Resize
// scales horizontally first, so the w x (current height) intermediate counts
// too.
func (e *Engine) resizeFits(w, h uint64) bool {
	curH := uint64(e.buf.Bounds().Dy())
	return w*h <= e.maxPixels && w*curH <= e.maxPixels
}

// Finalize encodes the buffer in format f and releases it. The engine is
// spent afterwards. Errors wrap ErrImageEncode.
func (e *Engine) Finalize(f Format, opts EncodeOptions) ([]byte, error) {
	e.checkLive("Finalize")
	buf := e.buf
	e.buf = nil
	e.spent = true
	return Encode(buf, f, opts)
}

func (e *Engine) checkLive(method string) {
	if e.spent {
		panic("imaging: Engine." + method + " called after Finalize")
	}
}
