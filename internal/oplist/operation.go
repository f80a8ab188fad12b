package oplist

import "fmt"

// List is an ordered sequence of operations.
type List []Operation

// Operation is one pixel transform instruction.
//
// The interface is sealed: only the types declared in this package implement
// it, so a type switch over them is exhaustive.
type Operation interface {
	isOperation()
}

// Crop keeps the rectangle [X1,Y1)-[X2,Y2).
//
//	Crop { uint32 x1 = 1; uint32 y1 = 2; uint32 x2 = 3; uint32 y2 = 4; }
type Crop struct {
	X1 uint32
	Y1 uint32
	X2 uint32
	Y2 uint32
}

// Resize changes the canvas to Width x Height.
//
//	Resize { uint32 width = 1; uint32 height = 2; ResizeType rtype = 3; SampleFilter filter = 4; }
type Resize struct {
	Width  uint32
	Height uint32
	Mode   ResizeMode
	Filter SampleFilter
}

// Contrast adjusts global contrast. Level is a percentage; 0 leaves the
// image unchanged.
//
//	Contrast { float contrast = 1; }
type Contrast struct {
	Level float32
}

// Filter blends the image with a fixed tint.
//
//	Filter { Filter filter = 1; }
type Filter struct {
	Preset FilterPreset
}

// FlipH mirrors the image left to right.
type FlipH struct{}

// FlipV mirrors the image top to bottom.
type FlipV struct{}

// Watermark composites the watermark asset with its top-left corner at (X, Y).
//
//	Watermark { uint32 x = 1; uint32 y = 2; }
type Watermark struct {
	X uint32
	Y uint32
}

func (Crop) isOperation()      {}
func (Resize) isOperation()    {}
func (Contrast) isOperation()  {}
func (Filter) isOperation()    {}
func (FlipH) isOperation()     {}
func (FlipV) isOperation()     {}
func (Watermark) isOperation() {}

// ResizeMode selects the resize algorithm.
type ResizeMode int32

const (
	// Normal resamples the whole image with a filter kernel.
	Normal ResizeMode = 0
	// SeamCarve shrinks by removing low-energy seams. It never enlarges.
	SeamCarve ResizeMode = 1
)

func (m ResizeMode) String() string {
	switch m {
	case Normal:
		return "normal"
	case SeamCarve:
		return "seam_carve"
	default:
		return fmt.Sprintf("ResizeMode(%d)", int32(m))
	}
}

// SampleFilter selects the resampling kernel for a Normal resize.
type SampleFilter int32

const (
	// Undefined leaves the choice to the engine, which uses nearest-neighbour.
	Undefined SampleFilter = 0
	// Nearest copies the closest source pixel.
	Nearest SampleFilter = 1
	// Triangle is bilinear interpolation.
	Triangle SampleFilter = 2
	// CatmullRom is a sharp cubic spline.
	CatmullRom SampleFilter = 3
	// Gaussian is a soft Gaussian kernel.
	Gaussian SampleFilter = 4
	// Lanczos3 is the three-lobe Lanczos kernel.
	Lanczos3 SampleFilter = 5
)

var sampleFilterNames = map[SampleFilter]string{
	Undefined:  "undefined",
	Nearest:    "nearest",
	Triangle:   "triangle",
	CatmullRom: "catmull_rom",
	Gaussian:   "gaussian",
	Lanczos3:   "lanczos3",
}

func (f SampleFilter) String() string {
	if name, ok := sampleFilterNames[f]; ok {
		return name
	}
	return fmt.Sprintf("SampleFilter(%d)", int32(f))
}

// FilterPreset names a fixed tint color.
type FilterPreset int32

const (
	// Unspecified tints like Oceanic.
	Unspecified FilterPreset = 0
	// Oceanic is a mid blue, #0059ad.
	Oceanic FilterPreset = 1
	// Islands is a deep navy, #00185f.
	Islands FilterPreset = 2
	// Marine is a dark ultramarine, #000e77.
	Marine FilterPreset = 3
)

var filterPresetNames = map[FilterPreset]string{
	Unspecified: "unspecified",
	Oceanic:     "oceanic",
	Islands:     "islands",
	Marine:      "marine",
}

func (p FilterPreset) String() string {
	if name, ok := filterPresetNames[p]; ok {
		return name
	}
	return fmt.Sprintf("FilterPreset(%d)", int32(p))
}

// Name returns a short lowercase name for an operation, used in logs.
func Name(op Operation) string {
	switch op.(type) {
	case Crop:
		return "crop"
	case Resize:
		return "resize"
	case Contrast:
		return "contrast"
	case Filter:
		return "filter"
	case FlipH:
		return "fliph"
	case FlipV:
		return "flipv"
	case Watermark:
		return "watermark"
	default:
		return "unknown"
	}
}

// Names returns the operation names of l in order.
func (l List) Names() []string {
	names := make([]string, len(l))
	for i, op := range l {
		names[i] = Name(op)
	}
	return names
}
