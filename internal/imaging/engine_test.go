package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ironsheep/image-proxy/internal/oplist"
)

// solidWatermark returns a fully opaque watermark of one color.
func solidWatermark(c color.NRGBA) *Watermark {
	return &Watermark{img: createInMemoryImage(WatermarkSize, WatermarkSize, c)}
}

func meanBlue(img *image.NRGBA) float64 {
	var sum float64
	for i := 2; i < len(img.Pix); i += 4 {
		sum += float64(img.Pix[i])
	}
	return sum / float64(len(img.Pix)/4)
}

func TestNewEngine_CopiesSource(t *testing.T) {
	src := createPatternImage(20, 20)
	e := NewEngine(src, nil)

	e.Apply(oplist.List{oplist.Filter{Preset: oplist.Marine}})

	if c := src.NRGBAAt(0, 0); c != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("source image modified: %v", c)
	}
	if e.mark != DefaultWatermark() {
		t.Error("nil watermark should select the default asset")
	}
}

func TestNewEngine_NormalizesOrigin(t *testing.T) {
	src := createPatternImage(40, 40).SubImage(image.Rect(20, 20, 40, 40))
	e := NewEngine(src, nil)

	b := e.Image().Bounds()
	if b.Min != (image.Point{}) || b.Dx() != 20 || b.Dy() != 20 {
		t.Errorf("bounds: got %v, want (0,0)-(20,20)", b)
	}
}

func TestDecodeEngine(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, createPatternImage(16, 8)); err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}

	e, err := DecodeEngine(buf.Bytes(), nil)
	if err != nil {
		t.Fatalf("DecodeEngine failed: %v", err)
	}
	if e.Image().Bounds().Dx() != 16 {
		t.Errorf("width: got %d, want 16", e.Image().Bounds().Dx())
	}

	if _, err := DecodeEngine([]byte("garbage"), nil); !errors.Is(err, ErrImageDecode) {
		t.Errorf("got %v, want ErrImageDecode", err)
	}
}

func TestEngine_CropClampIsIdempotent(t *testing.T) {
	src := createNoiseImage(100, 80)

	beyond := NewEngine(src, nil)
	beyond.Apply(oplist.List{oplist.Crop{X1: 10, Y1: 15, X2: 5000, Y2: 900}})

	clamped := NewEngine(src, nil)
	clamped.Apply(oplist.List{oplist.Crop{X1: 10, Y1: 15, X2: 100, Y2: 80}})

	if beyond.Image().Bounds() != clamped.Image().Bounds() {
		t.Fatalf("bounds: %v vs %v", beyond.Image().Bounds(), clamped.Image().Bounds())
	}
	if !bytes.Equal(beyond.Image().Pix, clamped.Image().Pix) {
		t.Error("crop beyond bounds differs from crop at bounds")
	}
	if got := beyond.Image().Bounds().Size(); got != image.Pt(90, 65) {
		t.Errorf("size: got %v, want (90,65)", got)
	}
}

func TestEngine_DegenerateCropIsNoop(t *testing.T) {
	src := createNoiseImage(50, 40)

	tests := []oplist.Crop{
		{X1: 20, Y1: 0, X2: 20, Y2: 40},
		{X1: 30, Y1: 0, X2: 10, Y2: 40},
		{X1: 0, Y1: 25, X2: 50, Y2: 5},
		{X1: 60, Y1: 60, X2: 70, Y2: 70},
	}

	for _, op := range tests {
		e := NewEngine(src, nil)
		e.Apply(oplist.List{op})

		if e.Image().Bounds() != src.Bounds() || !bytes.Equal(e.Image().Pix, src.Pix) {
			t.Errorf("crop %+v altered the buffer", op)
		}
	}
}

func TestEngine_FlipInvolution(t *testing.T) {
	src := createNoiseImage(31, 17)

	for _, op := range []oplist.Operation{oplist.FlipH{}, oplist.FlipV{}} {
		e := NewEngine(src, nil)

		e.Apply(oplist.List{op})
		if bytes.Equal(e.Image().Pix, src.Pix) {
			t.Errorf("%s once should change the buffer", oplist.Name(op))
		}

		e.Apply(oplist.List{op})
		if !bytes.Equal(e.Image().Pix, src.Pix) {
			t.Errorf("%s twice should restore the buffer", oplist.Name(op))
		}
	}
}

func TestEngine_FlipH(t *testing.T) {
	e := NewEngine(createPatternImage(10, 10), nil)
	e.Apply(oplist.List{oplist.FlipH{}})

	// Red moves from top-left to top-right
	if c := e.Image().NRGBAAt(9, 0); c != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("pixel: got %v, want red", c)
	}
}

func TestEngine_ResizeExactForEveryFilter(t *testing.T) {
	filters := []oplist.SampleFilter{
		oplist.Undefined, oplist.Nearest, oplist.Triangle, oplist.CatmullRom,
		oplist.Gaussian, oplist.Lanczos3, oplist.SampleFilter(99),
	}
	sizes := []image.Point{{40, 30}, {7, 91}, {200, 150}, {1, 1}}

	src := createNoiseImage(64, 48)
	for _, f := range filters {
		for _, size := range sizes {
			e := NewEngine(src, nil)
			e.Apply(oplist.List{oplist.Resize{
				Width:  uint32(size.X),
				Height: uint32(size.Y),
				Mode:   oplist.Normal,
				Filter: f,
			}})
			if got := e.Image().Bounds().Size(); got != size {
				t.Errorf("filter %v: got %v, want %v", f, got, size)
			}
		}
	}
}

func TestEngine_ZeroResizeIsNoop(t *testing.T) {
	src := createNoiseImage(30, 20)

	for _, op := range []oplist.Resize{
		{Width: 0, Height: 10},
		{Width: 10, Height: 0},
		{Width: 0, Height: 0, Mode: oplist.SeamCarve},
	} {
		e := NewEngine(src, nil)
		e.Apply(oplist.List{op})
		if !bytes.Equal(e.Image().Pix, src.Pix) {
			t.Errorf("resize %+v altered the buffer", op)
		}
	}
}

func TestEngine_OversizedResizeIsSkipped(t *testing.T) {
	src := createNoiseImage(10, 10)

	tests := []struct {
		name      string
		op        oplist.Resize
		maxPixels uint64
	}{
		{"huge default limit", oplist.Resize{Width: 1 << 20, Height: 1 << 20, Mode: oplist.Normal, Filter: oplist.Nearest}, 0},
		{"max uint32", oplist.Resize{Width: ^uint32(0), Height: ^uint32(0), Filter: oplist.Lanczos3}, 0},
		{"over custom limit", oplist.Resize{Width: 20, Height: 20}, 399},
		{"wide intermediate", oplist.Resize{Width: 100, Height: 1, Filter: oplist.Lanczos3}, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(src, nil)
			e.SetMaxPixels(tt.maxPixels)
			e.Apply(oplist.List{tt.op})
			if got := e.Image().Bounds().Size(); got != image.Pt(10, 10) {
				t.Fatalf("size: got %v, want (10,10)", got)
			}
			if !bytes.Equal(e.Image().Pix, src.Pix) {
				t.Errorf("resize %+v altered the buffer", tt.op)
			}
		})
	}
}

func TestEngine_ResizeAtLimit(t *testing.T) {
	e := NewEngine(createNoiseImage(10, 10), nil)
	e.SetMaxPixels(400)
	e.Apply(oplist.List{oplist.Resize{Width: 20, Height: 20, Filter: oplist.Triangle}})

	if got := e.Image().Bounds().Size(); got != image.Pt(20, 20) {
		t.Errorf("size: got %v, want (20,20)", got)
	}
}

func TestEngine_SeamCarveShrinkOnly(t *testing.T) {
	tests := []struct {
		name   string
		tw, th uint32
		want   image.Point
	}{
		{"shrink both", 30, 20, image.Pt(30, 20)},
		{"grow width ignored", 60, 20, image.Pt(40, 20)},
		{"grow height ignored", 25, 100, image.Pt(25, 30)},
		{"grow both ignored", 80, 80, image.Pt(40, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(createNoiseImage(40, 30), nil)
			e.Apply(oplist.List{oplist.Resize{Width: tt.tw, Height: tt.th, Mode: oplist.SeamCarve}})
			if got := e.Image().Bounds().Size(); got != tt.want {
				t.Errorf("size: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEngine_ResizeUnknownModeIsNormal(t *testing.T) {
	e := NewEngine(createNoiseImage(20, 20), nil)
	e.Apply(oplist.List{oplist.Resize{Width: 50, Height: 40, Mode: oplist.ResizeMode(7)}})

	if got := e.Image().Bounds().Size(); got != image.Pt(50, 40) {
		t.Errorf("size: got %v, want (50,40)", got)
	}
}

func TestEngine_Contrast(t *testing.T) {
	e := NewEngine(createInMemoryImage(4, 4, color.NRGBA{200, 128, 50, 255}), nil)
	e.Apply(oplist.List{oplist.Contrast{Level: 30}})

	c := e.Image().NRGBAAt(1, 1)
	if c.R <= 200 || c.B >= 50 {
		t.Errorf("pixel: got %v, want spread away from mid-gray", c)
	}
}

func TestEngine_Watermark(t *testing.T) {
	red := color.NRGBA{255, 0, 0, 255}
	white := color.NRGBA{255, 255, 255, 255}

	e := NewEngine(createInMemoryImage(100, 100, white), solidWatermark(red))
	e.Apply(oplist.List{oplist.Watermark{X: 10, Y: 20}})

	img := e.Image()
	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		{10, 20, red},
		{73, 83, red},
		{74, 84, white},
		{9, 20, white},
		{10, 19, white},
	}
	for _, tt := range tests {
		if c := img.NRGBAAt(tt.x, tt.y); c != tt.want {
			t.Errorf("pixel (%d,%d): got %v, want %v", tt.x, tt.y, c, tt.want)
		}
	}
}

func TestEngine_WatermarkIsClipped(t *testing.T) {
	red := color.NRGBA{255, 0, 0, 255}
	src := createInMemoryImage(100, 100, color.NRGBA{0, 0, 0, 255})

	e := NewEngine(src, solidWatermark(red))
	e.Apply(oplist.List{oplist.Watermark{X: 80, Y: 80}})
	if got := e.Image().Bounds().Size(); got != image.Pt(100, 100) {
		t.Fatalf("size: got %v, want (100,100)", got)
	}
	if c := e.Image().NRGBAAt(99, 99); c != red {
		t.Errorf("pixel (99,99): got %v, want red", c)
	}

	far := NewEngine(src, solidWatermark(red))
	far.Apply(oplist.List{oplist.Watermark{X: 4000000000, Y: 4000000000}})
	if !bytes.Equal(far.Image().Pix, src.Pix) {
		t.Error("watermark outside the buffer should not change it")
	}
}

func TestEngine_DefaultWatermarkChangesPixels(t *testing.T) {
	src := createInMemoryImage(100, 100, color.NRGBA{255, 255, 255, 255})

	e := NewEngine(src, nil)
	e.Apply(oplist.List{oplist.Watermark{}})

	if bytes.Equal(e.Image().Pix, src.Pix) {
		t.Error("default watermark left the buffer unchanged")
	}
	if c := e.Image().NRGBAAt(80, 80); c != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("pixel outside the watermark changed: %v", c)
	}
}

func TestEngine_ResizeThenFilterRaisesBlue(t *testing.T) {
	src := createInMemoryImage(800, 600, color.NRGBA{200, 150, 40, 255})
	before := meanBlue(src)

	e := NewEngine(src, nil)
	e.Apply(oplist.List{
		oplist.Resize{Width: 400, Height: 300, Mode: oplist.Normal, Filter: oplist.Lanczos3},
		oplist.Filter{Preset: oplist.Marine},
	})

	img := e.Image()
	if got := img.Bounds().Size(); got != image.Pt(400, 300) {
		t.Fatalf("size: got %v, want (400,300)", got)
	}
	if after := meanBlue(img); after <= before {
		t.Errorf("mean blue: got %.1f, want more than %.1f", after, before)
	}
}

func TestEngine_UnknownOperationIgnored(t *testing.T) {
	src := createNoiseImage(10, 10)

	e := NewEngine(src, nil)
	e.Apply(oplist.List{nil})

	if !bytes.Equal(e.Image().Pix, src.Pix) {
		t.Error("nil operation altered the buffer")
	}
}

func TestEngine_Finalize(t *testing.T) {
	e := NewEngine(createPatternImage(32, 24), nil)
	e.Apply(oplist.List{oplist.FlipV{}})

	data, err := e.Finalize(PNG, EncodeOptions{})
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 24 {
		t.Errorf("dimensions: got %v", img.Bounds())
	}
	// Blue moved from bottom-left to top-left
	if r, g, b, _ := img.At(0, 0).RGBA(); r != 0 || g != 0 || b>>8 != 255 {
		t.Errorf("pixel (0,0): got (%d,%d,%d), want blue", r>>8, g>>8, b>>8)
	}
}

func TestEngine_SpentAfterFinalize(t *testing.T) {
	e := NewEngine(createPatternImage(8, 8), nil)
	if _, err := e.Finalize(JPEG, EncodeOptions{}); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	calls := map[string]func(){
		"Apply":    func() { e.Apply(nil) },
		"Image":    func() { e.Image() },
		"Finalize": func() { _, _ = e.Finalize(PNG, EncodeOptions{}) },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("%s after Finalize should panic", name)
				}
			}()
			call()
		})
	}
}

func TestEngine_FinalizeUnknownFormat(t *testing.T) {
	e := NewEngine(createPatternImage(8, 8), nil)
	if _, err := e.Finalize(Format(99), EncodeOptions{}); !errors.Is(err, ErrImageEncode) {
		t.Errorf("got %v, want ErrImageEncode", err)
	}
}
