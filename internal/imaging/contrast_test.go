package imaging

import (
	"bytes"
	"image/color"
	"math"
	"testing"
)

func TestContrastLUT_ZeroIsIdentity(t *testing.T) {
	lut := contrastLUT(0)
	for i, v := range lut {
		if int(v) != i {
			t.Fatalf("lut[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestContrastLUT_Monotonic(t *testing.T) {
	for _, level := range []float64{-100, -50, -10, 0, 10, 50, 200} {
		lut := contrastLUT(level)
		for i := 1; i < len(lut); i++ {
			if lut[i] < lut[i-1] {
				t.Fatalf("level %v: lut not monotonic at %d (%d < %d)", level, i, lut[i], lut[i-1])
			}
		}
	}
}

func TestContrastLUT_Direction(t *testing.T) {
	up := contrastLUT(50)
	down := contrastLUT(-50)

	if up[50] >= 50 || up[200] <= 200 {
		t.Errorf("positive level should spread values: lut[50]=%d lut[200]=%d", up[50], up[200])
	}
	if down[50] <= 50 || down[200] >= 200 {
		t.Errorf("negative level should compress values: lut[50]=%d lut[200]=%d", down[50], down[200])
	}
}

func TestContrastLUT_Extremes(t *testing.T) {
	flat := contrastLUT(-100)
	for i, v := range flat {
		if v != 128 && v != 127 {
			t.Fatalf("level -100: lut[%d] = %d, want mid-gray", i, v)
		}
	}

	if below := contrastLUT(-500); below != flat {
		t.Error("levels below -100 should clamp to -100")
	}
	if nan := contrastLUT(math.NaN()); nan != contrastLUT(0) {
		t.Error("NaN level should behave as 0")
	}

	hard := contrastLUT(1000)
	if hard[0] != 0 || hard[255] != 255 || hard[100] != 0 || hard[160] != 255 {
		t.Errorf("large level should saturate: %d %d %d %d", hard[0], hard[100], hard[160], hard[255])
	}
}

func TestAdjustContrast_KeepsAlpha(t *testing.T) {
	img := createInMemoryImage(8, 8, color.NRGBA{200, 100, 50, 77})

	out := AdjustContrast(img, 40)

	c := out.NRGBAAt(3, 3)
	if c.A != 77 {
		t.Errorf("alpha: got %d, want 77", c.A)
	}
	if c.R <= 200 || c.B >= 50 {
		t.Errorf("contrast not applied: got %v", c)
	}
}

func TestAdjustContrast_ZeroLeavesPixels(t *testing.T) {
	img := createNoiseImage(20, 20)

	out := AdjustContrast(img, 0)

	if !bytes.Equal(out.Pix, img.Pix) {
		t.Error("AdjustContrast(0) changed pixel data")
	}
}
