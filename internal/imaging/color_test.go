package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/image-proxy/internal/oplist"
)

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with different colors in each quadrant
func createPatternImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestPresetTint(t *testing.T) {
	tests := []struct {
		preset oplist.FilterPreset
		want   RGBColor
	}{
		{oplist.Oceanic, RGBColor{0, 89, 173}},
		{oplist.Islands, RGBColor{0, 24, 95}},
		{oplist.Marine, RGBColor{0, 14, 119}},
		{oplist.Unspecified, RGBColor{0, 89, 173}},
		{oplist.FilterPreset(42), RGBColor{0, 89, 173}},
	}

	for _, tt := range tests {
		t.Run(tt.preset.String(), func(t *testing.T) {
			if got := PresetTint(tt.preset); got != tt.want {
				t.Errorf("PresetTint(%v): got %+v, want %+v", tt.preset, got, tt.want)
			}
		})
	}
}

func TestRGBColor_Hex(t *testing.T) {
	tests := []struct {
		c    RGBColor
		want string
	}{
		{RGBColor{0, 0, 0}, "#000000"},
		{RGBColor{255, 128, 64}, "#FF8040"},
		{RGBColor{0, 14, 119}, "#000E77"},
	}

	for _, tt := range tests {
		if got := tt.c.Hex(); got != tt.want {
			t.Errorf("Hex(%+v): got %s, want %s", tt.c, got, tt.want)
		}
	}
}

func TestMustHex_PanicsOnGarbage(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("mustHex should panic on an invalid color")
		}
	}()
	mustHex("not-a-color")
}
