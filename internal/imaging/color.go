package imaging

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-proxy/internal/oplist"
)

// RGBColor represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// Hex returns the color as "#RRGGBB".
func (c RGBColor) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// FilterOpacity is the fixed blend opacity of every tint preset.
const FilterOpacity = 0.2

// Tint colors of the filter presets. Unspecified shares the Oceanic tint.
var presetTints = map[oplist.FilterPreset]RGBColor{
	oplist.Unspecified: mustHex("#0059AD"),
	oplist.Oceanic:     mustHex("#0059AD"),
	oplist.Islands:     mustHex("#00185F"),
	oplist.Marine:      mustHex("#000E77"),
}

// PresetTint returns the tint color for a filter preset. Unknown presets fall
// back to the Oceanic tint.
func PresetTint(p oplist.FilterPreset) RGBColor {
	if c, ok := presetTints[p]; ok {
		return c
	}
	return presetTints[oplist.Oceanic]
}

func mustHex(s string) RGBColor {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("imaging: bad preset color %q: %v", s, err))
	}
	r, g, b := c.RGB255()
	return RGBColor{R: r, G: g, B: b}
}
