package oplist

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// jsonOperation is the readable form of an Operation used by command-line
// tooling: {"op": "resize", "width": 400, "height": 300, "filter": "lanczos3"}.
type jsonOperation struct {
	Op     string  `json:"op"`
	X1     uint32  `json:"x1,omitempty"`
	Y1     uint32  `json:"y1,omitempty"`
	X2     uint32  `json:"x2,omitempty"`
	Y2     uint32  `json:"y2,omitempty"`
	Width  uint32  `json:"width,omitempty"`
	Height uint32  `json:"height,omitempty"`
	Mode   string  `json:"mode,omitempty"`
	Filter string  `json:"filter,omitempty"`
	Level  float32 `json:"level,omitempty"`
	Preset string  `json:"preset,omitempty"`
	X      uint32  `json:"x,omitempty"`
	Y      uint32  `json:"y,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (l List) MarshalJSON() ([]byte, error) {
	out := make([]jsonOperation, 0, len(l))
	for _, op := range l {
		j := jsonOperation{Op: Name(op)}
		switch v := op.(type) {
		case Crop:
			j.X1, j.Y1, j.X2, j.Y2 = v.X1, v.Y1, v.X2, v.Y2
		case Resize:
			j.Width, j.Height = v.Width, v.Height
			j.Mode = v.Mode.String()
			j.Filter = v.Filter.String()
		case Contrast:
			j.Level = v.Level
		case Filter:
			j.Preset = v.Preset.String()
		case Watermark:
			j.X, j.Y = v.X, v.Y
		case FlipH, FlipV:
		default:
			return nil, fmt.Errorf("cannot marshal operation %T", op)
		}
		out = append(out, j)
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *List) UnmarshalJSON(data []byte) error {
	var in []jsonOperation
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	ops := make(List, 0, len(in))
	for i, j := range in {
		op, err := j.operation()
		if err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
		ops = append(ops, op)
	}
	*l = ops
	return nil
}

func (j jsonOperation) operation() (Operation, error) {
	switch j.Op {
	case "crop":
		return Crop{X1: j.X1, Y1: j.Y1, X2: j.X2, Y2: j.Y2}, nil
	case "resize":
		mode, err := parseResizeMode(j.Mode)
		if err != nil {
			return nil, err
		}
		filter, err := lookupName(sampleFilterNames, j.Filter, "SampleFilter")
		if err != nil {
			return nil, err
		}
		return Resize{Width: j.Width, Height: j.Height, Mode: mode, Filter: filter}, nil
	case "contrast":
		return Contrast{Level: j.Level}, nil
	case "filter":
		preset, err := lookupName(filterPresetNames, j.Preset, "FilterPreset")
		if err != nil {
			return nil, err
		}
		return Filter{Preset: preset}, nil
	case "fliph":
		return FlipH{}, nil
	case "flipv":
		return FlipV{}, nil
	case "watermark":
		return Watermark{X: j.X, Y: j.Y}, nil
	default:
		return nil, fmt.Errorf("unknown op %q", j.Op)
	}
}

func parseResizeMode(s string) (ResizeMode, error) {
	switch s {
	case "", "normal":
		return Normal, nil
	case "seam_carve":
		return SeamCarve, nil
	}
	if n, ok := parseNumbered(s, "ResizeMode"); ok {
		return ResizeMode(n), nil
	}
	return 0, fmt.Errorf("unknown ResizeMode %q", s)
}

// lookupName resolves an enum name; the empty string is the zero value.
// Values without a name use the TypeName(N) form their String method prints.
func lookupName[T ~int32](names map[T]string, s, typeName string) (T, error) {
	if s == "" {
		return 0, nil
	}
	for v, name := range names {
		if name == s {
			return v, nil
		}
	}
	if n, ok := parseNumbered(s, typeName); ok {
		return T(n), nil
	}
	return 0, fmt.Errorf("unknown %s %q", typeName, s)
}

// parseNumbered parses "typeName(N)".
func parseNumbered(s, typeName string) (int32, bool) {
	inner, ok := strings.CutPrefix(s, typeName+"(")
	if !ok {
		return 0, false
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(inner, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}
