package oplist

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrDecode is returned for malformed base64 or malformed message framing.
var ErrDecode = errors.New("invalid operation list")

const fieldSpecs protowire.Number = 1

// oneof members of Spec.
const (
	fieldResize    protowire.Number = 1
	fieldCrop      protowire.Number = 2
	fieldFlipV     protowire.Number = 3
	fieldFlipH     protowire.Number = 4
	fieldContrast  protowire.Number = 5
	fieldFilter    protowire.Number = 6
	fieldWatermark protowire.Number = 7
)

// Encode returns the transport form of l.
func Encode(l List) string {
	return base64.RawURLEncoding.EncodeToString(Marshal(l))
}

// Decode parses the transport form produced by Encode.
func Decode(s string) (List, error) {
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %w", ErrDecode, err)
	}
	return Unmarshal(data)
}

// Marshal returns the binary ImageSpec message for l.
func Marshal(l List) []byte {
	var b []byte
	for _, op := range l {
		num, body, ok := marshalOperation(op)
		if !ok {
			continue
		}
		spec := protowire.AppendTag(nil, num, protowire.BytesType)
		spec = protowire.AppendBytes(spec, body)

		b = protowire.AppendTag(b, fieldSpecs, protowire.BytesType)
		b = protowire.AppendBytes(b, spec)
	}
	return b
}

func marshalOperation(op Operation) (protowire.Number, []byte, bool) {
	switch v := op.(type) {
	case Resize:
		var b []byte
		b = appendVarint(b, 1, uint64(v.Width))
		b = appendVarint(b, 2, uint64(v.Height))
		b = appendVarint(b, 3, uint64(int64(v.Mode)))
		b = appendVarint(b, 4, uint64(int64(v.Filter)))
		return fieldResize, b, true
	case Crop:
		var b []byte
		b = appendVarint(b, 1, uint64(v.X1))
		b = appendVarint(b, 2, uint64(v.Y1))
		b = appendVarint(b, 3, uint64(v.X2))
		b = appendVarint(b, 4, uint64(v.Y2))
		return fieldCrop, b, true
	case FlipV:
		return fieldFlipV, nil, true
	case FlipH:
		return fieldFlipH, nil, true
	case Contrast:
		var b []byte
		if bits := math.Float32bits(v.Level); bits != 0 {
			b = protowire.AppendTag(b, 1, protowire.Fixed32Type)
			b = protowire.AppendFixed32(b, bits)
		}
		return fieldContrast, b, true
	case Filter:
		return fieldFilter, appendVarint(nil, 1, uint64(int64(v.Preset))), true
	case Watermark:
		var b []byte
		b = appendVarint(b, 1, uint64(v.X))
		b = appendVarint(b, 2, uint64(v.Y))
		return fieldWatermark, b, true
	default:
		return 0, nil, false
	}
}

// appendVarint appends a proto3 scalar field, omitting the zero value.
func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// Unmarshal parses a binary ImageSpec message.
func Unmarshal(b []byte) (List, error) {
	var l List
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, framingError(n)
		}
		b = b[n:]

		if num == fieldSpecs && typ == protowire.BytesType {
			spec, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, framingError(n)
			}
			b = b[n:]

			op, err := unmarshalSpec(spec)
			if err != nil {
				return nil, err
			}
			if op != nil {
				l = append(l, op)
			}
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return nil, framingError(n)
		}
		b = b[n:]
	}
	return l, nil
}

// unmarshalSpec decodes one Spec. A Spec without a known oneof member yields
// a nil Operation. When several members are present the last one wins.
func unmarshalSpec(b []byte) (Operation, error) {
	var op Operation
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, framingError(n)
		}
		b = b[n:]

		if typ != protowire.BytesType || num < fieldResize || num > fieldWatermark {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, framingError(n)
			}
			b = b[n:]
			continue
		}

		body, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, framingError(n)
		}
		b = b[n:]

		f, err := parseScalars(body)
		if err != nil {
			return nil, err
		}
		switch num {
		case fieldResize:
			op = Resize{
				Width:  f.uint32(1),
				Height: f.uint32(2),
				Mode:   ResizeMode(f.int32(3)),
				Filter: SampleFilter(f.int32(4)),
			}
		case fieldCrop:
			op = Crop{X1: f.uint32(1), Y1: f.uint32(2), X2: f.uint32(3), Y2: f.uint32(4)}
		case fieldFlipV:
			op = FlipV{}
		case fieldFlipH:
			op = FlipH{}
		case fieldContrast:
			op = Contrast{Level: f.float32(1)}
		case fieldFilter:
			op = Filter{Preset: FilterPreset(f.int32(1))}
		case fieldWatermark:
			op = Watermark{X: f.uint32(1), Y: f.uint32(2)}
		}
	}
	return op, nil
}

type scalar struct {
	typ protowire.Type
	v   uint64
}

// scalars holds the varint and fixed32 fields of a flat message.
type scalars map[protowire.Number]scalar

func parseScalars(b []byte) (scalars, error) {
	out := scalars{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, framingError(n)
		}
		b = b[n:]

		switch typ {
		case protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			out[num] = scalar{typ: typ, v: v}
		case protowire.Fixed32Type:
			var v uint32
			v, n = protowire.ConsumeFixed32(b)
			out[num] = scalar{typ: typ, v: uint64(v)}
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return nil, framingError(n)
		}
		b = b[n:]
	}
	return out, nil
}

func (s scalars) uint32(num protowire.Number) uint32 {
	if f, ok := s[num]; ok && f.typ == protowire.VarintType {
		return uint32(f.v)
	}
	return 0
}

func (s scalars) int32(num protowire.Number) int32 {
	if f, ok := s[num]; ok && f.typ == protowire.VarintType {
		return int32(f.v)
	}
	return 0
}

func (s scalars) float32(num protowire.Number) float32 {
	if f, ok := s[num]; ok && f.typ == protowire.Fixed32Type {
		return math.Float32frombits(uint32(f.v))
	}
	return 0
}

func framingError(n int) error {
	return fmt.Errorf("%w: %w", ErrDecode, protowire.ParseError(n))
}
