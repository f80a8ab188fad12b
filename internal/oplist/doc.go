// Package oplist defines the ordered list of pixel operations carried in an
// image request and its compact transport encoding.
//
// An operation list is applied strictly left to right: the output of one
// operation is the input of the next. The set of operations is closed; every
// concrete Operation type lives in this package.
//
// # Wire Format
//
// A list travels as URL-safe, unpadded base64 of a protobuf-framed message:
//
//	ImageSpec { repeated Spec specs = 1; }
//	Spec      { oneof data { Resize resize = 1; Crop crop = 2; Flipv flipv = 3;
//	                         Fliph fliph = 4; Contrast contrast = 5;
//	                         Filter filter = 6; Watermark watermark = 7; } }
//
// Field layouts of the individual messages are documented on the types.
// Decoding follows proto3 rules: omitted fields are zero, unknown fields are
// skipped, and a Spec whose oneof is empty or unknown is dropped.
//
// # Parameter Errors
//
// Operations carry raw parameters. Out-of-range coordinates and unknown enum
// values are not rejected here; the transform engine degrades them to a no-op
// or a default when the list is applied.
package oplist
