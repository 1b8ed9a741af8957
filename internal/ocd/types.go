// Package ocd encodes a map model into the binary OCD file format.
//
// The format exists in several incompatible versions. Versions 8-12 are
// encoded natively, sharing the components of this package through a
// per-version traits value; the OCAD 6/7 era format is delegated to an
// external legacy encoder. All multi-byte fields are little-endian.
package ocd

// Vendor mark at file offset 0.
const vendorMark = 0x0CAD

// File types stored in the header.
const (
	typeMap   = 0
	typeMapV8 = 2
)

// Symbol record types.
const (
	symbolTypePoint = 1
	symbolTypeLine  = 2
	symbolTypeArea  = 3
	symbolTypeText  = 4
)

// Symbol status bits.
const (
	symbolProtected = 1
	symbolHidden    = 2
)

// Area symbol hatch modes.
const (
	hatchNone = iota
	hatchSingle
	hatchCross
)

// Area symbol structure (point pattern) modes.
const (
	structureNone = iota
	structureAlignedRows
	structureShiftedRows
)

// Pattern element types.
const (
	elementTypeLine   = 1
	elementTypeArea   = 2
	elementTypeCircle = 3
	elementTypeDot    = 4
)

// Object status in the spatial index.
const objectNormal = 1

// ocdPoint is the fixed-point coordinate pair of the wire format. Each
// component carries the rounded tenth-scale value in its upper 24 bits
// and per-point flags in the low 8 bits.
type ocdPoint struct {
	X, Y int32
}

// Coordinate flag bits. Curve control flags live on the x component,
// the remaining flags on the y component.
const (
	flagCtl1   = 0x01 // x: first curve control point
	flagCtl2   = 0x02 // x: second curve control point
	flagCorner = 0x01 // y: corner point
	flagHole   = 0x02 // y: first point of a hole
	flagDash   = 0x08 // y: dash point
)

// ocdPointSize is the serialized size of one coordinate pair. Symbol
// pattern data and object items are counted in units of this size.
const ocdPointSize = 8

// objectHeaderSize is the fixed part of an object record before the
// coordinate and text items.
const objectHeaderSize = 16

// paddedSize returns n rounded up to the format's 8-byte record
// alignment.
func paddedSize(n int) int {
	return (n + 7) &^ 7
}
