package ocd

import (
	"math"

	"github.com/omaptools/ocdconv/internal/model"
)

// convertPointMember converts one native coordinate component (1/1000
// mm) to the fixed-point wire representation: the value divided by 10
// with round-half-up semantics, packed into the upper 24 bits, leaving
// the low 8 bits for flags. The bit-exact behavior is locked down by
// the test vectors in convert_test.go.
func convertPointMember(value int32) int32 {
	if value < -5 {
		return int32(0x80000000 | (0x7fffff&uint32((value-4)/10))<<8)
	}
	return int32((0x7fffff & uint32((value+5)/10)) << 8)
}

// convertPoint converts a native coordinate pair. The y axis is
// negated: the wire format's y axis grows up.
func convertPoint(x, y int32) ocdPoint {
	return ocdPoint{X: convertPointMember(x), Y: convertPointMember(-y)}
}

func convertCoord(c model.MapCoord) ocdPoint {
	return convertPoint(c.X, c.Y)
}

func convertPointF(p model.PointF) ocdPoint {
	c := model.MapCoordFromF(p)
	return convertPoint(c.X, c.Y)
}

// convertSize converts a length in 1/1000 mm to the wire unit of
// 1/100 mm, rounding half up.
func convertSize(size int) int {
	return (size + 5) / 10
}

// convertRotation converts an angle in radians to tenths of a degree,
// rounded to nearest.
func convertRotation(angle float64) int {
	return int(math.Round(10 * angle * 180 / math.Pi))
}
