package model

import "math"

// MapCoord is a map coordinate in native units of 1/1000 mm on the map
// paper, y growing down, plus the per-point drawing flags.
type MapCoord struct {
	X, Y  int32
	Flags CoordFlags
}

// CoordFlags are the per-point flags carried by a MapCoord.
type CoordFlags uint8

const (
	DashPoint CoordFlags = 1 << iota
	CurveStart
	HolePoint
)

// IsDashPoint reports whether the point is a dash/corner point.
func (c MapCoord) IsDashPoint() bool { return c.Flags&DashPoint != 0 }

// IsCurveStart reports whether a cubic curve starts at this point.
func (c MapCoord) IsCurveStart() bool { return c.Flags&CurveStart != 0 }

// IsHolePoint reports whether a hole starts after this point.
func (c MapCoord) IsHolePoint() bool { return c.Flags&HolePoint != 0 }

// Sub returns c - d, keeping the flags of c.
func (c MapCoord) Sub(d MapCoord) MapCoord {
	return MapCoord{X: c.X - d.X, Y: c.Y - d.Y, Flags: c.Flags}
}

// PointF returns the coordinate in millimeters.
func (c MapCoord) PointF() PointF {
	return PointF{X: float64(c.X) / 1000, Y: float64(c.Y) / 1000}
}

// MapCoordFromF converts millimeters to native units, rounding to
// nearest.
func MapCoordFromF(p PointF) MapCoord {
	return MapCoord{
		X: int32(math.Round(p.X * 1000)),
		Y: int32(math.Round(p.Y * 1000)),
	}
}

// PointF is a point in millimeters of map paper, y growing down.
type PointF struct {
	X, Y float64
}

// Add returns p + q.
func (p PointF) Add(q PointF) PointF { return PointF{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p PointF) Sub(q PointF) PointF { return PointF{p.X - q.X, p.Y - q.Y} }

// ManhattanLength returns |x| + |y|.
func (p PointF) ManhattanLength() float64 {
	return math.Abs(p.X) + math.Abs(p.Y)
}

// Rect is an axis-aligned rectangle in millimeters, y growing down.
// The zero value is the invalid (empty) rectangle.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
	valid                  bool
}

// RectFromPoints returns the bounding rectangle of two corner points.
func RectFromPoints(a, b PointF) Rect {
	return Rect{
		MinX:  math.Min(a.X, b.X),
		MinY:  math.Min(a.Y, b.Y),
		MaxX:  math.Max(a.X, b.X),
		MaxY:  math.Max(a.Y, b.Y),
		valid: true,
	}
}

// IsValid reports whether the rectangle covers at least one point.
func (r Rect) IsValid() bool { return r.valid }

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Center returns the middle point.
func (r Rect) Center() PointF {
	return PointF{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// TopLeft returns the corner with minimal x and y.
func (r Rect) TopLeft() PointF { return PointF{r.MinX, r.MinY} }

// TopRight returns the corner with maximal x and minimal y.
func (r Rect) TopRight() PointF { return PointF{r.MaxX, r.MinY} }

// BottomLeft returns the corner with minimal x and maximal y.
func (r Rect) BottomLeft() PointF { return PointF{r.MinX, r.MaxY} }

// BottomRight returns the corner with maximal x and y.
func (r Rect) BottomRight() PointF { return PointF{r.MaxX, r.MaxY} }

// IncludePoint grows the rectangle to cover p.
func (r Rect) IncludePoint(p PointF) Rect {
	if !r.valid {
		return Rect{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y, valid: true}
	}
	r.MinX = math.Min(r.MinX, p.X)
	r.MinY = math.Min(r.MinY, p.Y)
	r.MaxX = math.Max(r.MaxX, p.X)
	r.MaxY = math.Max(r.MaxY, p.Y)
	return r
}

// United returns the union of two rectangles.
func (r Rect) United(o Rect) Rect {
	if !o.valid {
		return r
	}
	if !r.valid {
		return o
	}
	return r.IncludePoint(o.TopLeft()).IncludePoint(o.BottomRight())
}

// Contains reports whether o lies fully inside r.
func (r Rect) Contains(o Rect) bool {
	return r.valid && o.valid &&
		o.MinX >= r.MinX && o.MaxX <= r.MaxX &&
		o.MinY >= r.MinY && o.MaxY <= r.MaxY
}

// Intersects reports whether the rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.valid && o.valid &&
		o.MinX < r.MaxX && o.MaxX > r.MinX &&
		o.MinY < r.MaxY && o.MaxY > r.MinY
}

// Transform is a 2D affine transform.
type Transform struct {
	M11, M12, M21, M22, Dx, Dy float64
}

// IdentityTransform returns the identity transform.
func IdentityTransform() Transform {
	return Transform{M11: 1, M22: 1}
}

// Map applies the transform to p.
func (t Transform) Map(p PointF) PointF {
	return PointF{
		X: t.M11*p.X + t.M21*p.Y + t.Dx,
		Y: t.M12*p.X + t.M22*p.Y + t.Dy,
	}
}

// Rotated returns the transform followed by a rotation of angle
// radians (counterclockwise in a y-up frame, i.e. clockwise on paper).
func (t Transform) Rotated(angle float64) Transform {
	sin, cos := math.Sin(angle), math.Cos(angle)
	return Transform{
		M11: t.M11*cos - t.M12*sin,
		M12: t.M11*sin + t.M12*cos,
		M21: t.M21*cos - t.M22*sin,
		M22: t.M21*sin + t.M22*cos,
		Dx:  t.Dx*cos - t.Dy*sin,
		Dy:  t.Dx*sin + t.Dy*cos,
	}
}

// Scaled returns the transform followed by uniform scaling.
func (t Transform) Scaled(s float64) Transform {
	return Transform{
		M11: t.M11 * s, M12: t.M12 * s,
		M21: t.M21 * s, M22: t.M22 * s,
		Dx: t.Dx * s, Dy: t.Dy * s,
	}
}

// Translated returns the transform followed by a translation.
func (t Transform) Translated(d PointF) Transform {
	t.Dx += d.X
	t.Dy += d.Y
	return t
}

// Inverted returns the inverse transform. The transform must be
// non-degenerate.
func (t Transform) Inverted() Transform {
	det := t.M11*t.M22 - t.M12*t.M21
	inv := Transform{
		M11: t.M22 / det, M12: -t.M12 / det,
		M21: -t.M21 / det, M22: t.M11 / det,
	}
	origin := inv.Map(PointF{t.Dx, t.Dy})
	inv.Dx = -origin.X
	inv.Dy = -origin.Y
	return inv
}
