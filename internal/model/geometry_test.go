package model

import (
	"math"
	"testing"
)

// TestRectIncludePoint checks growth from the invalid zero rectangle.
func TestRectIncludePoint(t *testing.T) {
	var r Rect
	if r.IsValid() {
		t.Fatal("zero Rect is valid, want invalid")
	}
	r = r.IncludePoint(PointF{1, 2})
	r = r.IncludePoint(PointF{-3, 5})
	if !r.IsValid() {
		t.Fatal("rect invalid after including points")
	}
	if r.MinX != -3 || r.MinY != 2 || r.MaxX != 1 || r.MaxY != 5 {
		t.Errorf("rect = %+v, want [-3 2 1 5]", r)
	}
	if r.Width() != 4 || r.Height() != 3 {
		t.Errorf("size = %g x %g, want 4 x 3", r.Width(), r.Height())
	}
}

// TestRectContainsIntersects checks the containment and overlap
// predicates.
func TestRectContainsIntersects(t *testing.T) {
	outer := RectFromPoints(PointF{-10, -10}, PointF{10, 10})
	inner := RectFromPoints(PointF{-1, -1}, PointF{1, 1})
	apart := RectFromPoints(PointF{20, 20}, PointF{30, 30})

	if !outer.Contains(inner) {
		t.Error("outer does not contain inner")
	}
	if inner.Contains(outer) {
		t.Error("inner contains outer")
	}
	if !outer.Intersects(inner) {
		t.Error("outer does not intersect inner")
	}
	if outer.Intersects(apart) {
		t.Error("disjoint rectangles intersect")
	}
	var invalid Rect
	if outer.Contains(invalid) || outer.Intersects(invalid) {
		t.Error("invalid rectangle contained or intersecting")
	}
}

// TestTransformRoundTrip checks that the inverse transform undoes a
// combined scale, rotation and translation.
func TestTransformRoundTrip(t *testing.T) {
	tr := IdentityTransform().Scaled(2.5).Rotated(0.7).Translated(PointF{3, -4})
	inv := tr.Inverted()

	p := PointF{1.25, -2.5}
	q := inv.Map(tr.Map(p))
	if math.Abs(q.X-p.X) > 1e-9 || math.Abs(q.Y-p.Y) > 1e-9 {
		t.Errorf("round trip = %+v, want %+v", q, p)
	}
}

// TestGeoreferencingRoundTrip checks projection and back-projection
// with a rotated grid.
func TestGeoreferencingRoundTrip(t *testing.T) {
	g := Georeferencing{
		ScaleDenominator: 15000,
		RefPointX:        650000,
		RefPointY:        240000,
		Grivation:        2.5,
	}

	p := PointF{X: 123.4, Y: -56.7}
	q := g.FromProjected(g.ToProjected(p))
	if math.Abs(q.X-p.X) > 1e-6 || math.Abs(q.Y-p.Y) > 1e-6 {
		t.Errorf("round trip = %+v, want %+v", q, p)
	}

	// The reference point is the image of the origin.
	origin := g.ToProjected(PointF{})
	if origin.X != 650000 || origin.Y != 240000 {
		t.Errorf("origin = %+v, want the reference point", origin)
	}
}

// TestMapCoordConversions checks native unit and flag handling.
func TestMapCoordConversions(t *testing.T) {
	c := MapCoord{X: 1500, Y: -2500, Flags: DashPoint | CurveStart}
	p := c.PointF()
	if p.X != 1.5 || p.Y != -2.5 {
		t.Errorf("PointF = %+v, want (1.5, -2.5)", p)
	}
	if !c.IsDashPoint() || !c.IsCurveStart() || c.IsHolePoint() {
		t.Error("flag predicates wrong")
	}

	d := c.Sub(MapCoord{X: 500, Y: 500})
	if d.X != 1000 || d.Y != -3000 || d.Flags != c.Flags {
		t.Errorf("Sub = %+v, want flags kept and (1000, -3000)", d)
	}

	if got := MapCoordFromF(PointF{1.2344, -1.2344}); got.X != 1234 || got.Y != -1234 {
		t.Errorf("MapCoordFromF = %+v, want (1234, -1234)", got)
	}
}
