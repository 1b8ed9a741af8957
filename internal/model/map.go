// Package model holds the in-memory vector map representation consumed
// by the OCD encoder. The encoder treats everything in this package as
// read-only input; it never mutates a Map it was given.
package model

import "math"

// Map is the complete map document: an ordered color list, an ordered
// symbol list, one or more object parts, georeferencing, a display
// grid and free-text notes.
type Map struct {
	Colors  []*Color
	Symbols []Symbol
	Parts   []*Part
	Georef  Georeferencing
	Grid    Grid
	Notes   string
}

// Part is one ordered object collection (a drawing layer).
type Part struct {
	Name    string
	Objects []Object
}

// Color is a map color definition. Identity is the positional index
// within Map.Colors; the synthetic registration color is not part of
// that list.
type Color struct {
	Name     string
	C        float64 // cyan, 0.0-1.0
	M        float64 // magenta, 0.0-1.0
	Y        float64 // yellow, 0.0-1.0
	K        float64 // black, 0.0-1.0
	Opacity  float64 // 0.0-1.0
	Knockout bool
}

var registrationColor = &Color{
	Name:     "Registration black (all printed colors)",
	C:        1, M: 1, Y: 1, K: 1,
	Opacity:  1,
	Knockout: false,
}

// RegistrationColor returns the singleton registration color that may
// be injected at export color index 0.
func RegistrationColor() *Color { return registrationColor }

// FindColorIndex returns the positional index of c in the color list,
// or -1 if c is not a map color (e.g. the registration color).
func (m *Map) FindColorIndex(c *Color) int {
	for i, mc := range m.Colors {
		if mc == c {
			return i
		}
	}
	return -1
}

// UsesRegistrationColor reports whether any symbol references the
// registration color.
func (m *Map) UsesRegistrationColor() bool {
	for _, s := range m.Symbols {
		if s.UsesColor(registrationColor) {
			return true
		}
	}
	return false
}

// CalculateExtent returns the bounding rectangle of all objects in all
// parts, in millimeters of map paper. The zero Rect means "no objects".
func (m *Map) CalculateExtent() Rect {
	var extent Rect
	for _, p := range m.Parts {
		for _, o := range p.Objects {
			extent = extent.United(o.Extent())
		}
	}
	return extent
}

// ApplyOnAllObjects calls fn for every object of every part.
func (m *Map) ApplyOnAllObjects(fn func(Object)) {
	for _, p := range m.Parts {
		for _, o := range p.Objects {
			fn(o)
		}
	}
}

// View is the optional current editor view, used only to populate the
// v8 setup record.
type View struct {
	Center MapCoord
	Zoom   float64
}

// GridUnit selects how grid spacing values are interpreted.
type GridUnit int

const (
	MillimetersOnMap GridUnit = iota
	MetersInTerrain
)

// Grid is the display grid definition.
type Grid struct {
	Unit              GridUnit
	HorizontalSpacing float64
	VerticalSpacing   float64
}

// Georeferencing relates map paper coordinates to projected ground
// coordinates.
type Georeferencing struct {
	ScaleDenominator int
	RefPointX        float64 // projected easting of the map origin, meters
	RefPointY        float64 // projected northing of the map origin, meters
	Grivation        float64 // degrees, grid north to magnetic north
}

// ToProjected maps a paper coordinate (mm, y growing down) to projected
// ground coordinates (meters).
func (g Georeferencing) ToProjected(p PointF) PointF {
	f := float64(g.ScaleDenominator) / 1000
	gr := g.Grivation * math.Pi / 180
	ex := p.X * f
	ey := -p.Y * f
	return PointF{
		X: g.RefPointX + ex*math.Cos(gr) - ey*math.Sin(gr),
		Y: g.RefPointY + ex*math.Sin(gr) + ey*math.Cos(gr),
	}
}

// FromProjected is the inverse of ToProjected.
func (g Georeferencing) FromProjected(p PointF) PointF {
	f := float64(g.ScaleDenominator) / 1000
	gr := g.Grivation * math.Pi / 180
	dx := p.X - g.RefPointX
	dy := p.Y - g.RefPointY
	ex := dx*math.Cos(gr) + dy*math.Sin(gr)
	ey := -dx*math.Sin(gr) + dy*math.Cos(gr)
	return PointF{X: ex / f, Y: -ey / f}
}
