package ocd

import (
	"testing"

	"github.com/omaptools/ocdconv/internal/model"
)

// TestStringForColor checks the tagged fields of a type 9 color string.
func TestStringForColor(t *testing.T) {
	c := &model.Color{Name: "Blue", C: 1, M: 0.5, Opacity: 1}
	got := stringForColor(3, c)
	want := "Blue\tn3\tc100\tm50\ty0\tk0\to1\tt100"
	if got != want {
		t.Errorf("stringForColor = %q, want %q", got, want)
	}
}

// TestStringForColorKnockout checks the overprint flag inversion: a
// knockout color writes o0.
func TestStringForColorKnockout(t *testing.T) {
	c := &model.Color{Name: "BG", Y: 1, Opacity: 0.5, Knockout: true}
	got := stringForColor(0, c)
	want := "BG\tn0\tc0\tm0\ty100\tk0\to0\tt50"
	if got != want {
		t.Errorf("stringForColor = %q, want %q", got, want)
	}
}

// TestStringForScalePar checks the type 1039 string for a map with a
// millimeter grid.
func TestStringForScalePar(t *testing.T) {
	m := &model.Map{
		Georef: model.Georeferencing{
			ScaleDenominator: 10000,
			RefPointX:        5000,
			RefPointY:        -2000,
		},
		Grid: model.Grid{Unit: model.MillimetersOnMap, HorizontalSpacing: 50, VerticalSpacing: 50},
	}

	got := stringForScalePar(m, 9)
	want := "\tm10000\tg50.0000\tr1\tx5000\ty-2000\ta0.00000000\td500.000000\ti0"
	if got != want {
		t.Errorf("stringForScalePar(v9) = %q, want %q", got, want)
	}

	// Versions above 9 append two fixed offset fields.
	got = stringForScalePar(m, 11)
	want += "\tb0.00\tc0.00"
	if got != want {
		t.Errorf("stringForScalePar(v11) = %q, want %q", got, want)
	}
}

// TestStringForScaleParTerrainGrid checks the grid spacing conversion
// for a grid defined in terrain meters.
func TestStringForScaleParTerrainGrid(t *testing.T) {
	m := &model.Map{
		Georef: model.Georeferencing{ScaleDenominator: 10000},
		Grid:   model.Grid{Unit: model.MetersInTerrain, HorizontalSpacing: 1000, VerticalSpacing: 1000},
	}

	// 1000 m at 1:10000 is 100 mm on the map.
	got := stringForScalePar(m, 9)
	want := "\tm10000\tg100.0000\tr1\tx0\ty0\ta0.00000000\td1000.000000\ti0"
	if got != want {
		t.Errorf("stringForScalePar = %q, want %q", got, want)
	}
}
