package ocd

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/omaptools/ocdconv/internal/model"
)

// Parameter string types used by the v9+ string table.
const (
	stringTypeColor = 9
	stringTypeScale = 1039
)

// paramString is one entry of the parameter string table.
type paramString struct {
	recType int32
	value   string
}

// stringForColor builds the type 9 parameter string defining one map
// color. The tagged fields carry the wire color number, CMYK
// percentages, overprint flag and opacity percentage.
func stringForColor(number int, c *model.Color) string {
	var b strings.Builder
	b.WriteString(c.Name)
	fmt.Fprintf(&b, "\tn%d", number)
	fmt.Fprintf(&b, "\tc%d", int(math.Round(c.C*100)))
	fmt.Fprintf(&b, "\tm%d", int(math.Round(c.M*100)))
	fmt.Fprintf(&b, "\ty%d", int(math.Round(c.Y*100)))
	fmt.Fprintf(&b, "\tk%d", int(math.Round(c.K*100)))
	if c.Knockout {
		b.WriteString("\to0")
	} else {
		b.WriteString("\to1")
	}
	fmt.Fprintf(&b, "\tt%d", int(math.Round(c.Opacity*100)))
	return b.String()
}

// stringForScalePar builds the type 1039 parameter string carrying the
// georeferencing and display grid. Versions above 9 get two extra
// offset fields fixed at zero.
func stringForScalePar(m *model.Map, version uint16) string {
	georef := m.Georef
	refPoint := georef.ToProjected(model.PointF{})

	// OCD grid defaults; overridden from the map's grid definition.
	gridSpacingReal := 500.0
	gridSpacingMap := 50.0
	spacing := math.Min(m.Grid.HorizontalSpacing, m.Grid.VerticalSpacing)
	switch m.Grid.Unit {
	case model.MillimetersOnMap:
		gridSpacingMap = spacing
		gridSpacingReal = spacing * float64(georef.ScaleDenominator) / 1000
	case model.MetersInTerrain:
		gridSpacingMap = spacing * 1000 / float64(georef.ScaleDenominator)
		gridSpacingReal = spacing
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\tm%d", georef.ScaleDenominator)
	b.WriteString("\tg" + strconv.FormatFloat(gridSpacingMap, 'f', 4, 64))
	b.WriteString("\tr1")
	fmt.Fprintf(&b, "\tx%d", int(math.Round(refPoint.X)))
	fmt.Fprintf(&b, "\ty%d", int(math.Round(refPoint.Y)))
	b.WriteString("\ta" + strconv.FormatFloat(georef.Grivation, 'f', 8, 64))
	b.WriteString("\td" + strconv.FormatFloat(gridSpacingReal, 'f', 6, 64))
	b.WriteString("\ti0")
	if version > 9 {
		b.WriteString("\tb0.00")
		b.WriteString("\tc0.00")
	}
	return b.String()
}
