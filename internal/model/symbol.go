package model

// Symbol is the closed set of map symbol variants. The encoder
// dispatches on the concrete type; no other implementations exist.
type Symbol interface {
	// Base returns the attributes shared by all symbol variants.
	Base() *SymbolBase
	// UsesColor reports whether the symbol draws with color c.
	UsesColor(c *Color) bool
}

// SymbolBase holds the attributes shared by all symbol variants.
type SymbolBase struct {
	Name      string
	Number    [2]int // major.minor
	Hidden    bool
	Protected bool
}

func (b *SymbolBase) Base() *SymbolBase { return b }

// CapStyle is a line end cap style.
type CapStyle int

const (
	FlatCap CapStyle = iota
	RoundCap
	SquareCap
	PointedCap
)

// JoinStyle is a line join style.
type JoinStyle int

const (
	BevelJoin JoinStyle = iota
	MiterJoin
	RoundJoin
)

// Element is one drawing primitive of a point symbol pattern: a
// sub-symbol placed at the given coordinates.
type Element struct {
	Symbol Symbol // Point, Line or Area symbol
	Coords []MapCoord
}

// PointSymbol draws a dot and/or ring at the object position, plus any
// number of pattern elements. All lengths are in 1/1000 mm.
type PointSymbol struct {
	SymbolBase
	Rotatable   bool
	InnerRadius int
	InnerColor  *Color
	OuterWidth  int
	OuterColor  *Color
	Elements    []Element
}

// IsEmpty reports whether the symbol draws nothing at all.
func (s *PointSymbol) IsEmpty() bool {
	if s == nil {
		return true
	}
	if s.InnerRadius > 0 && s.InnerColor != nil {
		return false
	}
	if s.OuterWidth > 0 && s.OuterColor != nil {
		return false
	}
	return len(s.Elements) == 0
}

func (s *PointSymbol) UsesColor(c *Color) bool {
	if s == nil {
		return false
	}
	if s.InnerColor == c || s.OuterColor == c {
		return true
	}
	for _, e := range s.Elements {
		if e.Symbol != nil && e.Symbol.UsesColor(c) {
			return true
		}
	}
	return false
}

// LineBorder describes one side of a double (bordered) line.
type LineBorder struct {
	Color       *Color
	Width       int
	Shift       int
	Dashed      bool
	DashLength  int
	BreakLength int
}

// IsVisible reports whether the border would be drawn.
func (b LineBorder) IsVisible() bool { return b.Width > 0 && b.Color != nil }

// LineSymbol draws paths. All lengths are in 1/1000 mm, angles in
// radians.
type LineSymbol struct {
	SymbolBase
	Color     *Color
	LineWidth int
	Cap       CapStyle
	Join      JoinStyle

	PointedCapLength int

	Dashed             bool
	DashLength         int
	BreakLength        int
	DashesInGroup      int
	InGroupBreakLength int
	HalfOuterDashes    bool
	SegmentLength      int
	EndLength          int

	ShowAtLeastOneSymbol bool
	MidSymbolsPerSpot    int
	MidSymbolDistance    int
	MidSymbol            *PointSymbol
	DashSymbol           *PointSymbol
	StartSymbol          *PointSymbol
	EndSymbol            *PointSymbol

	Border      LineBorder
	RightBorder LineBorder
}

// HasBorder reports whether any border line is configured.
func (s *LineSymbol) HasBorder() bool {
	return s.Border.IsVisible() || s.RightBorder.IsVisible()
}

func (s *LineSymbol) UsesColor(c *Color) bool {
	if s == nil {
		return false
	}
	if s.Color == c || s.Border.Color == c || s.RightBorder.Color == c {
		return true
	}
	for _, p := range []*PointSymbol{s.MidSymbol, s.DashSymbol, s.StartSymbol, s.EndSymbol} {
		if p.UsesColor(c) {
			return true
		}
	}
	return false
}

// FillPatternType distinguishes area fill pattern kinds.
type FillPatternType int

const (
	LinePattern FillPatternType = iota
	PointPattern
)

// FillPattern is one hatching or point pattern of an area symbol.
type FillPattern struct {
	Type      FillPatternType
	Angle     float64 // radians
	Rotatable bool

	// LinePattern
	LineColor   *Color
	LineWidth   int
	LineSpacing int

	// PointPattern
	PointDistance int
	LineOffset    int
	Point         *PointSymbol
}

// AreaSymbol fills closed paths with a solid color and/or patterns.
type AreaSymbol struct {
	SymbolBase
	Color    *Color
	Patterns []FillPattern
}

func (s *AreaSymbol) UsesColor(c *Color) bool {
	if s == nil {
		return false
	}
	if s.Color == c {
		return true
	}
	for _, p := range s.Patterns {
		if p.LineColor == c || p.Point.UsesColor(c) {
			return true
		}
	}
	return false
}

// FramingMode selects the text framing effect.
type FramingMode int

const (
	NoFraming FramingMode = iota
	ShadowFraming
	LineFraming
)

// FontMetrics are the metrics of the symbol's font at the internal
// rendering size, in text units.
type FontMetrics struct {
	Ascent      float64
	Descent     float64
	LineSpacing float64
}

// TextSymbol draws text objects. FontSize is in millimeters; spacings
// are factors or millimeters as noted.
type TextSymbol struct {
	SymbolBase
	Color      *Color
	FontFamily string
	FontSize   float64 // mm
	Bold       bool
	Italic     bool
	Underline  bool
	Kerning    bool

	CharSpacing      float64 // factor of a space width
	LineSpacing      float64 // factor
	ParagraphSpacing float64 // mm

	LineBelow         bool
	LineBelowColor    *Color
	LineBelowWidth    float64 // mm
	LineBelowDistance float64 // mm

	CustomTabs []int // 1/1000 mm

	Framing             FramingMode
	FramingColor        *Color
	FramingShadowX      int // 1/1000 mm
	FramingShadowY      int // 1/1000 mm
	FramingLineHalfWidth int // 1/1000 mm

	Metrics         FontMetrics
	InternalScaling float64 // text units per mm
}

func (s *TextSymbol) UsesColor(c *Color) bool {
	if s == nil {
		return false
	}
	if s.Color == c {
		return true
	}
	if s.LineBelow && s.LineBelowColor == c {
		return true
	}
	if s.Framing != NoFraming && s.FramingColor == c {
		return true
	}
	return false
}

// CombinedSymbol composes up to several other symbols into one. A part
// marked private belongs exclusively to this combination and is not a
// standalone map symbol.
type CombinedSymbol struct {
	SymbolBase
	Parts        []Symbol
	PrivateParts []bool
}

// IsPartPrivate reports whether part i is private to the combination.
func (s *CombinedSymbol) IsPartPrivate(i int) bool {
	return i < len(s.PrivateParts) && s.PrivateParts[i]
}

func (s *CombinedSymbol) UsesColor(c *Color) bool {
	if s == nil {
		return false
	}
	for _, p := range s.Parts {
		if p != nil && p.UsesColor(c) {
			return true
		}
	}
	return false
}
