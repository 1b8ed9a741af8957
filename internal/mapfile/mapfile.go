// Package mapfile reads map documents from a JSON interchange format.
//
// The format is a flat, index-based rendition of the internal model:
// symbols reference colors by list index, objects reference symbols by
// list index, combined symbols reference their parts by symbol index.
package mapfile

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/omaptools/ocdconv/internal/model"
)

type document struct {
	Scale     int        `json:"scale"`
	Notes     string     `json:"notes,omitempty"`
	Georef    georefDoc  `json:"georef"`
	Grid      *gridDoc   `json:"grid,omitempty"`
	Colors    []colorDoc `json:"colors"`
	Symbols   []symbol   `json:"symbols"`
	Parts     []partDoc  `json:"parts"`
	View      *viewDoc   `json:"view,omitempty"`
}

type georefDoc struct {
	RefX      float64 `json:"refX"`
	RefY      float64 `json:"refY"`
	Grivation float64 `json:"grivation"`
}

type gridDoc struct {
	Unit string  `json:"unit"` // "mm" or "m"
	H    float64 `json:"h"`
	V    float64 `json:"v"`
}

type viewDoc struct {
	X    int32   `json:"x"`
	Y    int32   `json:"y"`
	Zoom float64 `json:"zoom"`
}

type colorDoc struct {
	Name     string  `json:"name"`
	C        float64 `json:"c"`
	M        float64 `json:"m"`
	Y        float64 `json:"y"`
	K        float64 `json:"k"`
	Opacity  float64 `json:"opacity"`
	Knockout bool    `json:"knockout,omitempty"`
}

type coord struct {
	X     int32  `json:"x"`
	Y     int32  `json:"y"`
	Flags string `json:"flags,omitempty"` // letters d, c, h
}

type element struct {
	Symbol symbol  `json:"symbol"`
	Coords []coord `json:"coords"`
}

type border struct {
	Color       *int `json:"color"`
	Width       int  `json:"width"`
	Shift       int  `json:"shift"`
	Dashed      bool `json:"dashed,omitempty"`
	DashLength  int  `json:"dashLength,omitempty"`
	BreakLength int  `json:"breakLength,omitempty"`
}

type pattern struct {
	Kind      string  `json:"kind"` // "line" or "point"
	Angle     float64 `json:"angle,omitempty"`
	Rotatable bool    `json:"rotatable,omitempty"`

	Color   *int `json:"color,omitempty"`
	Width   int  `json:"width,omitempty"`
	Spacing int  `json:"spacing,omitempty"`

	PointDistance int     `json:"pointDistance,omitempty"`
	LineOffset    int     `json:"lineOffset,omitempty"`
	Point         *symbol `json:"point,omitempty"`
}

// symbol is the union of all symbol kinds; Kind selects the fields in
// use.
type symbol struct {
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Number    [2]int `json:"number"`
	Hidden    bool   `json:"hidden,omitempty"`
	Protected bool   `json:"protected,omitempty"`

	// point
	Rotatable   bool      `json:"rotatable,omitempty"`
	InnerRadius int       `json:"innerRadius,omitempty"`
	InnerColor  *int      `json:"innerColor,omitempty"`
	OuterWidth  int       `json:"outerWidth,omitempty"`
	OuterColor  *int      `json:"outerColor,omitempty"`
	Elements    []element `json:"elements,omitempty"`

	// line
	Color                *int    `json:"color,omitempty"`
	LineWidth            int     `json:"lineWidth,omitempty"`
	Cap                  string  `json:"cap,omitempty"`
	Join                 string  `json:"join,omitempty"`
	PointedCapLength     int     `json:"pointedCapLength,omitempty"`
	Dashed               bool    `json:"dashed,omitempty"`
	DashLength           int     `json:"dashLength,omitempty"`
	BreakLength          int     `json:"breakLength,omitempty"`
	DashesInGroup        int     `json:"dashesInGroup,omitempty"`
	InGroupBreakLength   int     `json:"inGroupBreakLength,omitempty"`
	HalfOuterDashes      bool    `json:"halfOuterDashes,omitempty"`
	SegmentLength        int     `json:"segmentLength,omitempty"`
	EndLength            int     `json:"endLength,omitempty"`
	ShowAtLeastOneSymbol bool    `json:"showAtLeastOneSymbol,omitempty"`
	MidSymbolsPerSpot    int     `json:"midSymbolsPerSpot,omitempty"`
	MidSymbolDistance    int     `json:"midSymbolDistance,omitempty"`
	MidSymbol            *symbol `json:"midSymbol,omitempty"`
	DashSymbol           *symbol `json:"dashSymbol,omitempty"`
	StartSymbol          *symbol `json:"startSymbol,omitempty"`
	EndSymbol            *symbol `json:"endSymbol,omitempty"`
	Border               *border `json:"border,omitempty"`
	RightBorder          *border `json:"rightBorder,omitempty"`

	// area
	Patterns []pattern `json:"patterns,omitempty"`

	// text
	FontFamily       string    `json:"fontFamily,omitempty"`
	FontSize         float64   `json:"fontSize,omitempty"`
	Bold             bool      `json:"bold,omitempty"`
	Italic           bool      `json:"italic,omitempty"`
	Underline        bool      `json:"underline,omitempty"`
	Kerning          bool      `json:"kerning,omitempty"`
	CharSpacing      float64   `json:"charSpacing,omitempty"`
	LineSpacing      float64   `json:"lineSpacing,omitempty"`
	ParagraphSpacing float64   `json:"paragraphSpacing,omitempty"`
	LineBelow        bool      `json:"lineBelow,omitempty"`
	LineBelowColor   *int      `json:"lineBelowColor,omitempty"`
	LineBelowWidth   float64   `json:"lineBelowWidth,omitempty"`
	LineBelowDist    float64   `json:"lineBelowDistance,omitempty"`
	CustomTabs       []int     `json:"customTabs,omitempty"`
	Framing          string    `json:"framing,omitempty"` // "shadow" or "line"
	FramingColor     *int      `json:"framingColor,omitempty"`
	FramingShadowX   int       `json:"framingShadowX,omitempty"`
	FramingShadowY   int       `json:"framingShadowY,omitempty"`
	FramingLineWidth int       `json:"framingLineHalfWidth,omitempty"`
	Ascent           float64   `json:"ascent,omitempty"`
	Descent          float64   `json:"descent,omitempty"`
	LineSpacingAbs   float64   `json:"lineSpacingAbs,omitempty"`
	InternalScaling  float64   `json:"internalScaling,omitempty"`

	// combined
	Parts        []int  `json:"parts,omitempty"`
	PrivateParts []bool `json:"privateParts,omitempty"`
}

type objectDoc struct {
	Kind     string  `json:"kind"` // "point", "path", "text"
	Symbol   int     `json:"symbol"`
	Coords   []coord `json:"coords,omitempty"`
	Rotation float64 `json:"rotation,omitempty"`

	// text
	Text         string    `json:"text,omitempty"`
	HAlign       string    `json:"halign,omitempty"` // left, center, right, justified
	VAlign       string    `json:"valign,omitempty"` // baseline, top, center, bottom
	SingleAnchor bool      `json:"singleAnchor,omitempty"`
	BoxWidth     float64   `json:"boxWidth,omitempty"`
	BoxHeight    float64   `json:"boxHeight,omitempty"`
	Lines        []lineDoc `json:"lines,omitempty"`
}

type lineDoc struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Ascent  float64 `json:"ascent"`
	Descent float64 `json:"descent"`
}

type partDoc struct {
	Name    string      `json:"name"`
	Objects []objectDoc `json:"objects"`
}

// Read decodes a map document. The returned view is nil when the
// document has none.
func Read(r io.Reader) (*model.Map, *model.View, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("decoding map document: %w", err)
	}
	return buildMap(&doc)
}

func buildMap(doc *document) (*model.Map, *model.View, error) {
	m := &model.Map{
		Notes: doc.Notes,
		Georef: model.Georeferencing{
			ScaleDenominator: doc.Scale,
			RefPointX:        doc.Georef.RefX,
			RefPointY:        doc.Georef.RefY,
			Grivation:        doc.Georef.Grivation,
		},
	}
	if m.Georef.ScaleDenominator == 0 {
		m.Georef.ScaleDenominator = 15000
	}
	if doc.Grid != nil {
		unit := model.MillimetersOnMap
		if doc.Grid.Unit == "m" {
			unit = model.MetersInTerrain
		}
		m.Grid = model.Grid{Unit: unit, HorizontalSpacing: doc.Grid.H, VerticalSpacing: doc.Grid.V}
	} else {
		m.Grid = model.Grid{Unit: model.MillimetersOnMap, HorizontalSpacing: 50, VerticalSpacing: 50}
	}

	for _, c := range doc.Colors {
		opacity := c.Opacity
		if opacity == 0 {
			opacity = 1
		}
		m.Colors = append(m.Colors, &model.Color{
			Name: c.Name, C: c.C, M: c.M, Y: c.Y, K: c.K,
			Opacity: opacity, Knockout: c.Knockout,
		})
	}

	b := builder{m: m}
	// Two passes so combined symbols can reference parts in any order.
	symbols := make([]model.Symbol, len(doc.Symbols))
	for i, s := range doc.Symbols {
		if s.Kind == "combined" {
			continue
		}
		sym, err := b.buildSymbol(&doc.Symbols[i])
		if err != nil {
			return nil, nil, fmt.Errorf("symbol %d: %w", i, err)
		}
		symbols[i] = sym
	}
	for i, s := range doc.Symbols {
		if s.Kind != "combined" {
			continue
		}
		combined := &model.CombinedSymbol{
			SymbolBase:   b.base(&doc.Symbols[i]),
			PrivateParts: s.PrivateParts,
		}
		for _, ref := range s.Parts {
			if ref < 0 || ref >= len(symbols) || symbols[ref] == nil {
				return nil, nil, fmt.Errorf("symbol %d: invalid part reference %d", i, ref)
			}
			combined.Parts = append(combined.Parts, symbols[ref])
		}
		symbols[i] = combined
	}
	m.Symbols = symbols

	for pi, p := range doc.Parts {
		part := &model.Part{Name: p.Name}
		for oi, o := range p.Objects {
			if o.Symbol < 0 || o.Symbol >= len(symbols) {
				return nil, nil, fmt.Errorf("part %d object %d: invalid symbol reference %d", pi, oi, o.Symbol)
			}
			obj, err := buildObject(&o, symbols[o.Symbol])
			if err != nil {
				return nil, nil, fmt.Errorf("part %d object %d: %w", pi, oi, err)
			}
			part.Objects = append(part.Objects, obj)
		}
		m.Parts = append(m.Parts, part)
	}

	var view *model.View
	if doc.View != nil {
		view = &model.View{
			Center: model.MapCoord{X: doc.View.X, Y: doc.View.Y},
			Zoom:   doc.View.Zoom,
		}
	}
	return m, view, nil
}

type builder struct {
	m *model.Map
}

func (b *builder) base(s *symbol) model.SymbolBase {
	return model.SymbolBase{
		Name:      s.Name,
		Number:    s.Number,
		Hidden:    s.Hidden,
		Protected: s.Protected,
	}
}

func (b *builder) color(ref *int) *model.Color {
	if ref == nil {
		return nil
	}
	if *ref == -1 {
		return model.RegistrationColor()
	}
	if *ref < 0 || *ref >= len(b.m.Colors) {
		return nil
	}
	return b.m.Colors[*ref]
}

func (b *builder) buildSymbol(s *symbol) (model.Symbol, error) {
	switch s.Kind {
	case "point":
		return b.buildPointSymbol(s)
	case "line":
		return b.buildLineSymbol(s)
	case "area":
		return b.buildAreaSymbol(s)
	case "text":
		return b.buildTextSymbol(s)
	default:
		return nil, fmt.Errorf("unknown symbol kind %q", s.Kind)
	}
}

func (b *builder) buildPointSymbol(s *symbol) (*model.PointSymbol, error) {
	sym := &model.PointSymbol{
		SymbolBase:  b.base(s),
		Rotatable:   s.Rotatable,
		InnerRadius: s.InnerRadius,
		InnerColor:  b.color(s.InnerColor),
		OuterWidth:  s.OuterWidth,
		OuterColor:  b.color(s.OuterColor),
	}
	for i, e := range s.Elements {
		elemSym, err := b.buildSymbol(&s.Elements[i].Symbol)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		sym.Elements = append(sym.Elements, model.Element{
			Symbol: elemSym,
			Coords: buildCoords(e.Coords),
		})
	}
	return sym, nil
}

func (b *builder) buildLineSymbol(s *symbol) (*model.LineSymbol, error) {
	capStyle, err := parseCap(s.Cap)
	if err != nil {
		return nil, err
	}
	join, err := parseJoin(s.Join)
	if err != nil {
		return nil, err
	}
	sym := &model.LineSymbol{
		SymbolBase:           b.base(s),
		Color:                b.color(s.Color),
		LineWidth:            s.LineWidth,
		Cap:                  capStyle,
		Join:                 join,
		PointedCapLength:     s.PointedCapLength,
		Dashed:               s.Dashed,
		DashLength:           s.DashLength,
		BreakLength:          s.BreakLength,
		DashesInGroup:        s.DashesInGroup,
		InGroupBreakLength:   s.InGroupBreakLength,
		HalfOuterDashes:      s.HalfOuterDashes,
		SegmentLength:        s.SegmentLength,
		EndLength:            s.EndLength,
		ShowAtLeastOneSymbol: s.ShowAtLeastOneSymbol,
		MidSymbolsPerSpot:    s.MidSymbolsPerSpot,
		MidSymbolDistance:    s.MidSymbolDistance,
	}
	for _, sub := range []struct {
		doc *symbol
		dst **model.PointSymbol
	}{
		{s.MidSymbol, &sym.MidSymbol},
		{s.DashSymbol, &sym.DashSymbol},
		{s.StartSymbol, &sym.StartSymbol},
		{s.EndSymbol, &sym.EndSymbol},
	} {
		if sub.doc == nil {
			continue
		}
		point, err := b.buildPointSymbol(sub.doc)
		if err != nil {
			return nil, err
		}
		*sub.dst = point
	}
	sym.Border = b.buildBorder(s.Border)
	sym.RightBorder = b.buildBorder(s.RightBorder)
	return sym, nil
}

func (b *builder) buildBorder(doc *border) model.LineBorder {
	if doc == nil {
		return model.LineBorder{}
	}
	return model.LineBorder{
		Color:       b.color(doc.Color),
		Width:       doc.Width,
		Shift:       doc.Shift,
		Dashed:      doc.Dashed,
		DashLength:  doc.DashLength,
		BreakLength: doc.BreakLength,
	}
}

func (b *builder) buildAreaSymbol(s *symbol) (*model.AreaSymbol, error) {
	sym := &model.AreaSymbol{
		SymbolBase: b.base(s),
		Color:      b.color(s.Color),
	}
	for i, p := range s.Patterns {
		pat := model.FillPattern{
			Angle:     p.Angle,
			Rotatable: p.Rotatable,
		}
		switch p.Kind {
		case "line":
			pat.Type = model.LinePattern
			pat.LineColor = b.color(p.Color)
			pat.LineWidth = p.Width
			pat.LineSpacing = p.Spacing
		case "point":
			pat.Type = model.PointPattern
			pat.PointDistance = p.PointDistance
			pat.LineSpacing = p.Spacing
			pat.LineOffset = p.LineOffset
			if p.Point != nil {
				point, err := b.buildPointSymbol(p.Point)
				if err != nil {
					return nil, fmt.Errorf("pattern %d: %w", i, err)
				}
				pat.Point = point
			}
		default:
			return nil, fmt.Errorf("pattern %d: unknown kind %q", i, p.Kind)
		}
		sym.Patterns = append(sym.Patterns, pat)
	}
	return sym, nil
}

func (b *builder) buildTextSymbol(s *symbol) (*model.TextSymbol, error) {
	framing := model.NoFraming
	switch s.Framing {
	case "":
	case "shadow":
		framing = model.ShadowFraming
	case "line":
		framing = model.LineFraming
	default:
		return nil, fmt.Errorf("unknown framing mode %q", s.Framing)
	}
	internalScaling := s.InternalScaling
	if internalScaling == 0 {
		internalScaling = 1
	}
	return &model.TextSymbol{
		SymbolBase:       b.base(s),
		Color:            b.color(s.Color),
		FontFamily:       s.FontFamily,
		FontSize:         s.FontSize,
		Bold:             s.Bold,
		Italic:           s.Italic,
		Underline:        s.Underline,
		Kerning:          s.Kerning,
		CharSpacing:      s.CharSpacing,
		LineSpacing:      s.LineSpacing,
		ParagraphSpacing: s.ParagraphSpacing,
		LineBelow:        s.LineBelow,
		LineBelowColor:   b.color(s.LineBelowColor),
		LineBelowWidth:   s.LineBelowWidth,
		LineBelowDistance: s.LineBelowDist,
		CustomTabs:       s.CustomTabs,
		Framing:          framing,
		FramingColor:     b.color(s.FramingColor),
		FramingShadowX:   s.FramingShadowX,
		FramingShadowY:   s.FramingShadowY,
		FramingLineHalfWidth: s.FramingLineWidth,
		Metrics: model.FontMetrics{
			Ascent:      s.Ascent,
			Descent:     s.Descent,
			LineSpacing: s.LineSpacingAbs,
		},
		InternalScaling: internalScaling,
	}, nil
}

func buildObject(o *objectDoc, sym model.Symbol) (model.Object, error) {
	switch o.Kind {
	case "point":
		if len(o.Coords) != 1 {
			return nil, fmt.Errorf("point object needs exactly one coordinate")
		}
		return &model.PointObject{
			Sym:      sym,
			Pos:      buildCoords(o.Coords)[0],
			Rotation: o.Rotation,
		}, nil
	case "path":
		if len(o.Coords) < 2 {
			return nil, fmt.Errorf("path object needs at least two coordinates")
		}
		return &model.PathObject{Sym: sym, Points: buildCoords(o.Coords)}, nil
	case "text":
		if len(o.Coords) != 1 {
			return nil, fmt.Errorf("text object needs exactly one anchor coordinate")
		}
		halign, err := parseHAlign(o.HAlign)
		if err != nil {
			return nil, err
		}
		valign, err := parseVAlign(o.VAlign)
		if err != nil {
			return nil, err
		}
		obj := &model.TextObject{
			Sym:          sym,
			Anchor:       buildCoords(o.Coords)[0],
			Rotation:     o.Rotation,
			HAlign:       halign,
			VAlign:       valign,
			Text:         o.Text,
			SingleAnchor: o.SingleAnchor,
			BoxWidth:     o.BoxWidth,
			BoxHeight:    o.BoxHeight,
		}
		for _, l := range o.Lines {
			obj.Lines = append(obj.Lines, model.TextLineInfo{
				X: l.X, Y: l.Y, Width: l.Width, Ascent: l.Ascent, Descent: l.Descent,
			})
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unknown object kind %q", o.Kind)
	}
}

func buildCoords(docs []coord) []model.MapCoord {
	coords := make([]model.MapCoord, len(docs))
	for i, c := range docs {
		mc := model.MapCoord{X: c.X, Y: c.Y}
		for _, f := range c.Flags {
			switch f {
			case 'd':
				mc.Flags |= model.DashPoint
			case 'c':
				mc.Flags |= model.CurveStart
			case 'h':
				mc.Flags |= model.HolePoint
			}
		}
		coords[i] = mc
	}
	return coords
}

func parseCap(s string) (model.CapStyle, error) {
	switch s {
	case "", "flat":
		return model.FlatCap, nil
	case "round":
		return model.RoundCap, nil
	case "square":
		return model.SquareCap, nil
	case "pointed":
		return model.PointedCap, nil
	}
	return 0, fmt.Errorf("unknown cap style %q", s)
}

func parseJoin(s string) (model.JoinStyle, error) {
	switch s {
	case "", "bevel":
		return model.BevelJoin, nil
	case "miter":
		return model.MiterJoin, nil
	case "round":
		return model.RoundJoin, nil
	}
	return 0, fmt.Errorf("unknown join style %q", s)
}

func parseHAlign(s string) (model.HorizontalAlignment, error) {
	switch s {
	case "", "left":
		return model.AlignLeft, nil
	case "center":
		return model.AlignHCenter, nil
	case "right":
		return model.AlignRight, nil
	case "justified":
		return model.AlignJustified, nil
	}
	return 0, fmt.Errorf("unknown horizontal alignment %q", s)
}

func parseVAlign(s string) (model.VerticalAlignment, error) {
	switch s {
	case "", "baseline":
		return model.AlignBaseline, nil
	case "top":
		return model.AlignTop, nil
	case "center":
		return model.AlignVCenter, nil
	case "bottom":
		return model.AlignBottom, nil
	}
	return 0, fmt.Errorf("unknown vertical alignment %q", s)
}
