package model

// Object is the closed set of map object variants.
type Object interface {
	// Symbol returns the symbol the object is drawn with.
	Symbol() Symbol
	// RawCoords returns the object's coordinate sequence.
	RawCoords() []MapCoord
	// Extent returns the object's bounding rectangle in millimeters.
	Extent() Rect
	// Translated returns a copy of the object moved by -offset native
	// units per axis. The receiver is not modified.
	Translated(offset MapCoord) Object
}

// PointObject places a point symbol at a single position.
type PointObject struct {
	Sym      Symbol
	Pos      MapCoord
	Rotation float64 // radians
}

func (o *PointObject) Symbol() Symbol { return o.Sym }

func (o *PointObject) RawCoords() []MapCoord { return []MapCoord{o.Pos} }

func (o *PointObject) Extent() Rect {
	p := o.Pos.PointF()
	return RectFromPoints(p, p)
}

func (o *PointObject) Translated(offset MapCoord) Object {
	dup := *o
	dup.Pos = dup.Pos.Sub(offset)
	return &dup
}

// PathObject draws a line or area symbol along a coordinate sequence.
type PathObject struct {
	Sym    Symbol
	Points []MapCoord
}

func (o *PathObject) Symbol() Symbol { return o.Sym }

func (o *PathObject) RawCoords() []MapCoord { return o.Points }

func (o *PathObject) Extent() Rect {
	var r Rect
	for _, c := range o.Points {
		r = r.IncludePoint(c.PointF())
	}
	return r
}

func (o *PathObject) Translated(offset MapCoord) Object {
	dup := *o
	dup.Points = make([]MapCoord, len(o.Points))
	for i, c := range o.Points {
		dup.Points[i] = c.Sub(offset)
	}
	return &dup
}

// HorizontalAlignment of a text object.
type HorizontalAlignment int

const (
	AlignLeft HorizontalAlignment = iota
	AlignHCenter
	AlignRight
	AlignJustified
)

// VerticalAlignment of a text object.
type VerticalAlignment int

const (
	AlignBaseline VerticalAlignment = iota
	AlignTop
	AlignVCenter
	AlignBottom
)

// TextLineInfo is the layout of one laid-out text line, in text units
// (millimeters scaled by the symbol's internal scaling).
type TextLineInfo struct {
	X       float64
	Y       float64 // baseline
	Width   float64
	Ascent  float64
	Descent float64
}

// TextObject places text. With SingleAnchor set, the text flows from
// an anchor point; otherwise it is laid out in a box of the given
// size (mm).
type TextObject struct {
	Sym          Symbol // always a *TextSymbol
	Anchor       MapCoord
	Rotation     float64 // radians
	HAlign       HorizontalAlignment
	VAlign       VerticalAlignment
	Text         string
	Lines        []TextLineInfo
	SingleAnchor bool
	BoxWidth     float64
	BoxHeight    float64
}

func (o *TextObject) Symbol() Symbol { return o.Sym }

func (o *TextObject) RawCoords() []MapCoord { return []MapCoord{o.Anchor} }

// TextToMapTransform maps text-unit coordinates to map millimeters.
func (o *TextObject) TextToMapTransform() Transform {
	sym := o.Sym.(*TextSymbol)
	return IdentityTransform().
		Scaled(1 / sym.InternalScaling).
		Rotated(-o.Rotation).
		Translated(o.Anchor.PointF())
}

// MapToTextTransform is the inverse of TextToMapTransform.
func (o *TextObject) MapToTextTransform() Transform {
	return o.TextToMapTransform().Inverted()
}

func (o *TextObject) Extent() Rect {
	var r Rect
	if o.SingleAnchor {
		toMap := o.TextToMapTransform()
		for _, info := range o.Lines {
			r = r.IncludePoint(toMap.Map(PointF{info.X, info.Y - info.Ascent}))
			r = r.IncludePoint(toMap.Map(PointF{info.X + info.Width, info.Y + info.Descent}))
		}
		if !r.IsValid() {
			p := o.Anchor.PointF()
			r = RectFromPoints(p, p)
		}
		return r
	}
	transform := IdentityTransform().Rotated(-o.Rotation)
	anchor := o.Anchor.PointF()
	for _, corner := range []PointF{
		{-o.BoxWidth / 2, -o.BoxHeight / 2},
		{o.BoxWidth / 2, -o.BoxHeight / 2},
		{o.BoxWidth / 2, o.BoxHeight / 2},
		{-o.BoxWidth / 2, o.BoxHeight / 2},
	} {
		r = r.IncludePoint(transform.Map(corner).Add(anchor))
	}
	return r
}

func (o *TextObject) Translated(offset MapCoord) Object {
	dup := *o
	dup.Anchor = dup.Anchor.Sub(offset)
	return &dup
}
