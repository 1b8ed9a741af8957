package ocd

import (
	"unicode/utf16"

	"github.com/omaptools/ocdconv/internal/model"
)

// Object record types.
const (
	objectTypePoint      = 1
	objectTypeLine       = 2
	objectTypeArea       = 3
	objectTypeText       = 4 // anchored text
	objectTypeFormatText = 5 // text in a box
)

// Object text payload limits: chunks of eight coordinate slots, up to
// 128 chunks.
const (
	textChunkSize = ocdPointSize * 8
	textMaxChunks = 1024 / 8
)

// convertCoordinates converts a coordinate sequence to wire points
// with flags. The curve flags trail the marking point: the point after
// a curve start is the first control point, the one after that the
// second. Dash points on a dashed line without a corner-point symbol
// become dash flags, corner flags otherwise.
func convertCoordinates(coords []model.MapCoord, sym model.Symbol) []ocdPoint {
	var dashAsDash bool
	if line, ok := sym.(*model.LineSymbol); ok {
		dashAsDash = line.DashSymbol.IsEmpty() && line.Dashed
	}

	pts := make([]ocdPoint, 0, len(coords))
	curveStart := false
	curveContinue := false
	holePoint := false
	for _, c := range coords {
		p := convertCoord(c)
		if c.IsDashPoint() {
			if dashAsDash {
				p.Y |= flagDash
			} else {
				p.Y |= flagCorner
			}
		}
		if curveStart {
			p.X |= flagCtl1
		}
		if holePoint {
			p.Y |= flagHole
		}
		if curveContinue {
			p.X |= flagCtl2
		}

		curveContinue = curveStart
		curveStart = c.IsCurveStart()
		holePoint = c.IsHolePoint()

		pts = append(pts, p)
	}
	return pts
}

// exportObject serializes one object and its index entry. It reports
// ok=false for objects whose symbol could not be exported.
func (s *session) exportObject(obj model.Object) (objectIndexEntry, []byte, bool) {
	var entry objectIndexEntry
	var number uint32
	var objType uint8
	var angle int16

	switch o := obj.(type) {
	case *model.PointObject:
		n, ok := s.symbolNumbers[o.Sym]
		if !ok {
			return entry, nil, false
		}
		number = n
		objType = objectTypePoint
		angle = int16(convertRotation(o.Rotation))

	case *model.PathObject:
		n, ok := s.symbolNumbers[o.Sym]
		if !ok {
			return entry, nil, false
		}
		number = n
		if s.areaLike(o.Sym) {
			objType = objectTypeArea
		} else {
			objType = objectTypeLine
		}

	case *model.TextObject:
		textSym, ok := o.Sym.(*model.TextSymbol)
		if !ok {
			return entry, nil, false
		}
		n, ok := s.findTextFormat(textSym, o.HAlign)
		if !ok {
			return entry, nil, false
		}
		number = n
		if o.SingleAnchor {
			objType = objectTypeText
		} else {
			objType = objectTypeFormatText
		}
		angle = int16(convertRotation(o.Rotation))

	default:
		return entry, nil, false
	}

	entry.symbol = int32(number)
	extent := obj.Extent()
	entry.lowerLeft = convertPointF(extent.BottomLeft())
	entry.upperRight = convertPointF(extent.TopRight())
	entry.objType = objType
	entry.status = objectNormal

	var items []ocdPoint
	var textData []byte
	switch objType {
	case objectTypeText:
		text := obj.(*model.TextObject)
		if len(text.Lines) > 0 {
			items = textCoordinatesSingle(text)
			textData = s.exportTextData(text.Text)
		}
	case objectTypeFormatText:
		text := obj.(*model.TextObject)
		if len(text.Lines) > 0 {
			items = textCoordinatesBox(text)
			textData = s.exportTextData(text.Text)
		}
	default:
		items = convertCoordinates(obj.RawCoords(), symbolOf(obj))
	}

	w := &recordWriter{}
	if s.traits.version == 8 {
		unicode := uint8(0)
		if objType == objectTypeText || objType == objectTypeFormatText {
			unicode = 1
		}
		w.u16(uint16(number))
		w.u8(objType)
		w.u8(unicode)
		w.u16(uint16(len(items)))
		w.u16(uint16(len(textData) / ocdPointSize))
		w.i16(angle)
		w.u16(0)
		w.u32(0)
	} else {
		w.i32(int32(number))
		w.u8(objType)
		w.u8(0) // reserved for custom symbols
		w.i16(angle)
		w.u32(uint32(len(items)))
		w.u16(uint16(len(textData) / ocdPointSize))
		w.u16(0)
	}
	w.points(items)
	w.raw(textData)

	return entry, w.bytes(), true
}

func symbolOf(obj model.Object) model.Symbol {
	if obj == nil {
		return nil
	}
	return obj.Symbol()
}

// areaLike reports whether a path object with this symbol is an area
// object on the wire.
func (s *session) areaLike(sym model.Symbol) bool {
	switch t := sym.(type) {
	case *model.AreaSymbol:
		return true
	case *model.CombinedSymbol:
		for _, part := range t.Parts {
			if part != nil && s.areaLike(part) {
				return true
			}
		}
	}
	return false
}

// textCoordinatesSingle produces the five coordinates of anchored
// text: the baseline anchor of the first line, then the four corners
// of the laid-out bounding box, bottom first.
func textCoordinatesSingle(text *model.TextObject) []ocdPoint {
	toMap := text.TextToMapTransform()
	toText := text.MapToTextTransform()

	anchorText := toText.Map(text.Anchor.PointF())
	line0 := text.Lines[0]

	var box model.Rect
	for _, info := range text.Lines {
		box = box.IncludePoint(model.PointF{X: info.X, Y: info.Y - info.Ascent})
		box = box.IncludePoint(model.PointF{X: info.X + info.Width, Y: info.Y + info.Descent})
	}

	return []ocdPoint{
		convertPointF(toMap.Map(model.PointF{X: anchorText.X, Y: line0.Y})),
		convertPointF(toMap.Map(box.BottomLeft())),
		convertPointF(toMap.Map(box.BottomRight())),
		convertPointF(toMap.Map(box.TopRight())),
		convertPointF(toMap.Map(box.TopLeft())),
	}
}

// textCoordinatesBox produces the four corners of a text box. The wire
// format only supports top vertical alignment, so for other alignments
// the top edge moves to the top of the first laid-out line, adjusted
// for the font's internal leading.
func textCoordinatesBox(text *model.TextObject) []ocdPoint {
	sym := text.Sym.(*model.TextSymbol)
	metrics := sym.Metrics
	internalScaling := sym.InternalScaling
	line0 := text.Lines[0]

	newTop := (line0.Y - line0.Ascent) / internalScaling
	if text.VAlign == model.AlignTop {
		newTop = -text.BoxHeight / 2
	}
	topAdjust := -sym.FontSize + (metrics.Ascent+metrics.Descent+0.5)/internalScaling
	newTop -= topAdjust

	transform := model.IdentityTransform().Rotated(-text.Rotation)
	anchor := text.Anchor.PointF()
	corner := func(p model.PointF) ocdPoint {
		return convertPointF(transform.Map(p).Add(anchor))
	}

	return []ocdPoint{
		corner(model.PointF{X: -text.BoxWidth / 2, Y: text.BoxHeight / 2}),
		corner(model.PointF{X: text.BoxWidth / 2, Y: text.BoxHeight / 2}),
		corner(model.PointF{X: text.BoxWidth / 2, Y: newTop}),
		corner(model.PointF{X: -text.BoxWidth / 2, Y: newTop}),
	}
}

// exportTextData encodes object text as UTF-16LE, zero-padded to a
// multiple of the chunk size and truncated at the payload limit
// without splitting a surrogate pair.
func (s *session) exportTextData(text string) []byte {
	maxSize := textChunkSize * textMaxChunks

	// A leading newline is doubled, and line breaks become CR LF.
	if len(text) > 0 && text[0] == '\n' {
		text = "\n" + text
	}
	converted := make([]rune, 0, len(text)+8)
	for _, r := range text {
		if r == '\n' {
			converted = append(converted, '\r', '\n')
		} else {
			converted = append(converted, r)
		}
	}

	units := utf16.Encode(converted)
	if 2*len(units) >= maxSize {
		truncated, _ := truncateUTF16(units, (maxSize-1)/2)
		s.warnf("Text truncated at '|': %s",
			string(utf16.Decode(truncated))+"|"+string(utf16.Decode(units[len(truncated):])))
		units = truncated
	}

	textSize := 2 * len(units)
	padded := textSize + (maxSize-textSize)%textChunkSize
	out := make([]byte, padded)
	for i, u := range units {
		out[2*i] = byte(u)
		out[2*i+1] = byte(u >> 8)
	}
	return out
}
