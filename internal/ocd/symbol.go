package ocd

import (
	"math"

	"github.com/omaptools/ocdconv/internal/model"
)

// symbolIdent carries the identity fields written into a symbol
// record. Decomposed combined symbols export their parts under the
// combination's identity, so these fields travel separately from the
// symbol payload.
type symbolIdent struct {
	name      string
	number    [2]int
	hidden    bool
	protected bool
}

func identOf(sym model.Symbol) symbolIdent {
	b := sym.Base()
	return symbolIdent{
		name:      b.Name,
		number:    b.Number,
		hidden:    b.Hidden,
		protected: b.Protected,
	}
}

// baseSymbol is the version-independent view of the fields shared by
// all symbol record types.
type baseSymbol struct {
	number  uint32
	symType uint8
	type2   uint8 // second type byte, marks text symbols in v8
	flags   uint8
	status  uint8
	extent  int32

	colors    []uint32
	numColors int16

	description string
	icon        []byte
}

// setupBaseSymbol assigns a unique wire number from the identity,
// collects the used-color bit set and renders the icon. colorSource is
// the symbol whose colors and shape define the record; keys are the
// map symbols that should resolve to the assigned number later.
func (s *session) setupBaseSymbol(colorSource model.Symbol, ident symbolIdent, keys ...model.Symbol) *baseSymbol {
	b := &baseSymbol{description: ident.name}

	number := uint32(ident.number[0]) * s.traits.symbolNumberFactor
	if ident.number[1] >= 0 {
		number += uint32(ident.number[1]) % s.traits.symbolNumberFactor
	}
	// Symbol number 0.0 is not valid.
	if number == 0 {
		number = 1
	}
	for s.usedNumbers[number] {
		number++
	}
	s.usedNumbers[number] = true
	for _, key := range keys {
		s.symbolNumbers[key] = number
	}
	b.number = number

	if ident.protected {
		b.status |= symbolProtected
	}
	if ident.hidden {
		b.status |= symbolHidden
	}

	// Set of used colors. Bit positions match the wire color numbers,
	// including the shift caused by an injected registration color.
	wordCount := 14
	if s.traits.version == 8 {
		wordCount = 8
	}
	b.colors = make([]uint32, wordCount)
	bit := 0
	setBit := func() {
		if bit < 32*wordCount {
			b.colors[bit/32] |= 1 << (bit % 32)
			b.numColors++
		}
	}
	if s.usesRegistration {
		if colorSource.UsesColor(model.RegistrationColor()) {
			setBit()
		}
		bit++
	}
	for _, c := range s.mapData.Colors {
		if colorSource.UsesColor(c) {
			setBit()
		}
		bit++
	}

	img := s.icons.RenderIcon(colorSource, s.traits.iconBytes != 264)
	if s.traits.iconBytes == 264 {
		b.icon = encodeIconV6(img)
	} else {
		b.icon = encodeIconV9(img)
	}

	return b
}

// writeBaseSymbol serializes the shared record head and returns the
// position of the size field for later patching.
func (s *session) writeBaseSymbol(w *recordWriter, b *baseSymbol) (sizePos int) {
	if s.traits.version == 8 {
		sizePos = w.pos()
		w.u16(0) // record size, patched
		w.u16(uint16(b.number))
		w.u8(b.symType)
		w.u8(b.type2)
		w.u8(b.flags)
		w.u8(b.status)
		w.i16(int16(b.extent))
		w.u32(0) // file position, set by the reader
		for _, word := range b.colors {
			w.u32(word)
		}
		w.pascal(s.encodeName(b.description), 32)
		w.raw(b.icon)
		return sizePos
	}

	sizePos = w.pos()
	w.i32(0) // record size, patched
	w.u32(b.number)
	w.u8(b.symType)
	w.u8(b.flags)
	w.u8(b.status)
	w.u8(0) // preferred drawing tool
	w.i32(b.extent)
	w.u32(0) // file position, set by the reader
	w.u16(0) // group
	w.i16(b.numColors)
	for _, word := range b.colors {
		w.u32(word)
	}
	w.fixedBytes(utf16Field(b.description, 64), 64)
	w.raw(b.icon)
	return sizePos
}

// finishSymbol patches the record size to the final byte count.
func (s *session) finishSymbol(w *recordWriter, sizePos int) []byte {
	if s.traits.version == 8 {
		w.patchU16(sizePos, uint16(w.pos()))
	} else {
		w.patchI32(sizePos, int32(w.pos()))
	}
	return w.bytes()
}

// getPatternSize returns the byte size of the serialized pattern of a
// point symbol: per drawable primitive two slots for the element
// header plus one per coordinate.
func getPatternSize(point *model.PointSymbol) int {
	if point == nil {
		return 0
	}

	count := 0
	for _, e := range point.Elements {
		factor := 1
		if ps, ok := e.Symbol.(*model.PointSymbol); ok {
			factor = 0
			if ps.InnerRadius > 0 && ps.InnerColor != nil {
				factor++
			}
			if ps.OuterWidth > 0 && ps.OuterColor != nil {
				factor++
			}
		}
		count += factor * (2 + len(e.Coords))
	}
	if point.InnerRadius > 0 && point.InnerColor != nil {
		count += 2 + 1
	}
	if point.OuterWidth > 0 && point.OuterColor != nil {
		count += 2 + 1
	}

	return count * ocdPointSize
}

// getPointSymbolExtent estimates the drawing extent of a point symbol
// in wire size units.
func getPointSymbolExtent(sym *model.PointSymbol) uint16 {
	if sym == nil {
		return 0
	}

	var extent model.Rect
	for _, e := range sym.Elements {
		radius := 0.0
		switch es := e.Symbol.(type) {
		case *model.LineSymbol:
			radius = float64(es.LineWidth) / 2000
		case *model.PointSymbol:
			r := 0
			if es.InnerColor != nil {
				r = es.InnerRadius
			}
			if es.OuterColor != nil && es.InnerRadius+es.OuterWidth > r {
				r = es.InnerRadius + es.OuterWidth
			}
			radius = float64(r) / 1000
		}
		coords := e.Coords
		if len(coords) == 0 {
			coords = []model.MapCoord{{}}
		}
		for _, c := range coords {
			p := c.PointF()
			extent = extent.IncludePoint(model.PointF{X: p.X - radius, Y: p.Y - radius})
			extent = extent.IncludePoint(model.PointF{X: p.X + radius, Y: p.Y + radius})
		}
	}

	extentF := 0.0
	if extent.IsValid() {
		extentF = 0.5 * math.Max(extent.Width(), extent.Height())
	}
	if sym.InnerColor != nil {
		extentF = math.Max(extentF, 0.001*float64(sym.InnerRadius))
	}
	if sym.OuterColor != nil {
		extentF = math.Max(extentF, 0.001*float64(sym.InnerRadius+sym.OuterWidth))
	}
	return uint16(convertSize(int(math.Round(math.Max(0, 1000*extentF)))))
}

// patternElement is the 16-byte header preceding the coordinates of
// one pattern primitive.
type patternElement struct {
	elemType  int16
	flags     uint16
	color     uint16
	lineWidth int16
	diameter  int16
}

func writePatternElement(w *recordWriter, el patternElement, pts []ocdPoint) {
	w.i16(el.elemType)
	w.u16(el.flags)
	w.u16(el.color)
	w.i16(el.lineWidth)
	w.i16(el.diameter)
	w.i16(int16(len(pts)))
	w.u32(0)
	w.points(pts)
}

// exportPattern serializes the drawing primitives of a point symbol:
// the origin's dot and ring first, then every pattern element.
func (s *session) exportPattern(point *model.PointSymbol, w *recordWriter) int16 {
	if point == nil {
		return 0
	}

	numCoords := s.exportSubPattern([]model.MapCoord{{}}, point, w)
	for _, e := range point.Elements {
		numCoords += s.exportSubPattern(e.Coords, e.Symbol, w)
	}
	return numCoords
}

func (s *session) exportSubPattern(coords []model.MapCoord, sym model.Symbol, w *recordWriter) int16 {
	var numCoords int16

	switch es := sym.(type) {
	case *model.PointSymbol:
		if es.InnerRadius > 0 && es.InnerColor != nil {
			pts := convertCoordinates(coords, sym)
			writePatternElement(w, patternElement{
				elemType: elementTypeDot,
				color:    s.convertColor(es.InnerColor),
				diameter: int16(convertSize(2 * es.InnerRadius)),
			}, pts)
			numCoords += 2 + int16(len(pts))
		}
		if es.OuterWidth > 0 && es.OuterColor != nil {
			diameter := 2*es.InnerRadius + es.OuterWidth
			if s.traits.version <= 8 {
				diameter = 2*es.InnerRadius + 2*es.OuterWidth
			}
			pts := convertCoordinates(coords, sym)
			writePatternElement(w, patternElement{
				elemType:  elementTypeCircle,
				color:     s.convertColor(es.OuterColor),
				lineWidth: int16(convertSize(es.OuterWidth)),
				diameter:  int16(convertSize(diameter)),
			}, pts)
			numCoords += 2 + int16(len(pts))
		}

	case *model.LineSymbol:
		var flags uint16
		if es.Cap == model.RoundCap {
			flags |= 1
		} else if es.Join == model.MiterJoin {
			flags |= 4
		}
		pts := convertCoordinates(coords, sym)
		writePatternElement(w, patternElement{
			elemType:  elementTypeLine,
			flags:     flags,
			color:     s.convertColor(es.Color),
			lineWidth: int16(convertSize(es.LineWidth)),
		}, pts)
		numCoords += 2 + int16(len(pts))

	case *model.AreaSymbol:
		pts := convertCoordinates(coords, sym)
		writePatternElement(w, patternElement{
			elemType: elementTypeArea,
			color:    s.convertColor(es.Color),
		}, pts)
		numCoords += 2 + int16(len(pts))
	}

	return numCoords
}

func (s *session) exportPointSymbol(sym *model.PointSymbol, ident symbolIdent, keys ...model.Symbol) []byte {
	base := s.setupBaseSymbol(sym, ident, keys...)
	base.symType = symbolTypePoint
	base.extent = int32(getPointSymbolExtent(sym))
	if base.extent <= 0 {
		base.extent = 100
	}
	if sym.Rotatable {
		base.flags |= 1
	}

	patternSize := getPatternSize(sym)
	w := &recordWriter{}
	sizePos := s.writeBaseSymbol(w, base)
	w.u16(uint16(patternSize / ocdPointSize))
	w.u16(0)
	s.exportPattern(sym, w)
	return s.finishSymbol(w, sizePos)
}

// areaCommon is the version-independent area symbol payload.
type areaCommon struct {
	fillOn    uint8
	borderOn  uint8
	fillColor uint16

	hatchMode      uint16
	hatchColor     uint16
	hatchLineWidth uint16
	hatchDist      uint16
	hatchAngle1    int16
	hatchAngle2    int16

	structureMode   uint16
	structureWidth  uint16
	structureHeight uint16
	structureAngle  int16
}

// areaSymbolRecord is a prepared area symbol, kept mutable so a
// combined symbol can attach a border before serialization.
type areaSymbolRecord struct {
	base          *baseSymbol
	common        areaCommon
	patternSymbol *model.PointSymbol
	borderSymbol  uint32
}

func (s *session) buildAreaSymbol(sym *model.AreaSymbol, ident symbolIdent, keys ...model.Symbol) *areaSymbolRecord {
	r := &areaSymbolRecord{base: s.setupBaseSymbol(sym, ident, keys...)}
	r.base.symType = symbolTypeArea
	r.base.flags = s.exportAreaSymbolCommon(sym, &r.common, &r.patternSymbol)
	return r
}

// exportAreaSymbolCommon maps the symbol's ordered fill patterns onto
// the fixed hatching and structure slots of the wire format. At most
// two same-color line patterns (cross hatching) and one point pattern
// survive; everything else is dropped with a warning.
func (s *session) exportAreaSymbolCommon(sym *model.AreaSymbol, common *areaCommon, patternSymbol **model.PointSymbol) uint8 {
	if sym.Color != nil {
		common.fillOn = 1
		common.fillColor = s.convertColor(sym.Color)
	}

	var flags uint8
	for _, pattern := range sym.Patterns {
		switch pattern.Type {
		case model.LinePattern:
			switch common.hatchMode {
			case hatchNone:
				common.hatchMode = hatchSingle
				common.hatchColor = s.convertColor(pattern.LineColor)
				common.hatchLineWidth = uint16(convertSize(pattern.LineWidth))
				if s.traits.version <= 8 {
					common.hatchDist = uint16(convertSize(pattern.LineSpacing - pattern.LineWidth))
				} else {
					common.hatchDist = uint16(convertSize(pattern.LineSpacing))
				}
				common.hatchAngle1 = int16(convertRotation(pattern.Angle))
				if pattern.Rotatable {
					flags |= 1
				}
			case hatchSingle:
				if common.hatchColor == s.convertColor(pattern.LineColor) {
					common.hatchMode = hatchCross
					common.hatchLineWidth = (common.hatchLineWidth + uint16(convertSize(pattern.LineWidth))) / 2
					common.hatchDist = (common.hatchDist + uint16(convertSize(pattern.LineSpacing-pattern.LineWidth))) / 2
					common.hatchAngle2 = int16(convertRotation(pattern.Angle))
					if pattern.Rotatable {
						flags |= 1
					}
					break
				}
				fallthrough
			default:
				s.warnf("In area symbol \"%s\", skipping a fill pattern.", sym.Name)
			}

		case model.PointPattern:
			switch common.structureMode {
			case structureNone:
				common.structureMode = structureAlignedRows
				common.structureWidth = uint16(convertSize(pattern.PointDistance))
				common.structureHeight = uint16(convertSize(pattern.LineSpacing))
				common.structureAngle = int16(convertRotation(pattern.Angle))
				*patternSymbol = pattern.Point
				if pattern.Rotatable {
					flags |= 1
				}
			case structureAlignedRows:
				common.structureMode = structureShiftedRows
				// This is a heuristic which works for the orienteering
				// symbol sets, not a general conversion.
				s.warnf("In area symbol \"%s\", assuming a \"shifted rows\" point pattern. This might be correct as well as incorrect.", sym.Name)
				if pattern.LineOffset != 0 {
					common.structureHeight /= 2
				} else {
					common.structureWidth /= 2
				}
			default:
				s.warnf("In area symbol \"%s\", skipping a fill pattern.", sym.Name)
			}
		}
	}
	return flags
}

func (s *session) serializeAreaSymbol(r *areaSymbolRecord) []byte {
	patternSize := getPatternSize(r.patternSymbol)

	w := &recordWriter{}
	sizePos := s.writeBaseSymbol(w, r.base)
	w.u8(r.common.fillOn)
	w.u8(r.common.borderOn)
	w.u16(r.common.fillColor)
	w.u16(r.common.hatchMode)
	w.u16(r.common.hatchColor)
	w.u16(r.common.hatchLineWidth)
	w.u16(r.common.hatchDist)
	w.i16(r.common.hatchAngle1)
	w.i16(r.common.hatchAngle2)
	w.u16(r.common.structureMode)
	w.u16(r.common.structureWidth)
	w.u16(r.common.structureHeight)
	w.i16(r.common.structureAngle)
	w.u16(uint16(patternSize / ocdPointSize))
	if s.traits.version >= 9 {
		w.u32(r.borderSymbol)
	}
	s.exportPattern(r.patternSymbol, w)
	return s.finishSymbol(w, sizePos)
}

func (s *session) exportAreaSymbol(sym *model.AreaSymbol, ident symbolIdent, keys ...model.Symbol) []byte {
	return s.serializeAreaSymbol(s.buildAreaSymbol(sym, ident, keys...))
}

// lineCommon is the version-independent line symbol payload.
type lineCommon struct {
	lineColor uint16
	lineWidth uint16
	lineStyle uint16

	distFromStart uint16
	distFromEnd   uint16

	mainLength uint16
	endLength  uint16
	mainGap    uint16
	secGap     uint16
	endGap     uint16

	minSym      int16
	numPrimSym  uint16
	primSymDist uint16

	doubleMode       uint16
	doubleFlags      uint16
	doubleColor      uint16
	doubleWidth      int16
	doubleLeftWidth  uint16
	doubleRightWidth uint16
	doubleLeftColor  uint16
	doubleRightColor uint16
	doubleLength     uint16
	doubleGap        uint16

	framingColor uint16
	framingStyle uint16
	framingWidth uint16

	activeSymbols uint16

	primaryDataSize   uint16
	secondaryDataSize uint16
	cornerDataSize    uint16
	startDataSize     uint16
	endDataSize       uint16
}

// lineSymbolRecord is a prepared line symbol, kept mutable so a
// combined symbol can attach framing and double-line filling before
// serialization.
type lineSymbolRecord struct {
	base   *baseSymbol
	common lineCommon
	sym    *model.LineSymbol
}

func (s *session) buildLineSymbol(sym *model.LineSymbol, ident symbolIdent, keys ...model.Symbol) *lineSymbolRecord {
	r := &lineSymbolRecord{base: s.setupBaseSymbol(sym, ident, keys...), sym: sym}
	r.base.symType = symbolTypeLine

	extent := uint16(convertSize(sym.LineWidth / 2))
	if sym.HasBorder() {
		shift := sym.Border.Shift + sym.Border.Width/2
		if shift > 0 {
			extent += uint16(convertSize(shift))
		}
	}
	for _, p := range []*model.PointSymbol{sym.StartSymbol, sym.EndSymbol, sym.MidSymbol, sym.DashSymbol} {
		if e := getPointSymbolExtent(p); e > extent {
			extent = e
		}
	}
	r.base.extent = int32(extent)

	s.exportLineSymbolCommon(sym, &r.common)
	return r
}

func (s *session) exportLineSymbolCommon(sym *model.LineSymbol, common *lineCommon) {
	if sym.Color != nil {
		common.lineColor = s.convertColor(sym.Color)
		common.lineWidth = uint16(convertSize(sym.LineWidth))
	}

	common.lineStyle = s.convertCapJoin(sym.Cap, sym.Join, sym.Name)
	if sym.Cap == model.PointedCap {
		common.distFromStart = uint16(convertSize(sym.PointedCapLength))
		common.distFromEnd = uint16(convertSize(sym.PointedCapLength))
	}

	// Dash pattern
	if sym.Dashed {
		switch {
		case sym.MidSymbol != nil && !sym.MidSymbol.IsEmpty():
			if sym.DashesInGroup > 1 {
				s.warnf("In line symbol \"%s\", neglecting the dash grouping.", sym.Name)
			}
			common.mainLength = uint16(convertSize(sym.DashLength + sym.BreakLength))
			common.endLength = common.mainLength / 2
			common.mainGap = uint16(convertSize(sym.BreakLength))
		case sym.DashesInGroup > 1:
			if sym.DashesInGroup > 2 {
				s.warnf("In line symbol \"%s\", the number of dashes in a group has been reduced to 2.", sym.Name)
			}
			common.mainLength = uint16(convertSize(2*sym.DashLength + sym.InGroupBreakLength))
			common.endLength = common.mainLength
			common.mainGap = uint16(convertSize(sym.BreakLength))
			common.secGap = uint16(convertSize(sym.InGroupBreakLength))
			common.endGap = common.secGap
		default:
			common.mainLength = uint16(convertSize(sym.DashLength))
			common.endLength = common.mainLength
			if sym.HalfOuterDashes {
				common.endLength = common.mainLength / 2
			}
			common.mainGap = uint16(convertSize(sym.BreakLength))
		}
	} else {
		common.mainLength = uint16(convertSize(sym.SegmentLength))
		common.endLength = uint16(convertSize(sym.EndLength))
	}

	// Double line
	if sym.HasBorder() {
		s.exportLineBorders(sym.Border, sym.RightBorder, sym.LineWidth, sym.Name, common)
	}

	common.minSym = -1
	if sym.ShowAtLeastOneSymbol {
		common.minSym = 0
	}
	common.numPrimSym = uint16(sym.MidSymbolsPerSpot)
	common.primSymDist = uint16(convertSize(sym.MidSymbolDistance))

	common.primaryDataSize = uint16(getPatternSize(sym.MidSymbol) / ocdPointSize)
	common.secondaryDataSize = 0
	common.cornerDataSize = uint16(getPatternSize(sym.DashSymbol) / ocdPointSize)
	common.startDataSize = uint16(getPatternSize(sym.StartSymbol) / ocdPointSize)
	common.endDataSize = uint16(getPatternSize(sym.EndSymbol) / ocdPointSize)
}

// exportLineBorders fills the double line slots from a symbol's
// borders. Asymmetric dashing cannot be represented exactly.
func (s *session) exportLineBorders(border, rightBorder model.LineBorder, lineWidth int, name string, common *lineCommon) {
	common.doubleWidth = int16(convertSize(lineWidth - border.Width + 2*border.Shift))
	if border.Dashed && !rightBorder.Dashed {
		common.doubleMode = 2
	} else if border.Dashed {
		common.doubleMode = 3
	} else {
		common.doubleMode = 1
	}

	common.doubleLeftWidth = uint16(convertSize(border.Width))
	common.doubleRightWidth = uint16(convertSize(rightBorder.Width))
	common.doubleLeftColor = s.convertColor(border.Color)
	common.doubleRightColor = s.convertColor(rightBorder.Color)

	if border.Dashed {
		common.doubleLength = uint16(convertSize(border.DashLength))
		common.doubleGap = uint16(convertSize(border.BreakLength))
	} else if rightBorder.Dashed {
		common.doubleLength = uint16(convertSize(rightBorder.DashLength))
		common.doubleGap = uint16(convertSize(rightBorder.BreakLength))
	}

	mismatchedDashes := border.Dashed && rightBorder.Dashed &&
		(border.DashLength != rightBorder.DashLength || border.BreakLength != rightBorder.BreakLength)
	if mismatchedDashes || (!border.Dashed && rightBorder.Dashed) {
		s.warnf("In line symbol \"%s\", cannot export the borders correctly.", name)
	}
}

// convertCapJoin maps a cap/join pair onto the supported wire styles,
// falling back to a cap-only choice with a warning.
func (s *session) convertCapJoin(capStyle model.CapStyle, join model.JoinStyle, name string) uint16 {
	switch {
	case capStyle == model.FlatCap && join == model.BevelJoin:
		return 0
	case capStyle == model.RoundCap && join == model.RoundJoin:
		return 1
	case capStyle == model.PointedCap && join == model.BevelJoin:
		return 2
	case capStyle == model.PointedCap && join == model.RoundJoin:
		return 3
	case capStyle == model.FlatCap && join == model.MiterJoin:
		return 4
	case capStyle == model.PointedCap && join == model.MiterJoin:
		return 6
	}

	s.warnf("In line symbol \"%s\", cannot represent cap/join combination.", name)
	switch capStyle {
	case model.RoundCap:
		return 1
	case model.PointedCap:
		return 3
	default: // flat and square caps
		return 0
	}
}

func (s *session) serializeLineSymbol(r *lineSymbolRecord) []byte {
	common := &r.common
	if s.traits.hasActiveSymbols {
		if common.secondaryDataSize != 0 {
			common.activeSymbols |= 0x08
		}
		if common.cornerDataSize != 0 {
			common.activeSymbols |= 0x04
		}
		if common.startDataSize != 0 {
			common.activeSymbols |= 0x02
		}
		if common.endDataSize != 0 {
			common.activeSymbols |= 0x01
		}
	}

	w := &recordWriter{}
	sizePos := s.writeBaseSymbol(w, r.base)
	w.u16(common.lineColor)
	w.u16(common.lineWidth)
	w.u16(common.lineStyle)
	w.u16(common.distFromStart)
	w.u16(common.distFromEnd)
	w.u16(common.mainLength)
	w.u16(common.endLength)
	w.u16(common.mainGap)
	w.u16(common.secGap)
	w.u16(common.endGap)
	w.i16(common.minSym)
	w.u16(common.numPrimSym)
	w.u16(common.primSymDist)
	w.u16(common.doubleMode)
	w.u16(common.doubleFlags)
	w.u16(common.doubleColor)
	w.i16(common.doubleWidth)
	w.u16(common.doubleLeftWidth)
	w.u16(common.doubleRightWidth)
	w.u16(common.doubleLeftColor)
	w.u16(common.doubleRightColor)
	w.u16(common.doubleLength)
	w.u16(common.doubleGap)
	w.u16(common.framingColor)
	w.u16(common.framingStyle)
	w.u16(common.framingWidth)
	w.u16(common.activeSymbols)
	w.u16(common.primaryDataSize)
	w.u16(common.secondaryDataSize)
	w.u16(common.cornerDataSize)
	w.u16(common.startDataSize)
	w.u16(common.endDataSize)
	s.exportPattern(r.sym.MidSymbol, w)
	s.exportPattern(r.sym.DashSymbol, w)
	s.exportPattern(r.sym.StartSymbol, w)
	s.exportPattern(r.sym.EndSymbol, w)
	return s.finishSymbol(w, sizePos)
}

func (s *session) exportLineSymbol(sym *model.LineSymbol, ident symbolIdent, keys ...model.Symbol) []byte {
	return s.serializeLineSymbol(s.buildLineSymbol(sym, ident, keys...))
}
