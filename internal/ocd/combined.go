package ocd

import "github.com/omaptools/ocdconv/internal/model"

// exportCombinedSymbol decomposes a combined symbol into the wire
// format's fixed shapes: a single part re-exported as itself, an area
// with border (since v9), or a main line with framing and optionally a
// filled double line. Combinations outside these shapes are dropped
// with a warning; objects referencing them are skipped later.
func (s *session) exportCombinedSymbol(sym *model.CombinedSymbol) {
	numParts := 0
	var parts [3]model.Symbol
	for _, p := range sym.Parts {
		if p != nil {
			if numParts < 3 {
				parts[numParts] = p
			}
			numParts++
		}
	}

	ident := identOf(sym)

	switch numParts {
	case 1:
		// Single part: export just this part under the combined
		// symbol's identity, if sufficient.
		switch part := parts[0].(type) {
		case *model.AreaSymbol:
			s.file.addSymbol(s.exportAreaSymbol(part, ident, sym))
			return
		case *model.LineSymbol:
			s.file.addSymbol(s.exportLineSymbol(part, ident, sym))
			return
		}

	case 2, 3:
		_, line0 := parts[0].(*model.LineSymbol)
		_, line1 := parts[1].(*model.LineSymbol)
		if !line0 && !line1 {
			break
		}
		if _, area1 := parts[1].(*model.AreaSymbol); area1 {
			parts[0], parts[1] = parts[1], parts[0]
		}
		if area, ok := parts[0].(*model.AreaSymbol); ok {
			if s.traits.version < 9 || numParts != 2 {
				break
			}
			s.exportBorderedArea(sym, ident, area, parts[1].(*model.LineSymbol))
			return
		}
		if s.exportFramedLine(sym, ident, parts, numParts) {
			return
		}
	}

	s.warnf("Unhandled combined symbol: %s", sym.Name)
}

// exportBorderedArea exports an area part with parts[1] as its border
// line. A border private to the combination gets a derived identity;
// a border that is also a map symbol keeps its own and is skipped by
// the main symbol loop later.
func (s *session) exportBorderedArea(sym *model.CombinedSymbol, ident symbolIdent, area *model.AreaSymbol, border *model.LineSymbol) {
	if _, exported := s.symbolNumbers[border]; !exported {
		borderIdent := identOf(border)
		for i, part := range sym.Parts {
			if part == model.Symbol(border) && sym.IsPartPrivate(i) {
				borderIdent = ident
				borderIdent.name = "Border of " + ident.name
				borderIdent.number[1] = ident.number[1] + 1
				break
			}
		}
		s.file.addSymbol(s.exportLineSymbol(border, borderIdent, border))
	}

	record := s.buildAreaSymbol(area, ident, sym)
	record.common.borderOn = 1
	record.borderSymbol = s.symbolNumbers[border]
	s.file.addSymbol(s.serializeAreaSymbol(record))
}

// maybeFraming reports whether a line could serve as the framing line
// of a combined line symbol.
func maybeFraming(line *model.LineSymbol) bool {
	return !line.HasBorder() &&
		!line.Dashed &&
		line.Cap != model.PointedCap &&
		line.DashSymbol.IsEmpty() &&
		line.MidSymbol.IsEmpty() &&
		line.StartSymbol.IsEmpty() &&
		line.EndSymbol.IsEmpty()
}

// maybeDoubleFilling reports whether a line could serve as the filled
// double line of a combined line symbol.
func maybeDoubleFilling(line *model.LineSymbol) bool {
	return line.HasBorder() &&
		line.LineWidth > 0 && line.Color != nil &&
		line.Cap != model.PointedCap &&
		line.DashSymbol.IsEmpty() &&
		line.MidSymbol.IsEmpty() &&
		line.StartSymbol.IsEmpty() &&
		line.EndSymbol.IsEmpty()
}

func (s *session) exportFramedLine(sym *model.CombinedSymbol, ident symbolIdent, parts [3]model.Symbol, numParts int) bool {
	lines := [3]*model.LineSymbol{}
	for i := 0; i < numParts; i++ {
		line, ok := parts[i].(*model.LineSymbol)
		if !ok {
			return false
		}
		lines[i] = line
	}

	if numParts == 3 && !maybeDoubleFilling(lines[2]) {
		// If there is a candidate double line filling, move it last.
		if maybeDoubleFilling(lines[0]) {
			lines[0], lines[2] = lines[2], lines[0]
		} else if maybeDoubleFilling(lines[1]) {
			lines[1], lines[2] = lines[2], lines[1]
		} else {
			return false
		}
	}
	if !maybeFraming(lines[1]) {
		lines[0], lines[1] = lines[1], lines[0]
	}
	if !maybeFraming(lines[1]) {
		return false
	}

	main, framing := lines[0], lines[1]
	var doubleLine *model.LineSymbol
	if numParts == 3 {
		doubleLine = lines[2]
		if main.HasBorder() {
			return false
		}
	}

	record := s.buildLineSymbol(main, ident, sym)
	record.common.framingColor = s.convertColor(framing.Color)
	record.common.framingWidth = uint16(convertSize(framing.LineWidth))
	record.common.framingStyle = s.convertFramingCapJoin(framing.Cap, framing.Join, main.Name)

	if doubleLine != nil {
		record.common.doubleWidth = int16(convertSize(doubleLine.LineWidth - doubleLine.Border.Width + 2*doubleLine.Border.Shift))
		record.common.doubleColor = s.convertColor(doubleLine.Color)
		if doubleLine.HasBorder() {
			s.exportLineBorders(doubleLine.Border, doubleLine.RightBorder, doubleLine.LineWidth, main.Name, &record.common)
		}
	}

	s.file.addSymbol(s.serializeLineSymbol(record))
	return true
}

// convertFramingCapJoin is the reduced cap/join table of the framing
// line slots.
func (s *session) convertFramingCapJoin(capStyle model.CapStyle, join model.JoinStyle, name string) uint16 {
	switch {
	case capStyle == model.FlatCap && join == model.BevelJoin:
		return 0
	case capStyle == model.RoundCap && join == model.RoundJoin:
		return 1
	case capStyle == model.FlatCap && join == model.MiterJoin:
		return 4
	}
	s.warnf("In line symbol \"%s\", cannot represent cap/join combination.", name)
	if capStyle == model.RoundCap {
		return 1
	}
	return 0
}
