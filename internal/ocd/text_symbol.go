package ocd

import (
	"math"

	"github.com/omaptools/ocdconv/internal/model"
)

// textFormatMapping records one exported text symbol record. The wire
// format bakes the horizontal alignment into the symbol, so a text
// symbol is exported once per alignment actually used by its objects.
type textFormatMapping struct {
	symbol    *model.TextSymbol
	alignment model.HorizontalAlignment
	number    uint32
}

func (s *session) findTextFormat(sym *model.TextSymbol, alignment model.HorizontalAlignment) (uint32, bool) {
	for _, m := range s.textFormats {
		if m.symbol == sym && m.alignment == alignment {
			return m.number, true
		}
	}
	return 0, false
}

// exportTextSymbolVariants writes one symbol record per alignment in
// use. An unused symbol is still exported once, with the default
// alignment.
func (s *session) exportTextSymbolVariants(sym *model.TextSymbol) {
	used := false
	s.mapData.ApplyOnAllObjects(func(obj model.Object) {
		text, ok := obj.(*model.TextObject)
		if !ok || text.Sym != model.Symbol(sym) {
			return
		}
		used = true
		alignment := text.HAlign
		if _, exists := s.findTextFormat(sym, alignment); exists {
			return
		}
		data, number := s.exportTextSymbol(sym, alignment)
		s.file.addSymbol(data)
		s.textFormats = append(s.textFormats, textFormatMapping{
			symbol:    sym,
			alignment: alignment,
			number:    number,
		})
	})
	if !used {
		data, _ := s.exportTextSymbol(sym, model.AlignLeft)
		s.file.addSymbol(data)
	}
}

func (s *session) exportTextSymbol(sym *model.TextSymbol, alignment model.HorizontalAlignment) (data []byte, number uint32) {
	base := s.setupBaseSymbol(sym, identOf(sym), sym)
	base.symType = symbolTypeText
	if s.traits.version == 8 {
		base.type2 = 1
	}

	w := &recordWriter{}
	sizePos := s.writeBaseSymbol(w, base)
	w.pascal(s.encodeName(sym.FontFamily), 32)
	s.writeTextSymbolBasic(w, sym, alignment)
	s.writeTextSymbolSpecial(w, sym)
	s.writeTextSymbolFraming(w, sym)
	return s.finishSymbol(w, sizePos), base.number
}

func (s *session) writeTextSymbolBasic(w *recordWriter, sym *model.TextSymbol, alignment model.HorizontalAlignment) {
	w.u16(s.convertColor(sym.Color))
	// Font size in tenths of typographic points.
	w.u16(uint16(math.Round(10 * sym.FontSize / 25.4 * 72)))
	if sym.Bold {
		w.u16(700)
	} else {
		w.u16(400)
	}
	if sym.Italic {
		w.u8(1)
	} else {
		w.u8(0)
	}
	w.u8(0)
	charSpacing := uint16(convertSize(int(math.Round(1000 * sym.CharSpacing))))
	if charSpacing != 0 {
		s.warnf("In text symbol %s: custom character spacing is set, its implementation does not match the target format's behavior yet", sym.Name)
	}
	w.u16(charSpacing)
	w.u16(100) // word spacing percentage
	w.u16(uint16(alignment))
}

func (s *session) writeTextSymbolSpecial(w *recordWriter, sym *model.TextSymbol) {
	// Line spacing as a percentage of the font size.
	absoluteLineSpacing := sym.LineSpacing * (sym.Metrics.LineSpacing / sym.InternalScaling)
	w.u16(uint16(math.Round(absoluteLineSpacing / (sym.FontSize * 0.01))))
	w.u16(uint16(convertSize(int(math.Round(1000 * sym.ParagraphSpacing)))))

	if sym.Underline {
		s.warnf("In text symbol %s: ignoring underlining", sym.Name)
	}
	if sym.Kerning {
		s.warnf("In text symbol %s: ignoring kerning", sym.Name)
	}

	if sym.LineBelow {
		w.u16(1)
	} else {
		w.u16(0)
	}
	w.u16(s.convertColor(sym.LineBelowColor))
	w.u16(uint16(convertSize(int(math.Round(1000 * sym.LineBelowWidth)))))
	w.u16(uint16(convertSize(int(math.Round(1000 * sym.LineBelowDistance)))))

	const maxTabs = 32
	w.u16(uint16(len(sym.CustomTabs)))
	for i := 0; i < maxTabs; i++ {
		if i < len(sym.CustomTabs) {
			w.u32(uint32(convertSize(sym.CustomTabs[i])))
		} else {
			w.u32(0)
		}
	}
}

func (s *session) writeTextSymbolFraming(w *recordWriter, sym *model.TextSymbol) {
	var mode, color, lineWidth uint16
	var offsetX, offsetY int16
	if sym.FramingColor != nil {
		color = s.convertColor(sym.FramingColor)
		switch sym.Framing {
		case model.NoFraming:
			color = 0
		case model.ShadowFraming:
			mode = 1
			offsetX = int16(convertSize(sym.FramingShadowX))
			offsetY = int16(-convertSize(sym.FramingShadowY))
		case model.LineFraming:
			mode = 2
			lineWidth = uint16(convertSize(sym.FramingLineHalfWidth))
		}
	}
	w.u16(color)
	w.u16(mode)
	w.u16(lineWidth)
	w.i16(offsetX)
	w.i16(offsetY)
}
