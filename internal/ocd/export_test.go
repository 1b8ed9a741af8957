package ocd

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/omaptools/ocdconv/internal/model"
)

// testSession builds an export session without running an export, for
// unit tests of individual encoders.
func testSession(t *testing.T, version int, m *model.Map) *session {
	t.Helper()
	traits, err := traitsForVersion(version)
	if err != nil {
		t.Fatalf("traitsForVersion(%d) failed: %v", version, err)
	}
	s := &session{
		mapData:       m,
		traits:        traits,
		icons:         rasterIconRenderer{},
		symbolNumbers: make(map[model.Symbol]uint32),
		usedNumbers:   make(map[uint32]bool),
	}
	if traits.custom8BitStrings {
		s.encoding, _ = resolveNarrowEncoding("")
	}
	s.file = &fileBuilder{traits: traits, encodeString: s.encodeName}
	s.usesRegistration = m.UsesRegistrationColor()
	return s
}

// testMap builds a small map with one color, one line symbol and one
// path object.
func testMap() *model.Map {
	black := &model.Color{Name: "Black", K: 1, Opacity: 1}
	line := &model.LineSymbol{
		SymbolBase: model.SymbolBase{Name: "Path", Number: [2]int{5, 1}},
		Color:      black,
		LineWidth:  250,
	}
	return &model.Map{
		Colors:  []*model.Color{black},
		Symbols: []model.Symbol{line},
		Parts: []*model.Part{{
			Name: "default",
			Objects: []model.Object{
				&model.PathObject{Sym: line, Points: []model.MapCoord{{}, {X: 10000, Y: 5000}}},
			},
		}},
		Georef: model.Georeferencing{ScaleDenominator: 15000},
		Grid:   model.Grid{Unit: model.MillimetersOnMap, HorizontalSpacing: 50, VerticalSpacing: 50},
	}
}

// TestExportUnsupportedVersion checks the version dispatch error.
func TestExportUnsupportedVersion(t *testing.T) {
	var buf bytes.Buffer
	_, err := Export(&buf, testMap(), nil, Options{Version: 7})
	var verr *VersionError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *VersionError", err)
	}
	if verr.Version != 7 {
		t.Errorf("version in error = %d, want 7", verr.Version)
	}
	if buf.Len() != 0 {
		t.Errorf("%d bytes written despite error", buf.Len())
	}
}

// TestExportLegacyDelegate checks that version 0 calls the configured
// legacy encoder and fails without one.
func TestExportLegacyDelegate(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Export(&buf, testMap(), nil, Options{Version: 0}); err == nil {
		t.Error("version 0 without legacy encoder succeeded, want error")
	}

	called := false
	legacy := func(w io.Writer, m *model.Map, view *model.View) ([]string, error) {
		called = true
		return []string{"legacy"}, nil
	}
	warnings, err := Export(&buf, testMap(), nil, Options{Version: 0, LegacyEncoder: legacy})
	if err != nil {
		t.Fatalf("legacy export failed: %v", err)
	}
	if !called {
		t.Error("legacy encoder not called")
	}
	if len(warnings) != 1 || warnings[0] != "legacy" {
		t.Errorf("warnings = %v, want [legacy]", warnings)
	}
}

// TestExportHeaderV9 checks the header fields and the section offsets
// of a version 9 file.
func TestExportHeaderV9(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Export(&buf, testMap(), nil, Options{Version: 9}); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data := buf.Bytes()
	if len(data) < headerSize {
		t.Fatalf("file is only %d bytes", len(data))
	}

	if got := binary.LittleEndian.Uint16(data[0:]); got != vendorMark {
		t.Errorf("vendor mark = %#x, want %#x", got, vendorMark)
	}
	if data[2] != typeMap {
		t.Errorf("file type = %d, want %d", data[2], typeMap)
	}
	if got := binary.LittleEndian.Uint16(data[4:]); got != 9 {
		t.Errorf("version = %d, want 9", got)
	}

	symbolBlock := binary.LittleEndian.Uint32(data[offFirstSymbolBlock:])
	objectBlock := binary.LittleEndian.Uint32(data[offFirstObjectBlock:])
	stringBlock := binary.LittleEndian.Uint32(data[offFirstStringBlock:])
	for name, off := range map[string]uint32{
		"symbol index": symbolBlock,
		"object index": objectBlock,
		"string index": stringBlock,
	} {
		if off == 0 || off >= uint32(len(data)) {
			t.Errorf("%s offset = %d, out of range", name, off)
		}
		if off%8 != 0 {
			t.Errorf("%s offset = %d, not 8-byte aligned", name, off)
		}
	}

	// Version 8 sections stay empty.
	if got := binary.LittleEndian.Uint32(data[offSetupPos:]); got != 0 {
		t.Errorf("setup offset = %d, want 0", got)
	}

	// Follow the symbol index to the first record and read its number.
	symbolPos := binary.LittleEndian.Uint32(data[symbolBlock+4:])
	if symbolPos == 0 || symbolPos >= uint32(len(data)) {
		t.Fatalf("first symbol position = %d, out of range", symbolPos)
	}
	if got := binary.LittleEndian.Uint32(data[symbolPos+4:]); got != 5001 {
		t.Errorf("symbol number = %d, want 5001", got)
	}
	// The record size field covers at least the base record.
	if got := int32(binary.LittleEndian.Uint32(data[symbolPos:])); got < 628 {
		t.Errorf("symbol record size = %d, want >= 628", got)
	}
}

// TestExportHeaderV8 checks the version 8 layout: color table directly
// after the header, setup and info blocks referenced from the header.
func TestExportHeaderV8(t *testing.T) {
	m := testMap()
	m.Notes = "Survey 2025"
	view := &model.View{Center: model.MapCoord{X: 1000, Y: 2000}, Zoom: 2}

	var buf bytes.Buffer
	if _, err := Export(&buf, m, view, Options{Version: 8}); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data := buf.Bytes()

	if data[2] != typeMapV8 {
		t.Errorf("file type = %d, want %d", data[2], typeMapV8)
	}
	if got := binary.LittleEndian.Uint16(data[4:]); got != 8 {
		t.Errorf("version = %d, want 8", got)
	}

	// Color table: count of 1 at the start, right after the header.
	if got := binary.LittleEndian.Uint16(data[headerSize:]); got != 1 {
		t.Errorf("color count = %d, want 1", got)
	}

	setupPos := binary.LittleEndian.Uint32(data[offSetupPos:])
	setupSize := binary.LittleEndian.Uint32(data[offSetupSize:])
	if setupPos == 0 || setupSize != 48 {
		t.Errorf("setup pos=%d size=%d, want a 48-byte block", setupPos, setupSize)
	}

	infoPos := binary.LittleEndian.Uint32(data[offInfoPos:])
	infoSize := binary.LittleEndian.Uint32(data[offInfoSize:])
	if infoPos == 0 || infoSize == 0 {
		t.Fatalf("info pos=%d size=%d, want the map notes block", infoPos, infoSize)
	}
	notes := data[infoPos : infoPos+infoSize]
	if !bytes.Equal(notes, append([]byte("Survey 2025"), 0)) {
		t.Errorf("info block = %q, want the zero-terminated notes", notes)
	}

	// No string table in version 8.
	if got := binary.LittleEndian.Uint32(data[offFirstStringBlock:]); got != 0 {
		t.Errorf("string index offset = %d, want 0", got)
	}
}

// TestExportColorLimitV8 checks the color table limit error.
func TestExportColorLimitV8(t *testing.T) {
	m := testMap()
	for i := 0; i < 256; i++ {
		m.Colors = append(m.Colors, &model.Color{Name: "extra", Opacity: 1})
	}

	var buf bytes.Buffer
	_, err := Export(&buf, m, nil, Options{Version: 8})
	var cerr *ColorLimitError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want *ColorLimitError", err)
	}
	if cerr.Count != 257 || cerr.Limit != 256 {
		t.Errorf("count=%d limit=%d, want 257 and 256", cerr.Count, cerr.Limit)
	}
	if buf.Len() != 0 {
		t.Errorf("%d bytes written despite error", buf.Len())
	}
}

// TestExportStringTable checks that the v9 string table carries the
// scale, notes and color strings.
func TestExportStringTable(t *testing.T) {
	m := testMap()
	m.Notes = "note"

	var buf bytes.Buffer
	if _, err := Export(&buf, m, nil, Options{Version: 9}); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data := buf.Bytes()

	block := binary.LittleEndian.Uint32(data[offFirstStringBlock:])
	if block == 0 {
		t.Fatal("no string index")
	}
	types := map[int32]int{}
	for i := 0; i < indexBlockEntries; i++ {
		entry := block + 4 + uint32(i)*16
		pos := binary.LittleEndian.Uint32(data[entry:])
		if pos == 0 {
			continue
		}
		recType := int32(binary.LittleEndian.Uint32(data[entry+8:]))
		types[recType]++
	}
	if types[stringTypeScale] != 1 {
		t.Errorf("%d scale strings, want 1", types[stringTypeScale])
	}
	if types[stringTypeColor] != 1 {
		t.Errorf("%d color strings, want 1", types[stringTypeColor])
	}
	if types[11] != 1 {
		t.Errorf("%d notes strings, want 1", types[11])
	}
}

// TestExportBadEncodingWarns checks the fallback for an unknown 8-bit
// encoding name.
func TestExportBadEncodingWarns(t *testing.T) {
	var buf bytes.Buffer
	warnings, err := Export(&buf, testMap(), nil, Options{Version: 9, Encoding: "no-such-charset"})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "not available") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want encoding fallback warning", warnings)
	}
}

// TestExportAreaOffset checks that far-away content is moved into the
// restricted drawing area with a warning.
func TestExportAreaOffset(t *testing.T) {
	m := testMap()
	// 3 m to the right of the origin, outside the 2 m limit.
	m.Parts[0].Objects = []model.Object{
		&model.PathObject{
			Sym: m.Symbols[0],
			Points: []model.MapCoord{
				{X: 3_000_000, Y: 0},
				{X: 3_010_000, Y: 0},
			},
		},
	}

	s := testSession(t, 8, m)
	offset := s.calculateAreaOffset()
	if offset.X == 0 {
		t.Error("no offset for out-of-bounds content")
	}
	found := false
	for _, w := range s.warnings {
		if strings.Contains(w, "drawing area") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want drawing area warning", s.warnings)
	}

	// Content near the origin needs no offset.
	s = testSession(t, 8, testMap())
	if offset := s.calculateAreaOffset(); offset.X != 0 || offset.Y != 0 {
		t.Errorf("offset = %v, want zero", offset)
	}
}

// TestExportRegistrationColorShift checks that an injected registration
// color shifts the wire color numbers by one.
func TestExportRegistrationColorShift(t *testing.T) {
	black := &model.Color{Name: "Black", K: 1, Opacity: 1}
	m := &model.Map{
		Colors: []*model.Color{black},
		Symbols: []model.Symbol{
			&model.LineSymbol{SymbolBase: model.SymbolBase{Number: [2]int{1, 0}}, Color: model.RegistrationColor(), LineWidth: 100},
		},
		Georef: model.Georeferencing{ScaleDenominator: 15000},
	}

	s := testSession(t, 9, m)
	if !s.usesRegistration {
		t.Fatal("registration color not detected")
	}
	if got := s.convertColor(black); got != 1 {
		t.Errorf("convertColor(black) = %d, want 1", got)
	}
	if got := s.convertColor(model.RegistrationColor()); got != 0 {
		t.Errorf("convertColor(registration) = %d, want 0", got)
	}
}

// TestExportTextSymbolVariants checks the per-alignment text symbol
// records.
func TestExportTextSymbolVariants(t *testing.T) {
	black := &model.Color{Name: "Black", K: 1, Opacity: 1}
	sym := &model.TextSymbol{
		SymbolBase:      model.SymbolBase{Name: "Label", Number: [2]int{10, 0}},
		Color:           black,
		FontFamily:      "Arial",
		FontSize:        4,
		InternalScaling: 1,
		Metrics:         model.FontMetrics{Ascent: 3, Descent: 1, LineSpacing: 4.5},
	}
	lines := []model.TextLineInfo{{Width: 10, Ascent: 3, Descent: 1}}
	m := &model.Map{
		Colors:  []*model.Color{black},
		Symbols: []model.Symbol{sym},
		Parts: []*model.Part{{Objects: []model.Object{
			&model.TextObject{Sym: sym, HAlign: model.AlignLeft, Text: "a", Lines: lines, SingleAnchor: true},
			&model.TextObject{Sym: sym, HAlign: model.AlignRight, Text: "b", Lines: lines, SingleAnchor: true},
			&model.TextObject{Sym: sym, HAlign: model.AlignRight, Text: "c", Lines: lines, SingleAnchor: true},
		}}},
		Georef: model.Georeferencing{ScaleDenominator: 15000},
	}

	s := testSession(t, 9, m)
	s.exportTextSymbolVariants(sym)

	if len(s.file.symbols) != 2 {
		t.Fatalf("%d symbol records, want 2 (one per alignment)", len(s.file.symbols))
	}
	if len(s.textFormats) != 2 {
		t.Fatalf("%d text format mappings, want 2", len(s.textFormats))
	}
	if _, ok := s.findTextFormat(sym, model.AlignRight); !ok {
		t.Error("no mapping for the right-aligned variant")
	}
	if _, ok := s.findTextFormat(sym, model.AlignHCenter); ok {
		t.Error("mapping for an unused alignment")
	}
}

// TestExportCombinedSingleLine checks that a one-part combination is
// exported as its part under the combined identity.
func TestExportCombinedSingleLine(t *testing.T) {
	black := &model.Color{Name: "Black", K: 1, Opacity: 1}
	line := &model.LineSymbol{SymbolBase: model.SymbolBase{Number: [2]int{2, 0}}, Color: black, LineWidth: 100}
	combined := &model.CombinedSymbol{
		SymbolBase: model.SymbolBase{Name: "Wrapped", Number: [2]int{3, 0}},
		Parts:      []model.Symbol{line},
	}
	m := &model.Map{Colors: []*model.Color{black}, Symbols: []model.Symbol{combined}}

	s := testSession(t, 9, m)
	s.exportCombinedSymbol(combined)

	if len(s.file.symbols) != 1 {
		t.Fatalf("%d symbol records, want 1", len(s.file.symbols))
	}
	if got := s.symbolNumbers[combined]; got != 3000 {
		t.Errorf("combined symbol number = %d, want 3000", got)
	}
	if len(s.warnings) != 0 {
		t.Errorf("unexpected warnings: %v", s.warnings)
	}
}

// TestExportCombinedBorderedArea checks the area-with-border
// decomposition with a private border part.
func TestExportCombinedBorderedArea(t *testing.T) {
	yellow := &model.Color{Name: "Yellow", Y: 1, Opacity: 1}
	black := &model.Color{Name: "Black", K: 1, Opacity: 1}
	area := &model.AreaSymbol{SymbolBase: model.SymbolBase{Number: [2]int{4, 0}}, Color: yellow}
	border := &model.LineSymbol{SymbolBase: model.SymbolBase{Number: [2]int{0, 0}}, Color: black, LineWidth: 100}
	combined := &model.CombinedSymbol{
		SymbolBase:   model.SymbolBase{Name: "Paved", Number: [2]int{4, 1}},
		Parts:        []model.Symbol{area, border},
		PrivateParts: []bool{false, true},
	}
	m := &model.Map{Colors: []*model.Color{yellow, black}, Symbols: []model.Symbol{combined}}

	s := testSession(t, 9, m)
	s.exportCombinedSymbol(combined)

	if len(s.file.symbols) != 2 {
		t.Fatalf("%d symbol records, want border + area", len(s.file.symbols))
	}
	// The private border gets the derived number right after the
	// combination's own.
	if got := s.symbolNumbers[border]; got != 4002 {
		t.Errorf("border number = %d, want 4002", got)
	}
	if got := s.symbolNumbers[combined]; got != 4001 {
		t.Errorf("combined number = %d, want 4001", got)
	}
}

// TestExportCombinedUnhandled checks the warning for combinations
// outside the wire format's shapes.
func TestExportCombinedUnhandled(t *testing.T) {
	yellow := &model.Color{Name: "Yellow", Y: 1, Opacity: 1}
	combined := &model.CombinedSymbol{
		SymbolBase: model.SymbolBase{Name: "Odd", Number: [2]int{9, 0}},
		Parts: []model.Symbol{
			&model.AreaSymbol{Color: yellow},
			&model.AreaSymbol{Color: yellow},
		},
	}
	m := &model.Map{Colors: []*model.Color{yellow}, Symbols: []model.Symbol{combined}}

	s := testSession(t, 9, m)
	s.exportCombinedSymbol(combined)

	if len(s.warnings) != 1 || !strings.Contains(s.warnings[0], "Unhandled combined symbol") {
		t.Errorf("warnings = %v, want unhandled warning", s.warnings)
	}
}

// TestExportIndexSizeFields checks that the size fields of the symbol
// and object index entries agree with the serialized records.
func TestExportIndexSizeFields(t *testing.T) {
	m := testMap()
	line := m.Symbols[0].(*model.LineSymbol)
	road := &model.LineSymbol{
		SymbolBase: model.SymbolBase{Name: "Road", Number: [2]int{5, 2}},
		Color:      line.Color,
		LineWidth:  350,
	}
	m.Symbols = append(m.Symbols, road)
	m.Parts[0].Objects = append(m.Parts[0].Objects, &model.PathObject{
		Sym:    road,
		Points: []model.MapCoord{{X: 1000, Y: 1000}, {X: 2000, Y: 1000}, {X: 3000, Y: 2000}},
	})

	for _, version := range []int{8, 9} {
		var buf bytes.Buffer
		if _, err := Export(&buf, m, nil, Options{Version: version}); err != nil {
			t.Fatalf("version %d: export failed: %v", version, err)
		}
		data := buf.Bytes()

		// Symbol records are written back to back, so the padded
		// declared size of the first bridges exactly to the second.
		symBlock := binary.LittleEndian.Uint32(data[offFirstSymbolBlock:])
		first := binary.LittleEndian.Uint32(data[symBlock+4:])
		second := binary.LittleEndian.Uint32(data[symBlock+8:])
		var symSize uint32
		if version == 8 {
			symSize = uint32(binary.LittleEndian.Uint16(data[first:]))
		} else {
			symSize = binary.LittleEndian.Uint32(data[first:])
		}
		if padded := (symSize + 7) &^ 7; first+padded != second {
			t.Errorf("version %d: symbol record size = %d, want %d bytes to the next record",
				version, symSize, second-first)
		}

		// Object index size fields count 8-byte coordinate slots after
		// the 16-byte record header, in version 8 as well.
		objBlock := binary.LittleEndian.Uint32(data[offFirstObjectBlock:])
		entrySize := uint32(40)
		if version == 8 {
			entrySize = 24
		}
		wantSlots := []uint32{2, 3}
		positions := make([]uint32, len(wantSlots))
		for i, want := range wantSlots {
			entry := objBlock + 4 + uint32(i)*entrySize
			positions[i] = binary.LittleEndian.Uint32(data[entry+16:])
			var size uint32
			if version == 8 {
				size = uint32(binary.LittleEndian.Uint16(data[entry+20:]))
			} else {
				size = binary.LittleEndian.Uint32(data[entry+20:])
			}
			if size != want {
				t.Errorf("version %d: object %d index size = %d, want %d slots", version, i, size, want)
			}
		}
		if positions[0]+uint32(objectHeaderSize)+wantSlots[0]*8 != positions[1] {
			t.Errorf("version %d: object record at %d does not span to the record at %d",
				version, positions[0], positions[1])
		}
	}
}

// TestExportColorEncodingIdempotent checks that encoding the same color
// twice yields identical output.
func TestExportColorEncodingIdempotent(t *testing.T) {
	c := &model.Color{Name: "Olive", C: 0.25, M: 0.1, Y: 0.95, K: 0.05, Opacity: 0.7}

	if first, second := stringForColor(3, c), stringForColor(3, c); first != second {
		t.Errorf("color string changed between runs: %q then %q", first, second)
	}

	m := testMap()
	m.Colors = append(m.Colors, c)
	tableFor := func() []byte {
		s := testSession(t, 8, m)
		if err := s.exportSetupV8(); err != nil {
			t.Fatalf("exportSetupV8 failed: %v", err)
		}
		return s.file.colorTable
	}
	if !bytes.Equal(tableFor(), tableFor()) {
		t.Error("v8 color table differs between identical exports")
	}
}
