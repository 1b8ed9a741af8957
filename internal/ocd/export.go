package ocd

import (
	"errors"
	"fmt"
	"io"
	"math"

	"golang.org/x/text/encoding"

	"github.com/omaptools/ocdconv/internal/model"
)

// LegacyEncoder writes a map in the OCAD 6/7 era format. Version 0
// delegates to it.
type LegacyEncoder func(w io.Writer, m *model.Map, view *model.View) ([]string, error)

// Options control an export run.
type Options struct {
	// Version selects the file format version: 0 for the legacy
	// delegate, or one of 8, 9, 10, 11, 12.
	Version int

	// Encoding is the IANA name of the 8-bit string encoding used by
	// pre-v11 versions. Empty selects windows-1252.
	Encoding string

	// LegacyEncoder handles version 0. Without one, version 0 fails.
	LegacyEncoder LegacyEncoder

	// IconRenderer overrides the built-in symbol icon renderer.
	IconRenderer IconRenderer
}

// VersionError reports an unsupported format version.
type VersionError struct {
	Version int
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("OCD files of version %d are not supported", e.Version)
}

// ColorLimitError reports that the map exceeds the version 8 color
// table.
type ColorLimitError struct {
	Count int
	Limit int
}

func (e *ColorLimitError) Error() string {
	return fmt.Sprintf("the map contains %d colors; more than %d is not supported by version 8", e.Count, e.Limit)
}

// Export writes m to w in the requested format version. view is
// optional and only populates the v8 setup record. The returned
// warnings describe lossy conversions; they are not errors. Nothing is
// written to w when an error is returned before serialization.
func Export(w io.Writer, m *model.Map, view *model.View, opts Options) ([]string, error) {
	switch opts.Version {
	case 0:
		if opts.LegacyEncoder == nil {
			return nil, errors.New("no legacy encoder configured for version 0")
		}
		return opts.LegacyEncoder(w, m, view)
	case 8, 9, 10, 11, 12:
		traits, err := traitsForVersion(opts.Version)
		if err != nil {
			return nil, err
		}
		return exportNative(w, m, view, opts, traits)
	default:
		return nil, &VersionError{Version: opts.Version}
	}
}

// session is the state of one native export run.
type session struct {
	mapData *model.Map
	view    *model.View
	traits  formatTraits

	encoding encoding.Encoding // nil means UTF-8 strings
	icons    IconRenderer
	file     *fileBuilder

	areaOffset       model.MapCoord
	usesRegistration bool

	symbolNumbers map[model.Symbol]uint32
	usedNumbers   map[uint32]bool
	textFormats   []textFormatMapping

	warnings []string
}

func exportNative(w io.Writer, m *model.Map, view *model.View, opts Options, traits formatTraits) ([]string, error) {
	s := &session{
		mapData:       m,
		view:          view,
		traits:        traits,
		icons:         opts.IconRenderer,
		symbolNumbers: make(map[model.Symbol]uint32),
		usedNumbers:   make(map[uint32]bool),
	}
	if s.icons == nil {
		s.icons = rasterIconRenderer{}
	}
	if traits.custom8BitStrings {
		enc, err := resolveNarrowEncoding(opts.Encoding)
		if err != nil {
			s.warnf("Encoding '%s' is not available. Check the settings.", opts.Encoding)
			enc, _ = resolveNarrowEncoding("")
		}
		s.encoding = enc
	}
	s.file = &fileBuilder{traits: traits, encodeString: s.encodeName}

	// Check for a necessary offset (and add related warnings early).
	s.areaOffset = s.calculateAreaOffset()
	s.usesRegistration = m.UsesRegistrationColor()

	if traits.version == 8 {
		if err := s.exportSetupV8(); err != nil {
			return s.warnings, err
		}
	} else {
		s.exportStrings()
	}
	s.exportSymbols()
	s.exportObjects()

	if _, err := w.Write(s.file.serialize()); err != nil {
		return s.warnings, fmt.Errorf("writing map file: %w", err)
	}
	return s.warnings, nil
}

func (s *session) warnf(format string, args ...any) {
	s.warnings = append(s.warnings, fmt.Sprintf(format, args...))
}

// encodeName converts a string to the version's string encoding.
func (s *session) encodeName(str string) []byte {
	if s.encoding != nil {
		return encodeNarrow(s.encoding, str)
	}
	return []byte(str)
}

// convertColor returns the wire color number. An injected registration
// color shifts all map colors by one.
func (s *session) convertColor(c *model.Color) uint16 {
	if index := s.mapData.FindColorIndex(c); index >= 0 {
		if s.usesRegistration {
			return uint16(index + 1)
		}
		return uint16(index)
	}
	return 0
}

// calculateAreaOffset determines the translation needed to bring the
// objects into the format's drawing area of 2 meters of map paper
// around the origin. The offset is rounded to 100 m in projected
// coordinates to keep grid lines aligned.
func (s *session) calculateAreaOffset() model.MapCoord {
	var offset model.PointF

	bounds := model.RectFromPoints(model.PointF{X: -2000, Y: -2000}, model.PointF{X: 2000, Y: 2000})
	extent := s.mapData.CalculateExtent()
	if !extent.IsValid() || bounds.Contains(extent) {
		return model.MapCoord{}
	}

	if extent.Width() < bounds.Width() && extent.Height() < bounds.Height() {
		// The extent fits into the limited area.
		s.warnf("Coordinates are adjusted to fit into the OCAD 8 drawing area (-2 m ... 2 m).")
		offset = extent.Center()
	} else {
		// The extent is too wide to fit. Only move the objects if they
		// are completely outside the drawing area; this avoids repeated
		// moves on open/save/close cycles.
		if !extent.Intersects(bounds) {
			s.warnf("Coordinates are adjusted to fit into the OCAD 8 drawing area (-2 m ... 2 m).")
			count := 0
			s.mapData.ApplyOnAllObjects(func(obj model.Object) {
				offset.X *= float64(count) / float64(count+1)
				offset.Y *= float64(count) / float64(count+1)
				count++
				center := obj.Extent().Center()
				offset.X += center.X / float64(count)
				offset.Y += center.Y / float64(count)
			})
		}
		s.warnf("Some coordinates remain outside of the OCAD 8 drawing area. They might be unreachable in OCAD.")
	}

	if offset.ManhattanLength() > 0 {
		const unit = 100
		projected := s.mapData.Georef.ToProjected(offset)
		projected.X = math.Round(projected.X/unit) * unit
		projected.Y = math.Round(projected.Y/unit) * unit
		offset = s.mapData.Georef.FromProjected(projected)
	}

	return model.MapCoordFromF(offset)
}

// exportStrings fills the v9+ parameter string table: georeferencing,
// map notes and the color table.
func (s *session) exportStrings() {
	s.file.addString(stringTypeScale, stringForScalePar(s.mapData, s.traits.version))
	s.file.addString(s.traits.notesStringType, s.mapData.Notes)

	number := 0
	if s.usesRegistration {
		s.warnf("Registration black is exported as a regular color.")
		s.file.addString(stringTypeColor, stringForColor(number, model.RegistrationColor()))
		number++
	}
	for _, c := range s.mapData.Colors {
		s.file.addString(stringTypeColor, stringForColor(number, c))
		number++
	}

	s.warnf("Spot color information was ignored.")
}

// v8 limits and section sizes.
const (
	v8ColorTableEntries = 256
	v8ColorInfoSize     = 64
	v8MaxInfoSize       = 32768
)

// exportSetupV8 fills the sections that replace the string table in
// version 8: the embedded color table, the setup record and the map
// notes info block.
func (s *session) exportSetupV8() error {
	limit := v8ColorTableEntries
	if s.usesRegistration {
		limit--
	}
	if len(s.mapData.Colors) > limit {
		return &ColorLimitError{Count: len(s.mapData.Colors), Limit: limit}
	}

	// Color table
	colors := &recordWriter{}
	countPos := colors.pos()
	colors.u16(0) // color count, patched
	colors.u16(0) // spot color separations, not exported
	number := 0
	addColor := func(c *model.Color) {
		colors.u16(uint16(number))
		colors.u16(0)
		colors.u8(uint8(math.Round(200 * c.C)))
		colors.u8(uint8(math.Round(200 * c.M)))
		colors.u8(uint8(math.Round(200 * c.Y)))
		colors.u8(uint8(math.Round(200 * c.K)))
		colors.zeros(24) // separation halftones
		colors.pascal(s.encodeName(c.Name), 32)
		number++
	}
	if s.usesRegistration {
		s.warnf("Registration black is exported as a regular color.")
		addColor(model.RegistrationColor())
	}
	for _, c := range s.mapData.Colors {
		addColor(c)
	}
	colors.patchU16(countPos, uint16(number))
	colors.zeros((v8ColorTableEntries - number) * v8ColorInfoSize)
	s.file.colorTable = colors.bytes()
	s.warnf("Spot color information was ignored.")

	// Setup record
	setup := &recordWriter{}
	center := model.MapCoord{}
	zoom := 1.0
	if s.view != nil {
		center = s.view.Center.Sub(s.areaOffset)
		zoom = s.view.Zoom
	}
	setup.point(convertCoord(center))
	setup.f64(float64(s.mapData.Georef.ScaleDenominator))
	setup.f64(s.mapData.Georef.RefPointX)
	setup.f64(s.mapData.Georef.RefPointY)
	setup.f64(s.mapData.Georef.Grivation)
	setup.f64(zoom)
	s.file.setup = setup.bytes()

	// Map notes
	if notes := s.encodeName(s.mapData.Notes); len(notes) > 0 {
		if len(notes)+1 > v8MaxInfoSize {
			s.warnf("The map notes were truncated during export to version 8.")
			notes = notes[:v8MaxInfoSize-1]
		}
		s.file.info = append(notes, 0)
	}

	return nil
}

// exportSymbols writes one record per map symbol. Text and combined
// symbols manage their own records; symbols already exported as part
// of a combined symbol are skipped.
func (s *session) exportSymbols() {
	for _, sym := range s.mapData.Symbols {
		if _, done := s.symbolNumbers[sym]; done {
			continue
		}
		switch t := sym.(type) {
		case *model.PointSymbol:
			s.file.addSymbol(s.exportPointSymbol(t, identOf(t), t))
		case *model.LineSymbol:
			s.file.addSymbol(s.exportLineSymbol(t, identOf(t), t))
		case *model.AreaSymbol:
			s.file.addSymbol(s.exportAreaSymbol(t, identOf(t), t))
		case *model.TextSymbol:
			s.exportTextSymbolVariants(t)
		case *model.CombinedSymbol:
			s.exportCombinedSymbol(t)
		}
	}
}

// exportObjects writes every object of every part, translated by the
// area offset. Objects whose symbol has no wire number are skipped.
func (s *session) exportObjects() {
	for _, part := range s.mapData.Parts {
		for _, obj := range part.Objects {
			if s.areaOffset.X != 0 || s.areaOffset.Y != 0 {
				obj = obj.Translated(s.areaOffset)
			}
			entry, data, ok := s.exportObject(obj)
			if !ok {
				continue
			}
			s.file.addObject(entry, data)
		}
	}
}
