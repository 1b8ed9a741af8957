// Package ocdconv provides functions for exporting map documents to
// OCD files.
//
// This package can be used as a library to load map documents and
// write them in a chosen OCD format version programmatically.
//
// Example usage:
//
//	f, _ := os.Open("map.json")
//	defer f.Close()
//
//	m, view, err := ocdconv.LoadMap(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, _ := os.Create("map.ocd")
//	defer out.Close()
//	warnings, err := ocdconv.ExportOCD(out, m, view, ocdconv.ExportOptions{Version: 9})
package ocdconv

import (
	"io"

	"github.com/omaptools/ocdconv/internal/mapfile"
	"github.com/omaptools/ocdconv/internal/model"
	"github.com/omaptools/ocdconv/internal/ocd"
)

// ExportOptions control an OCD export run.
type ExportOptions = ocd.Options

// VersionError reports an unsupported OCD format version.
type VersionError = ocd.VersionError

// ColorLimitError reports a map whose color count exceeds the version 8
// color table.
type ColorLimitError = ocd.ColorLimitError

// LoadMap reads a map document in the JSON interchange format.
//
// The second result is the optional editor view; it is nil when the
// document has none.
//
// Example:
//
//	f, _ := os.Open("map.json")
//	defer f.Close()
//	m, view, err := ocdconv.LoadMap(f)
func LoadMap(r io.Reader) (*model.Map, *model.View, error) {
	return mapfile.Read(r)
}

// ExportOCD writes a map document to w as an OCD file of the version
// selected in opts (8 through 12).
//
// The returned warnings describe lossy conversions; they do not stop
// the export. Nothing is written to w when an error occurs before
// serialization.
//
// Example:
//
//	out, _ := os.Create("map.ocd")
//	defer out.Close()
//	warnings, err := ocdconv.ExportOCD(out, m, view, ocdconv.ExportOptions{Version: 11})
func ExportOCD(w io.Writer, m *model.Map, view *model.View, opts ExportOptions) ([]string, error) {
	return ocd.Export(w, m, view, opts)
}
