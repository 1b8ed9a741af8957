package ocd

import (
	"fmt"
	"unicode/utf16"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// defaultNarrowEncoding matches the OCAD default code page.
const defaultNarrowEncoding = "windows-1252"

// resolveNarrowEncoding looks up the configurable 8-bit encoding used
// for strings in pre-v11 files. The name is an IANA charset name such
// as "windows-1252" or "ISO-8859-2".
func resolveNarrowEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		name = defaultNarrowEncoding
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unknown 8-bit encoding %q", name)
	}
	return enc, nil
}

// encodeNarrow converts s with enc, substituting '?' for characters
// the encoding cannot represent.
func encodeNarrow(enc encoding.Encoding, s string) []byte {
	b, err := encoding.ReplaceUnsupported(enc.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		// ReplaceUnsupported leaves only invalid UTF-8 input as a
		// possible error. Pass such input through unchanged.
		return []byte(s)
	}
	return b
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// encodeUTF16 converts s to UTF-16LE without a byte order mark.
func encodeUTF16(s string) []byte {
	b, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil
	}
	return b
}

// utf16Units returns the UTF-16 code units of s, with surrogate pairs
// for characters outside the basic plane.
func utf16Units(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// truncateUTF16 shortens units to at most max code units without
// splitting a surrogate pair. It reports whether anything was cut.
func truncateUTF16(units []uint16, max int) ([]uint16, bool) {
	if len(units) <= max {
		return units, false
	}
	end := max
	if end > 0 && utf16.IsSurrogate(rune(units[end-1])) && isHighSurrogate(units[end-1]) {
		end--
	}
	return units[:end], true
}

func isHighSurrogate(u uint16) bool {
	return u >= 0xd800 && u < 0xdc00
}

// utf16Field encodes s as UTF-16LE for a fixed field of n bytes,
// leaving room for a terminating zero unit and never splitting a
// surrogate pair.
func utf16Field(s string, n int) []byte {
	units, truncated := truncateUTF16(utf16Units(s), n/2-1)
	if truncated {
		s = string(utf16.Decode(units))
	}
	return encodeUTF16(s)
}
