package ocd

import (
	"bytes"
	"testing"
	"unicode/utf16"
)

// TestResolveNarrowEncoding checks the default, a named lookup and the
// rejection of unknown names.
func TestResolveNarrowEncoding(t *testing.T) {
	if _, err := resolveNarrowEncoding(""); err != nil {
		t.Errorf("default encoding failed: %v", err)
	}
	if _, err := resolveNarrowEncoding("ISO-8859-2"); err != nil {
		t.Errorf("ISO-8859-2 failed: %v", err)
	}
	if _, err := resolveNarrowEncoding("no-such-charset"); err == nil {
		t.Error("unknown charset accepted, want error")
	}
}

// TestEncodeNarrow checks 8-bit conversion and the substitution of
// unmappable characters.
func TestEncodeNarrow(t *testing.T) {
	enc, err := resolveNarrowEncoding("windows-1252")
	if err != nil {
		t.Fatalf("resolveNarrowEncoding failed: %v", err)
	}

	got := encodeNarrow(enc, "Täst")
	want := []byte{0x54, 0xe4, 0x73, 0x74}
	if !bytes.Equal(got, want) {
		t.Errorf("encodeNarrow(Täst) = % x, want % x", got, want)
	}

	got = encodeNarrow(enc, "a☃b")
	if len(got) != 3 || got[1] != '?' {
		t.Errorf("encodeNarrow(a☃b) = % x, want substitution byte in the middle", got)
	}
}

// TestEncodeUTF16 checks the little-endian layout without a byte order
// mark.
func TestEncodeUTF16(t *testing.T) {
	got := encodeUTF16("AB")
	want := []byte{0x41, 0x00, 0x42, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("encodeUTF16(AB) = % x, want % x", got, want)
	}
}

// TestTruncateUTF16 checks that truncation never splits a surrogate
// pair.
func TestTruncateUTF16(t *testing.T) {
	// "a" plus U+1D11E (one surrogate pair)
	units := utf16.Encode([]rune("a\U0001D11E"))
	if len(units) != 3 {
		t.Fatalf("test input has %d units, want 3", len(units))
	}

	got, truncated := truncateUTF16(units, 3)
	if truncated || len(got) != 3 {
		t.Errorf("no-op truncation changed the input: %d units, truncated=%v", len(got), truncated)
	}

	// Cutting at 2 units would split the pair; the high surrogate must
	// go as well.
	got, truncated = truncateUTF16(units, 2)
	if !truncated {
		t.Error("truncation not reported")
	}
	if len(got) != 1 || got[0] != 'a' {
		t.Errorf("truncateUTF16 kept %d units, want just 'a'", len(got))
	}
}

// TestUTF16Field checks the fixed-field encoding with its terminator
// reserve.
func TestUTF16Field(t *testing.T) {
	// 8-byte field: at most 3 units plus the implicit terminator.
	got := utf16Field("abcdef", 8)
	want := []byte{0x61, 0x00, 0x62, 0x00, 0x63, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("utf16Field(abcdef, 8) = % x, want % x", got, want)
	}

	if got := utf16Field("ab", 64); len(got) != 4 {
		t.Errorf("utf16Field(ab, 64) = %d bytes, want 4", len(got))
	}
}
