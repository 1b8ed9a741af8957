package ocd

import (
	"testing"

	"github.com/omaptools/ocdconv/internal/model"
)

// TestRGBFromColor checks CMYK flattening, including the black channel.
func TestRGBFromColor(t *testing.T) {
	tests := []struct {
		name  string
		color model.Color
		want  rgb
	}{
		{"white", model.Color{}, rgb{255, 255, 255}},
		{"black", model.Color{K: 1}, rgb{0, 0, 0}},
		{"cyan", model.Color{C: 1}, rgb{0, 255, 255}},
		{"half black", model.Color{K: 0.5}, rgb{128, 128, 128}},
		{"mixed", model.Color{C: 1, M: 1, Y: 1, K: 1}, rgb{0, 0, 0}},
	}
	for _, tt := range tests {
		if got := rgbFromColor(&tt.color); got != tt.want {
			t.Errorf("%s: rgbFromColor = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// TestPaletteMatch16 checks the gray axis and the chromatic matches of
// the 16-color preview palette.
func TestPaletteMatch16(t *testing.T) {
	tests := []struct {
		name  string
		color rgb
		want  int
	}{
		{"white", rgb{255, 255, 255}, 15},
		{"black", rgb{0, 0, 0}, 0},
		{"light gray", rgb{200, 200, 200}, 8},
		{"gray", rgb{150, 150, 150}, 7},
		{"dark gray", rgb{60, 60, 60}, 0},
		{"red", rgb{255, 0, 0}, 9},
		{"green", rgb{0, 255, 0}, 10},
		{"blue", rgb{0, 0, 255}, 12},
		{"yellow", rgb{255, 255, 0}, 11},
		{"dark red", rgb{128, 0, 0}, 1},
		{"dark green", rgb{0, 128, 0}, 2},
	}
	for _, tt := range tests {
		if got := paletteMatch16(tt.color); got != tt.want {
			t.Errorf("%s: paletteMatch16(%v) = %d, want %d", tt.name, tt.color, got, tt.want)
		}
	}
}

// TestPaletteMatch125 checks exact cube hits and the white fast path of
// the 125-color palette.
func TestPaletteMatch125(t *testing.T) {
	tests := []struct {
		name  string
		color rgb
		want  uint8
	}{
		{"white", rgb{255, 255, 255}, 124},
		{"black", rgb{0, 0, 0}, 0},
		{"red", rgb{255, 0, 0}, 100},
		{"cube entry", rgb{0x40, 0x80, 0xc0}, 38},
		{"near black", rgb{10, 10, 10}, 0},
		{"near white", rgb{250, 250, 250}, 124},
	}
	for _, tt := range tests {
		if got := paletteMatch125(tt.color); got != tt.want {
			t.Errorf("%s: paletteMatch125(%v) = %d, want %d", tt.name, tt.color, got, tt.want)
		}
	}
}

// TestHSVAchromatic checks the achromatic hue sentinel.
func TestHSVAchromatic(t *testing.T) {
	for _, c := range []rgb{{0, 0, 0}, {128, 128, 128}, {255, 255, 255}} {
		if h, _, _ := c.hsv(); h != -1 {
			t.Errorf("hsv(%v) hue = %d, want -1", c, h)
		}
	}
	if h, s, v := (rgb{255, 0, 0}).hsv(); h != 0 || s != 255 || v != 255 {
		t.Errorf("hsv(red) = (%d, %d, %d), want (0, 255, 255)", h, s, v)
	}
	if h, _, _ := (rgb{0, 255, 0}).hsv(); h != 120 {
		t.Errorf("hsv(green) hue = %d, want 120", h)
	}
}
