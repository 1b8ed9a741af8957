package ocd

import (
	"math"
	"testing"
)

// TestConvertPointMember locks down the fixed-point conversion,
// including the rounding of negative values and the sign handling in
// the packed representation.
func TestConvertPointMember(t *testing.T) {
	tests := []struct {
		value int32
		want  int32
	}{
		{-16, -512},
		{-15, -256},
		{-6, -256},
		{-5, 0},
		{-1, 0},
		{0, 0},
		{1, 0},
		{4, 0},
		{5, 256},
		{14, 256},
		{15, 512},
		{10000, 1000 << 8},
		{-10000, -1000 << 8},
	}
	for _, tt := range tests {
		got := convertPointMember(tt.value)
		if got != tt.want {
			t.Errorf("convertPointMember(%d) = %d (0x%08x), want %d", tt.value, got, uint32(got), tt.want)
		}
	}
}

// TestConvertPoint checks that the y axis is negated: the wire format's
// y axis grows up while native coordinates grow down.
func TestConvertPoint(t *testing.T) {
	p := convertPoint(10000, 10000)
	if p.X != 1000<<8 {
		t.Errorf("X = %d, want %d", p.X, 1000<<8)
	}
	if p.Y != -1000<<8 {
		t.Errorf("Y = %d, want %d", p.Y, -1000<<8)
	}
}

// TestConvertSize checks the 1/1000 mm to 1/100 mm conversion.
func TestConvertSize(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{0, 0},
		{4, 0},
		{5, 1},
		{14, 1},
		{15, 2},
		{1000, 100},
	}
	for _, tt := range tests {
		if got := convertSize(tt.size); got != tt.want {
			t.Errorf("convertSize(%d) = %d, want %d", tt.size, got, tt.want)
		}
	}
}

// TestConvertRotation checks the radians to tenths-of-degree
// conversion.
func TestConvertRotation(t *testing.T) {
	tests := []struct {
		angle float64
		want  int
	}{
		{0, 0},
		{math.Pi, 1800},
		{math.Pi / 2, 900},
		{-math.Pi / 4, -450},
	}
	for _, tt := range tests {
		if got := convertRotation(tt.angle); got != tt.want {
			t.Errorf("convertRotation(%g) = %d, want %d", tt.angle, got, tt.want)
		}
	}
}

// TestPaddedSize checks the 8-byte record alignment.
func TestPaddedSize(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 0},
		{1, 8},
		{8, 8},
		{9, 16},
		{16, 16},
	}
	for _, tt := range tests {
		if got := paddedSize(tt.n); got != tt.want {
			t.Errorf("paddedSize(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}
