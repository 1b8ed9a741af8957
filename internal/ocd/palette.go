package ocd

import (
	"math"

	"github.com/omaptools/ocdconv/internal/model"
)

// rgb is a plain 24-bit color.
type rgb struct {
	R, G, B uint8
}

var white = rgb{255, 255, 255}

// rgbFromColor flattens a CMYK map color to RGB, ignoring opacity.
func rgbFromColor(c *model.Color) rgb {
	channel := func(v float64) uint8 {
		return uint8(math.Round(255 * (1 - v) * (1 - c.K)))
	}
	return rgb{R: channel(c.C), G: channel(c.M), B: channel(c.Y)}
}

// gray returns the luminance used for dithering decisions.
func (c rgb) gray() int {
	return (int(c.R)*11 + int(c.G)*16 + int(c.B)*5) / 32
}

// hsv returns hue (0-359, -1 for achromatic), saturation and value
// (0-255 each).
func (c rgb) hsv() (h, s, v int) {
	r, g, b := int(c.R), int(c.G), int(c.B)
	max := r
	if g > max {
		max = g
	}
	if b > max {
		max = b
	}
	min := r
	if g < min {
		min = g
	}
	if b < min {
		min = b
	}
	v = max
	if max == 0 {
		return -1, 0, 0
	}
	delta := max - min
	s = int(math.Round(255 * float64(delta) / float64(max)))
	if delta == 0 {
		return -1, s, v
	}
	var hue float64
	switch max {
	case r:
		hue = 60 * float64(g-b) / float64(delta)
	case g:
		hue = 120 + 60*float64(b-r)/float64(delta)
	default:
		hue = 240 + 60*float64(r-g)/float64(delta)
	}
	if hue < 0 {
		hue += 360
	}
	h = int(math.Round(hue)) % 360
	return h, s, v
}

// hsvSwatch is a reference swatch of the 16-color palette.
type hsvSwatch struct {
	hue, saturation, value int
}

// The 16-entry palette in HSV: black, 6 dark hues, gray, light gray,
// 6 bright hues, white. Index positions match the wire format.
var palette16 = [16]hsvSwatch{
	{-1, 0, 0},
	{0, 255, 128},
	{120, 255, 128},
	{60, 255, 128},
	{240, 255, 128},
	{300, 255, 128},
	{180, 255, 128},
	{-1, 0, 128},
	{-1, 0, 192},
	{0, 255, 255},
	{120, 255, 255},
	{60, 255, 255},
	{240, 255, 255},
	{300, 255, 255},
	{180, 255, 255},
	{-1, 0, 255},
}

// paletteMatch16 maps a true color to the 16-entry preview palette.
// Achromatic and low-saturation colors resolve along the
// black/gray/light-gray/white axis by luminance. Chromatic colors use
// weighted squared HSV distance; the per-swatch weight multipliers are
// hand-tuned for orienteering map color frequency, not for perceptual
// accuracy, and must not be "corrected".
func paletteMatch16(c rgb) int {
	// Quickly return for the most frequent value.
	if c == white {
		return 15
	}

	hue, saturation, value := c.hsv()
	if hue == -1 || saturation < 32 {
		gray := c.gray()
		if gray >= 192 {
			return 8
		}
		if gray >= 128 {
			return 7
		}
		return 0
	}

	sq := func(n int) int { return n * n }
	bestIndex := 0
	bestDistance := 2100000 // > 6 * (10*sq(180) + sq(128) + sq(64))
	for _, i := range []int{1, 2, 3, 4, 5, 6, 9, 10, 11, 12, 13, 14} {
		swatch := palette16[i]
		hueDist := hue - swatch.hue
		if hueDist < 0 {
			hueDist = -hueDist
		}
		if 360-hueDist < hueDist {
			hueDist = 360 - hueDist
		}
		distance := 10*sq(hueDist) + sq(saturation-swatch.saturation) + sq(value-swatch.value)

		switch i {
		case 1:
			distance *= 3 // dark red
		case 3:
			distance *= 4 // olive
		case 11:
			distance *= 4 // yellow
		case 9:
			distance *= 6 // red is unlikely
		default:
			distance *= 2
		}

		if distance < bestDistance {
			bestDistance = distance
			bestIndex = i
		}
	}
	return bestIndex
}

// palette125 is the 5x5x5 cube over {0, 64, 128, 192, 255} per
// channel, in r-major order.
var palette125 = func() [125]rgb {
	levels := [5]uint8{0x00, 0x40, 0x80, 0xc0, 0xff}
	var p [125]rgb
	i := 0
	for _, r := range levels {
		for _, g := range levels {
			for _, b := range levels {
				p[i] = rgb{r, g, b}
				i++
			}
		}
	}
	return p
}()

// paletteMatch125 maps a true color to the nearest entry of the
// 125-color cube by squared RGB distance weighted 2:4:3, roughly
// matching perceived channel luminance.
func paletteMatch125(c rgb) uint8 {
	// Quickly return for the most frequent value.
	if c == white {
		return 124
	}

	sq := func(n int) int { return n * n }
	var bestIndex uint8
	bestDistance := 10000 // > (2 + 3 + 4) * sq(32)
	for i, swatch := range palette125 {
		distance := 2*sq(int(c.R)-int(swatch.R)) +
			4*sq(int(c.G)-int(swatch.G)) +
			3*sq(int(c.B)-int(swatch.B))
		if distance < bestDistance {
			bestDistance = distance
			bestIndex = uint8(i)
		}
	}
	return bestIndex
}
