package ocd

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/vector"

	"github.com/omaptools/ocdconv/internal/model"
)

// iconPixels is the icon edge length of all format versions.
const iconPixels = 22

// IconRenderer produces the 22x22 preview image of a symbol. The
// returned image may use an alpha channel; it is composited on white
// before palette mapping.
type IconRenderer interface {
	RenderIcon(sym model.Symbol, antialiased bool) image.Image
}

// compositeOnWhite flattens one premultiplied pixel onto a white
// background.
func compositeOnWhite(img image.Image, x, y int) rgb {
	c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
	return rgb{
		R: uint8(255 - int(c.A) + int(c.R)),
		G: uint8(255 - int(c.A) + int(c.G)),
		B: uint8(255 - int(c.A) + int(c.B)),
	}
}

// ditherThreshold is the 2x2 ordered dithering matrix, adjusted for
// orienteering map halftones.
var ditherThreshold = [4]int{24, 192, 136, 80}

// encodeIconV6 packs the icon into the 264-byte 4-bit palette layout:
// rows bottom to top, two pixels per byte, one pad byte per row.
// Halftones are approximated by ordered dithering between neighboring
// palette entries.
func encodeIconV6(img image.Image) []byte {
	processPixel := func(x, y int) int {
		pixel := compositeOnWhite(img, x, y)
		t := ditherThreshold[x%2+2*(y%2)]
		paletteColor := paletteMatch16(pixel)
		switch paletteColor {
		case 0:
			// Black to gray (50%)
			if pixel.gray() < 128-t/2 {
				return 0
			}
			return 7
		case 7:
			// Gray (50%) to light gray
			if pixel.gray() < 192-t/4 {
				return 7
			}
			return 8
		case 8:
			// Light gray to white
			if pixel.gray() < 256-t/4 {
				return 8
			}
			return 15
		case 15:
			return 15
		default:
			// Color to white
			if _, saturation, _ := pixel.hsv(); saturation >= t {
				return paletteColor
			}
			return 15
		}
	}

	out := make([]byte, 0, 264)
	for y := iconPixels - 1; y >= 0; y-- {
		for x := 0; x < iconPixels; x += 2 {
			out = append(out, uint8(processPixel(x, y)<<4+processPixel(x+1, y)))
		}
		out = append(out, 0)
	}
	return out
}

// encodeIconV9 packs the icon into the 484-byte 8-bit palette layout:
// rows bottom to top, one 125-color palette index per pixel.
func encodeIconV9(img image.Image) []byte {
	out := make([]byte, 0, 484)
	for y := iconPixels - 1; y >= 0; y-- {
		for x := 0; x < iconPixels; x++ {
			out = append(out, paletteMatch125(compositeOnWhite(img, x, y)))
		}
	}
	return out
}

// rasterIconRenderer is the default icon renderer. It draws a reduced
// rendition of the symbol's primitives with x/image/vector; the
// antialiased variant renders at 4x and downscales with a box filter.
type rasterIconRenderer struct{}

func (rasterIconRenderer) RenderIcon(sym model.Symbol, antialiased bool) image.Image {
	scale := 1
	if antialiased {
		scale = 4
	}
	size := iconPixels * scale
	dst := image.NewRGBA(image.Rect(0, 0, size, size))

	// Map the symbol's extent into the icon square with a margin.
	halfExtent := iconHalfExtent(sym)
	pxPerMM := float64(size) / (2 * halfExtent * 1.1)
	center := float64(size) / 2
	p := &iconPainter{
		dst: dst,
		transform: func(pt model.PointF) (float32, float32) {
			return float32(center + pt.X*pxPerMM), float32(center + pt.Y*pxPerMM)
		},
		pxPerMM: pxPerMM,
	}
	p.drawSymbol(sym, model.PointF{}, halfExtent)

	if antialiased {
		return imaging.Resize(dst, iconPixels, iconPixels, imaging.Box)
	}
	return dst
}

// iconHalfExtent returns half the edge length, in millimeters, of the
// square the icon should show for sym.
func iconHalfExtent(sym model.Symbol) float64 {
	extent := 1.0
	grow := func(mm float64) {
		if mm > extent {
			extent = mm
		}
	}
	switch s := sym.(type) {
	case *model.PointSymbol:
		grow(float64(s.InnerRadius) / 1000)
		grow(float64(s.InnerRadius+s.OuterWidth) / 1000)
		for _, e := range s.Elements {
			for _, c := range e.Coords {
				p := c.PointF()
				grow(math.Abs(p.X))
				grow(math.Abs(p.Y))
			}
		}
	case *model.LineSymbol:
		grow(float64(s.LineWidth) / 1000)
	case *model.TextSymbol:
		grow(s.FontSize / 2)
	case *model.CombinedSymbol:
		for _, part := range s.Parts {
			if part != nil {
				grow(iconHalfExtent(part))
			}
		}
	}
	return extent
}

// iconPainter rasterizes filled shapes into the icon image.
type iconPainter struct {
	dst       *image.RGBA
	transform func(model.PointF) (float32, float32)
	pxPerMM   float64
}

func (p *iconPainter) drawSymbol(sym model.Symbol, at model.PointF, halfExtent float64) {
	switch s := sym.(type) {
	case *model.PointSymbol:
		p.drawPointSymbol(s, at)
	case *model.LineSymbol:
		left := model.PointF{X: at.X - halfExtent, Y: at.Y}
		right := model.PointF{X: at.X + halfExtent, Y: at.Y}
		if s.Color != nil {
			p.strokePolyline(s.Color, []model.PointF{left, right}, float64(s.LineWidth)/1000)
		}
		for _, b := range []model.LineBorder{s.Border, s.RightBorder} {
			if b.IsVisible() {
				shift := float64(b.Shift) / 1000
				p.strokePolyline(b.Color,
					[]model.PointF{{X: left.X, Y: left.Y + shift}, {X: right.X, Y: right.Y + shift}},
					float64(b.Width)/1000)
			}
		}
	case *model.AreaSymbol:
		corners := []model.PointF{
			{X: at.X - halfExtent, Y: at.Y - halfExtent},
			{X: at.X + halfExtent, Y: at.Y - halfExtent},
			{X: at.X + halfExtent, Y: at.Y + halfExtent},
			{X: at.X - halfExtent, Y: at.Y + halfExtent},
		}
		if s.Color != nil {
			p.fillPolygon(s.Color, corners)
		}
		for _, pat := range s.Patterns {
			if pat.Type == model.LinePattern && pat.LineColor != nil {
				spacing := float64(pat.LineSpacing) / 1000
				if spacing <= 0 {
					spacing = halfExtent
				}
				for y := at.Y - halfExtent; y <= at.Y+halfExtent; y += spacing {
					p.strokePolyline(pat.LineColor,
						[]model.PointF{{X: at.X - halfExtent, Y: y}, {X: at.X + halfExtent, Y: y}},
						float64(pat.LineWidth)/1000)
				}
			}
		}
	case *model.TextSymbol:
		if s.Color != nil {
			// A stylized glyph stands in for real text rendering.
			h := s.FontSize / 2
			w := h * 0.35
			stroke := h / 5
			apex := model.PointF{X: at.X, Y: at.Y - h/2}
			baseL := model.PointF{X: at.X - w, Y: at.Y + h/2}
			baseR := model.PointF{X: at.X + w, Y: at.Y + h/2}
			p.strokePolyline(s.Color, []model.PointF{baseL, apex, baseR}, stroke)
			p.strokePolyline(s.Color, []model.PointF{
				{X: at.X - w/2, Y: at.Y + h/6},
				{X: at.X + w/2, Y: at.Y + h/6},
			}, stroke)
		}
	case *model.CombinedSymbol:
		for _, part := range s.Parts {
			if part != nil {
				p.drawSymbol(part, at, halfExtent)
			}
		}
	}
}

func (p *iconPainter) drawPointSymbol(s *model.PointSymbol, at model.PointF) {
	if s == nil {
		return
	}
	for _, e := range s.Elements {
		coords := make([]model.PointF, len(e.Coords))
		for i, c := range e.Coords {
			coords[i] = c.PointF().Add(at)
		}
		switch es := e.Symbol.(type) {
		case *model.LineSymbol:
			if es.Color != nil && len(coords) >= 2 {
				p.strokePolyline(es.Color, coords, float64(es.LineWidth)/1000)
			}
		case *model.AreaSymbol:
			if es.Color != nil && len(coords) >= 3 {
				p.fillPolygon(es.Color, coords)
			}
		case *model.PointSymbol:
			center := at
			if len(coords) > 0 {
				center = coords[0]
			}
			p.drawPointSymbol(es, center)
		}
	}
	if s.InnerRadius > 0 && s.InnerColor != nil {
		p.fillCircle(s.InnerColor, at, float64(s.InnerRadius)/1000)
	}
	if s.OuterWidth > 0 && s.OuterColor != nil {
		inner := float64(s.InnerRadius) / 1000
		p.fillRing(s.OuterColor, at, inner, inner+float64(s.OuterWidth)/1000)
	}
}

func (p *iconPainter) paint(r *vector.Rasterizer, c *model.Color) {
	flat := rgbFromColor(c)
	src := image.NewUniform(color.NRGBA{
		R: flat.R, G: flat.G, B: flat.B,
		A: uint8(math.Round(255 * c.Opacity)),
	})
	r.Draw(p.dst, p.dst.Bounds(), src, image.Point{})
}

func (p *iconPainter) fillPolygon(c *model.Color, pts []model.PointF) {
	r := vector.NewRasterizer(p.dst.Bounds().Dx(), p.dst.Bounds().Dy())
	p.addPolygon(r, pts)
	p.paint(r, c)
}

// circleK is the cubic Bezier circle approximation constant.
const circleK = 0.5523

func (p *iconPainter) addCircle(r *vector.Rasterizer, center model.PointF, radius float64, clockwise bool) {
	cx, cy := p.transform(center)
	rad := float32(radius * p.pxPerMM)
	k := float32(circleK) * rad
	if clockwise {
		r.MoveTo(cx+rad, cy)
		r.CubeTo(cx+rad, cy+k, cx+k, cy+rad, cx, cy+rad)
		r.CubeTo(cx-k, cy+rad, cx-rad, cy+k, cx-rad, cy)
		r.CubeTo(cx-rad, cy-k, cx-k, cy-rad, cx, cy-rad)
		r.CubeTo(cx+k, cy-rad, cx+rad, cy-k, cx+rad, cy)
	} else {
		r.MoveTo(cx+rad, cy)
		r.CubeTo(cx+rad, cy-k, cx+k, cy-rad, cx, cy-rad)
		r.CubeTo(cx-k, cy-rad, cx-rad, cy-k, cx-rad, cy)
		r.CubeTo(cx-rad, cy+k, cx-k, cy+rad, cx, cy+rad)
		r.CubeTo(cx+k, cy+rad, cx+rad, cy+k, cx+rad, cy)
	}
	r.ClosePath()
}

func (p *iconPainter) fillCircle(c *model.Color, center model.PointF, radius float64) {
	r := vector.NewRasterizer(p.dst.Bounds().Dx(), p.dst.Bounds().Dy())
	p.addCircle(r, center, radius, true)
	p.paint(r, c)
}

// fillRing draws an annulus as two concentric circles with opposite
// winding.
func (p *iconPainter) fillRing(c *model.Color, center model.PointF, inner, outer float64) {
	r := vector.NewRasterizer(p.dst.Bounds().Dx(), p.dst.Bounds().Dy())
	p.addCircle(r, center, outer, true)
	if inner > 0 {
		p.addCircle(r, center, inner, false)
	}
	p.paint(r, c)
}

func (p *iconPainter) addPolygon(r *vector.Rasterizer, pts []model.PointF) {
	if len(pts) < 3 {
		return
	}
	x, y := p.transform(pts[0])
	r.MoveTo(x, y)
	for _, pt := range pts[1:] {
		x, y = p.transform(pt)
		r.LineTo(x, y)
	}
	r.ClosePath()
}

// strokePolyline approximates a round-capped stroke with one quad per
// segment plus a disc at every vertex.
func (p *iconPainter) strokePolyline(c *model.Color, pts []model.PointF, width float64) {
	if len(pts) < 2 || width <= 0 {
		return
	}
	half := width / 2
	r := vector.NewRasterizer(p.dst.Bounds().Dx(), p.dst.Bounds().Dy())
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		dx, dy := b.X-a.X, b.Y-a.Y
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		nx, ny := -dy/length*half, dx/length*half
		p.addPolygon(r, []model.PointF{
			{X: a.X + nx, Y: a.Y + ny},
			{X: b.X + nx, Y: b.Y + ny},
			{X: b.X - nx, Y: b.Y - ny},
			{X: a.X - nx, Y: a.Y - ny},
		})
	}
	for _, pt := range pts {
		p.addCircle(r, pt, half, true)
	}
	p.paint(r, c)
}
