// Package raster is a software sketch.Surface backed by *image.RGBA. It needs
// no GPU, so the headless report and pixel tests run on it.
package raster

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/Garsondee/panelflow/internal/sketch"
)

const (
	minCircleSegments = 12
	maxCircleSegments = 64
)

// Renderer hands out raster Images.
type Renderer struct{}

// NewSurface implements sketch.Renderer.
func (Renderer) NewSurface(w, h int) sketch.Surface { return New(w, h) }

// Image is a transparent RGBA canvas that implements sketch.Surface.
type Image struct {
	img *image.RGBA
	ras *vector.Rasterizer
}

// New returns a transparent w×h Image. Sizes below one pixel are raised to one.
func New(w, h int) *Image {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Image{
		img: image.NewRGBA(image.Rect(0, 0, w, h)),
		ras: vector.NewRasterizer(1, 1),
	}
}

// RGBA exposes the backing pixels. Pix is alpha-premultiplied.
func (m *Image) RGBA() *image.RGBA { return m.img }

func (m *Image) Width() int  { return m.img.Rect.Dx() }
func (m *Image) Height() int { return m.img.Rect.Dy() }

// AlphaAt returns the alpha byte at (x, y), 0 outside the canvas.
func (m *Image) AlphaAt(x, y int) uint8 {
	if !(image.Point{X: x, Y: y}).In(m.img.Rect) {
		return 0
	}
	return m.img.Pix[m.img.PixOffset(x, y)+3]
}

// MeanAlpha returns the average alpha over the whole canvas in [0,255].
func (m *Image) MeanAlpha() float64 {
	var sum uint64
	for i := 3; i < len(m.img.Pix); i += 4 {
		sum += uint64(m.img.Pix[i])
	}
	n := len(m.img.Pix) / 4
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// FillRect fills the pixel-aligned rectangle nearest to (x, y, w, h).
func (m *Image) FillRect(x, y, w, h float64, clr color.NRGBA, mode sketch.BlendMode) {
	r := pixelRect(x, y, w, h).Intersect(m.img.Rect)
	if r.Empty() {
		return
	}
	switch mode {
	case sketch.BlendAdditive:
		pr, pg, pb, pa := premultiply(clr)
		m.eachPixel(r, func(px []uint8) {
			px[0] = addSat(px[0], pr)
			px[1] = addSat(px[1], pg)
			px[2] = addSat(px[2], pb)
			px[3] = addSat(px[3], pa)
		})
	case sketch.BlendSubtractive:
		keep := 255 - uint32(clr.A)
		m.eachPixel(r, func(px []uint8) {
			px[0] = uint8(uint32(px[0]) * keep / 255)
			px[1] = uint8(uint32(px[1]) * keep / 255)
			px[2] = uint8(uint32(px[2]) * keep / 255)
			px[3] = uint8(uint32(px[3]) * keep / 255)
		})
	default:
		if clr.A == 0 {
			return
		}
		draw.Draw(m.img, r, image.NewUniform(clr), image.Point{}, draw.Over)
	}
}

// StrokeRect outlines the rectangle with a band of the given width centred on
// its edges.
func (m *Image) StrokeRect(x, y, w, h, width float64, clr color.NRGBA) {
	if width <= 0 {
		return
	}
	hw := width / 2
	outer := rectPoly(x-hw, y-hw, w+width, h+width)
	if w <= width || h <= width {
		m.fill(clr, outer)
		return
	}
	inner := rectPoly(x+hw, y+hw, w-width, h-width)
	// Opposite winding punches the hole.
	for i, j := 0, len(inner)-1; i < j; i, j = i+1, j-1 {
		inner[i], inner[j] = inner[j], inner[i]
	}
	m.fill(clr, outer, inner)
}

// StrokeLine draws a butt-capped segment of the given width.
func (m *Image) StrokeLine(x0, y0, x1, y1, width float64, clr color.NRGBA) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if width <= 0 || length == 0 {
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2
	m.fill(clr, []point{
		{x0 + nx, y0 + ny},
		{x1 + nx, y1 + ny},
		{x1 - nx, y1 - ny},
		{x0 - nx, y0 - ny},
	})
}

// FillCircle draws an anti-aliased disc.
func (m *Image) FillCircle(cx, cy, r float64, clr color.NRGBA) {
	if r <= 0 {
		return
	}
	n := int(math.Ceil(r * 4))
	if n < minCircleSegments {
		n = minCircleSegments
	}
	if n > maxCircleSegments {
		n = maxCircleSegments
	}
	poly := make([]point, n)
	for i := range poly {
		a := 2 * math.Pi * float64(i) / float64(n)
		poly[i] = point{cx + r*math.Cos(a), cy + r*math.Sin(a)}
	}
	m.fill(clr, poly)
}

// DrawSurface composites src, which must be another *Image, into the
// pixel-aligned rectangle (x, y, w, h), scaling bilinearly when the sizes
// differ.
func (m *Image) DrawSurface(src sketch.Surface, x, y, w, h float64, mode sketch.BlendMode) {
	s, ok := src.(*Image)
	if !ok {
		return
	}
	dr := pixelRect(x, y, w, h)
	if dr.Empty() {
		return
	}
	from := s.img
	if dr.Dx() != s.Width() || dr.Dy() != s.Height() {
		scaled := image.NewRGBA(image.Rect(0, 0, dr.Dx(), dr.Dy()))
		draw.BiLinear.Scale(scaled, scaled.Rect, s.img, s.img.Rect, draw.Src, nil)
		from = scaled
	}

	switch mode {
	case sketch.BlendAdditive:
		m.blendFrom(from, dr, func(d, s []uint8) {
			d[0] = addSat(d[0], s[0])
			d[1] = addSat(d[1], s[1])
			d[2] = addSat(d[2], s[2])
			d[3] = addSat(d[3], s[3])
		})
	case sketch.BlendSubtractive:
		m.blendFrom(from, dr, func(d, s []uint8) {
			keep := 255 - uint32(s[3])
			d[0] = uint8(uint32(d[0]) * keep / 255)
			d[1] = uint8(uint32(d[1]) * keep / 255)
			d[2] = uint8(uint32(d[2]) * keep / 255)
			d[3] = uint8(uint32(d[3]) * keep / 255)
		})
	default:
		draw.Draw(m.img, dr, from, from.Rect.Min, draw.Over)
	}
}

type point struct{ x, y float64 }

func rectPoly(x, y, w, h float64) []point {
	return []point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
}

// fill rasterizes the closed polygons with the non-zero rule, over a mask
// sized to their bounding box.
func (m *Image) fill(clr color.NRGBA, polys ...[]point) {
	if clr.A == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, poly := range polys {
		for _, p := range poly {
			minX, minY = math.Min(minX, p.x), math.Min(minY, p.y)
			maxX, maxY = math.Max(maxX, p.x), math.Max(maxY, p.y)
		}
	}
	if math.IsInf(minX, 0) || math.IsNaN(minX+minY+maxX+maxY) {
		return
	}
	box := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1)
	if !box.Overlaps(m.img.Rect) {
		return
	}

	m.ras.Reset(box.Dx(), box.Dy())
	m.ras.DrawOp = draw.Over
	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		m.ras.MoveTo(float32(poly[0].x-ox), float32(poly[0].y-oy))
		for _, p := range poly[1:] {
			m.ras.LineTo(float32(p.x-ox), float32(p.y-oy))
		}
		m.ras.ClosePath()
	}
	m.ras.Draw(m.img, box, image.NewUniform(clr), image.Point{})
}

func (m *Image) eachPixel(r image.Rectangle, fn func(px []uint8)) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := m.img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			fn(m.img.Pix[off : off+4 : off+4])
			off += 4
		}
	}
}

// blendFrom walks dr on m and the matching pixels of src, whose origin maps to
// dr.Min.
func (m *Image) blendFrom(src *image.RGBA, dr image.Rectangle, fn func(d, s []uint8)) {
	clip := dr.Intersect(m.img.Rect)
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		for x := clip.Min.X; x < clip.Max.X; x++ {
			sp := image.Point{X: src.Rect.Min.X + x - dr.Min.X, Y: src.Rect.Min.Y + y - dr.Min.Y}
			if !sp.In(src.Rect) {
				continue
			}
			do := m.img.PixOffset(x, y)
			so := src.PixOffset(sp.X, sp.Y)
			fn(m.img.Pix[do:do+4:do+4], src.Pix[so:so+4:so+4])
		}
	}
}

func pixelRect(x, y, w, h float64) image.Rectangle {
	return image.Rect(
		int(math.Round(x)), int(math.Round(y)),
		int(math.Round(x+w)), int(math.Round(y+h)),
	)
}

func premultiply(c color.NRGBA) (r, g, b, a uint8) {
	a32 := uint32(c.A)
	return uint8(uint32(c.R) * a32 / 255), uint8(uint32(c.G) * a32 / 255), uint8(uint32(c.B) * a32 / 255), c.A
}

func addSat(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}
