// Package render implements sketch.Surface on ebiten images.
package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/panelflow/internal/sketch"
)

// Renderer creates ebiten-backed surfaces. The zero value is not usable; call
// NewRenderer.
type Renderer struct {
	// white is a 1×1 opaque pixel stretched over rectangles that need a
	// blend mode vector.FillRect cannot express.
	white     *ebiten.Image
	antialias bool
}

// NewRenderer returns a Renderer. antialias is passed to every vector call.
func NewRenderer(antialias bool) *Renderer {
	white := ebiten.NewImage(1, 1)
	white.Fill(color.White)
	return &Renderer{white: white, antialias: antialias}
}

// NewSurface implements sketch.Renderer.
func (r *Renderer) NewSurface(w, h int) sketch.Surface {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Surface{img: ebiten.NewImage(w, h), r: r}
}

// Surface is an offscreen ebiten image. It keeps its pixels between frames,
// which the trail layers depend on.
type Surface struct {
	img *ebiten.Image
	r   *Renderer
}

// Image returns the backing image for blitting to the screen.
func (s *Surface) Image() *ebiten.Image { return s.img }

func (s *Surface) Width() int  { return s.img.Bounds().Dx() }
func (s *Surface) Height() int { return s.img.Bounds().Dy() }

func (s *Surface) FillRect(x, y, w, h float64, clr color.NRGBA, mode sketch.BlendMode) {
	if mode == sketch.BlendNormal {
		vector.FillRect(s.img, float32(x), float32(y), float32(w), float32(h), clr, s.r.antialias)
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.Blend = Blend(mode)
	s.img.DrawImage(s.r.white, &op)
}

func (s *Surface) StrokeRect(x, y, w, h, width float64, clr color.NRGBA) {
	if width <= 0 {
		return
	}
	vector.StrokeRect(s.img, float32(x), float32(y), float32(w), float32(h), float32(width), clr, s.r.antialias)
}

func (s *Surface) StrokeLine(x0, y0, x1, y1, width float64, clr color.NRGBA) {
	if width <= 0 || (x0 == x1 && y0 == y1) {
		return
	}
	vector.StrokeLine(s.img, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), clr, s.r.antialias)
}

func (s *Surface) FillCircle(cx, cy, r float64, clr color.NRGBA) {
	if r <= 0 {
		return
	}
	vector.FillCircle(s.img, float32(cx), float32(cy), float32(r), clr, s.r.antialias)
}

// DrawSurface scales src into (x, y, w, h). Sources from other backends are
// ignored.
func (s *Surface) DrawSurface(src sketch.Surface, x, y, w, h float64, mode sketch.BlendMode) {
	from, ok := src.(*Surface)
	if !ok || from.Width() == 0 || from.Height() == 0 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(w/float64(from.Width()), h/float64(from.Height()))
	op.GeoM.Translate(x, y)
	op.Blend = Blend(mode)
	op.Filter = ebiten.FilterLinear
	s.img.DrawImage(from.img, &op)
}

// Blend maps a sketch blend mode onto ebiten's.
func Blend(mode sketch.BlendMode) ebiten.Blend {
	switch mode {
	case sketch.BlendAdditive:
		return ebiten.BlendLighter
	case sketch.BlendSubtractive:
		return ebiten.BlendDestinationOut
	}
	return ebiten.BlendSourceOver
}
