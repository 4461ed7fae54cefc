package sketch

import "image/color"

// constNoise returns the same value everywhere.
type constNoise float64

func (c constNoise) Noise3D(_, _, _ float64) float64 { return float64(c) }

// funcNoise adapts a plain function.
type funcNoise func(x, y, z float64) float64

func (f funcNoise) Noise3D(x, y, z float64) float64 { return f(x, y, z) }

// drawOp is one recorded Surface call.
type drawOp struct {
	kind           string // fillRect, strokeRect, line, circle, surface
	mode           BlendMode
	clr            color.NRGBA
	x0, y0, x1, y1 float64
	width          float64
	src            Surface
}

// recordSurface counts every call and, when keep is set, stores it.
type recordSurface struct {
	w, h   int
	keep   bool
	ops    []drawOp
	counts map[string]int
}

func (s *recordSurface) record(op drawOp) {
	if s.counts == nil {
		s.counts = map[string]int{}
	}
	s.counts[op.kind]++
	if s.keep {
		s.ops = append(s.ops, op)
	}
}

func (s *recordSurface) reset() {
	s.ops = s.ops[:0]
	s.counts = map[string]int{}
}

func (s *recordSurface) Width() int  { return s.w }
func (s *recordSurface) Height() int { return s.h }

func (s *recordSurface) FillRect(x, y, w, h float64, clr color.NRGBA, mode BlendMode) {
	s.record(drawOp{kind: "fillRect", mode: mode, clr: clr, x0: x, y0: y, x1: x + w, y1: y + h})
}

func (s *recordSurface) StrokeRect(x, y, w, h, width float64, clr color.NRGBA) {
	s.record(drawOp{kind: "strokeRect", clr: clr, x0: x, y0: y, x1: x + w, y1: y + h, width: width})
}

func (s *recordSurface) StrokeLine(x0, y0, x1, y1, width float64, clr color.NRGBA) {
	s.record(drawOp{kind: "line", clr: clr, x0: x0, y0: y0, x1: x1, y1: y1, width: width})
}

func (s *recordSurface) FillCircle(cx, cy, r float64, clr color.NRGBA) {
	s.record(drawOp{kind: "circle", clr: clr, x0: cx, y0: cy, width: r})
}

func (s *recordSurface) DrawSurface(src Surface, x, y, w, h float64, mode BlendMode) {
	s.record(drawOp{kind: "surface", mode: mode, x0: x, y0: y, x1: x + w, y1: y + h, src: src})
}

// recordRenderer hands out recordSurfaces and remembers them in creation
// order: main, particle layer, stroke layer.
type recordRenderer struct {
	keep     bool
	surfaces []*recordSurface
}

func (r *recordRenderer) NewSurface(w, h int) Surface {
	s := &recordSurface{w: w, h: h, keep: r.keep}
	r.surfaces = append(r.surfaces, s)
	return s
}

// newTestSketch builds a sketch on a recordRenderer with fixed noise.
func newTestSketch(keep bool, opts ...Option) (*Sketch, *recordRenderer) {
	r := &recordRenderer{keep: keep}
	base := []Option{WithSeed(7), WithNoise(ValueNoise{Seed: 7})}
	return New(r, append(base, opts...)...), r
}
