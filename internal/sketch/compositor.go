package sketch

import "image/color"

// Compositor owns the main surface and the two persistent trail layers.
// The layers are never cleared: each tick they lose a little coverage and
// new content is drawn over what remains.
type Compositor struct {
	main      Surface
	particles Surface
	strokes   Surface
	w, h      float64
}

// NewCompositor allocates the main surface and both layers at w x h.
func NewCompositor(r Renderer, w, h int) *Compositor {
	return &Compositor{
		main:      r.NewSurface(w, h),
		particles: r.NewSurface(w, h),
		strokes:   r.NewSurface(w, h),
		w:         float64(w),
		h:         float64(h),
	}
}

// Main returns the surface everything is composited onto.
func (c *Compositor) Main() Surface { return c.main }

// ParticleLayer returns the particle trail buffer.
func (c *Compositor) ParticleLayer() Surface { return c.particles }

// StrokeLayer returns the stroke trail buffer.
func (c *Compositor) StrokeLayer() Surface { return c.strokes }

// Wash adds a faint white over the main surface.
func (c *Compositor) Wash() {
	c.main.FillRect(0, 0, c.w, c.h, colorWash, BlendAdditive)
}

// Fade removes coverage from both layers. Larger alphas give shorter trails.
func (c *Compositor) Fade(particleAlpha, strokeAlpha uint8) {
	c.particles.FillRect(0, 0, c.w, c.h, color.NRGBA{R: 255, G: 255, B: 255, A: particleAlpha}, BlendSubtractive)
	c.strokes.FillRect(0, 0, c.w, c.h, color.NRGBA{A: strokeAlpha}, BlendSubtractive)
}

// DrawRegions outlines and tints every region on the main surface.
func (c *Compositor) DrawRegions(regions []Region) {
	for _, r := range regions {
		c.main.FillRect(r.X0, r.Y0, r.Width(), r.Height(), colorRegionFill, BlendNormal)
		c.main.StrokeRect(r.X0, r.Y0, r.Width(), r.Height(), 2, colorRegionBorder)
	}
}

// Composite draws the particle layer and then the stroke layer over the main
// surface, so strokes end up on top.
func (c *Compositor) Composite() {
	c.main.DrawSurface(c.particles, 0, 0, c.w, c.h, BlendNormal)
	c.main.DrawSurface(c.strokes, 0, 0, c.w, c.h, BlendNormal)
}
