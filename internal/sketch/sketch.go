// Package sketch is the animation engine: region layout, frame clock, stroke
// lifecycle and reveal, flow-field particles, grid background and the layer
// compositor. It draws only through the Surface contract and samples only
// through the Noise contract, so any backend and any noise source can drive it.
package sketch

import (
	"fmt"
	"math"
	"math/rand"
)

// Sketch is the whole simulation state. Step advances it by one tick; nothing
// else mutates it.
type Sketch struct {
	layout    Layout
	params    ParamSource
	noise     Noise
	rng       *rand.Rand
	clock     *FrameClock
	grid      *Grid
	strokes   *StrokePool
	particles *ParticleField
	comp      *Compositor
	render    StrokeRenderer
	events    EventSink

	seed     int64
	interval float64
}

// Option configures a Sketch under construction.
type Option func(*Sketch)

// WithLayout replaces the default canvas and region table.
func WithLayout(l Layout) Option {
	return func(s *Sketch) {
		l.Regions = append([]Region(nil), l.Regions...)
		s.layout = l
	}
}

// WithSeed sets the RNG seed for geometry, timing and spawning. The default
// Perlin oracle is seeded from it too.
func WithSeed(seed int64) Option {
	return func(s *Sketch) { s.seed = seed }
}

// WithNoise injects the coherent-noise oracle.
func WithNoise(n Noise) Option {
	return func(s *Sketch) { s.noise = n }
}

// WithParams injects the live parameter source.
func WithParams(p ParamSource) Option {
	return func(s *Sketch) { s.params = p }
}

// WithEvents routes lifecycle events to sink.
func WithEvents(sink EventSink) Option {
	return func(s *Sketch) { s.events = sink }
}

// WithFrameInterval overrides the simulated ms per tick.
func WithFrameInterval(ms float64) Option {
	return func(s *Sketch) { s.interval = ms }
}

// New builds a sketch drawing through r and runs setup: grid cells, the
// initial strokes, and the first region outlines on the main surface.
func New(r Renderer, opts ...Option) *Sketch {
	s := &Sketch{
		layout:   DefaultLayout(),
		seed:     1,
		interval: FrameInterval,
	}
	for _, o := range opts {
		o(s)
	}
	if s.params == nil {
		s.params = NewParams()
	}
	if s.events == nil {
		s.events = discardSink{}
	}
	if s.noise == nil {
		s.noise, _ = NewNoise(NoisePerlin, s.seed, s.params)
	}
	s.rng = rand.New(rand.NewSource(s.seed)) // #nosec G404 -- visuals only
	s.clock = NewFrameClock(s.interval)
	s.grid = NewGrid(&s.layout, gridSizeParam(s.params.Float(ParamGridSize)))
	s.comp = NewCompositor(r, s.layout.Width, s.layout.Height)
	s.render = StrokeRenderer{Steps: strokeSteps, Noise: s.noise}
	s.particles = NewParticleField(s.layout.Width, s.layout.Height, s.events)
	s.strokes = NewStrokePool(&s.layout, s.rng, s.events)
	s.strokes.SetLengthWindow(s.params.Float(ParamLineMinLength), s.params.Float(ParamLineMaxLength))
	s.strokes.Seed(s.clock.Now(), linesTarget(s.params.Float(ParamLinesPerRegion)))
	s.comp.DrawRegions(s.layout.Regions)
	return s
}

// Step runs one tick.
func (s *Sketch) Step() {
	tick := s.clock.Advance()
	now := s.clock.Now()
	p := s.params

	// 0. Live settings that rebuild derived state.
	s.applyNoiseDetail(tick)
	s.syncGrid(tick)

	// 1. Slow global brightening.
	if tick%washInterval == 0 {
		s.comp.Wash()
	}

	// 2. Decay the trail layers.
	s.comp.Fade(alphaByte(p.Float(ParamTrailTransparency)), alphaByte(p.Float(ParamGridTransparency)))

	// 3. Strokes: reconcile the pool, then reveal and regenerate.
	s.strokes.SetLengthWindow(p.Float(ParamLineMinLength), p.Float(ParamLineMaxLength))
	s.strokes.Reconcile(tick, now, linesTarget(p.Float(ParamLinesPerRegion)))
	s.render.Amplitude = p.Float(ParamNoiseSize)
	s.render.TimeScale = p.Float(ParamTimeMultiplier)
	layer := s.comp.StrokeLayer()
	s.strokes.Advance(tick, now, func(st *Stroke, from, to int) {
		s.render.Draw(layer, st, from, to)
	})

	// 4. Particles: spawn, flow, trail.
	s.particles.MaybeSpawn(tick, s.rng, p.Float(ParamParticleFrequency), int(math.Floor(p.Float(ParamParticleMaxCount))))
	s.particles.Update(s.noise, FlowParams{
		Tick:     tick,
		Scale:    p.Float(ParamNoiseScale),
		Time:     now * p.Float(ParamTimeMultiplier),
		Strength: p.Float(ParamParticleForceStrength),
		MaxSpeed: p.Float(ParamParticleMaxSpeed),
	})
	s.particles.Draw(s.comp.ParticleLayer(), &s.layout, p.Float(ParamParticleTrailWeight))

	// 5. Panels and background straight onto the main surface.
	s.comp.DrawRegions(s.layout.Regions)
	s.grid.Draw(s.comp.Main(), s.noise, tick)

	// 6. Layers over the main surface, strokes on top.
	s.comp.Composite()
}

// Run steps n ticks.
func (s *Sketch) Run(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

func (s *Sketch) applyNoiseDetail(tick int) {
	dn, ok := s.noise.(DetailNoise)
	if !ok {
		return
	}
	oct := int(s.params.Float(ParamNoiseDetailOctave))
	fall := s.params.Float(ParamNoiseDetailFalloff)
	if dn.SetDetail(oct, fall) {
		s.events.Add(tick, "--", "noise", "detail", fmt.Sprintf("octaves=%d falloff=%.2f", oct, fall), float64(oct))
	}
}

func (s *Sketch) syncGrid(tick int) {
	size := gridSizeParam(s.params.Float(ParamGridSize))
	if size == s.grid.CellSize() {
		return
	}
	s.grid = NewGrid(&s.layout, size)
	s.events.Add(tick, "--", "grid", "rebuild", fmt.Sprintf("size=%d cells=%d", size, len(s.grid.Cells())), float64(size))
}

func linesTarget(v float64) int {
	n := int(math.Floor(v))
	if n < 0 {
		return 0
	}
	return n
}

// Tick returns the number of completed ticks.
func (s *Sketch) Tick() int { return s.clock.Tick() }

// Now returns the simulated time of the current tick in ms.
func (s *Sketch) Now() float64 { return s.clock.Now() }

// Layout returns the canvas geometry.
func (s *Sketch) Layout() Layout { return s.layout }

// Main returns the composited surface.
func (s *Sketch) Main() Surface { return s.comp.Main() }

// ParticleLayer returns the persistent particle trail layer.
func (s *Sketch) ParticleLayer() Surface { return s.comp.ParticleLayer() }

// StrokeLayer returns the persistent stroke trail layer.
func (s *Sketch) StrokeLayer() Surface { return s.comp.StrokeLayer() }

// Strokes returns a snapshot of the stroke pool.
func (s *Sketch) Strokes() []Stroke { return s.strokes.Strokes() }

// StrokesPerRegion returns each region's current stroke count.
func (s *Sketch) StrokesPerRegion() []int { return s.strokes.CountByRegion() }

// Particles returns a snapshot of the particle population.
func (s *Sketch) Particles() []Particle { return s.particles.Particles() }

// GridCells returns the current background cells.
func (s *Sketch) GridCells() []GridCell { return s.grid.Cells() }
