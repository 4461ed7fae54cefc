package sketch

import (
	"fmt"
	"math"
	"math/rand"
)

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Scale returns v*k.
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }

// Len returns the magnitude of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Limit returns v shortened to max if it is longer. A non-positive max
// yields the zero vector.
func (v Vec2) Limit(max float64) Vec2 {
	if max <= 0 {
		return Vec2{}
	}
	l := v.Len()
	if l <= max {
		return v
	}
	return v.Scale(max / l)
}

// FromAngle returns the unit vector pointing at angle radians.
func FromAngle(angle float64) Vec2 {
	return Vec2{math.Cos(angle), math.Sin(angle)}
}

// Particle is a point carried by the flow field.
type Particle struct {
	Pos, Vel, Acc Vec2
	PrevPos       Vec2
}

// Step integrates one tick: the force at angle feeds acceleration, velocity
// and position, then the position wraps onto the torus [0,w)x[0,h).
func (p *Particle) Step(angle, strength, maxSpeed, w, h float64) {
	p.PrevPos = p.Pos
	p.Acc = p.Acc.Add(FromAngle(angle).Scale(strength))
	p.Vel = p.Vel.Add(p.Acc).Limit(maxSpeed)
	p.Pos = p.Pos.Add(p.Vel)
	p.Acc = Vec2{}

	// A wrapped axis also moves PrevPos so the trail does not streak across
	// the canvas.
	if x, wrapped := wrapAxis(p.Pos.X, w); wrapped {
		p.Pos.X, p.PrevPos.X = x, x
	}
	if y, wrapped := wrapAxis(p.Pos.Y, h); wrapped {
		p.Pos.Y, p.PrevPos.Y = y, y
	}
}

// wrapAxis maps v into [0,size). It reports whether v was outside.
func wrapAxis(v, size float64) (float64, bool) {
	if size <= 0 {
		return 0, v != 0
	}
	if v >= 0 && v < size {
		return v, false
	}
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	if v >= size {
		v = 0
	}
	return v, true
}

// Flow field constants.
const angleSkew = 2 * 2 * math.Pi

// FlowAngle samples the flow field at pos as 2*noise*2π radians, so noise in
// [0,1) wraps the circle twice.
func FlowAngle(n Noise, pos Vec2, scale, t float64) float64 {
	return n.Noise3D(pos.X*scale, pos.Y*scale, t) * angleSkew
}

// ParticleField owns the particle population. Particles are only ever
// added; the population grows to its ceiling and stays there.
type ParticleField struct {
	width, height float64
	particles     []*Particle
	events        EventSink
	verbose       VerboseSink // nil unless events takes verbose entries
	saturated     bool
}

// NewParticleField returns an empty field over a w x h canvas.
func NewParticleField(w, h int, events EventSink) *ParticleField {
	if events == nil {
		events = discardSink{}
	}
	f := &ParticleField{width: float64(w), height: float64(h), events: events}
	f.verbose, _ = events.(VerboseSink)
	return f
}

// Len returns the population.
func (f *ParticleField) Len() int { return len(f.particles) }

// Particles returns copies of every particle.
func (f *ParticleField) Particles() []Particle {
	out := make([]Particle, len(f.particles))
	for i, p := range f.particles {
		out[i] = *p
	}
	return out
}

// MaybeSpawn rolls the spawn chance (frequency is a percentage) and adds one
// particle at a uniform position when it hits and the population is below
// ceiling. The roll is consumed every tick so the random sequence does not
// depend on the population.
func (f *ParticleField) MaybeSpawn(tick int, rng *rand.Rand, frequency float64, ceiling int) bool {
	roll := rng.Float64() * 100
	if roll >= frequency {
		return false
	}
	if len(f.particles) >= ceiling {
		if !f.saturated && ceiling > 0 {
			f.saturated = true
			f.events.Add(tick, "--", "particle", "saturated", fmt.Sprintf("count=%d", len(f.particles)), float64(len(f.particles)))
		}
		return false
	}
	pos := Vec2{rng.Float64() * f.width, rng.Float64() * f.height}
	f.particles = append(f.particles, &Particle{Pos: pos, PrevPos: pos})
	f.saturated = false
	f.events.Add(tick, fmt.Sprintf("P%d", len(f.particles)-1), "particle", "spawn",
		fmt.Sprintf("(%.1f,%.1f)", pos.X, pos.Y), float64(len(f.particles)))
	return true
}

// FlowParams are the per-tick flow-field settings.
type FlowParams struct {
	Tick     int     // tick stamped on verbose move entries
	Scale    float64 // spatial noise scale
	Time     float64 // noise time coordinate
	Strength float64 // force magnitude
	MaxSpeed float64
}

// Update advances every particle through the flow field. A verbose sink gets
// one move entry per particle.
func (f *ParticleField) Update(n Noise, fp FlowParams) {
	logMoves := f.verbose != nil && f.verbose.Verbose()
	for i, p := range f.particles {
		angle := FlowAngle(n, p.Pos, fp.Scale, fp.Time)
		p.Step(angle, fp.Strength, fp.MaxSpeed, f.width, f.height)
		if logMoves {
			f.verbose.AddVerbose(fp.Tick, fmt.Sprintf("P%d", i), "particle", "move",
				fmt.Sprintf("(%.1f,%.1f)", p.Pos.X, p.Pos.Y), p.Vel.Len())
		}
	}
}

// Draw strokes each particle's last move onto dst, skipping particles that
// sit inside a region.
func (f *ParticleField) Draw(dst Surface, l *Layout, weight float64) int {
	drawn := 0
	for _, p := range f.particles {
		if l.InsideAny(p.Pos.X, p.Pos.Y) {
			continue
		}
		dst.StrokeLine(p.PrevPos.X, p.PrevPos.Y, p.Pos.X, p.Pos.Y, weight, colorBlack)
		drawn++
	}
	return drawn
}
