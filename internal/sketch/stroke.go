package sketch

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"
)

// StrokePhase is the lifecycle state of a stroke.
type StrokePhase int

const (
	PhaseDormant StrokePhase = iota // waiting out its delay
	PhaseActive                     // being revealed
	PhaseExpired                    // lifetime over, due for regeneration
)

func (p StrokePhase) String() string {
	switch p {
	case PhaseDormant:
		return "dormant"
	case PhaseActive:
		return "active"
	case PhaseExpired:
		return "expired"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Stroke timing and sampling constants. Times are in simulated ms.
const (
	strokeSteps       = 500
	maxSampleAttempts = 50

	strokeMinDelay    = 500.0
	strokeMaxDelay    = 1000.0
	strokeMinDuration = 1000.0
	strokeMaxDuration = 4000.0

	setupStepFactorMin = 1.0
	setupStepFactorMax = 5.0
	stepFactorMin      = 10.0
	stepFactorMax      = 40.0
)

// Stroke is one decorative line inside a region.
type Stroke struct {
	ID             int
	X1, Y1, X2, Y2 float64
	Delay          float64 // ms between StartTime and activation
	Duration       float64 // ms the reveal takes
	StartTime      float64 // simulated ms when the geometry was sampled
	StepFactor     float64 // scales how often connecting segments are stroked
	Color          color.NRGBA

	// Home is the region the pool created this stroke for; reconciliation
	// counts against it. Region is the region containing the first endpoint,
	// -1 when none does.
	Home   int
	Region int

	Phase    StrokePhase
	Revealed int // subdivisions drawn so far, never decreasing within a lifetime

	orphaned bool
}

// Activation returns the simulated time the stroke becomes Active.
func (s *Stroke) Activation() float64 { return s.StartTime + s.Delay }

// End returns the last simulated time the stroke is still Active.
func (s *Stroke) End() float64 { return s.StartTime + s.Delay + s.Duration }

// Length returns the chord length.
func (s *Stroke) Length() float64 { return math.Hypot(s.X2-s.X1, s.Y2-s.Y1) }

// PhaseAt returns the phase s is in at simulated time t.
func PhaseAt(s *Stroke, t float64) StrokePhase {
	switch {
	case t < s.Activation():
		return PhaseDormant
	case t <= s.End():
		return PhaseActive
	default:
		return PhaseExpired
	}
}

// RevealedSteps returns how many of the steps subdivisions should be visible
// at simulated time t.
func RevealedSteps(s *Stroke, t float64, steps int) int {
	if s.Duration <= 0 {
		if t >= s.Activation() {
			return steps
		}
		return 0
	}
	progress := (t - s.Activation()) / s.Duration
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	return int(math.Floor(progress * float64(steps)))
}

// StrokeDrawFunc renders subdivisions from+1 through to of s.
type StrokeDrawFunc func(s *Stroke, from, to int)

// StrokePool keeps every region stocked with its target number of strokes
// and drives each stroke through its lifecycle.
type StrokePool struct {
	layout  *Layout
	rng     *rand.Rand
	events  EventSink
	strokes []*Stroke
	nextID  int

	minLen, maxLen float64
}

// NewStrokePool returns an empty pool for layout.
func NewStrokePool(layout *Layout, rng *rand.Rand, events EventSink) *StrokePool {
	if events == nil {
		events = discardSink{}
	}
	return &StrokePool{layout: layout, rng: rng, events: events}
}

// SetLengthWindow sets the accepted chord length range for new geometry.
func (p *StrokePool) SetLengthWindow(minLen, maxLen float64) {
	p.minLen, p.maxLen = minLen, maxLen
}

// Len returns the number of strokes in the pool.
func (p *StrokePool) Len() int { return len(p.strokes) }

// Strokes returns copies of every stroke in pool order.
func (p *StrokePool) Strokes() []Stroke {
	out := make([]Stroke, len(p.strokes))
	for i, s := range p.strokes {
		out[i] = *s
	}
	return out
}

// CountByRegion returns how many strokes each region currently owns.
func (p *StrokePool) CountByRegion() []int {
	counts := make([]int, len(p.layout.Regions))
	for _, s := range p.strokes {
		if s.Home >= 0 && s.Home < len(counts) {
			counts[s.Home]++
		}
	}
	return counts
}

// Seed creates the initial strokes: perRegion for each region, with the
// setup palette.
func (p *StrokePool) Seed(now float64, perRegion int) {
	for r := range p.layout.Regions {
		for i := 0; i < perRegion; i++ {
			s := p.newStroke(r, now)
			s.StepFactor = uniform(p.rng, setupStepFactorMin, setupStepFactorMax)
			s.Color = lerpColor(colorBlack, colorSetupStroke, p.rng.Float64())
			p.strokes = append(p.strokes, s)
			p.events.Add(0, strokeLabel(s), "stroke", "spawn", describeStroke(s), s.Length())
		}
	}
}

// Reconcile brings every region to exactly target strokes. Missing strokes are
// appended; surplus strokes are removed from the tail of the pool.
func (p *StrokePool) Reconcile(tick int, now float64, target int) {
	if target < 0 {
		target = 0
	}
	counts := p.CountByRegion()
	for r := range p.layout.Regions {
		for counts[r] < target {
			s := p.newStroke(r, now)
			s.StepFactor = uniform(p.rng, stepFactorMin, stepFactorMax)
			s.Color = lerpColor(colorBlack, colorStroke, p.rng.Float64())
			p.strokes = append(p.strokes, s)
			counts[r]++
			p.events.Add(tick, strokeLabel(s), "stroke", "spawn", describeStroke(s), s.Length())
		}
		for i := len(p.strokes) - 1; i >= 0 && counts[r] > target; i-- {
			s := p.strokes[i]
			if s.Home != r {
				continue
			}
			p.strokes = append(p.strokes[:i], p.strokes[i+1:]...)
			counts[r]--
			p.events.Add(tick, strokeLabel(s), "stroke", "trim", fmt.Sprintf("region=%d", r), float64(counts[r]))
		}
	}
}

// Advance evaluates every stroke's phase at now, reveals new subdivisions
// through draw, and regenerates expired strokes in place. An expired stroke
// first reveals whatever it has not drawn yet so each lifetime draws every
// subdivision exactly once.
func (p *StrokePool) Advance(tick int, now float64, draw StrokeDrawFunc) {
	for _, s := range p.strokes {
		phase := PhaseAt(s, now)
		if phase != s.Phase {
			switch phase {
			case PhaseActive:
				p.events.Add(tick, strokeLabel(s), "stroke", "activate", describeStroke(s), s.Activation())
			case PhaseExpired:
				if !s.orphaned {
					p.events.Add(tick, strokeLabel(s), "stroke", "expire", describeStroke(s), s.End())
				}
			}
			s.Phase = phase
		}

		switch phase {
		case PhaseActive:
			p.reveal(s, RevealedSteps(s, now, strokeSteps), draw)
		case PhaseExpired:
			p.reveal(s, strokeSteps, draw)
			if s.Region < 0 {
				if !s.orphaned {
					s.orphaned = true
					p.events.Add(tick, strokeLabel(s), "stroke", "orphan", describeStroke(s), 0)
				}
				continue
			}
			p.regenerate(s, now)
			p.events.Add(tick, strokeLabel(s), "stroke", "regenerate", describeStroke(s), s.Length())
		}
	}
}

func (p *StrokePool) reveal(s *Stroke, to int, draw StrokeDrawFunc) {
	if to <= s.Revealed {
		return
	}
	if draw != nil {
		draw(s, s.Revealed, to)
	}
	s.Revealed = to
}

// regenerate gives s fresh geometry and timing inside its region. Color and
// home region are kept.
func (p *StrokePool) regenerate(s *Stroke, now float64) {
	fresh := p.sample(p.layout.Regions[s.Region], now)
	s.X1, s.Y1, s.X2, s.Y2 = fresh.X1, fresh.Y1, fresh.X2, fresh.Y2
	s.Delay, s.Duration, s.StartTime = fresh.Delay, fresh.Duration, fresh.StartTime
	s.StepFactor = uniform(p.rng, stepFactorMin, stepFactorMax)
	s.Region = p.layout.RegionAt(s.X1, s.Y1)
	s.Phase = PhaseDormant
	s.Revealed = 0
}

func (p *StrokePool) newStroke(region int, now float64) *Stroke {
	s := p.sample(p.layout.Regions[region], now)
	s.ID = p.nextID
	p.nextID++
	s.Home = region
	s.Region = p.layout.RegionAt(s.X1, s.Y1)
	return s
}

// sample draws geometry and timing for a stroke inside r.
func (p *StrokePool) sample(r Region, now float64) *Stroke {
	x1, y1, x2, y2, _ := SampleChord(p.rng, r, p.layout.Inset, p.minLen, p.maxLen)
	return &Stroke{
		X1: x1, Y1: y1, X2: x2, Y2: y2,
		Delay:     uniform(p.rng, strokeMinDelay, strokeMaxDelay),
		Duration:  uniform(p.rng, strokeMinDuration, strokeMaxDuration),
		StartTime: now,
	}
}

// SampleChord picks two uniform points inside r shrunk by inset, retrying
// until their distance falls in [minLen, maxLen]. After maxSampleAttempts
// misses the last sample is returned with ok=false.
func SampleChord(rng *rand.Rand, r Region, inset, minLen, maxLen float64) (x1, y1, x2, y2 float64, ok bool) {
	for attempt := 0; attempt < maxSampleAttempts; attempt++ {
		x1 = uniform(rng, r.X0+inset, r.X1-inset)
		y1 = uniform(rng, r.Y0+inset, r.Y1-inset)
		x2 = uniform(rng, r.X0+inset, r.X1-inset)
		y2 = uniform(rng, r.Y0+inset, r.Y1-inset)
		d := math.Hypot(x2-x1, y2-y1)
		if d >= minLen && d <= maxLen {
			return x1, y1, x2, y2, true
		}
	}
	return x1, y1, x2, y2, false
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func strokeLabel(s *Stroke) string {
	return fmt.Sprintf("S%d", s.ID)
}

func describeStroke(s *Stroke) string {
	return fmt.Sprintf("region=%d len=%.1f delay=%.0f dur=%.0f", s.Region, s.Length(), s.Delay, s.Duration)
}
