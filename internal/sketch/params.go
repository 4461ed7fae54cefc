package sketch

import (
	"math"
	"sort"
)

// Parameter names understood by the sketch.
const (
	ParamTimeMultiplier        = "timeMultiplier"
	ParamNoiseSize             = "noiseSize"
	ParamNoiseScale            = "noiseScale"
	ParamNoiseDetailOctave     = "noiseDetailOctave"
	ParamNoiseDetailFalloff    = "noiseDetailFalloff"
	ParamParticleFrequency     = "particleFrequency"
	ParamGridTransparency      = "gridTransparency"
	ParamTrailTransparency     = "trailTransparency"
	ParamGridSize              = "gridSize"
	ParamParticleMaxCount      = "particleMaxCount"
	ParamParticleForceStrength = "particleForceStrength"
	ParamParticleMaxSpeed      = "particleMaxSpeed"
	ParamParticleTrailWeight   = "particleTrailWeight"
	ParamLinesPerRegion        = "linesPerRegion"
	ParamLineMinLength         = "lineMinLength"
	ParamLineMaxLength         = "lineMaxLength"
)

// ParamDef declares the range, granularity and default of one parameter.
type ParamDef struct {
	Min     float64
	Max     float64
	Step    float64
	Default float64
}

// ParamDefs is the full parameter table.
var ParamDefs = map[string]ParamDef{
	ParamTimeMultiplier:        {Min: 0, Max: 0.01, Step: 0.00001, Default: 0.00005},
	ParamNoiseSize:             {Min: 0, Max: 100, Step: 1, Default: 100},
	ParamNoiseScale:            {Min: 0, Max: 0.1, Step: 0.0001, Default: 0.1},
	ParamNoiseDetailOctave:     {Min: 0, Max: 10, Step: 1, Default: 2},
	ParamNoiseDetailFalloff:    {Min: 0, Max: 1, Step: 0.05, Default: 0.5},
	ParamParticleFrequency:     {Min: 0, Max: 360, Step: 4, Default: 10},
	ParamGridTransparency:      {Min: 0, Max: 255, Step: 1, Default: 3},
	ParamTrailTransparency:     {Min: 0, Max: 255, Step: 1, Default: 12},
	ParamGridSize:              {Min: 10, Max: 50, Step: 1, Default: 40},
	ParamParticleMaxCount:      {Min: 0, Max: 50, Step: 1, Default: 4},
	ParamParticleForceStrength: {Min: 0.01, Max: 0.5, Step: 0.01, Default: 0.13},
	ParamParticleMaxSpeed:      {Min: 0.5, Max: 5, Step: 0.1, Default: 2.0},
	ParamParticleTrailWeight:   {Min: 1, Max: 5, Step: 0.5, Default: 1},
	ParamLinesPerRegion:        {Min: 1, Max: 10, Step: 1, Default: 3},
	ParamLineMinLength:         {Min: 10, Max: 200, Step: 5, Default: 20},
	ParamLineMaxLength:         {Min: 50, Max: 400, Step: 5, Default: 120},
}

// ParamNames returns every declared parameter name in sorted order.
func ParamNames() []string {
	names := make([]string, 0, len(ParamDefs))
	for name := range ParamDefs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParamSource is a live view of the current parameter values. The sketch
// reads it every tick and never caches the result.
type ParamSource interface {
	Float(name string) float64
}

// Params is the default in-memory ParamSource.
type Params struct {
	values map[string]float64
}

// NewParams returns a store seeded with every default.
func NewParams() *Params {
	p := &Params{values: make(map[string]float64, len(ParamDefs))}
	for name, def := range ParamDefs {
		p.values[name] = def.Default
	}
	return p
}

// Float returns the current value of name, or 0 if it is not declared.
func (p *Params) Float(name string) float64 {
	return p.values[name]
}

// Set clamps v to the declared range, snaps it to the step grid and stores it.
// It returns false for undeclared names.
func (p *Params) Set(name string, v float64) bool {
	def, ok := ParamDefs[name]
	if !ok {
		return false
	}
	p.values[name] = def.Normalize(v)
	return true
}

// SetRaw stores v without clamping. Values outside the declared range are
// trusted and only degrade the output.
func (p *Params) SetRaw(name string, v float64) {
	p.values[name] = v
}

// Reset restores every default.
func (p *Params) Reset() {
	for name, def := range ParamDefs {
		p.values[name] = def.Default
	}
}

// Normalize clamps v to [Min, Max] and rounds it to the nearest step.
func (d ParamDef) Normalize(v float64) float64 {
	if math.IsNaN(v) {
		return d.Default
	}
	if d.Step > 0 {
		v = d.Min + math.Round((v-d.Min)/d.Step)*d.Step
	}
	if v < d.Min {
		v = d.Min
	}
	if v > d.Max {
		v = d.Max
	}
	return v
}
