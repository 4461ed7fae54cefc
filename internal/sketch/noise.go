package sketch

import (
	"errors"
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
)

// Noise is a deterministic, continuous 3D coherent-noise function returning
// values in [0, 1).
type Noise interface {
	Noise3D(x, y, z float64) float64
}

// DetailNoise is a Noise whose octave count and per-octave falloff can be
// changed while the sketch runs. SetDetail reports whether anything changed.
type DetailNoise interface {
	Noise
	SetDetail(octaves int, falloff float64) bool
}

// Noise oracle names accepted by NewNoise.
const (
	NoisePerlin = "perlin"
	NoiseValue  = "value"
)

// ErrUnknownNoise is returned by NewNoise for an unrecognised name.
var ErrUnknownNoise = errors.New("unknown noise")

// NewNoise builds the named oracle. Perlin takes its detail from p; value
// noise has none and ignores the noise detail parameters.
func NewNoise(name string, seed int64, p ParamSource) (Noise, error) {
	switch name {
	case "", NoisePerlin:
		return NewPerlinNoise(seed,
			int(p.Float(ParamNoiseDetailOctave)),
			p.Float(ParamNoiseDetailFalloff)), nil
	case NoiseValue:
		return ValueNoise{Seed: seed}, nil
	}
	return nil, fmt.Errorf("%w %q (want %s or %s)", ErrUnknownNoise, name, NoisePerlin, NoiseValue)
}

// perlinLacunarity is the frequency multiplier between octaves.
const perlinLacunarity = 2.0

// PerlinNoise adapts go-perlin to the Noise contract, remapping its signed
// output to [0, 1).
type PerlinNoise struct {
	seed    int64
	octaves int
	falloff float64
	gen     *perlin.Perlin
	ampSum  float64
}

// NewPerlinNoise builds a seeded Perlin oracle.
func NewPerlinNoise(seed int64, octaves int, falloff float64) *PerlinNoise {
	n := &PerlinNoise{seed: seed}
	n.rebuild(octaves, falloff)
	return n
}

// SetDetail rebuilds the generator when octaves or falloff differ from the
// current settings. The seed is kept so the field stays recognisable.
func (n *PerlinNoise) SetDetail(octaves int, falloff float64) bool {
	octaves, falloff = sanitizeDetail(octaves, falloff)
	if octaves == n.octaves && falloff == n.falloff {
		return false
	}
	n.rebuild(octaves, falloff)
	return true
}

// Detail returns the active octave count and falloff.
func (n *PerlinNoise) Detail() (int, float64) { return n.octaves, n.falloff }

func (n *PerlinNoise) rebuild(octaves int, falloff float64) {
	n.octaves, n.falloff = sanitizeDetail(octaves, falloff)
	// go-perlin divides each successive octave by alpha.
	alpha := 1 / n.falloff
	n.gen = perlin.NewPerlin(alpha, perlinLacunarity, int32(n.octaves), n.seed)
	n.ampSum = 0
	amp := 1.0
	for i := 0; i < n.octaves; i++ {
		n.ampSum += amp
		amp *= n.falloff
	}
}

// Noise3D samples the field.
func (n *PerlinNoise) Noise3D(x, y, z float64) float64 {
	v := n.gen.Noise3D(x, y, z) / n.ampSum
	return unit((v + 1) / 2)
}

func sanitizeDetail(octaves int, falloff float64) (int, float64) {
	if octaves < 1 {
		octaves = 1
	}
	if falloff <= 0 || math.IsNaN(falloff) {
		falloff = 0.05
	}
	if falloff > 1 {
		falloff = 1
	}
	return octaves, falloff
}

// unit clamps v into [0, 1).
func unit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v >= 1 {
		return math.Nextafter(1, 0)
	}
	return v
}

// ValueNoise is a cheap hashed-lattice value noise with Hermite smoothing.
// It has no octaves; it is the cheap choice for long headless runs.
type ValueNoise struct {
	Seed int64
}

// Noise3D samples the lattice with trilinear smoothstep interpolation.
func (n ValueNoise) Noise3D(x, y, z float64) float64 {
	xi := int(math.Floor(x))
	yi := int(math.Floor(y))
	zi := int(math.Floor(z))
	xf := x - float64(xi)
	yf := y - float64(yi)
	zf := z - float64(zi)

	// Hermite smoothstep.
	u := xf * xf * (3 - 2*xf)
	v := yf * yf * (3 - 2*yf)
	w := zf * zf * (3 - 2*zf)

	lerp := func(a, b, t float64) float64 { return a + (b-a)*t }
	face := func(zz int) float64 {
		n00 := latticeValue(xi, yi, zz, n.Seed)
		n10 := latticeValue(xi+1, yi, zz, n.Seed)
		n01 := latticeValue(xi, yi+1, zz, n.Seed)
		n11 := latticeValue(xi+1, yi+1, zz, n.Seed)
		return lerp(lerp(n00, n10, u), lerp(n01, n11, u), v)
	}
	return unit(lerp(face(zi), face(zi+1), w))
}

// latticeValue returns a pseudo-random value in [0,1] for integer coordinates.
func latticeValue(x, y, z int, seed int64) float64 {
	h := uint64(seed)
	h ^= uint64(x) * 0x517cc1b727220a95
	h ^= uint64(y) * 0x6c62272e07bb0142
	h ^= uint64(z) * 0x9e3779b97f4a7c15
	h = h*0x2545f4914f6cdd1d + 0x14057b7ef767814f
	h ^= h >> 16
	h *= 0xd6e8feb86659fd93
	h ^= h >> 16
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}
