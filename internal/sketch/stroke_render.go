package sketch

import (
	"math"
)

// Stroke jitter constants.
const (
	jitterSpatialScale = 0.008
	jitterStepScale    = 0.002
	jitterTimeScaleA   = 0.1
	jitterTimeScaleB   = 0.001
	jitterTimeOffsetB  = 2054.0
	smoothAbsEpsilon   = 0.01
	edgeFadeFraction   = 0.1
	segmentWidthScale  = 3.0
	stepFrequencyBase  = 200.0
	strokeDotRadius    = 0.5
)

// StrokeStep is the geometry of one subdivision: two jittered points and the
// width of the segment joining them.
type StrokeStep struct {
	AX, AY float64
	BX, BY float64
	Width  float64
}

// smoothAbs is a soft |v-0.5| that stays differentiable at the centre.
func smoothAbs(v float64) float64 {
	c := v - 0.5
	return math.Sqrt(c*c + smoothAbsEpsilon)
}

// easeInOutCubic maps [0,1] onto [0,1] with zero slope at both ends.
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// stepFrequency returns N such that only every Nth subdivision strokes its
// connecting segment. Longer strokes and smaller factors draw more often.
func stepFrequency(length, factor float64) int {
	if length <= 0 {
		return 1
	}
	n := math.Ceil(stepFrequencyBase / length * factor)
	if n < 1 || math.IsNaN(n) {
		return 1
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// strokeStep computes subdivision i of steps for s. tau is the jitter time
// coordinate and amplitude the perpendicular offset in pixels per unit noise.
func strokeStep(n Noise, s *Stroke, i, steps int, tau, amplitude float64) StrokeStep {
	t := float64(i) / float64(steps)
	x := lerp(s.X1, s.X2, t)
	y := lerp(s.Y1, s.Y2, t)
	perp := math.Atan2(s.Y2-s.Y1, s.X2-s.X1) + math.Pi/2
	px, py := math.Cos(perp), math.Sin(perp)

	n1 := smoothAbs(n.Noise3D(x*jitterSpatialScale, float64(i)*jitterStepScale, tau*jitterTimeScaleA))
	n2 := n1 + smoothAbs(n.Noise3D(x*jitterSpatialScale, float64(i)*jitterStepScale, (tau+jitterTimeOffsetB)*jitterTimeScaleB))

	blend := 1.0
	first := n1
	edge := float64(steps) * edgeFadeFraction
	switch {
	case float64(i) < edge:
		blend = easeInOutCubic(float64(i) / edge)
	case float64(i) > float64(steps)-edge:
		first = lerp(n2, n1, easeInOutCubic(float64(steps-i)/edge))
	}
	second := lerp(n1, n2, blend)

	return StrokeStep{
		AX:    x + px*first*amplitude,
		AY:    y + py*first*amplitude,
		BX:    x + px*second*amplitude,
		BY:    y + py*second*amplitude,
		Width: n1 * segmentWidthScale,
	}
}

// StrokeRenderer draws revealed subdivisions of strokes onto a layer.
type StrokeRenderer struct {
	Steps     int
	Noise     Noise
	Amplitude float64 // perpendicular jitter in pixels
	TimeScale float64 // multiplies a stroke's start time into the noise time axis
}

// Draw renders subdivisions from+1 through to of s onto dst.
func (r *StrokeRenderer) Draw(dst Surface, s *Stroke, from, to int) {
	if to > r.Steps {
		to = r.Steps
	}
	tau := s.StartTime * r.TimeScale
	freq := stepFrequency(s.Length(), s.StepFactor)
	for i := from + 1; i <= to; i++ {
		st := strokeStep(r.Noise, s, i, r.Steps, tau, r.Amplitude)
		dst.FillCircle(st.AX, st.AY, strokeDotRadius, s.Color)
		dst.FillCircle(st.BX, st.BY, strokeDotRadius, s.Color)
		if i%freq == 0 {
			dst.StrokeLine(st.AX, st.AY, st.BX, st.BY, st.Width, s.Color)
		}
	}
}
