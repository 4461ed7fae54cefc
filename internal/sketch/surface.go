package sketch

import (
	"fmt"
	"image/color"
)

// BlendMode selects how drawn pixels combine with what is already there.
type BlendMode int

const (
	// BlendNormal is source-over alpha compositing.
	BlendNormal BlendMode = iota
	// BlendAdditive adds source color to the destination.
	BlendAdditive
	// BlendSubtractive removes destination coverage in proportion to the
	// source alpha (destination-out). Used to decay persistent layers.
	BlendSubtractive
)

func (m BlendMode) String() string {
	switch m {
	case BlendNormal:
		return "normal"
	case BlendAdditive:
		return "additive"
	case BlendSubtractive:
		return "subtractive"
	}
	return fmt.Sprintf("blend(%d)", int(m))
}

// Surface is the drawing contract the sketch renders through. Colors are
// non-premultiplied. Widths and sizes are in canvas pixels.
type Surface interface {
	Width() int
	Height() int
	FillRect(x, y, w, h float64, clr color.NRGBA, mode BlendMode)
	StrokeRect(x, y, w, h, width float64, clr color.NRGBA)
	StrokeLine(x0, y0, x1, y1, width float64, clr color.NRGBA)
	FillCircle(cx, cy, r float64, clr color.NRGBA)
	// DrawSurface composites src onto the receiver, scaled into the
	// rectangle (x, y, w, h). src must come from the same Renderer.
	DrawSurface(src Surface, x, y, w, h float64, mode BlendMode)
}

// Renderer creates surfaces for one backend.
type Renderer interface {
	NewSurface(w, h int) Surface
}

// Palette colors.
var (
	colorBlack        = color.NRGBA{A: 255}
	colorRegionBorder = hexColor(0x2C3639, 0xFF)
	colorRegionFill   = hexColor(0xFBF8EF, 0x48)
	colorSetupStroke  = hexColor(0x363030, 0xFF)
	colorStroke       = hexColor(0x2C3639, 0xFF)
	colorWash         = hexColor(0xFFFFFF, 0x02)

	gridPalette = []color.NRGBA{
		hexColor(0xF0EEE8, 0xFF),
		hexColor(0xFBF5E5, 0xFF),
		hexColor(0xFFFAEC, 0xFF),
		hexColor(0xF5ECD5, 0xFF),
		hexColor(0xF5F5F5, 0xFF),
	}
)

// washInterval is how often, in ticks, the main surface gets an additive wash.
const washInterval = 5

func hexColor(rgb uint32, a uint8) color.NRGBA {
	return color.NRGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: a}
}

// lerpColor interpolates every channel of a and b by t in [0,1].
func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// alphaByte converts a 0-255 parameter value into an alpha byte.
func alphaByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
