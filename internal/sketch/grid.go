package sketch

import (
	"image/color"
	"math"
)

// Grid noise scales: spatial per pixel and temporal per tick.
const (
	gridSpatialScale = 0.01
	gridTickScale    = 0.005
)

// GridCell is one background square. Its color is never stored; it is
// sampled from noise every tick.
type GridCell struct {
	X, Y float64
	Size float64
}

// Grid is the sparse background: every lattice cell on the canvas that does
// not overlap a region.
type Grid struct {
	size  int
	cells []GridCell
}

// NewGrid precomputes the cells for the given layout and cell size. Sizes
// below one pixel are raised to one.
func NewGrid(l *Layout, size int) *Grid {
	if size < 1 {
		size = 1
	}
	g := &Grid{size: size}
	fs := float64(size)
	for x := 0; x < l.Width; x += size {
		for y := 0; y < l.Height; y += size {
			fx, fy := float64(x), float64(y)
			if l.cellBlocked(fx, fy, fs) {
				continue
			}
			g.cells = append(g.cells, GridCell{X: fx, Y: fy, Size: fs})
		}
	}
	return g
}

// CellSize returns the lattice spacing in pixels.
func (g *Grid) CellSize() int { return g.size }

// Cells returns the precomputed cells. Callers must not modify them.
func (g *Grid) Cells() []GridCell { return g.cells }

// CellColor picks the palette entry for c at the given tick.
func CellColor(n Noise, c GridCell, tick int) color.NRGBA {
	v := n.Noise3D(c.X*gridSpatialScale, c.Y*gridSpatialScale, float64(tick)*gridTickScale)
	idx := int(math.Floor(v * float64(len(gridPalette))))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(gridPalette) {
		idx = len(gridPalette) - 1
	}
	return gridPalette[idx]
}

// Draw fills every cell on dst with its color for this tick.
func (g *Grid) Draw(dst Surface, n Noise, tick int) {
	for _, c := range g.cells {
		dst.FillRect(c.X, c.Y, c.Size, c.Size, CellColor(n, c, tick), BlendNormal)
	}
}

// gridSizeParam converts the live gridSize parameter to a lattice spacing.
func gridSizeParam(v float64) int {
	s := int(math.Round(v))
	if s < 1 {
		s = 1
	}
	return s
}
