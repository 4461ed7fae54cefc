package sketch

// Region is a rectangular panel on the canvas. Strokes live inside regions;
// particle trails and grid cells stay outside them.
type Region struct {
	X0, Y0 float64 // top-left
	X1, Y1 float64 // bottom-right
}

// Width returns the horizontal extent of the region.
func (r Region) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical extent of the region.
func (r Region) Height() float64 { return r.Y1 - r.Y0 }

// Contains reports whether (x, y) lies inside r. All four edges are inclusive.
func (r Region) Contains(x, y float64) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

// Overlaps reports whether the square cell at (x, y) with the given size
// intersects r. Touching edges do not count as overlap.
func (r Region) Overlaps(x, y, size float64) bool {
	return !(x+size <= r.X0 || x >= r.X1 || y+size <= r.Y0 || y >= r.Y1)
}

// Layout is the fixed canvas geometry: resolution plus the region table.
// It is read-only once a Sketch has been built from it.
type Layout struct {
	Width   int
	Height  int
	Regions []Region
	// Inset is the margin kept between a region's border and stroke endpoints.
	Inset float64
}

// DefaultLayout returns the portrait 1080x1920 canvas with four stacked
// 800x300 panels, coordinates on a 20px lattice.
func DefaultLayout() Layout {
	return Layout{
		Width:  1080,
		Height: 1920,
		Regions: []Region{
			{X0: 140, Y0: 160, X1: 940, Y1: 460},
			{X0: 140, Y0: 600, X1: 940, Y1: 900},
			{X0: 140, Y0: 1040, X1: 940, Y1: 1340},
			{X0: 140, Y0: 1480, X1: 940, Y1: 1780},
		},
		Inset: 25,
	}
}

// RegionAt returns the index of the first region containing (x, y), or -1.
func (l *Layout) RegionAt(x, y float64) int {
	for i, r := range l.Regions {
		if r.Contains(x, y) {
			return i
		}
	}
	return -1
}

// InsideAny reports whether (x, y) lies inside at least one region.
func (l *Layout) InsideAny(x, y float64) bool {
	return l.RegionAt(x, y) >= 0
}

// cellBlocked reports whether a grid cell at (x, y) overlaps any region.
func (l *Layout) cellBlocked(x, y, size float64) bool {
	for _, r := range l.Regions {
		if r.Overlaps(x, y, size) {
			return true
		}
	}
	return false
}
