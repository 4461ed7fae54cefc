package sketch

import "testing"

func TestNewGrid_CellsAvoidRegions(t *testing.T) {
	l := DefaultLayout()
	g := NewGrid(&l, 40)
	if len(g.Cells()) == 0 {
		t.Fatal("expected some background cells")
	}
	for _, c := range g.Cells() {
		for i, r := range l.Regions {
			if r.Overlaps(c.X, c.Y, c.Size) {
				t.Fatalf("cell (%.0f,%.0f) overlaps region %d", c.X, c.Y, i)
			}
		}
		if c.X < 0 || c.Y < 0 || c.X >= float64(l.Width) || c.Y >= float64(l.Height) {
			t.Fatalf("cell (%.0f,%.0f) starts outside the canvas", c.X, c.Y)
		}
	}
}

func TestNewGrid_CountMatchesLattice(t *testing.T) {
	l := Layout{Width: 100, Height: 100, Regions: []Region{{X0: 20, Y0: 20, X1: 60, Y1: 60}}}
	g := NewGrid(&l, 20)
	// 5x5 lattice, the region covers the 2x2 block at (20..60).
	if got := len(g.Cells()); got != 21 {
		t.Fatalf("expected 21 cells, got %d", got)
	}
}

func TestNewGrid_SizeRaisedToOne(t *testing.T) {
	l := Layout{Width: 3, Height: 2}
	g := NewGrid(&l, 0)
	if g.CellSize() != 1 || len(g.Cells()) != 6 {
		t.Fatalf("expected 6 unit cells, got size=%d cells=%d", g.CellSize(), len(g.Cells()))
	}
}

func TestCellColor_IndexesPalette(t *testing.T) {
	c := GridCell{X: 40, Y: 80, Size: 40}
	cases := []struct {
		noise float64
		want  int
	}{
		{0, 0},
		{0.19, 0},
		{0.2, 1},
		{0.5, 2},
		{0.999, 4},
	}
	for _, tc := range cases {
		got := CellColor(constNoise(tc.noise), c, 10)
		if got != gridPalette[tc.want] {
			t.Errorf("noise %.3f: expected palette[%d], got %+v", tc.noise, tc.want, got)
		}
	}
}

func TestGrid_DrawFillsEveryCell(t *testing.T) {
	l := DefaultLayout()
	g := NewGrid(&l, 40)
	s := &recordSurface{w: l.Width, h: l.Height}
	g.Draw(s, constNoise(0.3), 1)
	if s.counts["fillRect"] != len(g.Cells()) {
		t.Fatalf("expected %d fills, got %d", len(g.Cells()), s.counts["fillRect"])
	}
}
