package sketch

import "testing"

func TestRegion_ContainsIsInclusive(t *testing.T) {
	r := Region{X0: 10, Y0: 20, X1: 30, Y1: 40}
	cases := []struct {
		x, y float64
		want bool
	}{
		{10, 20, true},
		{30, 40, true},
		{20, 30, true},
		{9.99, 30, false},
		{20, 40.01, false},
	}
	for _, c := range cases {
		if got := r.Contains(c.x, c.y); got != c.want {
			t.Errorf("Contains(%.2f,%.2f) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestRegion_OverlapsIgnoresTouchingEdges(t *testing.T) {
	r := Region{X0: 100, Y0: 100, X1: 200, Y1: 200}
	if r.Overlaps(60, 100, 40) {
		t.Fatal("cell ending exactly at the left edge should not overlap")
	}
	if r.Overlaps(200, 150, 40) {
		t.Fatal("cell starting exactly at the right edge should not overlap")
	}
	if !r.Overlaps(61, 100, 40) {
		t.Fatal("cell crossing the left edge should overlap")
	}
}

func TestDefaultLayout_FourPanels(t *testing.T) {
	l := DefaultLayout()
	if l.Width != 1080 || l.Height != 1920 {
		t.Fatalf("expected 1080x1920 canvas, got %dx%d", l.Width, l.Height)
	}
	if len(l.Regions) != 4 {
		t.Fatalf("expected 4 regions, got %d", len(l.Regions))
	}
	for i, r := range l.Regions {
		if r.Width() != 800 || r.Height() != 300 {
			t.Errorf("region %d: expected 800x300, got %.0fx%.0f", i, r.Width(), r.Height())
		}
	}
}

func TestLayout_RegionAt(t *testing.T) {
	l := DefaultLayout()
	if got := l.RegionAt(500, 700); got != 1 {
		t.Fatalf("expected region 1, got %d", got)
	}
	if got := l.RegionAt(50, 50); got != -1 {
		t.Fatalf("expected -1 outside all regions, got %d", got)
	}
	if !l.InsideAny(940, 1780) {
		t.Fatal("bottom-right corner of the last region should be inside")
	}
}
