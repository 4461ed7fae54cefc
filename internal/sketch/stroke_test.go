package sketch

import (
	"math"
	"math/rand"
	"testing"
)

func newTestPool(seed int64, sink EventSink) (*StrokePool, *Layout) {
	l := DefaultLayout()
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- test
	p := NewStrokePool(&l, rng, sink)
	p.SetLengthWindow(20, 120)
	return p, &l
}

func TestPhaseAt_Transitions(t *testing.T) {
	s := &Stroke{StartTime: 1000, Delay: 500, Duration: 2000}
	cases := []struct {
		t    float64
		want StrokePhase
	}{
		{0, PhaseDormant},
		{1499.9, PhaseDormant},
		{1500, PhaseActive},
		{2500, PhaseActive},
		{3500, PhaseActive},
		{3500.1, PhaseExpired},
	}
	for _, c := range cases {
		if got := PhaseAt(s, c.t); got != c.want {
			t.Errorf("PhaseAt(%.1f) = %s, want %s", c.t, got, c.want)
		}
	}
}

func TestRevealedSteps_ClampsAndFloors(t *testing.T) {
	s := &Stroke{StartTime: 0, Delay: 100, Duration: 1000}
	cases := []struct {
		t    float64
		want int
	}{
		{0, 0},
		{100, 0},
		{101.9, 0},
		{102, 1},
		{600, 250},
		{1100, 500},
		{5000, 500},
	}
	for _, c := range cases {
		if got := RevealedSteps(s, c.t, 500); got != c.want {
			t.Errorf("RevealedSteps(%.1f) = %d, want %d", c.t, got, c.want)
		}
	}
}

func TestSampleChord_LengthInWindow(t *testing.T) {
	rng := rand.New(rand.NewSource(3)) // #nosec G404 -- test
	r := DefaultLayout().Regions[0]
	for i := 0; i < 500; i++ {
		x1, y1, x2, y2, ok := SampleChord(rng, r, 25, 20, 120)
		if !ok {
			continue
		}
		d := math.Hypot(x2-x1, y2-y1)
		if d < 20 || d > 120 {
			t.Fatalf("accepted chord of length %.2f outside [20,120]", d)
		}
		for _, pt := range [][2]float64{{x1, y1}, {x2, y2}} {
			if pt[0] < r.X0+25 || pt[0] > r.X1-25 || pt[1] < r.Y0+25 || pt[1] > r.Y1-25 {
				t.Fatalf("endpoint (%.1f,%.1f) outside the inset interior", pt[0], pt[1])
			}
		}
	}
}

func TestSampleChord_AcceptsLastSampleWhenCapExhausted(t *testing.T) {
	rng := rand.New(rand.NewSource(3)) // #nosec G404 -- test
	r := Region{X0: 0, Y0: 0, X1: 100, Y1: 100}
	// No chord inside a 50x50 interior can be 1000px long.
	x1, y1, x2, y2, ok := SampleChord(rng, r, 25, 1000, 2000)
	if ok {
		t.Fatal("sampling should report failure")
	}
	if !r.Contains(x1, y1) || !r.Contains(x2, y2) {
		t.Fatal("the fallback sample should still lie inside the region")
	}
}

func TestStrokePool_SeedThreePerRegion(t *testing.T) {
	p, _ := newTestPool(1, nil)
	p.Seed(0, 3)
	if p.Len() != 12 {
		t.Fatalf("expected 12 strokes, got %d", p.Len())
	}
	for r, n := range p.CountByRegion() {
		if n != 3 {
			t.Fatalf("region %d: expected 3 strokes, got %d", r, n)
		}
	}
	for _, s := range p.Strokes() {
		if s.Region != s.Home {
			t.Fatalf("stroke %d bound to region %d but created for %d", s.ID, s.Region, s.Home)
		}
		if s.StepFactor < 1 || s.StepFactor >= 5 {
			t.Fatalf("setup step factor %.2f outside [1,5)", s.StepFactor)
		}
		if s.Delay < 500 || s.Delay >= 1000 || s.Duration < 1000 || s.Duration >= 4000 {
			t.Fatalf("timing out of range: delay=%.1f duration=%.1f", s.Delay, s.Duration)
		}
	}
}

func TestStrokePool_ReconcileGrowsAndTrimsFromTail(t *testing.T) {
	log := NewSimLog(false)
	p, _ := newTestPool(2, log)
	p.Seed(0, 3)

	p.Reconcile(1, 16, 5)
	for r, n := range p.CountByRegion() {
		if n != 5 {
			t.Fatalf("after growth region %d has %d strokes, want 5", r, n)
		}
	}
	if got := log.CountCategory("stroke", "spawn"); got != 12+8 {
		t.Fatalf("expected 20 spawn events, got %d", got)
	}

	before := p.Strokes()
	p.Reconcile(2, 33, 1)
	for r, n := range p.CountByRegion() {
		if n != 1 {
			t.Fatalf("after trim region %d has %d strokes, want 1", r, n)
		}
	}
	// The survivor in each region is the oldest one.
	first := map[int]int{}
	for _, s := range before {
		if _, ok := first[s.Home]; !ok {
			first[s.Home] = s.ID
		}
	}
	for _, s := range p.Strokes() {
		if s.ID != first[s.Home] {
			t.Fatalf("region %d kept stroke %d, expected the oldest %d", s.Home, s.ID, first[s.Home])
		}
	}
	if got := log.CountCategory("stroke", "trim"); got != 16 {
		t.Fatalf("expected 16 trim events, got %d", got)
	}
}

func TestStrokePool_RegenerateKeepsRegionAndColor(t *testing.T) {
	log := NewSimLog(false)
	p, _ := newTestPool(4, log)
	p.Seed(0, 1)
	before := p.Strokes()

	// Past every stroke's end.
	p.Advance(1, 6000, nil)
	after := p.Strokes()
	for i := range after {
		if after[i].Home != before[i].Home || after[i].Region != before[i].Region {
			t.Fatalf("stroke %d moved from region %d to %d", after[i].ID, before[i].Region, after[i].Region)
		}
		if after[i].Color != before[i].Color {
			t.Fatalf("stroke %d changed color", after[i].ID)
		}
		if after[i].StartTime != 6000 || after[i].Phase != PhaseDormant || after[i].Revealed != 0 {
			t.Fatalf("stroke %d not reset: start=%.0f phase=%s revealed=%d",
				after[i].ID, after[i].StartTime, after[i].Phase, after[i].Revealed)
		}
		if after[i].StepFactor < 10 || after[i].StepFactor >= 40 {
			t.Fatalf("regenerated step factor %.2f outside [10,40)", after[i].StepFactor)
		}
	}
	if got := log.CountCategory("stroke", "regenerate"); got != 4 {
		t.Fatalf("expected 4 regenerate events, got %d", got)
	}
}

func TestStrokePool_OrphanLeftStatic(t *testing.T) {
	log := NewSimLog(false)
	p, _ := newTestPool(5, log)
	p.Seed(0, 1)
	orphan := p.strokes[0]
	orphan.Region = -1
	geom := [4]float64{orphan.X1, orphan.Y1, orphan.X2, orphan.Y2}

	p.Advance(1, 6000, nil)
	p.Advance(2, 6016, nil)

	if got := [4]float64{orphan.X1, orphan.Y1, orphan.X2, orphan.Y2}; got != geom {
		t.Fatal("orphaned stroke should keep its geometry")
	}
	if orphan.Phase != PhaseExpired {
		t.Fatalf("orphan should stay expired, got %s", orphan.Phase)
	}
	if got := log.CountCategory("stroke", "orphan"); got != 1 {
		t.Fatalf("expected exactly one orphan event, got %d", got)
	}
	// Orphans still count toward their home region, so no replacement appears.
	p.Reconcile(3, 6032, 1)
	if p.Len() != 4 {
		t.Fatalf("expected the pool to stay at 4, got %d", p.Len())
	}
}

// Every lifetime must reveal subdivisions 1..S in contiguous ranges.
func TestStrokePool_RevealEachSubdivisionOnce(t *testing.T) {
	p, _ := newTestPool(6, nil)
	p.Seed(0, 3)
	clock := NewFrameClock(FrameInterval)

	next := map[int]int{}
	completed := 0
	draw := func(s *Stroke, from, to int) {
		if from != next[s.ID] {
			t.Fatalf("stroke %d: range starts at %d, expected %d", s.ID, from, next[s.ID])
		}
		if to <= from || to > strokeSteps {
			t.Fatalf("stroke %d: bad range (%d,%d]", s.ID, from, to)
		}
		next[s.ID] = to
		if to == strokeSteps {
			next[s.ID] = 0
			completed++
		}
	}

	watermark := map[int]int{}
	for i := 0; i < 3000; i++ {
		tick := clock.Advance()
		p.Advance(tick, clock.Now(), draw)
		for _, s := range p.Strokes() {
			if s.Phase == PhaseActive && s.Revealed < watermark[s.ID] {
				t.Fatalf("stroke %d: watermark fell from %d to %d", s.ID, watermark[s.ID], s.Revealed)
			}
			watermark[s.ID] = s.Revealed
		}
	}
	if completed < 12 {
		t.Fatalf("expected every stroke to finish at least one lifetime, got %d completions", completed)
	}
}

// A coarse clock that jumps from dormant straight past the end still draws
// the whole stroke before regenerating it.
func TestStrokePool_ExpiryFlushesUndrawnSteps(t *testing.T) {
	p, _ := newTestPool(7, nil)
	p.Seed(0, 1)
	drawn := map[int]int{}
	p.Advance(1, 100000, func(s *Stroke, from, to int) {
		drawn[s.ID] += to - from
	})
	for id, n := range drawn {
		if n != strokeSteps {
			t.Fatalf("stroke %d drew %d subdivisions, want %d", id, n, strokeSteps)
		}
	}
	if len(drawn) != 4 {
		t.Fatalf("expected 4 strokes drawn, got %d", len(drawn))
	}
}
