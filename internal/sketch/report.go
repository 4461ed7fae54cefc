package sketch

import (
	"fmt"
	"strings"
)

// Report is a snapshot of the sketch at one tick.
type Report struct {
	Tick int
	Time float64 // simulated ms

	Strokes   int
	Dormant   int
	Active    int
	Expired   int // includes orphans left static
	PerRegion []int

	Particles int

	GridCells    int
	GridCellSize int
}

// Report snapshots the current state.
func (s *Sketch) Report() Report {
	r := Report{
		Tick:         s.clock.Tick(),
		Time:         s.clock.Now(),
		PerRegion:    s.strokes.CountByRegion(),
		Particles:    s.particles.Len(),
		GridCells:    len(s.grid.Cells()),
		GridCellSize: s.grid.CellSize(),
	}
	for _, st := range s.strokes.strokes {
		r.Strokes++
		switch st.Phase {
		case PhaseDormant:
			r.Dormant++
		case PhaseActive:
			r.Active++
		case PhaseExpired:
			r.Expired++
		}
	}
	return r
}

// String renders the report as a short multi-line block.
func (r Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Report at T=%03d (%.0fms) ---\n", r.Tick, r.Time)
	fmt.Fprintf(&sb, "strokes=%d dormant=%d active=%d expired=%d\n", r.Strokes, r.Dormant, r.Active, r.Expired)
	parts := make([]string, len(r.PerRegion))
	for i, n := range r.PerRegion {
		parts[i] = fmt.Sprintf("R%d=%d", i, n)
	}
	fmt.Fprintf(&sb, "per region: %s\n", strings.Join(parts, " "))
	fmt.Fprintf(&sb, "particles=%d\n", r.Particles)
	fmt.Fprintf(&sb, "grid cells=%d size=%dpx\n", r.GridCells, r.GridCellSize)
	return sb.String()
}
