package sketch

import (
	"strings"
	"testing"
)

func TestSimLog_FilterAndLookup(t *testing.T) {
	sl := NewSimLog(false)
	sl.Add(1, "S0", "stroke", "spawn", "region=0", 50)
	sl.Add(3, "S0", "stroke", "activate", "region=0", 700)
	sl.Add(9, "P0", "particle", "spawn", "(1.0,2.0)", 1)
	sl.AddVerbose(9, "P0", "particle", "move", "(2.0,3.0)", 0)

	if len(sl.Entries()) != 3 {
		t.Fatalf("verbose entry should be dropped, got %d entries", len(sl.Entries()))
	}
	if got := len(sl.Filter("stroke", "")); got != 2 {
		t.Fatalf("expected 2 stroke entries, got %d", got)
	}
	if got := sl.CountCategory("", "spawn"); got != 2 {
		t.Fatalf("expected 2 spawn entries, got %d", got)
	}
	last, ok := sl.LastOf("stroke", "")
	if !ok || last.Key != "activate" {
		t.Fatalf("LastOf returned %+v, %v", last, ok)
	}
	if _, ok := sl.LastOf("grid", "rebuild"); ok {
		t.Fatal("LastOf should report missing entries")
	}
	if got := len(sl.FilterSubject("P0")); got != 1 {
		t.Fatalf("expected 1 entry for P0, got %d", got)
	}
	if got := len(sl.FilterTickRange(2, 9)); got != 2 {
		t.Fatalf("expected 2 entries in [2,9], got %d", got)
	}
	if !sl.HasEntry("particle", "spawn", "1.0") {
		t.Fatal("HasEntry should match a value substring")
	}
	if !strings.Contains(sl.FormatRange(1, 1), "[T=001] S0") {
		t.Fatalf("unexpected format: %q", sl.FormatRange(1, 1))
	}
}
