package telemetry

import (
	"math"
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few ticks
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhasePrune)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseCompute)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Verify we got timing data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}

	// Verify phases are tracked
	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}

	if _, ok := stats.PhaseAvg[PhasePrune]; !ok {
		t.Error("expected prune phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhaseCompute]; !ok {
		t.Error("expected compute phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhasePrune)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Should have data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}

	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time            { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestPerfCollector_PhasePercentages(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	pc := NewPerfCollector(10)
	pc.now = clock.Now

	// Uneven phase durations: 10us fast, 90us slow.
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase("fast")
		clock.Advance(10 * time.Microsecond)
		pc.StartPhase("slow")
		clock.Advance(90 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration != 100*time.Microsecond {
		t.Errorf("expected 100us average tick, got %v", stats.AvgTickDuration)
	}
	if got := stats.PhaseAvg["slow"]; got != 90*time.Microsecond {
		t.Errorf("expected 90us slow phase, got %v", got)
	}
	if pct := stats.PhasePct["fast"]; math.Abs(pct-10) > 1e-9 {
		t.Errorf("expected fast phase at 10%%, got %v%%", pct)
	}
	if pct := stats.PhasePct["slow"]; math.Abs(pct-90) > 1e-9 {
		t.Errorf("expected slow phase at 90%%, got %v%%", pct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_NilIsNoop(t *testing.T) {
	var pc *PerfCollector

	pc.StartTick()
	pc.StartPhase(PhaseMerge)
	pc.EndTick()

	stats := pc.Stats()
	if stats.AvgTickDuration != 0 || stats.PhasePct == nil {
		t.Errorf("nil collector should report empty stats, got %+v", stats)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 2 * time.Millisecond,
		PhasePct:        map[string]float64{PhaseCompute: 70, PhaseSync: 5},
	}

	row := stats.ToCSV(120)
	if row.WindowEnd != 120 || row.AvgTickUS != 2000 {
		t.Errorf("unexpected header fields: %+v", row)
	}
	if row.ComputePct != 70 || row.SyncPct != 5 || row.MergePct != 0 {
		t.Errorf("unexpected phase split: %+v", row)
	}
}
