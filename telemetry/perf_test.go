package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_PhasesAndThroughput(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick(100)
		pc.StartPhase(PhaseSnapshot)
		time.Sleep(50 * time.Microsecond)
		pc.StartPhase(PhaseScan)
		time.Sleep(500 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.Ticks != 5 {
		t.Errorf("expected 5 ticks, got %d", stats.Ticks)
	}
	if stats.AvgTick <= 0 {
		t.Error("expected positive average tick duration")
	}
	if stats.Phase(PhaseScan).Avg <= 0 || stats.Phase(PhaseSnapshot).Avg <= 0 {
		t.Errorf("expected snapshot and scan to be timed, got %+v", stats.Phases)
	}
	if stats.Phase(PhaseLife).Avg != 0 {
		t.Errorf("expected life phase untouched, got %v", stats.Phase(PhaseLife).Avg)
	}
	if stats.GenerationsPerSecond <= 0 {
		t.Error("expected positive generations per second")
	}
	// 100 cells per tick
	ratio := stats.CellsPerSecond / stats.GenerationsPerSecond
	if ratio < 99.9 || ratio > 100.1 {
		t.Errorf("expected 100 cells per generation, got %f", ratio)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick(1)
		pc.StartPhase(PhaseLife)
		pc.EndTick()
	}

	if got := pc.Stats().Ticks; got != 5 {
		t.Errorf("expected window capped at 5, got %d", got)
	}
}

func TestPerfCollector_SharesFollowDuration(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick(1)
		pc.StartPhase(PhaseSwap)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseScan)
		time.Sleep(2 * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	swap, scan := stats.Phase(PhaseSwap).Pct, stats.Phase(PhaseScan).Pct
	if scan <= swap {
		t.Errorf("expected scan share (%v%%) > swap share (%v%%)", scan, swap)
	}
	if scan > 100 {
		t.Errorf("expected share at most 100%%, got %v", scan)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(0).Stats()

	if stats.AvgTick != 0 || stats.Ticks != 0 || stats.GenerationsPerSecond != 0 {
		t.Errorf("expected zero stats for empty collector, got %+v", stats)
	}
	if got := stats.Phase(NumPhases); got != (PhaseTiming{}) {
		t.Errorf("expected zero timing for out of range phase, got %+v", got)
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.Frame < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.Frame)
	}
	// Sleep only guarantees a minimum, so only the upper bound is firm.
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("expected FPS in (0, 70], got %v", stats.FPS)
	}
}

func TestPhaseByName(t *testing.T) {
	for p := PhaseSnapshot; p < NumPhases; p++ {
		got, ok := PhaseByName(p.String())
		if !ok || got != p {
			t.Errorf("expected %s to map back to %d, got %d (%v)", p, p, got, ok)
		}
	}
	if _, ok := PhaseByName("render"); ok {
		t.Error("expected unknown phase name to be rejected")
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	var stats PerfStats
	stats.AvgTick = 250 * time.Microsecond
	stats.Phases[PhaseScan].Pct = 80
	stats.Phases[PhaseSwap].Pct = 5

	row := stats.ToCSV(120)
	if row.WindowEnd != 120 || row.AvgTickUS != 250 {
		t.Errorf("expected window 120 and 250us, got %d and %d", row.WindowEnd, row.AvgTickUS)
	}
	if row.ScanPct != 80 || row.SwapPct != 5 || row.LifePct != 0 {
		t.Errorf("expected phase percentages copied, got %+v", row)
	}
}
