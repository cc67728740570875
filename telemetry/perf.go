package telemetry

import (
	"log/slog"
	"time"
)

// Phase identifies one stage of a tick.
type Phase uint8

// Tick phases in execution order. Ecosystem ticks run snapshot, scan and
// plants; Life ticks run life. Both finish with swap and publish.
const (
	PhaseSnapshot Phase = iota
	PhaseScan
	PhasePlants
	PhaseLife
	PhaseSwap
	PhasePublish

	NumPhases
)

var phaseNames = [NumPhases]string{"snapshot", "scan", "plants", "life", "swap", "publish"}

func (p Phase) String() string {
	if p < NumPhases {
		return phaseNames[p]
	}
	return "unknown"
}

// PhaseByName maps a phase name (as used by the systems registry) back to
// its Phase.
func PhaseByName(name string) (Phase, bool) {
	for i, n := range phaseNames {
		if n == name {
			return Phase(i), true
		}
	}
	return 0, false
}

// tickSample is the timing of one tick.
type tickSample struct {
	total  time.Duration
	phases [NumPhases]time.Duration
	cells  int
}

// PerfCollector times tick phases over a rolling window of ticks.
// Phases are closed implicitly: starting one ends the previous.
type PerfCollector struct {
	ring   []tickSample
	next   int
	filled int

	cur        tickSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over window ticks
// (60 when window < 1).
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{ring: make([]tickSample, window)}
}

// StartTick begins timing a tick that updates the given number of cells.
func (p *PerfCollector) StartTick(cells int) {
	p.cur = tickSample{cells: cells}
	p.tickStart = time.Now()
	p.inPhase = false
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
	p.inPhase = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase && p.phase < NumPhases {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.inPhase = false
}

// EndTick closes the running phase and stores the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.filled < len(p.ring) {
		p.filled++
	}
}

// RecordFrame marks the end of a rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PhaseTiming is the average duration of one phase and its share of the
// average tick, in percent.
type PhaseTiming struct {
	Avg time.Duration
	Pct float64
}

// PerfStats aggregates the collector window.
type PerfStats struct {
	Ticks   int // samples in the window
	AvgTick time.Duration
	MinTick time.Duration
	MaxTick time.Duration
	Phases  [NumPhases]PhaseTiming

	GenerationsPerSecond float64
	CellsPerSecond       float64 // grid cells updated per second of tick time

	Frame time.Duration // last frame duration (graphical front ends)
	FPS   float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{Ticks: p.filled, Frame: p.frame}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return s
	}

	var total time.Duration
	var phaseSum [NumPhases]time.Duration
	cells := 0
	for i, sample := range p.ring[:p.filled] {
		total += sample.total
		cells += sample.cells
		if i == 0 || sample.total < s.MinTick {
			s.MinTick = sample.total
		}
		s.MaxTick = max(s.MaxTick, sample.total)
		for ph, d := range sample.phases {
			phaseSum[ph] += d
		}
	}

	n := time.Duration(p.filled)
	s.AvgTick = total / n
	for ph, sum := range phaseSum {
		s.Phases[ph].Avg = sum / n
		if s.AvgTick > 0 {
			s.Phases[ph].Pct = float64(s.Phases[ph].Avg) / float64(s.AvgTick) * 100
		}
	}
	if total > 0 {
		s.GenerationsPerSecond = float64(p.filled) / total.Seconds()
		s.CellsPerSecond = float64(cells) / total.Seconds()
	}
	return s
}

// Phase returns the timing of one phase.
func (s PerfStats) Phase(p Phase) PhaseTiming {
	if p >= NumPhases {
		return PhaseTiming{}
	}
	return s.Phases[p]
}

// LogStats logs the window at info level. Phases below 0.1% are omitted.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTick.Microseconds(),
		"max_tick_us", s.MaxTick.Microseconds(),
		"gens_per_sec", int(s.GenerationsPerSecond),
		"cells_per_sec", int(s.CellsPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for ph, t := range s.Phases {
		if t.Pct > 0.1 {
			attrs = append(attrs, Phase(ph).String()+"_pct", float64(int(t.Pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("ticks", s.Ticks),
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("min_tick_us", s.MinTick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Float64("gens_per_sec", s.GenerationsPerSecond),
		slog.Float64("cells_per_sec", s.CellsPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for ph, t := range s.Phases {
		if t.Avg > 0 {
			attrs = append(attrs, slog.Float64(Phase(ph).String()+"_pct", t.Pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd   int     `csv:"window_end"`
	AvgTickUS   int64   `csv:"avg_tick_us"`
	MinTickUS   int64   `csv:"min_tick_us"`
	MaxTickUS   int64   `csv:"max_tick_us"`
	GensPerSec  float64 `csv:"gens_per_sec"`
	CellsPerSec float64 `csv:"cells_per_sec"`
	FPS         float64 `csv:"fps"`
	SnapshotPct float64 `csv:"snapshot_pct"`
	ScanPct     float64 `csv:"scan_pct"`
	PlantsPct   float64 `csv:"plants_pct"`
	LifePct     float64 `csv:"life_pct"`
	SwapPct     float64 `csv:"swap_pct"`
	PublishPct  float64 `csv:"publish_pct"`
}

// ToCSV flattens the stats for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:   windowEnd,
		AvgTickUS:   s.AvgTick.Microseconds(),
		MinTickUS:   s.MinTick.Microseconds(),
		MaxTickUS:   s.MaxTick.Microseconds(),
		GensPerSec:  s.GenerationsPerSecond,
		CellsPerSec: s.CellsPerSecond,
		FPS:         s.FPS,
		SnapshotPct: s.Phases[PhaseSnapshot].Pct,
		ScanPct:     s.Phases[PhaseScan].Pct,
		PlantsPct:   s.Phases[PhasePlants].Pct,
		LifePct:     s.Phases[PhaseLife].Pct,
		SwapPct:     s.Phases[PhaseSwap].Pct,
		PublishPct:  s.Phases[PhasePublish].Pct,
	}
}
