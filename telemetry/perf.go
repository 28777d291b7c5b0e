package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the simulation step.
// They match the system IDs in systems.tickSystems.
const (
	PhaseOrganisms = "organisms"
	PhaseCommit    = "commit"
	PhaseSensing   = "sensing"
	PhaseMovement  = "movement"
	PhaseFeeding   = "feeding"
	PhaseFood      = "food"
	PhaseSprouts   = "sprouts"
	PhaseRespawn   = "respawn"
	PhaseTelemetry = "telemetry"
)

// Phases lists the tick phases in execution order.
var Phases = []string{
	PhaseOrganisms, PhaseCommit, PhaseSensing, PhaseMovement, PhaseFeeding,
	PhaseFood, PhaseSprouts, PhaseRespawn, PhaseTelemetry,
}

// PerfCollector times tick phases over a rolling window of ticks.
// Phase durations are kept per slot in a ring, indexed by phase number, so
// recording a tick does not allocate once every phase has been seen.
type PerfCollector struct {
	windowSize int
	next       int // ring slot the next tick writes
	filled     int

	ticks  []time.Duration   // per slot
	phases [][]time.Duration // per slot, indexed like names

	names []string
	index map[string]int

	current   []time.Duration
	tickStart time.Time
	mark      time.Time
	active    int // phase index being timed, -1 before the first StartPhase
}

// NewPerfCollector creates a collector averaging over windowSize ticks
// (50 ticks is one simulated second at dt 0.02).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 50
	}
	p := &PerfCollector{
		windowSize: windowSize,
		ticks:      make([]time.Duration, windowSize),
		phases:     make([][]time.Duration, windowSize),
		index:      make(map[string]int, len(Phases)),
		active:     -1,
	}
	for _, name := range Phases {
		p.phaseIndex(name)
	}
	return p
}

func (p *PerfCollector) phaseIndex(name string) int {
	if i, ok := p.index[name]; ok {
		return i
	}
	i := len(p.names)
	p.names = append(p.names, name)
	p.index[name] = i
	return i
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.mark = p.tickStart
	p.active = -1
	if cap(p.current) < len(p.names) {
		p.current = make([]time.Duration, len(p.names))
	}
	p.current = p.current[:len(p.names)]
	clear(p.current)
}

// StartPhase closes the running phase and starts timing the named one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closeActive(now)
	i := p.phaseIndex(phase)
	for len(p.current) <= i {
		p.current = append(p.current, 0)
	}
	p.active = i
	p.mark = now
}

func (p *PerfCollector) closeActive(now time.Time) {
	if p.active >= 0 {
		p.current[p.active] += now.Sub(p.mark)
	}
}

// EndTick closes the running phase and stores the tick in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closeActive(now)
	p.active = -1

	slot := p.next
	p.ticks[slot] = now.Sub(p.tickStart)
	p.phases[slot] = append(p.phases[slot][:0], p.current...)

	p.next = (p.next + 1) % p.windowSize
	if p.filled < p.windowSize {
		p.filled++
	}
}

// PerfStats holds timing aggregated over the collector window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	PhaseAvg map[string]time.Duration // mean duration per tick
	PhasePct map[string]float64       // share of the mean tick, in percent

	TicksPerSecond float64
}

// Stats aggregates the ticks currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
	}
	if p.filled == 0 {
		return s
	}

	var total time.Duration
	sums := make([]time.Duration, len(p.names))
	for slot := 0; slot < p.filled; slot++ {
		d := p.ticks[slot]
		total += d
		if slot == 0 || d < s.MinTickDuration {
			s.MinTickDuration = d
		}
		s.MaxTickDuration = max(s.MaxTickDuration, d)
		for i, pd := range p.phases[slot] {
			sums[i] += pd
		}
	}

	n := time.Duration(p.filled)
	s.AvgTickDuration = total / n
	for i, sum := range sums {
		if sum == 0 {
			continue
		}
		avg := sum / n
		s.PhaseAvg[p.names[i]] = avg
		if s.AvgTickDuration > 0 {
			s.PhasePct[p.names[i]] = 100 * float64(avg) / float64(s.AvgTickDuration)
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats logs the window at info level, omitting negligible phases.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct >= 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 4+len(Phases))
	attrs = append(attrs,
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	)
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	OrganismsPct float64 `csv:"organisms_pct"`
	CommitPct    float64 `csv:"commit_pct"`
	SensingPct   float64 `csv:"sensing_pct"`
	MovementPct  float64 `csv:"movement_pct"`
	FeedingPct   float64 `csv:"feeding_pct"`
	FoodPct      float64 `csv:"food_pct"`
	SproutsPct   float64 `csv:"sprouts_pct"`
	RespawnPct   float64 `csv:"respawn_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats into a perf.csv row.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	pct := s.PhasePct
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		OrganismsPct: pct[PhaseOrganisms],
		CommitPct:    pct[PhaseCommit],
		SensingPct:   pct[PhaseSensing],
		MovementPct:  pct[PhaseMovement],
		FeedingPct:   pct[PhaseFeeding],
		FoodPct:      pct[PhaseFood],
		SproutsPct:   pct[PhaseSprouts],
		RespawnPct:   pct[PhaseRespawn],
		TelemetryPct: pct[PhaseTelemetry],
	}
}

// Slowest returns the tick phase with the largest share of tick time.
func (s PerfStats) Slowest() (string, float64) {
	var name string
	var best float64
	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct > best {
			name, best = phase, pct
		}
	}
	return name, best
}
