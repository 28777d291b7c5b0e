package game

import (
	"log/slog"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/telemetry"
)

// flushTelemetry closes the stats window when it is due, then reports it to
// the callback, the log, the output files and the bookmark detector.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sample())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// sample measures the population at the end of a window.
func (g *Game) sample() telemetry.Sample {
	s := telemetry.Sample{
		FoodCount:      g.pop.FoodCount(),
		OrganismCount:  g.pop.OrganismCount(),
		Energies:       make([]float64, 0, g.pop.OrganismCount()),
		Generations:    make([]float64, 0, g.pop.OrganismCount()),
		OrganismTraits: make(map[string][]float64),
		FoodSizes:      make([]float64, 0, g.pop.FoodCount()),
		FoodTraits:     make(map[string][]float64),
	}
	orgFields := components.HeritableOrganismFields()
	foodFields := components.HeritableFoodFields()

	orgQuery := g.pop.orgFilter.Query()
	for orgQuery.Next() {
		_, _, org := orgQuery.Get()
		s.Energies = append(s.Energies, org.Energy)
		s.Generations = append(s.Generations, float64(org.Generation))
		for _, d := range orgFields {
			s.OrganismTraits[d.ID] = append(s.OrganismTraits[d.ID], components.GetOrganismValue(org, d.ID))
		}
		g.lifetimeTracker.UpdateEnergy(orgQuery.Entity(), org.Energy)
	}

	foodQuery := g.pop.foodFilter.Query()
	for foodQuery.Next() {
		_, f := foodQuery.Get()
		s.FoodSizes = append(s.FoodSizes, f.Size)
		for _, d := range foodFields {
			s.FoodTraits[d.ID] = append(s.FoodTraits[d.ID], components.GetFoodValue(f, d.ID))
		}
	}

	return s
}
