package telemetry

import (
	"math"
	"testing"
)

func TestCollectorWindowTicks(t *testing.T) {
	tests := []struct {
		name      string
		windowSec float64
		dt        float64
		want      int32
	}{
		{"ten seconds", 10, 0.02, 500},
		{"sub-tick window", 0.001, 0.02, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollector("run", tt.windowSec, tt.dt)
			if got := c.WindowDurationTicks(); got != tt.want {
				t.Errorf("WindowDurationTicks() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCollectorFlushAndReset(t *testing.T) {
	c := NewCollector("run-1", 1, 0.02)

	if c.ShouldFlush(49) {
		t.Error("ShouldFlush(49) before window end")
	}
	if !c.ShouldFlush(50) {
		t.Error("ShouldFlush(50) should be true")
	}

	c.RecordBirth()
	c.RecordBirth()
	c.RecordBirthSkippedCap()
	c.RecordDeath(10)
	c.RecordDeath(20)
	c.RecordEatStarted()
	c.RecordEatAborted()
	c.RecordSprout()
	c.RecordSproutCrowded()
	c.RecordFoodConsumed()
	c.RecordRespawn(7)

	stats := c.Flush(50, Sample{
		FoodCount:      12,
		OrganismCount:  3,
		Energies:       []float64{10, 20, 30},
		Generations:    []float64{0, 2, 4},
		OrganismTraits: map[string][]float64{"base_speed": {1, 2, 3}},
		FoodSizes:      []float64{0.5, 1.5},
		FoodTraits:     map[string][]float64{"max_size": {1, 3}},
	})

	if stats.RunID != "run-1" || stats.WindowEndTick != 50 {
		t.Errorf("run/window = %q/%d", stats.RunID, stats.WindowEndTick)
	}
	if math.Abs(stats.SimTimeSec-1) > 1e-9 {
		t.Errorf("SimTimeSec = %v, want 1", stats.SimTimeSec)
	}
	if stats.Births != 2 || stats.BirthsSkippedCap != 1 || stats.Deaths != 2 {
		t.Errorf("births/skipped/deaths = %d/%d/%d, want 2/1/2", stats.Births, stats.BirthsSkippedCap, stats.Deaths)
	}
	if stats.EatsStarted != 1 || stats.EatsAborted != 1 || stats.FoodConsumed != 1 {
		t.Errorf("eats = %d/%d/%d, want 1/1/1", stats.EatsStarted, stats.EatsAborted, stats.FoodConsumed)
	}
	if stats.Sprouts != 1 || stats.SproutsCrowded != 1 || stats.FoodRespawned != 7 {
		t.Errorf("sprouts/crowded/respawned = %d/%d/%d", stats.Sprouts, stats.SproutsCrowded, stats.FoodRespawned)
	}
	if stats.LifespanMean != 15 {
		t.Errorf("LifespanMean = %v, want 15", stats.LifespanMean)
	}
	if stats.EnergyMean != 20 || stats.GenerationMean != 2 || stats.GenerationMax != 4 {
		t.Errorf("energy/gen = %v/%v/%d", stats.EnergyMean, stats.GenerationMean, stats.GenerationMax)
	}
	if stats.BaseSpeedMean != 2 || stats.FoodSizeMean != 1 || stats.FoodMaxSizeMean != 2 {
		t.Errorf("trait means = %v/%v/%v", stats.BaseSpeedMean, stats.FoodSizeMean, stats.FoodMaxSizeMean)
	}

	// Counters reset and the next window starts at the flush tick
	next := c.Flush(100, Sample{})
	if next.Births != 0 || next.Deaths != 0 || next.FoodRespawned != 0 || next.LifespanMean != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
	if next.WindowStartTick != 50 {
		t.Errorf("WindowStartTick = %d, want 50", next.WindowStartTick)
	}
	if c.ShouldFlush(120) {
		t.Error("ShouldFlush(120) after flush at 100")
	}
}
