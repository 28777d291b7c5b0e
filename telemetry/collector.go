// Package telemetry provides windowed ecosystem statistics, lifetime tracking,
// bookmarks, and CSV output.
package telemetry

import "slices"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	runID               string
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	births            int
	birthsSkippedCap  int
	birthsOutOfBounds int
	deaths            int
	eatsStarted       int
	eatsAborted       int
	boundaryExits     int
	sprouts           int
	sproutsCrowded    int
	sproutsCapped     int
	sproutsOutOfBound int
	foodConsumed      int
	foodRespawned     int
	lifespans         []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(runID string, windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		runID:               runID,
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordBirth records a committed birth.
func (c *Collector) RecordBirth() { c.births++ }

// RecordBirthSkippedCap records a due gestation skipped at the population cap.
func (c *Collector) RecordBirthSkippedCap() { c.birthsSkippedCap++ }

// RecordBirthOutOfBounds records a birth rejected outside the world interior.
func (c *Collector) RecordBirthOutOfBounds() { c.birthsOutOfBounds++ }

// RecordDeath records a starvation death and the organism's lifespan in seconds.
func (c *Collector) RecordDeath(lifespanSec float64) {
	c.deaths++
	c.lifespans = append(c.lifespans, lifespanSec)
}

// RecordEatStarted records an organism beginning to eat.
func (c *Collector) RecordEatStarted() { c.eatsStarted++ }

// RecordEatAborted records an organism reaching food that was already taken.
func (c *Collector) RecordEatAborted() { c.eatsAborted++ }

// RecordBoundaryExit records an organism turned back at the world edge.
func (c *Collector) RecordBoundaryExit() { c.boundaryExits++ }

// RecordSprout records a seedling placed.
func (c *Collector) RecordSprout() { c.sprouts++ }

// RecordSproutCrowded records a sprout rejected by the crowding check.
func (c *Collector) RecordSproutCrowded() { c.sproutsCrowded++ }

// RecordSproutCapped records a sprout skipped at the population cap.
func (c *Collector) RecordSproutCapped() { c.sproutsCapped++ }

// RecordSproutOutOfBounds records a sprout landing outside the world interior.
func (c *Collector) RecordSproutOutOfBounds() { c.sproutsOutOfBound++ }

// RecordFoodConsumed records food removed after being eaten.
func (c *Collector) RecordFoodConsumed() { c.foodConsumed++ }

// RecordRespawn records n food spawned by the respawn policy.
func (c *Collector) RecordRespawn(n int) { c.foodRespawned += n }

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Sample holds population measurements taken at the end of a window.
// Trait maps are keyed by component field descriptor IDs.
type Sample struct {
	FoodCount      int
	OrganismCount  int
	Energies       []float64
	Generations    []float64
	OrganismTraits map[string][]float64
	FoodSizes      []float64
	FoodTraits     map[string][]float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, s Sample) WindowStats {
	energyMean, energyStd, p10, p50, p90 := ComputeEnergyStats(s.Energies)

	var genMax int
	if len(s.Generations) > 0 {
		genMax = int(slices.Max(s.Generations))
	}

	stats := WindowStats{
		RunID:           c.runID,
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		FoodCount:     s.FoodCount,
		OrganismCount: s.OrganismCount,

		Births:            c.births,
		BirthsSkippedCap:  c.birthsSkippedCap,
		BirthsOutOfBounds: c.birthsOutOfBounds,
		Deaths:            c.deaths,
		EatsStarted:       c.eatsStarted,
		EatsAborted:       c.eatsAborted,
		BoundaryExits:     c.boundaryExits,

		Sprouts:            c.sprouts,
		SproutsCrowded:     c.sproutsCrowded,
		SproutsCapped:      c.sproutsCapped,
		SproutsOutOfBounds: c.sproutsOutOfBound,
		FoodConsumed:       c.foodConsumed,
		FoodRespawned:      c.foodRespawned,

		EnergyMean: energyMean,
		EnergyStd:  energyStd,
		EnergyP10:  p10,
		EnergyP50:  p50,
		EnergyP90:  p90,

		GenerationMean: Mean(s.Generations),
		GenerationMax:  genMax,
		LifespanMean:   Mean(c.lifespans),

		BaseSpeedMean:     Mean(s.OrganismTraits["base_speed"]),
		MaxEnergyMean:     Mean(s.OrganismTraits["max_energy"]),
		MetabolicRateMean: Mean(s.OrganismTraits["metabolic_rate"]),
		SightRangeMean:    Mean(s.OrganismTraits["sight_range"]),
		RaysMean:          Mean(s.OrganismTraits["rays"]),
		RayAngleMean:      Mean(s.OrganismTraits["ray_angle"]),

		FoodSizeMean:        Mean(s.FoodSizes),
		FoodMaxSizeMean:     Mean(s.FoodTraits["max_size"]),
		GrowthSpeedMean:     Mean(s.FoodTraits["growth_speed"]),
		SproutFrequencyMean: Mean(s.FoodTraits["sprout_frequency"]),
		SproutDistanceMean:  Mean(s.FoodTraits["sprout_distance"]),
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.births = 0
	c.birthsSkippedCap = 0
	c.birthsOutOfBounds = 0
	c.deaths = 0
	c.eatsStarted = 0
	c.eatsAborted = 0
	c.boundaryExits = 0
	c.sprouts = 0
	c.sproutsCrowded = 0
	c.sproutsCapped = 0
	c.sproutsOutOfBound = 0
	c.foodConsumed = 0
	c.foodRespawned = 0
	c.lifespans = c.lifespans[:0]

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
