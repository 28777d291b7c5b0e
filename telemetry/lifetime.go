package telemetry

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/traits"
)

// LifetimeStats tracks per-organism statistics over its lifetime.
type LifetimeStats struct {
	BirthTick       int32
	SurvivalTimeSec float64
	Generation      int
	Phenotype       traits.OrganismPhenotype

	// Feeding
	Meals       int
	EnergyEaten float64

	// Reproduction
	Children int

	// Energy
	PeakEnergy float64
}

// LifetimeTracker manages per-organism lifetime statistics keyed by entity handle.
type LifetimeTracker struct {
	stats map[ecs.Entity]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[ecs.Entity]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new organism.
func (lt *LifetimeTracker) Register(e ecs.Entity, birthTick int32, generation int, p traits.OrganismPhenotype) {
	lt.stats[e] = &LifetimeStats{
		BirthTick:  birthTick,
		Generation: generation,
		Phenotype:  p,
	}
}

// Get returns the lifetime stats for an organism, or nil if not found.
func (lt *LifetimeTracker) Get(e ecs.Entity) *LifetimeStats {
	return lt.stats[e]
}

// Remove removes an organism's stats and returns them, with survival time
// filled in for the given tick.
func (lt *LifetimeTracker) Remove(e ecs.Entity, currentTick int32, dt float64) *LifetimeStats {
	stats := lt.stats[e]
	if stats == nil {
		return nil
	}
	delete(lt.stats, e)
	stats.SurvivalTimeSec = float64(currentTick-stats.BirthTick) * dt
	return stats
}

// RecordMeal records food eaten and the energy it granted.
func (lt *LifetimeTracker) RecordMeal(e ecs.Entity, energy float64) {
	if s := lt.stats[e]; s != nil {
		s.Meals++
		s.EnergyEaten += energy
	}
}

// RecordChild increments children count.
func (lt *LifetimeTracker) RecordChild(parent ecs.Entity) {
	if s := lt.stats[parent]; s != nil {
		s.Children++
	}
}

// UpdateEnergy tracks peak energy.
func (lt *LifetimeTracker) UpdateEnergy(e ecs.Entity, energy float64) {
	if s := lt.stats[e]; s != nil && energy > s.PeakEnergy {
		s.PeakEnergy = energy
	}
}

// Count returns the number of tracked organisms.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
