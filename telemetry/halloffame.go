package telemetry

import (
	"encoding/json"
	"sort"

	"github.com/pthm-cable/petri/traits"
)

// Fitness weights for ranking dead organisms.
const (
	hallChildrenWeight = 10.0
	hallSurvivalWeight = 0.1 // per second
	hallMealWeight     = 1.0
	hallMinSurvivalSec = 60.0
)

// HallEntry records a successful organism's phenotype and fitness.
type HallEntry struct {
	Fitness    float64                  `json:"fitness"`
	Generation int                      `json:"generation"`
	Children   int                      `json:"children"`
	Meals      int                      `json:"meals"`
	Survival   float64                  `json:"survival_sec"`
	PeakEnergy float64                  `json:"peak_energy"`
	Phenotype  traits.OrganismPhenotype `json:"phenotype"`
}

// HallOfFame keeps the fittest organisms that died during a run, sorted by
// descending fitness.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
}

// NewHallOfFame creates a hall with the given capacity.
func NewHallOfFame(maxSize int) *HallOfFame {
	return &HallOfFame{
		entries: make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider evaluates a dead organism for hall of fame entry.
// Returns true if the organism was added to the hall.
func (hof *HallOfFame) Consider(stats *LifetimeStats) bool {
	if stats == nil || !meetsEntryCriteria(stats) {
		return false
	}

	entry := HallEntry{
		Fitness:    fitness(stats),
		Generation: stats.Generation,
		Children:   stats.Children,
		Meals:      stats.Meals,
		Survival:   stats.SurvivalTimeSec,
		PeakEnergy: stats.PeakEnergy,
		Phenotype:  stats.Phenotype,
	}

	// Find insertion point (sorted descending by fitness)
	idx := sort.Search(len(hof.entries), func(i int) bool {
		return hof.entries[i].Fitness < entry.Fitness
	})
	if idx >= hof.maxSize {
		return false
	}

	hof.entries = append(hof.entries, HallEntry{})
	copy(hof.entries[idx+1:], hof.entries[idx:])
	hof.entries[idx] = entry

	if len(hof.entries) > hof.maxSize {
		hof.entries = hof.entries[:hof.maxSize]
	}
	return true
}

// meetsEntryCriteria admits organisms that reproduced, or that lived long
// and fed at least once.
func meetsEntryCriteria(stats *LifetimeStats) bool {
	if stats.Children > 0 {
		return true
	}
	return stats.SurvivalTimeSec >= hallMinSurvivalSec && stats.Meals > 0
}

func fitness(stats *LifetimeStats) float64 {
	return float64(stats.Children)*hallChildrenWeight +
		stats.SurvivalTimeSec*hallSurvivalWeight +
		float64(stats.Meals)*hallMealWeight
}

// Entries returns the hall, best first.
func (hof *HallOfFame) Entries() []HallEntry {
	return hof.entries
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int {
	return len(hof.entries)
}

// TopFitness returns the highest fitness in the hall, or 0 if it is empty.
func (hof *HallOfFame) TopFitness() float64 {
	if len(hof.entries) == 0 {
		return 0
	}
	return hof.entries[0].Fitness
}

// MarshalJSON serializes the hall for output.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(struct {
		Entries []HallEntry `json:"entries"`
	}{hof.entries}, "", "  ")
}
