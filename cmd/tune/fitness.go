package main

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/game"
	"github.com/pthm-cable/petri/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	// Best run tracking
	mu             sync.Mutex
	bestFitness    float64
	bestHallOfFame *telemetry.HallOfFame
	lastQuality    float64 // quality from most recent Evaluate call
	lastSurvival   float64 // mean coexistence seconds from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0, // 10 seconds per window
		bestFitness: math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastSurvival returns the mean coexistence time of the most recent evaluation.
func (fe *FitnessEvaluator) LastSurvival() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSurvival
}

// Minimum viable population: if organisms or food stay below this for
// extinctionGraceSec, the run counts as collapsed.
const (
	minViablePop       = 3
	extinctionGraceSec = 30.0
	warmupSec          = 5.0
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32                   // ticks before collapse (or maxTicks if it survived)
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
	hallOfFame    *telemetry.HallOfFame
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness     float64
	quality     float64
	survivalSec float64
	hallOfFame  *telemetry.HallOfFame
	err         error
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Fitness is negative coexistence ticks scaled by ecosystem quality.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result, err := fe.runSimulation(x, s)
			if err != nil {
				results[idx] = seedResult{err: err}
				return
			}
			quality := computeQuality(result.windowStats)
			results[idx] = seedResult{
				fitness:     computeFitness(result.survivalTicks, quality),
				quality:     quality,
				survivalSec: float64(result.survivalTicks) * fe.baseConfig.Physics.DT,
				hallOfFame:  result.hallOfFame,
			}
		}(i, seed)
	}
	wg.Wait()

	// Aggregate results
	var totalFitness, totalQuality, totalSurvival float64
	bestSeedFitness := math.Inf(1)
	var bestSeedHallOfFame *telemetry.HallOfFame

	for _, r := range results {
		if r.err != nil {
			// An unusable parameter set scores as an immediate collapse
			continue
		}
		totalFitness += r.fitness
		totalQuality += r.quality
		totalSurvival += r.survivalSec
		if r.fitness < bestSeedFitness {
			bestSeedFitness = r.fitness
			bestSeedHallOfFame = r.hallOfFame
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestHallOfFame = bestSeedHallOfFame
	}
	fe.lastQuality = totalQuality / n
	fe.lastSurvival = totalSurvival / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless run until collapse or maxTicks.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) (*runResult, error) {
	cfg := fe.baseConfig.Clone()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		return nil, fmt.Errorf("applying parameters: %w", err)
	}

	result := &runResult{}
	g, err := game.New(cfg, game.Options{
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return nil, err
	}
	defer g.Close()

	dt := cfg.Physics.DT
	graceTicks := int32(extinctionGraceSec / dt)
	warmupTicks := int32(warmupSec / dt)
	var belowTicks int32

	result.survivalTicks = fe.maxTicks
	for g.Tick() < fe.maxTicks {
		g.Step()

		tick := g.Tick()
		if tick < warmupTicks {
			continue
		}

		orgs := g.Population().OrganismCount()
		food := g.Population().FoodCount()
		if orgs == 0 {
			result.survivalTicks = tick
			break
		}

		// Functional collapse: either side below minimum viable population too long
		if orgs < minViablePop || food < minViablePop {
			belowTicks++
		} else {
			belowTicks = 0
		}
		if belowTicks >= graceTicks {
			result.survivalTicks = tick
			break
		}
	}

	result.hallOfFame = g.HallOfFame()
	return result, nil
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + 0.2 × quality))
// Survival dominates; quality adds up to 20% to separate configs that
// survive equally long.
func computeFitness(survivalTicks int32, quality float64) float64 {
	return -(float64(survivalTicks) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.30
	qualityWeightStability = 0.30
	qualityWeightEnergy    = 0.20
	qualityWeightFeeding   = 0.20

	qualityWarmupWindows = 3  // skip first N windows
	qualityMinPop        = 3  // exclude windows where either side < this
	targetFoodPerOrg     = 5  // food agents per organism considered healthy
	targetEnergyFrac     = 0.6
)

// computeQuality computes ecosystem quality in [0, 1] from window stats.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var ratioSum, energySum, feedSum float64
	var count int
	foodCounts := make([]float64, 0, len(windows))
	orgCounts := make([]float64, 0, len(windows))

	for _, w := range windows[qualityWarmupWindows:] {
		if w.FoodCount < qualityMinPop || w.OrganismCount < qualityMinPop {
			continue
		}
		count++
		foodCounts = append(foodCounts, float64(w.FoodCount))
		orgCounts = append(orgCounts, float64(w.OrganismCount))

		// 1. Food to organism ratio, log-normal around the target
		logErr := math.Log(float64(w.FoodCount) / float64(w.OrganismCount) / targetFoodPerOrg)
		ratioSum += math.Exp(-logErr * logErr)

		// 3. Median energy as a fraction of capacity
		if w.MaxEnergyMean > 0 {
			frac := w.EnergyP50 / w.MaxEnergyMean
			energySum += math.Exp(-math.Pow((frac-targetEnergyFrac)/0.2, 2))
		}

		// 4. Feeding activity
		mealsPerOrg := float64(w.EatsStarted) / float64(w.OrganismCount)
		feedSum += 1.0 - math.Exp(-mealsPerOrg/2.0)
	}

	if count == 0 {
		return 0
	}

	// 2. Population stability (CV across valid windows)
	stabilityScore := 0.0
	if count >= 2 {
		cvFood, cvOrg := cv(foodCounts), cv(orgCounts)
		stabilityScore = math.Exp(-(cvFood*cvFood + cvOrg*cvOrg))
	}

	n := float64(count)
	quality := qualityWeightRatio*ratioSum/n +
		qualityWeightStability*stabilityScore +
		qualityWeightEnergy*energySum/n +
		qualityWeightFeeding*feedSum/n

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
