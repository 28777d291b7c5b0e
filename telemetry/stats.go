package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	RunID           string  `csv:"run_id"`
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end
	FoodCount     int `csv:"food"`
	OrganismCount int `csv:"organisms"`

	// Organism events during window
	Births            int `csv:"births"`
	BirthsSkippedCap  int `csv:"births_skipped_cap"`
	BirthsOutOfBounds int `csv:"births_out_of_bounds"`
	Deaths            int `csv:"deaths"`
	EatsStarted       int `csv:"eats_started"`
	EatsAborted       int `csv:"eats_aborted"`
	BoundaryExits     int `csv:"boundary_exits"`

	// Food events during window
	Sprouts            int `csv:"sprouts"`
	SproutsCrowded     int `csv:"sprouts_crowded"`
	SproutsCapped      int `csv:"sprouts_capped"`
	SproutsOutOfBounds int `csv:"sprouts_out_of_bounds"`
	FoodConsumed       int `csv:"food_consumed"`
	FoodRespawned      int `csv:"food_respawned"`

	// Energy distribution (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Lineage
	GenerationMean float64 `csv:"generation_mean"`
	GenerationMax  int     `csv:"generation_max"`
	LifespanMean   float64 `csv:"lifespan_mean"` // Seconds, organisms that died this window

	// Organism phenotype means
	BaseSpeedMean     float64 `csv:"base_speed_mean"`
	MaxEnergyMean     float64 `csv:"max_energy_mean"`
	MetabolicRateMean float64 `csv:"metabolic_rate_mean"`
	SightRangeMean    float64 `csv:"sight_range_mean"`
	RaysMean          float64 `csv:"rays_mean"`
	RayAngleMean      float64 `csv:"ray_angle_mean"`

	// Food phenotype and size
	FoodSizeMean        float64 `csv:"food_size_mean"`
	FoodMaxSizeMean     float64 `csv:"food_max_size_mean"`
	GrowthSpeedMean     float64 `csv:"growth_speed_mean"`
	SproutFrequencyMean float64 `csv:"sprout_frequency_mean"`
	SproutDistanceMean  float64 `csv:"sprout_distance_mean"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeEnergyStats calculates mean, population standard deviation and
// percentiles from energy values.
func ComputeEnergyStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	std = stat.PopStdDev(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(s.attrs()...)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	args := make([]any, 0, 40)
	for _, a := range s.attrs() {
		args = append(args, a)
	}
	slog.Info("stats", args...)
}

func (s WindowStats) attrs() []slog.Attr {
	return []slog.Attr{
		slog.String("run_id", s.RunID),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("food", s.FoodCount),
		slog.Int("organisms", s.OrganismCount),
		slog.Int("births", s.Births),
		slog.Int("births_skipped_cap", s.BirthsSkippedCap),
		slog.Int("births_out_of_bounds", s.BirthsOutOfBounds),
		slog.Int("deaths", s.Deaths),
		slog.Int("eats_started", s.EatsStarted),
		slog.Int("eats_aborted", s.EatsAborted),
		slog.Int("boundary_exits", s.BoundaryExits),
		slog.Int("sprouts", s.Sprouts),
		slog.Int("sprouts_crowded", s.SproutsCrowded),
		slog.Int("sprouts_capped", s.SproutsCapped),
		slog.Int("sprouts_out_of_bounds", s.SproutsOutOfBounds),
		slog.Int("food_consumed", s.FoodConsumed),
		slog.Int("food_respawned", s.FoodRespawned),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_std", s.EnergyStd),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("generation_mean", s.GenerationMean),
		slog.Int("generation_max", s.GenerationMax),
		slog.Float64("lifespan_mean", s.LifespanMean),
		slog.Float64("base_speed_mean", s.BaseSpeedMean),
		slog.Float64("max_energy_mean", s.MaxEnergyMean),
		slog.Float64("metabolic_rate_mean", s.MetabolicRateMean),
		slog.Float64("sight_range_mean", s.SightRangeMean),
		slog.Float64("rays_mean", s.RaysMean),
		slog.Float64("ray_angle_mean", s.RayAngleMean),
		slog.Float64("food_size_mean", s.FoodSizeMean),
		slog.Float64("food_max_size_mean", s.FoodMaxSizeMean),
		slog.Float64("growth_speed_mean", s.GrowthSpeedMean),
		slog.Float64("sprout_frequency_mean", s.SproutFrequencyMean),
		slog.Float64("sprout_distance_mean", s.SproutDistanceMean),
	}
}
