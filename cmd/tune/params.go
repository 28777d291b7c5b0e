// Package main provides CMA-ES tuning of petri ecosystem parameters.
package main

import (
	"fmt"
	"strings"

	"github.com/pthm-cable/petri/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// Defaults match defaults.yaml.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Food
			{Name: "growth_speed", Path: "food.growth_speed", Min: 0.01, Max: 0.3, Default: 0.05,
				get: func(c *config.Config) float64 { return c.Food.GrowthSpeed },
				set: func(c *config.Config, v float64) { c.Food.GrowthSpeed = v }},
			{Name: "sprout_frequency", Path: "food.sprout_frequency", Min: 2, Max: 30, Default: 10,
				get: func(c *config.Config) float64 { return c.Food.SproutFrequency },
				set: func(c *config.Config, v float64) { c.Food.SproutFrequency = v }},
			{Name: "sprout_distance", Path: "food.sprout_distance", Min: 1, Max: 10, Default: 3,
				get: func(c *config.Config) float64 { return c.Food.SproutDistance },
				set: func(c *config.Config, v float64) { c.Food.SproutDistance = v }},
			// Organism
			{Name: "base_speed", Path: "organism.base_speed", Min: 0.2, Max: 4, Default: 1,
				get: func(c *config.Config) float64 { return c.Organism.BaseSpeed },
				set: func(c *config.Config, v float64) { c.Organism.BaseSpeed = v }},
			{Name: "metabolic_rate", Path: "organism.metabolic_rate", Min: 0.01, Max: 0.5, Default: 0.05,
				get: func(c *config.Config) float64 { return c.Organism.MetabolicRate },
				set: func(c *config.Config, v float64) { c.Organism.MetabolicRate = v }},
			{Name: "sight_range", Path: "organism.sight_range", Min: 0.5, Max: 10, Default: 3,
				get: func(c *config.Config) float64 { return c.Organism.SightRange },
				set: func(c *config.Config, v float64) { c.Organism.SightRange = v }},
			{Name: "hunger_threshold", Path: "organism.hunger_threshold", Min: 0.3, Max: 0.95, Default: 0.8,
				get: func(c *config.Config) float64 { return c.Organism.HungerThreshold },
				set: func(c *config.Config, v float64) { c.Organism.HungerThreshold = v }},
			{Name: "eat_duration", Path: "organism.eat_duration", Min: 0.5, Max: 10, Default: 5,
				get: func(c *config.Config) float64 { return c.Organism.EatDuration },
				set: func(c *config.Config, v float64) { c.Organism.EatDuration = v }},
			// Reproduction
			{Name: "gestation_period", Path: "reproduction.gestation_period", Min: 2, Max: 30, Default: 10,
				get: func(c *config.Config) float64 { return c.Reproduction.GestationPeriod },
				set: func(c *config.Config, v float64) { c.Reproduction.GestationPeriod = v }},
			{Name: "offspring_energy", Path: "reproduction.offspring_energy", Min: 0.3, Max: 0.75, Default: 0.75,
				get: func(c *config.Config) float64 { return c.Reproduction.OffspringEnergy },
				set: func(c *config.Config, v float64) { c.Reproduction.OffspringEnergy = v }},
			// Population
			{Name: "food_share", Path: "population.food_share", Min: 0.5, Max: 0.95, Default: 0.8,
				get: func(c *config.Config) float64 { return c.Population.FoodShare },
				set: func(c *config.Config, v float64) { c.Population.FoodShare = v }},
			{Name: "respawn_threshold", Path: "respawn.threshold", Min: 0, Max: 0.5, Default: 0.25,
				get: func(c *config.Config) float64 { return c.Respawn.Threshold },
				set: func(c *config.Config, v float64) { c.Respawn.Threshold = v }},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg and recomputes
// derived values.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(cfg, v)
	}
	return cfg.Finalize()
}

// ExtractFromConfig extracts current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.get(cfg)
	}
	return v
}

// Format renders values as name=value pairs for the eval log.
func (pv *ParamVector) Format(values []float64) string {
	parts := make([]string, len(pv.Specs))
	for i, spec := range pv.Specs {
		parts[i] = fmt.Sprintf("%s=%.4g", spec.Name, values[i])
	}
	return strings.Join(parts, ";")
}
