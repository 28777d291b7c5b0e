// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World        WorldConfig        `yaml:"world"`
	Physics      PhysicsConfig      `yaml:"physics"`
	Population   PopulationConfig   `yaml:"population"`
	Respawn      RespawnConfig      `yaml:"respawn"`
	Food         FoodConfig         `yaml:"food"`
	Organism     OrganismConfig     `yaml:"organism"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Mutation     MutationConfig     `yaml:"mutation"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds world geometry.
// A non-empty Preset overrides Width and Height.
type WorldConfig struct {
	Preset      string  `yaml:"preset"` // small, medium, large or empty
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	CenterX     float64 `yaml:"center_x"`
	CenterY     float64 `yaml:"center_y"`
	SpawnMargin float64 `yaml:"spawn_margin"` // Spawns must be this far inside every edge
}

// PhysicsConfig holds timestep and spatial index parameters.
type PhysicsConfig struct {
	DT           float64 `yaml:"dt"`
	GridCellSize float64 `yaml:"grid_cell_size"`
}

// PopulationConfig holds caps and initial counts.
type PopulationConfig struct {
	MaxTotalEntities int     `yaml:"max_total_entities"`
	FoodShare        float64 `yaml:"food_share"`    // Fraction of the entity budget reserved for food
	MaxFood          int     `yaml:"max_food"`      // 0 = derive from food_share
	MaxOrganisms     int     `yaml:"max_organisms"` // 0 = max_total_entities - max_food
	InitialFood      int     `yaml:"initial_food"`
	InitialOrganisms int     `yaml:"initial_organisms"`
}

// RespawnConfig holds the periodic food top-up policy.
type RespawnConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Threshold float64 `yaml:"threshold"` // Fraction of max food below which respawn triggers
	Interval  float64 `yaml:"interval"`  // Seconds between checks
}

// FoodConfig holds the initial food phenotype and growth constants.
type FoodConfig struct {
	MinSize         float64 `yaml:"min_size"`
	MaxSize         float64 `yaml:"max_size"`
	GrowthSpeed     float64 `yaml:"growth_speed"`
	SproutFrequency float64 `yaml:"sprout_frequency"` // Seconds between sprouts once mature
	SproutDistance  float64 `yaml:"sprout_distance"`
	InitialSizeMin  float64 `yaml:"initial_size_min"`
	InitialSizeMax  float64 `yaml:"initial_size_max"`
	SeedlingSize    float64 `yaml:"seedling_size"`
}

// OrganismConfig holds the initial organism phenotype and behavior constants.
type OrganismConfig struct {
	BaseSpeed         float64 `yaml:"base_speed"`
	MaxEnergy         float64 `yaml:"max_energy"`
	MetabolicRate     float64 `yaml:"metabolic_rate"`
	SightRange        float64 `yaml:"sight_range"`
	NumberOfRays      int     `yaml:"number_of_rays"`
	AngleBetweenRays  int     `yaml:"angle_between_rays"` // Degrees
	RotationSpeed     float64 `yaml:"rotation_speed"`
	BodyRadius        float64 `yaml:"body_radius"`
	RayOriginOffset   float64 `yaml:"ray_origin_offset"`
	HungerThreshold   float64 `yaml:"hunger_threshold"`   // Fraction of max energy
	StarvingThreshold float64 `yaml:"starving_threshold"` // Below this fraction speed halves
	EatDuration       float64 `yaml:"eat_duration"`       // Seconds spent handling food
	BoundaryNudge     float64 `yaml:"boundary_nudge"`
	BoundaryJitter    float64 `yaml:"boundary_jitter"` // Weight of the random component when turning back
}

// ReproductionConfig holds gestation parameters.
type ReproductionConfig struct {
	GestationPeriod    float64 `yaml:"gestation_period"`    // Seconds between gestation checks
	PregnancyThreshold float64 `yaml:"pregnancy_threshold"` // Fraction of max energy to become pregnant
	CancelThreshold    float64 `yaml:"cancel_threshold"`    // Pregnancy ends below this fraction
	OffspringEnergy    float64 `yaml:"offspring_energy"`    // Fraction of parent max given to both after birth
}

// MutationRange is a (range, min, max) triple for one trait.
type MutationRange struct {
	Range float64 `yaml:"range"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
}

// FoodMutationConfig holds per-trait mutation ranges for food.
// The sprout distance minimum is always the child's max size.
type FoodMutationConfig struct {
	MaxSize         MutationRange `yaml:"max_size"`
	GrowthSpeed     MutationRange `yaml:"growth_speed"`
	SproutFrequency MutationRange `yaml:"sprout_frequency"`
	SproutDistance  MutationRange `yaml:"sprout_distance"`
}

// OrganismMutationConfig holds per-trait mutation ranges for organisms.
type OrganismMutationConfig struct {
	BaseSpeed        MutationRange `yaml:"base_speed"`
	MaxEnergy        MutationRange `yaml:"max_energy"`
	MetabolicRate    MutationRange `yaml:"metabolic_rate"`
	SightRange       MutationRange `yaml:"sight_range"`
	NumberOfRays     MutationRange `yaml:"number_of_rays"`
	AngleBetweenRays MutationRange `yaml:"angle_between_rays"`
}

// MutationConfig holds mutation parameters.
type MutationConfig struct {
	BigChance float64                `yaml:"big_chance"` // Probability of a large-effect mutation
	BigFactor float64                `yaml:"big_factor"` // Range multiplier for large-effect mutations
	Food      FoodMutationConfig     `yaml:"food"`
	Organism  OrganismMutationConfig `yaml:"organism"`
}

// TelemetryConfig holds stats collection parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds per stats window
	PerfWindow  int     `yaml:"perf_window"`  // Ticks averaged by the perf collector
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	WorldWidth     float64
	WorldHeight    float64
	MaxFood        int
	MaxOrganisms   int
	TicksPerSecond float64
	MaxFoodRadius  float64 // Largest collider radius any food can reach
}

// Presets maps world size preset names to edge length.
var Presets = map[string]float64{
	"small":  50,
	"medium": 100,
	"large":  200,
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize recomputes derived values and rejects structurally broken configs.
// Call it again after changing fields programmatically.
func (c *Config) Finalize() error {
	if c.World.Preset != "" {
		if _, ok := Presets[c.World.Preset]; !ok {
			return fmt.Errorf("unknown world preset %q", c.World.Preset)
		}
	}
	c.computeDerived()

	if c.Derived.WorldWidth <= 0 || c.Derived.WorldHeight <= 0 {
		return fmt.Errorf("world size must be positive, got %vx%v", c.Derived.WorldWidth, c.Derived.WorldHeight)
	}
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	if c.Physics.GridCellSize <= 0 {
		return fmt.Errorf("physics.grid_cell_size must be positive, got %v", c.Physics.GridCellSize)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.WorldWidth = c.World.Width
	c.Derived.WorldHeight = c.World.Height
	if size, ok := Presets[c.World.Preset]; ok {
		c.Derived.WorldWidth = size
		c.Derived.WorldHeight = size
	}

	maxFood := c.Population.MaxFood
	if maxFood == 0 {
		maxFood = int(math.Round(float64(c.Population.MaxTotalEntities) * c.Population.FoodShare))
	}
	maxOrganisms := c.Population.MaxOrganisms
	if maxOrganisms == 0 {
		maxOrganisms = c.Population.MaxTotalEntities - maxFood
	}
	c.Derived.MaxFood = max(maxFood, 0)
	c.Derived.MaxOrganisms = max(maxOrganisms, 0)

	if c.Physics.DT > 0 {
		c.Derived.TicksPerSecond = 1 / c.Physics.DT
	}

	// Seedlings can never outgrow the mutation ceiling, nor the initial phenotype
	c.Derived.MaxFoodRadius = math.Max(c.Mutation.Food.MaxSize.Max, c.Food.MaxSize) / 2
}

// Validate reports parameters that are legal but make agents stagnate.
// The simulation runs regardless; callers log the returned warnings.
func (c *Config) Validate() []string {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	if c.Food.GrowthSpeed <= 0 {
		warn("food.growth_speed is %v: food will never mature", c.Food.GrowthSpeed)
	}
	if c.Food.SproutFrequency <= 0 {
		warn("food.sprout_frequency is %v: mature food will never sprout", c.Food.SproutFrequency)
	}
	if c.Food.MinSize > c.Food.MaxSize {
		warn("food.min_size %v exceeds food.max_size %v", c.Food.MinSize, c.Food.MaxSize)
	}
	if c.Organism.BaseSpeed <= 0 {
		warn("organism.base_speed is %v: organisms will not move", c.Organism.BaseSpeed)
	}
	if c.Organism.MaxEnergy <= 0 {
		warn("organism.max_energy is %v: organisms starve on spawn", c.Organism.MaxEnergy)
	}
	if c.Organism.MetabolicRate < 0 {
		warn("organism.metabolic_rate is negative (%v)", c.Organism.MetabolicRate)
	}
	if c.Organism.NumberOfRays < 1 {
		warn("organism.number_of_rays is %d: organisms are blind", c.Organism.NumberOfRays)
	}
	if c.Reproduction.GestationPeriod <= 0 {
		warn("reproduction.gestation_period is %v: organisms never give birth", c.Reproduction.GestationPeriod)
	}
	if c.Respawn.Threshold < 0 || c.Respawn.Threshold > 1 {
		warn("respawn.threshold %v outside [0, 1]", c.Respawn.Threshold)
	}
	if c.Respawn.Enabled && c.Respawn.Interval <= 0 {
		warn("respawn.interval is %v: respawn never runs", c.Respawn.Interval)
	}
	if c.Population.InitialFood > c.Derived.MaxFood {
		warn("population.initial_food %d exceeds max food %d", c.Population.InitialFood, c.Derived.MaxFood)
	}
	if c.Population.InitialOrganisms > c.Derived.MaxOrganisms {
		warn("population.initial_organisms %d exceeds max organisms %d", c.Population.InitialOrganisms, c.Derived.MaxOrganisms)
	}
	if c.Derived.MaxFood+c.Derived.MaxOrganisms > c.Population.MaxTotalEntities {
		warn("max food %d + max organisms %d exceed max_total_entities %d",
			c.Derived.MaxFood, c.Derived.MaxOrganisms, c.Population.MaxTotalEntities)
	}

	return warnings
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
