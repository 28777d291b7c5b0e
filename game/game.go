package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/systems"
	"github.com/pthm-cable/petri/telemetry"
	"github.com/pthm-cable/petri/traits"
)

// hallOfFameSize is the number of organisms kept in the hall of fame.
const hallOfFameSize = 20

// Options configures a simulation run.
type Options struct {
	Seed           int64
	RunID          string  // empty = random uuid
	LogStats       bool    // log window stats and perf via slog
	StatsWindowSec float64 // 0 = use config
	OutputDir      string  // empty = no file output

	// StatsCallback is called with each flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Game drives the simulation at a fixed timestep.
type Game struct {
	cfg     *config.Config
	rng     *rand.Rand
	seed    int64
	runID   string
	dt      float64
	bounds  systems.World
	params  systems.OrganismParams
	mutator *traits.Mutator

	pop       *Population
	grid      *systems.SpatialGrid // organism pick index, rebuilt on demand
	gridDirty bool

	tick int32

	// Per-tick intents, reused between ticks
	births       []birthIntent
	deaths       []deathIntent
	foodRemovals []ecs.Entity
	sprouts      []sproutIntent

	parallel *parallelState

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	lifetimeTracker  *telemetry.LifetimeTracker
	hallOfFame       *telemetry.HallOfFame
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	logStats         bool
	registry         *systems.SystemRegistry

	// Run totals
	totalBirths    int
	totalDeaths    int
	totalSprouts   int
	maxGeneration  int
	extinctionTick int32
	interrupted    bool
}

// New builds a world and population from cfg and spawns the initial agents.
// cfg is used as-is; callers that tune parameters should pass a clone.
func New(cfg *config.Config, opts Options) (*Game, error) {
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	bounds := systems.NewWorld(cfg)

	g := &Game{
		cfg:     cfg,
		rng:     rng,
		seed:    opts.Seed,
		runID:   runID,
		dt:      cfg.Physics.DT,
		bounds:  bounds,
		params:  systems.NewOrganismParams(cfg),
		mutator: traits.NewMutatorFromConfig(rng, cfg.Mutation),
		pop:     NewPopulation(cfg, bounds, rng),
		grid:    systems.NewSpatialGrid(bounds, cfg.Physics.GridCellSize),

		parallel: newParallelState(),

		collector:        telemetry.NewCollector(runID, statsWindow, cfg.Physics.DT),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		lifetimeTracker:  telemetry.NewLifetimeTracker(),
		hallOfFame:       telemetry.NewHallOfFame(hallOfFameSize),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		statsCallback:    opts.StatsCallback,
		logStats:         opts.LogStats,
		registry:         systems.NewSystemRegistry(),
		extinctionTick:   -1,
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	g.pop.SpawnInitial()
	for _, e := range g.pop.Organisms() {
		org := g.pop.orgMap.Get(e)
		g.lifetimeTracker.Register(e, 0, org.Generation, org.OrganismPhenotype)
	}
	g.gridDirty = true
	g.pop.Subscribe(func(ev Event) {
		if ev.Kind == OrganismCountChanged {
			g.gridDirty = true
		}
	})

	return g, nil
}

// Step advances the simulation by one tick.
func (g *Game) Step() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseOrganisms)
	g.updateOrganisms()

	g.perfCollector.StartPhase(telemetry.PhaseCommit)
	g.commitOrganismChanges()

	g.perfCollector.StartPhase(telemetry.PhaseSensing)
	g.updateSensing()

	g.perfCollector.StartPhase(telemetry.PhaseMovement)
	g.updateMovement()
	g.gridDirty = true

	g.perfCollector.StartPhase(telemetry.PhaseFeeding)
	g.updateFeeding()

	g.perfCollector.StartPhase(telemetry.PhaseFood)
	g.updateFood()

	g.perfCollector.StartPhase(telemetry.PhaseSprouts)
	g.commitSprouts()

	g.perfCollector.StartPhase(telemetry.PhaseRespawn)
	if n := g.pop.UpdateRespawn(g.dt); n > 0 {
		g.collector.RecordRespawn(n)
		slog.Info("food_respawn", "tick", g.tick, "spawned", n, "food", g.pop.FoodCount())
	}

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.trackExtinction()
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// Run steps until maxTicks is reached (0 = unlimited) or ctx is cancelled.
// Cancellation is checked between ticks and reported as ctx.Err().
func (g *Game) Run(ctx context.Context, maxTicks int32) error {
	start := time.Now()
	startTick := g.tick
	defer func() {
		slog.Debug("run finished", "ticks", g.tick-startTick, "elapsed", time.Since(start))
	}()

	for maxTicks <= 0 || g.tick < maxTicks {
		if err := ctx.Err(); err != nil {
			g.interrupted = true
			return err
		}
		g.Step()
	}
	return nil
}

// Close stops worker goroutines, writes end-of-run artifacts and closes output files.
func (g *Game) Close() error {
	g.parallel.stopWorkers()

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	keep(g.outputManager.WriteHallOfFame(g.hallOfFame))
	keep(g.outputManager.WriteSummary(g.Summary()))
	keep(g.outputManager.Close())
	return firstErr
}

// trackExtinction records the first tick with no organisms left.
func (g *Game) trackExtinction() {
	if g.extinctionTick < 0 && g.pop.OrganismCount() == 0 {
		g.extinctionTick = g.tick
		slog.Info("organisms_extinct", "tick", g.tick, "sim_time", float64(g.tick)*g.dt)
	}
}

// Summary reports run totals so far.
func (g *Game) Summary() telemetry.RunSummary {
	s := telemetry.RunSummary{
		RunID:            g.runID,
		Seed:             g.seed,
		Ticks:            g.tick,
		SimTimeSec:       float64(g.tick) * g.dt,
		FoodCount:        g.pop.FoodCount(),
		OrganismCount:    g.pop.OrganismCount(),
		TotalBirths:      g.totalBirths,
		TotalDeaths:      g.totalDeaths,
		TotalSprouts:     g.totalSprouts,
		MaxGeneration:    g.maxGeneration,
		StoppedOnContext: g.interrupted,
	}
	if g.extinctionTick >= 0 {
		s.ExtinctionTick = g.extinctionTick
	}
	return s
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 { return g.tick }

// SimTime returns elapsed simulation time in seconds.
func (g *Game) SimTime() float64 { return float64(g.tick) * g.dt }

// RunID returns the identifier stamped on telemetry rows.
func (g *Game) RunID() string { return g.runID }

// World returns the world rectangle.
func (g *Game) World() systems.World { return g.bounds }

// Population returns the population manager.
func (g *Game) Population() *Population { return g.pop }

// Config returns the configuration the game was built with.
func (g *Game) Config() *config.Config { return g.cfg }

// Perf returns aggregated performance statistics.
func (g *Game) Perf() telemetry.PerfStats { return g.perfCollector.Stats() }

// Registry returns the registry describing the tick phases.
func (g *Game) Registry() *systems.SystemRegistry { return g.registry }

// HallOfFame returns the fittest organisms that have died so far.
func (g *Game) HallOfFame() *telemetry.HallOfFame { return g.hallOfFame }

// OutputDir returns the output directory, or "" if output is disabled.
func (g *Game) OutputDir() string { return g.outputManager.Dir() }
