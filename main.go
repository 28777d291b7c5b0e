package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output window stats and perf via slog")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = run until interrupted)")
	worldPreset := flag.String("world-preset", "", "World size preset: small, medium, large")
	dumpConfig := flag.Bool("dump-config", false, "Print the effective config as YAML and exit")
	inspect := flag.Bool("inspect", false, "Print the highest-generation organism at exit")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level %q: %v\n", *logLevel, err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *worldPreset != "" {
		cfg.World.Preset = *worldPreset
		if err := cfg.Finalize(); err != nil {
			slog.Error("invalid world preset", "error", err)
			os.Exit(1)
		}
	}

	if *dumpConfig {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			slog.Error("failed to encode config", "error", err)
			os.Exit(1)
		}
		return
	}

	for _, w := range cfg.Validate() {
		slog.Warn("config warning", "warning", w)
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	g, err := game.New(cfg, game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
	})
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting simulation",
		"run_id", g.RunID(),
		"seed", rngSeed,
		"world", fmt.Sprintf("%gx%g", cfg.Derived.WorldWidth, cfg.Derived.WorldHeight),
		"max_food", cfg.Derived.MaxFood,
		"max_organisms", cfg.Derived.MaxOrganisms,
		"max_ticks", *maxTicks,
	)

	start := time.Now()
	runErr := g.Run(ctx, int32(*maxTicks))
	if runErr != nil {
		slog.Info("simulation interrupted", "tick", g.Tick(), "reason", runErr)
	}

	if *inspect {
		inspectFittest(g)
	}

	printSummary(g, time.Since(start))

	if err := g.Close(); err != nil {
		slog.Error("failed to write run output", "error", err)
		os.Exit(1)
	}
	if dir := g.OutputDir(); dir != "" {
		abs, _ := filepath.Abs(dir)
		fmt.Printf("Output written to %s\n", abs)
	}
}

// printSummary prints a human-readable end-of-run report.
func printSummary(g *game.Game, wall time.Duration) {
	s := g.Summary()
	fmt.Printf("\nRun %s finished after %s ticks (%s simulated, %s wall)\n",
		s.RunID, humanize.Comma(int64(s.Ticks)),
		(time.Duration(s.SimTimeSec * float64(time.Second))).Round(time.Second),
		wall.Round(time.Millisecond))
	fmt.Printf("  food: %s  organisms: %s\n", humanize.Comma(int64(s.FoodCount)), humanize.Comma(int64(s.OrganismCount)))
	fmt.Printf("  births: %s  deaths: %s  sprouts: %s  max generation: %d\n",
		humanize.Comma(int64(s.TotalBirths)), humanize.Comma(int64(s.TotalDeaths)),
		humanize.Comma(int64(s.TotalSprouts)), s.MaxGeneration)
	if s.ExtinctionTick > 0 {
		fmt.Printf("  organisms went extinct at tick %s\n", humanize.Comma(int64(s.ExtinctionTick)))
	}

	perf := g.Perf()
	if phase, pct := perf.Slowest(); phase != "" {
		fmt.Printf("  %.0f ticks/s, slowest phase: %s (%.0f%%)\n", perf.TicksPerSecond, g.Registry().GetName(phase), pct)
		for _, sys := range g.Registry().All() {
			slog.Debug("phase_timing", "phase", sys.ID, "category", sys.Category,
				"avg", perf.PhaseAvg[sys.ID], "pct", perf.PhasePct[sys.ID])
		}
	}
	if hof := g.HallOfFame(); hof.Size() > 0 {
		fmt.Printf("  hall of fame: %d entries, top fitness %.1f\n", hof.Size(), hof.TopFitness())
	}
}

// inspectFittest prints the inspector panel of the highest-generation organism.
func inspectFittest(g *game.Game) {
	orgs := g.Organisms()
	if len(orgs) == 0 {
		fmt.Println("\nNo organisms left to inspect")
		return
	}
	best := orgs[0]
	for _, o := range orgs[1:] {
		if o.Org.Generation > best.Org.Generation {
			best = o
		}
	}
	fmt.Println()
	if err := g.Inspect(os.Stdout, best.Entity); err != nil {
		slog.Error("inspect failed", "error", err)
	}
}
