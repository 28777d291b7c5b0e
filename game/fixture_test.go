package game

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/config"
)

// testConfig returns the default config with an empty, respawn-free world,
// after applying edit.
func testConfig(t *testing.T, edit func(c *config.Config)) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Population.InitialFood = 0
	cfg.Population.InitialOrganisms = 0
	cfg.Respawn.Enabled = false
	if edit != nil {
		edit(cfg)
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalizing config: %v", err)
	}
	return cfg
}

// noOrganismMutation zeroes every organism mutation range.
func noOrganismMutation(c *config.Config) {
	m := &c.Mutation.Organism
	for _, r := range []*config.MutationRange{&m.BaseSpeed, &m.MaxEnergy, &m.MetabolicRate, &m.SightRange, &m.NumberOfRays, &m.AngleBetweenRays} {
		r.Range = 0
	}
}

func newTestGame(t *testing.T, cfg *config.Config) *Game {
	t.Helper()
	g, err := New(cfg, Options{Seed: 1, RunID: "test"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		if err := g.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return g
}

func mustSpawnFood(t *testing.T, g *Game, x, y, size float64) ecs.Entity {
	t.Helper()
	e, err := g.pop.SpawnFood(mgl64.Vec2{x, y})
	if err != nil {
		t.Fatalf("SpawnFood(%v, %v): %v", x, y, err)
	}
	g.pop.foodMap.Get(e).SetSize(size)
	return e
}

func mustSpawnOrganism(t *testing.T, g *Game, x, y, energy float64) ecs.Entity {
	t.Helper()
	e, err := g.pop.SpawnOrganism(mgl64.Vec2{x, y})
	if err != nil {
		t.Fatalf("SpawnOrganism(%v, %v): %v", x, y, err)
	}
	g.pop.orgMap.Get(e).SetEnergy(energy)
	return e
}

// eventLog records observer notifications.
type eventLog struct {
	events []Event
}

func (l *eventLog) observe(ev Event) { l.events = append(l.events, ev) }

func (l *eventLog) count(kind EventKind) int {
	n := 0
	for _, ev := range l.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func (l *eventLog) last(kind EventKind) (Event, bool) {
	for i := len(l.events) - 1; i >= 0; i-- {
		if l.events[i].Kind == kind {
			return l.events[i], true
		}
	}
	return Event{}, false
}
