package game

import (
	"errors"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/systems"
)

// birthIntent is a due gestation waiting to be committed.
type birthIntent struct {
	parent ecs.Entity
}

// deathIntent is a starved organism waiting to be removed.
type deathIntent struct {
	entity ecs.Entity
}

// sproutIntent is a mature food whose sprout timer fired.
type sproutIntent struct {
	parent ecs.Entity
}

// updateOrganisms advances eating, metabolism and gestation. Structural
// changes are collected and committed after the query.
func (g *Game) updateOrganisms() {
	g.births = g.births[:0]
	g.deaths = g.deaths[:0]
	g.foodRemovals = g.foodRemovals[:0]

	query := g.pop.orgFilter.Query()
	for query.Next() {
		e := query.Entity()
		_, mot, org := query.Get()

		wasEating := org.Eating
		if food, done := systems.UpdateEating(org, g.dt); done {
			g.foodRemovals = append(g.foodRemovals, food)
			org.Hungry = org.EnergyFraction() < g.params.HungerThreshold
		}

		if !wasEating {
			if systems.UpdateEnergy(org, mot, g.params, g.dt) {
				org.Gestating = false
				org.GestationTimer = 0
				g.deaths = append(g.deaths, deathIntent{entity: e})
				continue
			}
		}

		switch systems.UpdateGestation(org, g.params.GestationPeriod, g.dt) {
		case systems.GestationDue:
			g.births = append(g.births, birthIntent{parent: e})
		case systems.GestationDisarmed:
			slog.Debug("gestation_disarmed", "entity", e.ID())
		}
	}
}

// commitOrganismChanges applies the removals and births collected by
// updateOrganisms, in that order.
func (g *Game) commitOrganismChanges() {
	for _, food := range g.foodRemovals {
		if g.pop.RemoveFood(food) {
			g.collector.RecordFoodConsumed()
		}
	}

	for _, d := range g.deaths {
		if stats := g.lifetimeTracker.Remove(d.entity, g.tick, g.dt); stats != nil {
			g.collector.RecordDeath(stats.SurvivalTimeSec)
			g.hallOfFame.Consider(stats)
		}
		g.pop.RemoveOrganism(d.entity)
		g.totalDeaths++
	}

	for _, b := range g.births {
		g.commitBirth(b.parent)
	}
}

// commitBirth places one offspring behind its parent, subject to the caps
// and the world interior.
func (g *Game) commitBirth(parent ecs.Entity) {
	if !g.pop.HasOrganism(parent) {
		return
	}
	if !g.pop.OrganismRoom() {
		g.collector.RecordBirthSkippedCap()
		slog.Debug("birth_skipped_cap", "parent", parent.ID(), "organisms", g.pop.OrganismCount())
		return
	}

	pos := g.pop.posMap.Get(parent).Vec()
	facing := g.pop.motMap.Get(parent).Facing()
	at := systems.BirthPosition(pos, facing)

	// Past the cap check the parent pays for the attempt, even if the
	// offspring cannot be placed
	org := g.pop.orgMap.Get(parent)
	child, mot := systems.NewOffspring(org, g.mutator, g.cfg.Mutation.Organism, g.params.OffspringEnergy, g.rng)
	systems.SettleParent(org, g.params.OffspringEnergy)

	if !g.bounds.Interior(at) {
		g.collector.RecordBirthOutOfBounds()
		slog.Debug("spawn_rejected", "kind", "organism", "parent", parent.ID(), "x", at[0], "y", at[1])
		return
	}

	e, err := g.pop.spawnOrganism(at, child, mot)
	if err != nil {
		g.logSpawnError("organism", err)
		return
	}

	g.lifetimeTracker.Register(e, g.tick, child.Generation, child.OrganismPhenotype)
	g.lifetimeTracker.RecordChild(parent)
	g.collector.RecordBirth()
	g.totalBirths++
	g.maxGeneration = max(g.maxGeneration, child.Generation)
	slog.Debug("organism_born", "entity", e.ID(), "parent", parent.ID(), "generation", child.Generation)
}

// updateMovement moves every organism that is not eating and applies the
// boundary policy.
func (g *Game) updateMovement() {
	query := g.pop.orgFilter.Query()
	for query.Next() {
		pos, mot, org := query.Get()
		if org.Eating {
			continue
		}
		systems.Move(pos, mot, org.RotationSpeed, g.dt)
		if systems.CheckBoundary(pos, mot, g.bounds, g.params, g.rng) {
			g.collector.RecordBoundaryExit()
		}
	}
}

// rebuildGrid reindexes organism positions for pick queries.
// Only EntityAt needs the grid, so it is rebuilt lazily.
func (g *Game) rebuildGrid() {
	g.grid.Clear()
	query := g.pop.orgFilter.Query()
	for query.Next() {
		pos, _, _ := query.Get()
		g.grid.Insert(query.Entity(), pos.Vec())
	}
	g.gridDirty = false
}

// updateFeeding lets hungry organisms start eating food they overlap.
func (g *Game) updateFeeding() {
	foods := g.pop.Index()

	query := g.pop.orgFilter.Query()
	for query.Next() {
		e := query.Entity()
		pos, _, org := query.Get()

		before := org.Energy
		food, res := systems.TryStartEating(pos.Vec(), org, g.params, foods)
		switch res {
		case systems.EatStarted:
			g.collector.RecordEatStarted()
			g.lifetimeTracker.RecordMeal(e, org.Energy-before)
			g.lifetimeTracker.UpdateEnergy(e, org.Energy)
		case systems.EatAborted:
			if org.Target == food {
				org.ClearTarget()
			}
			g.collector.RecordEatAborted()
			slog.Debug("eat_aborted", "entity", e.ID(), "food", food.ID())
		}
	}
}

// updateFood grows food and collects the ones due to sprout.
func (g *Game) updateFood() {
	g.sprouts = g.sprouts[:0]

	query := g.pop.foodFilter.Query()
	for query.Next() {
		_, f := query.Get()
		if systems.UpdateFood(f, g.dt) {
			g.sprouts = append(g.sprouts, sproutIntent{parent: query.Entity()})
		}
	}
}

// commitSprouts attempts each collected sprout in order.
func (g *Game) commitSprouts() {
	for _, s := range g.sprouts {
		g.commitSprout(s.parent)
	}
}

// commitSprout places a seedling near its parent unless the food cap is
// reached, the spot is crowded, or it lies outside the world interior.
func (g *Game) commitSprout(parent ecs.Entity) {
	if !g.pop.HasFood(parent) {
		return
	}
	if !g.pop.FoodRoom() {
		g.collector.RecordSproutCapped()
		slog.Debug("food_sprout_capped", "parent", parent.ID(), "food", g.pop.FoodCount())
		return
	}

	f := g.pop.foodMap.Get(parent)
	f.SeedlingsProduced++

	origin := g.pop.posMap.Get(parent).Vec()
	at := systems.SproutPosition(origin, f, g.rng)

	if g.pop.Index().AnyOverlapping(at, f.LimitSpawnRadius, parent) {
		g.collector.RecordSproutCrowded()
		return
	}
	if !g.bounds.Interior(at) {
		g.collector.RecordSproutOutOfBounds()
		slog.Debug("spawn_rejected", "kind", "food", "parent", parent.ID(), "x", at[0], "y", at[1])
		return
	}

	p := g.mutator.MutateFood(f.FoodPhenotype, g.cfg.Mutation.Food)
	seedling := components.NewFood(p, g.cfg.Food.SeedlingSize)
	if _, err := g.pop.spawnFood(at, seedling); err != nil {
		g.logSpawnError("food", err)
		return
	}
	g.collector.RecordSprout()
	g.totalSprouts++
}

// logSpawnError reports a rejected spawn. Bounds and cap rejections are
// expected under churn and logged at debug.
func (g *Game) logSpawnError(kind string, err error) {
	if errors.Is(err, ErrOutOfBounds) || errors.Is(err, ErrCapReached) {
		slog.Debug("spawn_rejected", "kind", kind, "error", err)
		return
	}
	slog.Error("spawn failed", "kind", kind, "error", err)
}
