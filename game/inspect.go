package game

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/inspector"
	"github.com/pthm-cable/petri/systems"
)

// FoodInfo is a read-only copy of a food agent's state.
type FoodInfo struct {
	Entity ecs.Entity
	Pos    mgl64.Vec2
	Food   components.Food
}

// OrganismInfo is a read-only copy of an organism's state.
type OrganismInfo struct {
	Entity ecs.Entity
	Pos    mgl64.Vec2
	Motion components.Motion
	Org    components.Organism
}

// FoodInfo returns a snapshot of food e, or false if e is not live food.
func (g *Game) FoodInfo(e ecs.Entity) (FoodInfo, bool) {
	if !g.pop.HasFood(e) {
		return FoodInfo{}, false
	}
	pos, f := g.pop.foodMapper.Get(e)
	return FoodInfo{Entity: e, Pos: pos.Vec(), Food: *f}, true
}

// OrganismInfo returns a snapshot of organism e, or false if e is not a live organism.
func (g *Game) OrganismInfo(e ecs.Entity) (OrganismInfo, bool) {
	if !g.pop.HasOrganism(e) {
		return OrganismInfo{}, false
	}
	pos, mot, org := g.pop.orgMapper.Get(e)
	return OrganismInfo{Entity: e, Pos: pos.Vec(), Motion: *mot, Org: *org}, true
}

// Foods returns snapshots of every live food agent.
func (g *Game) Foods() []FoodInfo {
	out := make([]FoodInfo, 0, g.pop.FoodCount())
	query := g.pop.foodFilter.Query()
	for query.Next() {
		pos, f := query.Get()
		out = append(out, FoodInfo{Entity: query.Entity(), Pos: pos.Vec(), Food: *f})
	}
	return out
}

// Organisms returns snapshots of every live organism.
func (g *Game) Organisms() []OrganismInfo {
	out := make([]OrganismInfo, 0, g.pop.OrganismCount())
	query := g.pop.orgFilter.Query()
	for query.Next() {
		pos, mot, org := query.Get()
		out = append(out, OrganismInfo{Entity: query.Entity(), Pos: pos.Vec(), Motion: *mot, Org: *org})
	}
	return out
}

// EntityAt returns the agent under p. Organisms within their body radius
// take precedence over food.
func (g *Game) EntityAt(p mgl64.Vec2) (ecs.Entity, bool) {
	if g.gridDirty {
		g.rebuildGrid()
	}
	if e, ok := g.grid.Nearest(p, g.params.BodyRadius, g.pop.posMap); ok && g.pop.HasOrganism(e) {
		return e, true
	}
	return g.pop.Index().At(p)
}

// Rays returns the sight lines organism e would cast this tick.
func (g *Game) Rays(e ecs.Entity) []systems.Ray {
	if !g.pop.HasOrganism(e) {
		return nil
	}
	pos, mot, org := g.pop.orgMapper.Get(e)
	return systems.SensorRays(nil, pos.Vec(), mot.Facing(), org.OrganismPhenotype, g.params.RayOriginOffset)
}

// Inspect writes a text panel describing agent e.
func (g *Game) Inspect(w io.Writer, e ecs.Entity) error {
	if info, ok := g.OrganismInfo(e); ok {
		sections := []inspector.Section{
			inspector.Describe(fmt.Sprintf("Organism %d", e.ID()), &info.Org),
			inspector.Describe("Motion", &info.Motion),
			inspector.Describe("Position", &components.Position{X: info.Pos[0], Y: info.Pos[1]}),
		}
		return inspector.Render(w, sections, map[string]float64{"Energy": info.Org.MaxEnergy})
	}
	if info, ok := g.FoodInfo(e); ok {
		sections := []inspector.Section{
			inspector.Describe(fmt.Sprintf("Food %d", e.ID()), &info.Food),
			inspector.Describe("Position", &components.Position{X: info.Pos[0], Y: info.Pos[1]}),
		}
		return inspector.Render(w, sections, map[string]float64{"Size": info.Food.MaxSize})
	}
	return fmt.Errorf("entity %d is not a live agent", e.ID())
}
