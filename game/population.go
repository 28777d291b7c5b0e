package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/systems"
	"github.com/pthm-cable/petri/traits"
)

var (
	// ErrOutOfBounds is returned when a spawn position lies outside the world interior.
	ErrOutOfBounds = errors.New("position outside world interior")
	// ErrCapReached is returned when a spawn would exceed a population cap.
	ErrCapReached = errors.New("population cap reached")
)

// Population owns every agent: the ECS world, the membership sets of live
// food and organisms, the food index, the caps and the respawn policy.
// All spawns and removals go through it.
type Population struct {
	world  *ecs.World
	bounds systems.World
	rng    *rand.Rand

	foodMapper *ecs.Map2[components.Position, components.Food]
	orgMapper  *ecs.Map3[components.Position, components.Motion, components.Organism]
	foodFilter *ecs.Filter2[components.Position, components.Food]
	orgFilter  *ecs.Filter3[components.Position, components.Motion, components.Organism]

	posMap  *ecs.Map1[components.Position]
	foodMap *ecs.Map1[components.Food]
	motMap  *ecs.Map1[components.Motion]
	orgMap  *ecs.Map1[components.Organism]

	foods     map[ecs.Entity]struct{}
	organisms map[ecs.Entity]struct{}
	index     *systems.FoodIndex

	maxFood      int
	maxOrganisms int
	maxTotal     int

	initialFood      int
	initialOrganisms int
	foodPhenotype    traits.FoodPhenotype
	orgPhenotype     traits.OrganismPhenotype
	foodSizeMin      float64
	foodSizeMax      float64

	respawn      config.RespawnConfig
	respawnTimer float64

	observers observerList
}

// NewPopulation creates an empty population for the given config.
func NewPopulation(cfg *config.Config, bounds systems.World, rng *rand.Rand) *Population {
	world := ecs.NewWorld()
	foodMap := ecs.NewMap1[components.Food](world)

	return &Population{
		world:  world,
		bounds: bounds,
		rng:    rng,

		foodMapper: ecs.NewMap2[components.Position, components.Food](world),
		orgMapper:  ecs.NewMap3[components.Position, components.Motion, components.Organism](world),
		foodFilter: ecs.NewFilter2[components.Position, components.Food](world),
		orgFilter:  ecs.NewFilter3[components.Position, components.Motion, components.Organism](world),

		posMap:  ecs.NewMap1[components.Position](world),
		foodMap: foodMap,
		motMap:  ecs.NewMap1[components.Motion](world),
		orgMap:  ecs.NewMap1[components.Organism](world),

		foods:     make(map[ecs.Entity]struct{}),
		organisms: make(map[ecs.Entity]struct{}),
		index:     systems.NewFoodIndex(foodMap, cfg.Derived.MaxFoodRadius),

		maxFood:      cfg.Derived.MaxFood,
		maxOrganisms: cfg.Derived.MaxOrganisms,
		maxTotal:     cfg.Population.MaxTotalEntities,

		initialFood:      cfg.Population.InitialFood,
		initialOrganisms: cfg.Population.InitialOrganisms,
		foodPhenotype:    traits.InitialFoodPhenotype(cfg.Food),
		orgPhenotype:     traits.InitialOrganismPhenotype(cfg.Organism),
		foodSizeMin:      cfg.Food.InitialSizeMin,
		foodSizeMax:      cfg.Food.InitialSizeMax,

		respawn:      cfg.Respawn,
		respawnTimer: cfg.Respawn.Interval,
	}
}

// Subscribe registers an observer for count changes and returns a function
// that removes it.
func (p *Population) Subscribe(o Observer) (unsubscribe func()) {
	return p.observers.subscribe(o)
}

// FoodCount returns the number of live food agents.
func (p *Population) FoodCount() int { return len(p.foods) }

// OrganismCount returns the number of live organisms.
func (p *Population) OrganismCount() int { return len(p.organisms) }

// TotalCount returns the number of live agents of both kinds.
func (p *Population) TotalCount() int { return len(p.foods) + len(p.organisms) }

// HasFood reports whether e is a live, registered food agent.
func (p *Population) HasFood(e ecs.Entity) bool {
	_, ok := p.foods[e]
	return ok && p.world.Alive(e)
}

// HasOrganism reports whether e is a live, registered organism.
func (p *Population) HasOrganism(e ecs.Entity) bool {
	_, ok := p.organisms[e]
	return ok && p.world.Alive(e)
}

// FoodRoom reports whether one more food agent fits under the caps.
func (p *Population) FoodRoom() bool {
	return p.FoodCount() < p.maxFood && p.TotalCount() < p.maxTotal
}

// OrganismRoom reports whether one more organism fits under the caps.
func (p *Population) OrganismRoom() bool {
	return p.OrganismCount() < p.maxOrganisms && p.TotalCount() < p.maxTotal
}

// Index returns the food spatial index.
func (p *Population) Index() *systems.FoodIndex { return p.index }

// SpawnFood creates a food agent with the initial phenotype and a random
// initial size at pos.
func (p *Population) SpawnFood(pos mgl64.Vec2) (ecs.Entity, error) {
	size := p.foodSizeMin + p.rng.Float64()*(p.foodSizeMax-p.foodSizeMin)
	return p.spawnFood(pos, components.NewFood(p.foodPhenotype, size))
}

// SpawnOrganism creates a generation-0 organism with the initial phenotype,
// energy uniform in [max/2, max] and a random direction at pos.
func (p *Population) SpawnOrganism(pos mgl64.Vec2) (ecs.Entity, error) {
	full := p.orgPhenotype.MaxEnergy
	energy := full/2 + p.rng.Float64()*full/2
	org := components.NewOrganism(p.orgPhenotype, energy, 0)
	mot := systems.NewMotion(p.orgPhenotype, p.rng)
	return p.spawnOrganism(pos, org, mot)
}

func (p *Population) spawnFood(pos mgl64.Vec2, food components.Food) (ecs.Entity, error) {
	if !p.bounds.Interior(pos) {
		return ecs.Entity{}, fmt.Errorf("spawning food at (%.2f, %.2f): %w", pos[0], pos[1], ErrOutOfBounds)
	}
	if !p.FoodRoom() {
		return ecs.Entity{}, fmt.Errorf("spawning food: %w", ErrCapReached)
	}
	position := components.Position{X: pos[0], Y: pos[1]}
	e := p.foodMapper.NewEntity(&position, &food)
	p.AddFood(e)
	return e, nil
}

func (p *Population) spawnOrganism(pos mgl64.Vec2, org components.Organism, mot components.Motion) (ecs.Entity, error) {
	if !p.bounds.Interior(pos) {
		return ecs.Entity{}, fmt.Errorf("spawning organism at (%.2f, %.2f): %w", pos[0], pos[1], ErrOutOfBounds)
	}
	if !p.OrganismRoom() {
		return ecs.Entity{}, fmt.Errorf("spawning organism: %w", ErrCapReached)
	}
	position := components.Position{X: pos[0], Y: pos[1]}
	e := p.orgMapper.NewEntity(&position, &mot, &org)
	p.AddOrganism(e)
	return e, nil
}

// AddFood registers an existing food entity. Returns false if it is already
// registered or is not a live food entity.
func (p *Population) AddFood(e ecs.Entity) bool {
	if _, ok := p.foods[e]; ok {
		slog.Debug("duplicate food add", "entity", e.ID())
		return false
	}
	if !p.world.Alive(e) || !p.foodMapper.HasAll(e) {
		slog.Debug("food add rejected", "entity", e.ID())
		return false
	}
	p.foods[e] = struct{}{}
	p.index.Insert(e, p.posMap.Get(e).Vec())
	p.observers.notify(FoodCountChanged, p.FoodCount)
	return true
}

// RemoveFood destroys a registered food entity. Every handle to it goes
// stale. Returns false if it was not registered.
func (p *Population) RemoveFood(e ecs.Entity) bool {
	if _, ok := p.foods[e]; !ok {
		slog.Debug("duplicate food remove", "entity", e.ID())
		return false
	}
	delete(p.foods, e)
	p.index.Remove(e)
	if p.world.Alive(e) {
		p.world.RemoveEntity(e)
	}
	p.observers.notify(FoodCountChanged, p.FoodCount)
	return true
}

// AddOrganism registers an existing organism entity. Returns false if it is
// already registered or is not a live organism entity.
func (p *Population) AddOrganism(e ecs.Entity) bool {
	if _, ok := p.organisms[e]; ok {
		slog.Debug("duplicate organism add", "entity", e.ID())
		return false
	}
	if !p.world.Alive(e) || !p.orgMapper.HasAll(e) {
		slog.Debug("organism add rejected", "entity", e.ID())
		return false
	}
	p.organisms[e] = struct{}{}
	p.observers.notify(OrganismCountChanged, p.OrganismCount)
	return true
}

// RemoveOrganism destroys a registered organism. Returns false if it was
// not registered.
func (p *Population) RemoveOrganism(e ecs.Entity) bool {
	if _, ok := p.organisms[e]; !ok {
		slog.Debug("duplicate organism remove", "entity", e.ID())
		return false
	}
	delete(p.organisms, e)
	if p.world.Alive(e) {
		p.world.RemoveEntity(e)
	}
	p.observers.notify(OrganismCountChanged, p.OrganismCount)
	return true
}

// bulk runs fn with notifications coalesced into one per changed kind.
func (p *Population) bulk(fn func()) {
	p.observers.beginBulk()
	defer p.observers.endBulk(p.FoodCount, p.OrganismCount)
	fn()
}

// Foods returns the handles of all live food in storage order.
func (p *Population) Foods() []ecs.Entity {
	out := make([]ecs.Entity, 0, len(p.foods))
	query := p.foodFilter.Query()
	for query.Next() {
		if e := query.Entity(); p.HasFood(e) {
			out = append(out, e)
		}
	}
	return out
}

// Organisms returns the handles of all live organisms in storage order.
func (p *Population) Organisms() []ecs.Entity {
	out := make([]ecs.Entity, 0, len(p.organisms))
	query := p.orgFilter.Query()
	for query.Next() {
		if e := query.Entity(); p.HasOrganism(e) {
			out = append(out, e)
		}
	}
	return out
}
