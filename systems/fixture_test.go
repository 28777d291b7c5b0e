package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/traits"
)

// foodFixture is a minimal ECS world holding food indexed for queries.
type foodFixture struct {
	world  *ecs.World
	mapper *ecs.Map2[components.Position, components.Food]
	foods  *ecs.Map1[components.Food]
	index  *FoodIndex
}

func newFoodFixture() *foodFixture {
	world := ecs.NewWorld()
	foods := ecs.NewMap1[components.Food](world)
	return &foodFixture{
		world:  world,
		mapper: ecs.NewMap2[components.Position, components.Food](world),
		foods:  foods,
		index:  NewFoodIndex(foods, 2.5),
	}
}

func testFood(size float64) components.Food {
	p := traits.FoodPhenotype{MinSize: 0.1, MaxSize: 5, GrowthSpeed: 0.05, SproutFrequency: 10, SproutDistance: 3, LimitSpawnRadius: 0.5}
	return components.NewFood(p, size)
}

func (fx *foodFixture) add(x, y, size float64) ecs.Entity {
	pos := components.Position{X: x, Y: y}
	f := testFood(size)
	e := fx.mapper.NewEntity(&pos, &f)
	fx.index.Insert(e, pos.Vec())
	return e
}

func testOrganismPhenotype() traits.OrganismPhenotype {
	return traits.OrganismPhenotype{
		BaseSpeed:        1,
		MaxEnergy:        100,
		MetabolicRate:    0.05,
		SightRange:       3,
		NumberOfRays:     3,
		AngleBetweenRays: 10,
		RotationSpeed:    5,
	}
}

func testParams() OrganismParams {
	return OrganismParams{
		BodyRadius:         0.5,
		RayOriginOffset:    1,
		HungerThreshold:    0.8,
		StarvingThreshold:  0.25,
		EatDuration:        5,
		BoundaryNudge:      0.5,
		BoundaryJitter:     0.5,
		GestationPeriod:    10,
		PregnancyThreshold: 0.8,
		CancelThreshold:    0.75,
		OffspringEnergy:    0.75,
	}
}

func testWorld() World {
	return World{Center: mgl64.Vec2{0, 0}, Width: 100, Height: 100, Margin: 1}
}
