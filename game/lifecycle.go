package game

import (
	"errors"
	"log/slog"

	"github.com/pthm-cable/petri/systems"
)

// SpawnInitial creates the starting food and organisms at uniformly random
// interior positions, then sends one notification per kind.
func (p *Population) SpawnInitial() {
	p.bulk(func() {
		for i := 0; i < p.initialFood; i++ {
			if _, err := p.SpawnFood(p.bounds.RandomInteriorPoint(p.rng)); err != nil {
				slog.Warn("initial food spawn stopped", "spawned", i, "error", err)
				break
			}
		}
		for i := 0; i < p.initialOrganisms; i++ {
			if _, err := p.SpawnOrganism(p.bounds.RandomInteriorPoint(p.rng)); err != nil {
				slog.Warn("initial organism spawn stopped", "spawned", i, "error", err)
				break
			}
		}
	})
	slog.Info("initial population", "food", p.FoodCount(), "organisms", p.OrganismCount())
}

// UpdateRespawn advances the respawn timer and tops food up when it fires.
// Returns the number of food agents spawned.
func (p *Population) UpdateRespawn(dt float64) int {
	if !p.respawn.Enabled || p.respawn.Interval <= 0 {
		return 0
	}
	if !systems.AdvanceTimer(&p.respawnTimer, p.respawn.Interval, dt) {
		return 0
	}
	return p.RespawnFood()
}

// RespawnFood tops food up to the initial count if it has fallen below the
// respawn threshold of the food cap. Returns the number spawned. Once the
// threshold check passes, observers get exactly one FoodCountChanged.
func (p *Population) RespawnFood() int {
	count := p.FoodCount()
	if float64(count) >= float64(p.maxFood)*p.respawn.Threshold {
		return 0
	}

	need := p.initialFood - count
	spawned := 0
	p.bulk(func() {
		for i := 0; i < need; i++ {
			_, err := p.SpawnFood(p.bounds.RandomInteriorPoint(p.rng))
			if errors.Is(err, ErrCapReached) {
				break
			}
			if err != nil {
				slog.Debug("respawn rejected", "error", err)
				continue
			}
			spawned++
		}
		// A passed check always reports, even if every spawn was rejected
		p.observers.notify(FoodCountChanged, p.FoodCount)
	})

	slog.Debug("food_respawn", "before", count, "spawned", spawned, "food", p.FoodCount())
	return spawned
}
