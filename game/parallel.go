package game

import (
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/systems"
	"github.com/pthm-cable/petri/traits"
)

// parallelThreshold is the minimum number of sensing organisms to use the
// worker pool. Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// senseSnapshot captures the read-only state one organism needs to sense.
type senseSnapshot struct {
	Entity    ecs.Entity
	Pos       mgl64.Vec2
	Facing    mgl64.Vec2
	Phenotype traits.OrganismPhenotype
}

// workChunk represents a range of snapshots for a worker to process.
type workChunk struct {
	start, end int
}

// parallelState holds the worker pool for sensing.
type parallelState struct {
	snapshots  []senseSnapshot
	results    []systems.SenseResult
	numWorkers int

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newParallelState() *parallelState {
	return &parallelState{
		numWorkers: runtime.GOMAXPROCS(0),
		snapshots:  make([]senseSnapshot, 0, 256),
		results:    make([]systems.SenseResult, 0, 256),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(foods *systems.FoodIndex, originOffset float64) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(foods, originOffset)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *parallelState) worker(foods *systems.FoodIndex, originOffset float64) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.computeChunk(chunk.start, chunk.end, foods, originOffset)
			p.doneChan <- struct{}{}
		}
	}
}

// computeChunk senses for a range of snapshots. Only reads shared state.
func (p *parallelState) computeChunk(i0, i1 int, foods *systems.FoodIndex, originOffset float64) {
	for i := i0; i < i1; i++ {
		s := &p.snapshots[i]
		p.results[i] = systems.Sense(s.Pos, s.Facing, s.Phenotype, originOffset, foods)
	}
}

// computeParallel dispatches the snapshots to the worker pool and waits.
func (p *parallelState) computeParallel(foods *systems.FoodIndex, originOffset float64) {
	if !p.running {
		p.startWorkers(foods, originOffset)
	}

	n := len(p.snapshots)
	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	dispatched := 0
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		p.workChan <- workChunk{start: start, end: end}
		dispatched++
	}
	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}

// updateSensing casts rays for every hungry organism without a live target.
// Snapshots are built single-threaded, rays are cast in parallel above
// parallelThreshold, and results are applied in snapshot order.
func (g *Game) updateSensing() {
	ps := g.parallel
	ps.snapshots = ps.snapshots[:0]

	query := g.pop.orgFilter.Query()
	for query.Next() {
		pos, mot, org := query.Get()

		// Stale target: the food was removed since it was picked
		if org.HasTarget() && !g.pop.HasFood(org.Target) {
			org.ClearTarget()
		}
		if !org.Hungry || org.Eating || org.HasTarget() || org.NumberOfRays < 1 {
			continue
		}

		ps.snapshots = append(ps.snapshots, senseSnapshot{
			Entity:    query.Entity(),
			Pos:       pos.Vec(),
			Facing:    mot.Facing(),
			Phenotype: org.OrganismPhenotype,
		})
	}

	n := len(ps.snapshots)
	if n == 0 {
		return
	}
	if cap(ps.results) < n {
		ps.results = make([]systems.SenseResult, n)
	}
	ps.results = ps.results[:n]

	foods := g.pop.Index()
	if n < parallelThreshold {
		ps.computeChunk(0, n, foods, g.params.RayOriginOffset)
	} else {
		ps.computeParallel(foods, g.params.RayOriginOffset)
	}

	for i, s := range ps.snapshots {
		res := ps.results[i]
		if !res.Found {
			continue
		}
		org := g.pop.orgMap.Get(s.Entity)
		mot := g.pop.motMap.Get(s.Entity)
		org.Target = res.Target
		mot.Direction = res.Facing
	}
}
