package systems

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/components"
)

// pointTol is the half-extent of the degenerate rect stored for each food.
const pointTol = 0.005

// foodEntry is the R-tree item for one food. Food never moves, so its bounds
// are fixed at insertion; size changes are covered by the query margin.
type foodEntry struct {
	e    ecs.Entity
	pos  mgl64.Vec2
	rect rtreego.Rect
}

func (f *foodEntry) Bounds() rtreego.Rect {
	return f.rect
}

// FoodIndex is an R-tree over food positions used for every food geometry
// query: crowding checks, ray broad phase, feeding overlap and picking.
type FoodIndex struct {
	tree    *rtreego.Rtree
	entries map[ecs.Entity]*foodEntry
	foodMap *ecs.Map1[components.Food]
	margin  float64 // Largest food radius; pads every broad-phase query
}

// NewFoodIndex creates an empty index. maxRadius must bound the collider
// radius of every food that will ever be inserted.
func NewFoodIndex(foodMap *ecs.Map1[components.Food], maxRadius float64) *FoodIndex {
	return &FoodIndex{
		tree:    rtreego.NewTree(2, 25, 50),
		entries: make(map[ecs.Entity]*foodEntry),
		foodMap: foodMap,
		margin:  maxRadius,
	}
}

// Insert adds a food at pos. Inserting a handle twice is a no-op.
func (ix *FoodIndex) Insert(e ecs.Entity, pos mgl64.Vec2) {
	if _, ok := ix.entries[e]; ok {
		return
	}
	rect, err := rtreego.NewRect(rtreego.Point{pos[0] - pointTol, pos[1] - pointTol}, []float64{2 * pointTol, 2 * pointTol})
	if err != nil {
		// Only possible with non-positive lengths
		panic(err)
	}
	entry := &foodEntry{e: e, pos: pos, rect: rect}
	ix.entries[e] = entry
	ix.tree.Insert(entry)
}

// Remove drops a food from the index. Returns false if it was not indexed.
func (ix *FoodIndex) Remove(e ecs.Entity) bool {
	entry, ok := ix.entries[e]
	if !ok {
		return false
	}
	delete(ix.entries, e)
	return ix.tree.Delete(entry)
}

// Len returns the number of indexed foods.
func (ix *FoodIndex) Len() int {
	return len(ix.entries)
}

// Position returns the indexed position of a food.
func (ix *FoodIndex) Position(e ecs.Entity) (mgl64.Vec2, bool) {
	entry, ok := ix.entries[e]
	if !ok {
		return mgl64.Vec2{}, false
	}
	return entry.pos, true
}

// Food returns the food component for an indexed handle, or nil.
func (ix *FoodIndex) Food(e ecs.Entity) *components.Food {
	if _, ok := ix.entries[e]; !ok {
		return nil
	}
	return ix.foodMap.Get(e)
}

// candidates returns every entry whose position lies in the box
// [lo-margin, hi+margin].
func (ix *FoodIndex) candidates(lo, hi mgl64.Vec2) []rtreego.Spatial {
	m := ix.margin + pointTol
	w := math.Max(hi[0]-lo[0]+2*m, 2*pointTol)
	h := math.Max(hi[1]-lo[1]+2*m, 2*pointTol)
	box, err := rtreego.NewRect(rtreego.Point{lo[0] - m, lo[1] - m}, []float64{w, h})
	if err != nil {
		return nil
	}
	return ix.tree.SearchIntersect(box)
}

// AnyOverlapping reports whether any food other than exclude has a collider
// overlapping the circle (center, radius).
func (ix *FoodIndex) AnyOverlapping(center mgl64.Vec2, radius float64, exclude ecs.Entity) bool {
	r := mgl64.Vec2{radius, radius}
	for _, s := range ix.candidates(center.Sub(r), center.Add(r)) {
		entry := s.(*foodEntry)
		if entry.e == exclude {
			continue
		}
		f := ix.foodMap.Get(entry.e)
		if f == nil {
			continue
		}
		if circlesOverlap(center, radius, entry.pos, f.Radius()) {
			return true
		}
	}
	return false
}

// NearestOverlapping returns the food whose collider overlaps the circle
// (center, radius) with the closest center.
func (ix *FoodIndex) NearestOverlapping(center mgl64.Vec2, radius float64) (ecs.Entity, bool) {
	r := mgl64.Vec2{radius, radius}
	var best ecs.Entity
	bestDist := math.Inf(1)
	for _, s := range ix.candidates(center.Sub(r), center.Add(r)) {
		entry := s.(*foodEntry)
		f := ix.foodMap.Get(entry.e)
		if f == nil || !circlesOverlap(center, radius, entry.pos, f.Radius()) {
			continue
		}
		if d := distanceSq(center, entry.pos); d < bestDist {
			best, bestDist = entry.e, d
		}
	}
	return best, !best.IsZero()
}

// NearestFreeOverlapping is NearestOverlapping restricted to food that is not
// being eaten. taken reports whether any overlapping food was passed over
// because another organism holds it.
func (ix *FoodIndex) NearestFreeOverlapping(center mgl64.Vec2, radius float64) (free, taken ecs.Entity, ok bool) {
	r := mgl64.Vec2{radius, radius}
	bestFree, bestTaken := math.Inf(1), math.Inf(1)
	for _, s := range ix.candidates(center.Sub(r), center.Add(r)) {
		entry := s.(*foodEntry)
		f := ix.foodMap.Get(entry.e)
		if f == nil || !circlesOverlap(center, radius, entry.pos, f.Radius()) {
			continue
		}
		d := distanceSq(center, entry.pos)
		if f.BeingEaten {
			if d < bestTaken {
				taken, bestTaken = entry.e, d
			}
			continue
		}
		if d < bestFree {
			free, bestFree = entry.e, d
		}
	}
	return free, taken, !free.IsZero()
}

// At returns the food whose collider contains p.
func (ix *FoodIndex) At(p mgl64.Vec2) (ecs.Entity, bool) {
	return ix.NearestOverlapping(p, 0)
}

// Raycast returns the first food collider hit by the segment from origin
// along the unit vector dir, and the distance to the hit.
// Safe for concurrent use while no food is inserted or removed.
func (ix *FoodIndex) Raycast(origin, dir mgl64.Vec2, length float64) (ecs.Entity, float64, bool) {
	end := origin.Add(dir.Mul(length))
	lo := mgl64.Vec2{math.Min(origin[0], end[0]), math.Min(origin[1], end[1])}
	hi := mgl64.Vec2{math.Max(origin[0], end[0]), math.Max(origin[1], end[1])}

	var best ecs.Entity
	bestDist := math.Inf(1)
	for _, s := range ix.candidates(lo, hi) {
		entry := s.(*foodEntry)
		f := ix.foodMap.Get(entry.e)
		if f == nil {
			continue
		}
		t, ok := raycastCircle(origin, dir, length, entry.pos, f.Radius())
		if !ok {
			continue
		}
		// Ties resolve to the closer center so results do not depend on tree order
		if t < bestDist || (t == bestDist && distanceSq(origin, entry.pos) < distanceSq(origin, ix.entries[best].pos)) {
			best, bestDist = entry.e, t
		}
	}
	if best.IsZero() {
		return ecs.Entity{}, 0, false
	}
	return best, bestDist, true
}
