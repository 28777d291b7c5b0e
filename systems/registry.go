package systems

// SystemInfo describes one tick phase for reports.
type SystemInfo struct {
	ID          string // phase name used by the perf collector
	Name        string
	Description string
	Category    string // lifecycle, core, ai, physics, food or internal
}

// tickSystems lists the phases in the order Game.Step runs them.
var tickSystems = []SystemInfo{
	{"organisms", "Organisms", "Eating, gestation and metabolism", "lifecycle"},
	{"commit", "Commit", "Applies deaths, consumed food and births", "core"},
	{"sensing", "Sensing", "Casts sight rays toward food", "ai"},
	{"movement", "Movement", "Moves organisms and handles the world edge", "physics"},
	{"feeding", "Feeding", "Starts eating on contact with food", "lifecycle"},
	{"food", "Food", "Grows food and runs sprout timers", "food"},
	{"sprouts", "Sprouts", "Places seedlings", "food"},
	{"respawn", "Respawn", "Tops up food below the threshold", "food"},
	{"telemetry", "Telemetry", "Flushes window statistics", "internal"},
}

// SystemRegistry maps phase IDs to display metadata, so perf reports and
// the summary name phases the same way.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]int
}

// NewSystemRegistry returns a registry holding every tick phase.
func NewSystemRegistry() *SystemRegistry {
	r := &SystemRegistry{byID: make(map[string]int, len(tickSystems))}
	for _, info := range tickSystems {
		r.Register(info)
	}
	return r
}

// Register appends info, replacing an earlier entry with the same ID.
func (r *SystemRegistry) Register(info SystemInfo) {
	if i, ok := r.byID[info.ID]; ok {
		r.systems[i] = info
		return
	}
	r.byID[info.ID] = len(r.systems)
	r.systems = append(r.systems, info)
}

// Get looks up a phase by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	i, ok := r.byID[id]
	if !ok {
		return SystemInfo{}, false
	}
	return r.systems[i], true
}

// GetName returns the display name for id, or id itself when unknown.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.Get(id); ok {
		return info.Name
	}
	return id
}

// All returns the phases in tick order.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// IDs returns the phase IDs in tick order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
