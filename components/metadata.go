package components

// FieldDescriptor describes a component field for display and statistics.
type FieldDescriptor struct {
	ID        string  // Unique identifier
	Label     string  // Display name
	Format    string  // Printf format (e.g., "%.2f")
	Min       float64 // Minimum value (for bars)
	Max       float64 // Maximum value (for bars)
	IsBar     bool    // True to render as progress bar
	Heritable bool    // True for phenotype traits subject to mutation
	Group     string  // Logical grouping
}

// FoodFieldDescriptors returns metadata for Food fields.
// Field IDs must match cases in GetFoodValue().
func FoodFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "size", Label: "Size", Format: "%.2f", Min: 0, Max: 5, IsBar: true, Group: "state"},
		{ID: "energy_value", Label: "Energy", Format: "%.1f", Min: 0, Max: 50, IsBar: true, Group: "state"},
		{ID: "seedlings", Label: "Seedlings", Format: "%.0f", Group: "state"},
		{ID: "max_size", Label: "Max Size", Format: "%.2f", Min: 0.1, Max: 5, Heritable: true, Group: "phenotype"},
		{ID: "growth_speed", Label: "Growth", Format: "%.3f", Min: 0.01, Max: 1, Heritable: true, Group: "phenotype"},
		{ID: "sprout_frequency", Label: "Sprout Every", Format: "%.1fs", Min: 1, Max: 30, Heritable: true, Group: "phenotype"},
		{ID: "sprout_distance", Label: "Sprout Dist", Format: "%.2f", Min: 0, Max: 10, Heritable: true, Group: "phenotype"},
	}
}

// OrganismFieldDescriptors returns metadata for Organism fields.
// Field IDs must match cases in GetOrganismValue().
func OrganismFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "energy", Label: "Energy", Format: "%.1f", Min: 0, Max: 1000, IsBar: true, Group: "state"},
		{ID: "energy_fraction", Label: "Energy %", Format: "%.0f%%", Min: 0, Max: 1, IsBar: true, Group: "state"},
		{ID: "generation", Label: "Generation", Format: "%.0f", Group: "state"},
		{ID: "base_speed", Label: "Speed", Format: "%.2f", Min: 0.1, Max: 5, Heritable: true, Group: "phenotype"},
		{ID: "max_energy", Label: "Max Energy", Format: "%.0f", Min: 10, Max: 1000, Heritable: true, Group: "phenotype"},
		{ID: "metabolic_rate", Label: "Metabolism", Format: "%.3f", Min: 0.01, Max: 1, Heritable: true, Group: "phenotype"},
		{ID: "sight_range", Label: "Sight", Format: "%.2f", Min: 0.1, Max: 10, Heritable: true, Group: "phenotype"},
		{ID: "rays", Label: "Rays", Format: "%.0f", Min: 1, Max: 10, Heritable: true, Group: "phenotype"},
		{ID: "ray_angle", Label: "Ray Angle", Format: "%.0f°", Min: 1, Max: 36, Heritable: true, Group: "phenotype"},
	}
}

// HeritableOrganismFields returns only the organism phenotype descriptors.
func HeritableOrganismFields() []FieldDescriptor {
	return heritable(OrganismFieldDescriptors())
}

// HeritableFoodFields returns only the food phenotype descriptors.
func HeritableFoodFields() []FieldDescriptor {
	return heritable(FoodFieldDescriptors())
}

func heritable(all []FieldDescriptor) []FieldDescriptor {
	var out []FieldDescriptor
	for _, d := range all {
		if d.Heritable {
			out = append(out, d)
		}
	}
	return out
}

// GetFoodValue extracts a food field value by ID.
func GetFoodValue(f *Food, fieldID string) float64 {
	switch fieldID {
	case "size":
		return f.Size
	case "energy_value":
		return f.EnergyValue()
	case "seedlings":
		return float64(f.SeedlingsProduced)
	case "max_size":
		return f.MaxSize
	case "growth_speed":
		return f.GrowthSpeed
	case "sprout_frequency":
		return f.SproutFrequency
	case "sprout_distance":
		return f.SproutDistance
	default:
		return 0
	}
}

// GetOrganismValue extracts an organism field value by ID.
func GetOrganismValue(org *Organism, fieldID string) float64 {
	switch fieldID {
	case "energy":
		return org.Energy
	case "energy_fraction":
		return org.EnergyFraction()
	case "generation":
		return float64(org.Generation)
	case "base_speed":
		return org.BaseSpeed
	case "max_energy":
		return org.MaxEnergy
	case "metabolic_rate":
		return org.MetabolicRate
	case "sight_range":
		return org.SightRange
	case "rays":
		return float64(org.NumberOfRays)
	case "ray_angle":
		return float64(org.AngleBetweenRays)
	default:
		return 0
	}
}
