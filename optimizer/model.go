package optimizer

import (
	"sort"
)

// NutrientCalories is the catalog key for calories. The substitute edit uses
// it to scale quantities so a swap stays roughly calorie-neutral.
const NutrientCalories = "calories"

// FoodRecord describes one food with its nutrient profile per catalog unit.
type FoodRecord struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Unit        string             `json:"unit,omitempty"`
	Nutrients   map[string]float64 `json:"nutrients"`
	MinQuantity float64            `json:"min_quantity,omitempty"`
	MaxQuantity float64            `json:"max_quantity,omitempty"` // 0 means unbounded
}

// Catalog is a read-only lookup from food ID to its record. The optimizer
// never mutates it.
type Catalog map[string]FoodRecord

// IDs returns all food IDs in the catalog in sorted order. Sorting keeps
// random draws reproducible for a given seed.
func (c Catalog) IDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NutrientConstraint is a minimum/target/maximum band for one nutrient.
type NutrientConstraint struct {
	Minimum float64 `json:"minimum"`
	Target  float64 `json:"target"`
	Maximum float64 `json:"maximum"`
}

// ConstraintSet maps nutrient names to their constraints. Nutrients absent
// from the set are not optimized and never contribute to fitness.
type ConstraintSet map[string]NutrientConstraint

// Validate reports the first invalid constraint. A constraint is invalid when
// any bound is negative or the bounds are not ordered minimum <= target <= maximum.
func (cs ConstraintSet) Validate() error {
	for _, name := range cs.Nutrients() {
		c := cs[name]
		if c.Minimum < 0 || c.Target < 0 || c.Maximum < 0 {
			return &ConstraintError{Nutrient: name, Constraint: c}
		}
		if c.Minimum > c.Target || c.Target > c.Maximum {
			return &ConstraintError{Nutrient: name, Constraint: c}
		}
	}
	return nil
}

// Nutrients returns the tracked nutrient names in sorted order.
func (cs ConstraintSet) Nutrients() []string {
	names := make([]string, 0, len(cs))
	for name := range cs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Composition maps food IDs to positive quantities in catalog units. Entries
// with quantity <= 0 are treated as absent. Accepted search states are never
// mutated in place; edits build a fresh copy.
type Composition map[string]float64

// Clone returns an independent copy of the composition, dropping any
// non-positive entries.
func (c Composition) Clone() Composition {
	out := make(Composition, len(c))
	for id, qty := range c {
		if qty > 0 {
			out[id] = qty
		}
	}
	return out
}

// WithQuantity returns a copy of the composition with the given food set to qty.
func (c Composition) WithQuantity(id string, qty float64) Composition {
	out := c.Clone()
	out[id] = qty
	return out
}

// Without returns a copy of the composition with the given food removed.
func (c Composition) Without(id string) Composition {
	out := c.Clone()
	delete(out, id)
	return out
}

// IDs returns the IDs of present foods (quantity > 0) in sorted order.
func (c Composition) IDs() []string {
	ids := make([]string, 0, len(c))
	for id, qty := range c {
		if qty > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// NutrientVector holds aggregated nutrient totals for a composition,
// restricted to the nutrients tracked by some constraint set. It is always
// derived via Aggregate and never cached across candidates.
type NutrientVector map[string]float64

// SearchResult is the outcome of one optimization run.
type SearchResult struct {
	RunID            string         `json:"run_id"`
	Seed             int64          `json:"seed"`
	Composition      Composition    `json:"composition"`
	Nutrients        NutrientVector `json:"nutrients"`
	Fitness          float64        `json:"fitness"`
	InitialNutrients NutrientVector `json:"initial_nutrients"`
	InitialFitness   float64        `json:"initial_fitness"`
	Changes          []Change       `json:"changes"`
	Iterations       int            `json:"iterations"`
}

// Improvement returns how much fitness decreased over the run.
func (r SearchResult) Improvement() float64 {
	return r.InitialFitness - r.Fitness
}
