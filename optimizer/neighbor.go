package optimizer

import (
	"math"
	"math/rand"
)

// EditKind identifies the atomic edit a neighbor was produced by.
type EditKind string

const (
	EditPerturb    EditKind = "perturb"
	EditAdd        EditKind = "add"
	EditRemove     EditKind = "remove"
	EditSubstitute EditKind = "substitute"
)

// NeighborConfig tunes the neighbor generator. The edit weights are relative
// selection probabilities among the edits feasible for a given composition;
// exact values are tuning, not correctness.
type NeighborConfig struct {
	PerturbWeight    float64
	AddWeight        float64
	RemoveWeight     float64
	SubstituteWeight float64
	Step             float64 // max absolute quantity change for perturb
	MinQuantity      float64 // floor below which perturb never drops a food
	AddQuantity      float64 // starting quantity for the add edit
}

func DefaultNeighborConfig() NeighborConfig {
	return NeighborConfig{
		PerturbWeight:    0.55,
		AddWeight:        0.2,
		RemoveWeight:     0.1,
		SubstituteWeight: 0.15,
		Step:             0.5,
		MinQuantity:      0.25,
		AddQuantity:      0.5,
	}
}

// Neighbor produces one candidate composition a single atomic edit away from
// comp, drawing foods from the catalog. The returned composition never
// references a food outside the catalog and is never empty: remove is only
// feasible while at least two foods remain. ok is false when no edit is
// feasible (empty catalog and nothing to perturb).
func Neighbor(rng *rand.Rand, comp Composition, cat Catalog, cfg NeighborConfig) (Composition, EditKind, bool) {
	present := comp.IDs()
	absent := make([]string, 0, len(cat))
	for _, id := range cat.IDs() {
		if qty, ok := comp[id]; !ok || qty <= 0 {
			absent = append(absent, id)
		}
	}

	type edit struct {
		kind   EditKind
		weight float64
	}
	var feasible []edit
	if len(present) > 0 {
		feasible = append(feasible, edit{EditPerturb, cfg.PerturbWeight})
	}
	if len(absent) > 0 {
		feasible = append(feasible, edit{EditAdd, cfg.AddWeight})
	}
	if len(present) > 1 {
		feasible = append(feasible, edit{EditRemove, cfg.RemoveWeight})
	}
	if len(present) > 0 && len(absent) > 0 {
		feasible = append(feasible, edit{EditSubstitute, cfg.SubstituteWeight})
	}
	if len(feasible) == 0 {
		return nil, "", false
	}

	var total float64
	for _, e := range feasible {
		total += e.weight
	}
	kind := feasible[len(feasible)-1].kind
	draw := rng.Float64() * total
	for _, e := range feasible {
		if draw < e.weight {
			kind = e.kind
			break
		}
		draw -= e.weight
	}

	switch kind {
	case EditPerturb:
		id := present[rng.Intn(len(present))]
		qty := comp[id]
		lo, hi := quantityBounds(cat[id], cfg)
		step := (rng.Float64()*2 - 1) * cfg.Step
		next := clamp(qty+step, lo, hi)
		if next == qty {
			// Clamped into place; try the opposite direction so the edit
			// still moves the quantity when one bound pins it.
			next = clamp(qty-step, lo, hi)
		}
		return comp.WithQuantity(id, next), EditPerturb, true

	case EditAdd:
		id := absent[rng.Intn(len(absent))]
		lo, hi := quantityBounds(cat[id], cfg)
		return comp.WithQuantity(id, clamp(cfg.AddQuantity, lo, hi)), EditAdd, true

	case EditRemove:
		id := present[rng.Intn(len(present))]
		return comp.Without(id), EditRemove, true

	default: // EditSubstitute
		out := present[rng.Intn(len(present))]
		in := absent[rng.Intn(len(absent))]
		qty := comp[out]
		outCal := cat[out].Nutrients[NutrientCalories]
		inCal := cat[in].Nutrients[NutrientCalories]
		if outCal > 0 && inCal > 0 {
			qty = qty * outCal / inCal
		}
		lo, hi := quantityBounds(cat[in], cfg)
		return comp.Without(out).WithQuantity(in, clamp(qty, lo, hi)), EditSubstitute, true
	}
}

// quantityBounds resolves the effective [lo, hi] quantity range for a food,
// combining the generator floor with the record's own bounds.
func quantityBounds(rec FoodRecord, cfg NeighborConfig) (lo, hi float64) {
	lo = cfg.MinQuantity
	if rec.MinQuantity > lo {
		lo = rec.MinQuantity
	}
	hi = math.Inf(1)
	if rec.MaxQuantity > 0 {
		hi = rec.MaxQuantity
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
