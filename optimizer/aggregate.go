package optimizer

// Aggregate sums quantity x per-unit nutrient value across all entries in the
// composition, restricted to the nutrients tracked by the constraint set.
// Referencing a food absent from the catalog yields an UnknownFoodError.
func Aggregate(comp Composition, cat Catalog, cs ConstraintSet) (NutrientVector, error) {
	vec := make(NutrientVector, len(cs))
	for name := range cs {
		vec[name] = 0
	}
	for id, qty := range comp {
		if qty <= 0 {
			continue
		}
		rec, ok := cat[id]
		if !ok {
			return nil, &UnknownFoodError{FoodID: id}
		}
		for name := range cs {
			vec[name] += qty * rec.Nutrients[name]
		}
	}
	return vec, nil
}
