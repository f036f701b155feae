package optimizer

import "fmt"

// UnknownFoodError reports a composition entry whose food ID is absent from
// the catalog. It is fatal at call entry; mid-search the driver discards the
// candidate instead.
type UnknownFoodError struct {
	FoodID string
}

func (e *UnknownFoodError) Error() string {
	return fmt.Sprintf("food %q not found in catalog", e.FoodID)
}

// ConstraintError reports a constraint whose bounds are negative or not
// ordered minimum <= target <= maximum. Surfaced before any search begins,
// never silently clamped.
type ConstraintError struct {
	Nutrient   string
	Constraint NutrientConstraint
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf(
		"invalid constraint for %q: minimum=%g target=%g maximum=%g (want 0 <= minimum <= target <= maximum)",
		e.Nutrient, e.Constraint.Minimum, e.Constraint.Target, e.Constraint.Maximum,
	)
}
