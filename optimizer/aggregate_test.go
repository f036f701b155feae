package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() Catalog {
	return Catalog{
		"oatmeal": {
			ID: "oatmeal", Name: "Oatmeal", Unit: "cup",
			Nutrients: map[string]float64{"calories": 150, "protein": 5, "carbohydrates": 27, "fat": 3},
		},
		"banana": {
			ID: "banana", Name: "Banana", Unit: "medium", MaxQuantity: 2,
			Nutrients: map[string]float64{"calories": 105, "protein": 1.3, "carbohydrates": 27, "fat": 0.4},
		},
		"almond_butter": {
			ID: "almond_butter", Name: "Almond Butter", Unit: "tbsp", MaxQuantity: 3,
			Nutrients: map[string]float64{"calories": 98, "protein": 3.4, "carbohydrates": 3, "fat": 9},
		},
	}
}

func TestAggregate(t *testing.T) {
	cat := testCatalog()
	cs := ConstraintSet{
		"calories": {Minimum: 300, Target: 400, Maximum: 500},
		"protein":  {Minimum: 5, Target: 10, Maximum: 20},
	}

	tests := []struct {
		name string
		comp Composition
		want NutrientVector
	}{
		{
			name: "single food",
			comp: Composition{"oatmeal": 2},
			want: NutrientVector{"calories": 300, "protein": 10},
		},
		{
			name: "multiple foods",
			comp: Composition{"oatmeal": 1, "banana": 1},
			want: NutrientVector{"calories": 255, "protein": 6.3},
		},
		{
			name: "empty composition yields zeros",
			comp: Composition{},
			want: NutrientVector{"calories": 0, "protein": 0},
		},
		{
			name: "non-positive quantities are absent",
			comp: Composition{"oatmeal": 1, "banana": 0, "almond_butter": -2},
			want: NutrientVector{"calories": 150, "protein": 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Aggregate(tt.comp, cat, cs)
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for name, want := range tt.want {
				assert.InDelta(t, want, got[name], 1e-9, "nutrient %s", name)
			}
		})
	}
}

func TestAggregateUnknownFood(t *testing.T) {
	cs := ConstraintSet{"calories": {Minimum: 0, Target: 100, Maximum: 200}}
	_, err := Aggregate(Composition{"ghost_food": 1}, testCatalog(), cs)

	var unknownErr *UnknownFoodError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "ghost_food", unknownErr.FoodID)
}

func TestAggregateRestrictedToTrackedNutrients(t *testing.T) {
	cs := ConstraintSet{"protein": {Minimum: 0, Target: 5, Maximum: 10}}
	got, err := Aggregate(Composition{"oatmeal": 1}, testCatalog(), cs)
	require.NoError(t, err)

	assert.Len(t, got, 1)
	assert.InDelta(t, 5.0, got["protein"], 1e-9)
}
