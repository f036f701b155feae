package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	cs := ConstraintSet{
		"calories": {Minimum: 1800, Target: 2000, Maximum: 2200},
		"protein":  {Minimum: 90, Target: 100, Maximum: 110},
	}
	w := DefaultWeights()

	tests := []struct {
		name string
		vec  NutrientVector
		want float64
	}{
		{
			name: "all nutrients exactly at target",
			vec:  NutrientVector{"calories": 2000, "protein": 100},
			want: 0,
		},
		{
			name: "in bounds, off target",
			vec:  NutrientVector{"calories": 2050, "protein": 95},
			want: w.Soft*50 + w.Soft*5,
		},
		{
			name: "below minimum",
			vec:  NutrientVector{"calories": 1700, "protein": 100},
			want: w.Hard * 100,
		},
		{
			name: "above maximum",
			vec:  NutrientVector{"calories": 2000, "protein": 120},
			want: w.Hard * 10,
		},
		{
			name: "missing nutrient counts as zero",
			vec:  NutrientVector{"calories": 2000},
			want: w.Hard * 90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Evaluate(tt.vec, cs, w), 1e-9)
		})
	}
}

func TestEvaluateIgnoresUntrackedNutrients(t *testing.T) {
	cs := ConstraintSet{"calories": {Minimum: 100, Target: 150, Maximum: 200}}
	vec := NutrientVector{"calories": 150, "sodium": 9000}
	assert.Zero(t, Evaluate(vec, cs, DefaultWeights()))
}

func TestEvaluateEmptyConstraintSet(t *testing.T) {
	assert.Zero(t, Evaluate(NutrientVector{"calories": 123}, ConstraintSet{}, DefaultWeights()))
}

// Any out-of-bounds vector must outrank any in-bounds vector as long as the
// hard weight exceeds the soft weight by enough margin to cover the band.
func TestEvaluateBoundsOrdering(t *testing.T) {
	cs := ConstraintSet{"calories": {Minimum: 140, Target: 150, Maximum: 160}}
	w := DefaultWeights()

	for outDev := 0.5; outDev <= 50; outDev += 0.5 {
		low := Evaluate(NutrientVector{"calories": 140 - outDev}, cs, w)
		high := Evaluate(NutrientVector{"calories": 160 + outDev}, cs, w)
		for inDev := 0.0; inDev <= 10; inDev += 0.5 {
			inBounds := Evaluate(NutrientVector{"calories": 150 + inDev}, cs, w)
			assert.Greater(t, low, inBounds, "below-min deviation %.1f vs in-bounds deviation %.1f", outDev, inDev)
			assert.Greater(t, high, inBounds, "above-max deviation %.1f vs in-bounds deviation %.1f", outDev, inDev)
		}
	}
}

func TestConstraintSetValidate(t *testing.T) {
	tests := []struct {
		name    string
		cs      ConstraintSet
		wantErr bool
	}{
		{
			name: "valid",
			cs: ConstraintSet{
				"calories": {Minimum: 1800, Target: 2000, Maximum: 2200},
			},
			wantErr: false,
		},
		{
			name:    "empty set is valid",
			cs:      ConstraintSet{},
			wantErr: false,
		},
		{
			name: "minimum above maximum",
			cs: ConstraintSet{
				"calories": {Minimum: 200, Target: 200, Maximum: 100},
			},
			wantErr: true,
		},
		{
			name: "minimum above target",
			cs: ConstraintSet{
				"protein": {Minimum: 120, Target: 100, Maximum: 150},
			},
			wantErr: true,
		},
		{
			name: "negative bound",
			cs: ConstraintSet{
				"fat": {Minimum: -10, Target: 0, Maximum: 10},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cs.Validate()
			if tt.wantErr {
				var cerr *ConstraintError
				assert.ErrorAs(t, err, &cerr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
