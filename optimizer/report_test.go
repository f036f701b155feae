package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	cat := testCatalog()

	tests := []struct {
		name   string
		before Composition
		after  Composition
		want   []string
	}{
		{
			name:   "quantity change",
			before: Composition{"oatmeal": 1},
			after:  Composition{"oatmeal": 1.5},
			want:   []string{"Change Oatmeal from 1 to 1.5 cup"},
		},
		{
			name:   "food added",
			before: Composition{"oatmeal": 1},
			after:  Composition{"oatmeal": 1, "banana": 0.5},
			want:   []string{"Add 0.5 medium of Banana"},
		},
		{
			name:   "food removed",
			before: Composition{"oatmeal": 1, "banana": 1},
			after:  Composition{"oatmeal": 1},
			want:   []string{"Remove Banana"},
		},
		{
			name:   "mixed changes ordered by food id",
			before: Composition{"oatmeal": 1, "banana": 2},
			after:  Composition{"oatmeal": 2, "almond_butter": 1},
			want: []string{
				"Add 1 tbsp of Almond Butter",
				"Remove Banana",
				"Change Oatmeal from 1 to 2 cup",
			},
		},
		{
			name:   "no changes",
			before: Composition{"oatmeal": 1},
			after:  Composition{"oatmeal": 1},
			want:   []string{},
		},
		{
			name:   "empty compositions",
			before: Composition{},
			after:  Composition{},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes := Diff(tt.before, tt.after, cat)
			require.Len(t, changes, len(tt.want))
			for i, want := range tt.want {
				assert.Equal(t, want, changes[i].String())
			}
		})
	}
}

func TestDiffFallsBackToIDForUnknownFood(t *testing.T) {
	changes := Diff(Composition{}, Composition{"mystery": 1}, Catalog{})
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeAdded, changes[0].Kind)
	assert.Equal(t, "Add 1 mystery", changes[0].String())
}

func TestDiffKinds(t *testing.T) {
	cat := testCatalog()
	changes := Diff(
		Composition{"oatmeal": 1, "banana": 1},
		Composition{"oatmeal": 2, "almond_butter": 1},
		cat,
	)

	kinds := map[string]ChangeKind{}
	for _, change := range changes {
		kinds[change.FoodID] = change.Kind
	}
	assert.Equal(t, ChangeAdjusted, kinds["oatmeal"])
	assert.Equal(t, ChangeRemoved, kinds["banana"])
	assert.Equal(t, ChangeAdded, kinds["almond_butter"])
}
