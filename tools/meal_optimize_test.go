package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealopt/catalog"
	"mealopt/optimizer"
)

func TestMealOptimize_Run(t *testing.T) {
	tool := NewMealOptimize(
		catalog.NewTestState(testCatalogJSON),
		catalog.NewTestState(testConstraintsJSON),
		optimizer.DefaultConfig(),
	)

	result, err := tool.Run(context.Background(), map[string]any{
		"composition":    map[string]any{"a": 1.0},
		"max_iterations": 2000.0,
		"seed":           42.0,
		"restarts":       4.0,
	})
	require.NoError(t, err)

	fitness, ok := result["fitness"].(float64)
	require.True(t, ok)
	initialFitness, ok := result["initial_fitness"].(float64)
	require.True(t, ok)
	assert.Less(t, fitness, initialFitness)
	assert.InDelta(t, 4000.0, initialFitness, 1e-9)

	composition, ok := result["composition"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, composition)

	changes, ok := result["changes"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, changes)

	assert.NotEmpty(t, result["run_id"])
}

func TestMealOptimize_RunErrors(t *testing.T) {
	tests := []struct {
		name        string
		catalog     catalog.State
		constraints catalog.State
		input       map[string]any
	}{
		{
			name:        "missing composition",
			catalog:     catalog.NewTestState(testCatalogJSON),
			constraints: catalog.NewTestState(testConstraintsJSON),
			input:       map[string]any{},
		},
		{
			name:        "unknown food in composition",
			catalog:     catalog.NewTestState(testCatalogJSON),
			constraints: catalog.NewTestState(testConstraintsJSON),
			input:       map[string]any{"composition": map[string]any{"ghost_food": 1.0}},
		},
		{
			name:        "invalid constraints artifact",
			catalog:     catalog.NewTestState(testCatalogJSON),
			constraints: catalog.NewTestState([]byte(`{"calories": {"minimum": 200, "target": 200, "maximum": 100}}`)),
			input:       map[string]any{"composition": map[string]any{"a": 1.0}},
		},
		{
			name:        "catalog load failure",
			catalog:     catalog.NewTestStateWithError(),
			constraints: catalog.NewTestState(testConstraintsJSON),
			input:       map[string]any{"composition": map[string]any{"a": 1.0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := NewMealOptimize(tt.catalog, tt.constraints, optimizer.DefaultConfig())
			_, err := tool.Run(context.Background(), tt.input)
			assert.Error(t, err)
		})
	}
}

func TestRegistry(t *testing.T) {
	registry, err := NewRegistry(
		catalog.NewTestState(testCatalogJSON),
		catalog.NewTestState(testConstraintsJSON),
		optimizer.DefaultConfig(),
	)
	require.NoError(t, err)

	assert.Len(t, registry.GetTools(), 3)

	tool, err := registry.GetTool("meal_optimize")
	require.NoError(t, err)
	assert.Equal(t, "meal_optimize", tool.Name())

	_, err = registry.GetTool("nope")
	assert.Error(t, err)
}
