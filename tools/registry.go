package tools

import (
	"fmt"

	"mealopt/catalog"
	"mealopt/optimizer"
)

// Registry maps tool names to implementations
type Registry map[string]Tool

// NewRegistry creates a new tool registry over the given catalog and
// constraint artifact states. cfg tunes the optimizer behind meal_optimize.
func NewRegistry(catalogState, constraintsState catalog.State, cfg optimizer.Config) (*Registry, error) {
	tools := map[string]Tool{
		"catalog_get":   NewCatalogGet(catalogState),
		"meal_score":    NewMealScore(catalogState, constraintsState, cfg),
		"meal_optimize": NewMealOptimize(catalogState, constraintsState, cfg),
	}

	registry := Registry(tools)
	return &registry, nil
}

// GetTools returns all tools in the registry as a slice
func (r *Registry) GetTools() []Tool {
	tools := make([]Tool, 0, len(*r))
	for _, tool := range *r {
		tools = append(tools, tool)
	}
	return tools
}

// GetTool retrieves a tool by name from the registry
func (r Registry) GetTool(name string) (Tool, error) {
	tool, exists := r[name]
	if !exists {
		return nil, fmt.Errorf("tool %q not found in registry", name)
	}
	return tool, nil
}
