package tools

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"mealopt/catalog"
	"mealopt/optimizer"
)

type MealOptimize struct {
	catalogState     catalog.State
	constraintsState catalog.State
	cfg              optimizer.Config
}

func NewMealOptimize(catalogState, constraintsState catalog.State, cfg optimizer.Config) *MealOptimize {
	return &MealOptimize{catalogState: catalogState, constraintsState: constraintsState, cfg: cfg}
}

func (t *MealOptimize) Name() string  { return "meal_optimize" }
func (t *MealOptimize) Title() string { return "Optimize Meal Composition" }
func (t *MealOptimize) Description() string {
	return "Adjusts food items and portion sizes so the meal's nutrients approach the configured targets, and reports what changed."
}

func (t *MealOptimize) InputSchema() *jsonschema.Schema {
	one := 1.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"composition":    {Type: "object"},
			"max_iterations": {Type: "integer", Minimum: &one},
			"seed":           {Type: "integer"},
			"restarts":       {Type: "integer", Minimum: &one},
		},
		Required: []string{"composition"},
	}
}

func (t *MealOptimize) OutputSchema() *jsonschema.Schema {
	minFit := 0.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"run_id":      {Type: "string"},
			"seed":        {Type: "integer"},
			"composition": {Type: "object"},
			"nutrients":   {Type: "object"},
			"fitness":     {Type: "number", Minimum: &minFit},
			"initial_fitness": {
				Type:    "number",
				Minimum: &minFit,
			},
			"iterations": {Type: "integer"},
			"changes": {
				Type:  "array",
				Items: &jsonschema.Schema{Type: "string"},
			},
		},
		Required: []string{"run_id", "composition", "nutrients", "fitness", "changes"},
	}
}

func (t *MealOptimize) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	comp, err := compositionFromInput(input)
	if err != nil {
		return nil, err
	}

	cfg := t.cfg
	if v, ok := input["max_iterations"].(float64); ok && v >= 1 {
		cfg.MaxIterations = int(v)
	}
	if v, ok := input["seed"].(float64); ok {
		cfg.Seed = int64(v)
	}
	restarts := 1
	if v, ok := input["restarts"].(float64); ok && v >= 1 {
		restarts = int(v)
	}

	cat, err := catalog.Load(ctx, t.catalogState)
	if err != nil {
		return nil, err
	}
	cs, err := catalog.LoadConstraints(ctx, t.constraintsState)
	if err != nil {
		return nil, err
	}

	result, err := optimizer.NewSearch(cat, cs, cfg, nil).RunBest(ctx, comp, restarts)
	if err != nil {
		return nil, err
	}

	changes := make([]string, 0, len(result.Changes))
	for _, change := range result.Changes {
		changes = append(changes, change.String())
	}

	out := struct {
		RunID          string                   `json:"run_id"`
		Seed           int64                    `json:"seed"`
		Composition    optimizer.Composition    `json:"composition"`
		Nutrients      optimizer.NutrientVector `json:"nutrients"`
		Fitness        float64                  `json:"fitness"`
		InitialFitness float64                  `json:"initial_fitness"`
		Iterations     int                      `json:"iterations"`
		Changes        []string                 `json:"changes"`
	}{
		RunID:          result.RunID,
		Seed:           result.Seed,
		Composition:    result.Composition,
		Nutrients:      result.Nutrients,
		Fitness:        result.Fitness,
		InitialFitness: result.InitialFitness,
		Iterations:     result.Iterations,
		Changes:        changes,
	}

	b, _ := json.Marshal(out)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m, nil
}
