package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"mealopt/catalog"
	"mealopt/optimizer"
)

type MealScore struct {
	catalogState     catalog.State
	constraintsState catalog.State
	cfg              optimizer.Config
}

func NewMealScore(catalogState, constraintsState catalog.State, cfg optimizer.Config) *MealScore {
	return &MealScore{catalogState: catalogState, constraintsState: constraintsState, cfg: cfg}
}

func (t *MealScore) Name() string  { return "meal_score" }
func (t *MealScore) Title() string { return "Score Meal Against Nutrition Goals" }
func (t *MealScore) Description() string {
	return "Aggregates a meal's nutrients and scores it against the configured constraints. Fitness 0 means every target is hit exactly; lower is better."
}

func (t *MealScore) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"composition": {Type: "object"},
		},
		Required: []string{"composition"},
	}
}

func (t *MealScore) OutputSchema() *jsonschema.Schema {
	minFit := 0.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"nutrients": {Type: "object"},
			"fitness":   {Type: "number", Minimum: &minFit},
		},
		Required: []string{"nutrients", "fitness"},
	}
}

func (t *MealScore) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	comp, err := compositionFromInput(input)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(ctx, t.catalogState)
	if err != nil {
		return nil, err
	}
	cs, err := catalog.LoadConstraints(ctx, t.constraintsState)
	if err != nil {
		return nil, err
	}

	vec, err := optimizer.Aggregate(comp, cat, cs)
	if err != nil {
		return nil, err
	}

	out := struct {
		Nutrients optimizer.NutrientVector `json:"nutrients"`
		Fitness   float64                  `json:"fitness"`
	}{
		Nutrients: vec,
		Fitness:   optimizer.Evaluate(vec, cs, t.cfg.Weights),
	}

	b, _ := json.Marshal(out)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m, nil
}

// compositionFromInput pulls a {food_id: quantity} object out of a tool input map.
func compositionFromInput(input map[string]any) (optimizer.Composition, error) {
	raw, ok := input["composition"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("composition must be an object of food id to quantity")
	}
	comp := make(optimizer.Composition, len(raw))
	for id, v := range raw {
		qty, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("quantity for %q must be a number", id)
		}
		comp[id] = qty
	}
	return comp, nil
}
