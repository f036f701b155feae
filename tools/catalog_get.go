package tools

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"mealopt/catalog"
)

type CatalogGet struct{ state catalog.State }

func NewCatalogGet(state catalog.State) *CatalogGet { return &CatalogGet{state: state} }

func (t *CatalogGet) Name() string  { return "catalog_get" }
func (t *CatalogGet) Title() string { return "Get Food Catalog" }
func (t *CatalogGet) Description() string {
	return "Returns the food catalog with per-unit nutrient profiles, optionally filtered to specific food ids."
}

func (t *CatalogGet) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"ids": {
				Type:  "array",
				Items: &jsonschema.Schema{Type: "string"},
			},
		},
	}
}

func (t *CatalogGet) OutputSchema() *jsonschema.Schema {
	minQty := 0.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"foods": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"id":           {Type: "string"},
						"name":         {Type: "string"},
						"unit":         {Type: "string"},
						"nutrients":    {Type: "object"},
						"min_quantity": {Type: "number", Minimum: &minQty},
						"max_quantity": {Type: "number", Minimum: &minQty},
					},
					Required: []string{"id", "nutrients"},
				},
			},
		},
		Required: []string{"foods"},
	}
}

func (t *CatalogGet) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	cat, err := catalog.Load(ctx, t.state)
	if err != nil {
		return nil, err
	}

	wanted := map[string]bool{}
	if ids, ok := input["ids"].([]any); ok {
		for _, id := range ids {
			if s, ok := id.(string); ok {
				wanted[s] = true
			}
		}
	}

	out := struct {
		Foods []any `json:"foods"`
	}{Foods: make([]any, 0, len(cat))}

	for _, id := range cat.IDs() {
		if len(wanted) > 0 && !wanted[id] {
			continue
		}
		out.Foods = append(out.Foods, cat[id])
	}

	// marshal -> map[string]any to keep outputs uniform
	b, _ := json.Marshal(out)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m, nil
}
