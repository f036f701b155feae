package catalog

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"mealopt/optimizer"
)

// Load reads a JSON food catalog from the given state. The artifact is an
// array of food records keyed into a catalog by ID.
func Load(ctx context.Context, state State) (optimizer.Catalog, error) {
	b, err := state.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return DecodeJSON(b)
}

// LoadConstraints reads a JSON constraint set from the given state and
// validates it.
func LoadConstraints(ctx context.Context, state State) (optimizer.ConstraintSet, error) {
	b, err := state.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("read constraints: %w", err)
	}
	var cs optimizer.ConstraintSet
	if err := json.Unmarshal(b, &cs); err != nil {
		return nil, fmt.Errorf("decode constraints: %w", err)
	}
	if err := cs.Validate(); err != nil {
		return nil, err
	}
	return cs, nil
}

// DecodeJSON decodes an array of food records into a catalog.
func DecodeJSON(data []byte) (optimizer.Catalog, error) {
	var records []optimizer.FoodRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	cat := make(optimizer.Catalog, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			return nil, fmt.Errorf("catalog record %q has no id", rec.Name)
		}
		if _, exists := cat[rec.ID]; exists {
			return nil, fmt.Errorf("duplicate catalog id %q", rec.ID)
		}
		if rec.Nutrients == nil {
			rec.Nutrients = map[string]float64{}
		}
		cat[rec.ID] = rec
	}
	return cat, nil
}

// DecodeCSV decodes a foods.csv export into a catalog. The header row names
// the columns; id, name, unit, min_quantity, max_quantity and tags are
// structural, every other column is treated as a per-unit nutrient value.
func DecodeCSV(data []byte) (optimizer.Catalog, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read catalog csv: %w", err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("catalog csv has no header row")
	}

	header := rows[0]
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	if _, ok := col["id"]; !ok {
		return nil, fmt.Errorf("catalog csv has no id column")
	}

	structural := map[string]bool{
		"id": true, "name": true, "unit": true,
		"min_quantity": true, "max_quantity": true, "tags": true,
	}

	cat := make(optimizer.Catalog, len(rows)-1)
	for n, row := range rows[1:] {
		rec := optimizer.FoodRecord{Nutrients: map[string]float64{}}
		rec.ID = row[col["id"]]
		if rec.ID == "" {
			return nil, fmt.Errorf("catalog csv row %d has no id", n+2)
		}
		if i, ok := col["name"]; ok {
			rec.Name = row[i]
		}
		if i, ok := col["unit"]; ok {
			rec.Unit = row[i]
		}
		if i, ok := col["min_quantity"]; ok && row[i] != "" {
			if rec.MinQuantity, err = strconv.ParseFloat(row[i], 64); err != nil {
				return nil, fmt.Errorf("catalog csv row %d: min_quantity: %w", n+2, err)
			}
		}
		if i, ok := col["max_quantity"]; ok && row[i] != "" {
			if rec.MaxQuantity, err = strconv.ParseFloat(row[i], 64); err != nil {
				return nil, fmt.Errorf("catalog csv row %d: max_quantity: %w", n+2, err)
			}
		}
		for name, i := range col {
			if structural[name] || row[i] == "" {
				continue
			}
			v, err := strconv.ParseFloat(row[i], 64)
			if err != nil {
				return nil, fmt.Errorf("catalog csv row %d: %s: %w", n+2, name, err)
			}
			rec.Nutrients[name] = v
		}
		if _, exists := cat[rec.ID]; exists {
			return nil, fmt.Errorf("duplicate catalog id %q", rec.ID)
		}
		cat[rec.ID] = rec
	}
	return cat, nil
}
