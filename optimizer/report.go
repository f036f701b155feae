package optimizer

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// ChangeKind classifies a diff entry.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeRemoved  ChangeKind = "removed"
	ChangeAdjusted ChangeKind = "adjusted"
)

// Change describes how one food differs between two compositions.
type Change struct {
	Kind   ChangeKind `json:"kind"`
	FoodID string     `json:"food_id"`
	Name   string     `json:"name"`
	Unit   string     `json:"unit,omitempty"`
	From   float64    `json:"from"`
	To     float64    `json:"to"`
}

// String renders the change as a human-readable delta.
func (c Change) String() string {
	switch c.Kind {
	case ChangeAdded:
		if c.Unit != "" {
			return fmt.Sprintf("Add %s %s of %s", formatQuantity(c.To), c.Unit, c.Name)
		}
		return fmt.Sprintf("Add %s %s", formatQuantity(c.To), c.Name)
	case ChangeRemoved:
		return fmt.Sprintf("Remove %s", c.Name)
	default:
		if c.Unit != "" {
			return fmt.Sprintf("Change %s from %s to %s %s", c.Name, formatQuantity(c.From), formatQuantity(c.To), c.Unit)
		}
		return fmt.Sprintf("Change %s from %s to %s", c.Name, formatQuantity(c.From), formatQuantity(c.To))
	}
}

// Diff compares two compositions and returns one change per food whose
// quantity changed, was added, or was removed, ordered by food ID. It never
// fails; foods missing from the catalog fall back to their ID as the name.
func Diff(before, after Composition, cat Catalog) []Change {
	ids := make(map[string]struct{}, len(before)+len(after))
	for id, qty := range before {
		if qty > 0 {
			ids[id] = struct{}{}
		}
	}
	for id, qty := range after {
		if qty > 0 {
			ids[id] = struct{}{}
		}
	}

	ordered := make([]string, 0, len(ids))
	for id := range ids {
		ordered = append(ordered, id)
	}
	sort.Strings(ordered)

	changes := make([]Change, 0, len(ordered))
	for _, id := range ordered {
		from := before[id]
		to := after[id]
		if from == to {
			continue
		}
		name, unit := id, ""
		if rec, ok := cat[id]; ok {
			if rec.Name != "" {
				name = rec.Name
			}
			unit = rec.Unit
		}
		change := Change{FoodID: id, Name: name, Unit: unit, From: from, To: to}
		switch {
		case from <= 0:
			change.Kind = ChangeAdded
			change.From = 0
		case to <= 0:
			change.Kind = ChangeRemoved
			change.To = 0
		default:
			change.Kind = ChangeAdjusted
		}
		changes = append(changes, change)
	}
	return changes
}

// formatQuantity rounds to two decimals and trims trailing zeros.
func formatQuantity(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
