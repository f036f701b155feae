package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealopt/optimizer"
)

func TestDecodeJSON(t *testing.T) {
	data := []byte(`[
		{"id": "oatmeal", "name": "Oatmeal", "unit": "cup", "nutrients": {"calories": 150, "protein": 5}},
		{"id": "banana", "name": "Banana", "unit": "medium", "max_quantity": 2, "nutrients": {"calories": 105}}
	]`)

	cat, err := DecodeJSON(data)
	require.NoError(t, err)
	require.Len(t, cat, 2)

	assert.Equal(t, "Oatmeal", cat["oatmeal"].Name)
	assert.InDelta(t, 150.0, cat["oatmeal"].Nutrients["calories"], 1e-9)
	assert.InDelta(t, 2.0, cat["banana"].MaxQuantity, 1e-9)
}

func TestDecodeJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not an array", data: `{"id": "oatmeal"}`},
		{name: "missing id", data: `[{"name": "Oatmeal"}]`},
		{name: "duplicate id", data: `[{"id": "x", "nutrients": {}}, {"id": "x", "nutrients": {}}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestDecodeCSV(t *testing.T) {
	data := []byte(`id,name,calories,fat,carbohydrates,protein,unit,max_quantity,tags
oatmeal,Oatmeal,150,3,27,5,cup,,"vegetarian,whole-grain"
banana,Banana,105,0.4,27,1.3,medium,2,fruit
`)

	cat, err := DecodeCSV(data)
	require.NoError(t, err)
	require.Len(t, cat, 2)

	oatmeal := cat["oatmeal"]
	assert.Equal(t, "Oatmeal", oatmeal.Name)
	assert.Equal(t, "cup", oatmeal.Unit)
	assert.InDelta(t, 150.0, oatmeal.Nutrients["calories"], 1e-9)
	assert.InDelta(t, 27.0, oatmeal.Nutrients["carbohydrates"], 1e-9)
	assert.Zero(t, oatmeal.MaxQuantity)

	banana := cat["banana"]
	assert.InDelta(t, 2.0, banana.MaxQuantity, 1e-9)
	assert.InDelta(t, 1.3, banana.Nutrients["protein"], 1e-9)
	_, tracked := banana.Nutrients["tags"]
	assert.False(t, tracked, "structural columns must not become nutrients")
}

func TestDecodeCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty input", data: ""},
		{name: "no id column", data: "name,calories\nOatmeal,150\n"},
		{name: "bad numeric", data: "id,calories\noatmeal,abc\n"},
		{name: "duplicate id", data: "id,calories\nx,1\nx,2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCSV([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	state := NewTestState([]byte(`[{"id": "rice", "nutrients": {"calories": 200}}]`))
	cat, err := Load(context.Background(), state)
	require.NoError(t, err)
	assert.Len(t, cat, 1)

	_, err = Load(context.Background(), NewTestStateWithError())
	assert.Error(t, err)
}

func TestLoadConstraints(t *testing.T) {
	state := NewTestState([]byte(`{"calories": {"minimum": 1800, "target": 2000, "maximum": 2200}}`))
	cs, err := LoadConstraints(context.Background(), state)
	require.NoError(t, err)
	assert.InDelta(t, 2000.0, cs["calories"].Target, 1e-9)
}

func TestLoadConstraintsRejectsInvalidBounds(t *testing.T) {
	state := NewTestState([]byte(`{"calories": {"minimum": 200, "target": 200, "maximum": 100}}`))
	_, err := LoadConstraints(context.Background(), state)

	var cerr *optimizer.ConstraintError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "calories", cerr.Nutrient)
}
