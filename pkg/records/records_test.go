package records

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, false},
		{"false", false, false},
		{"true", true, true},
		{"empty string", "", false},
		{"string", "x", true},
		{"zero float", 0.0, false},
		{"float", 0.75, true},
		{"zero int", 0, false},
		{"int", 3, true},
		{"zero json number", json.Number("0"), false},
		{"json number", json.Number("0.25"), true},
		{"empty slice", []any{}, false},
		{"nil slice", []any(nil), false},
		{"slice", []any{1}, true},
		{"empty map", map[string]any{}, false},
		{"nil map", map[string]any(nil), false},
		{"map", map[string]any{"x": 1}, true},
		{"string slice", []string{"a"}, true},
		{"struct", struct{}{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTruthy(tt.value))
		})
	}
}

func TestIsCollection(t *testing.T) {
	assert.True(t, IsCollection([]any{}))
	assert.True(t, IsCollection(map[string]any{}))
	assert.True(t, IsCollection([]string{"a"}))
	assert.True(t, IsCollection([2]int{1, 2}))
	assert.False(t, IsCollection(nil))
	assert.False(t, IsCollection("list"))
	assert.False(t, IsCollection(1.5))
}

func TestRecordID(t *testing.T) {
	id, ok := Record{"id": "veo-3"}.ID()
	assert.True(t, ok)
	assert.Equal(t, "veo-3", id)

	for _, r := range []Record{{}, {"id": ""}, {"id": 42}, {"id": nil}} {
		_, ok := r.ID()
		assert.False(t, ok, "record %v", r)
	}
}

func TestRecordClone(t *testing.T) {
	original := Record{
		"id":           "veo-3",
		"input_schema": map[string]any{"properties": map[string]any{"prompt": "string"}},
		"tags":         []any{"video", map[string]any{"k": "v"}},
	}

	clone := original.Clone()
	require.Equal(t, original, clone)

	clone["input_schema"].(map[string]any)["properties"].(map[string]any)["prompt"] = "changed"
	clone["tags"].([]any)[0] = "audio"
	clone["id"] = "other"

	assert.Equal(t, "string", original["input_schema"].(map[string]any)["properties"].(map[string]any)["prompt"])
	assert.Equal(t, "video", original["tags"].([]any)[0])
	assert.Equal(t, "veo-3", original["id"])

	assert.Nil(t, Record(nil).Clone())
}

func TestRecordKeys(t *testing.T) {
	r := Record{"b": 1, "a": nil, "c": true}
	assert.Equal(t, []string{"a", "b", "c"}, r.Keys())
	assert.True(t, r.Has("a"))
	assert.False(t, r.Truthy("a"))
}

func TestHasSchema(t *testing.T) {
	assert.True(t, HasSchema(Record{FieldInputSchema: map[string]any{"x": 1}}))
	assert.True(t, HasSchema(Record{FieldOutputSchema: map[string]any{"x": 1}}))
	assert.True(t, HasSchema(Record{FieldSchemaParameters: []any{"seed"}}))
	assert.False(t, HasSchema(Record{FieldInputSchema: map[string]any{}}))
	assert.False(t, HasSchema(Record{FieldSchemaMetadata: map[string]any{"x": 1}}))
}

func TestHasPricing(t *testing.T) {
	assert.True(t, HasPricing(Record{FieldPricePerSec: 0.5}))
	assert.True(t, HasPricing(Record{FieldPricing: map[string]any{"variants": []any{map[string]any{"price": 1}}}}))
	assert.False(t, HasPricing(Record{FieldPricePerSec: nil}))
	assert.False(t, HasPricing(Record{FieldPricing: map[string]any{"variants": []any{}}}))
	assert.False(t, HasPricing(Record{FieldPricing: "free"}))
}

func TestSchemaFieldsFresh(t *testing.T) {
	fields := SchemaFields()
	fields[0] = "mutated"
	assert.Equal(t, FieldInputSchema, SchemaFields()[0])
}
