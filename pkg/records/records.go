// Package records defines the catalog record shape the reconciliation engine
// operates on, the field names it relies on, and the value predicates used by
// the merge rules.
//
// A Record is an untyped, string-keyed mapping decoded from JSON. The engine
// never mutates records it is given; callers that need to change a record
// should work on a Clone.
package records

import (
	"encoding/json"
	"maps"
	"reflect"
	"slices"
	"strconv"
)

// Field names the engine depends on.
const (
	FieldID               = "id"
	FieldPricePerSec      = "price_per_sec"
	FieldInputSchema      = "input_schema"
	FieldOutputSchema     = "output_schema"
	FieldSchemaMetadata   = "schema_metadata"
	FieldSchemaParameters = "schema_parameters"
	FieldPricing          = "pricing"
	FieldPricingVariants  = "variants"
	FieldReplicateName    = "replicate_name"
)

// SchemaFields returns the fields that carry schema detail, in a fresh slice.
func SchemaFields() []string {
	return []string{FieldInputSchema, FieldOutputSchema, FieldSchemaMetadata, FieldSchemaParameters}
}

// Record is a single model descriptor.
type Record map[string]any

// ID returns the record id and whether it is a non-empty string.
func (r Record) ID() (string, bool) {
	id, ok := r[FieldID].(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// String returns the value at key when it is a string.
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Has reports whether key is present, even with a null value.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Truthy reports whether the value at key is truthy.
func (r Record) Truthy(key string) bool {
	return IsTruthy(r[key])
}

// Keys returns the record's field names, sorted.
func (r Record) Keys() []string {
	return slices.Sorted(maps.Keys(r))
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies JSON-shaped values (maps and slices); other values
// are returned as-is.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[k] = CloneValue(inner)
		}
		return out
	case Record:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = CloneValue(inner)
		}
		return out
	default:
		return v
	}
}

// IsTruthy follows the usual JSON-data notion of truthiness: null, false,
// zero numbers, empty strings and empty collections are falsy.
func IsTruthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := strconv.ParseFloat(string(t), 64)
		return err != nil || f != 0
	case float64:
		return t != 0
	case float32:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case uint64:
		return t != 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uintptr:
		return rv.Uint() != 0
	default:
		return true
	}
}

// IsCollection reports whether v is a sequence or a mapping.
func IsCollection(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	default:
		return false
	}
}

// HasSchema reports whether the record carries any schema detail.
func HasSchema(r Record) bool {
	return r.Truthy(FieldInputSchema) || r.Truthy(FieldOutputSchema) || r.Truthy(FieldSchemaParameters)
}

// HasPricing reports whether the record carries a price, either as a flat
// per-second price or as pricing variants.
func HasPricing(r Record) bool {
	if r.Truthy(FieldPricePerSec) {
		return true
	}
	pricing, ok := r[FieldPricing].(map[string]any)
	if !ok {
		return false
	}
	return IsTruthy(pricing[FieldPricingVariants])
}
