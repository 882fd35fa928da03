package analyzer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agentstation/modelmerge/pkg/records"
)

// Duplicate is a field value shared by more than one record.
type Duplicate struct {
	Value string           `json:"value" yaml:"value"`
	Count int              `json:"count" yaml:"count"`
	Items []records.Record `json:"-" yaml:"-"`
}

// ExactDuplicates finds values of field that occur on more than one record.
// Records where field is missing or empty are ignored. Non-string values are
// compared by their printed form.
func ExactDuplicates(recs []records.Record, field string) []Duplicate {
	byValue := make(map[string][]records.Record)
	var order []string

	for _, rec := range recs {
		if !rec.Truthy(field) {
			continue
		}
		value, ok := rec[field].(string)
		if !ok {
			value = fmt.Sprint(rec[field])
		}
		if _, seen := byValue[value]; !seen {
			order = append(order, value)
		}
		byValue[value] = append(byValue[value], rec)
	}

	var out []Duplicate
	for _, value := range order {
		if items := byValue[value]; len(items) > 1 {
			out = append(out, Duplicate{Value: value, Count: len(items), Items: items})
		}
	}
	slices.SortFunc(out, func(a, b Duplicate) int {
		return strings.Compare(a.Value, b.Value)
	})
	return out
}
