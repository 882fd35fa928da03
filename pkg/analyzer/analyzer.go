// Package analyzer reports how the two spellings of duplicate records differ
// before anything is merged. It is read-only: records are never modified and
// the merge does not depend on it.
package analyzer

import (
	"maps"
	"slices"

	"github.com/agentstation/modelmerge/pkg/grouping"
	"github.com/agentstation/modelmerge/pkg/records"
)

// PairDelta is the field-set comparison of one duplicate pair.
type PairDelta struct {
	BaseID           string   `json:"base_id" yaml:"base_id"`
	WithOwnerID      string   `json:"with_owner_id" yaml:"with_owner_id"`
	WithoutOwnerID   string   `json:"without_owner_id" yaml:"without_owner_id"`
	Common           []string `json:"common" yaml:"common"`
	OnlyWithOwner    []string `json:"only_with_owner" yaml:"only_with_owner"`
	OnlyWithoutOwner []string `json:"only_without_owner" yaml:"only_without_owner"`
}

// Report aggregates PairDeltas over a whole catalog.
type Report struct {
	Total            int         `json:"total" yaml:"total"`
	Pairs            []PairDelta `json:"pairs" yaml:"pairs"`
	Common           []string    `json:"common_fields" yaml:"common_fields"`
	OnlyWithOwner    []string    `json:"only_with_owner_fields" yaml:"only_with_owner_fields"`
	OnlyWithoutOwner []string    `json:"only_without_owner_fields" yaml:"only_without_owner_fields"`
}

// Example returns the first duplicate pair, if any.
func (r *Report) Example() (PairDelta, bool) {
	if r == nil || len(r.Pairs) == 0 {
		return PairDelta{}, false
	}
	return r.Pairs[0], true
}

// Analyze compares every duplicate pair in idx. Slot occupants are chosen
// with policy, so the report describes the same records the merge will use.
func Analyze(idx *grouping.Index, policy grouping.Policy) (*Report, error) {
	report := &Report{
		Total: idx.Input(),
		Pairs: []PairDelta{},
	}

	common := make(map[string]struct{})
	onlyWith := make(map[string]struct{})
	onlyWithout := make(map[string]struct{})

	for _, g := range idx.Pairs() {
		withOwner, withoutOwner, err := g.Resolve(policy)
		if err != nil {
			return nil, err
		}

		delta := Compare(g.BaseID, withOwner, withoutOwner)
		report.Pairs = append(report.Pairs, delta)

		addAll(common, delta.Common)
		addAll(onlyWith, delta.OnlyWithOwner)
		addAll(onlyWithout, delta.OnlyWithoutOwner)
	}

	report.Common = sortedKeys(common)
	report.OnlyWithOwner = sortedKeys(onlyWith)
	report.OnlyWithoutOwner = sortedKeys(onlyWithout)
	return report, nil
}

// Compare computes the field-set delta of one pair. The without-owner record
// is the left side.
func Compare(baseID string, withOwner, withoutOwner records.Record) PairDelta {
	left := keySet(withoutOwner)
	right := keySet(withOwner)

	delta := PairDelta{
		BaseID:           baseID,
		Common:           []string{},
		OnlyWithOwner:    []string{},
		OnlyWithoutOwner: []string{},
	}
	delta.WithOwnerID, _ = withOwner.ID()
	delta.WithoutOwnerID, _ = withoutOwner.ID()

	for key := range left {
		if _, ok := right[key]; ok {
			delta.Common = append(delta.Common, key)
		} else {
			delta.OnlyWithoutOwner = append(delta.OnlyWithoutOwner, key)
		}
	}
	for key := range right {
		if _, ok := left[key]; !ok {
			delta.OnlyWithOwner = append(delta.OnlyWithOwner, key)
		}
	}

	slices.Sort(delta.Common)
	slices.Sort(delta.OnlyWithOwner)
	slices.Sort(delta.OnlyWithoutOwner)
	return delta
}

func keySet(r records.Record) map[string]struct{} {
	set := make(map[string]struct{}, len(r))
	for key := range r {
		set[key] = struct{}{}
	}
	return set
}

func addAll(set map[string]struct{}, keys []string) {
	for _, key := range keys {
		set[key] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	return slices.Sorted(maps.Keys(set))
}
