package pipeline

import (
	"fmt"

	"github.com/agentstation/modelmerge/pkg/analyzer"
	"github.com/agentstation/modelmerge/pkg/grouping"
	"github.com/agentstation/modelmerge/pkg/provenance"
	"github.com/agentstation/modelmerge/pkg/records"
)

// Result is the outcome of a pipeline run.
type Result struct {
	RunID      string               // Unique id of the run
	Records    []records.Record     // Merged records, one per base id
	Summary    Summary              // Counters for the run
	Analysis   *analyzer.Report     // Pair analysis, nil unless enabled
	Collisions []grouping.Collision // Slots that held more than one candidate
	Provenance provenance.Map       // Merge decisions per base id, nil unless enabled
}

// Summary holds the counters reported after a run.
type Summary struct {
	Input          int `json:"input" yaml:"input"`                     // Records offered
	Skipped        int `json:"skipped" yaml:"skipped"`                 // Records without a usable id
	Groups         int `json:"groups" yaml:"groups"`                   // Distinct base ids
	DuplicatePairs int `json:"duplicate_pairs" yaml:"duplicate_pairs"` // Groups with both slots filled
	Ambiguous      int `json:"ambiguous" yaml:"ambiguous"`             // Groups with a slot collision
	Output         int `json:"output" yaml:"output"`                   // Merged records written
	WithSchema     int `json:"with_schema" yaml:"with_schema"`         // Merged records carrying schema detail
	WithPricing    int `json:"with_pricing" yaml:"with_pricing"`       // Merged records carrying a price
}

// Merged returns the number of records folded away by merging.
func (s Summary) Merged() int {
	return s.Input - s.Skipped - s.Output
}

// String returns a human-readable summary line.
func (s Summary) String() string {
	return fmt.Sprintf("%d records in, %d out (%d duplicate pairs merged, %d skipped, %d ambiguous)",
		s.Input, s.Output, s.DuplicatePairs, s.Skipped, s.Ambiguous)
}

func summarize(idx *grouping.Index, collisions []grouping.Collision, merged []records.Record) Summary {
	ambiguous := make(map[string]struct{}, len(collisions))
	for _, c := range collisions {
		ambiguous[c.BaseID] = struct{}{}
	}

	s := Summary{
		Input:          idx.Input(),
		Skipped:        idx.Skipped(),
		Groups:         idx.Len(),
		DuplicatePairs: len(idx.Pairs()),
		Ambiguous:      len(ambiguous),
		Output:         len(merged),
	}
	for _, rec := range merged {
		if records.HasSchema(rec) {
			s.WithSchema++
		}
		if records.HasPricing(rec) {
			s.WithPricing++
		}
	}
	return s
}
