package table

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/agentstation/modelmerge/pkg/provenance"
)

// ProvenanceToTableData converts merge decisions to table format.
// Base ids are sorted; the base id is shown only on its first row.
func ProvenanceToTableData(decisions provenance.Map, fields []string) Data {
	baseIDs := make([]string, 0, len(decisions))
	for baseID := range decisions {
		baseIDs = append(baseIDs, baseID)
	}
	slices.Sort(baseIDs)

	var rows [][]string
	for _, baseID := range baseIDs {
		first := true
		for _, d := range decisions[baseID] {
			if !MatchField(d.Field, fields) {
				continue
			}
			name := ""
			if first {
				name = baseID
				first = false
			}
			rows = append(rows, []string{name, d.Field, d.Source.String(), d.Rule})
		}
	}

	return Data{
		Headers: []string{"Base ID", "Field", "Source", "Rule"},
		Rows:    rows,
	}
}

// SourcesToTableData counts merged fields per source record.
func SourcesToTableData(counts map[provenance.Source]int) Data {
	sources := []provenance.Source{provenance.SourceWithOwner, provenance.SourceWithoutOwner}
	rows := make([][]string, 0, len(sources))
	for _, source := range sources {
		rows = append(rows, []string{source.String(), FormatNumber(counts[source])})
	}
	return Data{
		Headers:         []string{"Source", "Fields"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// MatchField checks if a field matches any of the provided patterns.
// Supports wildcard matching (e.g., "*_schema" matches "input_schema").
// Matching is case-insensitive for better user experience.
func MatchField(field string, patterns []string) bool {
	if len(patterns) == 0 {
		return true // No patterns means match all
	}

	fieldLower := strings.ToLower(field)
	for _, pattern := range patterns {
		matched, err := filepath.Match(strings.ToLower(pattern), fieldLower)
		if err == nil && matched {
			return true
		}
	}

	return false
}
