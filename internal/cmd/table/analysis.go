package table

import (
	"strconv"

	"github.com/agentstation/modelmerge/pkg/analyzer"
	"github.com/agentstation/modelmerge/pkg/constants"
)

// AnalysisToTableData summarizes the global field sets of a pair analysis.
func AnalysisToTableData(report *analyzer.Report) Data {
	var rows [][]string
	if report != nil {
		rows = [][]string{
			{"Common", strconv.Itoa(len(report.Common)), FormatList(report.Common, 0)},
			{"Only with owner", strconv.Itoa(len(report.OnlyWithOwner)), FormatList(report.OnlyWithOwner, 0)},
			{"Only without owner", strconv.Itoa(len(report.OnlyWithoutOwner)), FormatList(report.OnlyWithoutOwner, 0)},
		}
	}

	return Data{
		Headers:         []string{"Fields", "Count", "Names"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignLeft},
	}
}

// PairsToTableData lists duplicate pairs with a truncated view of the fields
// unique to each side.
func PairsToTableData(pairs []analyzer.PairDelta) Data {
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{
			p.BaseID,
			p.WithOwnerID,
			p.WithoutOwnerID,
			FormatList(p.OnlyWithOwner, constants.ExampleFieldLimit),
			FormatList(p.OnlyWithoutOwner, constants.ExampleFieldLimit),
		})
	}

	return Data{
		Headers: []string{"Base ID", "With Owner", "Without Owner", "Only With Owner", "Only Without Owner"},
		Rows:    rows,
	}
}

// DuplicatesToTableData lists exact duplicates of a field, capped at
// constants.DuplicateListLimit rows plus a trailing count row.
func DuplicatesToTableData(field string, dups []analyzer.Duplicate) Data {
	limit := min(len(dups), constants.DuplicateListLimit)

	rows := make([][]string, 0, limit+1)
	for _, d := range dups[:limit] {
		rows = append(rows, []string{d.Value, strconv.Itoa(d.Count)})
	}
	if len(dups) > limit {
		rows = append(rows, []string{"... and " + strconv.Itoa(len(dups)-limit) + " more", ""})
	}

	return Data{
		Headers:         []string{field, "Count"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}
