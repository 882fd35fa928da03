package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modelmerge/pkg/analyzer"
	"github.com/agentstation/modelmerge/pkg/grouping"
	"github.com/agentstation/modelmerge/pkg/pipeline"
	"github.com/agentstation/modelmerge/pkg/provenance"
)

func TestFormatNumber(t *testing.T) {
	tests := map[int]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		123456:  "123,456",
		1234567: "1,234,567",
		-1234:   "-1,234",
	}
	for n, want := range tests {
		assert.Equal(t, want, FormatNumber(n))
	}
}

func TestFormatList(t *testing.T) {
	assert.Equal(t, "-", FormatList(nil, 5))
	assert.Equal(t, "a, b", FormatList([]string{"a", "b"}, 5))
	assert.Equal(t, "a, b ... and 1 more", FormatList([]string{"a", "b", "c"}, 2))
	assert.Equal(t, "a, b, c", FormatList([]string{"a", "b", "c"}, 0))
}

func TestSummaryToTableData(t *testing.T) {
	data := SummaryToTableData(pipeline.Summary{Input: 1200, Output: 900, DuplicatePairs: 300})
	assert.Equal(t, []string{"Metric", "Count"}, data.Headers)
	require.Len(t, data.Rows, 8)
	assert.Equal(t, []string{"Input records", "1,200"}, data.Rows[0])
	assert.Equal(t, []string{"Merged records", "900"}, data.Rows[5])
}

func TestCollisionsToTableData(t *testing.T) {
	data := CollisionsToTableData([]grouping.Collision{
		{BaseID: "veo-3", Slot: grouping.SlotWithOwner, IDs: []string{"google-veo-3", "google-veo-3"}},
	})
	require.Len(t, data.Rows, 1)
	assert.Equal(t, []string{"veo-3", "with_owner", "2", "google-veo-3, google-veo-3"}, data.Rows[0])
}

func TestAnalysisToTableData(t *testing.T) {
	report := &analyzer.Report{
		Common:           []string{"id", "name"},
		OnlyWithOwner:    []string{"price_per_sec"},
		OnlyWithoutOwner: nil,
	}
	data := AnalysisToTableData(report)
	require.Len(t, data.Rows, 3)
	assert.Equal(t, []string{"Common", "2", "id, name"}, data.Rows[0])
	assert.Equal(t, []string{"Only without owner", "0", "-"}, data.Rows[2])

	assert.Empty(t, AnalysisToTableData(nil).Rows)
}

func TestPairsToTableData(t *testing.T) {
	data := PairsToTableData([]analyzer.PairDelta{{
		BaseID:           "veo-3",
		WithOwnerID:      "google-veo-3",
		WithoutOwnerID:   "veo-3",
		OnlyWithOwner:    []string{"a", "b", "c", "d", "e", "f"},
		OnlyWithoutOwner: []string{"input_schema"},
	}})
	require.Len(t, data.Rows, 1)
	assert.Equal(t, "a, b, c, d, e ... and 1 more", data.Rows[0][3])
	assert.Equal(t, "input_schema", data.Rows[0][4])
}

func TestDuplicatesToTableData(t *testing.T) {
	var dups []analyzer.Duplicate
	for _, v := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		dups = append(dups, analyzer.Duplicate{Value: v, Count: 2})
	}

	data := DuplicatesToTableData("id", dups)
	assert.Equal(t, []string{"id", "Count"}, data.Headers)
	require.Len(t, data.Rows, 6)
	assert.Equal(t, []string{"a", "2"}, data.Rows[0])
	assert.Equal(t, "... and 2 more", data.Rows[5][0])

	assert.Empty(t, DuplicatesToTableData("id", nil).Rows)
}

func TestProvenanceToTableData(t *testing.T) {
	m := provenance.Map{
		"veo-3": {
			{Field: "id", Source: provenance.SourceWithOwner, Rule: "identity"},
			{Field: "input_schema", Source: provenance.SourceWithoutOwner, Rule: "base"},
		},
		"ray-2": {
			{Field: "id", Source: provenance.SourceWithoutOwner, Rule: "pass-through"},
		},
	}

	data := ProvenanceToTableData(m, nil)
	require.Len(t, data.Rows, 3)
	assert.Equal(t, []string{"ray-2", "id", "without_owner", "pass-through"}, data.Rows[0])
	assert.Equal(t, []string{"veo-3", "id", "with_owner", "identity"}, data.Rows[1])
	assert.Equal(t, "", data.Rows[2][0])

	filtered := ProvenanceToTableData(m, []string{"*_SCHEMA"})
	require.Len(t, filtered.Rows, 1)
	assert.Equal(t, []string{"veo-3", "input_schema", "without_owner", "base"}, filtered.Rows[0])
}

func TestSourcesToTableData(t *testing.T) {
	data := SourcesToTableData(map[provenance.Source]int{provenance.SourceWithOwner: 1200})
	assert.Equal(t, [][]string{
		{"with_owner", "1,200"},
		{"without_owner", "0"},
	}, data.Rows)
}

func TestMatchField(t *testing.T) {
	assert.True(t, MatchField("anything", nil))
	assert.True(t, MatchField("input_schema", []string{"input_*"}))
	assert.False(t, MatchField("price_per_sec", []string{"*_schema"}))
}
