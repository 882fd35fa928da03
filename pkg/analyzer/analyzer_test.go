package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modelmerge/pkg/analyzer"
	"github.com/agentstation/modelmerge/pkg/errors"
	"github.com/agentstation/modelmerge/pkg/grouping"
	"github.com/agentstation/modelmerge/pkg/owners"
	"github.com/agentstation/modelmerge/pkg/records"
)

func catalog() []records.Record {
	return []records.Record{
		{"id": "veo-3-fast", "input_schema": map[string]any{"x": 1}, "name": "Veo 3 Fast", "schema_parameters": []any{"prompt"}},
		{"id": "google-veo-3-fast", "price_per_sec": 0.75, "name": "Veo 3 Fast", "replicate_name": "google/veo-3-fast"},
		{"id": "sora-2-pro", "input_schema": map[string]any{}, "duration": 10},
		{"id": "openai-sora-2-pro", "price_per_sec": 0.5, "cover": "sora.png"},
		{"id": "ray-2"},
	}
}

func TestAnalyze(t *testing.T) {
	input := catalog()
	idx := grouping.Build(input, owners.Default())

	report, err := analyzer.Analyze(idx, grouping.PolicyLastSeen)
	require.NoError(t, err)

	assert.Equal(t, 5, report.Total)
	require.Len(t, report.Pairs, 2)

	veo := report.Pairs[0]
	assert.Equal(t, "veo-3-fast", veo.BaseID)
	assert.Equal(t, "google-veo-3-fast", veo.WithOwnerID)
	assert.Equal(t, "veo-3-fast", veo.WithoutOwnerID)
	assert.Equal(t, []string{"id", "name"}, veo.Common)
	assert.Equal(t, []string{"price_per_sec", "replicate_name"}, veo.OnlyWithOwner)
	assert.Equal(t, []string{"input_schema", "schema_parameters"}, veo.OnlyWithoutOwner)

	assert.Equal(t, []string{"id", "name"}, report.Common)
	assert.Equal(t, []string{"cover", "price_per_sec", "replicate_name"}, report.OnlyWithOwner)
	assert.Equal(t, []string{"duration", "input_schema", "schema_parameters"}, report.OnlyWithoutOwner)

	example, ok := report.Example()
	require.True(t, ok)
	assert.Equal(t, veo, example)

	// Read-only: inputs are untouched.
	assert.Equal(t, catalog(), input)
}

func TestAnalyzeNoPairs(t *testing.T) {
	idx := grouping.Build([]records.Record{{"id": "ray-2"}}, owners.Default())

	report, err := analyzer.Analyze(idx, grouping.PolicyLastSeen)
	require.NoError(t, err)
	assert.Empty(t, report.Pairs)
	assert.Empty(t, report.Common)

	_, ok := report.Example()
	assert.False(t, ok)

	var nilReport *analyzer.Report
	_, ok = nilReport.Example()
	assert.False(t, ok)
}

func TestAnalyzeRejectPolicy(t *testing.T) {
	idx := grouping.Build([]records.Record{
		{"id": "veo-3"},
		{"id": "veo-3"},
		{"id": "google-veo-3"},
	}, owners.Default())

	_, err := analyzer.Analyze(idx, grouping.PolicyReject)
	require.Error(t, err)
	assert.True(t, errors.IsAmbiguousGroup(err))
}

func TestCompare(t *testing.T) {
	delta := analyzer.Compare("x", records.Record{"id": "acme-x", "a": 1}, records.Record{"id": "x", "b": 2})
	assert.Equal(t, []string{"id"}, delta.Common)
	assert.Equal(t, []string{"a"}, delta.OnlyWithOwner)
	assert.Equal(t, []string{"b"}, delta.OnlyWithoutOwner)
}

func TestExactDuplicates(t *testing.T) {
	input := []records.Record{
		{"id": "veo-3", "replicate_name": "google/veo-3"},
		{"id": "veo-3", "replicate_name": "google/veo-3"},
		{"id": "kling", "replicate_name": ""},
		{"id": "kling-v2"},
		{"id": "alpha", "replicate_name": ""},
		{"id": "alpha"},
		{"id": "alpha"},
	}

	byID := analyzer.ExactDuplicates(input, records.FieldID)
	require.Len(t, byID, 2)
	assert.Equal(t, "alpha", byID[0].Value)
	assert.Equal(t, 3, byID[0].Count)
	assert.Equal(t, "veo-3", byID[1].Value)
	assert.Len(t, byID[1].Items, 2)

	byName := analyzer.ExactDuplicates(input, records.FieldReplicateName)
	require.Len(t, byName, 1)
	assert.Equal(t, "google/veo-3", byName[0].Value)

	assert.Empty(t, analyzer.ExactDuplicates(nil, records.FieldID))
}
