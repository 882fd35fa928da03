package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modelmerge/internal/cmd/application"
	"github.com/agentstation/modelmerge/pkg/grouping"
	"github.com/agentstation/modelmerge/pkg/pipeline"
)

func rejectApp(format string) *application.Mock {
	return &application.Mock{
		OutputFormatFunc: func() string { return format },
		PipelineFunc: func(opts ...pipeline.Option) (*pipeline.Pipeline, error) {
			return pipeline.New(append([]pipeline.Option{pipeline.WithPolicy(grouping.PolicyReject)}, opts...)...)
		},
	}
}

const catalog = `[
  {"id": "veo-3-fast", "input_schema": {"x": 1}, "replicate_name": "google/veo-3-fast"},
  {"id": "google-veo-3-fast", "price_per_sec": 0.75, "replicate_name": "google/veo-3-fast"},
  {"id": "ray-2"},
  {"id": "ray-2"}
]`

func writeInput(t *testing.T) string {
	t.Helper()
	input := filepath.Join(t.TempDir(), "models.json")
	require.NoError(t, os.WriteFile(input, []byte(catalog), 0o600))
	return input
}

func TestExecuteAnalyzeJSON(t *testing.T) {
	input := writeInput(t)
	app := &application.Mock{OutputFormatFunc: func() string { return "json" }}

	var buf bytes.Buffer
	require.NoError(t, ExecuteAnalyze(context.Background(), app, input, &buf))

	var report Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, 4, report.Records)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 2, report.Groups)
	assert.Equal(t, grouping.PolicyLastSeen, report.Policy)
	assert.False(t, report.WouldReject)
	require.NotNil(t, report.Analysis)
	require.Len(t, report.Analysis.Pairs, 1)
	assert.Equal(t, "veo-3-fast", report.Analysis.Pairs[0].BaseID)
	assert.Equal(t, []string{"price_per_sec"}, report.Analysis.Pairs[0].OnlyWithOwner)

	require.Len(t, report.Collisions, 1)
	assert.Equal(t, "ray-2", report.Collisions[0].BaseID)

	require.Len(t, report.Duplicates["id"], 1)
	assert.Equal(t, "ray-2", report.Duplicates["id"][0].Value)
	require.Len(t, report.Duplicates["replicate_name"], 1)
	assert.Equal(t, 2, report.Duplicates["replicate_name"][0].Count)

	// Read-only: input is untouched.
	data, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, catalog, string(data))
}

func TestExecuteAnalyzeTable(t *testing.T) {
	input := writeInput(t)

	var buf bytes.Buffer
	require.NoError(t, ExecuteAnalyze(context.Background(), &application.Mock{}, input, &buf))

	out := buf.String()
	assert.Contains(t, out, "Field Differences")
	assert.Contains(t, out, "Example Duplicate Pair")
	assert.Contains(t, out, "Ambiguous Groups")
	assert.Contains(t, out, "google/veo-3-fast")
}

func TestExecuteAnalyzeRejectPolicy(t *testing.T) {
	input := writeInput(t)

	var buf bytes.Buffer
	require.NoError(t, ExecuteAnalyze(context.Background(), rejectApp("json"), input, &buf))

	var report Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, grouping.PolicyReject, report.Policy)
	assert.True(t, report.WouldReject)
	require.Len(t, report.Collisions, 1)
	assert.Equal(t, []string{"ray-2", "ray-2"}, report.Collisions[0].IDs)
	require.NotNil(t, report.Analysis)
	assert.Len(t, report.Analysis.Pairs, 1)

	buf.Reset()
	require.NoError(t, ExecuteAnalyze(context.Background(), rejectApp("table"), input, &buf))
	assert.Contains(t, buf.String(), "Ambiguous Groups")
	assert.Contains(t, buf.String(), "merge --policy reject would fail: 1 ambiguous slot(s)")
}

func TestExecuteAnalyzeErrors(t *testing.T) {
	app := &application.Mock{OutputFormatFunc: func() string { return "xml" }}
	assert.Error(t, ExecuteAnalyze(context.Background(), app, writeInput(t), &bytes.Buffer{}))

	missing := filepath.Join(t.TempDir(), "missing.json")
	assert.Error(t, ExecuteAnalyze(context.Background(), &application.Mock{}, missing, &bytes.Buffer{}))
}
