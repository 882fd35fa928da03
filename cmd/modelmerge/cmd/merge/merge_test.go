package merge

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
	"github.com/agentstation/modelmerge/internal/persistence"
	"github.com/agentstation/modelmerge/pkg/errors"
	"github.com/agentstation/modelmerge/pkg/pipeline"
	"github.com/agentstation/modelmerge/pkg/provenance"
)

const catalog = `[
  {"id": "veo-3-fast", "input_schema": {"x": 1}, "price_per_sec": null, "cover": ""},
  {"id": "google-veo-3-fast", "input_schema": {"x": 2}, "price_per_sec": 0.75, "cover": "veo.png"},
  {"id": "ray-2", "name": "Ray 2"},
  {"name": "no id"}
]`

func writeInput(t *testing.T, content string) (dir, input string) {
	t.Helper()
	dir = t.TempDir()
	input = filepath.Join(dir, "models.json")
	require.NoError(t, os.WriteFile(input, []byte(content), 0o600))
	return dir, input
}

func never(string) bool { return false }

func jsonApp() *application.Mock {
	return &application.Mock{OutputFormatFunc: func() string { return "json" }}
}

func TestExecuteMerge(t *testing.T) {
	dir, input := writeInput(t, catalog)
	output := filepath.Join(dir, "merged.json")

	var buf bytes.Buffer
	err := ExecuteMerge(context.Background(), jsonApp(), &Flags{}, never, input, output, &buf)
	require.NoError(t, err)

	merged, err := persistence.Load(output)
	require.NoError(t, err)
	require.Len(t, merged, 2)

	veo := merged[0]
	assert.Equal(t, "google-veo-3-fast", veo["id"])
	assert.Equal(t, json.Number("0.75"), veo["price_per_sec"])
	assert.Equal(t, map[string]any{"x": json.Number("1")}, veo["input_schema"])
	assert.Equal(t, "veo.png", veo["cover"])
	assert.Equal(t, "ray-2", merged[1]["id"])

	var report Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, output, report.Output)
	assert.Empty(t, report.Provenance)
	assert.Equal(t, pipeline.Summary{
		Input:          4,
		Skipped:        1,
		Groups:         2,
		DuplicatePairs: 1,
		Output:         2,
		WithSchema:     1,
		WithPricing:    1,
	}, report.Summary)
	assert.NotEmpty(t, report.RunID)
	assert.Empty(t, report.Sources)

	_, err = os.Stat(provenance.PathFor(output))
	assert.True(t, os.IsNotExist(err), "provenance file should not be written by default")
}

func TestExecuteMergeDryRun(t *testing.T) {
	dir, input := writeInput(t, catalog)
	output := filepath.Join(dir, "merged.json")

	var buf bytes.Buffer
	err := ExecuteMerge(context.Background(), jsonApp(), &Flags{DryRun: true}, never, input, output, &buf)
	require.NoError(t, err)

	_, err = os.Stat(output)
	assert.True(t, os.IsNotExist(err), "dry run must not write output")

	var report Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.True(t, report.DryRun)
	assert.Empty(t, report.Output)
	assert.Equal(t, 2, report.Summary.Output)
}

func TestExecuteMergeProvenanceAndAnalysis(t *testing.T) {
	dir, input := writeInput(t, catalog)
	output := filepath.Join(dir, "merged.yaml")

	changed := func(name string) bool { return name == "provenance" || name == "analyze" }
	flags := &Flags{Analyze: true, Provenance: true}

	var buf bytes.Buffer
	err := ExecuteMerge(context.Background(), jsonApp(), flags, changed, input, output, &buf)
	require.NoError(t, err)

	merged, err := persistence.Load(output)
	require.NoError(t, err)
	assert.Len(t, merged, 2)

	pf, err := provenance.Load(provenance.PathFor(output))
	require.NoError(t, err)
	require.NotNil(t, pf)
	assert.NotEmpty(t, pf.RunID)

	var price *provenance.Decision
	for i, d := range pf.Provenance["veo-3-fast"] {
		if d.Field == "price_per_sec" {
			price = &pf.Provenance["veo-3-fast"][i]
		}
	}
	require.NotNil(t, price)
	assert.Equal(t, provenance.SourceWithOwner, price.Source)

	var report Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, provenance.PathFor(output), report.Provenance)
	assert.Equal(t, pf.Provenance.Counts(), report.Sources)
	assert.Positive(t, report.Sources[provenance.SourceWithOwner])
	require.NotNil(t, report.Analysis)
	assert.Len(t, report.Analysis.Pairs, 1)
}

func TestExecuteMergeRejectPolicy(t *testing.T) {
	dir, input := writeInput(t, `[{"id": "veo-3"}, {"id": "veo-3"}, {"id": "google-veo-3"}]`)
	output := filepath.Join(dir, "merged.json")

	app := jsonApp()
	app.PipelineFunc = func(opts ...pipeline.Option) (*pipeline.Pipeline, error) {
		return pipeline.New(append([]pipeline.Option{pipeline.WithPolicy("reject")}, opts...)...)
	}

	var buf bytes.Buffer
	err := ExecuteMerge(context.Background(), app, &Flags{}, never, input, output, &buf)
	require.Error(t, err)
	assert.True(t, errors.IsAmbiguousGroup(err))

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "rejected runs must not write output")
}

func TestExecuteMergeMissingInput(t *testing.T) {
	dir := t.TempDir()
	err := ExecuteMerge(context.Background(), jsonApp(), &Flags{}, never,
		filepath.Join(dir, "missing.json"), filepath.Join(dir, "out.json"), &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestExecuteMergeTable(t *testing.T) {
	dir, input := writeInput(t, catalog)
	output := filepath.Join(dir, "merged.json")

	app := &application.Mock{}
	flags := &Flags{Provenance: true, Fields: []string{"price*"}}
	changed := func(name string) bool { return name == "provenance" }

	var buf bytes.Buffer
	require.NoError(t, ExecuteMerge(context.Background(), app, flags, changed, input, output, &buf))

	out := buf.String()
	assert.Contains(t, out, "Merge Summary")
	assert.Contains(t, out, "Provenance")
	assert.Contains(t, out, "Field Sources")
	assert.Contains(t, out, "price_per_sec")
	assert.Contains(t, out, "Wrote 2 records to "+output)
	assert.Contains(t, out, "Wrote provenance to "+provenance.PathFor(output))
}

func TestNewCommandArgs(t *testing.T) {
	cmd := NewCommand(jsonApp())
	cmd.SetArgs([]string{"a", "b", "c"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())

	for _, name := range []string{"analyze", "provenance", "dry-run", "fields"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %s", name)
	}
}
