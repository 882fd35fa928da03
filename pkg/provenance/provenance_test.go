package provenance

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker(t *testing.T) {
	tr := NewTracker(true)
	tr.Track("veo-3-fast",
		Decision{Field: "id", Source: SourceWithOwner, Rule: "identity"},
		Decision{Field: "input_schema", Source: SourceWithoutOwner, Rule: "base"},
	)
	tr.Track("sora-2")

	m := tr.Map()
	require.Len(t, m, 1)
	assert.Len(t, m["veo-3-fast"], 2)
	assert.NotContains(t, m, "sora-2")

	m["veo-3-fast"][0].Field = "mutated"
	assert.Equal(t, "id", tr.Map()["veo-3-fast"][0].Field)

	assert.Equal(t, map[Source]int{SourceWithOwner: 1, SourceWithoutOwner: 1}, m.Counts())
}

func TestTrackerDisabled(t *testing.T) {
	tr := NewTracker(false)
	tr.Track("veo-3", Decision{Field: "id", Source: SourceWithOwner, Rule: "identity"})

	assert.Nil(t, tr.Map())
	assert.Empty(t, tr.Map().Counts())
}

func TestMapString(t *testing.T) {
	m := Map{
		"b": {{Field: "id", Source: SourceWithOwner, Rule: "identity"}},
		"a": {{Field: "name", Source: SourceWithoutOwner, Rule: "base"}},
	}
	out := m.String()
	assert.Contains(t, out, "Provenance Report")
	assert.Contains(t, out, "id: with_owner (identity)")
	assert.Less(t, strings.Index(out, "\na\n"), strings.Index(out, "\nb\n"))
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "merged.provenance.yaml")
	pf := &ProvenanceFile{
		RunID: "run-1",
		Provenance: Map{
			"veo-3": {{Field: "price_per_sec", Source: SourceWithOwner, Rule: "pricing-precedence"}},
		},
	}

	require.NoError(t, Save(path, pf))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, pf, loaded)
}

func TestLoadMissing(t *testing.T) {
	pf, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.NoError(t, err)
	assert.Nil(t, pf)
}

func TestPathFor(t *testing.T) {
	assert.Equal(t, "merged.provenance.yaml", PathFor("merged.json"))
	assert.Equal(t, filepath.Join("out", "m.provenance.yaml"), PathFor(filepath.Join("out", "m.yaml")))
	assert.Equal(t, "merged.provenance.yaml", PathFor("merged"))
}
