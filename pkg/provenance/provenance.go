// Package provenance provides field-level tracking of merge decisions.
//
// Every field of a merged record can be traced back to the slot it came from
// and the precedence rule that put it there. Decisions are grouped per base
// id and can be rendered as a report or persisted as YAML next to the merged
// catalog.
package provenance

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/modelmerge/pkg/constants"
	"github.com/agentstation/modelmerge/pkg/errors"
)

// Source names the slot a merged value was taken from.
type Source string

const (
	// SourceWithOwner is the vendor-qualified record.
	SourceWithOwner Source = "with_owner"
	// SourceWithoutOwner is the short-id record.
	SourceWithoutOwner Source = "without_owner"
)

// String returns the string representation of a source.
func (s Source) String() string {
	return string(s)
}

// Decision records where one field of a merged record came from.
type Decision struct {
	Field  string `json:"field" yaml:"field"`
	Source Source `json:"source" yaml:"source"`
	Rule   string `json:"rule" yaml:"rule"`
}

// Map tracks decisions for multiple merged records, keyed by base id.
type Map map[string][]Decision

// Tracker collects decisions during a merge run.
type Tracker interface {
	// Track records the decisions made for a base id
	Track(baseID string, decisions ...Decision)

	// Map returns a copy of the collected decisions
	Map() Map
}

// tracker is the default implementation.
type tracker struct {
	decisions Map
	enabled   bool
}

// NewTracker creates a new decision tracker. A disabled tracker ignores
// Track and returns a nil Map.
func NewTracker(enabled bool) Tracker {
	return &tracker{
		decisions: make(Map),
		enabled:   enabled,
	}
}

// Track records decisions for a base id.
func (p *tracker) Track(baseID string, decisions ...Decision) {
	if !p.enabled || len(decisions) == 0 {
		return
	}
	p.decisions[baseID] = append(p.decisions[baseID], decisions...)
}

// Map returns the complete decision map.
func (p *tracker) Map() Map {
	if !p.enabled {
		return nil
	}
	result := make(Map, len(p.decisions))
	for k, v := range p.decisions {
		result[k] = slices.Clone(v)
	}
	return result
}

// Counts tallies decisions by source across the map.
func (m Map) Counts() map[Source]int {
	counts := make(map[Source]int)
	for _, decisions := range m {
		for _, d := range decisions {
			counts[d.Source]++
		}
	}
	return counts
}

// String generates a human-readable provenance report.
func (m Map) String() string {
	var sb strings.Builder

	sb.WriteString("Provenance Report\n")
	sb.WriteString("=================\n\n")

	// Sort base ids for consistent output
	baseIDs := make([]string, 0, len(m))
	for baseID := range m {
		baseIDs = append(baseIDs, baseID)
	}
	sort.Strings(baseIDs)

	for _, baseID := range baseIDs {
		sb.WriteString(baseID)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("-", 40))
		sb.WriteString("\n")
		for _, d := range m[baseID] {
			sb.WriteString(fmt.Sprintf("  %s: %s (%s)\n", d.Field, d.Source, d.Rule))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// ProvenanceFile represents a provenance file stored on disk.
//
//nolint:revive // Name is intentionally descriptive for external clarity
type ProvenanceFile struct {
	RunID      string `yaml:"run_id,omitempty"`
	Provenance Map    `yaml:"provenance"`
}

// Save writes the provenance file as YAML.
func Save(path string, pf *ProvenanceFile) error {
	data, err := yaml.MarshalWithOptions(pf, yaml.Indent(2), yaml.IndentSequence(false))
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("mkdir", dir, err)
		}
	}

	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// Load reads provenance data from a YAML file.
// Returns nil, nil if the file doesn't exist (not an error).
func Load(path string) (*ProvenanceFile, error) {
	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var pf ProvenanceFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}

	return &pf, nil
}

// PathFor derives the provenance file path for a merged output file, e.g.
// "merged.json" becomes "merged.provenance.yaml".
func PathFor(output string) string {
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + ".provenance.yaml"
}
