package merge

import (
	"fmt"
	"io"

	"github.com/agentstation/modelmerge/internal/cmd/output"
	"github.com/agentstation/modelmerge/internal/cmd/table"
	"github.com/agentstation/modelmerge/pkg/analyzer"
	"github.com/agentstation/modelmerge/pkg/grouping"
	"github.com/agentstation/modelmerge/pkg/pipeline"
	"github.com/agentstation/modelmerge/pkg/provenance"
)

// Report is the structured outcome of a merge command.
type Report struct {
	RunID      string                    `json:"run_id" yaml:"run_id"`
	Input      string                    `json:"input" yaml:"input"`
	Output     string                    `json:"output,omitempty" yaml:"output,omitempty"`
	Provenance string                    `json:"provenance,omitempty" yaml:"provenance,omitempty"`
	DryRun     bool                      `json:"dry_run" yaml:"dry_run"`
	Summary    pipeline.Summary          `json:"summary" yaml:"summary"`
	Sources    map[provenance.Source]int `json:"field_sources,omitempty" yaml:"field_sources,omitempty"`
	Collisions []grouping.Collision      `json:"collisions,omitempty" yaml:"collisions,omitempty"`
	Analysis   *analyzer.Report          `json:"analysis,omitempty" yaml:"analysis,omitempty"`

	decisions provenance.Map
	fields    []string
}

// displayResults renders the report. Structured formats emit the report as a
// single document; the table format prints one section per concern.
func displayResults(w io.Writer, explicit string, report *Report) error {
	format, err := output.Resolve(explicit)
	if err != nil {
		return err
	}

	if format != output.FormatTable {
		return output.NewFormatter(format).Format(w, report)
	}

	if err := output.Write(w, format, "merge summary", table.SummaryToTableData(report.Summary), nil); err != nil {
		return err
	}

	if len(report.Collisions) > 0 {
		if err := output.Write(w, format, "ambiguous groups", table.CollisionsToTableData(report.Collisions), nil); err != nil {
			return err
		}
	}

	if report.Analysis != nil {
		if err := output.Write(w, format, "field differences", table.AnalysisToTableData(report.Analysis), nil); err != nil {
			return err
		}
		if example, ok := report.Analysis.Example(); ok {
			if err := output.Write(w, format, "example duplicate pair", table.PairsToTableData([]analyzer.PairDelta{example}), nil); err != nil {
				return err
			}
		}
	}

	if len(report.Sources) > 0 {
		if err := output.Write(w, format, "field sources", table.SourcesToTableData(report.Sources), nil); err != nil {
			return err
		}
	}

	if len(report.decisions) > 0 && len(report.fields) > 0 {
		if err := output.Write(w, format, "provenance", table.ProvenanceToTableData(report.decisions, report.fields), nil); err != nil {
			return err
		}
	}

	if report.DryRun {
		_, err = fmt.Fprintf(w, "\nDry run: %s\n", report.Summary)
		return err
	}
	if _, err := fmt.Fprintf(w, "\nWrote %d records to %s\n", report.Summary.Output, report.Output); err != nil {
		return err
	}
	if report.Provenance != "" {
		_, err = fmt.Fprintf(w, "Wrote provenance to %s\n", report.Provenance)
	}
	return err
}
