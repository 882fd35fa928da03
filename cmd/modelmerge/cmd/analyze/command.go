// Package analyze provides the analyze command implementation.
package analyze

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/modelmerge/internal/cmd/application"
	"github.com/agentstation/modelmerge/internal/cmd/output"
	"github.com/agentstation/modelmerge/internal/cmd/table"
	"github.com/agentstation/modelmerge/internal/persistence"
	"github.com/agentstation/modelmerge/pkg/analyzer"
	"github.com/agentstation/modelmerge/pkg/constants"
	"github.com/agentstation/modelmerge/pkg/grouping"
	"github.com/agentstation/modelmerge/pkg/records"
)

// Report is the structured outcome of an analyze command.
type Report struct {
	Input       string                          `json:"input" yaml:"input"`
	Records     int                             `json:"records" yaml:"records"`
	Skipped     int                             `json:"skipped" yaml:"skipped"`
	Groups      int                             `json:"groups" yaml:"groups"`
	Policy      grouping.Policy                 `json:"policy" yaml:"policy"`
	WouldReject bool                            `json:"would_reject" yaml:"would_reject"`
	Analysis    *analyzer.Report                `json:"analysis" yaml:"analysis"`
	Collisions  []grouping.Collision            `json:"collisions,omitempty" yaml:"collisions,omitempty"`
	Duplicates  map[string][]analyzer.Duplicate `json:"exact_duplicates" yaml:"exact_duplicates"`
}

// duplicateFields are scanned for exact duplicates, in display order.
var duplicateFields = []string{records.FieldID, records.FieldReplicateName}

// NewCommand creates the analyze command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [input]",
		Short: "Report how duplicate records differ without merging",
		Args:  cobra.MaximumNArgs(1),
		Long: `Analyze groups records by base id and compares the field sets of every
duplicate pair: fields both records share, fields only the vendor-qualified
record has, and fields only the short-id record has.

It also lists exact duplicates, records that share the same id or the same
replicate_name. Nothing is written.`,
		Example: `  modelmerge analyze
  modelmerge analyze models.json -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := constants.DefaultInputFile
			if len(args) > 0 {
				input = args[0]
			}
			return ExecuteAnalyze(cmd.Context(), app, input, cmd.OutOrStdout())
		},
	}
}

// ExecuteAnalyze loads input and prints the analysis.
func ExecuteAnalyze(_ context.Context, app application.Application, input string, w io.Writer) error {
	logger := app.Logger()

	recs, err := persistence.Load(input)
	if err != nil {
		return err
	}

	p, err := app.Pipeline()
	if err != nil {
		return err
	}

	idx := grouping.Build(recs, p.Owners())
	collisions := idx.Collisions()

	// Reject only governs merging. Analysis still compares the first
	// candidate of each slot so the collisions can be inspected.
	policy := p.Policy()
	if policy == grouping.PolicyReject {
		policy = grouping.PolicyFirstSeen
	}
	report, err := analyzer.Analyze(idx, policy)
	if err != nil {
		return err
	}

	result := &Report{
		Input:       input,
		Records:     idx.Input(),
		Skipped:     idx.Skipped(),
		Groups:      idx.Len(),
		Policy:      p.Policy(),
		WouldReject: p.Policy() == grouping.PolicyReject && len(collisions) > 0,
		Analysis:    report,
		Collisions:  collisions,
		Duplicates:  make(map[string][]analyzer.Duplicate, len(duplicateFields)),
	}
	for _, field := range duplicateFields {
		result.Duplicates[field] = analyzer.ExactDuplicates(recs, field)
	}

	logger.Debug().
		Int("records", result.Records).
		Int("pairs", len(report.Pairs)).
		Int("collisions", len(result.Collisions)).
		Msg("Analysis complete")
	if result.WouldReject {
		logger.Warn().
			Int("collisions", len(collisions)).
			Msg("Merge would fail under the reject policy")
	}

	return display(w, app.OutputFormat(), result)
}

func display(w io.Writer, explicit string, r *Report) error {
	format, err := output.Resolve(explicit)
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return output.NewFormatter(format).Format(w, r)
	}

	if err := output.Write(w, format, "field differences", table.AnalysisToTableData(r.Analysis), nil); err != nil {
		return err
	}
	if example, ok := r.Analysis.Example(); ok {
		if err := output.Write(w, format, "example duplicate pair", table.PairsToTableData([]analyzer.PairDelta{example}), nil); err != nil {
			return err
		}
	}
	if len(r.Collisions) > 0 {
		if err := output.Write(w, format, "ambiguous groups", table.CollisionsToTableData(r.Collisions), nil); err != nil {
			return err
		}
	}
	for _, field := range duplicateFields {
		dups := r.Duplicates[field]
		if len(dups) == 0 {
			continue
		}
		if err := output.Write(w, format, "exact duplicates by "+field, table.DuplicatesToTableData(field, dups), nil); err != nil {
			return err
		}
	}
	if r.WouldReject {
		_, err = fmt.Fprintf(w, "\nmerge --policy %s would fail: %d ambiguous slot(s)\n", r.Policy, len(r.Collisions))
	}
	return err
}
