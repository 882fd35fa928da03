// Package pipeline runs the reconciliation engine end to end: it groups
// records by base id, optionally analyzes duplicate pairs, merges every
// group and reports counters for the run.
//
// The pipeline performs no I/O. Loading and saving record files is left to
// the caller.
package pipeline

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/agentstation/modelmerge/pkg/analyzer"
	"github.com/agentstation/modelmerge/pkg/errors"
	"github.com/agentstation/modelmerge/pkg/grouping"
	"github.com/agentstation/modelmerge/pkg/logging"
	"github.com/agentstation/modelmerge/pkg/owners"
	"github.com/agentstation/modelmerge/pkg/provenance"
	"github.com/agentstation/modelmerge/pkg/reconciler"
	"github.com/agentstation/modelmerge/pkg/records"
)

// Pipeline sequences grouping, analysis and merge.
type Pipeline struct {
	owners     owners.Set
	policy     grouping.Policy
	analyze    bool
	provenance bool
	resolver   *reconciler.Resolver
}

// New creates a Pipeline with options.
func New(opts ...Option) (*Pipeline, error) {
	options, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}

	resolverOpts := append(slices.Clone(options.resolver), reconciler.WithProvenance(options.provenance))
	resolver, err := reconciler.New(resolverOpts...)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		owners:     options.owners,
		policy:     options.policy,
		analyze:    options.analyze,
		provenance: options.provenance,
		resolver:   resolver,
	}, nil
}

// Owners returns the owner prefix set in use.
func (p *Pipeline) Owners() owners.Set {
	return p.owners
}

// Policy returns the tie-break policy in use.
func (p *Pipeline) Policy() grouping.Policy {
	return p.policy
}

// Run reconciles recs. Input records are never modified. Merged records
// follow the first-appearance order of their base ids.
func (p *Pipeline) Run(ctx context.Context, recs []records.Record) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.FromContext(ctx)

	logger.Debug().
		Int("records", len(recs)).
		Str("policy", p.policy.String()).
		Int("owners", len(p.owners)).
		Msg("Starting reconciliation")

	// Step 1: group by base id
	groupLog := logging.FromContext(logging.WithOperation(ctx, logging.OperationGroup))
	idx := grouping.Build(recs, p.owners)
	if idx.Skipped() > 0 {
		groupLog.Warn().Int("skipped", idx.Skipped()).Msg("Skipped records without a usable id")
	}

	// Step 2: report collisions and enforce the reject policy
	collisions := idx.Collisions()
	for _, c := range collisions {
		groupLog.Warn().
			Str("base_id", c.BaseID).
			Str("slot", c.Slot).
			Strs("ids", c.IDs).
			Msg("Ambiguous duplicate group")
	}
	if p.policy == grouping.PolicyReject && len(collisions) > 0 {
		return nil, rejectError(collisions)
	}

	result := &Result{
		RunID:      runID,
		Collisions: collisions,
	}

	// Step 3: optional pair analysis
	if p.analyze {
		report, err := analyzer.Analyze(idx, p.policy)
		if err != nil {
			return nil, err
		}
		result.Analysis = report
		logging.FromContext(logging.WithOperation(ctx, logging.OperationAnalyze)).Info().
			Int("pairs", len(report.Pairs)).
			Int("common_fields", len(report.Common)).
			Int("only_with_owner", len(report.OnlyWithOwner)).
			Int("only_without_owner", len(report.OnlyWithoutOwner)).
			Msg("Analyzed duplicate pairs")
	}

	// Step 4: merge every group
	mergeCtx := logging.WithOperation(ctx, logging.OperationMerge)
	tracker := provenance.NewTracker(p.provenance)
	merged := make([]records.Record, 0, idx.Len())
	for _, g := range idx.Groups() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, decisions, err := p.resolver.Group(g, p.policy)
		if err != nil {
			return nil, errors.NewMergeError(grouping.SlotWithOwner, grouping.SlotWithoutOwner, []string{g.BaseID}, err)
		}
		if g.IsPair() {
			logging.FromContext(logging.WithBaseID(mergeCtx, g.BaseID)).Trace().
				Str("id", rec.String(records.FieldID)).
				Msg("Merged duplicate pair")
		}
		tracker.Track(g.BaseID, decisions...)
		merged = append(merged, rec)
	}

	// Step 5: summarize
	result.Records = merged
	result.Provenance = tracker.Map()
	result.Summary = summarize(idx, collisions, merged)

	logger.Info().
		Int("input", result.Summary.Input).
		Int("output", result.Summary.Output).
		Int("duplicate_pairs", result.Summary.DuplicatePairs).
		Int("with_schema", result.Summary.WithSchema).
		Int("with_pricing", result.Summary.WithPricing).
		Msg("Reconciliation complete")

	return result, nil
}

func rejectError(collisions []grouping.Collision) error {
	var baseIDs []string
	for _, c := range collisions {
		if !slices.Contains(baseIDs, c.BaseID) {
			baseIDs = append(baseIDs, c.BaseID)
		}
	}
	first := collisions[0]
	return errors.NewMergeError(
		grouping.SlotWithOwner,
		grouping.SlotWithoutOwner,
		baseIDs,
		errors.NewAmbiguousGroupError(first.BaseID, first.Slot, first.IDs),
	)
}
