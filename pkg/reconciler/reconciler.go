// Package reconciler merges duplicate catalog records into one canonical
// record per base id.
//
// The short-id record is the base. The vendor-qualified record contributes
// its id, its price when it has one, and every other field through an
// ordered list of precedence rules (see DefaultRules). Schema fields are
// protected and always come from the base.
package reconciler

import (
	"slices"
	"strings"

	"github.com/agentstation/modelmerge/pkg/grouping"
	"github.com/agentstation/modelmerge/pkg/provenance"
	"github.com/agentstation/modelmerge/pkg/records"
)

// Decision records where one field of a merged record came from.
type Decision = provenance.Decision

// Resolver merges duplicate groups.
type Resolver struct {
	pricingField string
	protected    map[string]bool
	rules        []Rule
	provenance   bool
}

// New creates a Resolver with options.
func New(opts ...Option) (*Resolver, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	protected := make(map[string]bool, len(options.protected))
	for _, f := range options.protected {
		protected[f] = true
	}

	return &Resolver{
		pricingField: options.pricingField,
		protected:    protected,
		rules:        slices.Clone(options.rules),
		provenance:   options.provenance,
	}, nil
}

// Rules returns the precedence rules in evaluation order.
func (r *Resolver) Rules() []Rule {
	return slices.Clone(r.rules)
}

// IsProtected reports whether field is a protected schema field.
func (r *Resolver) IsProtected(field string) bool {
	return r.protected[field]
}

// Group merges one duplicate group. Slots holding several candidates are
// narrowed by policy first. A group with a single filled slot passes through
// as a copy of its record.
func (r *Resolver) Group(g *grouping.Group, policy grouping.Policy) (records.Record, []Decision, error) {
	withOwner, withoutOwner, err := g.Resolve(policy)
	if err != nil {
		return nil, nil, err
	}

	switch {
	case withOwner != nil && withoutOwner != nil:
		merged, decisions := r.Pair(withOwner, withoutOwner)
		return merged, decisions, nil
	case withOwner != nil:
		return withOwner.Clone(), r.passThrough(withOwner, provenance.SourceWithOwner), nil
	default:
		return withoutOwner.Clone(), r.passThrough(withoutOwner, provenance.SourceWithoutOwner), nil
	}
}

// Pair merges a vendor-qualified record into a copy of its short-id
// counterpart. Neither input is modified. Decisions are nil unless
// provenance is enabled.
func (r *Resolver) Pair(withOwner, withoutOwner records.Record) (records.Record, []Decision) {
	merged := withoutOwner.Clone()
	if merged == nil {
		merged = records.Record{}
	}

	var trail map[string]Decision
	if r.provenance {
		trail = make(map[string]Decision, len(merged)+len(withOwner))
		for key := range merged {
			trail[key] = Decision{Field: key, Source: provenance.SourceWithoutOwner, Rule: RuleBase}
		}
	}
	track := func(key string, source provenance.Source, rule string) {
		if trail != nil {
			trail[key] = Decision{Field: key, Source: source, Rule: rule}
		}
	}

	merged[records.FieldID] = withOwner[records.FieldID]
	track(records.FieldID, provenance.SourceWithOwner, RuleIdentity)

	pricingApplied := false
	if withOwner.Truthy(r.pricingField) {
		merged[r.pricingField] = records.CloneValue(withOwner[r.pricingField])
		track(r.pricingField, provenance.SourceWithOwner, RulePricingPrecedence)
		pricingApplied = true
	}

	for _, key := range withOwner.Keys() {
		if key == records.FieldID || (pricingApplied && key == r.pricingField) {
			continue
		}

		base, present := merged[key]
		rule := Decide(r.rules, Field{
			Key:         key,
			Base:        base,
			BasePresent: present,
			Incoming:    withOwner[key],
			Protected:   r.protected[key],
		})

		if rule.Outcome.Changes() {
			merged[key] = records.CloneValue(withOwner[key])
			track(key, provenance.SourceWithOwner, rule.Name)
		} else if present {
			track(key, provenance.SourceWithoutOwner, rule.Name)
		}
	}

	return merged, sortedDecisions(trail)
}

func (r *Resolver) passThrough(rec records.Record, source provenance.Source) []Decision {
	if !r.provenance {
		return nil
	}
	decisions := make([]Decision, 0, len(rec))
	for _, key := range rec.Keys() {
		decisions = append(decisions, Decision{Field: key, Source: source, Rule: RulePassThrough})
	}
	return decisions
}

func sortedDecisions(trail map[string]Decision) []Decision {
	if trail == nil {
		return nil
	}
	out := make([]Decision, 0, len(trail))
	for _, d := range trail {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b Decision) int {
		return strings.Compare(a.Field, b.Field)
	})
	return out
}
