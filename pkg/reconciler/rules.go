package reconciler

import (
	"github.com/agentstation/modelmerge/pkg/records"
)

// Outcome is what a rule does with an incoming field.
type Outcome string

const (
	// OutcomeSkip ignores the incoming value.
	OutcomeSkip Outcome = "skip"
	// OutcomeAdd copies an incoming value for a key the base lacks.
	OutcomeAdd Outcome = "add"
	// OutcomeReplace overwrites the base value with the incoming value.
	OutcomeReplace Outcome = "replace"
	// OutcomeKeep retains the base value.
	OutcomeKeep Outcome = "keep"
)

// Changes reports whether the outcome writes the incoming value.
func (o Outcome) Changes() bool {
	return o == OutcomeAdd || o == OutcomeReplace
}

// Field is the input to a rule: one key of the owner-prefixed record
// compared against the merged record built so far.
type Field struct {
	Key         string
	Base        any  // current merged value
	BasePresent bool // key exists on the merged record
	Incoming    any  // owner-prefixed value
	Protected   bool // key is a protected schema field
}

// Rule is a named predicate with a fixed outcome. Rules are evaluated in
// order and the first one that applies decides the field.
type Rule struct {
	Name    string
	Outcome Outcome
	Applies func(f Field) bool
}

// Rule names, also used in provenance decisions.
const (
	RuleProtectedField       = "protected-field"
	RuleAbsentKey            = "absent-key"
	RuleFalsyReplace         = "falsy-replace"
	RuleCollectionLastWriter = "collection-last-writer"
	RuleKeepBase             = "keep-base"

	// Rules applied outside the per-field loop.
	RuleIdentity          = "identity"
	RulePricingPrecedence = "pricing-precedence"
	RuleBase              = "base"
	RulePassThrough       = "pass-through"
)

// IsProtected skips schema fields so the owner-prefixed side never clobbers
// schema detail, even where the base lacks it.
func IsProtected(f Field) bool {
	return f.Protected
}

// IsAbsent applies when the merged record has no such key.
func IsAbsent(f Field) bool {
	return !f.BasePresent
}

// IsFalsyReplaceable applies when the merged value is empty and the
// incoming one is not.
func IsFalsyReplaceable(f Field) bool {
	return !records.IsTruthy(f.Base) && records.IsTruthy(f.Incoming)
}

// IsCollectionOverwrite applies when both values are non-empty sequences or
// mappings; the owner-prefixed value wins.
func IsCollectionOverwrite(f Field) bool {
	return !f.Protected &&
		records.IsCollection(f.Base) && records.IsTruthy(f.Base) &&
		records.IsCollection(f.Incoming) && records.IsTruthy(f.Incoming)
}

// Always applies unconditionally.
func Always(Field) bool {
	return true
}

// DefaultRules returns the merge precedence in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: RuleProtectedField, Outcome: OutcomeSkip, Applies: IsProtected},
		{Name: RuleAbsentKey, Outcome: OutcomeAdd, Applies: IsAbsent},
		{Name: RuleFalsyReplace, Outcome: OutcomeReplace, Applies: IsFalsyReplaceable},
		{Name: RuleCollectionLastWriter, Outcome: OutcomeReplace, Applies: IsCollectionOverwrite},
		{Name: RuleKeepBase, Outcome: OutcomeKeep, Applies: Always},
	}
}

// Decide returns the first rule in rules that applies to f. When none
// applies the field keeps its base value.
func Decide(rules []Rule, f Field) Rule {
	for _, rule := range rules {
		if rule.Applies(f) {
			return rule
		}
	}
	return Rule{Name: RuleKeepBase, Outcome: OutcomeKeep, Applies: Always}
}
